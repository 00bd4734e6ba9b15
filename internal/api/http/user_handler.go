package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/utils"
)

// listMembers serves the directory. Optional query parameters: search, and
// status as a comma separated list of flags that must all be set.
func (h *handlers) listMembers(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	members, err := h.svc.Users.ListDirectory(r.Context(), identity)
	if err != nil {
		respondError(w, r, err)
		return
	}

	filter := utils.MemberFilter{Search: r.URL.Query().Get("search")}
	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, flag := range strings.Split(raw, ",") {
			flag = strings.TrimSpace(flag)
			if !isStatusFlag(flag) {
				badRequest(w, "unknown status flag: "+flag)
				return
			}
			filter.Flags = append(filter.Flags, flag)
		}
	}
	writeJSON(w, http.StatusOK, utils.FilterMembers(members, filter))
}

func isStatusFlag(name string) bool {
	for _, f := range domain.StatusFlags {
		if f == name {
			return true
		}
	}
	return false
}

func (h *handlers) memberGrowth(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	points, err := h.svc.Users.MemberGrowth(r.Context(), identity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *handlers) listJobs(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	jobs, err := h.svc.Users.ListJobs(r.Context(), identity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	account, err := h.svc.Users.GetProfile(r.Context(), identity, mux.Vars(r)["uid"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *handlers) updateUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	var update domain.ProfileUpdate
	if err := decodeBody(r, &update); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	account, err := h.svc.Users.UpdateProfile(r.Context(), identity, mux.Vars(r)["uid"], update)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	if err := h.svc.Users.DeleteAccount(r.Context(), identity, mux.Vars(r)["uid"]); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) addJobListing(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	var listing domain.JobListing
	if err := decodeBody(r, &listing); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	account, err := h.svc.Users.AddJobListing(r.Context(), identity, mux.Vars(r)["uid"], listing)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, account)
}

func (h *handlers) removeJobListing(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		badRequest(w, "invalid job index")
		return
	}
	account, err := h.svc.Users.RemoveJobListing(r.Context(), identity, vars["uid"], index)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}
