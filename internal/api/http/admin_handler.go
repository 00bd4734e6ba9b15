package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"yamlrg-backend/internal/utils"
)

func (h *handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	sortBy := utils.UserSort(r.URL.Query().Get("sort"))
	switch sortBy {
	case "":
		sortBy = utils.SortByApproval
	case utils.SortByApproval, utils.SortByName, utils.SortByDate:
	default:
		badRequest(w, "sort must be approval, name or date")
		return
	}
	users, err := h.svc.Admin.ListUsers(r.Context(), identity.Email, sortBy)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *handlers) approveUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	if err := h.svc.Admin.ApproveUser(r.Context(), identity.Email, mux.Vars(r)["uid"]); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) removeApproval(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	if err := h.svc.Admin.RemoveApproval(r.Context(), identity.Email, mux.Vars(r)["uid"]); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type flagBody struct {
	Value *bool `json:"value"`
}

func (h *handlers) setMemberVisibility(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	var body flagBody
	if err := decodeBody(r, &body); err != nil || body.Value == nil {
		badRequest(w, "value is required")
		return
	}
	if err := h.svc.Admin.SetMemberVisibility(r.Context(), identity.Email, mux.Vars(r)["uid"], *body.Value); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) setProfileCompleted(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	var body flagBody
	if err := decodeBody(r, &body); err != nil || body.Value == nil {
		badRequest(w, "value is required")
		return
	}
	if err := h.svc.Admin.SetProfileCompleted(r.Context(), identity.Email, mux.Vars(r)["uid"], *body.Value); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
