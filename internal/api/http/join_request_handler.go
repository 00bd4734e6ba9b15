package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"yamlrg-backend/internal/domain"
)

type submitJoinRequestBody struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Interests   string `json:"interests"`
	LinkedinURL string `json:"linkedinUrl"`
}

func (h *handlers) submitJoinRequest(w http.ResponseWriter, r *http.Request) {
	var body submitJoinRequestBody
	if err := decodeBody(r, &body); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	req, err := h.svc.Auth.SubmitJoinRequest(r.Context(), body.Email, body.Name, body.Interests, body.LinkedinURL)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

type sessionResponse struct {
	Result  domain.ReconcileResult `json:"result"`
	Account *domain.UserAccount    `json:"account,omitempty"`
	IsAdmin bool                   `json:"isAdmin"`
}

// reconcileSession runs on every sign-in; it creates the account for an approved applicant
func (h *handlers) reconcileSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	result, account, err := h.svc.Auth.ReconcileOnFirstLogin(r.Context(), identity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Result:  result,
		Account: account,
		IsAdmin: h.svc.Policy.IsAdmin(identity.Email),
	})
}

func (h *handlers) listJoinRequests(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	reqs, err := h.svc.Admin.ListJoinRequests(r.Context(), identity.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

type decisionBody struct {
	Status domain.JoinRequestStatus `json:"status"`
}

type decisionResponse struct {
	Request *domain.JoinRequest `json:"request"`
	// NotificationError is set when the decision stands but the welcome email failed
	NotificationError string `json:"notificationError,omitempty"`
}

func (h *handlers) decideJoinRequest(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	var body decisionBody
	if err := decodeBody(r, &body); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	result, err := h.svc.Admin.DecideJoinRequest(r.Context(), identity.Email, mux.Vars(r)["id"], body.Status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	resp := decisionResponse{Request: result.Request}
	if result.NotificationErr != nil {
		resp.NotificationError = result.NotificationErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) revertJoinRequest(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	req, err := h.svc.Admin.RevertJoinRequest(r.Context(), identity.Email, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
