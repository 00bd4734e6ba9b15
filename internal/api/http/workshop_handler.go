package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/utils"
)

type workshopsResponse struct {
	Upcoming []domain.Workshop `json:"upcoming"`
	Past     []domain.Workshop `json:"past"`
}

func (h *handlers) listWorkshops(w http.ResponseWriter, r *http.Request) {
	workshops, err := h.svc.Workshops.ListWorkshops(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	upcoming, past := utils.SplitWorkshops(workshops, time.Now())
	writeJSON(w, http.StatusOK, workshopsResponse{Upcoming: upcoming, Past: past})
}

func (h *handlers) getWorkshop(w http.ResponseWriter, r *http.Request) {
	workshop, err := h.svc.Workshops.GetWorkshop(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workshop)
}

func (h *handlers) createWorkshop(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	var workshop domain.Workshop
	if err := decodeBody(r, &workshop); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	workshop.ID = ""
	if err := h.svc.Workshops.CreateWorkshop(r.Context(), identity.Email, &workshop); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, workshop)
}

func (h *handlers) updateWorkshop(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	var workshop domain.Workshop
	if err := decodeBody(r, &workshop); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	workshop.ID = mux.Vars(r)["id"]
	if err := h.svc.Workshops.UpdateWorkshop(r.Context(), identity.Email, &workshop); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workshop)
}

func (h *handlers) deleteWorkshop(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	if err := h.svc.Workshops.DeleteWorkshop(r.Context(), identity.Email, mux.Vars(r)["id"]); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type presentationRequestBody struct {
	Title        string                  `json:"title"`
	Description  string                  `json:"description"`
	Type         domain.PresentationType `json:"type"`
	ProposedDate string                  `json:"proposedDate"`
	UserName     string                  `json:"userName"`
}

func (h *handlers) submitPresentationRequest(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	var body presentationRequestBody
	if err := decodeBody(r, &body); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	req := &domain.PresentationRequest{
		Title:        body.Title,
		Description:  body.Description,
		Type:         body.Type,
		ProposedDate: body.ProposedDate,
		UserName:     body.UserName,
	}
	if err := h.svc.Workshops.SubmitPresentationRequest(r.Context(), identity, req); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *handlers) listPresentationRequests(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	reqs, err := h.svc.Workshops.ListPresentationRequests(r.Context(), identity.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

type presentationStatusBody struct {
	Status domain.PresentationStatus `json:"status"`
}

func (h *handlers) setPresentationRequestStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	var body presentationStatusBody
	if err := decodeBody(r, &body); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	req, err := h.svc.Workshops.SetPresentationRequestStatus(r.Context(), identity.Email, mux.Vars(r)["id"], body.Status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
