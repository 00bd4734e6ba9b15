package http

import (
	"net/http"
	"strings"

	"yamlrg-backend/internal/logger"
)

type sendApprovalEmailBody struct {
	Email string `json:"email"`
}

// sendApprovalEmail lets an admin resend the welcome email by hand.
// 403 for non-admins, 400 for a bad body or a provider rejection, 500 otherwise.
func (h *handlers) sendApprovalEmail(w http.ResponseWriter, r *http.Request) {
	identity, ok := caller(w, r)
	if !ok {
		return
	}
	if !h.svc.Policy.IsAdmin(identity.Email) {
		respondWithError(w, http.StatusForbidden, NewAPIError(ErrCodeForbidden, "Only admins can send approval emails"))
		return
	}

	var body sendApprovalEmailBody
	if err := decodeBody(r, &body); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	to := strings.TrimSpace(body.Email)
	if to == "" {
		badRequest(w, "email is required")
		return
	}

	if err := h.svc.Email.SendApprovalEmail(r.Context(), to); err != nil {
		logger.WarnContext(r.Context(), "Approval email failed", "to", to, "actor", identity.Email, "error", err)
		respondError(w, r, err)
		return
	}
	logger.InfoContext(r.Context(), "Approval email sent", "to", to, "actor", identity.Email)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
