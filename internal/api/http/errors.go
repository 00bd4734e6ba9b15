package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/logger"
	"yamlrg-backend/internal/service"
)

// Error codes
const (
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeInvalidState    = "INVALID_OPERATION"
	ErrCodeProviderFailure = "PROVIDER_REJECTED"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// APIError is the JSON body of every error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(code, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

func NewAPIErrorWithDetails(code, message string, details any) *APIError {
	return &APIError{Code: code, Message: message, Details: details}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, apiErr *APIError) {
	writeJSON(w, status, apiErr)
}

func unauthenticated(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Authentication required"
	}
	respondWithError(w, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

func badRequest(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Invalid request"
	}
	respondWithError(w, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// respondError maps a service error onto a status code and envelope.
// Downstream details stay in the log; clients get a generic message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	var perr *service.ProviderError

	switch {
	case errors.As(err, &verr):
		respondWithError(w, http.StatusBadRequest,
			NewAPIErrorWithDetails(ErrCodeInvalidInput, verr.Error(), map[string]string{"field": verr.Field}))
	case errors.Is(err, domain.ErrUnauthorized):
		respondWithError(w, http.StatusForbidden, NewAPIError(ErrCodeForbidden, "Access denied"))
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, NewAPIError(ErrCodeNotFound, "Resource not found"))
	case errors.Is(err, domain.ErrConflict):
		respondWithError(w, http.StatusConflict, NewAPIError(ErrCodeConflict, err.Error()))
	case errors.Is(err, domain.ErrInvalidTransition):
		respondWithError(w, http.StatusConflict, NewAPIError(ErrCodeInvalidState, err.Error()))
	case errors.As(err, &perr):
		respondWithError(w, http.StatusBadRequest,
			NewAPIErrorWithDetails(ErrCodeProviderFailure, "Email provider rejected the message",
				map[string]any{"status": perr.StatusCode, "body": perr.Body}))
	default:
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondWithError(w, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, "Internal server error"))
	}
}

// decodeBody reads a JSON request body into v, rejecting unknown trailing data
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}
