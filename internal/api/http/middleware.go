package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"yamlrg-backend/internal/config"
	"yamlrg-backend/internal/identity"
	"yamlrg-backend/internal/logger"
)

type AuthMiddleware struct {
	identities identity.Provider
}

func NewAuthMiddleware(identities identity.Provider) *AuthMiddleware {
	return &AuthMiddleware{identities: identities}
}

// Handler authenticates requests according to the security level of the matched route.
// Public routes pass through untouched; on the others a verified identity is put in the context.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.SecurityAuthenticated
		if route := mux.CurrentRoute(r); route != nil {
			level = config.GetSecurityLevel(route.GetName())
		}

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := extractToken(r)
		if !ok {
			unauthenticated(w, "authorization token is not provided")
			return
		}

		subject, err := m.identities.VerifyToken(r.Context(), token)
		if err != nil {
			logger.DebugContext(r.Context(), "Token verification failed", "path", r.URL.Path, "error", err)
			unauthenticated(w, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), *subject)))
	})
}

func extractToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) <= 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[7:])
	return token, token != ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger logs one line per request at debug level, and server errors at error level
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		args := []any{"method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start)}
		if route := mux.CurrentRoute(r); route != nil {
			args = append(args, "route", route.GetName())
		}
		if rec.status >= http.StatusInternalServerError {
			logger.ErrorContext(r.Context(), "Request completed", args...)
			return
		}
		logger.DebugContext(r.Context(), "Request completed", args...)
	})
}
