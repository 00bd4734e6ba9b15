package http

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/identity"
	"yamlrg-backend/internal/security"
	"yamlrg-backend/internal/service"
)

// Services bundles what the HTTP handlers call into
type Services struct {
	Auth      service.AuthService
	Admin     service.AdminService
	Users     service.UserService
	Workshops service.WorkshopService
	Email     service.EmailService
	Policy    *security.Policy
}

// NewRouter builds the API handler. Every route is named; the name selects its
// security level in config.RouteSecurityConfig.
func NewRouter(svc Services, identities identity.Provider, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.Use(requestLogger)
	r.Use(NewAuthMiddleware(identities).Handler)

	h := &handlers{svc: svc}

	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet).Name("Health")

	api := r.PathPrefix("/api").Subrouter()

	// Session and join requests
	api.HandleFunc("/session", h.reconcileSession).Methods(http.MethodPost).Name("ReconcileSession")
	api.HandleFunc("/join-requests", h.submitJoinRequest).Methods(http.MethodPost).Name("SubmitJoinRequest")
	api.HandleFunc("/join-requests", h.listJoinRequests).Methods(http.MethodGet).Name("ListJoinRequests")
	api.HandleFunc("/join-requests/{id}/decision", h.decideJoinRequest).Methods(http.MethodPost).Name("DecideJoinRequest")
	api.HandleFunc("/join-requests/{id}/revert", h.revertJoinRequest).Methods(http.MethodPost).Name("RevertJoinRequest")

	// Members
	api.HandleFunc("/members", h.listMembers).Methods(http.MethodGet).Name("ListMembers")
	api.HandleFunc("/members/growth", h.memberGrowth).Methods(http.MethodGet).Name("MemberGrowth")
	api.HandleFunc("/jobs", h.listJobs).Methods(http.MethodGet).Name("ListJobs")
	api.HandleFunc("/users/{uid}", h.getUser).Methods(http.MethodGet).Name("GetUser")
	api.HandleFunc("/users/{uid}", h.updateUser).Methods(http.MethodPatch).Name("UpdateUser")
	api.HandleFunc("/users/{uid}", h.deleteUser).Methods(http.MethodDelete).Name("DeleteUser")
	api.HandleFunc("/users/{uid}/jobs", h.addJobListing).Methods(http.MethodPost).Name("AddJobListing")
	api.HandleFunc("/users/{uid}/jobs/{index:[0-9]+}", h.removeJobListing).Methods(http.MethodDelete).Name("RemoveJobListing")

	// User administration
	api.HandleFunc("/admin/users", h.listUsers).Methods(http.MethodGet).Name("ListUsers")
	api.HandleFunc("/admin/users/{uid}/approval", h.approveUser).Methods(http.MethodPut).Name("ApproveUser")
	api.HandleFunc("/admin/users/{uid}/approval", h.removeApproval).Methods(http.MethodDelete).Name("RemoveApproval")
	api.HandleFunc("/admin/users/{uid}/visibility", h.setMemberVisibility).Methods(http.MethodPut).Name("SetMemberVisibility")
	api.HandleFunc("/admin/users/{uid}/profile-completed", h.setProfileCompleted).Methods(http.MethodPut).Name("SetProfileCompleted")

	// Workshops and presentations
	api.HandleFunc("/workshops", h.listWorkshops).Methods(http.MethodGet).Name("ListWorkshops")
	api.HandleFunc("/workshops", h.createWorkshop).Methods(http.MethodPost).Name("CreateWorkshop")
	api.HandleFunc("/workshops/{id}", h.getWorkshop).Methods(http.MethodGet).Name("GetWorkshop")
	api.HandleFunc("/workshops/{id}", h.updateWorkshop).Methods(http.MethodPut).Name("UpdateWorkshop")
	api.HandleFunc("/workshops/{id}", h.deleteWorkshop).Methods(http.MethodDelete).Name("DeleteWorkshop")
	api.HandleFunc("/presentation-requests", h.submitPresentationRequest).Methods(http.MethodPost).Name("SubmitPresentationRequest")
	api.HandleFunc("/presentation-requests", h.listPresentationRequests).Methods(http.MethodGet).Name("ListPresentationRequests")
	api.HandleFunc("/presentation-requests/{id}/status", h.setPresentationRequestStatus).Methods(http.MethodPut).Name("SetPresentationRequestStatus")

	// Notification dispatch
	api.HandleFunc("/send-approval-email", h.sendApprovalEmail).Methods(http.MethodPost).Name("SendApprovalEmail")

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})(r)
}

type handlers struct {
	svc Services
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// caller returns the identity set by the auth middleware. Handlers on
// authenticated routes can rely on it; the check guards misconfigured routes.
func caller(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		unauthenticated(w, "")
	}
	return identity, ok
}
