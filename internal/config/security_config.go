// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic        SecurityLevel = iota // No authentication
	SecurityAuthenticated                      // Verified identity token required
)

// RouteSecurityConfig maps named HTTP routes to their required security level.
// Admin checks are not expressed here; services re-check the allow-list on every write.
var RouteSecurityConfig = map[string]SecurityLevel{
	// Public
	"Health":            SecurityPublic,
	"SubmitJoinRequest": SecurityPublic,
	"ListWorkshops":     SecurityPublic,
	"GetWorkshop":       SecurityPublic,

	// Session
	"ReconcileSession": SecurityAuthenticated,

	// Members
	"ListMembers":      SecurityAuthenticated,
	"MemberGrowth":     SecurityAuthenticated,
	"ListJobs":         SecurityAuthenticated,
	"GetUser":          SecurityAuthenticated,
	"UpdateUser":       SecurityAuthenticated,
	"DeleteUser":       SecurityAuthenticated,
	"AddJobListing":    SecurityAuthenticated,
	"RemoveJobListing": SecurityAuthenticated,

	// Join requests (admin)
	"ListJoinRequests":  SecurityAuthenticated,
	"DecideJoinRequest": SecurityAuthenticated,
	"RevertJoinRequest": SecurityAuthenticated,

	// User administration
	"ListUsers":           SecurityAuthenticated,
	"ApproveUser":         SecurityAuthenticated,
	"RemoveApproval":      SecurityAuthenticated,
	"SetMemberVisibility": SecurityAuthenticated,
	"SetProfileCompleted": SecurityAuthenticated,

	// Workshops and presentations
	"CreateWorkshop":               SecurityAuthenticated,
	"UpdateWorkshop":               SecurityAuthenticated,
	"DeleteWorkshop":               SecurityAuthenticated,
	"SubmitPresentationRequest":    SecurityAuthenticated,
	"ListPresentationRequests":     SecurityAuthenticated,
	"SetPresentationRequestStatus": SecurityAuthenticated,

	// Notification dispatch
	"SendApprovalEmail": SecurityAuthenticated,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := RouteSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown routes
	return SecurityAuthenticated
}
