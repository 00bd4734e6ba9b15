package domain

type JoinRequestStatus string

const (
	JoinRequestStatusPending  JoinRequestStatus = "pending"
	JoinRequestStatusApproved JoinRequestStatus = "approved"
	JoinRequestStatusRejected JoinRequestStatus = "rejected"
)

// MaxInterestsLength bounds the free-text interests field, counted in characters.
const MaxInterestsLength = 250

// Valid reports whether s is one of the known request states
func (s JoinRequestStatus) Valid() bool {
	switch s {
	case JoinRequestStatusPending, JoinRequestStatusApproved, JoinRequestStatusRejected:
		return true
	}
	return false
}

// JoinRequest is a prospective member's application. It is independent of any
// UserAccount until reconciled on first sign-in.
type JoinRequest struct {
	ID          string            `json:"id,omitempty"`
	Email       string            `json:"email"`
	Name        string            `json:"name"`
	Interests   string            `json:"interests"`
	LinkedinURL string            `json:"linkedinUrl"`
	Status      JoinRequestStatus `json:"status"`
	CreatedAt   string            `json:"createdAt"`
	ApprovedAt  *string           `json:"approvedAt"`
	ApprovedBy  *string           `json:"approvedBy"`
}

// ReconcileResult is the outcome of matching a first-time identity against join requests
type ReconcileResult string

const (
	ReconcileCreated         ReconcileResult = "created"
	ReconcileExists          ReconcileResult = "exists"
	ReconcilePendingNotice   ReconcileResult = "pending"
	ReconcileNoRequestNotice ReconcileResult = "no_request"
)
