package service

import (
	"context"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/utils"
)

type AuthService interface {
	SubmitJoinRequest(ctx context.Context, email, name, interests, linkedinURL string) (*domain.JoinRequest, error)
	// ReconcileOnFirstLogin materializes an account for an approved applicant.
	// The account is returned for ReconcileCreated and ReconcileExists.
	ReconcileOnFirstLogin(ctx context.Context, identity domain.Identity) (domain.ReconcileResult, *domain.UserAccount, error)
}

// DecisionResult carries a committed decision. NotificationErr is set when the
// welcome email failed; the decision itself still stands.
type DecisionResult struct {
	Request         *domain.JoinRequest
	NotificationErr error
}

type AdminService interface {
	ListJoinRequests(ctx context.Context, actorEmail string) ([]domain.JoinRequest, error)
	DecideJoinRequest(ctx context.Context, actorEmail, requestID string, outcome domain.JoinRequestStatus) (*DecisionResult, error)
	RevertJoinRequest(ctx context.Context, actorEmail, requestID string) (*domain.JoinRequest, error)

	ListUsers(ctx context.Context, actorEmail string, sortBy utils.UserSort) ([]domain.UserAccount, error)
	ApproveUser(ctx context.Context, actorEmail, uid string) error
	RemoveApproval(ctx context.Context, actorEmail, uid string) error
	SetMemberVisibility(ctx context.Context, actorEmail, uid string, show bool) error
	SetProfileCompleted(ctx context.Context, actorEmail, uid string, completed bool) error
}

type UserService interface {
	GetProfile(ctx context.Context, actor domain.Identity, uid string) (*domain.UserAccount, error)
	UpdateProfile(ctx context.Context, actor domain.Identity, uid string, update domain.ProfileUpdate) (*domain.UserAccount, error)
	AddJobListing(ctx context.Context, actor domain.Identity, uid string, listing domain.JobListing) (*domain.UserAccount, error)
	RemoveJobListing(ctx context.Context, actor domain.Identity, uid string, index int) (*domain.UserAccount, error)
	DeleteAccount(ctx context.Context, actor domain.Identity, uid string) error

	ListDirectory(ctx context.Context, viewer domain.Identity) ([]domain.UserAccount, error)
	MemberGrowth(ctx context.Context, viewer domain.Identity) ([]utils.GrowthPoint, error)
	ListJobs(ctx context.Context, viewer domain.Identity) ([]utils.JobPost, error)
}

type WorkshopService interface {
	ListWorkshops(ctx context.Context) ([]domain.Workshop, error)
	GetWorkshop(ctx context.Context, id string) (*domain.Workshop, error)
	CreateWorkshop(ctx context.Context, actorEmail string, w *domain.Workshop) error
	UpdateWorkshop(ctx context.Context, actorEmail string, w *domain.Workshop) error
	DeleteWorkshop(ctx context.Context, actorEmail, id string) error

	SubmitPresentationRequest(ctx context.Context, actor domain.Identity, req *domain.PresentationRequest) error
	ListPresentationRequests(ctx context.Context, actorEmail string) ([]domain.PresentationRequest, error)
	SetPresentationRequestStatus(ctx context.Context, actorEmail, id string, status domain.PresentationStatus) (*domain.PresentationRequest, error)
}

type EmailService interface {
	SendApprovalEmail(ctx context.Context, to string) error
	SendPendingRequestDigest(ctx context.Context, to string, pending []domain.JoinRequest) error
	SendProfileReminder(ctx context.Context, to, name string) error
}

// Notifier is the side channel invoked after a join request is approved
type Notifier interface {
	NotifyApproved(ctx context.Context, req domain.JoinRequest) error
}
