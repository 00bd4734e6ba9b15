package repository

import (
	"context"

	"yamlrg-backend/internal/domain"
)

type JoinRequestRepository interface {
	// Create stores a new request and assigns req.ID
	Create(ctx context.Context, req *domain.JoinRequest) error
	GetByID(ctx context.Context, id string) (*domain.JoinRequest, error)
	ListByEmail(ctx context.Context, email string) ([]domain.JoinRequest, error)
	ListByStatus(ctx context.Context, status domain.JoinRequestStatus) ([]domain.JoinRequest, error)
	// List returns every request, newest first
	List(ctx context.Context) ([]domain.JoinRequest, error)
	// UpdateDecision writes status and the approval stamp; fails with NotFound if absent
	UpdateDecision(ctx context.Context, id string, status domain.JoinRequestStatus, approvedAt, approvedBy *string) error
}

type UserAccountRepository interface {
	// Create writes the full account, replacing any document under the same uid
	Create(ctx context.Context, account *domain.UserAccount) error
	GetByUID(ctx context.Context, uid string) (*domain.UserAccount, error)
	// Update merges fields into an existing account; fails with NotFound if absent
	Update(ctx context.Context, uid string, fields map[string]any) error
	Delete(ctx context.Context, uid string) error
	List(ctx context.Context) ([]domain.UserAccount, error)
	ListVisible(ctx context.Context) ([]domain.UserAccount, error)
	ListByEmails(ctx context.Context, emails []string) ([]domain.UserAccount, error)
}

type WorkshopRepository interface {
	Create(ctx context.Context, w *domain.Workshop) error
	GetByID(ctx context.Context, id string) (*domain.Workshop, error)
	Update(ctx context.Context, w *domain.Workshop) error
	Delete(ctx context.Context, id string) error
	// List returns every workshop, latest date first
	List(ctx context.Context) ([]domain.Workshop, error)
}

type PresentationRequestRepository interface {
	Create(ctx context.Context, req *domain.PresentationRequest) error
	GetByID(ctx context.Context, id string) (*domain.PresentationRequest, error)
	// List returns every request, newest first
	List(ctx context.Context) ([]domain.PresentationRequest, error)
	UpdateStatus(ctx context.Context, id string, status domain.PresentationStatus, completedAt, completedBy *string) error
}
