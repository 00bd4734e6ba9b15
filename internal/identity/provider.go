package identity

import (
	"context"
	"errors"

	"yamlrg-backend/internal/domain"
)

// ErrInvalidToken is returned when a bearer credential cannot be verified
var ErrInvalidToken = errors.New("invalid identity token")

// Provider is the server-side view of the identity provider. Sign-in and
// sign-out happen in the browser; the backend only verifies and deletes.
type Provider interface {
	// VerifyToken checks a bearer credential and returns the subject it names
	VerifyToken(ctx context.Context, token string) (*domain.Identity, error)
	// GetIdentity looks up a subject by uid; unknown uids yield domain.ErrNotFound
	GetIdentity(ctx context.Context, uid string) (*domain.Identity, error)
	// DeleteIdentity removes the credential for uid
	DeleteIdentity(ctx context.Context, uid string) error
}
