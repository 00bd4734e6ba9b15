package identity

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/logger"
)

// NewFirebaseApp initializes the Firebase Admin SDK. An empty credentials
// file falls back to application default credentials.
func NewFirebaseApp(ctx context.Context, projectID, credentialsFile string) (*firebase.App, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase: %w", err)
	}
	return app, nil
}

// FirebaseProvider verifies Firebase ID tokens and manages Firebase Auth users
type FirebaseProvider struct {
	client *auth.Client
}

func NewFirebaseProvider(ctx context.Context, app *firebase.App) (*FirebaseProvider, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}
	return &FirebaseProvider{client: client}, nil
}

func (p *FirebaseProvider) VerifyToken(ctx context.Context, token string) (*domain.Identity, error) {
	verified, err := p.client.VerifyIDToken(ctx, token)
	if err != nil {
		logger.Debug("ID token rejected", "error", err)
		return nil, ErrInvalidToken
	}
	return &domain.Identity{
		UID:         verified.UID,
		Email:       claimString(verified.Claims, "email"),
		DisplayName: claimString(verified.Claims, "name"),
		PhotoURL:    claimString(verified.Claims, "picture"),
	}, nil
}

func (p *FirebaseProvider) GetIdentity(ctx context.Context, uid string) (*domain.Identity, error) {
	logger.ExternalServiceCall("firebase-auth", "GetUser", "uid", uid)
	user, err := p.client.GetUser(ctx, uid)
	logger.ExternalServiceResult("firebase-auth", "GetUser", err)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, fmt.Errorf("identity %s: %w", uid, domain.ErrNotFound)
		}
		return nil, err
	}
	return &domain.Identity{
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
	}, nil
}

func (p *FirebaseProvider) DeleteIdentity(ctx context.Context, uid string) error {
	logger.ExternalServiceCall("firebase-auth", "DeleteUser", "uid", uid)
	err := p.client.DeleteUser(ctx, uid)
	logger.ExternalServiceResult("firebase-auth", "DeleteUser", err)
	if err != nil && auth.IsUserNotFound(err) {
		return fmt.Errorf("identity %s: %w", uid, domain.ErrNotFound)
	}
	return err
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
