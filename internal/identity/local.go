package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/security"
)

// LocalProvider stands in for Firebase Auth in local runs and tests.
// Identities are known once registered or once a token naming them is verified.
type LocalProvider struct {
	tokens security.TokenManager

	mu         sync.RWMutex
	identities map[string]domain.Identity
}

func NewLocalProvider(tokens security.TokenManager) *LocalProvider {
	return &LocalProvider{
		tokens:     tokens,
		identities: make(map[string]domain.Identity),
	}
}

// Register records identity and returns a bearer token for it
func (p *LocalProvider) Register(identity domain.Identity, ttl time.Duration) (string, error) {
	token, err := p.tokens.GenerateIdentityToken(identity, ttl)
	if err != nil {
		return "", err
	}
	p.mu.Lock()
	p.identities[identity.UID] = identity
	p.mu.Unlock()
	return token, nil
}

func (p *LocalProvider) VerifyToken(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := p.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	identity := claims.Identity()

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.identities[identity.UID]; !ok {
		p.identities[identity.UID] = identity
	}
	return &identity, nil
}

func (p *LocalProvider) GetIdentity(ctx context.Context, uid string) (*domain.Identity, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	identity, ok := p.identities[uid]
	if !ok {
		return nil, fmt.Errorf("identity %s: %w", uid, domain.ErrNotFound)
	}
	return &identity, nil
}

func (p *LocalProvider) DeleteIdentity(ctx context.Context, uid string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.identities[uid]; !ok {
		return fmt.Errorf("identity %s: %w", uid, domain.ErrNotFound)
	}
	delete(p.identities, uid)
	return nil
}
