package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/security"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLocalProvider(t *testing.T) {
	ctx := context.Background()
	p := NewLocalProvider(security.NewTokenManager(testSecret))
	alice := domain.Identity{UID: "u1", Email: "a@x.com", DisplayName: "Alice"}

	token, err := p.Register(alice, time.Hour)
	require.NoError(t, err)

	t.Run("VerifyToken", func(t *testing.T) {
		got, err := p.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, alice, *got)
	})

	t.Run("Rejects garbage", func(t *testing.T) {
		_, err := p.VerifyToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Rejects foreign signature", func(t *testing.T) {
		other := security.NewTokenManager("fedcba9876543210fedcba9876543210")
		forged, err := other.GenerateIdentityToken(alice, time.Hour)
		require.NoError(t, err)
		_, err = p.VerifyToken(ctx, forged)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Verified tokens register the subject", func(t *testing.T) {
		bob := domain.Identity{UID: "u2", Email: "b@x.com"}
		raw, err := security.NewTokenManager(testSecret).GenerateIdentityToken(bob, time.Hour)
		require.NoError(t, err)
		_, err = p.VerifyToken(ctx, raw)
		require.NoError(t, err)

		got, err := p.GetIdentity(ctx, "u2")
		require.NoError(t, err)
		assert.Equal(t, "b@x.com", got.Email)
	})

	t.Run("DeleteIdentity", func(t *testing.T) {
		require.NoError(t, p.DeleteIdentity(ctx, "u1"))
		_, err := p.GetIdentity(ctx, "u1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, p.DeleteIdentity(ctx, "u1"), domain.ErrNotFound)
	})
}
