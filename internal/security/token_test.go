package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamlrg-backend/internal/domain"
)

func TestTokenManager(t *testing.T) {
	tm := NewTokenManager("0123456789abcdef0123456789abcdef")
	identity := domain.Identity{UID: "uid-1", Email: "a@x.com", DisplayName: "A", PhotoURL: "https://img/a.png"}

	t.Run("Round trip", func(t *testing.T) {
		token, err := tm.GenerateIdentityToken(identity, time.Hour)
		require.NoError(t, err)

		claims, err := tm.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, identity, claims.Identity())
	})

	t.Run("Expired", func(t *testing.T) {
		token, err := tm.GenerateIdentityToken(identity, -time.Minute)
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other := NewTokenManager("ffffffffffffffffffffffffffffffff")
		token, err := other.GenerateIdentityToken(identity, time.Hour)
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := tm.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
