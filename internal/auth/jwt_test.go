package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferren/application-rollup-backend/internal/auth"
)

func TestTokenManager_GenerateAndValidate(t *testing.T) {
	tm := auth.NewTokenManager("test-secret-key", time.Hour)

	token, err := tm.GenerateToken(auth.DashboardSubject)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, auth.DashboardSubject, claims.Subject)
}

func TestTokenManager_ValidateToken(t *testing.T) {
	tm := auth.NewTokenManager("test-secret-key", time.Hour)

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := tm.ValidateToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		other := auth.NewTokenManager("another-secret", time.Hour)
		token, err := other.GenerateToken(auth.DashboardSubject)
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		short := auth.NewTokenManager("test-secret-key", time.Nanosecond)
		token, err := short.GenerateToken(auth.DashboardSubject)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		_, err = short.ValidateToken(token)
		assert.Error(t, err)
	})
}
