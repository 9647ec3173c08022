package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todonext/backend/internal/infrastructure/config"
)

func newTestManager(ttl time.Duration) *TokenManager {
	cfg := &config.Config{}
	cfg.Server.Secret = "test-secret"
	cfg.Server.TokenTTL = ttl
	return NewTokenManager(cfg)
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	m := newTestManager(time.Hour)

	token, expiresAt, err := m.Issue("user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	userID, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestTokenManager_VerifyExpired(t *testing.T) {
	m := newTestManager(-time.Minute)

	token, _, err := m.Issue("user-1")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_VerifyWrongSecret(t *testing.T) {
	m := newTestManager(time.Hour)
	other := newTestManager(time.Hour)
	other.secret = []byte("another-secret")

	token, _, err := m.Issue("user-1")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_VerifyGarbage(t *testing.T) {
	m := newTestManager(time.Hour)

	_, err := m.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
