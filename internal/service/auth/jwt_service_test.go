package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickunderhill/ai-interviewer/internal/config"
)

const testSecret = "test-secret-key-thirty-two-chars!"

func testConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: 60,
	}
}

func TestNewJWTService_SecretTooShort(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 characters")
}

func TestJWTService_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testConfig())
	require.NoError(t, err)

	userID := uuid.New()
	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, 3, len(strings.Split(token, ".")), "JWT should have three segments")

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestJWTService_ExpiredToken(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testConfig())
	require.NoError(t, err)
	impl := svc.(*hmacJWTService)

	// Issue the token in the past, beyond lifetime plus clock skew.
	issuedAt := time.Now().Add(-2 * time.Hour)
	impl.timeFunc = func() time.Time { return issuedAt }

	token, err := svc.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	impl.timeFunc = time.Now
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_InvalidTokens(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testConfig())
	require.NoError(t, err)

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		_, err := svc.ValidateToken(context.Background(), "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		t.Parallel()
		other, err := NewJWTService(config.AuthConfig{
			JWTSecret:            "another-secret-key-thirty-two-ch!",
			TokenLifetimeMinutes: 60,
		})
		require.NoError(t, err)

		token, err := other.GenerateToken(context.Background(), uuid.New())
		require.NoError(t, err)

		_, err = svc.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		_, err := svc.ValidateToken(context.Background(), "")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
