package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-app/lumina-backend/internal/config"
	"github.com/lumina-app/lumina-backend/internal/models"
)

func tokenService(secret string) *AuthService {
	cfg := &config.Config{
		SessionSecret:      secret,
		TokenAccessExpiry:  time.Hour,
		TokenRefreshExpiry: 30 * 24 * time.Hour,
	}
	return NewAuthService(nil, cfg)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := tokenService("test-secret")
	user := &models.User{ID: uuid.New(), Email: "a@example.com"}

	token, err := svc.generateAccessToken(user)
	require.NoError(t, err)

	parsed, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, parsed)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "a@example.com"}

	token, err := tokenService("secret-one").generateAccessToken(user)
	require.NoError(t, err)

	_, err = tokenService("secret-two").ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenExpired(t *testing.T) {
	svc := tokenService("test-secret")
	svc.cfg.TokenAccessExpiry = -time.Minute
	user := &models.User{ID: uuid.New(), Email: "a@example.com"}

	token, err := svc.generateAccessToken(user)
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenGarbage(t *testing.T) {
	svc := tokenService("test-secret")
	_, err := svc.ParseAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashTokenStable(t *testing.T) {
	assert.Equal(t, hashToken("abc"), hashToken("abc"))
	assert.NotEqual(t, hashToken("abc"), hashToken("abd"))
	assert.Len(t, hashToken("abc"), 64)
}

func TestUserToResponseOmitsSecrets(t *testing.T) {
	user := &models.User{
		ID:               uuid.New(),
		Email:            "a@example.com",
		Password:         "bcrypt-hash",
		Name:             "Ada",
		Provider:         models.ProviderLocal,
		SubscriptionTier: models.TierFree,
	}

	resp := UserToResponse(user)
	assert.Equal(t, user.Email, resp.Email)
	assert.Equal(t, user.Name, resp.Name)
	assert.Equal(t, models.TierFree, resp.SubscriptionTier)
}
