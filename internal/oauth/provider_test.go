package oauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumina-app/lumina-backend/internal/config"
)

func TestRegistryActivation(t *testing.T) {
	cfg := &config.Config{
		GoogleClientID:     "google-client",
		GoogleClientSecret: "secret",
		GoogleCallbackURL:  "https://lumina.example/auth/google/callback",
	}

	r := NewRegistry(cfg)

	_, ok := r.Get("google")
	assert.True(t, ok)
	_, ok = r.Get("facebook")
	assert.False(t, ok)
	_, ok = r.Get("apple")
	assert.False(t, ok)
	assert.Len(t, r.Names(), 1)
}

func TestRegistryEmptyConfig(t *testing.T) {
	r := NewRegistry(&config.Config{})
	assert.Empty(t, r.Names())
}

// Apple needs a readable private key; a bad path must disable the provider
// instead of failing startup.
func TestRegistryAppleKeyFailure(t *testing.T) {
	cfg := &config.Config{
		AppleClientID:       "com.lumina.web",
		AppleTeamID:         "TEAM123",
		AppleKeyID:          "KEY123",
		ApplePrivateKeyPath: "/nonexistent/AuthKey.p8",
		AppleCallbackURL:    "https://lumina.example/auth/apple/callback",
	}

	r := NewRegistry(cfg)
	_, ok := r.Get("apple")
	assert.False(t, ok)
}

func TestGoogleAuthCodeURL(t *testing.T) {
	p := NewGoogleProvider("client-id", "secret", "https://lumina.example/auth/google/callback")

	u := p.AuthCodeURL("state-token")
	require.NotEmpty(t, u)
	assert.Contains(t, u, "state=state-token")
	assert.Contains(t, u, "client_id=client-id")
	assert.Equal(t, "google", p.Name())
}

func TestFacebookAuthCodeURL(t *testing.T) {
	p := NewFacebookProvider("app-id", "secret", "https://lumina.example/auth/facebook/callback")

	u := p.AuthCodeURL("state-token")
	require.NotEmpty(t, u)
	assert.Contains(t, u, "state=state-token")
	assert.Equal(t, "facebook", p.Name())
}
