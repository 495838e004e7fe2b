package oauth

import (
	"context"
	"log/slog"

	"github.com/lumina-app/lumina-backend/internal/config"
)

// Identity is what a provider resolves an authorization code into.
type Identity struct {
	ProviderID string
	Email      string
	Name       string
}

// Provider abstracts one OAuth login flow.
type Provider interface {
	Name() string

	// AuthCodeURL returns the provider's consent page URL for the given
	// CSRF state.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for the user's identity.
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// Registry holds the providers whose credentials are configured.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry activates each provider only when its client id is present.
func NewRegistry(cfg *config.Config) *Registry {
	r := &Registry{providers: make(map[string]Provider)}

	if cfg.GoogleClientID != "" {
		r.add(NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL))
	}
	if cfg.FacebookAppID != "" {
		r.add(NewFacebookProvider(cfg.FacebookAppID, cfg.FacebookAppSecret, cfg.FacebookCallbackURL))
	}
	if cfg.AppleClientID != "" {
		apple, err := NewAppleProvider(cfg.AppleClientID, cfg.AppleTeamID, cfg.AppleKeyID, cfg.ApplePrivateKeyPath, cfg.AppleCallbackURL)
		if err != nil {
			slog.Warn("apple sign-in disabled", "error", err)
		} else {
			r.add(apple)
		}
	}

	return r
}

func (r *Registry) add(p Provider) {
	r.providers[p.Name()] = p
	slog.Info("oauth provider enabled", "provider", p.Name())
}

func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
