package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lumina-app/lumina-backend/internal/config"
	"github.com/lumina-app/lumina-backend/internal/oauth"
	"github.com/lumina-app/lumina-backend/internal/services"
)

const stateCookie = "oauth_state"

// OAuthHandler drives the authorization-code flow for every registered
// social provider. The provider name is a route parameter so new providers
// only need a Registry entry.
type OAuthHandler struct {
	registry    *oauth.Registry
	authService *services.AuthService
	cfg         *config.Config
}

func NewOAuthHandler(registry *oauth.Registry, authService *services.AuthService, cfg *config.Config) *OAuthHandler {
	return &OAuthHandler{registry: registry, authService: authService, cfg: cfg}
}

// Begin redirects the browser to the provider's consent page with a random
// state value pinned in a short-lived cookie.
func (h *OAuthHandler) Begin(c *fiber.Ctx) error {
	provider, ok := h.registry.Get(c.Params("provider"))
	if !ok {
		return h.redirectError(c, "unsupported provider")
	}

	state, err := randomState()
	if err != nil {
		return h.redirectError(c, "failed to start login")
	}

	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		Secure:   true,
		// Apple returns the code with a cross-site form POST, which a Lax
		// cookie would not survive.
		SameSite: "None",
		Path:     "/",
	})

	return c.Redirect(provider.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

// Callback completes the code exchange and hands the browser back to the
// frontend with a token pair in the URL fragment. Apple posts the code as a
// form body, the others send it as a query parameter; fiber's Ctx covers
// both through FormValue.
func (h *OAuthHandler) Callback(c *fiber.Ctx) error {
	provider, ok := h.registry.Get(c.Params("provider"))
	if !ok {
		return h.redirectError(c, "unsupported provider")
	}

	if errParam := c.FormValue("error"); errParam != "" {
		return h.redirectError(c, errParam)
	}

	state := c.FormValue("state")
	if state == "" || state != c.Cookies(stateCookie) {
		return h.redirectError(c, "state mismatch")
	}
	c.ClearCookie(stateCookie)

	code := c.FormValue("code")
	if code == "" {
		return h.redirectError(c, "missing authorization code")
	}

	identity, err := provider.Exchange(c.Context(), code)
	if err != nil {
		slog.Error("oauth exchange failed", "provider", provider.Name(), "error", err)
		return h.redirectError(c, "authentication failed")
	}

	resp, err := h.authService.LoginWithIdentity(provider.Name(), identity)
	if err != nil {
		slog.Error("oauth login failed", "provider", provider.Name(), "error", err)
		return h.redirectError(c, "authentication failed")
	}

	target := fmt.Sprintf("%s/#access_token=%s&refresh_token=%s",
		h.cfg.FrontendURL,
		url.QueryEscape(resp.AccessToken),
		url.QueryEscape(resp.RefreshToken),
	)
	return c.Redirect(target, fiber.StatusTemporaryRedirect)
}

func (h *OAuthHandler) redirectError(c *fiber.Ctx, msg string) error {
	target := fmt.Sprintf("%s/login?error=%s", h.cfg.FrontendURL, url.QueryEscape(msg))
	return c.Redirect(target, fiber.StatusTemporaryRedirect)
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
