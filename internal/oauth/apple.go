package oauth

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/lumina-app/lumina-backend/internal/models"
)

const (
	appleAuthURL  = "https://appleid.apple.com/auth/authorize"
	appleTokenURL = "https://appleid.apple.com/auth/token"
	appleJWKSURL  = "https://appleid.apple.com/auth/keys"
	appleIssuer   = "https://appleid.apple.com"
)

// AppleProvider implements Sign in with Apple. Unlike Google/Facebook the
// client secret is not static: it is an ES256 JWT signed with the team's
// .p8 key, minted per token request.
type AppleProvider struct {
	clientID    string
	teamID      string
	keyID       string
	privateKey  *ecdsa.PrivateKey
	callbackURL string
	jwks        *keyfunc.JWKS
	httpClient  *http.Client
}

func NewAppleProvider(clientID, teamID, keyID, privateKeyPath, callbackURL string) (*AppleProvider, error) {
	pemBytes, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read apple private key: %w", err)
	}
	privateKey, err := jwt.ParseECPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse apple private key: %w", err)
	}

	jwks, err := keyfunc.Get(appleJWKSURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch apple JWKS: %w", err)
	}

	return &AppleProvider{
		clientID:    clientID,
		teamID:      teamID,
		keyID:       keyID,
		privateKey:  privateKey,
		callbackURL: callbackURL,
		jwks:        jwks,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (p *AppleProvider) Name() string { return models.ProviderApple }

func (p *AppleProvider) AuthCodeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", p.clientID)
	q.Set("redirect_uri", p.callbackURL)
	q.Set("response_type", "code")
	q.Set("scope", "name email")
	q.Set("response_mode", "form_post")
	q.Set("state", state)
	return appleAuthURL + "?" + q.Encode()
}

func (p *AppleProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	secret, err := p.clientSecret()
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("client_id", p.clientID)
	form.Set("client_secret", secret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", p.callbackURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, appleTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apple token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("apple token endpoint returned status %d", resp.StatusCode)
	}

	var tokenResp struct {
		IDToken string `json:"id_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("failed to decode apple token response: %w", err)
	}
	if tokenResp.IDToken == "" {
		return nil, fmt.Errorf("apple token response missing id_token")
	}

	return p.verifyIDToken(tokenResp.IDToken)
}

// clientSecret mints the short-lived ES256 JWT Apple requires in place of a
// static secret.
func (p *AppleProvider) clientSecret() (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": p.teamID,
		"iat": now.Unix(),
		"exp": now.Add(5 * time.Minute).Unix(),
		"aud": appleIssuer,
		"sub": p.clientID,
	})
	token.Header["kid"] = p.keyID

	signed, err := token.SignedString(p.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign apple client secret: %w", err)
	}
	return signed, nil
}

func (p *AppleProvider) verifyIDToken(idToken string) (*Identity, error) {
	var claims struct {
		Email string `json:"email"`
		jwt.RegisteredClaims
	}

	_, err := jwt.ParseWithClaims(idToken, &claims, p.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(appleIssuer),
		jwt.WithAudience(p.clientID),
	)
	if err != nil {
		return nil, fmt.Errorf("apple id_token verification failed: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("apple id_token missing subject")
	}

	email := claims.Email
	if email == "" {
		email = "apple_" + claims.Subject + "@placeholder.com"
	}

	return &Identity{ProviderID: claims.Subject, Email: email, Name: "Apple User"}, nil
}
