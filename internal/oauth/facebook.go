package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"

	"github.com/lumina-app/lumina-backend/internal/models"
)

const facebookGraphURL = "https://graph.facebook.com/v19.0/me"

type FacebookProvider struct {
	conf *oauth2.Config
}

func NewFacebookProvider(appID, appSecret, callbackURL string) *FacebookProvider {
	return &FacebookProvider{
		conf: &oauth2.Config{
			ClientID:     appID,
			ClientSecret: appSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"email", "public_profile"},
			Endpoint:     facebook.Endpoint,
		},
	}
}

func (p *FacebookProvider) Name() string { return models.ProviderFacebook }

func (p *FacebookProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

func (p *FacebookProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("facebook code exchange failed: %w", err)
	}

	endpoint := facebookGraphURL + "?fields=" + url.QueryEscape("id,name,email")
	resp, err := p.conf.Client(ctx, token).Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("facebook graph request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facebook graph returned status %d", resp.StatusCode)
	}

	var info struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"` // facebook may omit email
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode facebook profile: %w", err)
	}
	if info.ID == "" {
		return nil, fmt.Errorf("facebook profile missing id")
	}

	return &Identity{ProviderID: info.ID, Email: info.Email, Name: info.Name}, nil
}
