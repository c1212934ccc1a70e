package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kongden/taskboard/internal/config"
	"github.com/kongden/taskboard/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Google delegates identity proof to Google's authorization-code flow.
// First login for an unseen identity creates the account pre-verified.
type Google struct {
	auth   *service.AuthService
	config *oauth2.Config
}

func NewGoogle(auth *service.AuthService, cfg *config.Config) *Google {
	return &Google{
		auth: auth,
		config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/google/callback",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (g *Google) Name() string {
	return "google"
}

func (g *Google) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (g *Google) Authenticate(ctx context.Context, p Presentation) (*Identity, error) {
	if p.Code == "" {
		return nil, service.ErrMissingFields
	}

	token, err := g.config.Exchange(ctx, p.Code)
	if err != nil {
		return nil, fmt.Errorf("google token exchange failed: %w", err)
	}

	client := g.config.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to get google user info: %w", err)
	}
	defer resp.Body.Close()

	var userInfo struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	err = json.NewDecoder(resp.Body).Decode(&userInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to decode google user info: %w", err)
	}

	user, err := g.auth.AuthenticateOAuth(userInfo.Email, userInfo.Name, userInfo.Picture, g.Name())
	if err != nil {
		return nil, err
	}

	identity := &Identity{
		UserID: user.ID,
		Email:  user.Email,
	}
	if user.Name != nil {
		identity.Name = *user.Name
	}
	if user.AvatarURL != nil {
		identity.AvatarURL = *user.AvatarURL
	}

	return identity, nil
}
