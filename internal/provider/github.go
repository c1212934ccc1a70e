package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kongden/taskboard/internal/config"
	"github.com/kongden/taskboard/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GitHub delegates identity proof to GitHub's authorization-code flow.
type GitHub struct {
	auth   *service.AuthService
	config *oauth2.Config
}

func NewGitHub(auth *service.AuthService, cfg *config.Config) *GitHub {
	return &GitHub{
		auth: auth,
		config: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/github/callback",
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

func (g *GitHub) Name() string {
	return "github"
}

func (g *GitHub) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (g *GitHub) Authenticate(ctx context.Context, p Presentation) (*Identity, error) {
	if p.Code == "" {
		return nil, service.ErrMissingFields
	}

	token, err := g.config.Exchange(ctx, p.Code)
	if err != nil {
		return nil, fmt.Errorf("github token exchange failed: %w", err)
	}

	client := g.config.Client(ctx, token)
	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		return nil, fmt.Errorf("failed to get github user info: %w", err)
	}
	defer resp.Body.Close()

	var userInfo struct {
		Email     string `json:"email"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	}
	err = json.NewDecoder(resp.Body).Decode(&userInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to decode github user info: %w", err)
	}

	// GitHub omits the email from /user when it is private; the primary
	// address has to come from /user/emails instead.
	if userInfo.Email == "" {
		emailResp, err := client.Get("https://api.github.com/user/emails")
		if err != nil {
			return nil, fmt.Errorf("failed to get github user emails: %w", err)
		}
		defer emailResp.Body.Close()

		var emails []struct {
			Email   string `json:"email"`
			Primary bool   `json:"primary"`
		}
		err = json.NewDecoder(emailResp.Body).Decode(&emails)
		if err != nil {
			return nil, fmt.Errorf("failed to decode github emails: %w", err)
		}

		for _, e := range emails {
			if e.Primary {
				userInfo.Email = e.Email
				break
			}
		}
	}

	if userInfo.Email == "" {
		return nil, fmt.Errorf("github account has no retrievable email")
	}

	user, err := g.auth.AuthenticateOAuth(userInfo.Email, userInfo.Name, userInfo.AvatarURL, g.Name())
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
