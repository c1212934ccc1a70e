package provider

import (
	"context"

	"github.com/kongden/taskboard/internal/service"
)

// Credentials authenticates an email+password presentation against stored
// password hashes. Unknown email and wrong password surface as the same
// error so responses never reveal which field was wrong.
type Credentials struct {
	auth *service.AuthService
}

func NewCredentials(auth *service.AuthService) *Credentials {
	return &Credentials{auth: auth}
}

func (c *Credentials) Name() string {
	return "credentials"
}

func (c *Credentials) Authenticate(ctx context.Context, p Presentation) (*Identity, error) {
	if p.Email == "" || p.Password == "" {
		return nil, service.ErrMissingFields
	}

	user, err := c.auth.Login(p.Email, p.Password)
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
