// Package provider implements the login strategy chain: each provider turns
// one kind of credential presentation into a canonical identity. Providers
// are invoked uniformly by name through a registry and share no mutable
// state; every authentication attempt stands alone apart from the datastore
// reads and writes it performs.
package provider

import (
	"context"
	"fmt"
)

// Presentation carries whichever credential material a provider consumes:
// email+password for the credentials provider, an authorization code for
// the federated ones.
type Presentation struct {
	Email    string
	Password string
	Code     string
}

// Identity is the canonical result of a successful authentication.
type Identity struct {
	UserID    string
	Email     string
	Name      string
	AvatarURL string
}

type Provider interface {
	Name() string
	Authenticate(ctx context.Context, p Presentation) (*Identity, error)
}

// RedirectProvider is implemented by federated providers that begin with a
// redirect to an external consent screen.
type RedirectProvider interface {
	Provider
	AuthCodeURL(state string) string
}

// Registry maps provider names to implementations.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

func (r *Registry) Lookup(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown auth provider %q", name)
	}
	return p, nil
}

// Redirect returns the named provider only if it drives a redirect-based
// handshake.
func (r *Registry) Redirect(name string) (RedirectProvider, error) {
	p, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	rp, ok := p.(RedirectProvider)
	if !ok {
		return nil, fmt.Errorf("auth provider %q is not redirect-based", name)
	}
	return rp, nil
}
