package provider

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/hacktoberfest-api/auth-service/internal/identity"
)

var (
	// ErrNoVerifiedEmail means no usable email could be obtained for the
	// account, even after the provider-API fallback. Permanent for that
	// account/provider pair until the user verifies an email upstream.
	ErrNoVerifiedEmail = errors.New("no verified email associated with this account")

	// ErrHandshakeFailed covers network and provider-side failures during
	// the OAuth2 exchange or profile fetch. Retryable by a fresh login.
	ErrHandshakeFailed = errors.New("provider handshake failed")
)

// Strategy is the contract every identity provider implements. Strategies
// return identity facts only; user creation and token issuance happen above.
type Strategy interface {
	// Name returns the provider identifier (e.g. "google", "github").
	Name() string

	// AuthCodeURL returns the provider authorization URL carrying the
	// provider-specific scopes and the given state parameter.
	AuthCodeURL(state string) string

	// Exchange trades the authorization code for provider tokens.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// Profile fetches the provider-supplied profile for the token.
	Profile(ctx context.Context, token *oauth2.Token) (*identity.ExternalProfile, error)
}

// EmailResolver is implemented by strategies whose profile payload may omit
// the email (privacy-restricted scopes). ResolveEmail performs one call to
// the provider's email API and returns the primary verified address, or ""
// when no entry is both primary and verified.
type EmailResolver interface {
	ResolveEmail(ctx context.Context, token *oauth2.Token) (string, error)
}

// Registry holds configured strategies keyed by provider name.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry registers the given strategies. Names must be unique.
func NewRegistry(list ...Strategy) *Registry {
	m := make(map[string]Strategy)
	for _, s := range list {
		m[s.Name()] = s
	}
	return &Registry{strategies: m}
}

// Get returns the strategy by name or an error if not registered.
func (r *Registry) Get(name string) (Strategy, error) {
	s, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown oauth provider: %s", name)
	}
	return s, nil
}

// Names lists registered provider names.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.strategies))
	for n := range r.strategies {
		out = append(out, n)
	}
	return out
}
