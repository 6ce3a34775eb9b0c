package provider

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/hacktoberfest-api/auth-service/internal/identity"
	"github.com/hacktoberfest-api/auth-service/internal/models"
	"github.com/hacktoberfest-api/auth-service/internal/users"
)

// Authenticator runs the provider-agnostic verification flow: canonical email
// selection (with the resolver fallback), normalization, and directory
// resolution. One Verify call per completed provider handshake.
type Authenticator struct {
	users *users.Service
}

func NewAuthenticator(u *users.Service) *Authenticator {
	return &Authenticator{users: u}
}

// Verify resolves a fetched profile to a directory user. The boolean reports
// whether this login created the user. Failures are ErrNoVerifiedEmail,
// ErrHandshakeFailed (wrapped, from the resolver call), or a directory error.
func (a *Authenticator) Verify(ctx context.Context, s Strategy, token *oauth2.Token, profile *identity.ExternalProfile) (*models.User, bool, error) {
	email, ok := profile.CanonicalEmail()
	if !ok {
		resolver, can := s.(EmailResolver)
		if !can {
			return nil, false, ErrNoVerifiedEmail
		}
		resolved, err := resolver.ResolveEmail(ctx, token)
		if err != nil {
			return nil, false, fmt.Errorf("%w: email lookup: %v", ErrHandshakeFailed, err)
		}
		if resolved == "" {
			return nil, false, ErrNoVerifiedEmail
		}
		email = resolved
	}

	id := identity.Normalize(profile, email)
	return a.users.FindOrCreate(ctx, id)
}
