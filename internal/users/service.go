package users

import (
	"context"
	"errors"
	"time"

	"github.com/hacktoberfest-api/auth-service/internal/identity"
	"github.com/hacktoberfest-api/auth-service/internal/models"
)

// Service encapsulates directory business logic
type Service struct {
	dir Directory
}

func NewService(d Directory) *Service {
	return &Service{dir: d}
}

// FindOrCreate resolves a normalized identity against the directory. An
// existing user is returned unchanged: OAuth re-login never overwrites the
// stored name or email, even when the provider profile differs. A miss
// creates a password-less record keyed by the provider's external id.
// The second return value reports whether the user was created by this call.
func (s *Service) FindOrCreate(ctx context.Context, id identity.Identity) (*models.User, bool, error) {
	existing, err := s.dir.FindByEmail(ctx, id.Email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	u := &models.User{
		ID:        id.ExternalID,
		Email:     id.Email,
		Password:  nil, // OAuth account: password login is not possible
		Name:      id.DisplayName,
		CreatedAt: time.Now().UTC(),
	}
	created, err := s.dir.Create(ctx, u)
	if err == nil {
		return created, true, nil
	}
	if errors.Is(err, ErrDuplicateEmail) {
		// Lost a concurrent first-login race; the surviving record wins.
		winner, ferr := s.dir.FindByEmail(ctx, id.Email)
		if ferr != nil {
			return nil, false, ferr
		}
		if winner != nil {
			return winner, false, nil
		}
	}
	return nil, false, err
}

// GetByEmail looks up a user by email without creating one.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.dir.FindByEmail(ctx, email)
}
