package users

import (
	"context"
	"errors"

	"github.com/hacktoberfest-api/auth-service/internal/models"
)

// ErrDuplicateEmail is returned by Create when a user with the same email
// already exists. Callers resolve it by re-fetching the surviving record; it
// is never a user-facing failure.
var ErrDuplicateEmail = errors.New("user with this email already exists")

// Directory defines persistence operations for the user directory. Email is
// the deduplication key; Create must be atomic insert-if-absent so that two
// concurrent creates for the same email leave exactly one record.
type Directory interface {
	// FindByEmail returns (nil, nil) when no user has the given email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// Create persists a new user, returning ErrDuplicateEmail when the
	// email is already taken.
	Create(ctx context.Context, u *models.User) (*models.User, error)
}
