package users

import (
	"context"
	"sync"
	"time"

	"github.com/hacktoberfest-api/auth-service/internal/models"
)

// MemoryDirectory is an in-memory Directory used for unit tests and for
// running without MongoDB. The map is keyed by email and guarded by a mutex,
// so Create is check-and-insert under one lock, never find-then-push.
type MemoryDirectory struct {
	mu      sync.RWMutex
	byEmail map[string]*models.User
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{byEmail: make(map[string]*models.User)}
}

func (d *MemoryDirectory) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if u, ok := d.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (d *MemoryDirectory) Create(ctx context.Context, u *models.User) (*models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.byEmail[u.Email]; ok {
		return nil, ErrDuplicateEmail
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	cp := *u
	d.byEmail[u.Email] = &cp
	ret := cp
	return &ret, nil
}

// Len reports the number of stored users (test helper).
func (d *MemoryDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byEmail)
}
