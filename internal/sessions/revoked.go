package sessions

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevokedStore records session tokens invalidated by logout. Tokens are
// stateless JWTs, so revocation is the only server-side session state; keys
// expire together with the token they shadow.
type RevokedStore struct {
	client *redis.Client
	prefix string
}

// NewRevokedStore creates a Redis-backed revocation store. A nil client
// disables revocation: Revoke becomes a no-op and IsRevoked always reports
// false, matching deployments that accept logout being client-side only.
func NewRevokedStore(client *redis.Client) *RevokedStore {
	return &RevokedStore{client: client, prefix: "revoked:session:"}
}

// Revoke stores the token with TTL equal to its remaining lifetime.
func (s *RevokedStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if s == nil || s.client == nil {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, s.prefix+token, "1", ttl).Err()
}

// IsRevoked reports whether the token was revoked and has not yet expired.
func (s *RevokedStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	if s == nil || s.client == nil {
		return false, nil
	}
	n, err := s.client.Exists(ctx, s.prefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
