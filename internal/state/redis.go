package state

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store using Redis. State values are stored under
// "oauthstate:<value>" with the given TTL, so multiple service instances can
// validate each other's redirects.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-based state store. Prefix may be empty.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "oauthstate:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(state string) string {
	return s.prefix + state
}

func (s *RedisStore) Save(ctx context.Context, state string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Second
	}
	return s.client.Set(ctx, s.key(state), "1", ttl).Err()
}

func (s *RedisStore) Consume(ctx context.Context, state string) (bool, error) {
	// GETDEL makes validation single-use even across concurrent callbacks.
	_, err := s.client.GetDel(ctx, s.key(state)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
