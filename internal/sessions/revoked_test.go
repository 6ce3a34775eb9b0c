package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRevokedStore_RoundTrip(t *testing.T) {
	m, err := mr.Run()
	assert.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})

	s := NewRevokedStore(client)
	ctx := context.Background()

	revoked, err := s.IsRevoked(ctx, "tok-1")
	assert.NoError(t, err)
	assert.False(t, revoked)

	assert.NoError(t, s.Revoke(ctx, "tok-1", time.Minute))

	revoked, err = s.IsRevoked(ctx, "tok-1")
	assert.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevokedStore_ExpiresWithToken(t *testing.T) {
	m, err := mr.Run()
	assert.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})

	s := NewRevokedStore(client)
	ctx := context.Background()
	assert.NoError(t, s.Revoke(ctx, "tok-2", time.Minute))

	m.FastForward(2 * time.Minute)

	revoked, err := s.IsRevoked(ctx, "tok-2")
	assert.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokedStore_NilClientNoOp(t *testing.T) {
	s := NewRevokedStore(nil)
	ctx := context.Background()

	assert.NoError(t, s.Revoke(ctx, "tok-3", time.Minute))
	revoked, err := s.IsRevoked(ctx, "tok-3")
	assert.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokedStore_ExpiredTokenNotStored(t *testing.T) {
	m, err := mr.Run()
	assert.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})

	s := NewRevokedStore(client)
	// zero remaining lifetime: nothing to shadow
	assert.NoError(t, s.Revoke(context.Background(), "tok-4", 0))
	assert.False(t, m.Exists("revoked:session:tok-4"))
}
