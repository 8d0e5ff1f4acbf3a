// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/contactly/internal/platform/sec"
	"github.com/taibuivan/contactly/internal/users/identity"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*identity.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return identity.NewRedisCache(client, ttl), server
}

/*
TestRedisCache_RoundTrip stores a snapshot and reads it back under the user:<username> key.
*/
func TestRedisCache_RoundTrip(t *testing.T) {
	cache, server := newRedisCache(t, 15*time.Minute)
	ctx := context.Background()

	alice := &identity.Identity{
		ID:           "0192f0c4-7d4e-7c1a-9a44-3c3f6b0f0a11",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$secret",
		Role:         sec.RoleAdmin,
		Confirmed:    true,
	}

	require.NoError(t, cache.Put(ctx, alice))
	assert.True(t, server.Exists("user:alice"))

	raw, err := server.Get("user:alice")
	require.NoError(t, err)
	assert.NotContains(t, raw, "secret")

	got, err := cache.Get(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, sec.RoleAdmin, got.Role)
	assert.Empty(t, got.PasswordHash)
}

/*
TestRedisCache_Miss returns nil without error for an unknown username.
*/
func TestRedisCache_Miss(t *testing.T) {
	cache, _ := newRedisCache(t, time.Minute)

	got, err := cache.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

/*
TestRedisCache_Expiry checks that entries disappear after the configured TTL.
*/
func TestRedisCache_Expiry(t *testing.T) {
	cache, server := newRedisCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, &identity.Identity{Username: "bob", Role: sec.RoleUser}))
	assert.Equal(t, time.Minute, server.TTL("user:bob"))

	server.FastForward(2 * time.Minute)

	got, err := cache.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, got)
}

/*
TestRedisCache_Invalidate removes the entry; invalidating a missing key is fine.
*/
func TestRedisCache_Invalidate(t *testing.T) {
	cache, server := newRedisCache(t, 0)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, &identity.Identity{Username: "carol", Role: sec.RoleUser}))
	assert.Zero(t, server.TTL("user:carol"))

	require.NoError(t, cache.Invalidate(ctx, "carol"))
	assert.False(t, server.Exists("user:carol"))
	assert.NoError(t, cache.Invalidate(ctx, "carol"))
}

/*
TestRedisCache_Unavailable surfaces connectivity errors instead of reporting a miss.
*/
func TestRedisCache_Unavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })

	cache := identity.NewRedisCache(client, time.Minute)

	_, err := cache.Get(context.Background(), "alice")
	assert.Error(t, err)
}
