// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/contactly/internal/platform/constants"
)

// Cache stores identity snapshots keyed by username.
type Cache interface {

	/*
		Get returns the cached snapshot for username.

		Returns:
		  - *Identity: nil on a miss
		  - error: connectivity or decoding failures only
	*/
	Get(context context.Context, username string) (*Identity, error)

	// Put stores a snapshot under the identity's username.
	Put(context context.Context, identity *Identity) error

	// Invalidate drops the snapshot for username. Missing keys are not an error.
	Invalidate(context context.Context, username string) error
}

// RedisCache implements [Cache] with Redis string keys holding JSON.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed identity cache. Entries expire after ttl;
// a zero ttl keeps them until invalidated.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Key returns the Redis key holding username's snapshot.
func Key(username string) string {
	return constants.RedisPrefixIdentity + username
}

// Get implements [Cache].
func (cache *RedisCache) Get(context context.Context, username string) (*Identity, error) {
	payload, err := cache.client.Get(context, Key(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_identity_cache_get_failed: %w", err)
	}

	identity := &Identity{}
	if err := json.Unmarshal(payload, identity); err != nil {
		return nil, fmt.Errorf("redis_identity_cache_decode_failed: %w", err)
	}

	return identity, nil
}

// Put implements [Cache].
func (cache *RedisCache) Put(context context.Context, identity *Identity) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("redis_identity_cache_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, Key(identity.Username), payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_identity_cache_put_failed: %w", err)
	}

	return nil
}

// Invalidate implements [Cache].
func (cache *RedisCache) Invalidate(context context.Context, username string) error {
	if err := cache.client.Del(context, Key(username)).Err(); err != nil {
		return fmt.Errorf("redis_identity_cache_invalidate_failed: %w", err)
	}
	return nil
}
