// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/taibuivan/contactly/internal/platform/apperr"
	"github.com/taibuivan/contactly/internal/platform/constants"
	"github.com/taibuivan/contactly/internal/platform/metrics"
	"github.com/taibuivan/contactly/internal/platform/sec"
)

// TokenValidator validates access tokens.
type TokenValidator interface {
	ValidatePurpose(token string, purpose sec.Purpose) (*sec.Claims, error)
}

// Finder loads accounts from the authoritative store.
type Finder interface {
	// FindByUsername returns [ErrNotFound] when no account has the username.
	FindByUsername(context context.Context, username string) (*Identity, error)
}

// Resolver turns bearer tokens into identities.
type Resolver struct {
	tokens TokenValidator
	cache  Cache
	finder Finder
	logger *slog.Logger

	// pending tracks background cache writes so tests and shutdown can wait on them.
	pending sync.WaitGroup
}

// NewResolver constructs a [Resolver].
func NewResolver(tokens TokenValidator, cache Cache, finder Finder, logger *slog.Logger) *Resolver {
	return &Resolver{
		tokens: tokens,
		cache:  cache,
		finder: finder,
		logger: logger,
	}
}

/*
Resolve returns the identity that owns token.

Description: The cache is consulted before the store. A store hit is written
back to the cache asynchronously, so the caller never waits on it.

Parameters:
  - context: context.Context
  - token: string (raw bearer token, without the scheme)

Returns:
  - *Identity: The resolved caller
  - error: apperr.Unauthorized for token or account failures, apperr.Internal
    when the cache or store cannot be reached
*/
func (resolver *Resolver) Resolve(context context.Context, token string) (*Identity, error) {

	// 1. Token validation. The cause stays server-side.
	claims, err := resolver.tokens.ValidatePurpose(token, sec.PurposeAccess)
	if err != nil {
		resolver.logger.DebugContext(context, "identity_token_rejected", slog.Any("reason", err))
		return nil, apperr.Unauthorized(MessageUnauthorized)
	}

	username, err := sec.ExtractSubject(claims)
	if err != nil {
		return nil, apperr.Unauthorized(MessageUnauthorized)
	}

	// 2. Cache lookup
	cached, err := resolver.cache.Get(context, username)
	if err != nil {
		metrics.IdentityCacheLookups.WithLabelValues("error").Inc()
		return nil, apperr.Internal(fmt.Errorf("identity_resolver_cache_failed: %w", err))
	}

	if cached != nil {
		metrics.IdentityCacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.IdentityCacheLookups.WithLabelValues("miss").Inc()

	// 3. Store lookup
	identity, err := resolver.finder.FindByUsername(context, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.Unauthorized(MessageUnauthorized)
		}
		return nil, apperr.Internal(fmt.Errorf("identity_resolver_store_failed: %w", err))
	}

	resolver.populate(context, identity)

	return identity, nil
}

// populate writes identity to the cache without blocking the request.
func (resolver *Resolver) populate(parent context.Context, identity *Identity) {
	snapshot := *identity

	resolver.pending.Add(1)
	go func() {
		defer resolver.pending.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), constants.BackgroundTaskTimeout)
		defer cancel()

		if err := resolver.cache.Put(ctx, &snapshot); err != nil {
			resolver.logger.WarnContext(ctx, "identity_cache_populate_failed",
				slog.String("username", snapshot.Username),
				slog.Any("error", err),
			)
		}
	}()
}

// Wait blocks until every background cache write has finished.
func (resolver *Resolver) Wait() {
	resolver.pending.Wait()
}

// RequireRole fails with Forbidden unless caller holds role.
func RequireRole(caller *Identity, role sec.Role) error {
	if caller == nil {
		return apperr.Unauthorized(MessageUnauthorized)
	}

	if caller.Role != role {
		return apperr.Forbidden("Operation not permitted")
	}

	return nil
}
