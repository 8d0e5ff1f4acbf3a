// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Token bucket sizes for the global and per-route limiters.
  - Security: Token lifetimes and the identity cache key prefix.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "contactly-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// BackgroundTaskTimeout bounds detached work such as cache population and mail delivery.
	BackgroundTaskTimeout = 10 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// ProfileRateLimitPerMinute caps GET /users/me per caller address.
	ProfileRateLimitPerMinute = 10

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// EmailTokenTTL is the lifetime of an email confirmation token.
	EmailTokenTTL = 7 * 24 * time.Hour

	// ResetTokenTTL is the lifetime of a password reset token.
	ResetTokenTTL = 1 * time.Hour

	// TokenTypeBearer is the token_type returned by the login endpoint.
	TokenTypeBearer = "bearer"

	// MaxAvatarBytes bounds the multipart body accepted by PATCH /users/avatar.
	MaxAvatarBytes = 5 << 20
)

// # HTTP Headers

const (
	HeaderXRequestID      = "X-Request-ID"
	HeaderXRealIP         = "X-Real-IP"
	HeaderXForwardedFor   = "X-Forwarded-For"
	HeaderAuthorization   = "Authorization"
	HeaderContentType     = "Content-Type"
	HeaderWWWAuthenticate = "WWW-Authenticate"
	HeaderRetryAfter      = "Retry-After"

	ContentTypeJSON = "application/json; charset=utf-8"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaContacts = "contacts"
	SchemaUsers    = "users"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisPrefixIdentity keys the serialized identity snapshot by username.
	RedisPrefixIdentity = "user:"
)
