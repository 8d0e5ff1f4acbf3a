// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package identity resolves bearer tokens to the account that owns them.

It defines the Identity entity shared by every user-facing package, the
Redis-backed identity cache, and the Resolver that combines token validation,
the cache, and the account store.

# Resolution Flow

 1. Validate the access token and read its subject (a username).
 2. Serve the identity from the cache when present.
 3. Otherwise load it from the store and populate the cache in the background.

Any failure along the first two steps is reported as Unauthorized, never as
a more specific cause.
*/
package identity

import (
	"time"

	"github.com/taibuivan/contactly/internal/platform/apperr"
	"github.com/taibuivan/contactly/internal/platform/sec"
)

// MessageUnauthorized is the fixed client message for every authentication failure.
const MessageUnauthorized = "Could not validate credentials"

// ErrNotFound is returned by account stores when no account matches a lookup.
var ErrNotFound = apperr.NotFound("User")

// # Domain Entities

// Identity is a registered account as seen by the rest of the system.
type Identity struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialized, not even into the cache.
	Role         sec.Role  `json:"role"`
	Confirmed    bool      `json:"confirmed"`
	AvatarURL    string    `json:"avatar"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i.Role == sec.RoleAdmin
}

// # Field Identifiers

const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldAvatar   = "file"
)
