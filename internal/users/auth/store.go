// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/taibuivan/contactly/internal/platform/sec"
	"github.com/taibuivan/contactly/internal/users/identity"
)

// # User Data Access

// UserRepository defines the data access contract for accounts.
//
// Lookups return [identity.ErrNotFound] when no account matches.
type UserRepository interface {

	/*
		Create persists a brand-new account.

		Returns:
		  - error: apperr.Conflict when the username or email is taken
	*/
	Create(context context.Context, user *identity.Identity) error

	FindByID(context context.Context, id string) (*identity.Identity, error)
	FindByUsername(context context.Context, username string) (*identity.Identity, error)
	FindByEmail(context context.Context, email string) (*identity.Identity, error)

	// MarkConfirmed sets the confirmation flag. It never clears it.
	MarkConfirmed(context context.Context, id string) error

	// UpdatePassword replaces only the password hash.
	UpdatePassword(context context.Context, id, passwordHash string) error

	// UpdateAvatar stores a new avatar URL and returns the updated account.
	UpdateAvatar(context context.Context, id, avatarURL string) (*identity.Identity, error)

	// UpdateRole changes the role of the account named username.
	UpdateRole(context context.Context, username string, role sec.Role) (*identity.Identity, error)
}
