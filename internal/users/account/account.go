// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account serves the authenticated caller's own account.

# Security

Every endpoint requires a bearer token. Replacing the avatar additionally
requires the admin role.
*/
package account

import (
	"context"

	"github.com/taibuivan/contactly/internal/platform/sec"
	"github.com/taibuivan/contactly/internal/users/identity"
)

// Client-facing messages.
const (
	MessageFileRequired = "An image file is required"
	MessageNotAnImage   = "Must be an image"
	MessageFileTooLarge = "File is too large"
)

// Repository is the slice of the account store this package mutates.
//
// Implemented by auth.PostgresUserRepository.
type Repository interface {
	UpdateAvatar(context context.Context, id, avatarURL string) (*identity.Identity, error)
	UpdateRole(context context.Context, username string, role sec.Role) (*identity.Identity, error)
}
