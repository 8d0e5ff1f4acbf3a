// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "fmt"

// # User Roles

// Role represents the authorization level granted to an account.
//
// The set is closed: only the constants below are valid, and [ParseRole]
// rejects everything else.
type Role string

const (
	// Default role for every self-registered account
	RoleUser Role = "user"

	// Unrestricted access, including avatar management
	RoleAdmin Role = "admin"
)

// ParseRole converts a stored or configured string into a [Role].
func ParseRole(value string) (Role, error) {
	role := Role(value)
	if !role.Valid() {
		return "", fmt.Errorf("sec: unknown role %q", value)
	}
	return role, nil
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// String implements [fmt.Stringer].
func (r Role) String() string {
	return string(r)
}
