// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the account lifecycle: registration, login, email
confirmation and password reset.

It owns the users.account store. Other packages see accounts through
[identity.Identity].
*/
package auth

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// # Request Payloads

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,max=150,email"`
	Password string `json:"password" validate:"required,min=4,max=72"`
}

// LoginInput holds the credentials of a login attempt.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// EmailInput names the account a confirmation mail is re-sent to.
type EmailInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordInput requests a password change for the account owning Email.
type ResetPasswordInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4,max=72"`
}

// TokenPair is the login response.
type TokenPair struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// # Field Identifiers

const (
	FieldToken       = "token"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
)

// DefaultAvatarURL derives a Gravatar image URL from an email address.
func DefaultAvatarURL(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf(gravatarURL, sum)
}
