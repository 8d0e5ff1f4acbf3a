// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Client Messages

// Fixed texts returned by the account lifecycle endpoints. They never reveal
// whether an email address is registered.
const (
	MessageAccountExists      = "Account already exists"
	MessageBadCredentials     = "Incorrect username or password"
	MessageNotConfirmed       = "Email address not confirmed"
	MessageInvalidEmailToken  = "Invalid token for email verification"
	MessageVerificationError  = "Verification error"
	MessageAlreadyConfirmed   = "Your email is already confirmed"
	MessageEmailConfirmed     = "Email confirmed"
	MessageCheckEmail         = "Check your email for confirmation."
	MessageCheckResetEmail    = "Check your email to confirm the password change."
	MessageInvalidResetToken  = "Invalid or expired token"
	MessagePasswordChanged    = "Password changed"
	MessageMaxPasswordBytes   = "Maximum 72 bytes"
	confirmEmailPath          = "/api/auth/confirmed_email/"
	confirmPasswordResetPath  = "/api/auth/confirm_password_reset/"
	maxPasswordBytes          = 72
	gravatarURL               = "https://www.gravatar.com/avatar/%x?d=identicon"
	subjectConfirmEmail       = "Confirm your email"
	subjectPasswordResetEmail = "Confirm your password change"
)
