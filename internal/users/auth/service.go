// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/taibuivan/contactly/internal/platform/apperr"
	"github.com/taibuivan/contactly/internal/platform/constants"
	"github.com/taibuivan/contactly/internal/platform/mailer"
	"github.com/taibuivan/contactly/internal/platform/sec"
	"github.com/taibuivan/contactly/internal/platform/validate"
	"github.com/taibuivan/contactly/internal/users/identity"
	"github.com/taibuivan/contactly/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer issues and validates the tokens used by the account lifecycle.
type TokenIssuer interface {
	IssueAccessToken(subject string) (string, error)
	IssueEmailToken(email string) (string, error)
	IssueResetToken(email, passwordHash string) (string, error)
	ValidatePurpose(token string, purpose sec.Purpose) (*sec.Claims, error)
}

// Service implements the account lifecycle use cases.
type Service struct {
	users   UserRepository
	hasher  sec.PasswordHasher
	tokens  TokenIssuer
	cache   identity.Cache
	mailer  mailer.Mailer
	baseURL string
	logger  *slog.Logger

	// pending tracks mails sent after the response was written.
	pending sync.WaitGroup
}

// Dependencies groups the collaborators of [Service].
type Dependencies struct {
	Users   UserRepository
	Hasher  sec.PasswordHasher
	Tokens  TokenIssuer
	Cache   identity.Cache
	Mailer  mailer.Mailer
	BaseURL string
	Logger  *slog.Logger
}

// NewService constructs a new auth [Service].
func NewService(deps Dependencies) *Service {
	return &Service{
		users:   deps.Users,
		hasher:  deps.Hasher,
		tokens:  deps.Tokens,
		cache:   deps.Cache,
		mailer:  deps.Mailer,
		baseURL: strings.TrimRight(deps.BaseURL, "/"),
		logger:  deps.Logger,
	}
}

// # Registration Flow

/*
Register validates, hashes, and persists a brand new account.

Description: The account starts unconfirmed with the user role. A
confirmation mail is sent in the background; delivery failures are logged.

Returns:
  - *identity.Identity: Created account
  - error: VALIDATION_ERROR, CONFLICT, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*identity.Identity, error) {
	user, err := service.createAccount(context, input, sec.RoleUser, false)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	service.sendConfirmation(context, user)

	return user, nil
}

// CreateAdmin inserts an already confirmed admin account. No mail is sent.
func (service *Service) CreateAdmin(context context.Context, input RegisterInput) (*identity.Identity, error) {
	user, err := service.createAccount(context, input, sec.RoleAdmin, true)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "admin_created",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user, nil
}

func (service *Service) createAccount(context context.Context, input RegisterInput, role sec.Role, confirmed bool) (*identity.Identity, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	if err := validatePassword(input, input.Password); err != nil {
		return nil, err
	}

	// Pre-check uniqueness for a clean message; the unique indexes still decide.
	if taken, err := service.exists(context, service.users.FindByEmail, input.Email); err != nil || taken {
		return nil, conflictOr(err)
	}
	if taken, err := service.exists(context, service.users.FindByUsername, input.Username); err != nil || taken {
		return nil, conflictOr(err)
	}

	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &identity.Identity{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         role,
		Confirmed:    confirmed,
		AvatarURL:    DefaultAvatarURL(input.Email),
	}

	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Authentication Flow

/*
Login verifies credentials and issues an access token.

Returns:
  - *TokenPair: Bearer access token
  - error: Unauthorized for unknown users, wrong passwords, or unconfirmed accounts
*/
func (service *Service) Login(context context.Context, input LoginInput) (*TokenPair, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	user, err := service.users.FindByUsername(context, input.Username)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, apperr.Unauthorized(MessageBadCredentials)
		}
		return nil, err
	}

	if !service.hasher.Verify(input.Password, user.PasswordHash) {
		service.logger.InfoContext(context, "login_failed", slog.String("username", user.Username))
		return nil, apperr.Unauthorized(MessageBadCredentials)
	}

	if !user.Confirmed {
		return nil, apperr.Unauthorized(MessageNotConfirmed)
	}

	accessToken, err := service.tokens.IssueAccessToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("auth_service_issue_token_failed: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, TokenType: constants.TokenTypeBearer}, nil
}

// # Email Confirmation

/*
ConfirmEmail marks the account named by an email token as confirmed.

Returns:
  - string: Outcome message
  - error: UNPROCESSABLE for a bad token, VALIDATION_ERROR for an unknown email
*/
func (service *Service) ConfirmEmail(context context.Context, token string) (string, error) {
	claims, err := service.tokens.ValidatePurpose(token, sec.PurposeEmailConfirm)
	if err != nil {
		return "", apperr.Unprocessable(MessageInvalidEmailToken)
	}

	email, err := sec.ExtractSubject(claims)
	if err != nil {
		return "", apperr.Unprocessable(MessageInvalidEmailToken)
	}

	user, err := service.users.FindByEmail(context, email)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return "", apperr.ValidationError(MessageVerificationError)
		}
		return "", err
	}

	if user.Confirmed {
		return MessageAlreadyConfirmed, nil
	}

	if err := service.users.MarkConfirmed(context, user.ID); err != nil {
		return "", err
	}
	service.invalidate(context, user.Username)

	service.logger.InfoContext(context, "email_confirmed", slog.String("user_id", user.ID))
	return MessageEmailConfirmed, nil
}

// RequestEmail re-sends the confirmation mail to an unconfirmed account. The
// result is the same whether or not the address is registered.
func (service *Service) RequestEmail(context context.Context, input EmailInput) (string, error) {
	if err := validate.Struct(input); err != nil {
		return "", err
	}

	user, err := service.users.FindByEmail(context, strings.TrimSpace(input.Email))
	switch {
	case errors.Is(err, identity.ErrNotFound):
		return MessageCheckEmail, nil
	case err != nil:
		return "", err
	}

	if !user.Confirmed {
		service.sendConfirmation(context, user)
	}

	return MessageCheckEmail, nil
}

// # Password Reset

/*
RequestPasswordReset mails a link that, once opened, replaces the password.

Description: The candidate password is hashed now and travels inside the
signed reset token, so nothing is stored until the link is confirmed.
*/
func (service *Service) RequestPasswordReset(context context.Context, input ResetPasswordInput) (string, error) {
	if err := validatePassword(input, input.Password); err != nil {
		return "", err
	}

	user, err := service.users.FindByEmail(context, strings.TrimSpace(input.Email))
	switch {
	case errors.Is(err, identity.ErrNotFound):
		return MessageCheckResetEmail, nil
	case err != nil:
		return "", err
	}

	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return "", fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	token, err := service.tokens.IssueResetToken(user.Email, hashedPassword)
	if err != nil {
		return "", fmt.Errorf("auth_service_issue_token_failed: %w", err)
	}

	service.sendMail(context, "reset_password", user, subjectPasswordResetEmail, service.baseURL+confirmPasswordResetPath+token)

	return MessageCheckResetEmail, nil
}

// ConfirmPasswordReset applies the password carried by a reset token.
func (service *Service) ConfirmPasswordReset(context context.Context, token string) (string, error) {
	claims, err := service.tokens.ValidatePurpose(token, sec.PurposePasswordReset)
	if err != nil {
		return "", apperr.ValidationError(MessageInvalidResetToken)
	}

	email, err := sec.ExtractSubject(claims)
	if err != nil {
		return "", apperr.ValidationError(MessageInvalidResetToken)
	}

	passwordHash, err := sec.ExtractPassword(claims)
	if err != nil {
		return "", apperr.ValidationError(MessageInvalidResetToken)
	}

	user, err := service.users.FindByEmail(context, email)
	if err != nil {
		return "", err
	}

	if err := service.users.UpdatePassword(context, user.ID, passwordHash); err != nil {
		return "", err
	}
	service.invalidate(context, user.Username)

	service.logger.InfoContext(context, "password_changed", slog.String("user_id", user.ID))
	return MessagePasswordChanged, nil
}

// Wait blocks until every background mail has been handed to the transport.
func (service *Service) Wait() {
	service.pending.Wait()
}

// # Helpers

func (service *Service) sendConfirmation(context context.Context, user *identity.Identity) {
	token, err := service.tokens.IssueEmailToken(user.Email)
	if err != nil {
		service.logger.ErrorContext(context, "email_token_issue_failed", slog.Any("error", err))
		return
	}

	service.sendMail(context, "confirm_email", user, subjectConfirmEmail, service.baseURL+confirmEmailPath+token)
}

// sendMail renders and delivers a mail without blocking the request.
func (service *Service) sendMail(parent context.Context, templateName string, user *identity.Identity, subject, link string) {
	message, err := renderMessage(templateName, user.Email, subject, mailData{Username: user.Username, Link: link})
	if err != nil {
		service.logger.ErrorContext(parent, "mail_render_failed", slog.Any("error", err))
		return
	}

	service.pending.Add(1)
	go func() {
		defer service.pending.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), constants.BackgroundTaskTimeout)
		defer cancel()

		if err := service.mailer.Send(ctx, message); err != nil {
			service.logger.WarnContext(ctx, "mail_send_failed",
				slog.String("template", templateName),
				slog.String("user_id", user.ID),
				slog.Any("error", err),
			)
		}
	}()
}

// invalidate drops the cached identity after a mutation. A failure leaves a
// stale entry until its TTL runs out, so it is logged rather than returned.
func (service *Service) invalidate(context context.Context, username string) {
	if err := service.cache.Invalidate(context, username); err != nil {
		service.logger.ErrorContext(context, "identity_cache_invalidate_failed",
			slog.String("username", username),
			slog.Any("error", err),
		)
	}
}

type finder func(context.Context, string) (*identity.Identity, error)

func (service *Service) exists(context context.Context, find finder, value string) (bool, error) {
	_, err := find(context, value)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, identity.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func conflictOr(err error) error {
	if err != nil {
		return err
	}
	return apperr.Conflict(MessageAccountExists)
}

// validatePassword runs the struct rules plus the bcrypt byte limit.
func validatePassword(input any, password string) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	if len(password) > maxPasswordBytes {
		return validate.RequiredError(identity.FieldPassword, MessageMaxPasswordBytes)
	}
	return nil
}
