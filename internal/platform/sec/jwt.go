// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer through small interfaces declared by the consumers.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/contactly/internal/platform/constants"
)

// # Token Errors

var (
	// ErrInvalidToken is the root of every token validation failure.
	ErrInvalidToken = errors.New("sec: invalid token")

	// ErrTokenExpired reports a well-formed, correctly signed token past its exp claim.
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)

	// ErrTokenSignature reports a token signed with another key or algorithm.
	ErrTokenSignature = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)

	// ErrTokenMalformed reports undecodable tokens and tokens missing required claims.
	ErrTokenMalformed = fmt.Errorf("%w: malformed", ErrInvalidToken)
)

// Purpose distinguishes the three token families so one can never stand in for another.
type Purpose string

const (
	PurposeAccess        Purpose = "access"
	PurposeEmailConfirm  Purpose = "email_confirmation"
	PurposePasswordReset Purpose = "password_reset"
)

// Claims is the payload embedded in every token issued by [TokenService].
type Claims struct {
	jwt.RegisteredClaims

	// Purpose names the token family.
	Purpose Purpose `json:"scope"`

	// Password carries the pre-hashed candidate password of a reset token.
	Password string `json:"password,omitempty"`
}

// TokenService issues and validates HMAC-signed JWTs.
type TokenService struct {
	secret    []byte
	method    jwt.SigningMethod
	accessTTL time.Duration
	now       func() time.Time
}

// NewTokenService creates a new TokenService.
//
// # Parameters
//   - secret: the shared HMAC key.
//   - algorithm: HS256, HS384 or HS512.
//   - accessTTL: lifetime applied by [TokenService.IssueAccessToken].
func NewTokenService(secret, algorithm string, accessTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: token secret must not be empty")
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("sec: unsupported signing algorithm %q", algorithm)
	}

	return &TokenService{
		secret:    []byte(secret),
		method:    method,
		accessTTL: accessTTL,
		now:       time.Now,
	}, nil
}

// WithClock replaces the time source. Intended for tests.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	service.now = now
	return service
}

// # Issuance

// IssueAccessToken signs an access token for subject using the configured lifetime.
func (service *TokenService) IssueAccessToken(subject string) (string, error) {
	return service.IssueAccessTokenTTL(subject, service.accessTTL)
}

// IssueAccessTokenTTL signs an access token expiring ttl from now. A zero ttl
// yields a token that is already expired.
func (service *TokenService) IssueAccessTokenTTL(subject string, ttl time.Duration) (string, error) {
	currentTime := service.now()
	return service.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(ttl)),
		},
		Purpose: PurposeAccess,
	})
}

// IssueEmailToken signs an email confirmation token valid for seven days.
func (service *TokenService) IssueEmailToken(email string) (string, error) {
	currentTime := service.now()
	return service.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(constants.EmailTokenTTL)),
		},
		Purpose: PurposeEmailConfirm,
	})
}

// IssueResetToken signs a password reset token carrying the already hashed
// candidate password.
func (service *TokenService) IssueResetToken(email, passwordHash string) (string, error) {
	currentTime := service.now()
	return service.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(constants.ResetTokenTTL)),
		},
		Purpose:  PurposePasswordReset,
		Password: passwordHash,
	})
}

func (service *TokenService) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(service.method, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}
	return signedToken, nil
}

// # Validation

// Validate checks signature, algorithm and expiry, returning the decoded claims.
//
// Every failure wraps [ErrInvalidToken]; [ErrTokenExpired], [ErrTokenSignature]
// and [ErrTokenMalformed] tell the causes apart.
func (service *TokenService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return service.secret, nil
	},
		jwt.WithValidMethods([]string{service.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)

	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return nil, ErrTokenSignature
	default:
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}

// ValidatePurpose validates tokenString and additionally requires its purpose claim.
func (service *TokenService) ValidatePurpose(tokenString string, purpose Purpose) (*Claims, error) {
	claims, err := service.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Purpose != purpose {
		return nil, fmt.Errorf("%w: token is not a %s token", ErrTokenMalformed, purpose)
	}

	return claims, nil
}

// ExtractSubject returns the sub claim, failing with [ErrTokenMalformed] when absent.
func ExtractSubject(claims *Claims) (string, error) {
	if claims == nil || claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrTokenMalformed)
	}
	return claims.Subject, nil
}

// ExtractPassword returns the embedded password digest of a reset token.
func ExtractPassword(claims *Claims) (string, error) {
	if claims == nil || claims.Password == "" {
		return "", fmt.Errorf("%w: missing password claim", ErrTokenMalformed)
	}
	return claims.Password, nil
}
