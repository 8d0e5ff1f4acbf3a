// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/contactly/internal/platform/sec"
)

func newTokenService(t *testing.T, secret string) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(secret, "HS256", time.Hour)
	require.NoError(t, err)
	return service
}

/*
TestTokenService_AccessRoundTrip issues an access token and reads its subject back.
*/
func TestTokenService_AccessRoundTrip(t *testing.T) {
	service := newTokenService(t, "top-secret")

	token, err := service.IssueAccessToken("alice")
	require.NoError(t, err)

	claims, err := service.ValidatePurpose(token, sec.PurposeAccess)
	require.NoError(t, err)

	subject, err := sec.ExtractSubject(claims)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 2*time.Second)
}

/*
TestTokenService_ZeroTTL checks that a token issued with no lifetime is rejected as expired.
*/
func TestTokenService_ZeroTTL(t *testing.T) {
	service := newTokenService(t, "top-secret")

	token, err := service.IssueAccessTokenTTL("alice", 0)
	require.NoError(t, err)

	_, err = service.Validate(token)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenService_Expiry moves the clock past the seven-day email window.
*/
func TestTokenService_Expiry(t *testing.T) {
	issuedAt := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	clock := issuedAt

	service := newTokenService(t, "top-secret").WithClock(func() time.Time { return clock })

	token, err := service.IssueEmailToken("alice@example.com")
	require.NoError(t, err)

	clock = issuedAt.Add(6 * 24 * time.Hour)
	claims, err := service.ValidatePurpose(token, sec.PurposeEmailConfirm)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	require.NotNil(t, claims.IssuedAt)

	clock = issuedAt.Add(7*24*time.Hour + time.Second)
	_, err = service.Validate(token)
	assert.ErrorIs(t, err, sec.ErrTokenExpired)
}

/*
TestTokenService_Rejections covers the tagged failure causes.
*/
func TestTokenService_Rejections(t *testing.T) {
	service := newTokenService(t, "top-secret")
	other := newTokenService(t, "another-secret")

	foreign, err := other.IssueAccessToken("alice")
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice"}).SignedString([]byte("top-secret"))
	require.NoError(t, err)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("top-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"wrong_secret", foreign, sec.ErrTokenSignature},
		{"wrong_algorithm", wrongAlg, sec.ErrTokenSignature},
		{"garbage", "not-a-jwt", sec.ErrTokenMalformed},
		{"empty", "", sec.ErrTokenMalformed},
		{"missing_exp", noExpiry, sec.ErrTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Validate(tt.token)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, sec.ErrInvalidToken)
		})
	}
}

/*
TestTokenService_PurposeMismatch makes sure an email token cannot be used as an access token.
*/
func TestTokenService_PurposeMismatch(t *testing.T) {
	service := newTokenService(t, "top-secret")

	token, err := service.IssueEmailToken("alice@example.com")
	require.NoError(t, err)

	_, err = service.ValidatePurpose(token, sec.PurposeAccess)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenService_ResetToken verifies the embedded password claim.
*/
func TestTokenService_ResetToken(t *testing.T) {
	service := newTokenService(t, "top-secret")

	token, err := service.IssueResetToken("alice@example.com", "$2a$10$digest")
	require.NoError(t, err)

	claims, err := service.ValidatePurpose(token, sec.PurposePasswordReset)
	require.NoError(t, err)

	password, err := sec.ExtractPassword(claims)
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$digest", password)

	access, err := service.IssueAccessToken("alice")
	require.NoError(t, err)
	accessClaims, err := service.Validate(access)
	require.NoError(t, err)

	_, err = sec.ExtractPassword(accessClaims)
	assert.ErrorIs(t, err, sec.ErrTokenMalformed)
}

func TestNewTokenService_RejectsBadConfig(t *testing.T) {
	_, err := sec.NewTokenService("", "HS256", time.Hour)
	assert.Error(t, err)

	_, err = sec.NewTokenService("secret", "RS256", time.Hour)
	assert.Error(t, err)
}
