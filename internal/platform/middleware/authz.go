// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/contactly/internal/platform/apperr"
	"github.com/taibuivan/contactly/internal/platform/constants"
	"github.com/taibuivan/contactly/internal/platform/ctxutil"
	"github.com/taibuivan/contactly/internal/platform/respond"
	"github.com/taibuivan/contactly/internal/platform/sec"
	"github.com/taibuivan/contactly/internal/users/identity"
)

// IdentityResolver turns a bearer token into the identity that owns it.
//
// Declared here so handlers can be tested with a stub resolver.
type IdentityResolver interface {
	Resolve(context context.Context, token string) (*identity.Identity, error)
}

// Authenticate requires a valid 'Authorization: Bearer <token>' header.
//
// # Flow
//  1. Reject requests without the header, or with another scheme, before any
//     cache or store access.
//  2. Resolve the token via [IdentityResolver].
//  3. Inject the [*identity.Identity] into the request context.
//
// Every authentication failure produces the same 401 body.
func Authenticate(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Header Extraction ──────────────────────────────────────────
			token, ok := bearerToken(request)
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized(identity.MessageUnauthorized))
				return
			}

			// ── 2. Resolution ─────────────────────────────────────────────────
			caller, err := resolver.Resolve(request.Context(), token)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), caller)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("user_id", caller.ID)))

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireRole blocks requests whose identity does not hold role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireRole(role sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if err := identity.RequireRole(ctxutil.GetIdentity(request.Context()), role); err != nil {
				respond.Error(writer, request, err)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// bearerToken extracts the token of a Bearer Authorization header.
func bearerToken(request *http.Request) (string, bool) {
	header := request.Header.Get(constants.HeaderAuthorization)
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
