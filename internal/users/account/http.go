// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/contactly/internal/platform/constants"
	"github.com/taibuivan/contactly/internal/platform/middleware"
	requestutil "github.com/taibuivan/contactly/internal/platform/request"
	"github.com/taibuivan/contactly/internal/platform/respond"
	"github.com/taibuivan/contactly/internal/platform/sec"
	"github.com/taibuivan/contactly/internal/platform/validate"
	"github.com/taibuivan/contactly/internal/users/identity"
)

// Handler implements the HTTP layer for the caller's account.
type Handler struct {
	accountService *Service
	resolver       middleware.IdentityResolver
	profileLimit   func(http.Handler) http.Handler
}

// NewHandler constructs a new account [Handler].
//
// profileLimit throttles GET /me; pass a [middleware.RateLimit] instance.
func NewHandler(service *Service, resolver middleware.IdentityResolver, profileLimit func(http.Handler) http.Handler) *Handler {
	return &Handler{
		accountService: service,
		resolver:       resolver,
		profileLimit:   profileLimit,
	}
}

// Routes returns a [chi.Router] configured with the account endpoints.
//
// # Endpoints
//   - GET   /me     : Current identity (rate limited per caller address).
//   - PATCH /avatar : Replaces the caller's avatar (admin only).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(router chi.Router) {
		router.Use(handler.profileLimit)
		router.Use(middleware.Authenticate(handler.resolver))
		router.Get("/me", handler.getMe)
	})

	router.Group(func(router chi.Router) {
		router.Use(middleware.Authenticate(handler.resolver))
		router.Use(middleware.RequireRole(sec.RoleAdmin))
		router.Patch("/avatar", handler.updateAvatar)
	})

	return router
}

/*
GET /api/users/me.

Response:
  - 200: Identity
  - 401: Unauthorized
  - 429: RateLimited
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, caller)
}

/*
PATCH /api/users/avatar.

Request:
  - body: multipart/form-data with an image in the "file" field

Response:
  - 200: Identity: The account with its new avatar URL
  - 400: ValidationError: Missing, oversized or non-image file
  - 403: Forbidden: Caller is not an admin
  - 503: ServiceUnavailable: No avatar storage configured
*/
func (handler *Handler) updateAvatar(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxAvatarBytes)
	if err := request.ParseMultipartForm(constants.MaxAvatarBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(writer, request, validate.RequiredError(identity.FieldAvatar, MessageFileTooLarge))
			return
		}
		respond.Error(writer, request, validate.RequiredError(identity.FieldAvatar, MessageFileRequired))
		return
	}
	defer func() { _ = request.MultipartForm.RemoveAll() }()

	file, header, err := request.FormFile(identity.FieldAvatar)
	if err != nil {
		respond.Error(writer, request, validate.RequiredError(identity.FieldAvatar, MessageFileRequired))
		return
	}
	defer file.Close()

	contentType := header.Header.Get(constants.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		respond.Error(writer, request, validate.RequiredError(identity.FieldAvatar, MessageNotAnImage))
		return
	}

	updated, err := handler.accountService.UpdateAvatar(request.Context(), caller, Image{
		Body:        file,
		Size:        header.Size,
		ContentType: contentType,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}
