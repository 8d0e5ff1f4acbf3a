// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/contactly/internal/platform/constants"
	requestutil "github.com/taibuivan/contactly/internal/platform/request"
	"github.com/taibuivan/contactly/internal/platform/respond"
	"github.com/taibuivan/contactly/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the account lifecycle HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register                       : Creates a new account.
//   - POST /login                          : Exchanges credentials for an access token.
//   - GET  /confirmed_email/{token}        : Confirms an email address.
//   - POST /request_email                  : Re-sends the confirmation mail.
//   - POST /reset_password                 : Mails a password change link.
//   - GET  /confirm_password_reset/{token} : Applies the new password.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Get("/confirmed_email/{"+FieldToken+"}", handler.confirmEmail)
	router.Post("/request_email", handler.requestEmail)
	router.Post("/reset_password", handler.resetPassword)
	router.Get("/confirm_password_reset/{"+FieldToken+"}", handler.confirmPasswordReset)

	return router
}

/*
POST /api/auth/register.

Response:
  - 201: Identity: Created account
  - 400: ValidationError
  - 409: Conflict: Username or email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input RegisterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
POST /api/auth/login.

Description: Accepts a JSON body or an OAuth2 password-grant form
(username, password).

Response:
  - 200: TokenPair
  - 401: Unauthorized: Bad credentials or unconfirmed email
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input LoginInput

	if strings.HasPrefix(request.Header.Get(constants.HeaderContentType), "application/x-www-form-urlencoded") {
		if err := request.ParseForm(); err != nil {
			respond.Error(writer, request, validate.ErrInvalidJSON)
			return
		}
		input.Username = request.PostForm.Get("username")
		input.Password = request.PostForm.Get("password")
	} else if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tokens, err := handler.authService.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, tokens)
}

func (handler *Handler) confirmEmail(writer http.ResponseWriter, request *http.Request) {
	message, err := handler.authService.ConfirmEmail(request.Context(), requestutil.Param(request, FieldToken))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, message)
}

func (handler *Handler) requestEmail(writer http.ResponseWriter, request *http.Request) {
	var input EmailInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.authService.RequestEmail(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, message)
}

func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input ResetPasswordInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.authService.RequestPasswordReset(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, message)
}

func (handler *Handler) confirmPasswordReset(writer http.ResponseWriter, request *http.Request) {
	message, err := handler.authService.ConfirmPasswordReset(request.Context(), requestutil.Param(request, FieldToken))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, message)
}
