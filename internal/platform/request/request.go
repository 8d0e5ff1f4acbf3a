// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/contactly/internal/platform/apperr"
	"github.com/taibuivan/contactly/internal/platform/ctxutil"
	"github.com/taibuivan/contactly/internal/platform/validate"
	"github.com/taibuivan/contactly/internal/users/identity"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
PositiveID parses a named URL parameter as a positive integer identifier.

Returns:
  - int64: The parsed identifier
  - error: VALIDATION_ERROR naming the parameter when it is not a positive integer
*/
func PositiveID(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, validate.RequiredError(name, "Must be a positive integer")
	}

	return id, nil
}

/*
QueryInt parses an optional integer query parameter, returning fallback when absent.
*/
func QueryInt(request *http.Request, name string, fallback int) (int, error) {
	raw := request.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validate.RequiredError(name, "Must be an integer")
	}

	return value, nil
}

/*
RequiredIdentity returns the caller resolved by the authentication middleware.

Returns:
  - *identity.Identity: The authenticated caller
  - error: apperr.Unauthorized if the request is anonymous
*/
func RequiredIdentity(request *http.Request) (*identity.Identity, error) {
	caller := ctxutil.GetIdentity(request.Context())
	if caller == nil {
		return nil, apperr.Unauthorized(identity.MessageUnauthorized)
	}
	return caller, nil
}
