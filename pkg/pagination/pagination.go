// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// List endpoints are windowed with "skip" (rows to pass over) and "limit"
// (rows to return) query parameters, applied directly as SQL OFFSET/LIMIT.
package pagination

import (
	"net/http"
	"strconv"

	"github.com/taibuivan/contactly/internal/platform/validate"
)

const (
	// DefaultLimit is the number of items returned if not specified.
	DefaultLimit = 100
	// MaxLimit is the upper bound for a single window.
	MaxLimit = 500
	// ParamSkip and ParamLimit are the query parameter names.
	ParamSkip  = "skip"
	ParamLimit = "limit"
)

// Params holds the parsed skip and limit from a request's query string.
type Params struct {
	Skip  int
	Limit int
}

// Default returns the window used when a request carries no parameters.
func Default() Params {
	return Params{Skip: 0, Limit: DefaultLimit}
}

// Offset returns the SQL OFFSET value.
func (p Params) Offset() int {
	return p.Skip
}

// FromRequest parses "skip" and "limit" query parameters from an HTTP request.
//
// # Validation
//
// Non-integer values and a negative skip fail with VALIDATION_ERROR. A limit
// outside [1, MaxLimit] is clamped.
func FromRequest(r *http.Request) (Params, error) {
	params := Default()

	v := &validate.Validator{}

	if raw := r.URL.Query().Get(ParamSkip); raw != "" {
		skip, err := strconv.Atoi(raw)
		v.Custom(ParamSkip, err != nil, "Must be an integer")
		v.Custom(ParamSkip, err == nil && skip < 0, "Must be greater than or equal to 0")
		params.Skip = skip
	}

	if raw := r.URL.Query().Get(ParamLimit); raw != "" {
		limit, err := strconv.Atoi(raw)
		v.Custom(ParamLimit, err != nil, "Must be an integer")
		params.Limit = clamp(limit)
	}

	if err := v.Err(); err != nil {
		return Params{}, err
	}

	return params, nil
}

func clamp(limit int) int {
	switch {
	case limit < 1:
		return 1
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
