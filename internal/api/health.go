// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/contactly/internal/platform/apperr"
	"github.com/taibuivan/contactly/internal/platform/constants"
	"github.com/taibuivan/contactly/internal/platform/respond"
)

// Health messages.
const (
	MessageWelcome       = "Welcome to Contactly!"
	MessageDatabaseError = "Error connecting to the database"
)

// HealthDependencies holds the injectable dependency checkers for the probes.
type HealthDependencies struct {
	// CheckDatabase runs a trivial query against PostgreSQL.
	CheckDatabase func(context.Context) error

	// CheckCache pings Redis.
	CheckCache func(context.Context) error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// HealthHandlers are the probe endpoints mounted at the router root.
type HealthHandlers struct {
	Liveness      http.HandlerFunc
	Readiness     http.HandlerFunc
	HealthChecker http.HandlerFunc
}

// NewHealthHandlers creates the /health, /ready and /healthchecker handlers.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) HealthHandlers {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return HealthHandlers{
		Liveness:      handler.liveness,
		Readiness:     handler.readiness,
		HealthChecker: handler.healthChecker,
	}
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
}

// healthChecker handles GET /healthchecker, a database round trip.
func (handler *healthHandler) healthChecker(writer http.ResponseWriter, request *http.Request) {
	if handler.dependencies.CheckDatabase != nil {
		if err := handler.dependencies.CheckDatabase(request.Context()); err != nil {
			handler.logger.ErrorContext(request.Context(), "healthchecker_failed", slog.Any("error", err))
			respond.Error(writer, request, &apperr.AppError{
				Code:       apperr.CodeInternal,
				Message:    MessageDatabaseError,
				HTTPStatus: http.StatusInternalServerError,
				Cause:      err,
			})
			return
		}
	}

	respond.Message(writer, MessageWelcome)
}

// readiness handles GET /ready (Readiness probe).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	type checkResult struct {
		Name  string `json:"name"`
		IsOK  bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}

	checks := []struct {
		name  string
		probe func(context.Context) error
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
	}

	results := make([]checkResult, 0, len(checks))
	isSystemReady := true

	for _, check := range checks {
		if check.probe == nil {
			continue
		}

		result := checkResult{Name: check.name, IsOK: true}
		if err := check.probe(request.Context()); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.ErrorContext(request.Context(), "readiness_check_failed",
				slog.String("dependency", check.name),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	responseStatus := "ready"
	httpStatus := http.StatusOK
	if !isSystemReady {
		responseStatus = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	respond.Status(writer, httpStatus, map[string]any{
		constants.FieldStatus: responseStatus,
		constants.FieldChecks: results,
	})
}
