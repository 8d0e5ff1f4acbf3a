// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the cross-cutting HTTP processing chain.

It acts as a series of decorators around the standard http.Handler, injecting
traceability, safety, and security into every request lifecycle.

Standard Stack:

  - Trace: RequestID generation for log correlation.
  - Log: Structured activity logging (slog) and Prometheus request metrics.
  - Guard: Per-address rate limiting and CORS validation.
  - Safe: Panic recovery to prevent server crashes.
  - Identity: Bearer-token authentication and role checks (authz.go).
*/
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/netip"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/taibuivan/contactly/internal/platform/apperr"
	"github.com/taibuivan/contactly/internal/platform/constants"
	"github.com/taibuivan/contactly/internal/platform/ctxutil"
	"github.com/taibuivan/contactly/internal/platform/metrics"
	"github.com/taibuivan/contactly/internal/platform/respond"
)

// # Request Tracing

// RequestID attaches a correlation ID to every request for log tracing.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Check if the client already provided an ID
			requestID := request.Header.Get(constants.HeaderXRequestID)

			// 2. Generate a new one if missing (UUID v7 keeps ids time-sortable)
			if requestID == "" {
				uuidV7, err := uuid.NewV7()
				if err != nil {
					requestID = uuid.New().String()
				} else {
					requestID = uuidV7.String()
				}
			}

			// 3. Inject into context and response headers
			ctx := ctxutil.WithRequestID(request.Context(), requestID)
			writer.Header().Set(constants.HeaderXRequestID, requestID)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Activity Logging

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// StructuredLogger logs every request status and latency.
// It also injects a request-specific logger into the context.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			startTime := time.Now()

			// 1. Create a sub-logger for this specific request
			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			// 2. Inject this logger into the context for downstream use
			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			wrappedWriter := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			// 3. Proceed to downstream handlers with the enriched context
			next.ServeHTTP(wrappedWriter, request.WithContext(ctx))

			// 4. Final log entry after the request is finished
			logLevel := slog.LevelInfo
			if wrappedWriter.status >= 500 {
				logLevel = slog.LevelError
			} else if wrappedWriter.status >= 400 {
				logLevel = slog.LevelWarn
			}

			requestLogger.Log(ctx, logLevel, "http_request_finished",
				slog.Int("status", wrappedWriter.status),
				slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			)
		})
	}
}

// # Metrics

// Metrics records request counts and latency per chi route pattern.
//
// Must be registered on a chi router; the pattern is read after routing.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()
			wrappedWriter := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(wrappedWriter, request)

			route := "unmatched"
			if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
				if pattern := routeContext.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			metrics.HTTPRequestsTotal.WithLabelValues(route, request.Method, strconv.Itoa(wrappedWriter.status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(route, request.Method).Observe(time.Since(startTime).Seconds())
		})
	}
}

// # Rate Limiting

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// addressLimiter keeps one token bucket per caller address.
type addressLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
	limit   rate.Limit
	burst   int
}

func (limiter *addressLimiter) allow(address string) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	clientInfo, found := limiter.clients[address]
	if !found {
		clientInfo = &rateLimitClient{limiter: rate.NewLimiter(limiter.limit, limiter.burst)}
		limiter.clients[address] = clientInfo
	}

	clientInfo.lastSeen = time.Now()
	return clientInfo.limiter.Allow()
}

func (limiter *addressLimiter) sweep() {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	for address, clientInfo := range limiter.clients {
		if time.Since(clientInfo.lastSeen) > constants.RateLimitClientTTL {
			delete(limiter.clients, address)
		}
	}
}

// RateLimit limits requests per caller address using the token bucket algorithm.
//
// Every call creates an independent set of buckets, so a route-level limiter
// does not share budget with the global one. Idle entries are swept until
// context is cancelled.
func RateLimit(context context.Context, limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := &addressLimiter{
		clients: make(map[string]*rateLimitClient),
		limit:   limit,
		burst:   burst,
	}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				limiter.sweep()
			case <-context.Done():
				return
			}
		}
	}()

	retryAfter := retryAfterSeconds(limit)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !limiter.allow(RealIP(request)) {
				writer.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))
				respond.Error(writer, request, apperr.RateLimited(retryAfter))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// PerMinute converts a per-minute allowance into a [rate.Limit].
func PerMinute(requests int) rate.Limit {
	return rate.Every(time.Minute / time.Duration(requests))
}

// retryAfterSeconds is the time for one token to refill, rounded up.
func retryAfterSeconds(limit rate.Limit) int {
	if limit <= 0 || limit == rate.Inf {
		return 1
	}
	seconds := math.Round(1/float64(limit)*1000) / 1000
	return int(math.Max(1, math.Ceil(seconds)))
}

// # Reliability & Safety

// PanicRecovery recovers from panics, logs stack trace, and returns 500.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					// Capture the runtime stack trace for diagnostics
					stackTrace := make([]byte, 2048)
					length := runtime.Stack(stackTrace, false)

					ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
						slog.Any("error", err),
						slog.String("stack", string(stackTrace[:length])),
					)

					writeError(writer, http.StatusInternalServerError, apperr.CodeInternal, "An unexpected error occurred")
				}
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig defines the behavior needed by the CORS middleware.
type AppConfig interface {
	IsDevelopment() bool
}

// CORS handles Cross-Origin Resource Sharing. Development accepts any origin;
// other environments accept only allowedOrigins.
func CORS(cfg AppConfig, allowedOrigins []string) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", constants.HeaderAuthorization, constants.HeaderXRequestID},
		ExposedHeaders:   []string{"Content-Length", constants.HeaderXRequestID, constants.HeaderRetryAfter},
		AllowCredentials: true,
		MaxAge:           300,
	}

	if cfg.IsDevelopment() {
		options.AllowedOrigins = nil
		options.AllowOriginFunc = func(_ *http.Request, _ string) bool { return true }
	}

	return cors.Handler(options)
}

// # Middleware Helpers

// TrustProxies replaces RemoteAddr with the client address reported by a
// trusted reverse proxy. Forwarding headers from any other peer are ignored.
//
// X-Forwarded-For is read right to left and the first hop outside trusted wins.
// X-Real-IP is used when X-Forwarded-For is absent.
func TrustProxies(trusted []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(trusted) == 0 {
			return next
		}

		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if client, ok := forwardedClient(request, trusted); ok {
				request.RemoteAddr = net.JoinHostPort(client.String(), "0")
			}
			next.ServeHTTP(writer, request)
		})
	}
}

func forwardedClient(request *http.Request, trusted []netip.Prefix) (netip.Addr, bool) {
	peer, err := netip.ParseAddr(RealIP(request))
	if err != nil || !containsAddr(trusted, peer) {
		return netip.Addr{}, false
	}

	if forwarded := request.Header.Values(constants.HeaderXForwardedFor); len(forwarded) > 0 {
		hops := strings.Split(strings.Join(forwarded, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				return netip.Addr{}, false
			}
			if !containsAddr(trusted, hop) {
				return hop.Unmap(), true
			}
		}
		return netip.Addr{}, false
	}

	if realIP := request.Header.Get(constants.HeaderXRealIP); realIP != "" {
		addr, err := netip.ParseAddr(strings.TrimSpace(realIP))
		if err != nil {
			return netip.Addr{}, false
		}
		return addr.Unmap(), true
	}

	return netip.Addr{}, false
}

func containsAddr(prefixes []netip.Prefix, addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// RealIP returns the host part of the direct peer address. Behind a trusted
// proxy, [TrustProxies] has already rewritten it to the forwarded client.
func RealIP(request *http.Request) string {
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}

// writeError outputs a simple JSON error payload without touching the request context.
func writeError(writer http.ResponseWriter, status int, code, message string) {
	writer.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(map[string]string{
		constants.FieldCode:  code,
		constants.FieldError: message,
	})
}
