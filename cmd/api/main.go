// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Contactly HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/contactly/internal/api"
	"github.com/taibuivan/contactly/internal/contacts"
	"github.com/taibuivan/contactly/internal/platform/avatar"
	"github.com/taibuivan/contactly/internal/platform/config"
	"github.com/taibuivan/contactly/internal/platform/constants"
	"github.com/taibuivan/contactly/internal/platform/mailer"
	"github.com/taibuivan/contactly/internal/platform/middleware"
	"github.com/taibuivan/contactly/internal/platform/migration"
	pgstore "github.com/taibuivan/contactly/internal/platform/postgres"
	redisstore "github.com/taibuivan/contactly/internal/platform/redis"
	"github.com/taibuivan/contactly/internal/platform/sec"
	"github.com/taibuivan/contactly/internal/users/account"
	"github.com/taibuivan/contactly/internal/users/auth"
	"github.com/taibuivan/contactly/internal/users/identity"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "contactly"))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "contactly"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("avatar_storage", cfg.AvatarStorage),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Lives as long as the process; stops background sweepers on shutdown.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security & Infrastructure ──────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL())
	must(log, err, "initialize token service")

	mailService, err := mailer.New(cfg.Mail, log)
	must(log, err, "initialize mailer")

	avatarStore, err := avatar.New(startupCtx, cfg)
	must(log, err, "initialize avatar storage")

	identityCache := identity.NewRedisCache(rdb, cfg.IdentityCacheTTL)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	health := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.SelectOne(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	resolver := identity.NewResolver(tokenService, identityCache, userRepository, log)

	authService := auth.NewService(auth.Dependencies{
		Users:   userRepository,
		Hasher:  sec.NewBcryptHasher(0),
		Tokens:  tokenService,
		Cache:   identityCache,
		Mailer:  mailService,
		BaseURL: cfg.BaseURL,
		Logger:  log,
	})

	accountService := account.NewService(userRepository, avatarStore, identityCache, log)
	profileLimit := middleware.RateLimit(appCtx, middleware.PerMinute(constants.ProfileRateLimitPerMinute), constants.ProfileRateLimitPerMinute)

	contactService := contacts.NewService(contacts.NewPostgresRepository(pool), log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(appCtx, cfg, log, api.Handlers{
		Health:   health,
		Auth:     auth.NewHandler(authService),
		Account:  account.NewHandler(accountService, resolver, profileLimit),
		Contacts: contacts.NewHandler(contactService, resolver),
	})

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	// Drain detached work before the pool and Redis client close.
	resolver.Wait()
	authService.Wait()

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
