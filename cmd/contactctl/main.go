// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command contactctl performs operator tasks against the Contactly database:
// creating admin accounts, promoting users and rolling back migrations.
//
// It reads the same environment as the API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/taibuivan/contactly/internal/platform/avatar"
	"github.com/taibuivan/contactly/internal/platform/config"
	"github.com/taibuivan/contactly/internal/platform/mailer"
	"github.com/taibuivan/contactly/internal/platform/migration"
	pgstore "github.com/taibuivan/contactly/internal/platform/postgres"
	redisstore "github.com/taibuivan/contactly/internal/platform/redis"
	"github.com/taibuivan/contactly/internal/platform/sec"
	"github.com/taibuivan/contactly/internal/users/account"
	"github.com/taibuivan/contactly/internal/users/auth"
	"github.com/taibuivan/contactly/internal/users/identity"
)

func main() {
	if err := execute(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "contactctl:", err)
		os.Exit(1)
	}
}

func execute(args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})).
		With(slog.String("app", "contactctl"))

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	rdb, err := redisstore.NewClient(ctx, cfg.RedisURL, log)
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := auth.NewUserRepository(pool)
	cache := identity.NewRedisCache(rdb, cfg.IdentityCacheTTL)

	authService := auth.NewService(auth.Dependencies{
		Users:   users,
		Hasher:  sec.NewBcryptHasher(0),
		Cache:   cache,
		Mailer:  mailer.NewLogMailer(log),
		BaseURL: cfg.BaseURL,
		Logger:  log,
	})

	cmd := &commands{
		admins:   authService,
		promoter: account.NewService(users, avatar.DisabledStore{}, cache, log),
		migrateDown: func(steps int) error {
			return migration.RunDown(cfg.DatabaseURL, cfg.MigrationPath, steps, log)
		},
		out: os.Stdout,
	}

	return cmd.run(ctx, args)
}
