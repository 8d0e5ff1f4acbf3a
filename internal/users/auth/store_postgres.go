// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/contactly/internal/platform/apperr"
	"github.com/taibuivan/contactly/internal/platform/database/schema"
	"github.com/taibuivan/contactly/internal/platform/dberr"
	"github.com/taibuivan/contactly/internal/platform/postgres"
	"github.com/taibuivan/contactly/internal/platform/sec"
	"github.com/taibuivan/contactly/internal/users/identity"
	"github.com/taibuivan/contactly/pkg/pointer"
)

// # User Repository

// PostgresUserRepository implements the [UserRepository] interface using pgx.
type PostgresUserRepository struct {
	db postgres.DB
}

// NewUserRepository creates a new PostgreSQL implementation of the [UserRepository].
func NewUserRepository(db postgres.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var accountColumns = strings.Join(schema.UserAccount.Columns(), ", ")

/*
Create persists a new account into the users.account table.

Parameters:
  - context: context.Context
  - user: *identity.Identity (ID, credentials and role must be set)

Returns:
  - error: apperr.Conflict on a duplicate username or email, otherwise storage errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *identity.Identity) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.Password, schema.UserAccount.Role, schema.UserAccount.IsConfirmed, schema.UserAccount.AvatarURL,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.Confirmed,
		nullable(user.AvatarURL),
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if _, ok := dberr.UniqueViolation(err); ok {
			return apperr.Conflict(MessageAccountExists)
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

// FindByID retrieves an account by primary key.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*identity.Identity, error) {
	return repository.findBy(context, schema.UserAccount.ID, id, "postgres_user_repo_find_by_id_failed")
}

// FindByUsername retrieves an account by its unique username.
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*identity.Identity, error) {
	return repository.findBy(context, schema.UserAccount.Username, username, "postgres_user_repo_find_by_username_failed")
}

// FindByEmail retrieves an account by its unique email address.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*identity.Identity, error) {
	return repository.findBy(context, schema.UserAccount.Email, email, "postgres_user_repo_find_by_email_failed")
}

func (repository *PostgresUserRepository) findBy(context context.Context, column, value, action string) (*identity.Identity, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, accountColumns, schema.UserAccount.Table, column)

	user, err := scanAccount(repository.db.QueryRow(context, query, value))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, identity.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	return user, nil
}

// MarkConfirmed implements [UserRepository].
func (repository *PostgresUserRepository) MarkConfirmed(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.IsConfirmed, schema.UserAccount.UpdatedAt, schema.UserAccount.ID,
	)

	return repository.execOne(context, query, "postgres_user_repo_mark_confirmed_failed", id)
}

// UpdatePassword implements [UserRepository].
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, id, passwordHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Password, schema.UserAccount.UpdatedAt, schema.UserAccount.ID,
	)

	return repository.execOne(context, query, "postgres_user_repo_update_password_failed", id, passwordHash)
}

// UpdateAvatar implements [UserRepository].
func (repository *PostgresUserRepository) UpdateAvatar(context context.Context, id, avatarURL string) (*identity.Identity, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 RETURNING %s`,
		schema.UserAccount.Table, schema.UserAccount.AvatarURL, schema.UserAccount.UpdatedAt, schema.UserAccount.ID,
		accountColumns,
	)

	return repository.updateReturning(context, query, "postgres_user_repo_update_avatar_failed", id, avatarURL)
}

// UpdateRole implements [UserRepository].
func (repository *PostgresUserRepository) UpdateRole(context context.Context, username string, role sec.Role) (*identity.Identity, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 RETURNING %s`,
		schema.UserAccount.Table, schema.UserAccount.Role, schema.UserAccount.UpdatedAt, schema.UserAccount.Username,
		accountColumns,
	)

	return repository.updateReturning(context, query, "postgres_user_repo_update_role_failed", username, string(role))
}

func (repository *PostgresUserRepository) execOne(context context.Context, query, action string, args ...any) error {
	tag, err := repository.db.Exec(context, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	if tag.RowsAffected() == 0 {
		return identity.ErrNotFound
	}
	return nil
}

func (repository *PostgresUserRepository) updateReturning(context context.Context, query, action string, args ...any) (*identity.Identity, error) {
	user, err := scanAccount(repository.db.QueryRow(context, query, args...))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, identity.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	return user, nil
}

// # Scanning

func scanAccount(row pgx.Row) (*identity.Identity, error) {
	var (
		user   identity.Identity
		role   string
		avatar *string
	)

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&role,
		&user.Confirmed,
		&avatar,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = sec.Role(role)
	user.AvatarURL = pointer.Val(avatar)
	return &user, nil
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
