// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/taibuivan/contactly/internal/platform/avatar"
	"github.com/taibuivan/contactly/internal/platform/sec"
	"github.com/taibuivan/contactly/internal/users/identity"
)

// # Service Layer

// Service implements the account use cases.
type Service struct {
	users  Repository
	images avatar.Store
	cache  identity.Cache
	logger *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(users Repository, images avatar.Store, cache identity.Cache, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		images: images,
		cache:  cache,
		logger: logger,
	}
}

// Image is an uploaded avatar file.
type Image struct {
	Body        io.Reader
	Size        int64
	ContentType string
}

/*
UpdateAvatar stores a new avatar for caller and persists its URL.

Description: The image is stored under the caller's username, so a new upload
replaces the previous one. Only admins may change avatars.

Returns:
  - *identity.Identity: The updated account
  - error: FORBIDDEN for non-admins, SERVICE_UNAVAILABLE without storage, or storage errors
*/
func (service *Service) UpdateAvatar(context context.Context, caller *identity.Identity, image Image) (*identity.Identity, error) {
	if err := identity.RequireRole(caller, sec.RoleAdmin); err != nil {
		return nil, err
	}

	avatarURL, err := service.images.Put(context, avatar.Upload{
		PublicID:    caller.Username,
		Body:        image.Body,
		Size:        image.Size,
		ContentType: image.ContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("account_service_upload_avatar_failed: %w", err)
	}

	updated, err := service.users.UpdateAvatar(context, caller.ID, avatarURL)
	if err != nil {
		return nil, err
	}
	service.invalidate(context, updated.Username)

	service.logger.InfoContext(context, "avatar_updated",
		slog.String("user_id", updated.ID),
		slog.String("avatar", avatarURL),
	)

	return updated, nil
}

// Promote grants the admin role to username.
func (service *Service) Promote(context context.Context, username string) (*identity.Identity, error) {
	updated, err := service.users.UpdateRole(context, username, sec.RoleAdmin)
	if err != nil {
		return nil, err
	}
	service.invalidate(context, updated.Username)

	service.logger.InfoContext(context, "user_promoted", slog.String("user_id", updated.ID))
	return updated, nil
}

func (service *Service) invalidate(context context.Context, username string) {
	if err := service.cache.Invalidate(context, username); err != nil {
		service.logger.ErrorContext(context, "identity_cache_invalidate_failed",
			slog.String("username", username),
			slog.Any("error", err),
		)
	}
}
