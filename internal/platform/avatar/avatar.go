// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package avatar uploads profile images to an external object store and returns
their public URL.

Backends:

  - Cloudinary (AVATAR_STORAGE=cloudinary)
  - Any S3-compatible bucket (AVATAR_STORAGE=s3)
  - Disabled (AVATAR_STORAGE=none), which rejects uploads with 503
*/
package avatar

import (
	"context"
	"fmt"
	"io"

	"github.com/taibuivan/contactly/internal/platform/apperr"
	"github.com/taibuivan/contactly/internal/platform/config"
)

// folder groups avatars inside the backend.
const folder = "contactly/avatars"

// Upload describes one image to store.
type Upload struct {
	// PublicID is the stable name of the object; re-uploading replaces it.
	PublicID    string
	Body        io.Reader
	Size        int64
	ContentType string
}

// Store persists avatar images.
type Store interface {
	// Put stores the image and returns the URL clients should load it from.
	Put(context context.Context, upload Upload) (string, error)
}

// New selects the backend named by cfg.AvatarStorage.
func New(context context.Context, cfg *config.Config) (Store, error) {
	switch cfg.AvatarStorage {
	case config.AvatarStorageCloudinary:
		return NewCloudinaryStore(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	case config.AvatarStorageS3:
		return NewS3Store(context, S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	case config.AvatarStorageNone:
		return DisabledStore{}, nil
	default:
		return nil, fmt.Errorf("avatar: unknown storage backend %q", cfg.AvatarStorage)
	}
}

// DisabledStore rejects every upload.
type DisabledStore struct{}

// Put implements [Store].
func (DisabledStore) Put(context.Context, Upload) (string, error) {
	return "", apperr.ServiceUnavailable("Avatar storage is not configured")
}
