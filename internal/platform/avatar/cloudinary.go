// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package avatar

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore implements [Store] with the Cloudinary upload API.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStore authenticates a Cloudinary client.
func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("avatar: failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld}, nil
}

// Put implements [Store]. The public id is fixed per account, so a new upload
// overwrites the previous image.
func (store *CloudinaryStore) Put(context context.Context, upload Upload) (string, error) {
	result, err := store.cld.Upload.Upload(context, upload.Body, uploader.UploadParams{
		PublicID:     upload.PublicID,
		Folder:       folder,
		Overwrite:    api.Bool(true),
		Invalidate:   api.Bool(true),
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("avatar: cloudinary upload failed: %w", err)
	}

	if result.Error.Message != "" {
		return "", fmt.Errorf("avatar: cloudinary rejected upload: %s", result.Error.Message)
	}

	return result.SecureURL, nil
}
