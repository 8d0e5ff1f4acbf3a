// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package avatar

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures an S3-compatible bucket.
type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string

	// PublicURL is the base URL objects are served from. Defaults to
	// Endpoint/Bucket when empty.
	PublicURL string
}

// objectPutter is the slice of the S3 API the store needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store implements [Store] on an S3-compatible bucket.
type S3Store struct {
	client    objectPutter
	bucket    string
	publicURL string
}

// NewS3Store builds an S3 client from static credentials, honouring a custom endpoint
// (MinIO, R2) when one is configured.
func NewS3Store(context context.Context, options S3Options) (*S3Store, error) {
	loadOptions := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(options.Region)}
	if options.AccessKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(options.AccessKey, options.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("avatar: failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if options.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(client, options), nil
}

func newS3Store(client objectPutter, options S3Options) *S3Store {
	publicURL := options.PublicURL
	if publicURL == "" {
		base := options.Endpoint
		if base == "" {
			base = fmt.Sprintf("https://s3.%s.amazonaws.com", options.Region)
		}
		publicURL = strings.TrimRight(base, "/") + "/" + options.Bucket
	}

	return &S3Store{
		client:    client,
		bucket:    options.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// Put implements [Store].
func (store *S3Store) Put(context context.Context, upload Upload) (string, error) {
	key := path.Join(folder, upload.PublicID)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(store.bucket),
		Key:         aws.String(key),
		Body:        upload.Body,
		ContentType: aws.String(upload.ContentType),
	}
	if upload.Size > 0 {
		input.ContentLength = aws.Int64(upload.Size)
	}

	if _, err := store.client.PutObject(context, input); err != nil {
		return "", fmt.Errorf("avatar: s3 put failed: %w", err)
	}

	return store.publicURL + "/" + key, nil
}
