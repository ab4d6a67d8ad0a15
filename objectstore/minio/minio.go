// Package minio provides an S3/MinIO-backed objectstore.Store.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/oscarhermoso/cubecache/errors"
	"github.com/oscarhermoso/cubecache/internal/keyutil"
)

const jsonContentType = "application/json"

// Store implements objectstore.Store on top of an S3-compatible service.
type Store struct {
	client *minio.Client
	region string
	prefix string
}

// New creates an S3/MinIO-backed store.
// Returns an error if the configuration is invalid or the client cannot be built.
func New(cfg Config) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "invalid config")
	}

	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
			Region: region,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to create minio client")
		}
	}

	return &Store{
		client: client,
		region: region,
		prefix: keyutil.NormalizePrefix(cfg.Prefix),
	}, nil
}

// GetObject reads the whole object stored under key.
func (s *Store) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	objectKey := keyutil.Join(s.prefix, key)

	obj, err := s.client.GetObject(ctx, bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, translate(err, fmt.Sprintf("failed to get object %s/%s", bucket, objectKey))
	}
	defer func() {
		_ = obj.Close()
	}()

	// GetObject is lazy; missing keys surface on the first read.
	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("failed to read object %s/%s", bucket, objectKey))
	}

	return body, nil
}

// PutObject uploads body under key as JSON.
func (s *Store) PutObject(ctx context.Context, bucket, key string, body []byte) error {
	if !keyutil.Valid(key) {
		return errors.Newf(errors.CodeInvalidInput, "invalid object key %q", key)
	}
	objectKey := keyutil.Join(s.prefix, key)

	_, err := s.client.PutObject(ctx, bucket, objectKey, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: jsonContentType})
	if err != nil {
		return translate(err, fmt.Sprintf("failed to put object %s/%s", bucket, objectKey))
	}

	return nil
}

// DeleteObject removes the object under key. S3 reports success for
// missing keys, so this is idempotent.
func (s *Store) DeleteObject(ctx context.Context, bucket, key string) error {
	objectKey := keyutil.Join(s.prefix, key)

	err := s.client.RemoveObject(ctx, bucket, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return translate(err, fmt.Sprintf("failed to delete object %s/%s", bucket, objectKey))
	}

	return nil
}

// EnsureBucket creates bucket in the configured region if it does not exist.
func (s *Store) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return translate(err, fmt.Sprintf("failed to check bucket %s", bucket))
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return translate(err, fmt.Sprintf("failed to create bucket %s", bucket))
	}

	return nil
}
