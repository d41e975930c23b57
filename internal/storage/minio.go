// Package storage provides the MinIO-backed object store for user avatars.
// It exposes exactly the capability the account flows need: upload a file
// and get a public URL back, delete by URL.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gurusys/blog-api/internal/config"
)

// AvatarStore uploads avatar images into a single bucket and serves them
// from the configured public base URL.
type AvatarStore struct {
	cfg    config.StorageConfig
	client *minio.Client
}

// New builds the MinIO client and fail-fast checks that the target bucket
// exists.
func New(ctx context.Context, cfg config.StorageConfig) (*AvatarStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: new client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("storage: bucket check: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("storage: bucket %q does not exist", cfg.Bucket)
	}
	return &AvatarStore{cfg: cfg, client: client}, nil
}

// Upload stores the image under a fresh object key and returns its public
// URL.
func (s *AvatarStore) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	if size <= 0 || size > s.cfg.MaxSizeBytes {
		return "", fmt.Errorf("storage: invalid upload size %d", size)
	}
	var ext string
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	default:
		return "", fmt.Errorf("storage: unsupported content type %q", contentType)
	}
	key := fmt.Sprintf("IMG_%d_%s%s", time.Now().UTC().UnixMilli(), uuid.NewString(), ext)
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("storage: put object: %w", err)
	}
	return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key, nil
}

// Delete removes the object behind a URL previously returned by Upload.
// URLs from other origins (e.g. default dicebear avatars) are ignored.
func (s *AvatarStore) Delete(ctx context.Context, url string) error {
	base := strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/"
	if !strings.HasPrefix(url, base) {
		return nil
	}
	key := strings.TrimPrefix(url, base)
	return s.client.RemoveObject(ctx, s.cfg.Bucket, key, minio.RemoveObjectOptions{})
}
