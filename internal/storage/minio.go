// Package storage keeps checkout media (memory videos and photos, rendered QR
// images) in a MinIO bucket and hands out presigned URLs for them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const DefaultSignedURLTTL = time.Hour

var ErrNotConfigured = errors.New("object storage is not configured")

type Config struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UseSSL       bool
	Bucket       string
	SignedURLTTL time.Duration
}

type Store struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
	// baseURL is the public prefix of objects in the bucket, e.g.
	// http://minio:9000/giftyy-media/
	baseURL string
	logger  *zap.Logger
}

// Connect opens the MinIO client and makes sure the bucket exists
func Connect(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info("created bucket", zap.String("bucket", cfg.Bucket))
	}

	return newStore(client, cfg, logger), nil
}

func newStore(client *minio.Client, cfg Config, logger *zap.Logger) *Store {
	ttl := cfg.SignedURLTTL
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return &Store{
		client:  client,
		bucket:  cfg.Bucket,
		ttl:     ttl,
		baseURL: fmt.Sprintf("%s://%s/%s/", scheme, cfg.Endpoint, cfg.Bucket),
		logger:  logger,
	}
}

// NewKey builds a unique object key under prefix keeping the extension of
// filename, e.g. memories/3f0c...e1.mp4
func NewKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(prefix, uuid.NewString()+ext)
}

// Upload stores the object and returns its key
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if s == nil || s.client == nil {
		return "", ErrNotConfigured
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}

// ObjectURL is the unsigned URL of key
func (s *Store) ObjectURL(key string) string {
	return s.baseURL + strings.TrimPrefix(key, "/")
}

// ResolveURL turns a stored reference into a URL the app can load. Keys and
// URLs inside the bucket are presigned; anything else is returned as-is.
// Signing failures fall back to the raw value.
func (s *Store) ResolveURL(ctx context.Context, raw string) string {
	if raw == "" || s == nil || s.client == nil {
		return raw
	}
	key, ok := s.objectKey(raw)
	if !ok {
		return raw
	}

	signed, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.ttl, make(url.Values))
	if err != nil {
		s.logger.Warn("presign failed, using unsigned url",
			zap.String("key", key), zap.Error(err))
		return raw
	}
	return signed.String()
}

// objectKey extracts the object key from raw, which may be a bare key, a
// bucket-relative path or an absolute URL pointing into the bucket
func (s *Store) objectKey(raw string) (string, bool) {
	if strings.HasPrefix(raw, s.baseURL) {
		key := strings.TrimPrefix(raw, s.baseURL)
		return key, key != ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if u.IsAbs() {
		base, err := url.Parse(s.baseURL)
		if err != nil || u.Host != base.Host {
			return "", false
		}
		key := strings.TrimPrefix(u.Path, base.Path)
		if key == u.Path || key == "" {
			return "", false
		}
		return key, true
	}

	key := strings.TrimPrefix(strings.TrimPrefix(raw, "/"), s.bucket+"/")
	return key, key != ""
}
