package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/liliang-cn/askpaper/internal/domain"
)

type gcsBlobs struct {
	client *storage.Client
	bucket string
	ttl    time.Duration
}

// NewGCSStore keeps entries as JSON objects in bucket. A non-empty endpoint
// points the client at an emulator without credentials.
func NewGCSStore(ctx context.Context, bucket, endpoint string, ttl time.Duration) (Store, error) {
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &blobStore{b: &gcsBlobs{client: client, bucket: bucket, ttl: ttl}}, nil
}

func (g *gcsBlobs) object(key string) *storage.ObjectHandle {
	return g.client.Bucket(g.bucket).Object(key)
}

func (g *gcsBlobs) get(ctx context.Context, key string) ([]byte, error) {
	r, err := g.object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("gcs read %s: %w", key, err)
	}
	defer r.Close()

	// objects have no native expiry; treat stale ones as missing
	if expired(r.Attrs.LastModified, g.ttl, time.Now()) {
		return nil, domain.ErrNotFound
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gcs read %s: %w", key, err)
	}
	return raw, nil
}

func (g *gcsBlobs) set(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := g.object(key).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(value); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (g *gcsBlobs) del(ctx context.Context, key string) error {
	err := g.object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gcs delete %s: %w", key, err)
	}
	return nil
}

func (g *gcsBlobs) close() error {
	return g.client.Close()
}

func expired(modified time.Time, ttl time.Duration, now time.Time) bool {
	return ttl > 0 && !modified.IsZero() && now.Sub(modified) > ttl
}
