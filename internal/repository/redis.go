package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/liliang-cn/askpaper/internal/domain"
)

type redisBlobs struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to url (redis://...) and pings it
func NewRedisStore(ctx context.Context, url, prefix string, ttl time.Duration) (Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return newRedisStore(client, prefix, ttl), nil
}

func newRedisStore(client *redis.Client, prefix string, ttl time.Duration) Store {
	return &blobStore{b: &redisBlobs{client: client, prefix: prefix, ttl: ttl}}
}

func (r *redisBlobs) get(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

func (r *redisBlobs) set(ctx context.Context, key string, value []byte) error {
	// zero ttl keeps the key forever
	if err := r.client.Set(ctx, r.prefix+key, value, max(r.ttl, 0)).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *redisBlobs) del(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *redisBlobs) close() error {
	return r.client.Close()
}
