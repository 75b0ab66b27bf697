package repository

import (
	"context"
	"fmt"

	"github.com/liliang-cn/askpaper/internal/config"
)

// Open builds the configured backend
func Open(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case config.CacheMemory, "":
		return NewMemoryStore(cfg.TTL), nil
	case config.CacheSQLite:
		return NewSQLiteStore(cfg.SQLite.Path, cfg.TTL)
	case config.CacheRedis:
		return NewRedisStore(ctx, cfg.Redis.URL, cfg.Redis.Prefix, cfg.TTL)
	case config.CacheGCS:
		return NewGCSStore(ctx, cfg.GCS.Bucket, cfg.GCS.Endpoint, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Backend)
	}
}
