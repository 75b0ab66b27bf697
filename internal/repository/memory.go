package repository

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/liliang-cn/askpaper/internal/domain"
)

type memoryBlobs struct {
	cache *cache.Cache
}

// NewMemoryStore keeps entries in process for ttl; ttl <= 0 never expires.
// Values are stored encoded, so callers never share a cached document.
func NewMemoryStore(ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &blobStore{b: &memoryBlobs{cache: cache.New(ttl, 10*time.Minute)}}
}

func (m *memoryBlobs) get(_ context.Context, key string) ([]byte, error) {
	if x, found := m.cache.Get(key); found {
		return x.([]byte), nil
	}
	return nil, domain.ErrNotFound
}

func (m *memoryBlobs) set(_ context.Context, key string, value []byte) error {
	m.cache.Set(key, value, cache.DefaultExpiration)
	return nil
}

func (m *memoryBlobs) del(_ context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}

func (m *memoryBlobs) close() error {
	m.cache.Flush()
	return nil
}
