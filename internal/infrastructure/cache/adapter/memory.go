package adapter

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/Backora/pulse-app/internal/infrastructure/cache/port"
)

// MemoryCache satisfies port.Cache with an in-process ttlcache. Used for
// single-node runs where no Redis is configured; entries expire on the same
// TTL contract as the Redis adapter.
type MemoryCache struct {
	cache *ttlcache.Cache[string, string]
}

// NewMemoryAdapter constructs a MemoryCache and starts its expiry loop.
func NewMemoryAdapter() *MemoryCache {
	c := ttlcache.New[string, string]()
	go c.Start()
	return &MemoryCache{cache: c}
}

var _ port.Cache = (*MemoryCache)(nil)

func (m *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	item := m.cache.Get(key)
	if item == nil {
		return "", port.ErrMiss
	}
	return item.Value(), nil
}

func (m *MemoryCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	m.cache.Set(key, value, ttl)
	return nil
}

func (m *MemoryCache) Del(ctx context.Context, keys ...string) (int64, error) {
	var removed int64
	for _, key := range keys {
		if m.cache.Has(key) {
			m.cache.Delete(key)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryCache) Ping(ctx context.Context) error { return nil }

func (m *MemoryCache) Close() error {
	m.cache.Stop()
	return nil
}
