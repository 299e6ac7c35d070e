package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the default in-process backend.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache creates an in-process cache with the given TTL. Pass 0 for
// DefaultTTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{c: gocache.New(ttl, ttl/2)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (m *MemoryCache) Set(_ context.Context, key, answer string) {
	m.c.SetDefault(key, answer)
}

func (m *MemoryCache) ClearAll(_ context.Context) error {
	m.c.Flush()
	return nil
}
