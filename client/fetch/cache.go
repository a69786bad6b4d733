package fetch

import (
	"github.com/patrickmn/go-cache"
)

// Cache stores decoded resources keyed by canonical URL.
// Implementations must be safe for concurrent use. Eviction is up to
// the implementation; the default never evicts.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// MemoryCache is an unbounded in-memory [Cache] backed by go-cache.
// Entries never expire.
type MemoryCache struct {
	cache *cache.Cache
}

// NewMemoryCache creates an empty MemoryCache with no janitor.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{cache: cache.New(cache.NoExpiration, 0)}
}

func (c *MemoryCache) Get(key string) (any, bool) {
	return c.cache.Get(key)
}

func (c *MemoryCache) Set(key string, value any) {
	c.cache.Set(key, value, cache.NoExpiration)
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}

// Flush drops every entry.
func (c *MemoryCache) Flush() {
	c.cache.Flush()
}
