package cache

import (
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/TFMV/cohrank/types"
)

// DefaultSize is the number of distinct metric tokens kept when no size is configured.
const DefaultSize = 10000

// TokenCache caches parsed metric tokens keyed by their raw text.
// Metric files repeat the same NAME=MEAN/UNC tokens across many artifacts.
type TokenCache struct {
	cache *lru.Cache
	mu    sync.Mutex // lru.Cache.Get reorders entries, so reads take the write lock too
}

// NewTokenCache creates a TokenCache holding at most size tokens.
func NewTokenCache(size int) *TokenCache {
	if size <= 0 {
		size = DefaultSize
	}
	return &TokenCache{
		cache: lru.New(size),
	}
}

// Get returns the cached reading for the given token, if available.
func (c *TokenCache) Get(token string) (types.MetricReading, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if val, ok := c.cache.Get(token); ok {
		return val.(types.MetricReading), true
	}
	return types.MetricReading{}, false
}

// Put stores the reading parsed from token.
func (c *TokenCache) Put(token string, reading types.MetricReading) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(token, reading)
}

// Len reports the number of cached tokens.
func (c *TokenCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

// Clear clears the cache.
func (c *TokenCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Clear()
}
