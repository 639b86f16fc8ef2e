package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache is a typed TTL cache on top of go-cache.
type Cache[T any] struct {
	cache *cache.Cache
}

// New returns a cache whose entries expire ttl after their last Set.
// Expired entries are swept every 2*ttl.
func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *Cache[T]) Get(key string) (T, bool) {
	v, ok := c.cache.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// Set stores value with the default TTL, restarting its expiry.
func (c *Cache[T]) Set(key string, value T) {
	c.cache.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache[T]) Delete(key string) {
	c.cache.Delete(key)
}

// Count includes expired entries that have not been swept yet.
func (c *Cache[T]) Count() int {
	return c.cache.ItemCount()
}

// OnEvicted registers fn for entries removed by expiry or Delete.
func (c *Cache[T]) OnEvicted(fn func(key string, value T)) {
	c.cache.OnEvicted(func(key string, v interface{}) {
		if typed, ok := v.(T); ok {
			fn(key, typed)
		}
	})
}
