package memory

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"todoapp/internal/core/port"
)

type memoryRepository struct {
	cache *cache.Cache
}

// NewMemoryRepository is a process-local cache. Entries written with a zero
// ttl never expire.
func NewMemoryRepository() port.CacheRepository {
	return &memoryRepository{
		cache: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

func (c *memoryRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}

	c.cache.Set(key, value, ttl)

	return nil
}

func (c *memoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	value, found := c.cache.Get(key)

	if !found {
		return nil, port.ErrCacheMiss
	}

	return value.([]byte), nil
}

func (c *memoryRepository) Delete(ctx context.Context, key string) error {
	c.cache.Delete(key)

	return nil
}

func (c *memoryRepository) DeleteByPrefix(ctx context.Context, prefix string) error {
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}

	return nil
}

func (c *memoryRepository) Close() error {
	c.cache.Flush()

	return nil
}
