package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shelfprice/collector/internal/domain"
)

// tokenEntry is a stored access token with its expiry
type tokenEntry struct {
	Token      string
	Expiration time.Time
}

// MemoryCache is a thread-safe in-memory token store with TTL support
type MemoryCache struct {
	data  map[string]tokenEntry
	mutex sync.RWMutex
	now   func() time.Time
}

// NewMemoryCache creates an empty token store
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]tokenEntry),
		now:  time.Now,
	}
}

// Get returns the token stored under key, or domain.ErrTokenMiss when it is
// absent or expired
func (c *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.data[key]
	if !exists || !c.now().Before(entry.Expiration) {
		return "", domain.ErrTokenMiss
	}

	return entry.Token, nil
}

// Set stores a token for ttl. A non-positive ttl stores nothing.
func (c *MemoryCache) Set(ctx context.Context, key string, token string, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if ttl <= 0 {
		delete(c.data, key)
		return nil
	}

	c.data[key] = tokenEntry{
		Token:      token,
		Expiration: c.now().Add(ttl),
	}

	return nil
}

// Delete removes a token
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists checks if a key holds an unexpired token. Expired entries are
// dropped as a side effect.
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.data[key]
	if !exists {
		return false, nil
	}

	if !c.now().Before(entry.Expiration) {
		delete(c.data, key)
		return false, nil
	}

	return true, nil
}

// Size returns the number of stored entries, expired ones included
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}
