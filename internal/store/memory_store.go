package store

import (
	"context"
	"sync"
	"time"

	"github.com/evyataryagoni/publicip-mcp/internal/models"
)

// MemoryCache implements Cache in process memory
// Suitable when a single server process answers all invocations
type MemoryCache struct {
	mu        sync.RWMutex
	info      *models.IPInfo
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewMemoryCache creates an in-memory cache whose entries live for ttl
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl: ttl,
		now: time.Now,
	}
}

// Get implements the Cache interface
func (c *MemoryCache) Get(_ context.Context) (*models.IPInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.info == nil || !c.now().Before(c.expiresAt) {
		return nil, ErrCacheMiss
	}

	info := *c.info
	return &info, nil
}

// Set implements the Cache interface
func (c *MemoryCache) Set(_ context.Context, info *models.IPInfo) error {
	stored := *info

	c.mu.Lock()
	defer c.mu.Unlock()

	c.info = &stored
	c.expiresAt = c.now().Add(c.ttl)
	return nil
}

// Name implements the Cache interface
func (c *MemoryCache) Name() string { return "memory" }

// Close implements the Cache interface
// Nothing to release for the in-memory cache
func (c *MemoryCache) Close() error { return nil }
