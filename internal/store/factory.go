package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// CacheConfig holds configuration for creating a result cache
type CacheConfig struct {
	Type string // "none", "memory" or "redis"
	TTL  time.Duration

	// Redis-specific config
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// NewCache creates a cache based on the configuration
// Returns a nil Cache for type "none", meaning every invocation hits the provider
func NewCache(ctx context.Context, cfg CacheConfig) (Cache, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "none", "":
		return nil, nil

	case "memory":
		return NewMemoryCache(cfg.TTL), nil

	case "redis":
		cache, err := NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis cache: %w", err)
		}
		return cache, nil

	default:
		return nil, fmt.Errorf("unknown cache type: %s (supported: 'none', 'memory', 'redis')", cfg.Type)
	}
}
