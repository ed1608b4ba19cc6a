package limiter

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// LimiterConfig holds configuration for creating a rate limiter
type LimiterConfig struct {
	Type              string        // "memory" or "redis"
	RequestsPerSecond float64       // can be fractional, e.g. 0.2 = 1 call per 5 sec
	Limit             int           // calls allowed per window (RATE_LIMIT)
	Window            time.Duration // RATE_LIMIT_WINDOW

	// Redis-specific config
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// NewLimiter creates a rate limiter based on the configuration
func NewLimiter(ctx context.Context, cfg LimiterConfig) (Limiter, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "memory", "":
		return NewMemoryLimiter(cfg.RequestsPerSecond, cfg.Limit), nil

	case "redis":
		l, err := NewRedisLimiter(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.Limit, cfg.Window)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis limiter: %w", err)
		}
		return l, nil

	default:
		return nil, fmt.Errorf("unknown rate limiter type: %s (supported: 'memory', 'redis')", cfg.Type)
	}
}
