package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/evyataryagoni/publicip-mcp/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisCache implements Cache using Redis
// Several server processes on the same host can share one entry
//
// Redis Key: ipinfo:public
// Value: JSON-encoded IPInfo, expiring after the TTL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and returns a cache whose entries live for ttl
//
// Parameters:
//   - addr: Redis server address (e.g., "localhost:6379")
//   - password: Redis password (empty string if no password)
//   - db: Redis database number
//   - ttl: lifetime of the cached entry
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		client: client,
		ttl:    ttl,
	}, nil
}

// Get implements the Cache interface
func (c *RedisCache) Get(ctx context.Context) (*models.IPInfo, error) {
	val, err := c.client.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("Redis query failed: %w", err)
	}

	var info models.IPInfo
	if err := json.Unmarshal(val, &info); err != nil {
		return nil, fmt.Errorf("failed to decode cached IP info: %w", err)
	}

	return &info, nil
}

// Set implements the Cache interface
func (c *RedisCache) Set(ctx context.Context, info *models.IPInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode IP info: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store in Redis: %w", err)
	}

	return nil
}

// Name implements the Cache interface
func (c *RedisCache) Name() string { return "redis" }

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
