package limiter

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// windowScript increments the counter of the current window and arms its
// expiry on first use, atomically on the Redis server.
var windowScript = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
	redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return current
`)

// RedisLimiter implements a fixed-window limiter shared through Redis
// Use it when several server processes must share one quota, e.g. several
// clients on the same host spending the same provider allowance.
//
// Key format: "ratelimit:{key}:{window}"
type RedisLimiter struct {
	client *redis.Client
	window time.Duration
	limit  int64
	now    func() time.Time
}

// NewRedisLimiter connects to Redis and creates a limiter
//
// Parameters:
//   - addr: Redis server address (e.g., "localhost:6379")
//   - password: Redis password (empty string if no password)
//   - db: Redis database number
//   - limit: calls allowed per window per key
//   - window: window length, rounded up to whole seconds
func NewRedisLimiter(ctx context.Context, addr, password string, db int, limit int, window time.Duration) (*RedisLimiter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %v", window)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis for rate limiting: %w", err)
	}

	return &RedisLimiter{
		client: client,
		window: time.Duration(math.Ceil(window.Seconds())) * time.Second,
		limit:  int64(limit),
		now:    time.Now,
	}, nil
}

// Allow implements the Limiter interface
// Redis failures fail open: an unreachable limiter must not block the tool.
func (l *RedisLimiter) Allow(key string) bool {
	windowSeconds := int64(l.window / time.Second)
	slot := l.now().Unix() / windowSeconds
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, slot)

	count, err := windowScript.Run(context.Background(), l.client, []string{redisKey}, windowSeconds*2).Int64()
	if err != nil {
		return true
	}

	return count <= l.limit
}

// Close closes the Redis connection
func (l *RedisLimiter) Close() error {
	if l.client != nil {
		return l.client.Close()
	}
	return nil
}
