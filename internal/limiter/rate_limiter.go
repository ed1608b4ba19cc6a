package limiter

import (
	"sync"
	"time"
)

// Limiter decides whether one more tool invocation may proceed
// Implementations are safe for concurrent use.
type Limiter interface {
	// Allow reports whether an invocation for key may proceed and consumes
	// one unit of quota when it does
	Allow(key string) bool

	// Close releases resources (Redis connections, etc.)
	Close() error
}

// bucket is a token bucket for one key
// It starts full, refills continuously at rate tokens per second and
// never holds more than capacity tokens.
type bucket struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	rate     float64
	last     time.Time
}

func newBucket(rate, capacity float64, now time.Time) *bucket {
	return &bucket{
		tokens:   capacity,
		capacity: capacity,
		rate:     rate,
		last:     now,
	}
}

func (b *bucket) take(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens += now.Sub(b.last).Seconds() * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (b *bucket) idleSince() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// idleTTL is how long an untouched bucket is kept before being dropped
const idleTTL = 5 * time.Minute

// MemoryLimiter keeps one token bucket per key in process memory
// Suitable when a single server process answers all invocations
type MemoryLimiter struct {
	buckets  sync.Map // key -> *bucket
	rate     float64
	capacity float64
	now      func() time.Time

	sweepMu   sync.Mutex
	lastSweep time.Time
}

// NewMemoryLimiter creates an in-memory limiter
//
// requestsPerSecond is the refill rate and may be fractional, e.g. 0.2 allows
// one call every 5 seconds. burst is the bucket size: RATE_LIMIT calls may
// run back to back after an idle window. A burst below 1 falls back to the
// per-second rate, and never below one call.
func NewMemoryLimiter(requestsPerSecond float64, burst int) *MemoryLimiter {
	capacity := float64(burst)
	if capacity < 1 {
		capacity = requestsPerSecond
	}
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryLimiter{
		rate:      requestsPerSecond,
		capacity:  capacity,
		now:       time.Now,
		lastSweep: time.Now(),
	}
}

// Allow implements the Limiter interface
func (l *MemoryLimiter) Allow(key string) bool {
	now := l.now()

	b, ok := l.buckets.Load(key)
	if !ok {
		b, _ = l.buckets.LoadOrStore(key, newBucket(l.rate, l.capacity, now))
	}
	allowed := b.(*bucket).take(now)

	l.sweep(now)
	return allowed
}

// sweep drops buckets idle for longer than idleTTL, at most once per idleTTL
func (l *MemoryLimiter) sweep(now time.Time) {
	l.sweepMu.Lock()
	defer l.sweepMu.Unlock()

	if now.Sub(l.lastSweep) < idleTTL {
		return
	}

	threshold := now.Add(-idleTTL)
	l.buckets.Range(func(key, value any) bool {
		if value.(*bucket).idleSince().Before(threshold) {
			l.buckets.Delete(key)
		}
		return true
	})
	l.lastSweep = now
}

// Close implements the Limiter interface
// Nothing to release for the in-memory limiter
func (l *MemoryLimiter) Close() error {
	return nil
}

// ToolKey is the limiter key used for tool invocations
// Stdio serves exactly one client, so all invocations share one quota.
const ToolKey = "tool:get_public_ip_info"
