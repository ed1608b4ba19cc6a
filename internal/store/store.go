package store

import (
	"context"
	"errors"

	"github.com/evyataryagoni/publicip-mcp/internal/models"
)

// ErrCacheMiss is returned by Get when nothing fresh is cached
var ErrCacheMiss = errors.New("cache miss")

// cacheKey is the single entry kept by every cache: the host's own public IP
const cacheKey = "ipinfo:public"

// Cache keeps the last successful lookup for a limited time
// Allows multiple implementations (memory, Redis) and easy testing with mocks
type Cache interface {
	// Get returns the cached IPInfo or ErrCacheMiss
	Get(ctx context.Context) (*models.IPInfo, error)

	// Set stores info until the cache TTL expires
	Set(ctx context.Context, info *models.IPInfo) error

	// Name identifies the backend in logs and metrics
	Name() string

	// Close cleans up resources (connections, etc.)
	Close() error
}
