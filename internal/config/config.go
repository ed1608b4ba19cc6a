package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Geolocation provider
	ProviderURL       string
	ProviderUserAgent string
	ProviderTimeout   int // seconds, 0 disables the timeout

	// Logging
	LogLevel  string
	LogPretty bool
	LogFile   string

	// Result cache
	CacheType string // "none", "memory", or "redis"
	CacheTTL  int    // seconds

	// Rate limiting of tool invocations
	RateLimitType   string // "memory" or "redis"
	RateLimit       int    // invocations allowed per window, 0 disables limiting
	RateLimitWindow int    // time window in seconds

	// Redis configuration (cache and limiter)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Operator HTTP endpoint (health + metrics), empty disables it
	OpsPort string
}

// Load reads configuration from environment variables
// with sensible defaults
func Load() *Config {
	// A .env file is optional. godotenv never overrides variables that are
	// already set in the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to read .env file: %v", err)
	}

	return &Config{
		ProviderURL:       getEnv("PROVIDER_URL", DefaultProviderURL),
		ProviderUserAgent: getEnv("PROVIDER_USER_AGENT", DefaultUserAgent),
		ProviderTimeout:   getEnvAsInt("PROVIDER_TIMEOUT", 0),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", false),
		LogFile:   getEnv("LOG_FILE", ""),

		CacheType: getEnv("CACHE_TYPE", "none"),
		CacheTTL:  getEnvAsInt("CACHE_TTL", 60),

		RateLimitType:   getEnv("RATE_LIMITER_TYPE", "memory"),
		RateLimit:       getEnvAsInt("RATE_LIMIT", 0),
		RateLimitWindow: getEnvAsInt("RATE_LIMIT_WINDOW", 1),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		OpsPort: getEnv("OPS_PORT", ""),
	}
}

const (
	// DefaultProviderURL is the ipapi.co endpoint describing the caller's own address
	DefaultProviderURL = "https://ipapi.co/json/"

	// DefaultUserAgent mimics a desktop browser, ipapi.co rejects obvious bots
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36"
)

// RateLimitEnabled reports whether tool invocations should be rate limited
func (c *Config) RateLimitEnabled() bool {
	return c.RateLimit > 0 && c.RateLimitWindow > 0
}

// EffectiveRate returns the allowed invocations per second
// Example: 10 invocations per 5 seconds = 2.0 per second
func (c *Config) EffectiveRate() float64 {
	if c.RateLimitWindow <= 0 {
		return 0
	}
	return float64(c.RateLimit) / float64(c.RateLimitWindow)
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt reads an environment variable as an integer
// Returns default if not set or invalid
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsBool reads an environment variable as a boolean
// Accepts the forms understood by strconv.ParseBool
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(strings.TrimSpace(valueStr))
	if err != nil {
		return defaultValue
	}

	return value
}
