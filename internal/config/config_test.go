package config

import "testing"

// TestLoad_Defaults tests the values used when nothing is configured
func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PROVIDER_URL", "PROVIDER_USER_AGENT", "PROVIDER_TIMEOUT",
		"LOG_LEVEL", "LOG_PRETTY", "LOG_FILE",
		"CACHE_TYPE", "CACHE_TTL",
		"RATE_LIMITER_TYPE", "RATE_LIMIT", "RATE_LIMIT_WINDOW",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "OPS_PORT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ProviderURL != DefaultProviderURL {
		t.Errorf("expected provider URL %s, got %s", DefaultProviderURL, cfg.ProviderURL)
	}
	if cfg.ProviderUserAgent != DefaultUserAgent {
		t.Errorf("expected default user agent, got %s", cfg.ProviderUserAgent)
	}
	if cfg.ProviderTimeout != 0 {
		t.Errorf("expected no provider timeout, got %d", cfg.ProviderTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %s", cfg.LogLevel)
	}
	if cfg.LogPretty {
		t.Error("expected pretty logging to be off")
	}
	if cfg.CacheType != "none" {
		t.Errorf("expected cache type none, got %s", cfg.CacheType)
	}
	if cfg.CacheTTL != 60 {
		t.Errorf("expected cache TTL 60, got %d", cfg.CacheTTL)
	}
	if cfg.RateLimitEnabled() {
		t.Error("expected rate limiting to be disabled by default")
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("expected redis addr localhost:6379, got %s", cfg.RedisAddr)
	}
	if cfg.OpsPort != "" {
		t.Errorf("expected ops endpoint disabled, got port %s", cfg.OpsPort)
	}
}

// TestLoad_FromEnvironment tests that environment variables override defaults
func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PROVIDER_URL", "http://127.0.0.1:9999/json/")
	t.Setenv("PROVIDER_TIMEOUT", "5")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("CACHE_TYPE", "redis")
	t.Setenv("CACHE_TTL", "300")
	t.Setenv("RATE_LIMIT", "10")
	t.Setenv("RATE_LIMIT_WINDOW", "5")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("OPS_PORT", "9090")

	cfg := Load()

	if cfg.ProviderURL != "http://127.0.0.1:9999/json/" {
		t.Errorf("unexpected provider URL: %s", cfg.ProviderURL)
	}
	if cfg.ProviderTimeout != 5 {
		t.Errorf("expected timeout 5, got %d", cfg.ProviderTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.LogLevel)
	}
	if !cfg.LogPretty {
		t.Error("expected pretty logging to be on")
	}
	if cfg.CacheType != "redis" || cfg.CacheTTL != 300 {
		t.Errorf("unexpected cache config: %s/%d", cfg.CacheType, cfg.CacheTTL)
	}
	if !cfg.RateLimitEnabled() {
		t.Error("expected rate limiting to be enabled")
	}
	if cfg.EffectiveRate() != 2.0 {
		t.Errorf("expected effective rate 2.0, got %f", cfg.EffectiveRate())
	}
	if cfg.RedisDB != 3 {
		t.Errorf("expected redis db 3, got %d", cfg.RedisDB)
	}
	if cfg.OpsPort != "9090" {
		t.Errorf("expected ops port 9090, got %s", cfg.OpsPort)
	}
}

// TestLoad_InvalidNumbers tests fallback to defaults on malformed values
func TestLoad_InvalidNumbers(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(*Config) bool
	}{
		{"timeout", "PROVIDER_TIMEOUT", "soon", func(c *Config) bool { return c.ProviderTimeout == 0 }},
		{"cache ttl", "CACHE_TTL", "1m", func(c *Config) bool { return c.CacheTTL == 60 }},
		{"rate limit", "RATE_LIMIT", "ten", func(c *Config) bool { return c.RateLimit == 0 }},
		{"pretty", "LOG_PRETTY", "sometimes", func(c *Config) bool { return !c.LogPretty }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if !tt.check(Load()) {
				t.Errorf("expected default for %s=%q", tt.key, tt.value)
			}
		})
	}
}

// TestEffectiveRate_ZeroWindow tests that a zero window never divides by zero
func TestEffectiveRate_ZeroWindow(t *testing.T) {
	cfg := &Config{RateLimit: 5, RateLimitWindow: 0}

	if cfg.EffectiveRate() != 0 {
		t.Errorf("expected 0, got %f", cfg.EffectiveRate())
	}
	if cfg.RateLimitEnabled() {
		t.Error("expected limiting disabled with zero window")
	}
}
