package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evyataryagoni/publicip-mcp/internal/config"
	"github.com/evyataryagoni/publicip-mcp/internal/handler"
	"github.com/evyataryagoni/publicip-mcp/internal/limiter"
	"github.com/evyataryagoni/publicip-mcp/internal/logger"
	"github.com/evyataryagoni/publicip-mcp/internal/mcpserver"
	"github.com/evyataryagoni/publicip-mcp/internal/metrics"
	"github.com/evyataryagoni/publicip-mcp/internal/provider"
	"github.com/evyataryagoni/publicip-mcp/internal/router"
	"github.com/evyataryagoni/publicip-mcp/internal/service"
	"github.com/evyataryagoni/publicip-mcp/internal/store"
)

func main() {
	// Load configuration
	appConfig := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize components
	appLogger := setupLogger(appConfig)
	metricsCollector := setupMetrics(appLogger)

	cache := setupCache(ctx, appConfig, appLogger)
	rateLimiter := setupRateLimiter(ctx, appConfig, appLogger)
	if rateLimiter != nil {
		defer rateLimiter.Close()
	}

	// Build application layers
	fetcher := provider.NewClient(provider.Config{
		URL:       appConfig.ProviderURL,
		UserAgent: appConfig.ProviderUserAgent,
		Timeout:   time.Duration(appConfig.ProviderTimeout) * time.Second,
	}, metricsCollector, appLogger)

	ipService := service.NewIPService(fetcher, cache, metricsCollector, appLogger)
	defer ipService.Close()

	ipTool := handler.NewIPInfoTool(ipService, appLogger)
	mcpServer := mcpserver.New(ipTool, mcpserver.Options{
		Limiter: rateLimiter,
		Metrics: metricsCollector,
		Logger:  appLogger,
	})

	startOpsServer(appConfig, metricsCollector, appLogger)

	// Serve until the client closes stdin
	if err := mcpServer.ServeStdio(ctx); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error().Err(err).Msg("Server error")
		ipService.Close()
		os.Exit(1)
	}

	appLogger.Info().Msg("Server stopped")
}

// setupLogger initializes the structured logger
// Log lines go to stderr, stdout belongs to the protocol.
func setupLogger(appConfig *config.Config) *logger.Logger {
	appLogger := logger.New(logger.Config{
		Level:      appConfig.LogLevel,
		Pretty:     appConfig.LogPretty,
		OutputFile: appConfig.LogFile,
	})

	appLogger.Info().Msg("Starting public IP info MCP server...")
	appLogger.Info().
		Str("provider_url", appConfig.ProviderURL).
		Int("provider_timeout", appConfig.ProviderTimeout).
		Str("cache_type", appConfig.CacheType).
		Int("cache_ttl", appConfig.CacheTTL).
		Str("rate_limiter_type", appConfig.RateLimitType).
		Int("rate_limit", appConfig.RateLimit).
		Int("rate_limit_window", appConfig.RateLimitWindow).
		Str("ops_port", appConfig.OpsPort).
		Msg("Configuration loaded")

	return appLogger
}

// setupMetrics initializes the Prometheus metrics collector
func setupMetrics(log *logger.Logger) *metrics.Metrics {
	metricsCollector := metrics.New()
	log.Debug().Msg("Metrics initialized")
	return metricsCollector
}

// setupCache initializes the optional result cache
// Supports none, in-memory and Redis backends
func setupCache(ctx context.Context, appConfig *config.Config, log *logger.Logger) store.Cache {
	cache, err := store.NewCache(ctx, store.CacheConfig{
		Type:          appConfig.CacheType,
		TTL:           time.Duration(appConfig.CacheTTL) * time.Second,
		RedisAddr:     appConfig.RedisAddr,
		RedisPassword: appConfig.RedisPassword,
		RedisDB:       appConfig.RedisDB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cache")
	}

	if cache == nil {
		log.Info().Msg("Result cache disabled")
	} else {
		log.Info().Str("cache", cache.Name()).Int("ttl", appConfig.CacheTTL).Msg("Result cache initialized")
	}
	return cache
}

// setupRateLimiter initializes the optional invocation rate limiter
// Returns nil when RATE_LIMIT is 0
func setupRateLimiter(ctx context.Context, appConfig *config.Config, log *logger.Logger) limiter.Limiter {
	if !appConfig.RateLimitEnabled() {
		log.Info().Msg("Rate limiting disabled")
		return nil
	}

	// Example: 10 invocations per 5 seconds = 2.0 per second
	effectiveRate := appConfig.EffectiveRate()

	rateLimiter, err := limiter.NewLimiter(ctx, limiter.LimiterConfig{
		Type:              appConfig.RateLimitType,
		RequestsPerSecond: effectiveRate,
		Limit:             appConfig.RateLimit,
		Window:            time.Duration(appConfig.RateLimitWindow) * time.Second,
		RedisAddr:         appConfig.RedisAddr,
		RedisPassword:     appConfig.RedisPassword,
		RedisDB:           appConfig.RedisDB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize rate limiter")
	}

	log.Info().
		Str("type", appConfig.RateLimitType).
		Int("limit", appConfig.RateLimit).
		Int("window", appConfig.RateLimitWindow).
		Float64("rate", effectiveRate).
		Msg("Rate limiter initialized")

	return rateLimiter
}

// startOpsServer serves /health and /metrics in the background when OPS_PORT is set
func startOpsServer(appConfig *config.Config, m *metrics.Metrics, log *logger.Logger) {
	if appConfig.OpsPort == "" {
		return
	}

	serverAddr := ":" + appConfig.OpsPort
	appRouter := router.SetupRouter(m, log)

	log.Info().
		Str("health_check", "http://localhost:"+appConfig.OpsPort+"/health").
		Str("metrics", "http://localhost:"+appConfig.OpsPort+"/metrics").
		Msg("Ops endpoint is running")

	go func() {
		if err := http.ListenAndServe(serverAddr, appRouter); err != nil {
			log.Error().Err(err).Msg("Ops endpoint failed")
		}
	}()
}
