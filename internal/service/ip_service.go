package service

import (
	"context"
	"errors"

	"github.com/evyataryagoni/publicip-mcp/internal/logger"
	"github.com/evyataryagoni/publicip-mcp/internal/metrics"
	"github.com/evyataryagoni/publicip-mcp/internal/models"
	"github.com/evyataryagoni/publicip-mcp/internal/provider"
	"github.com/evyataryagoni/publicip-mcp/internal/store"
	"github.com/go-playground/validator/v10"
)

// Fetcher performs the outbound provider call
// provider.Client is the production implementation
type Fetcher interface {
	Fetch(ctx context.Context) (*provider.Response, error)
}

// IPService answers "what is my public IP" lookups
//
// Responsibilities:
//   - Serve a fresh cached answer when a cache is configured
//   - Call the provider once
//   - Turn the answer into exactly one models.Result variant
type IPService struct {
	fetcher   Fetcher
	cache     store.Cache // nil disables caching
	validator *validator.Validate
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// NewIPService creates a new IP service
//
// Parameters:
//   - fetcher: the provider client
//   - cache: optional result cache, may be nil
//   - m: metrics collector, may be nil
//   - log: logger, may be nil
func NewIPService(fetcher Fetcher, cache store.Cache, m *metrics.Metrics, log *logger.Logger) *IPService {
	if log == nil {
		log = logger.NewDefault()
	}
	return &IPService{
		fetcher:   fetcher,
		cache:     cache,
		validator: newPayloadValidator(),
		metrics:   m,
		logger:    log.WithComponent("IPService"),
	}
}

// Lookup fetches the host's public IP info
// It never fails with a Go error: every failure is one of the Result variants.
func (s *IPService) Lookup(ctx context.Context) models.Result {
	if info, ok := s.cached(ctx); ok {
		s.logger.Debug().Str("ip", info.IP).Msg("Serving IP info from cache")
		return models.Success{Info: *info, Cached: true}
	}

	resp, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch IP info")
		return models.TransportError{Err: err}
	}

	result := s.decode(resp.StatusCode, resp.Body)

	switch r := result.(type) {
	case models.Success:
		s.logger.Info().
			Str("ip", r.Info.IP).
			Interface("info", r.Info).
			Msg("IP info")
		s.remember(ctx, &r.Info)

	case models.ProviderError:
		s.logger.Warn().
			Int("status", r.Status).
			Str("message", r.Message).
			Str("reason", r.Reason).
			RawJSON("body", resp.Body).
			Msg("Provider reported an error")

	case models.ValidationError:
		s.logger.Warn().
			Int("status", r.Status).
			Str("reason", r.Reason).
			RawJSON("body", resp.Body).
			Msg(MessageParseFailed)
	}

	return result
}

// Close cleans up resources
// This closes the result cache when one is configured
func (s *IPService) Close() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Close()
}

func (s *IPService) cached(ctx context.Context) (*models.IPInfo, bool) {
	if s.cache == nil {
		return nil, false
	}

	info, err := s.cache.Get(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrCacheMiss) {
			s.logger.Warn().Err(err).Str("cache", s.cache.Name()).Msg("Cache lookup failed")
		}
		s.countCache("miss")
		return nil, false
	}

	s.countCache("hit")
	return info, true
}

func (s *IPService) remember(ctx context.Context, info *models.IPInfo) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, info); err != nil {
		s.logger.Warn().Err(err).Str("cache", s.cache.Name()).Msg("Failed to cache IP info")
	}
}

func (s *IPService) countCache(result string) {
	if s.metrics != nil {
		s.metrics.CacheLookupsTotal.WithLabelValues(s.cache.Name(), result).Inc()
	}
}
