package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Tool Metrics
	ToolInvocationsTotal   *prometheus.CounterVec
	ToolInvocationDuration *prometheus.HistogramVec
	ToolRateLimitedTotal   prometheus.Counter

	// Provider Metrics
	ProviderRequestsTotal   *prometheus.CounterVec
	ProviderRequestDuration *prometheus.HistogramVec

	// Cache Metrics
	CacheLookupsTotal *prometheus.CounterVec

	// Ops endpoint Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry prometheus.Gatherer
}

// New creates and registers all metrics on the default registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewWithRegistry creates and registers all metrics on reg
// Tests use a fresh prometheus.NewRegistry() to avoid duplicate registration
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ToolInvocationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tool_invocations_total",
				Help: "Total number of tool invocations by outcome",
			},
			[]string{"tool", "outcome"},
		),

		ToolInvocationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tool_invocation_duration_seconds",
				Help:    "Tool invocation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tool"},
		),

		ToolRateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tool_rate_limited_total",
				Help: "Total number of tool invocations refused by the local rate limiter",
			},
		),

		ProviderRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provider_requests_total",
				Help: "Total number of geolocation provider requests by HTTP status",
			},
			[]string{"status"},
		),

		ProviderRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "provider_request_duration_seconds",
				Help:    "Geolocation provider request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),

		CacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_lookups_total",
				Help: "Total number of result cache lookups, hits vs misses",
			},
			[]string{"cache", "result"},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of requests to the ops endpoint",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Ops endpoint latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "status"},
		),

		registry: gatherer,
	}
}

// Gatherer returns the registry the metrics were registered on
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
