package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/evyataryagoni/publicip-mcp/internal/logger"
	"github.com/evyataryagoni/publicip-mcp/internal/metrics"
)

// DefaultAccept is sent so the provider answers with JSON
const DefaultAccept = "application/json, text/plain, */*"

// ErrInvalidBody is returned when the provider body is not JSON
var ErrInvalidBody = errors.New("provider returned a non-JSON body")

// Config holds the outbound request settings
type Config struct {
	URL       string
	UserAgent string
	Accept    string
	Timeout   time.Duration // 0 means no timeout
}

// Response is the undecoded provider answer
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// Client performs the single GET against the geolocation provider
//
// There are no retries: any failure is terminal for the call.
type Client struct {
	cfg     Config
	http    *http.Client
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewClient creates a provider client
// m and log may be nil
func NewClient(cfg Config, m *metrics.Metrics, log *logger.Logger) *Client {
	if cfg.Accept == "" {
		cfg.Accept = DefaultAccept
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		metrics: m,
		logger:  log.WithComponent("Fetcher"),
	}
}

// Fetch issues the GET and returns the status code and raw JSON body
//
// The body is decoded whatever the status code: ipapi.co reports rate
// limiting as a JSON document with a 429.
func (c *Client) Fetch(ctx context.Context) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", c.cfg.Accept)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe("error", start)
		c.logger.Error().Err(err).Str("url", c.cfg.URL).Msg("Provider request failed")
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()
	c.observe(strconv.Itoa(resp.StatusCode), start)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().Err(err).Int("status", resp.StatusCode).Msg("Failed to read provider response")
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if !json.Valid(body) {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", truncate(string(body), 512)).
			Msg("Provider response is not JSON")
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode, ErrInvalidBody)
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		RawJSON("body", body).
		Msg("Provider raw response")

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func (c *Client) observe(status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.ProviderRequestsTotal.WithLabelValues(status).Inc()
	c.metrics.ProviderRequestDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
