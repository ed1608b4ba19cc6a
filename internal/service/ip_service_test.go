package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/evyataryagoni/publicip-mcp/internal/logger"
	"github.com/evyataryagoni/publicip-mcp/internal/metrics"
	"github.com/evyataryagoni/publicip-mcp/internal/models"
	"github.com/evyataryagoni/publicip-mcp/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const fullPayload = `{
	"ip": "8.8.8.8",
	"network": "8.8.8.0/24",
	"version": "IPv4",
	"city": "Mountain View",
	"region": "California",
	"country": "US",
	"latitude": 37.4056,
	"longitude": -122.0775,
	"asn": "AS15169"
}`

func newTestService(fetcher Fetcher, cache store.Cache) *IPService {
	return NewIPService(fetcher, cache, nil, logger.Nop())
}

// TestIPService_Lookup_Success tests a complete provider answer
func TestIPService_Lookup_Success(t *testing.T) {
	fetcher := NewMockFetcher(200, fullPayload)
	svc := newTestService(fetcher, nil)

	result := svc.Lookup(context.Background())

	success, ok := result.(models.Success)
	if !ok {
		t.Fatalf("expected Success, got %T (%+v)", result, result)
	}
	info := success.Info
	if info.IP != "8.8.8.8" {
		t.Errorf("expected IP 8.8.8.8, got %s", info.IP)
	}
	if info.City == nil || *info.City != "Mountain View" {
		t.Errorf("unexpected city: %v", info.City)
	}
	if info.Longitude == nil || *info.Longitude != -122.0775 {
		t.Errorf("unexpected longitude: %v", info.Longitude)
	}
	if success.Cached {
		t.Error("a fresh answer must not be marked cached")
	}
	if fetcher.Calls != 1 {
		t.Errorf("expected 1 provider call, got %d", fetcher.Calls)
	}
}

// TestIPService_Lookup_OptionalFieldsAbsent tests that absent members stay nil
func TestIPService_Lookup_OptionalFieldsAbsent(t *testing.T) {
	svc := newTestService(NewMockFetcher(200, `{"ip": "1.2.3.4", "city": "Testville"}`), nil)

	success, ok := svc.Lookup(context.Background()).(models.Success)
	if !ok {
		t.Fatal("expected Success")
	}
	info := success.Info
	if info.IP != "1.2.3.4" || info.City == nil || *info.City != "Testville" {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.Network != nil || info.Version != nil || info.Region != nil || info.Country != nil {
		t.Error("expected absent string fields to be nil")
	}
	if info.Latitude != nil || info.Longitude != nil {
		t.Error("expected absent coordinates to be nil")
	}
}

// TestIPService_Lookup_ProviderError tests the provider's error indicator
func TestIPService_Lookup_ProviderError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantReason  string
	}{
		{
			name:        "rate limited",
			status:      429,
			body:        `{"error": true, "reason": "RateLimited", "message": "Visit https://ipapi.co/ratelimited/ for details"}`,
			wantMessage: "Visit https://ipapi.co/ratelimited/ for details",
			wantReason:  "RateLimited",
		},
		{
			name:        "no message",
			status:      403,
			body:        `{"error": true}`,
			wantMessage: MessageUnknownError,
			wantReason:  "",
		},
		{
			name:        "string flag with ip present",
			status:      200,
			body:        `{"error": "yes", "ip": "1.2.3.4", "message": "Reserved IP Address"}`,
			wantMessage: "Reserved IP Address",
		},
		{
			name:        "numeric flag",
			status:      500,
			body:        `{"error": 1, "message": "oops", "reason": {"code": 7}}`,
			wantMessage: "oops",
			wantReason:  `{"code": 7}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(NewMockFetcher(tt.status, tt.body), nil)

			result := svc.Lookup(context.Background())

			perr, ok := result.(models.ProviderError)
			if !ok {
				t.Fatalf("expected ProviderError, got %T (%+v)", result, result)
			}
			if perr.Message != tt.wantMessage {
				t.Errorf("expected message %q, got %q", tt.wantMessage, perr.Message)
			}
			if perr.Reason != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, perr.Reason)
			}
			if perr.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, perr.Status)
			}
		})
	}
}

// TestIPService_Lookup_FalsyErrorFlag tests that a falsy error member is ignored
func TestIPService_Lookup_FalsyErrorFlag(t *testing.T) {
	for _, flag := range []string{`false`, `null`, `0`, `""`} {
		t.Run(flag, func(t *testing.T) {
			svc := newTestService(NewMockFetcher(200, `{"error": `+flag+`, "ip": "1.2.3.4"}`), nil)

			if _, ok := svc.Lookup(context.Background()).(models.Success); !ok {
				t.Errorf("expected Success with error=%s", flag)
			}
		})
	}
}

// TestIPService_Lookup_ValidationError tests shape validation failures
func TestIPService_Lookup_ValidationError(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantReason string
	}{
		{"missing ip", `{"city": "Testville"}`, "ip: required"},
		{"null ip", `{"ip": null}`, "ip: expected string, received null"},
		{"uppercase ip member", `{"IP": "1.2.3.4"}`, "ip: required"},
		{"mixed case members", `{"Ip": "1.2.3.4", "CITY": "X"}`, "ip: required"},
		{"ip not a string", `{"ip": 1234}`, "ip: expected string, received number"},
		{"latitude as string", `{"ip": "1.2.3.4", "latitude": "37.4"}`, "latitude: expected number, received string"},
		{"null city", `{"ip": "1.2.3.4", "city": null}`, "city: expected string, received null"},
		{"null latitude", `{"ip": "1.2.3.4", "latitude": null}`, "latitude: expected number, received null"},
		{"bad city and missing ip", `{"city": 7}`, "city: expected string, received number; ip: required"},
		{"city as object", `{"ip": "1.2.3.4", "city": {"name": "x"}}`, "city: expected string, received object"},
		{"array body", `[1, 2, 3]`, "expected a JSON object, received array"},
		{"string body", `"hello"`, "expected a JSON object, received string"},
		{"null body", `null`, "expected a JSON object, received null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(NewMockFetcher(200, tt.body), nil)

			result := svc.Lookup(context.Background())

			verr, ok := result.(models.ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %T (%+v)", result, result)
			}
			if verr.Message != MessageParseFailed {
				t.Errorf("expected message %q, got %q", MessageParseFailed, verr.Message)
			}
			if verr.Reason != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, verr.Reason)
			}
			if verr.Status != 200 {
				t.Errorf("expected status 200, got %d", verr.Status)
			}
		})
	}
}

// TestIPService_Lookup_ExactMemberNames tests that only exact member names are read
func TestIPService_Lookup_ExactMemberNames(t *testing.T) {
	svc := newTestService(NewMockFetcher(200, `{"ip": "1.2.3.4", "City": "Elsewhere", "country": "NL"}`), nil)

	success, ok := svc.Lookup(context.Background()).(models.Success)
	if !ok {
		t.Fatal("expected Success")
	}
	if success.Info.City != nil {
		t.Errorf("expected City member to be ignored, got %q", *success.Info.City)
	}
	if success.Info.Country == nil || *success.Info.Country != "NL" {
		t.Errorf("unexpected country: %v", success.Info.Country)
	}
}

// TestIPService_Lookup_TransportError tests that fetch failures become results
func TestIPService_Lookup_TransportError(t *testing.T) {
	fetcher := &MockFetcher{Err: errors.New("dial tcp: connection refused")}
	svc := newTestService(fetcher, nil)

	result := svc.Lookup(context.Background())

	terr, ok := result.(models.TransportError)
	if !ok {
		t.Fatalf("expected TransportError, got %T", result)
	}
	if !strings.Contains(terr.Err.Error(), "connection refused") {
		t.Errorf("expected wrapped cause, got %v", terr.Err)
	}
}

// TestIPService_Lookup_CacheHit tests that a cached answer skips the provider
func TestIPService_Lookup_CacheHit(t *testing.T) {
	cache := store.NewMockCache()
	cache.Info = &models.IPInfo{IP: "9.9.9.9"}
	fetcher := NewMockFetcher(200, fullPayload)
	svc := newTestService(fetcher, cache)

	success, ok := svc.Lookup(context.Background()).(models.Success)
	if !ok {
		t.Fatal("expected Success")
	}
	if success.Info.IP != "9.9.9.9" || !success.Cached {
		t.Errorf("expected cached 9.9.9.9, got %+v", success)
	}
	if fetcher.Calls != 0 {
		t.Errorf("expected no provider call, got %d", fetcher.Calls)
	}
}

// TestIPService_Lookup_CacheMissStoresSuccess tests write-through on success only
func TestIPService_Lookup_CacheMissStoresSuccess(t *testing.T) {
	cache := store.NewMockCache()
	svc := newTestService(NewMockFetcher(200, fullPayload), cache)

	svc.Lookup(context.Background())

	if len(cache.SetCalls) != 1 || cache.SetCalls[0].IP != "8.8.8.8" {
		t.Fatalf("expected the success to be cached, got %+v", cache.SetCalls)
	}

	failing := store.NewMockCache()
	svc = newTestService(NewMockFetcher(429, `{"error": true}`), failing)
	svc.Lookup(context.Background())

	if len(failing.SetCalls) != 0 {
		t.Errorf("expected provider errors not to be cached, got %d sets", len(failing.SetCalls))
	}
}

// TestIPService_Lookup_CacheFailuresAreIgnored tests that a broken cache never breaks lookups
func TestIPService_Lookup_CacheFailuresAreIgnored(t *testing.T) {
	cache := store.NewMockCache()
	cache.GetError = errors.New("redis down")
	cache.SetError = errors.New("redis down")
	fetcher := NewMockFetcher(200, fullPayload)
	svc := newTestService(fetcher, cache)

	if _, ok := svc.Lookup(context.Background()).(models.Success); !ok {
		t.Fatal("expected Success despite cache failures")
	}
	if fetcher.Calls != 1 {
		t.Errorf("expected provider to be called, got %d", fetcher.Calls)
	}
}

// TestIPService_Lookup_CacheMetrics tests hit/miss accounting
func TestIPService_Lookup_CacheMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg, reg)
	svc := NewIPService(NewMockFetcher(200, fullPayload), store.NewMemoryCache(time.Minute), m, logger.Nop())

	svc.Lookup(context.Background())
	svc.Lookup(context.Background())

	if got := testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues("memory", "miss")); got != 1 {
		t.Errorf("expected 1 miss, got %f", got)
	}
	if got := testutil.ToFloat64(m.CacheLookupsTotal.WithLabelValues("memory", "hit")); got != 1 {
		t.Errorf("expected 1 hit, got %f", got)
	}
}

// TestIPService_Close tests cleanup
func TestIPService_Close(t *testing.T) {
	cache := store.NewMockCache()
	svc := newTestService(NewMockFetcher(200, fullPayload), cache)

	if err := svc.Close(); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if !cache.CloseCalled {
		t.Error("expected cache Close to be called")
	}

	if err := newTestService(NewMockFetcher(200, fullPayload), nil).Close(); err != nil {
		t.Errorf("expected no error without cache, got: %v", err)
	}
}

// TestIPService_Close_WithError tests close with error
func TestIPService_Close_WithError(t *testing.T) {
	cache := store.NewMockCache()
	cache.CloseError = errors.New("failed to close connection")
	svc := newTestService(NewMockFetcher(200, fullPayload), cache)

	err := svc.Close()

	if err == nil || err.Error() != "failed to close connection" {
		t.Errorf("expected close error, got %v", err)
	}
}
