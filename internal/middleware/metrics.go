package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/evyataryagoni/publicip-mcp/internal/metrics"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolMetrics records invocation counts and latency per tool
func ToolMetrics(m *metrics.Metrics) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()

			res, err := next(ctx, req)

			outcome := "success"
			if err != nil || (res != nil && res.IsError) {
				outcome = "error"
			}
			m.ToolInvocationsTotal.WithLabelValues(req.Params.Name, outcome).Inc()
			m.ToolInvocationDuration.WithLabelValues(req.Params.Name).Observe(time.Since(start).Seconds())

			return res, err
		}
	}
}

// HTTPMetrics records ops endpoint request counts and latency
func HTTPMetrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			code := strconv.Itoa(status)
			m.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, code).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path, code).Observe(time.Since(start).Seconds())
		})
	}
}
