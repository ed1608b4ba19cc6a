package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/evyataryagoni/publicip-mcp/internal/logger"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolLogging logs every tool invocation with its duration and outcome
func ToolLogging(log *logger.Logger) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			log.Debug().Str("tool", req.Params.Name).Msg("Tool invocation started")

			res, err := next(ctx, req)

			event := log.Info()
			switch {
			case err != nil:
				event = log.Error().Err(err)
			case res != nil && res.IsError:
				event = log.Warn()
			}
			event.
				Str("tool", req.Params.Name).
				Bool("is_error", res != nil && res.IsError).
				Dur("duration_ms", time.Since(start)).
				Msg("Tool invocation completed")

			return res, err
		}
	}
}

// HTTPLogging logs ops endpoint requests with structured data
func HTTPLogging(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			event := log.Debug()
			if ww.Status() >= 500 {
				event = log.Error()
			} else if ww.Status() >= 400 {
				event = log.Warn()
			}
			event.
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration_ms", time.Since(start)).
				Msg("Request completed")
		})
	}
}
