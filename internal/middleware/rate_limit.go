package middleware

import (
	"context"

	"github.com/evyataryagoni/publicip-mcp/internal/handler"
	"github.com/evyataryagoni/publicip-mcp/internal/limiter"
	"github.com/evyataryagoni/publicip-mcp/internal/metrics"
	"github.com/evyataryagoni/publicip-mcp/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RateLimitMessage is the reason given when an invocation is refused locally
const RateLimitMessage = "rate limit exceeded, please try again later"

// ToolRateLimit refuses invocations beyond the limiter's quota
// A refused call never reaches the provider. m may be nil.
func ToolRateLimit(lim limiter.Limiter, m *metrics.Metrics) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			if !lim.Allow("tool:" + req.Params.Name) {
				if m != nil {
					m.ToolRateLimitedTotal.Inc()
				}
				text, _ := handler.Render(models.RateLimited{Message: RateLimitMessage})
				return mcp.NewToolResultError(text), nil
			}
			return next(ctx, req)
		}
	}
}
