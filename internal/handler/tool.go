package handler

import (
	"context"

	"github.com/evyataryagoni/publicip-mcp/internal/logger"
	"github.com/evyataryagoni/publicip-mcp/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// ToolName is the name clients invoke
const ToolName = "get_public_ip_info"

// Looker performs one public IP lookup
// service.IPService is the production implementation
type Looker interface {
	Lookup(ctx context.Context) models.Result
}

// IPInfoTool serves the get_public_ip_info tool
// This is the handler layer - it deals with tool protocol concerns only
//
// Responsibilities:
//   - Describe the tool (name, description, no parameters)
//   - Call the service
//   - Turn the result into a text reply
//   - Never surface a Go error: failures are reply text with isError set
type IPInfoTool struct {
	service Looker
	logger  *logger.Logger
}

// NewIPInfoTool creates the tool handler with the given service
func NewIPInfoTool(service Looker, log *logger.Logger) *IPInfoTool {
	if log == nil {
		log = logger.NewDefault()
	}
	return &IPInfoTool{
		service: service,
		logger:  log.WithTool(ToolName),
	}
}

// Tool returns the tool definition advertised to clients
func (h *IPInfoTool) Tool() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription("Get the public IP address and approximate geolocation of this host"),
	)
}

// Handle answers one invocation
func (h *IPInfoTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := h.service.Lookup(ctx)

	text, isError := Render(result)
	if isError {
		h.logger.Warn().Str("outcome", models.Outcome(result)).Msg("Lookup failed")
		return mcp.NewToolResultError(text), nil
	}

	return mcp.NewToolResultText(text), nil
}
