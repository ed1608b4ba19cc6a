package mcpserver

import (
	"context"
	"io"
	stdlog "log"
	"os"

	"github.com/evyataryagoni/publicip-mcp/internal/handler"
	"github.com/evyataryagoni/publicip-mcp/internal/limiter"
	"github.com/evyataryagoni/publicip-mcp/internal/logger"
	"github.com/evyataryagoni/publicip-mcp/internal/metrics"
	"github.com/evyataryagoni/publicip-mcp/internal/middleware"
	"github.com/mark3labs/mcp-go/server"
)

const (
	// Name is announced to clients during initialization
	Name = "get-local-ipinfo-mcp"
	// Version is announced to clients during initialization
	Version = "1.0.0"
)

// Options configures the optional parts of the tool server
type Options struct {
	Limiter limiter.Limiter  // nil disables rate limiting
	Metrics *metrics.Metrics // nil disables tool metrics
	Logger  *logger.Logger
}

// Server hosts the get_public_ip_info tool
type Server struct {
	mcp    *server.MCPServer
	logger *logger.Logger
}

// New builds the MCP server and registers the tool
//
// Middleware order, outermost first: recovery, logging, metrics, rate limit.
// Refused invocations are therefore still logged and counted.
func New(tool *handler.IPInfoTool, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.NewDefault()
	}
	log = log.WithComponent("MCPServer")

	serverOpts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(middleware.ToolLogging(log)),
	}
	if opts.Metrics != nil {
		serverOpts = append(serverOpts, server.WithToolHandlerMiddleware(middleware.ToolMetrics(opts.Metrics)))
	}
	if opts.Limiter != nil {
		serverOpts = append(serverOpts, server.WithToolHandlerMiddleware(middleware.ToolRateLimit(opts.Limiter, opts.Metrics)))
	}

	s := server.NewMCPServer(Name, Version, serverOpts...)
	s.AddTool(tool.Tool(), tool.Handle)

	return &Server{mcp: s, logger: log}
}

// MCP exposes the underlying server, e.g. to feed it messages in tests
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves the tool over the process's stdin and stdout
// It blocks until stdin is closed or ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	s.logger.Info().Msg("MCP server running on stdio")
	return s.Listen(ctx, os.Stdin, os.Stdout)
}

// Listen serves the tool over arbitrary streams
// Transport-level diagnostics go to the structured logger, never to out.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(stdlog.New(s.logger.Logger, "", 0))
	return stdio.Listen(ctx, in, out)
}
