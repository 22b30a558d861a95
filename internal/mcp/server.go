// Package mcp exposes the dashboard views as Model Context Protocol tools.
package mcp

import (
	"context"
	"net/http"
	"time"

	"mlbvalue-mcp/internal/dashboard"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Options configures the tool server.
type Options struct {
	Version             string
	ExportDir           string
	EnableMermaidCharts bool
}

// Server holds the state for the MCP server.
type Server struct {
	svc                 *dashboard.Service
	exportDir           string
	enableMermaidCharts bool
	now                 func() time.Time

	server *sdk.Server
	tools  []ToolInfo
}

// ToolInfo names a registered tool.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewServer creates a new MCP server over svc and registers every tool.
func NewServer(svc *dashboard.Service, opts Options) *Server {
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	s := &Server{
		svc:                 svc,
		exportDir:           opts.ExportDir,
		enableMermaidCharts: opts.EnableMermaidCharts,
		now:                 time.Now,
		server: sdk.NewServer(&sdk.Implementation{
			Name:    "mlbvalue-mcp",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Tools lists the registered tools in registration order.
func (s *Server) Tools() []ToolInfo {
	return s.tools
}

// Serve runs the server over stdio until the client disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Int("tools", len(s.tools)).Msg("MCP server listening on stdio")
	return s.server.Run(ctx, &sdk.StdioTransport{})
}

// Handler serves the same tools over streamable HTTP.
func (s *Server) Handler() http.Handler {
	return sdk.NewStreamableHTTPHandler(func(*http.Request) *sdk.Server {
		return s.server
	}, &sdk.StreamableHTTPOptions{JSONResponse: true})
}

// Connect attaches the server to an arbitrary transport, e.g. an in-memory pipe.
func (s *Server) Connect(ctx context.Context, t sdk.Transport) (*sdk.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}
