// Package server provides the MCP server implementation for the travel assistant.
package server

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/travelmind/travelmcp/pkg/tools"
	"github.com/travelmind/travelmcp/pkg/tools/prompts"
	"github.com/travelmind/travelmcp/pkg/version"
)

// ServerName is the name of the MCP server
const ServerName = "travel-mcp-server"

// Server encapsulates the MCP server with the travel-planning tools.
type Server struct {
	srv *server.MCPServer
}

// NewServer creates a new travel-assistant MCP server with all tools and
// prompts registered.
func NewServer() (*Server, error) {
	logger := slog.Default()
	logger.Info("initializing travel assistant MCP server",
		"name", ServerName,
		"version", version.BuildVersion)

	// Create MCP server with options
	srv := server.NewMCPServer(
		ServerName,
		version.BuildVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	// Create tool registry and register all tools and prompts
	registry := tools.NewRegistry(logger)
	registry.RegisterTools(srv)
	prompts.RegisterTravelPrompts(srv)

	return &Server{srv: srv}, nil
}

// Run starts the MCP server using stdin/stdout for communication.
func (s *Server) Run() error {
	return server.ServeStdio(s.srv)
}
