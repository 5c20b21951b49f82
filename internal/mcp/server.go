package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/intakeflow/intakeflow/internal/patterns"
	"github.com/intakeflow/intakeflow/internal/session"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes intake leads and the deterministic
// assessment rules to MCP clients.
type Server struct {
	sessions *session.Store
	lib      *patterns.Library
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(sessions *session.Store, lib *patterns.Library) *Server {
	s := &Server{
		sessions: sessions,
		lib:      lib,
	}

	s.mcp = server.NewMCPServer(
		"intakeflow",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(getLeadTool, s.handleGetLead)
	s.mcp.AddTool(listLeadsTool, s.handleListLeads)
	s.mcp.AddTool(assessMessageTool, s.handleAssessMessage)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
