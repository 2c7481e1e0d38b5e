// Package mcp exposes the query entry point as an MCP tool surface over
// stdio. The server needs only the engine's Ask contract; indexing happens
// out of band through the CLI.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"codequery/internal/engine"
)

const (
	// ServerName is the MCP server name
	ServerName = "codequery"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with the query engine
type Server struct {
	mcp     *server.MCPServer
	engine  *engine.Engine
	dataDir string
}

// NewServer creates an MCP server over an opened engine
func NewServer(eng *engine.Engine, dataDir string) *Server {
	s := &Server{
		mcp:     server.NewMCPServer(ServerName, ServerVersion),
		engine:  eng,
		dataDir: dataDir,
	}
	s.registerTools()
	return s
}

// Serve runs the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.engine.Close() }()
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(askCodebaseTool(), s.handleAskCodebase)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
