// Package mcp assembles the Falcon Sandbox MCP server: tools, prompts,
// report and schema resources, and request logging.
package mcp

import (
	"context"
	"errors"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/falcon-mcp/internal/mcp/prompts"
	"github.com/usestring/falcon-mcp/internal/mcp/tools"
)

// Implementation identifiers reported on initialize.
const (
	ImplementationName = "falcon-mcp"
	Version            = "1.0.0"
)

// DefaultInstructions is sent to clients on initialize.
const DefaultInstructions = "Looks up file hashes (MD5, SHA1, SHA256, SHA512) in existing Falcon Sandbox reports. " +
	"Nothing is submitted for analysis. Start with falcon_search_hash or falcon_lookup_hashes, " +
	"use falcon_query_reports for specific report fields, and read falcon://report/{hash} only when the full report is needed."

// Server wraps the MCP server with Falcon Sandbox components.
type Server struct {
	mcpServer *sdkmcp.Server
	deps      *tools.Deps

	builtinTools   bool
	builtinPrompts bool
	instructions   string
	registrations  []func(*sdkmcp.Server)
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithBuiltinTools enables the falcon_* tools and the falcon:// resources.
func WithBuiltinTools() ServerOption {
	return func(s *Server) { s.builtinTools = true }
}

// WithBuiltinPrompts enables the triage_hash and usage_guide prompts.
func WithBuiltinPrompts() ServerOption {
	return func(s *Server) { s.builtinPrompts = true }
}

// WithInstructions replaces DefaultInstructions.
func WithInstructions(text string) ServerOption {
	return func(s *Server) { s.instructions = text }
}

// WithCustomRegistration runs fn against the underlying server after the
// builtins are registered.
func WithCustomRegistration(fn func(*sdkmcp.Server)) ServerOption {
	return func(s *Server) {
		s.registrations = append(s.registrations, fn)
	}
}

// NewServer creates a server around deps. deps and deps.Config are required.
func NewServer(deps *tools.Deps, opts ...ServerOption) (*Server, error) {
	if deps == nil {
		return nil, errors.New("deps is required")
	}
	if deps.Config == nil {
		return nil, errors.New("deps.Config is required")
	}

	s := &Server{deps: deps, instructions: DefaultInstructions}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: ImplementationName, Version: Version},
		&sdkmcp.ServerOptions{Instructions: s.instructions},
	)
	s.mcpServer.AddReceivingMiddleware(LoggingMiddleware())

	if s.builtinTools {
		tools.Register(s.mcpServer, deps)
		s.registerResources()
	}
	if s.builtinPrompts {
		prompts.Register(s.mcpServer, &prompts.Config{
			MaxLookupHashes: deps.Config.MaxLookupHashes,
			CacheEnabled:    deps.Cache != nil,
			IndexEnabled:    deps.Index != nil,
		})
	}

	for _, fn := range s.registrations {
		fn(s.mcpServer)
	}

	return s, nil
}

// Run serves MCP over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.mcpServer
}
