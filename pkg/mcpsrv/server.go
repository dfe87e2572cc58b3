package mcpsrv

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/falcon-mcp/internal/config"
	"github.com/usestring/falcon-mcp/internal/logging"
	"github.com/usestring/falcon-mcp/internal/mcp"
	"github.com/usestring/falcon-mcp/internal/mcp/tools"
	"github.com/usestring/falcon-mcp/internal/metrics"
	"github.com/usestring/falcon-mcp/pkg/client"
)

// Server is the Falcon Sandbox MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	config     *config.Config
	metrics    *metrics.Metrics
	logCleanup func() error
}

// NewServer creates a new MCP server with builtin falcon tools.
//
// The client parameter is required and provides access to the sandbox API.
// Use functional options to configure logging, add custom tools, etc.
func NewServer(c *client.Client, opts ...Option) (*Server, error) {
	if c == nil {
		return nil, fmt.Errorf("client is required")
	}

	cfg := &serverConfig{
		config: config.Load(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logCfg := logging.Config{
		Level:      cfg.config.LogLevel,
		Format:     cfg.config.LogFormat,
		FilePath:   cfg.config.LogFile,
		MaxSizeMB:  cfg.config.LogMaxSizeMB,
		MaxBackups: cfg.config.LogMaxBackups,
		MaxAgeDays: cfg.config.LogMaxAgeDays,
		Compress:   cfg.config.LogCompress,
	}
	if cfg.logLevel != "" {
		logCfg.Level = cfg.logLevel
	}
	if cfg.logFile != "" {
		logCfg.FilePath = cfg.logFile
	}
	logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	m := cfg.metrics
	if m == nil && cfg.config.MetricsAddr != "" {
		m = metrics.New()
	}

	toolDeps := tools.NewDeps(c, cfg.config, m)

	// Public deps share the engines built for the builtin tools.
	deps := &Deps{
		Client:  c,
		Cache:   toolDeps.Cache,
		Index:   toolDeps.Index,
		Lookup:  toolDeps.Lookup,
		Query:   toolDeps.Query,
		Config:  cfg.config,
		Metrics: m,
	}

	var internalOpts []mcp.ServerOption
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !cfg.disableBuiltinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}
	if cfg.instructions != "" {
		internalOpts = append(internalOpts, mcp.WithInstructions(cfg.instructions))
	}
	for _, reg := range cfg.registrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			reg(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		config:     cfg.config,
		metrics:    m,
		logCleanup: logCleanup,
	}, nil
}

// Run starts the MCP server with stdio transport. When METRICS_ADDR is set
// the metrics endpoint is served alongside it. The server runs until the
// context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if s.metrics != nil && s.config.MetricsAddr != "" {
		go func() {
			if err := s.metrics.Serve(ctx, s.config.MetricsAddr); err != nil {
				slog.Error("metrics server failed",
					slog.String("addr", s.config.MetricsAddr),
					slog.String("error", err.Error()),
				)
			}
		}()
	}
	return s.internal.Run(ctx)
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.internal.MCPServer()
}
