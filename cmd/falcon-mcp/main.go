package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/usestring/falcon-mcp/internal/config"
	"github.com/usestring/falcon-mcp/internal/metrics"
	"github.com/usestring/falcon-mcp/pkg/client"
	"github.com/usestring/falcon-mcp/pkg/mcpsrv"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Configuration is loaded from environment variables:
	// - FALCON_API_KEY (or REVERSEIT_APIKEY): sandbox API key, required
	// - FALCON_BASE_URL: defaults to https://www.reverse.it/api/v2
	// - LOG_LEVEL, LOG_FORMAT, LOG_FILE: logging
	// - METRICS_ADDR: serve Prometheus metrics on this address
	// - etc. (see internal/config for all options)
	cfg := config.Load()

	var m *metrics.Metrics
	if cfg.MetricsAddr != "" {
		m = metrics.New()
	}

	httpClient := &http.Client{
		Timeout:   cfg.HTTPClientTimeout,
		Transport: m.InstrumentTransport(nil),
	}
	falconClient := client.New(cfg.APIKey, append(cfg.ClientOptions(), client.WithHTTPClient(httpClient))...)

	server, err := mcpsrv.NewServer(falconClient, mcpsrv.WithConfig(cfg), mcpsrv.WithMetrics(m))
	if err != nil {
		slog.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}
	defer server.Close()

	// Every tool call would fail without a key; start anyway so the client
	// sees UNAUTHORIZED instead of a dead server.
	if err := cfg.Validate(); err != nil {
		slog.Warn("configuration incomplete", "error", err)
	}

	slog.Info("starting falcon MCP server on stdio", "base_url", falconClient.BaseURL())
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
