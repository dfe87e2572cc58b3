package mcpsrv

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/falcon-mcp/internal/config"
	"github.com/usestring/falcon-mcp/internal/metrics"
	"github.com/usestring/falcon-mcp/pkg/client"
)

type echoInput struct {
	Hash string `json:"hash"`
}

type echoOutput struct {
	Cached bool `json:"cached"`
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		ResultCacheMaxItems: 4,
		ResultCacheTTL:      time.Minute,
		LookupWorkers:       1,
		LogLevel:            "error",
		LogFile:             filepath.Join(t.TempDir(), "falcon.log"),
	}
}

func newServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	srv, err := NewServer(client.New("k"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func TestNewServer_RequiresClient(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)
}

func TestNewServer_Deps(t *testing.T) {
	m := metrics.New()
	cfg := testConfig(t)
	srv := newServer(t, WithConfig(cfg), WithMetrics(m))

	d := srv.Deps()
	assert.Same(t, cfg, d.Config)
	assert.Same(t, m, d.Metrics)
	assert.NotNil(t, d.Cache)
	assert.NotNil(t, d.Lookup)
	assert.NotNil(t, d.Query)
	assert.NotNil(t, srv.MCPServer())
}

func TestNewServer_CreatesMetricsWhenAddrSet(t *testing.T) {
	cfg := testConfig(t)
	cfg.MetricsAddr = "127.0.0.1:0"
	srv := newServer(t, WithConfig(cfg))
	assert.NotNil(t, srv.Deps().Metrics)

	cfg = testConfig(t)
	srv = newServer(t, WithConfig(cfg))
	assert.Nil(t, srv.Deps().Metrics)
}

func TestNewServer_CustomToolsOnly(t *testing.T) {
	var gotDeps *Deps
	srv := newServer(t,
		WithConfig(testConfig(t)),
		WithoutBuiltinTools(),
		WithoutBuiltinPrompts(),
		WithTool(&mcp.Tool{Name: "echo", Description: "echo"},
			func(ctx context.Context, req *mcp.CallToolRequest, in echoInput) (*mcp.CallToolResult, echoOutput, error) {
				return nil, echoOutput{}, nil
			}),
		WithDepsTool(&mcp.Tool{Name: "cached", Description: "cached"},
			func(d *Deps) func(context.Context, *mcp.CallToolRequest, echoInput) (*mcp.CallToolResult, echoOutput, error) {
				gotDeps = d
				return func(ctx context.Context, req *mcp.CallToolRequest, in echoInput) (*mcp.CallToolResult, echoOutput, error) {
					return nil, echoOutput{Cached: true}, nil
				}
			}),
	)

	assert.Same(t, srv.Deps(), gotDeps)

	ctx := context.Background()
	st, ct := mcp.NewInMemoryTransports()
	ss, err := srv.MCPServer().Connect(ctx, st, nil)
	require.NoError(t, err)
	defer ss.Close()

	cs, err := mcp.NewClient(&mcp.Implementation{Name: "t", Version: "0"}, nil).Connect(ctx, ct, nil)
	require.NoError(t, err)
	defer cs.Close()

	res, err := cs.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)
	names := []string{}
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"echo", "cached"}, names)
}

func TestNewServer_PromptsResourcesAndInstructions(t *testing.T) {
	srv := newServer(t,
		WithConfig(testConfig(t)),
		WithoutBuiltinPrompts(),
		WithInstructions("only custom"),
		WithPrompt(&mcp.Prompt{Name: "custom_prompt"},
			func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
				return &mcp.GetPromptResult{Messages: []*mcp.PromptMessage{
					{Role: "user", Content: &mcp.TextContent{Text: "hi"}},
				}}, nil
			}),
		WithResourceTemplate(&mcp.ResourceTemplate{URITemplate: "custom://{id}", Name: "custom"},
			func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
				return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{{URI: req.Params.URI, Text: "x"}}}, nil
			}),
	)

	ctx := context.Background()
	st, ct := mcp.NewInMemoryTransports()
	ss, err := srv.MCPServer().Connect(ctx, st, nil)
	require.NoError(t, err)
	defer ss.Close()

	cs, err := mcp.NewClient(&mcp.Implementation{Name: "t", Version: "0"}, nil).Connect(ctx, ct, nil)
	require.NoError(t, err)
	defer cs.Close()

	assert.Equal(t, "only custom", cs.InitializeResult().Instructions)

	prompts, err := cs.ListPrompts(ctx, &mcp.ListPromptsParams{})
	require.NoError(t, err)
	require.Len(t, prompts.Prompts, 1)
	assert.Equal(t, "custom_prompt", prompts.Prompts[0].Name)

	res, err := cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: "custom://1"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "x", res.Contents[0].Text)
}
