package mcpsrv

import (
	"context"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/falcon-mcp/internal/config"
	"github.com/usestring/falcon-mcp/internal/metrics"
)

// registration adds something to the server once Deps exist. Every custom
// tool, prompt and resource goes through one so they share the registration
// order given by the options.
type registration func(*mcp.Server, *Deps)

type serverConfig struct {
	config       *config.Config
	metrics      *metrics.Metrics
	logLevel     string
	logFile      string
	instructions string

	disableBuiltinTools   bool
	disableBuiltinPrompts bool

	registrations []registration
}

// Option configures the server.
type Option func(*serverConfig)

// WithConfig replaces the configuration loaded from the environment.
// A nil cfg is ignored.
func WithConfig(cfg *config.Config) Option {
	return func(sc *serverConfig) {
		if cfg != nil {
			sc.config = cfg
		}
	}
}

// WithMetrics records cache and lookup metrics into m. Pass the same m used
// to instrument the client's transport to get HTTP metrics as well.
func WithMetrics(m *metrics.Metrics) Option {
	return func(sc *serverConfig) {
		sc.metrics = m
	}
}

// WithLogLevel overrides LOG_LEVEL.
func WithLogLevel(level string) Option {
	return func(sc *serverConfig) {
		sc.logLevel = level
	}
}

// WithLogFile overrides LOG_FILE.
func WithLogFile(path string) Option {
	return func(sc *serverConfig) {
		sc.logFile = path
	}
}

// WithInstructions replaces the instructions sent to clients on initialize.
func WithInstructions(text string) Option {
	return func(sc *serverConfig) {
		sc.instructions = text
	}
}

// WithoutBuiltinTools disables the falcon_* tools and the falcon:// resources.
func WithoutBuiltinTools() Option {
	return func(sc *serverConfig) {
		sc.disableBuiltinTools = true
	}
}

// WithoutBuiltinPrompts disables the triage_hash and usage_guide prompts.
func WithoutBuiltinPrompts() Option {
	return func(sc *serverConfig) {
		sc.disableBuiltinPrompts = true
	}
}

// WithTool registers a custom tool. The output type follows the same rules
// as the builtin tools; see [AddTool].
func WithTool[In, Out any](tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(sc *serverConfig) {
		sc.registrations = append(sc.registrations, func(srv *mcp.Server, _ *Deps) {
			AddTool(srv, tool, handler)
		})
	}
}

// WithDepsTool registers a custom tool built from Deps, for tools that need
// the lookup engine, cache, index or query engine.
//
//	type familyInput struct {
//	    Hash string `json:"hash"`
//	}
//	type familyOutput struct {
//	    Families []string `json:"families,omitzero"`
//	}
//
//	mcpsrv.WithDepsTool(
//	    &mcp.Tool{Name: "falcon_families", Description: "Malware families reported for a hash"},
//	    func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, familyInput) (*mcp.CallToolResult, familyOutput, error) {
//	        return func(ctx context.Context, req *mcp.CallToolRequest, in familyInput) (*mcp.CallToolResult, familyOutput, error) {
//	            outcome := d.Lookup.Lookup(ctx, in.Hash)
//	            var out familyOutput
//	            for _, r := range outcome.Results {
//	                if r.VXFamily != nil {
//	                    out.Families = append(out.Families, *r.VXFamily)
//	                }
//	            }
//	            return nil, out, outcome.Err
//	        }
//	    },
//	)
func WithDepsTool[In, Out any](tool *mcp.Tool, builder func(*Deps) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(sc *serverConfig) {
		sc.registrations = append(sc.registrations, func(srv *mcp.Server, d *Deps) {
			AddTool(srv, tool, builder(d))
		})
	}
}

// WithPrompt registers a custom prompt.
func WithPrompt(prompt *mcp.Prompt, handler func(context.Context, *mcp.GetPromptRequest) (*mcp.GetPromptResult, error)) Option {
	return func(sc *serverConfig) {
		sc.registrations = append(sc.registrations, func(srv *mcp.Server, _ *Deps) {
			srv.AddPrompt(prompt, handler)
		})
	}
}

// WithResourceTemplate registers a custom resource template, e.g. one under
// its own scheme next to falcon://report/{hash}.
func WithResourceTemplate(template *mcp.ResourceTemplate, handler func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)) Option {
	return func(sc *serverConfig) {
		sc.registrations = append(sc.registrations, func(srv *mcp.Server, _ *Deps) {
			srv.AddResourceTemplate(template, handler)
		})
	}
}
