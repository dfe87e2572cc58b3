package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/falcon-mcp/internal/mcp/tools"
)

// AddTool registers a custom tool the same way the builtin falcon tools are
// registered: the zero value of Out must pass the SDK's inferred output
// schema (tag nil-defaulting slices with `omitzero`), and returned errors
// that are not already coded are classified like sandbox errors
// (UNAUTHORIZED, RATE_LIMITED, TIMEOUT, ...).
//
// Panics at registration if Out is unusable as an output type.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}
