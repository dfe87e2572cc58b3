// Package tools contains MCP tool implementations for Falcon Sandbox.
package tools

import (
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/falcon-mcp/internal/lookup"
	"github.com/usestring/falcon-mcp/pkg/jsoncompact"
	"github.com/usestring/falcon-mcp/pkg/types"
)

// MIME type constant.
const MimeJSON = "application/json"

// MakeJSONToolResult creates a CallToolResult with JSON text content.
func MakeJSONToolResult(v any) (*sdkmcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: string(b)},
		},
	}, nil
}

// ReportOptions controls whether and how full reports are attached.
type ReportOptions struct {
	Include bool
	Compact bool // trim long arrays and strings with jsoncompact defaults
}

// BuildHashLookup converts a lookup outcome to its tool representation.
// Outcome errors are not returned; they are rendered into the Error field.
func BuildHashLookup(o lookup.Outcome, ro ReportOptions) (types.HashLookup, error) {
	out := types.HashLookup{
		Hash:     o.Hash,
		HashKind: string(o.Kind),
		Cached:   o.Cached,
		Count:    len(o.Results),
	}
	if o.Err != nil {
		out.Error = WrapSandboxError(o.Err).Error()
		return out, nil
	}

	out.Found = len(o.Results) > 0
	if !out.Found {
		out.Hint = "No sandbox reports for this hash. It has not been analyzed, or the hash is wrong."
		return out, nil
	}

	out.Verdict = lookup.Verdict(o.Results)
	out.Reports = lookup.SummarizeAll(o.Results)

	if ro.Include {
		out.Full = make([]any, 0, len(o.Results))
		for i, r := range o.Results {
			v, err := types.ToAny(r)
			if err != nil {
				return out, fmt.Errorf("converting report %d: %w", i, err)
			}
			if ro.Compact {
				var stats jsoncompact.Stats
				v, stats = jsoncompact.Value(v, jsoncompact.DefaultOptions())
				out.Trimmed = out.Trimmed || stats.Trimmed()
			}
			out.Full = append(out.Full, v)
		}
		if out.Trimmed {
			out.Hint = fmt.Sprintf("Reports were trimmed. Read %s%s for the untrimmed reports.", lookup.ReportURIPrefix, o.Hash)
		}
	} else {
		out.Hint = fmt.Sprintf("Use falcon_query_reports to extract fields, or read %s%s for full reports.",
			lookup.ReportURIPrefix, o.Hash)
	}
	return out, nil
}
