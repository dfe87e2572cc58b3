package tools

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/falcon-mcp/pkg/types"
)

// SearchHashInput is the input for falcon_search_hash.
type SearchHashInput struct {
	Hash           string `json:"hash" jsonschema:"MD5, SHA1, SHA256 or SHA512 of the sample"`
	IncludeReports bool   `json:"include_reports,omitempty" jsonschema:"Include the full reports in addition to summaries. High context cost. Default: false"`
	CompactReports bool   `json:"compact_reports,omitempty" jsonschema:"With include_reports, trim arrays to 10 items and strings to 500 chars. Default: false"`
}

// ToolSearchHash searches the sandbox for reports of one hash.
func ToolSearchHash(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchHashInput) (*sdkmcp.CallToolResult, types.HashLookup, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchHashInput) (*sdkmcp.CallToolResult, types.HashLookup, error) {
		if strings.TrimSpace(input.Hash) == "" {
			return nil, types.HashLookup{}, ErrInvalidInput("hash is required")
		}

		outcome := d.Lookup.Lookup(ctx, input.Hash)
		if outcome.Err != nil {
			return nil, types.HashLookup{}, WrapSandboxError(outcome.Err)
		}

		out, err := BuildHashLookup(outcome, ReportOptions{Include: input.IncludeReports, Compact: input.CompactReports})
		if err != nil {
			return nil, types.HashLookup{}, err
		}
		return nil, out, nil
	}
}
