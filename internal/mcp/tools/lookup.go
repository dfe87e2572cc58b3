package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/falcon-mcp/pkg/types"
)

// LookupHashesInput is the input for falcon_lookup_hashes.
type LookupHashesInput struct {
	Hashes         []string `json:"hashes" jsonschema:"Hashes to look up. Duplicates and blanks are dropped"`
	IncludeReports bool     `json:"include_reports,omitempty" jsonschema:"Include full reports for every hash. Very high context cost. Default: false"`
	CompactReports bool     `json:"compact_reports,omitempty" jsonschema:"With include_reports, trim arrays to 10 items and strings to 500 chars. Default: false"`
}

// LookupHashesOutput is the output for falcon_lookup_hashes.
type LookupHashesOutput struct {
	Results []types.HashLookup  `json:"results,omitzero"`
	Summary types.LookupSummary `json:"summary"`
	Hint    string              `json:"hint,omitempty"`
}

// ToolLookupHashes looks up a batch of hashes concurrently.
func ToolLookupHashes(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input LookupHashesInput) (*sdkmcp.CallToolResult, LookupHashesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input LookupHashesInput) (*sdkmcp.CallToolResult, LookupHashesOutput, error) {
		outcomes, err := d.Lookup.LookupMany(ctx, input.Hashes)
		if err != nil {
			return nil, LookupHashesOutput{}, WrapSandboxError(err)
		}

		out := LookupHashesOutput{
			Results: make([]types.HashLookup, 0, len(outcomes)),
			Summary: types.LookupSummary{
				Requested: len(input.Hashes),
				Unique:    len(outcomes),
			},
		}

		var unauthorized bool
		for _, o := range outcomes {
			hl, err := BuildHashLookup(o, ReportOptions{Include: input.IncludeReports, Compact: input.CompactReports})
			if err != nil {
				return nil, LookupHashesOutput{}, err
			}
			// Per-hash hints repeat the batch hint.
			hl.Hint = ""

			switch {
			case o.Err != nil:
				out.Summary.Failed++
				if strings.HasPrefix(hl.Error, ErrCodeUnauthorized) {
					unauthorized = true
				}
			case hl.Found:
				out.Summary.Found++
				if strings.EqualFold(hl.Verdict, "malicious") {
					out.Summary.Malicious++
				}
			default:
				out.Summary.NotFound++
			}
			out.Results = append(out.Results, hl)
		}

		switch {
		case unauthorized:
			out.Hint = "The API key was rejected. Check FALCON_API_KEY before retrying."
		case out.Summary.Found > 0:
			out.Hint = fmt.Sprintf("%d of %d hashes have reports. Use falcon_query_reports on a hash for details.",
				out.Summary.Found, out.Summary.Unique)
		default:
			out.Hint = "None of the hashes have sandbox reports."
		}

		return nil, out, nil
	}
}
