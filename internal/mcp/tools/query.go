package tools

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/falcon-mcp/internal/query"
	"github.com/usestring/falcon-mcp/pkg/types"
)

const maxQueryResults = 1000

// QueryReportsInput is the input for falcon_query_reports.
type QueryReportsInput struct {
	Hash        string `json:"hash" jsonschema:"Hash whose reports are queried"`
	Expression  string `json:"expression" jsonschema:"jq expression, run once per report (e.g. '.domains[]', '.processes[]? | .command_line')"`
	Whole       bool   `json:"whole,omitempty" jsonschema:"Run the expression once over the array of all reports instead of per report. Default: false"`
	Deduplicate bool   `json:"deduplicate,omitempty" jsonschema:"Remove duplicate values (default: false)"`
	MaxResults  int    `json:"max_results,omitempty" jsonschema:"Max values to return (default: 100, max: 1000)"`
}

// ToolQueryReports runs a jq expression over the reports of one hash.
func ToolQueryReports(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryReportsInput) (*sdkmcp.CallToolResult, types.QueryResponse, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryReportsInput) (*sdkmcp.CallToolResult, types.QueryResponse, error) {
		if strings.TrimSpace(input.Hash) == "" {
			return nil, types.QueryResponse{}, ErrInvalidInput("hash is required")
		}
		if strings.TrimSpace(input.Expression) == "" {
			return nil, types.QueryResponse{}, ErrInvalidInput("expression is required")
		}
		if err := d.Query.ValidateExpression(input.Expression); err != nil {
			return nil, types.QueryResponse{}, ErrInvalidInput(err.Error())
		}

		limit := input.MaxResults
		if limit <= 0 {
			limit = d.Config.DefaultQueryLimit
		}
		if limit > maxQueryResults {
			limit = maxQueryResults
		}

		outcome := d.Lookup.Lookup(ctx, input.Hash)
		if outcome.Err != nil {
			return nil, types.QueryResponse{}, WrapSandboxError(outcome.Err)
		}

		resp := types.QueryResponse{
			Hash:       outcome.Hash,
			Expression: input.Expression,
			Reports:    len(outcome.Results),
		}
		if len(outcome.Results) == 0 {
			resp.Hint = "No sandbox reports for this hash; nothing to query."
			return nil, resp, nil
		}

		result, err := d.Query.Query(outcome.Results, input.Expression, query.Options{
			Whole:       input.Whole,
			Deduplicate: input.Deduplicate,
			MaxResults:  limit,
		})
		if err != nil {
			return nil, types.QueryResponse{}, ErrInvalidInput(err.Error())
		}

		resp.Values = result.Values
		resp.Errors = result.Errors
		resp.Truncated = result.Truncated

		switch {
		case result.Truncated:
			resp.Hint = "Results truncated. Raise max_results or narrow the expression."
		case len(resp.Values) == 0 && len(resp.Errors) > 0:
			resp.Hint = "The expression failed on every report. Optional fields are omitted when absent; guard iterations with '[]?'."
		case len(resp.Values) == 0:
			resp.Hint = "The expression produced no values. Read falcon://schema/search-result for field names."
		}

		return nil, resp, nil
	}
}
