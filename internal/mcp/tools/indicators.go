package tools

import (
	"context"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/falcon-mcp/internal/indexer"
	"github.com/usestring/falcon-mcp/internal/lookup"
	"github.com/usestring/falcon-mcp/pkg/types"
)

const (
	defaultIndicatorLimit = 20
	maxIndicatorLimit     = 200
)

// SearchIndicatorsInput is the input for falcon_search_indicators.
type SearchIndicatorsInput struct {
	Hash        string `json:"hash,omitempty" jsonschema:"Sample hash (md5, sha1, sha256 or sha512) of an already looked-up report"`
	Domain      string `json:"domain,omitempty" jsonschema:"Contacted domain, exact match"`
	Host        string `json:"host,omitempty" jsonschema:"Contacted or compromised host address"`
	Family      string `json:"family,omitempty" jsonschema:"Malware family (vx_family)"`
	Tag         string `json:"tag,omitempty" jsonschema:"Classification tag"`
	Verdict     string `json:"verdict,omitempty" jsonschema:"Verdict, e.g. malicious or suspicious"`
	Environment string `json:"environment,omitempty" jsonschema:"Environment id or description"`
	ProcessName string `json:"process_name,omitempty" jsonschema:"Name of a spawned process, e.g. cmd.exe"`
	FileHash    string `json:"file_hash,omitempty" jsonschema:"SHA256 of an extracted file"`
	Limit       int    `json:"limit,omitempty" jsonschema:"Max matches to return (default: 20, max: 200)"`
}

// ToolSearchIndicators searches the reports seen by earlier lookups.
func ToolSearchIndicators(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchIndicatorsInput) (*sdkmcp.CallToolResult, types.IndicatorSearchResponse, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchIndicatorsInput) (*sdkmcp.CallToolResult, types.IndicatorSearchResponse, error) {
		if d.Index == nil {
			return nil, types.IndicatorSearchResponse{}, ErrInvalidInput("indicator index is disabled (INDEX_MAX_REPORTS=0)")
		}

		q := indexer.Query{
			Hash:        input.Hash,
			Domain:      input.Domain,
			Host:        input.Host,
			Family:      input.Family,
			Tag:         input.Tag,
			Verdict:     input.Verdict,
			Environment: input.Environment,
			ProcessName: input.ProcessName,
			FileHash:    input.FileHash,
			Limit:       input.Limit,
		}
		if q.Empty() {
			return nil, types.IndicatorSearchResponse{}, ErrInvalidInput("at least one filter is required")
		}
		if q.Limit <= 0 {
			q.Limit = defaultIndicatorLimit
		}
		if q.Limit > maxIndicatorLimit {
			q.Limit = maxIndicatorLimit
		}

		matches, total := d.Index.Search(q)
		resp := types.IndicatorSearchResponse{
			Total:   total,
			Indexed: d.Index.Len(),
		}
		for _, m := range matches {
			resp.Matches = append(resp.Matches, types.IndicatorMatch{
				Hash:        m.Hash,
				JobID:       m.JobID,
				SHA256:      m.SHA256,
				Verdict:     m.Verdict,
				ThreatScore: m.ThreatScore,
				Family:      m.Family,
				Environment: m.Environment,
				IndexedAt:   m.IndexedAt.UTC().Format(time.RFC3339),
				ResourceURI: lookup.ReportURIPrefix + m.Hash,
			})
		}

		switch {
		case resp.Indexed == 0:
			resp.Hint = "The index is empty. It only covers reports returned by earlier falcon_search_hash or falcon_lookup_hashes calls."
		case total == 0:
			resp.Hint = "No indexed report matches every filter. Matching is exact; drop a filter to widen the search."
		case total > len(resp.Matches):
			resp.Hint = "More matches exist. Raise limit or add filters."
		}

		return nil, resp, nil
	}
}
