package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/falcon-mcp/internal/lookup"
	"github.com/usestring/falcon-mcp/internal/mcp/tools"
	"github.com/usestring/falcon-mcp/internal/schema"
	"github.com/usestring/falcon-mcp/pkg/client"
)

// Resource URI scheme: falcon://
// Supported URIs:
//   falcon://report/{hash}
//   falcon://schema/search-result

const schemaURI = "falcon://schema/search-result"

// reportResource is the body of a falcon://report/{hash} resource.
type reportResource struct {
	Hash               string                `json:"hash"`
	HashKind           string                `json:"hash_kind"`
	Verdict            string                `json:"verdict"`
	Reports            []client.SearchResult `json:"reports"`
	ProcessesTruncated bool                  `json:"processes_truncated,omitempty"`
}

// registerResources registers resource templates and handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: lookup.ReportURIPrefix + "{hash}",
		Name:        "Sandbox Reports",
		Description: "Every Falcon Sandbox report for a hash, in the service's own field names. High context cost - falcon_search_hash already returns summaries and falcon_query_reports extracts fields. Only fetch when you need the whole report.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.4,
		},
	}, s.handleResourceReport)

	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         schemaURI,
		Name:        "Search Result Schema",
		Description: "JSON Schema of a search response, including file certificates, extracted files, processes, and screenshots. Read once to learn field names before writing jq expressions.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.6,
		},
	}, s.handleResourceSchema)
}

func (s *Server) handleResourceReport(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	hash, err := parseReportURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	outcome := s.deps.Lookup.Lookup(ctx, hash)
	if outcome.Err != nil {
		return nil, tools.WrapSandboxError(outcome.Err)
	}
	if len(outcome.Results) == 0 {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}

	reports, truncated := capProcesses(outcome.Results, s.deps.Config.ResourceMaxProcesses)
	content := reportResource{
		Hash:               outcome.Hash,
		HashKind:           string(outcome.Kind),
		Verdict:            lookup.Verdict(outcome.Results),
		Reports:            reports,
		ProcessesTruncated: truncated,
	}

	return toResourceResult(req.Params.URI, content)
}

func (s *Server) handleResourceSchema(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	doc, err := schema.Document()
	if err != nil {
		return nil, err
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: tools.MimeJSON,
				Text:     string(doc),
			},
		},
	}, nil
}

// Helper functions

// parseReportURI extracts the hash from a falcon://report/{hash} URI.
func parseReportURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, "falcon://") {
		return "", tools.ErrInvalidInput("invalid URI scheme: expected falcon://")
	}
	if !strings.HasPrefix(uri, lookup.ReportURIPrefix) {
		return "", tools.ErrInvalidInput(fmt.Sprintf("unknown resource: %s", uri))
	}

	hash := strings.TrimPrefix(uri, lookup.ReportURIPrefix)
	if hash == "" || strings.Contains(hash, "/") {
		return "", tools.ErrInvalidInput("report URI requires exactly one hash")
	}
	return hash, nil
}

// capProcesses limits each report to max processes. Reports are copied so
// cached results are never modified. max <= 0 disables the cap.
func capProcesses(results []client.SearchResult, max int) ([]client.SearchResult, bool) {
	if max <= 0 {
		return results, false
	}

	out := make([]client.SearchResult, len(results))
	truncated := false
	for i, r := range results {
		if len(r.Processes) > max {
			r.Processes = r.Processes[:max:max]
			truncated = true
		}
		out[i] = r
	}
	return out, truncated
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
