package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	AddTool(srv, &sdkmcp.Tool{
		Name:        "falcon_search_hash",
		Description: "Look up one file hash (MD5, SHA1, SHA256, SHA512) in Falcon Sandbox. Returns {hash, hash_kind, found, cached, verdict, count, reports_summary: [{job_id, environment, verdict, threat_score, av_detect, family, ...}], hint}. verdict is the most severe across reports. Set include_reports=true for full reports (high context cost); prefer falcon_query_reports for specific fields.",
	}, ToolSearchHash(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "falcon_lookup_hashes",
		Description: "Look up many hashes at once. Returns {results: [per-hash search output], summary: {requested, unique, found, not_found, failed, malicious}, hint}. Duplicates are looked up once and per-hash failures do not fail the batch. Use this instead of repeated falcon_search_hash calls.",
	}, ToolLookupHashes(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "falcon_query_reports",
		Description: "Extract values from the sandbox reports of one hash with a jq expression. Runs per report by default (errors labelled by job_id); set whole=true to run once over the array of reports. Returns {hash, expression, reports, values, errors, truncated, hint}. Field names follow the raw report (e.g. 'type', 'vx_family', 'processes[].command_line').",
	}, ToolQueryReports(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "falcon_search_indicators",
		Description: "Search reports already returned by earlier lookups by indicator: domain, host, family, tag, verdict, environment, process_name, file_hash or sample hash. Filters are combined with AND and match exactly (case-insensitive). Makes no sandbox API calls. Returns {matches: [{hash, job_id, sha256, verdict, threat_score, family, environment, indexed_at, resource_uri}], total, indexed, hint}.",
	}, ToolSearchIndicators(d))
}
