package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleTriageHash implements the single-hash triage workflow.
func HandleTriageHash(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		hash := ""
		if args := req.Params.Arguments; args != nil {
			hash = strings.TrimSpace(args["hash"])
		}
		if hash == "" {
			hash = "<hash>"
		}

		var sb strings.Builder

		sb.WriteString("# Triage a Sample Hash\n\n")
		sb.WriteString("You are a malware analyst. Decide whether the sample below is known-bad, ")
		sb.WriteString("known-good, or unknown, using existing Falcon Sandbox reports only.\n\n")
		fmt.Fprintf(&sb, "Hash: `%s`\n\n", hash)

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Look up the hash**\n")
		fmt.Fprintf(&sb, "   - `falcon_search_hash(hash: \"%s\")`\n", hash)
		sb.WriteString("   - `count: 0` means the sandbox has never analyzed it. Stop and report \"unknown\".\n")
		sb.WriteString("   - `verdict` is the most severe verdict across all reports.\n\n")
		sb.WriteString("2. **Read the summaries**\n")
		sb.WriteString("   - Compare `threat_score`, `av_detect` and `family` across environments.\n")
		sb.WriteString("   - Disagreement between environments is worth calling out.\n\n")
		sb.WriteString("3. **Drill in with jq** only for what the summary lacks\n")
		fmt.Fprintf(&sb, "   - Network: `falcon_query_reports(hash: \"%s\", expression: \".domains[]\", deduplicate: true)`\n", hash)
		fmt.Fprintf(&sb, "   - Process tree: `falcon_query_reports(hash: \"%s\", expression: \".processes[]? | {uid, parent_uid, name, command_line}\")`\n", hash)
		fmt.Fprintf(&sb, "   - Dropped files: `falcon_query_reports(hash: \"%s\", expression: \".extracted_files[]? | select(.av_matched > 0) | {name, sha256, av_label}\")`\n", hash)
		if cfg.IndexEnabled {
			sb.WriteString("   - Related samples already looked up: `falcon_search_indicators(domain: \"<domain>\")`\n")
		}
		sb.WriteString("\n")
		sb.WriteString("4. **Fetch the full report** as a last resort\n")
		fmt.Fprintf(&sb, "   - Resource `falcon://report/%s` (high context cost)\n\n", hash)

		sb.WriteString("## Verdict Severity\n\n")
		sb.WriteString("malicious > suspicious > no specific threat > no verdict > whitelisted\n\n")

		sb.WriteString("## Troubleshooting\n\n")
		sb.WriteString("- **UNAUTHORIZED**: the API key is missing or wrong. Ask the user to check FALCON_API_KEY.\n")
		sb.WriteString("- **RATE_LIMITED**: wait before retrying; do not loop.\n")
		sb.WriteString("- **DECODE_ERROR**: the service returned a report shape this server does not accept. Report the violations verbatim.\n")
		if cfg.CacheEnabled {
			sb.WriteString("- Results are cached; `cached: true` means no request was sent.\n")
		}

		sb.WriteString("\n## Success Criteria\n\n")
		sb.WriteString("Task is complete when you can state the verdict, the family (if any), ")
		sb.WriteString("the environments it ran in, and the strongest indicators supporting it.\n")

		return &sdkmcp.GetPromptResult{
			Description: "Guide for triaging a hash against sandbox reports",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}

// HandleUsageGuide serves the tool usage guide.
func HandleUsageGuide(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var sb strings.Builder

		sb.WriteString("# Efficient Tool Usage Guide\n\n")
		sb.WriteString("| Goal | Tool | Notes |\n")
		sb.WriteString("|------|------|-------|\n")
		sb.WriteString("| Verdict for one hash | `falcon_search_hash` | Summaries only unless `include_reports: true` |\n")
		if cfg.MaxLookupHashes > 0 {
			fmt.Fprintf(&sb, "| Verdicts for many hashes | `falcon_lookup_hashes` | Up to %d unique hashes per call |\n", cfg.MaxLookupHashes)
		} else {
			sb.WriteString("| Verdicts for many hashes | `falcon_lookup_hashes` | Duplicates are looked up once |\n")
		}
		sb.WriteString("| Specific fields from reports | `falcon_query_reports` | jq per report; `whole: true` for cross-report aggregation |\n")
		if cfg.IndexEnabled {
			sb.WriteString("| Other samples sharing an indicator | `falcon_search_indicators` | Only covers hashes already looked up; no API calls |\n")
		}
		sb.WriteString("| Field names and types | resource `falcon://schema/search-result` | Read once |\n")
		sb.WriteString("| Everything | resource `falcon://report/{hash}` | High context cost |\n")

		sb.WriteString("\n**Key rules**:\n")
		sb.WriteString("- Optional fields are omitted when absent, so guard iterations with `[]?`\n")
		sb.WriteString("- The file type is under `type`, not `file_type`, in raw reports\n")
		sb.WriteString("- Prefer `falcon_lookup_hashes` over repeated `falcon_search_hash` calls\n")

		return &sdkmcp.GetPromptResult{
			Description: "Guide for using the falcon tools efficiently",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
