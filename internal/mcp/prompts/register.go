package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "triage_hash",
		Description: "RECOMMENDED: Triage a file hash against Falcon Sandbox reports. Start here - walks through lookup, verdict reading, and targeted jq queries without fetching full reports.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "hash",
				Description: "MD5, SHA1, SHA256 or SHA512 of the sample",
				Required:    true,
			},
		},
	}, HandleTriageHash(cfg))

	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "usage_guide",
		Description: "Token-efficient usage guide for the falcon_* tools and resources.",
	}, HandleUsageGuide(cfg))
}
