// Package prompts contains MCP prompt implementations for Falcon Sandbox
// triage workflows.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	MaxLookupHashes int
	CacheEnabled    bool
	IndexEnabled    bool
}
