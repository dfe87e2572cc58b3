// Package types provides shared types for falcon-mcp.
// These types are used across multiple packages and are designed for external consumption.
package types

import "encoding/json"

// ToAny round-trips a typed value through JSON to produce an untyped any.
// Use this when a tool output field must be any (instead of json.RawMessage)
// to satisfy the MCP SDK's schema validation.
func ToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReportSummary is a compact view of one sandbox report.
type ReportSummary struct {
	JobID             string   `json:"job_id"`
	EnvironmentID     string   `json:"environment_id"`
	Environment       string   `json:"environment"`
	Verdict           string   `json:"verdict"`
	ThreatScore       int64    `json:"threat_score"`
	ThreatLevel       int64    `json:"threat_level"`
	AVDetect          int64    `json:"av_detect"`
	Family            string   `json:"family,omitempty"`
	FileType          string   `json:"file_type"`
	Size              int64    `json:"size"`
	SHA256            string   `json:"sha256"`
	AnalysisStartTime string   `json:"analysis_start_time"`
	Tags              []string `json:"tags,omitzero"`
	Domains           int      `json:"domains"`
	Hosts             int      `json:"hosts"`
	Processes         int64    `json:"processes"`
	Signatures        int64    `json:"signatures"`
	ExtractedFiles    int      `json:"extracted_files"`
	Signed            bool     `json:"signed"`
	ResourceURI       string   `json:"resource_uri"`
}

// HashLookup is the outcome of searching one hash.
type HashLookup struct {
	Hash     string          `json:"hash"`
	HashKind string          `json:"hash_kind"`
	Found    bool            `json:"found"`
	Cached   bool            `json:"cached"`
	Verdict  string          `json:"verdict,omitempty"`
	Count    int             `json:"count"`
	Reports  []ReportSummary `json:"reports_summary,omitzero"`
	// Full holds the raw reports when the caller asked for them.
	Full []any `json:"reports,omitzero"`
	// Trimmed is set when Full was compacted.
	Trimmed bool   `json:"trimmed,omitempty"`
	Error   string `json:"error,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// LookupSummary aggregates a multi-hash lookup.
type LookupSummary struct {
	Requested int `json:"requested"`
	Unique    int `json:"unique"`
	Found     int `json:"found"`
	NotFound  int `json:"not_found"`
	Failed    int `json:"failed"`
	Malicious int `json:"malicious"`
}

// QueryResponse is the result of a jq query over the reports of one hash.
type QueryResponse struct {
	Hash       string   `json:"hash"`
	Expression string   `json:"expression"`
	Reports    int      `json:"reports"`
	Values     []any    `json:"values,omitzero"`
	Errors     []string `json:"errors,omitzero"`
	Truncated  bool     `json:"truncated"`
	Hint       string   `json:"hint,omitempty"`
}

// IndicatorMatch is one report found in the local indicator index.
type IndicatorMatch struct {
	Hash        string `json:"hash"`
	JobID       string `json:"job_id"`
	SHA256      string `json:"sha256"`
	Verdict     string `json:"verdict"`
	ThreatScore int64  `json:"threat_score"`
	Family      string `json:"family,omitempty"`
	Environment string `json:"environment"`
	IndexedAt   string `json:"indexed_at"`
	ResourceURI string `json:"resource_uri"`
}

// IndicatorSearchResponse is the result of an indicator index search.
type IndicatorSearchResponse struct {
	Matches []IndicatorMatch `json:"matches,omitzero"`
	Total   int              `json:"total"`
	Indexed int              `json:"indexed"`
	Hint    string           `json:"hint,omitempty"`
}
