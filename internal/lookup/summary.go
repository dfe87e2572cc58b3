package lookup

import (
	"strings"

	"github.com/usestring/falcon-mcp/pkg/client"
	"github.com/usestring/falcon-mcp/pkg/types"
)

// ReportURIPrefix is the MCP resource prefix for full reports.
const ReportURIPrefix = "falcon://report/"

// verdictRank orders service verdicts from least to most severe.
var verdictRank = map[string]int{
	"whitelisted":        1,
	"no verdict":         2,
	"no specific threat": 3,
	"clean":              3,
	"suspicious":         4,
	"malicious":          5,
}

// Severity returns the rank of a verdict; unknown verdicts rank lowest.
func Severity(verdict string) int {
	return verdictRank[strings.ToLower(strings.TrimSpace(verdict))]
}

// Verdict returns the most severe verdict across reports, breaking ties by
// threat score. It returns "" for no reports.
func Verdict(results []client.SearchResult) string {
	best := -1
	for i := range results {
		if best < 0 {
			best = i
			continue
		}
		si, sb := Severity(results[i].Verdict), Severity(results[best].Verdict)
		if si > sb || (si == sb && results[i].ThreatScore > results[best].ThreatScore) {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return results[best].Verdict
}

// Summarize builds a compact view of one report.
func Summarize(r client.SearchResult) types.ReportSummary {
	s := types.ReportSummary{
		JobID:             r.JobID,
		EnvironmentID:     r.EnvironmentID,
		Environment:       r.EnvironmentDescription,
		Verdict:           r.Verdict,
		ThreatScore:       r.ThreatScore,
		ThreatLevel:       r.ThreatLevel,
		AVDetect:          r.AVDetect,
		FileType:          r.FileType,
		Size:              r.Size,
		SHA256:            r.SHA256,
		AnalysisStartTime: r.AnalysisStartTime,
		Tags:              r.ClassificationTags,
		Domains:           len(r.Domains),
		Hosts:             len(r.Hosts),
		Processes:         r.TotalProcesses,
		Signatures:        r.TotalSignatures,
		ExtractedFiles:    len(r.ExtractedFiles),
		Signed:            len(r.Certificates) > 0,
		ResourceURI:       ReportURIPrefix + r.SHA256,
	}
	if r.VXFamily != nil {
		s.Family = *r.VXFamily
	}
	return s
}

// SummarizeAll summarizes every report, keeping order.
func SummarizeAll(results []client.SearchResult) []types.ReportSummary {
	out := make([]types.ReportSummary, len(results))
	for i, r := range results {
		out[i] = Summarize(r)
	}
	return out
}
