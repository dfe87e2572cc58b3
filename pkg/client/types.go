package client

// FileCertificate is an Authenticode certificate attached to an analyzed sample.
type FileCertificate struct {
	Owner        string `json:"owner"`
	Issuer       string `json:"issuer"`
	SerialNumber string `json:"serial_number"`
	MD5          string `json:"md5"`
	SHA1         string `json:"sha1"`
	ValidFrom    string `json:"valid_from"`
	ValidUntil   string `json:"valid_until"`
}

// ExtractedFile is a file dropped or extracted during dynamic analysis.
type ExtractedFile struct {
	Name                string   `json:"name"`
	FilePath            string   `json:"file_path"`
	FileSize            int64    `json:"file_size"`
	SHA256              string   `json:"sha256"`
	TypeTags            []string `json:"type_tags,omitzero"`
	ThreatLevel         int64    `json:"threat_level"`
	ThreatLevelReadable string   `json:"threat_level_readable"`
	AVLabel             *string  `json:"av_label,omitempty"`
	AVMatched           int64    `json:"av_matched"`
	AVTotal             int64    `json:"av_total"`
}

// Process is a process observed during the sandbox run. Processes form a tree
// through ParentUID; resolve parents by looking up the UID in the same report.
type Process struct {
	UID            string  `json:"uid"`
	ParentUID      *string `json:"parent_uid,omitempty"`
	Name           string  `json:"name"`
	NormalizedPath string  `json:"normalized_path"`
	CommandLine    string  `json:"command_line"`
	SHA256         string  `json:"sha256"`
	AVLabel        *string `json:"av_label,omitempty"`
	AVMatched      *int64  `json:"av_matched,omitempty"`
	AVTotal        *int64  `json:"av_total,omitempty"`
	PID            *string `json:"pid,omitempty"`
	// Icon is base64 encoded image data.
	Icon *string `json:"icon,omitempty"`
}

// SearchResult is one sandbox report (a job run in one environment).
//
// Pointer fields are nil when the service omitted the key. Optional slices are
// nil when omitted and non-nil (possibly empty) when present.
type SearchResult struct {
	JobID                  string   `json:"job_id"`
	EnvironmentID          string   `json:"environment_id"`
	EnvironmentDescription string   `json:"environment_description"`
	Size                   int64    `json:"size"`
	FileType               string   `json:"type"`
	TypeShort              []string `json:"type_short"`
	TargetURL              *string  `json:"target_url,omitempty"`

	MD5     string  `json:"md5"`
	SHA1    string  `json:"sha1"`
	SHA256  string  `json:"sha256"`
	SHA512  string  `json:"sha512"`
	SSDeep  string  `json:"ssdeep"`
	ImpHash *string `json:"imphash,omitempty"`

	AVDetect          int64   `json:"av_detect"`
	VXFamily          *string `json:"vx_family,omitempty"`
	URLAnalysis       *bool   `json:"url_analysis,omitempty"`
	AnalysisStartTime string  `json:"analysis_start_time"`
	ThreatScore       int64   `json:"threat_score"`
	Interesting       bool    `json:"interesting"`
	ThreatLevel       int64   `json:"threat_level"`
	Verdict           string  `json:"verdict"`

	Certificates       []FileCertificate `json:"certificates,omitzero"`
	Domains            []string          `json:"domains"`
	ClassificationTags []string          `json:"classification_tags"`
	CompromisedHosts   []string          `json:"compromised_hosts,omitzero"`
	Hosts              []string          `json:"hosts"`

	TotalNetworkConnections int64 `json:"total_network_connections"`
	TotalProcesses          int64 `json:"total_processes"`
	TotalSignatures         int64 `json:"total_signatures"`

	ExtractedFiles []ExtractedFile `json:"extracted_files,omitzero"`
	Processes      []Process       `json:"processes,omitzero"`
}

// ScreenShot is a screenshot captured during analysis.
type ScreenShot struct {
	Name string `json:"name"`
	// Image is base64 encoded image data.
	Image string `json:"image"`
	Date  string `json:"date"`
}

// ProcessByUID returns the process with the given UID, if present.
func (r *SearchResult) ProcessByUID(uid string) (*Process, bool) {
	for i := range r.Processes {
		if r.Processes[i].UID == uid {
			return &r.Processes[i], true
		}
	}
	return nil, false
}

// Parent returns the parent of p within the report, if it has one.
func (r *SearchResult) Parent(p *Process) (*Process, bool) {
	if p == nil || p.ParentUID == nil {
		return nil, false
	}
	return r.ProcessByUID(*p.ParentUID)
}
