package indexer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/falcon-mcp/pkg/client"
)

func ptr[T any](v T) *T { return &v }

func sampleReports() []client.SearchResult {
	return []client.SearchResult{
		{
			JobID:                  "job-1",
			EnvironmentID:          "100",
			EnvironmentDescription: "Windows 7 32 bit",
			MD5:                    "m1",
			SHA256:                 "AAAA",
			Verdict:                "malicious",
			ThreatScore:            90,
			VXFamily:               ptr("Emotet"),
			Domains:                []string{"evil.example", "cdn.example"},
			Hosts:                  []string{"10.0.0.1"},
			ClassificationTags:     []string{"banker"},
			Processes:              []client.Process{{UID: "1", Name: "cmd.exe"}},
			ExtractedFiles:         []client.ExtractedFile{{Name: "drop.dll", SHA256: "FFFF"}},
		},
		{
			JobID:                  "job-2",
			EnvironmentID:          "120",
			EnvironmentDescription: "Windows 10 64 bit",
			SHA256:                 "AAAA",
			Verdict:                "suspicious",
			ThreatScore:            40,
			Domains:                []string{"cdn.example"},
			CompromisedHosts:       []string{"10.0.0.2"},
		},
	}
}

func TestIndex_SearchByField(t *testing.T) {
	idx := New(0)
	idx.Index("AAAA", sampleReports())
	require.Equal(t, 2, idx.Len())

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"domain shared", Query{Domain: "cdn.example"}, []string{"job-2", "job-1"}},
		{"domain case-insensitive", Query{Domain: "EVIL.example"}, []string{"job-1"}},
		{"host", Query{Host: "10.0.0.1"}, []string{"job-1"}},
		{"compromised host", Query{Host: "10.0.0.2"}, []string{"job-2"}},
		{"family", Query{Family: "emotet"}, []string{"job-1"}},
		{"tag", Query{Tag: "banker"}, []string{"job-1"}},
		{"verdict", Query{Verdict: "suspicious"}, []string{"job-2"}},
		{"environment id", Query{Environment: "120"}, []string{"job-2"}},
		{"environment description", Query{Environment: "windows 7 32 bit"}, []string{"job-1"}},
		{"process", Query{ProcessName: "CMD.EXE"}, []string{"job-1"}},
		{"extracted file", Query{FileHash: "ffff"}, []string{"job-1"}},
		{"sample hash", Query{Hash: "m1"}, []string{"job-1"}},
		{"intersection", Query{Domain: "cdn.example", Verdict: "malicious"}, []string{"job-1"}},
		{"no match", Query{Domain: "cdn.example", Verdict: "clean"}, nil},
		{"unknown value", Query{Domain: "nowhere.example"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, total := idx.Search(tt.query)
			var jobs []string
			for _, m := range matches {
				jobs = append(jobs, m.JobID)
			}
			assert.Equal(t, tt.want, jobs)
			assert.Equal(t, len(tt.want), total)
		})
	}
}

func TestIndex_MetaFields(t *testing.T) {
	idx := New(0)
	idx.Index(" AAAA ", sampleReports()[:1])

	matches, _ := idx.Search(Query{Family: "Emotet"})
	require.Len(t, matches, 1)
	m := matches[0]
	assert.Equal(t, "aaaa", m.Hash)
	assert.Equal(t, "malicious", m.Verdict)
	assert.Equal(t, int64(90), m.ThreatScore)
	assert.Equal(t, "Emotet", m.Family)
	assert.False(t, m.IndexedAt.IsZero())
}

func TestIndex_SkipsDuplicates(t *testing.T) {
	idx := New(0)
	idx.Index("aaaa", sampleReports())
	idx.Index("m1", sampleReports()[:1])
	assert.Equal(t, 2, idx.Len())

	matches, total := idx.Search(Query{Hash: "aaaa"})
	assert.Equal(t, 2, total)
	assert.Len(t, matches, 2)
}

func TestIndex_MaxDocs(t *testing.T) {
	idx := New(1)
	idx.Index("aaaa", sampleReports())
	assert.Equal(t, 1, idx.Len())

	_, total := idx.Search(Query{Domain: "cdn.example"})
	assert.Equal(t, 1, total)
}

func TestSearch_LimitAndEmpty(t *testing.T) {
	idx := New(0)
	idx.Index("aaaa", sampleReports())

	matches, total := idx.Search(Query{Domain: "cdn.example", Limit: 1})
	assert.Equal(t, 2, total)
	require.Len(t, matches, 1)
	assert.Equal(t, "job-2", matches[0].JobID)

	matches, total = idx.Search(Query{})
	assert.Nil(t, matches)
	assert.Zero(t, total)
}

func TestNilIndexer(t *testing.T) {
	var idx *Indexer
	idx.Index("aaaa", sampleReports())
	assert.Zero(t, idx.Len())
	matches, total := idx.Search(Query{Domain: "cdn.example"})
	assert.Nil(t, matches)
	assert.Zero(t, total)
}

func TestIndex_Concurrent(t *testing.T) {
	idx := New(0)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := sampleReports()[0]
			r.JobID = string(rune('a' + i))
			idx.Index("aaaa", []client.SearchResult{r})
			idx.Search(Query{Domain: "evil.example"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, idx.Len())
}
