package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

// withReportKey decodes a single-report array, applies edit to the report and re-encodes it.
func withReportKey(t *testing.T, doc []byte, edit func(m map[string]any)) []byte {
	t.Helper()
	var arr []map[string]any
	require.NoError(t, json.Unmarshal(doc, &arr))
	require.Len(t, arr, 1)
	edit(arr[0])
	out, err := json.Marshal(arr)
	require.NoError(t, err)
	return out
}

func TestDecodeSearchResults_Minimal(t *testing.T) {
	results, err := DecodeSearchResults(readFixture(t, "minimal_report.json"))
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, "j1", r.JobID)
	assert.Equal(t, "peexe", r.FileType)
	assert.Equal(t, []string{"pe"}, r.TypeShort)
	assert.Equal(t, int64(10), r.Size)
	assert.Equal(t, "clean", r.Verdict)

	assert.Nil(t, r.TargetURL)
	assert.Nil(t, r.ImpHash)
	assert.Nil(t, r.VXFamily)
	assert.Nil(t, r.URLAnalysis)
	assert.Nil(t, r.Certificates)
	assert.Nil(t, r.CompromisedHosts)
	assert.Nil(t, r.ExtractedFiles)
	assert.Nil(t, r.Processes)

	assert.NotNil(t, r.Domains)
	assert.Empty(t, r.Domains)
}

func TestDecodeSearchResults_Full(t *testing.T) {
	results, err := DecodeSearchResults(readFixture(t, "full_report.json"))
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	require.NotNil(t, r.VXFamily)
	assert.Equal(t, "Trojan.Generic", *r.VXFamily)
	require.NotNil(t, r.URLAnalysis)
	assert.False(t, *r.URLAnalysis)
	require.Len(t, r.Certificates, 1)
	assert.Equal(t, "0a1b2c3d4e5f", r.Certificates[0].SerialNumber)
	require.Len(t, r.ExtractedFiles, 1)
	assert.Equal(t, []string{"pedll", "executable"}, r.ExtractedFiles[0].TypeTags)
	require.NotNil(t, r.ExtractedFiles[0].AVLabel)
	assert.Equal(t, int64(68), r.ExtractedFiles[0].AVTotal)

	require.Len(t, r.Processes, 2)
	root := &r.Processes[0]
	assert.Nil(t, root.ParentUID)
	_, ok := r.Parent(root)
	assert.False(t, ok)

	child := &r.Processes[1]
	assert.Nil(t, child.AVMatched)
	parent, ok := r.Parent(child)
	require.True(t, ok)
	assert.Equal(t, "payload.exe", parent.Name)
}

func TestDecodeSearchResults_RoundTrip(t *testing.T) {
	for _, fixture := range []string{"minimal_report.json", "full_report.json"} {
		t.Run(fixture, func(t *testing.T) {
			doc := readFixture(t, fixture)
			results, err := DecodeSearchResults(doc)
			require.NoError(t, err)

			out, err := json.Marshal(results)
			require.NoError(t, err)
			assert.JSONEq(t, string(doc), string(out))
		})
	}
}

func TestDecodeSearchResults_TypeRemap(t *testing.T) {
	results, err := DecodeSearchResults(readFixture(t, "minimal_report.json"))
	require.NoError(t, err)

	out, err := json.Marshal(results[0])
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, "peexe", m["type"])
	assert.NotContains(t, m, "filetype")
	assert.NotContains(t, m, "FileType")
}

func TestDecodeSearchResults_PresentButEmpty(t *testing.T) {
	doc := withReportKey(t, readFixture(t, "minimal_report.json"), func(m map[string]any) {
		m["certificates"] = []any{}
		m["processes"] = []any{}
	})

	results, err := DecodeSearchResults(doc)
	require.NoError(t, err)
	r := results[0]
	require.NotNil(t, r.Certificates)
	assert.Empty(t, r.Certificates)
	require.NotNil(t, r.Processes)
	assert.Nil(t, r.ExtractedFiles)

	out, err := json.Marshal(results)
	require.NoError(t, err)
	assert.JSONEq(t, string(doc), string(out))
}

func TestDecodeSearchResults_OptionalNull(t *testing.T) {
	doc := withReportKey(t, readFixture(t, "minimal_report.json"), func(m map[string]any) {
		m["vx_family"] = nil
		m["url_analysis"] = nil
		m["processes"] = nil
	})

	results, err := DecodeSearchResults(doc)
	require.NoError(t, err)
	assert.Nil(t, results[0].VXFamily)
	assert.Nil(t, results[0].URLAnalysis)
	assert.Nil(t, results[0].Processes)
}

func TestDecodeSearchResults_UnknownKeysIgnored(t *testing.T) {
	doc := withReportKey(t, readFixture(t, "minimal_report.json"), func(m map[string]any) {
		m["submit_name"] = "sample.exe"
	})

	results, err := DecodeSearchResults(doc)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestDecodeSearchResults_MissingRequiredField(t *testing.T) {
	doc := readFixture(t, "minimal_report.json")
	var arr []map[string]any
	require.NoError(t, json.Unmarshal(doc, &arr))

	for key := range arr[0] {
		t.Run(key, func(t *testing.T) {
			edited := withReportKey(t, doc, func(m map[string]any) { delete(m, key) })

			results, err := DecodeSearchResults(edited)
			require.Error(t, err)
			assert.Nil(t, results)

			var decErr *DecodeError
			require.ErrorAs(t, err, &decErr)
			assert.NotEmpty(t, decErr.Violations)
			assert.Contains(t, strings.Join(decErr.Violations, "\n"), key)
		})
	}
}

func TestDecodeSearchResults_RequiredNull(t *testing.T) {
	doc := withReportKey(t, readFixture(t, "minimal_report.json"), func(m map[string]any) {
		m["md5"] = nil
	})

	_, err := DecodeSearchResults(doc)
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
}

func TestDecodeSearchResults_WrongType(t *testing.T) {
	doc := withReportKey(t, readFixture(t, "minimal_report.json"), func(m map[string]any) {
		m["size"] = "10"
	})

	_, err := DecodeSearchResults(doc)
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Contains(t, strings.Join(decErr.Violations, "\n"), "/0/size")
}

func TestDecodeSearchResults_NestedRequired(t *testing.T) {
	doc := withReportKey(t, readFixture(t, "full_report.json"), func(m map[string]any) {
		procs := m["processes"].([]any)
		delete(procs[0].(map[string]any), "uid")
	})

	_, err := DecodeSearchResults(doc)
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Contains(t, strings.Join(decErr.Violations, "\n"), "/0/processes/0")
}

func TestDecodeSearchResults_AnyThreatLevel(t *testing.T) {
	doc := withReportKey(t, readFixture(t, "minimal_report.json"), func(m map[string]any) {
		m["threat_level"] = -42
		m["threat_score"] = 9000
	})

	results, err := DecodeSearchResults(doc)
	require.NoError(t, err)
	assert.Equal(t, int64(-42), results[0].ThreatLevel)
	assert.Equal(t, int64(9000), results[0].ThreatScore)
}

func TestDecodeSearchResults_NotJSON(t *testing.T) {
	for _, body := range []string{`not json`, `"not json"`, `{"job_id":"j1"}`, ``} {
		t.Run(body, func(t *testing.T) {
			results, err := DecodeSearchResults([]byte(body))
			assert.Nil(t, results)

			var decErr *DecodeError
			require.ErrorAs(t, err, &decErr)
			assert.Equal(t, body, decErr.Body)
		})
	}
}

func TestDecodeSearchResults_EmptyArray(t *testing.T) {
	results, err := DecodeSearchResults([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDecodeError_TruncatesBody(t *testing.T) {
	body := []byte(strings.Repeat("x", 2*maxBodySnippet))
	_, err := DecodeSearchResults(body)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	assert.Len(t, decErr.Body, maxBodySnippet+len("..."))
}

func TestDecodeScreenShots(t *testing.T) {
	shots, err := DecodeScreenShots([]byte(`[{"name":"screen_1.png","image":"iVBORw0KGgo=","date":"2018-08-10 06:13:01"}]`))
	require.NoError(t, err)
	require.Len(t, shots, 1)
	assert.Equal(t, "screen_1.png", shots[0].Name)

	_, err = DecodeScreenShots([]byte(`[{"name":"screen_1.png","image":"iVBORw0KGgo="}]`))
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
}

func TestSchemaDocument_IsCopy(t *testing.T) {
	doc := SchemaDocument()
	require.True(t, json.Valid(doc))
	doc[0] = 'x'
	assert.True(t, json.Valid(SchemaDocument()))
}
