package schema

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/falcon-mcp/pkg/client"
)

func TestReflect_Definitions(t *testing.T) {
	s := Reflect()
	require.NotNil(t, s)
	assert.Equal(t, "array", s.Type)

	for _, name := range []string{"SearchResult", "FileCertificate", "ExtractedFile", "Process", "ScreenShot"} {
		assert.Contains(t, s.Definitions, name)
	}
	assert.Same(t, s, Reflect())
}

func TestPropertyNames_WireNames(t *testing.T) {
	props := PropertyNames("SearchResult")
	assert.Contains(t, props, "type")
	assert.Contains(t, props, "vx_family")
	assert.NotContains(t, props, "FileType")

	assert.Contains(t, PropertyNames("ExtractedFile"), "av_label")
	assert.Nil(t, PropertyNames("Missing"))
}

// The embedded validation schema and the Go types must describe the same keys.
func TestReflect_MatchesEmbeddedSchema(t *testing.T) {
	var doc struct {
		Defs map[string]struct {
			Properties map[string]json.RawMessage `json:"properties"`
		} `json:"$defs"`
	}
	require.NoError(t, json.Unmarshal(client.SchemaDocument(), &doc))

	for _, name := range []string{"SearchResult", "FileCertificate", "ExtractedFile", "Process", "ScreenShot"} {
		t.Run(name, func(t *testing.T) {
			def, ok := doc.Defs[name]
			require.True(t, ok)

			want := make([]string, 0, len(def.Properties))
			for k := range def.Properties {
				want = append(want, k)
			}
			sort.Strings(want)

			got := PropertyNames(name)
			sort.Strings(got)
			assert.Equal(t, want, got)
		})
	}
}

func TestDocument(t *testing.T) {
	b, err := Document()
	require.NoError(t, err)

	var v map[string]any
	require.NoError(t, json.Unmarshal(b, &v))
	assert.Equal(t, "array", v["type"])
	assert.Contains(t, v, "$defs")
	assert.NotContains(t, v, "$id")
}
