package jsoncompact

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestValue_TrimsArrays(t *testing.T) {
	v := decode(t, `{"domains":["a","b","c","d","e"],"hosts":["h"]}`)

	out, stats := Value(v, Options{MaxArrayItems: 2})
	obj := out.(map[string]any)
	assert.Equal(t, []any{"a", "b", "... (3 more items)"}, obj["domains"])
	assert.Equal(t, []any{"h"}, obj["hosts"])
	assert.Equal(t, 1, stats.Arrays)
	assert.True(t, stats.Trimmed())
}

func TestValue_TrimsStrings(t *testing.T) {
	v := decode(t, `{"command_line":"`+strings.Repeat("x", 20)+`","name":"short"}`)

	out, stats := Value(v, Options{MaxStringLen: 8})
	obj := out.(map[string]any)
	assert.Equal(t, "xxxxxxxx... (12 more chars)", obj["command_line"])
	assert.Equal(t, "short", obj["name"])
	assert.Equal(t, 1, stats.Strings)
}

func TestValue_Nested(t *testing.T) {
	v := decode(t, `[{"processes":[{"uid":"1"},{"uid":"2"},{"uid":"3"}]}]`)

	out, stats := Value(v, Options{MaxArrayItems: 1})
	reports := out.([]any)
	procs := reports[0].(map[string]any)["processes"].([]any)
	assert.Len(t, procs, 2)
	assert.Equal(t, map[string]any{"uid": "1"}, procs[0])
	assert.Equal(t, "... (2 more items)", procs[1])
	assert.Equal(t, 1, stats.Arrays)
}

func TestValue_NoLimits(t *testing.T) {
	v := decode(t, `{"a":[1,2,3],"s":"long string","n":null,"b":true}`)

	out, stats := Value(v, Options{})
	assert.Equal(t, v, out)
	assert.False(t, stats.Trimmed())
}

func TestValue_DoesNotModifyInput(t *testing.T) {
	v := decode(t, `{"a":[1,2,3]}`)
	_, _ = Value(v, Options{MaxArrayItems: 1})
	assert.Len(t, v.(map[string]any)["a"], 3)
}

func TestValue_EmptyArrayStaysArray(t *testing.T) {
	out, _ := Value(decode(t, `{"a":[]}`), DefaultOptions())
	assert.Equal(t, []any{}, out.(map[string]any)["a"])
}
