// Package jsoncompact trims decoded JSON values (the output of json.Unmarshal
// into any) so large sandbox reports fit in a model's context.
package jsoncompact

import "fmt"

// Default limits.
const (
	DefaultMaxArrayItems = 10
	DefaultMaxStringLen  = 500
)

// Options bounds array and string sizes. A limit <= 0 disables that limit.
type Options struct {
	MaxArrayItems int
	MaxStringLen  int
}

// DefaultOptions returns the default limits.
func DefaultOptions() Options {
	return Options{
		MaxArrayItems: DefaultMaxArrayItems,
		MaxStringLen:  DefaultMaxStringLen,
	}
}

// Stats counts what Value trimmed.
type Stats struct {
	Arrays  int
	Strings int
}

// Trimmed reports whether anything was cut.
func (s Stats) Trimmed() bool {
	return s.Arrays > 0 || s.Strings > 0
}

// Value returns a trimmed copy of v. Arrays over the limit keep their first
// MaxArrayItems elements followed by a "... (N more items)" marker; long
// strings keep a prefix followed by "... (N more chars)". v is not modified.
func Value(v any, opts Options) (any, Stats) {
	c := compactor{opts: opts}
	return c.walk(v), c.stats
}

type compactor struct {
	opts  Options
	stats Stats
}

func (c *compactor) walk(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = c.walk(item)
		}
		return out
	case []any:
		return c.array(val)
	case string:
		return c.str(val)
	default:
		return v
	}
}

func (c *compactor) array(arr []any) []any {
	keep := len(arr)
	if c.opts.MaxArrayItems > 0 && keep > c.opts.MaxArrayItems {
		keep = c.opts.MaxArrayItems
	}

	out := make([]any, 0, keep+1)
	for _, item := range arr[:keep] {
		out = append(out, c.walk(item))
	}
	if dropped := len(arr) - keep; dropped > 0 {
		c.stats.Arrays++
		out = append(out, fmt.Sprintf("... (%d more items)", dropped))
	}
	return out
}

func (c *compactor) str(s string) string {
	if c.opts.MaxStringLen <= 0 || len(s) <= c.opts.MaxStringLen {
		return s
	}
	c.stats.Strings++
	return s[:c.opts.MaxStringLen] + fmt.Sprintf("... (%d more chars)", len(s)-c.opts.MaxStringLen)
}
