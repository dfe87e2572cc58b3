// Package query runs jq expressions over sandbox reports.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/usestring/falcon-mcp/pkg/client"
	"github.com/usestring/falcon-mcp/pkg/types"
)

// Engine executes jq queries against search results.
type Engine struct{}

// NewEngine creates a new query engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Options controls how a query is run.
type Options struct {
	// Whole runs the expression once against the array of all reports instead
	// of once per report.
	Whole       bool
	Deduplicate bool
	MaxResults  int // <= 0 means unlimited
}

// Result contains the results of a jq query.
type Result struct {
	Values      []any          `json:"values"`                 // Extracted values
	Errors      []string       `json:"errors,omitempty"`       // Per-report errors
	RawCount    int            `json:"raw_count"`              // Count before deduplication
	LabelCounts map[string]int `json:"label_counts,omitempty"` // Value count per job ID
	Truncated   bool           `json:"truncated"`              // MaxResults was reached
}

// Query executes a jq expression against reports. Per-report runtime errors
// are collected in Result.Errors; only an invalid expression fails the call.
func (e *Engine) Query(results []client.SearchResult, expression string, opts Options) (*Result, error) {
	code, err := compile(expression)
	if err != nil {
		return nil, err
	}

	inputs, labels, err := toInputs(results, opts.Whole)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Values:      make([]any, 0),
		LabelCounts: make(map[string]int),
	}

	seen := make(map[string]bool)
	seenErrors := make(map[string]bool)

	for i, input := range inputs {
		if result.Truncated {
			break
		}
		label := labels[i]

		iter := code.Run(input)
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}

			if err, isErr := v.(error); isErr {
				var haltErr *gojq.HaltError
				if errors.As(err, &haltErr) && haltErr.Value() == nil {
					break
				}
				errMsg := formatJQError(label, err)
				if !seenErrors[errMsg] {
					result.Errors = append(result.Errors, errMsg)
					seenErrors[errMsg] = true
				}
				continue
			}

			// Skip nil values
			if v == nil {
				continue
			}

			result.RawCount++
			result.LabelCounts[label]++

			if opts.Deduplicate {
				key := valueKey(v)
				if seen[key] {
					continue
				}
				seen[key] = true
			}

			result.Values = append(result.Values, v)

			if opts.MaxResults > 0 && len(result.Values) >= opts.MaxResults {
				result.Truncated = true
				break
			}
		}
	}

	return result, nil
}

func compile(expression string) (*gojq.Code, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return code, nil
}

// toInputs converts reports to the untyped values gojq operates on.
func toInputs(results []client.SearchResult, whole bool) ([]any, []string, error) {
	if whole {
		v, err := types.ToAny(results)
		if err != nil {
			return nil, nil, fmt.Errorf("converting reports: %w", err)
		}
		if v == nil {
			v = []any{}
		}
		return []any{v}, []string{"reports"}, nil
	}

	inputs := make([]any, len(results))
	labels := make([]string, len(results))
	for i, r := range results {
		v, err := types.ToAny(r)
		if err != nil {
			return nil, nil, fmt.Errorf("converting report %d: %w", i, err)
		}
		inputs[i] = v
		labels[i] = r.JobID
		if labels[i] == "" {
			labels[i] = fmt.Sprintf("report[%d]", i)
		}
	}
	return inputs, labels, nil
}

// formatJQError creates a helpful error message for jq execution errors.
//
// Runtime jq errors (like "cannot iterate over: null") are plain errors
// without typed wrappers in gojq, so hints are chosen by string matching.
func formatJQError(label string, err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		return fmt.Sprintf("%s: query halted with: %v", label, haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the field may be absent from this report)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]' or set whole=false)"
	}

	return fmt.Sprintf("%s: %s%s", label, errStr, hint)
}

// valueKey creates a string key for deduplication.
func valueKey(v any) string {
	switch val := v.(type) {
	case string:
		return "s:" + val
	case float64:
		return fmt.Sprintf("n:%v", val)
	case bool:
		return fmt.Sprintf("b:%v", val)
	case nil:
		return "null"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("?:%v", val)
		}
		return "j:" + string(b)
	}
}

// ValidateExpression checks if a jq expression is valid without executing it.
func (e *Engine) ValidateExpression(expression string) error {
	_, err := compile(expression)
	return err
}
