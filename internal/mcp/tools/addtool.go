package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a tool after checking that the zero value of Out passes
// the output schema the SDK infers for it. Errors returned by h are passed
// through WrapSandboxError, so clients always see a coded error.
//
// Panics if the output type is unusable.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, withCodedErrors(h))
}

// CheckOutputSchema panics with a fix-it message when the zero value of T
// would fail the SDK's output validation at call time.
func CheckOutputSchema[T any](toolName string) {
	if err := checkOutput(reflect.TypeFor[T]()); err != nil {
		panic(fmt.Sprintf("AddTool %q: %v", toolName, err))
	}
}

// checkOutput catches the two ways a tool output drifts from its inferred
// schema: nil slices marshalled as null where "type": "array" is expected,
// and json.RawMessage fields, which the generator sees as []byte.
func checkOutput(rt reflect.Type) error {
	if rt == reflect.TypeFor[any]() {
		return nil
	}
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if paths := rawMessagePaths(rt, nil, map[reflect.Type]bool{}); len(paths) > 0 {
		return fmt.Errorf("output type %s contains json.RawMessage at %s\n"+
			"  Fix: use any (or []any) and fill it with types.ToAny", rt, strings.Join(paths, ", "))
	}

	schema, err := jsonschema.ForType(rt, &jsonschema.ForOptions{})
	if err != nil {
		return nil // the SDK reports inference failures itself
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return nil
	}

	data, err := json.Marshal(reflect.Zero(rt).Interface())
	if err != nil {
		return nil
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}

	if err := resolved.Validate(&v); err != nil {
		return fmt.Errorf("zero value of output type %s fails schema validation: %v\n"+
			"  JSON: %s\n"+
			"  Fix: tag nil-defaulting slices with `omitzero`", rt, err, data)
	}
	return nil
}

var rawMessageType = reflect.TypeFor[json.RawMessage]()

func rawMessagePaths(t reflect.Type, path []string, visited map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == rawMessageType {
		return []string{strings.Join(path, ".")}
	}
	if visited[t] {
		return nil
	}
	visited[t] = true
	defer delete(visited, t)

	var found []string
	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if f.IsExported() {
				found = append(found, rawMessagePaths(f.Type, append(path, f.Name), visited)...)
			}
		}
	case reflect.Slice, reflect.Array:
		found = rawMessagePaths(t.Elem(), append(path, "[]"), visited)
	case reflect.Map:
		found = rawMessagePaths(t.Elem(), append(path, "[value]"), visited)
	}
	return found
}

func withCodedErrors[In, Out any](h sdkmcp.ToolHandlerFor[In, Out]) sdkmcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, Out, error) {
		res, out, err := h(ctx, req, in)
		if err != nil {
			var coded *CodedError
			if !errors.As(err, &coded) {
				err = WrapSandboxError(err)
			}
		}
		return res, out, err
	}
}
