// Package schema derives a JSON Schema for sandbox reports from the Go types
// in pkg/client.
package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/usestring/falcon-mcp/pkg/client"
)

var (
	reflectOnce sync.Once
	reflected   *jsonschema.Schema
)

func newReflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		Anonymous:                 true,
		AllowAdditionalProperties: true,
	}
}

// Reflect returns the schema of a search response: an array of SearchResult
// with every record type under $defs. The returned schema is shared and must
// not be modified.
func Reflect() *jsonschema.Schema {
	reflectOnce.Do(func() {
		r := newReflector()
		s := r.Reflect([]client.SearchResult{})

		// Screenshots are not reachable from SearchResult but are part of the
		// same record family.
		shots := r.Reflect(&client.ScreenShot{})
		if s.Definitions == nil {
			s.Definitions = jsonschema.Definitions{}
		}
		for name, def := range shots.Definitions {
			if _, ok := s.Definitions[name]; !ok {
				s.Definitions[name] = def
			}
		}
		s.Title = "Falcon Sandbox search result"
		reflected = s
	})
	return reflected
}

// Document returns the reflected schema as indented JSON.
func Document() ([]byte, error) {
	b, err := json.MarshalIndent(Reflect(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	return b, nil
}

// PropertyNames returns the property names of a $defs entry in declaration
// order, or nil when the definition does not exist.
func PropertyNames(def string) []string {
	d, ok := Reflect().Definitions[def]
	if !ok || d.Properties == nil {
		return nil
	}
	names := make([]string, 0, d.Properties.Len())
	for pair := d.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}
