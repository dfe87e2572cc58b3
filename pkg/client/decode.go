package client

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed searchresult.schema.json
var searchResultSchema []byte

const schemaURL = "searchresult.schema.json"

// printer renders validation messages in English.
var printer = message.NewPrinter(language.English)

// SchemaDocument returns the JSON Schema that response bodies are validated
// against. The returned slice is a copy.
func SchemaDocument() []byte {
	return bytes.Clone(searchResultSchema)
}

// lazySchema compiles one location of the embedded document on first use.
type lazySchema struct {
	loc  string
	once sync.Once
	sch  *jsonschema.Schema
	err  error
}

func (l *lazySchema) get() (*jsonschema.Schema, error) {
	l.once.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(searchResultSchema))
		if err != nil {
			l.err = fmt.Errorf("parsing embedded schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, doc); err != nil {
			l.err = fmt.Errorf("adding schema resource: %w", err)
			return
		}

		l.sch, l.err = compiler.Compile(l.loc)
		if l.err != nil {
			l.err = fmt.Errorf("compiling schema %s: %w", l.loc, l.err)
		}
	})
	return l.sch, l.err
}

var (
	searchResultsSchema = &lazySchema{loc: schemaURL}
	screenShotsSchema   = &lazySchema{loc: schemaURL + "#/$defs/ScreenShotList"}
)

// DecodeSearchResults decodes a search/hash response body. The body must be a
// JSON array of reports with every required key present and well typed;
// anything else is reported as a *DecodeError.
func DecodeSearchResults(body []byte) ([]SearchResult, error) {
	sch, err := searchResultsSchema.get()
	if err != nil {
		return nil, err
	}
	var results []SearchResult
	if err := decodeValidated(body, sch, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// DecodeScreenShots decodes a JSON array of screenshots.
func DecodeScreenShots(body []byte) ([]ScreenShot, error) {
	sch, err := screenShotsSchema.get()
	if err != nil {
		return nil, err
	}
	var shots []ScreenShot
	if err := decodeValidated(body, sch, &shots); err != nil {
		return nil, err
	}
	return shots, nil
}

func decodeValidated(body []byte, sch *jsonschema.Schema, out any) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return newDecodeError(body, nil, fmt.Errorf("invalid JSON: %w", err))
	}

	if err := sch.Validate(inst); err != nil {
		return newDecodeError(body, validationMessages(err), errors.New("response does not match report schema"))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return newDecodeError(body, nil, fmt.Errorf("unmarshalling reports: %w", err))
	}
	return nil
}

// validationMessages flattens a validation error into sorted "path: message" lines.
func validationMessages(err error) []string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []string{err.Error()}
	}

	seen := make(map[string]bool)
	var out []string
	collectViolations(verr, seen, &out)
	if len(out) == 0 {
		out = append(out, err.Error())
	}
	sort.Strings(out)
	return out
}

// collectViolations walks the cause tree and keeps leaf errors only.
func collectViolations(err *jsonschema.ValidationError, seen map[string]bool, out *[]string) {
	if err.ErrorKind != nil && len(err.Causes) == 0 {
		msg := err.ErrorKind.LocalizedString(printer)
		if !strings.HasPrefix(msg, "$ref ") && !strings.HasPrefix(msg, "doesn't validate with") {
			line := "/" + strings.Join(err.InstanceLocation, "/") + ": " + msg
			if !seen[line] {
				seen[line] = true
				*out = append(*out, line)
			}
		}
	}
	for _, cause := range err.Causes {
		collectViolations(cause, seen, out)
	}
}
