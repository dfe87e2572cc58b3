package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors matched by APIError.Is.
var (
	ErrUnauthorized = errors.New("falcon sandbox: unauthorized")
	ErrRateLimited  = errors.New("falcon sandbox: rate limited")
)

// maxBodySnippet bounds the payload prefix kept on a DecodeError.
const maxBodySnippet = 512

// TransportError reports that a request could not be sent or its response
// could not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("falcon sandbox transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError represents a non-2xx response from the Falcon Sandbox API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("falcon sandbox API error %d: %s", e.StatusCode, e.Message)
}

// Is matches ErrUnauthorized for 401/403 and ErrRateLimited for 429.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// DecodeError reports a response body that is not JSON, does not match the
// report schema, or cannot be unmarshalled into the typed records.
type DecodeError struct {
	// Body is a prefix of the offending payload.
	Body string
	// Violations lists schema failures as "path: message".
	Violations []string
	Err        error
}

func (e *DecodeError) Error() string {
	var sb strings.Builder
	sb.WriteString("falcon sandbox decode: ")
	if e.Err != nil {
		sb.WriteString(e.Err.Error())
	} else {
		sb.WriteString("invalid response")
	}
	if len(e.Violations) > 0 {
		sb.WriteString(" (")
		sb.WriteString(strings.Join(e.Violations, "; "))
		sb.WriteString(")")
	}
	return sb.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func newDecodeError(body []byte, violations []string, err error) *DecodeError {
	snippet := string(body)
	if len(snippet) > maxBodySnippet {
		snippet = snippet[:maxBodySnippet] + "..."
	}
	return &DecodeError{Body: snippet, Violations: violations, Err: err}
}

// errorResponse is the JSON structure for API errors.
type errorResponse struct {
	Message string `json:"message"`
}

// parseError extracts an APIError from an error response body.
func parseError(status int, body []byte) error {
	var errResp errorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Message != "" {
		return &APIError{StatusCode: status, Message: errResp.Message}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}
