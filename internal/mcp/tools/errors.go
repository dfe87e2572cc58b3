package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/usestring/falcon-mcp/internal/lookup"
	"github.com/usestring/falcon-mcp/pkg/client"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeSandboxError   = "SANDBOX_ERROR"
	ErrCodeTransportError = "TRANSPORT_ERROR"
	ErrCodeDecodeError    = "DECODE_ERROR"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeTimeout        = "TIMEOUT"
)

// maxReportedViolations caps the schema violations included in a message.
const maxReportedViolations = 5

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapSandboxError converts a client or lookup error to a coded error.
func WrapSandboxError(err error) error {
	if err == nil {
		return nil
	}

	coded := classify(err)

	slog.Warn("falcon sandbox error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)

	return coded
}

func classify(err error) *CodedError {
	var (
		coded  *CodedError
		apiErr *client.APIError
		decErr *client.DecodeError
		tErr   *client.TransportError
		netErr net.Error
	)

	switch {
	case errors.As(err, &coded):
		return coded
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return &CodedError{Code: ErrCodeTimeout, Message: "request timed out", Cause: err}
	case errors.Is(err, lookup.ErrEmptyHash),
		errors.Is(err, lookup.ErrNoHashes),
		errors.Is(err, lookup.ErrTooManyHashes):
		return &CodedError{Code: ErrCodeInvalidInput, Message: err.Error()}
	case errors.As(err, &apiErr):
		code := ErrCodeSandboxError
		switch {
		case errors.Is(apiErr, client.ErrUnauthorized):
			code = ErrCodeUnauthorized
		case errors.Is(apiErr, client.ErrRateLimited):
			code = ErrCodeRateLimited
		case apiErr.StatusCode == http.StatusNotFound:
			code = ErrCodeNotFound
		}
		return &CodedError{Code: code, Message: apiErr.Message, Cause: err}
	case errors.As(err, &decErr):
		return &CodedError{Code: ErrCodeDecodeError, Message: decodeMessage(decErr), Cause: err}
	case errors.As(err, &tErr):
		return &CodedError{Code: ErrCodeTransportError, Message: tErr.Op + " failed", Cause: err}
	default:
		return &CodedError{Code: ErrCodeSandboxError, Message: err.Error(), Cause: err}
	}
}

func decodeMessage(e *client.DecodeError) string {
	if len(e.Violations) == 0 {
		return "response is not a valid search result"
	}
	v := e.Violations
	suffix := ""
	if len(v) > maxReportedViolations {
		suffix = fmt.Sprintf(" (and %d more)", len(v)-maxReportedViolations)
		v = v[:maxReportedViolations]
	}
	return "response violates report schema: " + strings.Join(v, "; ") + suffix
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) error {
	return &CodedError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
