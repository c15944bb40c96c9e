package serviceclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrAPIReported marks a RequestFailureError whose cause is an error the
	// API itself reported in the response body rather than a transport fault.
	ErrAPIReported = errors.New("api reported error")

	// ErrCancelled is reported by a Call whose handle was cancelled before the
	// request completed.
	ErrCancelled = errors.New("request cancelled")
)

// RequestFailureError means the call produced no usable response: either the
// transport could not complete it, or the API reported a domain-level error
// in the body (then Cause is ErrAPIReported and Message carries the API's
// description).
type RequestFailureError struct {
	Cause   error
	Message string
}

func (e *RequestFailureError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed: %s", e.Message)
	}
	return fmt.Sprintf("request failed: %v", e.Cause)
}

func (e *RequestFailureError) Unwrap() error { return e.Cause }

// StatusError means the server answered with a non-success status and a JSON
// body that does not match the configured error-payload shape. The parsed
// body is attached for the caller to inspect.
type StatusError struct {
	StatusCode int
	Body       json.RawMessage
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request error: status %d", e.StatusCode)
}

// JSONParsingError means the response body is not syntactically valid JSON.
type JSONParsingError struct {
	Cause error
	Body  []byte
}

func (e *JSONParsingError) Error() string {
	return fmt.Sprintf("json parsing: %v", e.Cause)
}

func (e *JSONParsingError) Unwrap() error { return e.Cause }

// InvalidMappingError means the body parsed as JSON but could not be decoded
// into the requested target type.
type InvalidMappingError struct {
	Body  json.RawMessage
	Cause error
}

func (e *InvalidMappingError) Error() string {
	return fmt.Sprintf("invalid mapping: %v", e.Cause)
}

func (e *InvalidMappingError) Unwrap() error { return e.Cause }
