package serviceclient

import "encoding/json"

// Decoder converts a JSON document into a typed value. The default is backed
// by encoding/json; callers can inject stricter or faster implementations.
type Decoder interface {
	Decode(data []byte, v any) error
}

type jsonDecoder struct{}

func (jsonDecoder) Decode(data []byte, v any) error { return json.Unmarshal(data, v) }

// ErrorPayload is the shape an API uses to report an application-level error,
// possibly on a 2xx response.
type ErrorPayload interface {
	// IsError reports whether the decoded payload actually encodes an error;
	// a body that merely decoded without the error field present is not one.
	IsError() bool
	Description() string
}

// ErrorDecoder attempts to read an ErrorPayload out of a parsed JSON body.
// The second return is false when the body does not fit the payload shape at
// all (e.g. it is an array).
type ErrorDecoder func(body json.RawMessage) (ErrorPayload, bool)

// APIError is the default error-payload convention: {"error": "..."}.
type APIError struct {
	Message *string `json:"error"`
}

func (e APIError) IsError() bool { return e.Message != nil && *e.Message != "" }

func (e APIError) Description() string {
	if e.Message == nil {
		return ""
	}
	return *e.Message
}

// DefaultErrorDecoder decodes the APIError convention.
func DefaultErrorDecoder(body json.RawMessage) (ErrorPayload, bool) {
	var payload APIError
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false
	}
	return payload, true
}
