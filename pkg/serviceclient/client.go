package serviceclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Package serviceclient reduces one HTTP call to a single typed outcome:
// a decoded value or one of four typed errors. Networking belongs to the
// Transport, JSON-to-struct conversion to the Decoder; this package only
// classifies responses.

// Options tunes the collaborators a Client delegates to. Zero values select
// the encoding/json decoder and the {"error": "..."} payload convention.
type Options struct {
	Decoder      Decoder
	ErrorDecoder ErrorDecoder
}

// Client issues one request per call through its Transport and classifies the
// result. It holds no mutable state and is safe for concurrent use as long as
// its collaborators are.
type Client struct {
	transport    Transport
	decoder      Decoder
	errorDecoder ErrorDecoder
}

// New builds a Client around the given transport.
func New(transport Transport, opts Options) (*Client, error) {
	if transport == nil {
		return nil, fmt.Errorf("transport must not be nil")
	}
	if opts.Decoder == nil {
		opts.Decoder = jsonDecoder{}
	}
	if opts.ErrorDecoder == nil {
		opts.ErrorDecoder = DefaultErrorDecoder
	}
	return &Client{
		transport:    transport,
		decoder:      opts.Decoder,
		errorDecoder: opts.ErrorDecoder,
	}, nil
}

// NewDefault builds a Client over a resty transport with the given timeout.
func NewDefault(timeout time.Duration) *Client {
	c, _ := New(NewRestyTransport(timeout), Options{})
	return c
}

// RequestJSON executes the target and returns the response body as parsed
// JSON for any 2xx/3xx status. Other statuses with a JSON body surface as a
// *StatusError, transport faults as a *RequestFailureError, and unparseable
// bodies as a *JSONParsingError.
func (c *Client) RequestJSON(ctx context.Context, target Target) (json.RawMessage, error) {
	resp, err := c.transport.Execute(ctx, target)
	if err != nil {
		return nil, &RequestFailureError{Cause: err}
	}

	var body json.RawMessage
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, &JSONParsingError{Cause: err, Body: resp.Body}
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusBadRequest {
		return body, nil
	}
	return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
}

// RequestObject executes the target and decodes the response body into T.
// The body is checked for an API-reported error shape before the T decode,
// regardless of status code; an error-shaped body always wins.
func RequestObject[T any](ctx context.Context, c *Client, target Target) (T, error) {
	var zero T

	body, err := c.RequestJSON(ctx, target)
	if err != nil {
		return zero, err
	}
	if err := c.apiReportedError(body); err != nil {
		return zero, err
	}

	var out T
	if err := c.decoder.Decode(body, &out); err != nil {
		return zero, &InvalidMappingError{Body: body, Cause: err}
	}
	return out, nil
}

// RequestArray executes the target and decodes the response body into []T.
// An empty JSON array is a valid result, not a mapping failure.
func RequestArray[T any](ctx context.Context, c *Client, target Target) ([]T, error) {
	body, err := c.RequestJSON(ctx, target)
	if err != nil {
		return nil, err
	}
	if err := c.apiReportedError(body); err != nil {
		return nil, err
	}

	out := []T{}
	if err := c.decoder.Decode(body, &out); err != nil {
		return nil, &InvalidMappingError{Body: body, Cause: err}
	}
	return out, nil
}

// apiReportedError speculatively decodes the body as an error payload. APIs
// covered here may report domain errors inside a 200 response, so this runs
// before any target-type decode.
func (c *Client) apiReportedError(body json.RawMessage) error {
	payload, ok := c.errorDecoder(body)
	if !ok || !payload.IsError() {
		return nil
	}
	return &RequestFailureError{Cause: ErrAPIReported, Message: payload.Description()}
}
