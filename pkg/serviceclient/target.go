package serviceclient

import (
	"net/url"
	"strings"
)

// Target describes one API endpoint call. Implementations are owned by the
// caller and are never mutated by the client.
type Target interface {
	Method() string
	BaseURL() string
	Path() string
}

// QueryTarget is implemented by targets that carry query parameters.
type QueryTarget interface {
	QueryParams() url.Values
}

// HeaderTarget is implemented by targets that carry extra request headers.
type HeaderTarget interface {
	Headers() map[string]string
}

// BodyTarget is implemented by targets that carry a request body. The body is
// serialized by the transport (JSON for the default resty transport).
type BodyTarget interface {
	Body() any
}

// Endpoint is a plain-value Target covering the common case.
type Endpoint struct {
	HTTPMethod string
	Base       string
	Route      string
	Query      url.Values
	Header     map[string]string
	Payload    any
}

func (e Endpoint) Method() string {
	if e.HTTPMethod == "" {
		return "GET"
	}
	return strings.ToUpper(e.HTTPMethod)
}

func (e Endpoint) BaseURL() string { return e.Base }
func (e Endpoint) Path() string    { return e.Route }

func (e Endpoint) QueryParams() url.Values    { return e.Query }
func (e Endpoint) Headers() map[string]string { return e.Header }
func (e Endpoint) Body() any                  { return e.Payload }

// TargetURL joins a target's base URL and path.
func TargetURL(t Target) string {
	base := strings.TrimRight(t.BaseURL(), "/")
	path := t.Path()
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
