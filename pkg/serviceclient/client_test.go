package serviceclient

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

// fakeTransport returns a canned response or error without touching the network.
type fakeTransport struct {
	status int
	body   string
	err    error
}

func (f *fakeTransport) Execute(_ context.Context, _ Target) (*RawResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &RawResponse{StatusCode: f.status, Body: []byte(f.body)}, nil
}

func newTestClient(t *testing.T, transport Transport) *Client {
	t.Helper()
	c, err := New(transport, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

type user struct {
	Name string `json:"name"`
}

func TestRequestObjectDecodesValue(t *testing.T) {
	c := newTestClient(t, &fakeTransport{status: 200, body: `{"name":"a"}`})

	got, err := RequestObject[user](context.Background(), c, Endpoint{})
	if err != nil {
		t.Fatalf("RequestObject: %v", err)
	}
	if got.Name != "a" {
		t.Fatalf("Name = %q, want %q", got.Name, "a")
	}
}

func TestRequestObjectReportsAPIErrorOn200(t *testing.T) {
	c := newTestClient(t, &fakeTransport{status: 200, body: `{"error":"bad token"}`})

	_, err := RequestObject[user](context.Background(), c, Endpoint{})
	var failure *RequestFailureError
	if !errors.As(err, &failure) {
		t.Fatalf("expected RequestFailureError, got %T: %v", err, err)
	}
	if !errors.Is(err, ErrAPIReported) {
		t.Fatalf("expected ErrAPIReported cause, got %v", failure.Cause)
	}
	if failure.Message != "bad token" {
		t.Fatalf("Message = %q, want %q", failure.Message, "bad token")
	}
}

// A body that satisfies both the error shape and T must still fail: the error
// check runs first.
func TestRequestObjectErrorShapeWinsOverTargetShape(t *testing.T) {
	type loose struct {
		Error string `json:"error"`
	}
	c := newTestClient(t, &fakeTransport{status: 200, body: `{"error":"denied"}`})

	_, err := RequestObject[loose](context.Background(), c, Endpoint{})
	var failure *RequestFailureError
	if !errors.As(err, &failure) {
		t.Fatalf("expected RequestFailureError, got %T: %v", err, err)
	}
	if failure.Message != "denied" {
		t.Fatalf("Message = %q", failure.Message)
	}
}

func TestRequestObjectForwardsTransportFailure(t *testing.T) {
	cause := errors.New("connection refused")
	c := newTestClient(t, &fakeTransport{err: cause})

	_, err := RequestObject[user](context.Background(), c, Endpoint{})
	var failure *RequestFailureError
	if !errors.As(err, &failure) {
		t.Fatalf("expected RequestFailureError, got %T: %v", err, err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause not preserved: %v", err)
	}
}

func TestRequestObjectInvalidMapping(t *testing.T) {
	c := newTestClient(t, &fakeTransport{status: 200, body: `["not","an","object"]`})

	_, err := RequestObject[user](context.Background(), c, Endpoint{})
	var mapping *InvalidMappingError
	if !errors.As(err, &mapping) {
		t.Fatalf("expected InvalidMappingError, got %T: %v", err, err)
	}
	if string(mapping.Body) != `["not","an","object"]` {
		t.Fatalf("Body = %s", mapping.Body)
	}
}

func TestRequestJSONStatusErrorKeepsBody(t *testing.T) {
	c := newTestClient(t, &fakeTransport{status: 500, body: `{"reason":"oops"}`})

	_, err := c.RequestJSON(context.Background(), Endpoint{})
	var status *StatusError
	if !errors.As(err, &status) {
		t.Fatalf("expected StatusError, got %T: %v", err, err)
	}
	if status.StatusCode != 500 {
		t.Fatalf("StatusCode = %d", status.StatusCode)
	}
	if string(status.Body) != `{"reason":"oops"}` {
		t.Fatalf("Body = %s", status.Body)
	}
}

func TestRequestObjectStatusErrorShortCircuitsPayloadCheck(t *testing.T) {
	// On a 4xx the body is forwarded through RequestJSON as a StatusError;
	// the error-payload check only applies to successfully delivered bodies.
	c := newTestClient(t, &fakeTransport{status: 403, body: `{"error":"forbidden"}`})

	_, err := RequestObject[user](context.Background(), c, Endpoint{})
	var status *StatusError
	if !errors.As(err, &status) {
		t.Fatalf("expected StatusError, got %T: %v", err, err)
	}
}

func TestRequestJSONParsingErrorRegardlessOfStatus(t *testing.T) {
	for _, code := range []int{200, 500} {
		c := newTestClient(t, &fakeTransport{status: code, body: `not-json`})

		_, err := c.RequestJSON(context.Background(), Endpoint{})
		var parse *JSONParsingError
		if !errors.As(err, &parse) {
			t.Fatalf("status %d: expected JSONParsingError, got %T: %v", code, err, err)
		}
		if string(parse.Body) != "not-json" {
			t.Fatalf("status %d: Body = %s", code, parse.Body)
		}
	}
}

func TestRequestJSONSuccessPassesRawBody(t *testing.T) {
	c := newTestClient(t, &fakeTransport{status: 201, body: `{"id":7}`})

	body, err := c.RequestJSON(context.Background(), Endpoint{})
	if err != nil {
		t.Fatalf("RequestJSON: %v", err)
	}
	if string(body) != `{"id":7}` {
		t.Fatalf("body = %s", body)
	}
}

func TestRequestArrayDecodesValues(t *testing.T) {
	c := newTestClient(t, &fakeTransport{status: 200, body: `[{"name":"a"},{"name":"b"}]`})

	got, err := RequestArray[user](context.Background(), c, Endpoint{})
	if err != nil {
		t.Fatalf("RequestArray: %v", err)
	}
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "b" {
		t.Fatalf("got = %#v", got)
	}
}

func TestRequestArrayEmptyIsSuccess(t *testing.T) {
	c := newTestClient(t, &fakeTransport{status: 200, body: `[]`})

	got, err := RequestArray[user](context.Background(), c, Endpoint{})
	if err != nil {
		t.Fatalf("RequestArray: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
}

func TestRequestArrayInvalidMapping(t *testing.T) {
	c := newTestClient(t, &fakeTransport{status: 200, body: `{"name":"a"}`})

	_, err := RequestArray[user](context.Background(), c, Endpoint{})
	var mapping *InvalidMappingError
	if !errors.As(err, &mapping) {
		t.Fatalf("expected InvalidMappingError, got %T: %v", err, err)
	}
}

func TestRequestArrayReportsAPIError(t *testing.T) {
	c := newTestClient(t, &fakeTransport{status: 200, body: `{"error":"quota exceeded"}`})

	_, err := RequestArray[user](context.Background(), c, Endpoint{})
	if !errors.Is(err, ErrAPIReported) {
		t.Fatalf("expected ErrAPIReported, got %v", err)
	}
}

func TestCustomErrorDecoder(t *testing.T) {
	transport := &fakeTransport{status: 200, body: `{"fault":{"msg":"broken"}}`}
	c, err := New(transport, Options{ErrorDecoder: faultDecoder})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = RequestObject[user](context.Background(), c, Endpoint{})
	var failure *RequestFailureError
	if !errors.As(err, &failure) {
		t.Fatalf("expected RequestFailureError, got %T: %v", err, err)
	}
	if failure.Message != "broken" {
		t.Fatalf("Message = %q", failure.Message)
	}
}

type faultPayload struct {
	Fault *struct {
		Msg string `json:"msg"`
	} `json:"fault"`
}

func (p faultPayload) IsError() bool { return p.Fault != nil }

func (p faultPayload) Description() string {
	if p.Fault == nil {
		return ""
	}
	return p.Fault.Msg
}

func faultDecoder(body json.RawMessage) (ErrorPayload, bool) {
	var p faultPayload
	if err := (jsonDecoder{}).Decode(body, &p); err != nil {
		return nil, false
	}
	return p, true
}
