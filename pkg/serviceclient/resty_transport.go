package serviceclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyTransport adapts resty.Client to the Transport interface.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport creates a Transport backed by a fresh resty client with
// the specified timeout.
func NewRestyTransport(timeout time.Duration) *RestyTransport {
	c := resty.New()
	c.SetTimeout(timeout)
	return &RestyTransport{client: c}
}

// NewRestyTransportWith wraps an already-configured resty client.
func NewRestyTransportWith(client *resty.Client) *RestyTransport {
	if client == nil {
		client = resty.New()
	}
	return &RestyTransport{client: client}
}

// Execute performs the network call described by the target. The response
// body is returned raw for any status code; resty's automatic unmarshalling
// stays out of the way.
func (t *RestyTransport) Execute(ctx context.Context, target Target) (*RawResponse, error) {
	if target == nil {
		return nil, fmt.Errorf("target must not be nil")
	}

	req := t.client.R().SetContext(ctx)

	if qt, ok := target.(QueryTarget); ok {
		if q := qt.QueryParams(); len(q) > 0 {
			req.SetQueryParamsFromValues(q)
		}
	}
	if ht, ok := target.(HeaderTarget); ok {
		if h := ht.Headers(); len(h) > 0 {
			req.SetHeaders(h)
		}
	}
	if bt, ok := target.(BodyTarget); ok {
		if body := bt.Body(); body != nil {
			req.SetBody(body)
			req.SetHeader("Content-Type", "application/json")
		}
	}

	resp, err := req.Execute(target.Method(), TargetURL(target))
	if err != nil {
		return nil, err
	}
	return &RawResponse{StatusCode: resp.StatusCode(), Body: resp.Body()}, nil
}
