package serviceclient

import "context"

// RawResponse is the fully-buffered outcome of one executed target.
type RawResponse struct {
	StatusCode int
	Body       []byte
}

// Transport abstracts HTTP execution so callers can inject mocks or different
// HTTP stacks. Execute returns an error only for transport-level failures;
// non-2xx statuses are returned as a RawResponse.
type Transport interface {
	Execute(ctx context.Context, target Target) (*RawResponse, error)
}
