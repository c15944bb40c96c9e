package serviceclient

import (
	"context"
	"errors"
	"testing"
	"time"
)

// blockingTransport parks until its context is cancelled.
type blockingTransport struct {
	started chan struct{}
}

func (b *blockingTransport) Execute(ctx context.Context, _ Target) (*RawResponse, error) {
	close(b.started)
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestCallCancelSuppressesOutcome(t *testing.T) {
	transport := &blockingTransport{started: make(chan struct{})}
	c := newTestClient(t, transport)

	call := IssueObject[user](context.Background(), c, Endpoint{})
	<-transport.started
	call.Cancel()

	select {
	case <-call.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("call did not settle after cancel")
	}

	_, err := call.Result()
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestCallDeliversExactlyOneOutcome(t *testing.T) {
	c := newTestClient(t, &fakeTransport{status: 200, body: `{"name":"a"}`})

	call := IssueObject[user](context.Background(), c, Endpoint{})
	got, err := call.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if got.Name != "a" {
		t.Fatalf("Name = %q", got.Name)
	}

	// Cancel after completion must not disturb the settled outcome.
	call.Cancel()
	again, err := call.Result()
	if err != nil || again.Name != "a" {
		t.Fatalf("outcome changed after late cancel: %v %v", again, err)
	}
}

func TestIssueArrayDeliversValues(t *testing.T) {
	c := newTestClient(t, &fakeTransport{status: 200, body: `[{"name":"a"}]`})

	call := IssueArray[user](context.Background(), c, Endpoint{})
	got, err := call.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if len(got) != 1 || got[0].Name != "a" {
		t.Fatalf("got = %#v", got)
	}
}

func TestIssueJSONForwardsFailure(t *testing.T) {
	c := newTestClient(t, &fakeTransport{status: 500, body: `{"reason":"oops"}`})

	call := IssueJSON(context.Background(), c, Endpoint{})
	_, err := call.Result()
	var status *StatusError
	if !errors.As(err, &status) {
		t.Fatalf("expected StatusError, got %T: %v", err, err)
	}
}

func TestCallParentContextCancellation(t *testing.T) {
	transport := &blockingTransport{started: make(chan struct{})}
	c := newTestClient(t, transport)

	ctx, cancel := context.WithCancel(context.Background())
	call := IssueObject[user](ctx, c, Endpoint{})
	<-transport.started
	cancel()

	_, err := call.Result()
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}
