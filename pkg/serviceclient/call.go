package serviceclient

import (
	"context"
	"encoding/json"
)

// Call is the handle for a request issued asynchronously. Exactly one outcome
// is produced per call; Result blocks until it is available.
type Call[T any] struct {
	cancel context.CancelFunc
	done   chan struct{}
	value  T
	err    error
}

// IssueObject runs RequestObject in its own goroutine and returns a handle.
func IssueObject[T any](ctx context.Context, c *Client, target Target) *Call[T] {
	return issue(ctx, func(ctx context.Context) (T, error) {
		return RequestObject[T](ctx, c, target)
	})
}

// IssueArray runs RequestArray in its own goroutine and returns a handle.
func IssueArray[T any](ctx context.Context, c *Client, target Target) *Call[[]T] {
	return issue(ctx, func(ctx context.Context) ([]T, error) {
		return RequestArray[T](ctx, c, target)
	})
}

// IssueJSON runs RequestJSON in its own goroutine and returns a handle.
func IssueJSON(ctx context.Context, c *Client, target Target) *Call[json.RawMessage] {
	return issue(ctx, func(ctx context.Context) (json.RawMessage, error) {
		return c.RequestJSON(ctx, target)
	})
}

func issue[T any](ctx context.Context, fn func(context.Context) (T, error)) *Call[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)

	call := &Call[T]{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer cancel()
		value, err := fn(ctx)
		if ctx.Err() != nil {
			// The handle (or a parent context) was cancelled before the call
			// settled: the transport outcome is suppressed.
			var zero T
			value, err = zero, ErrCancelled
		}
		call.value, call.err = value, err
		close(call.done)
	}()
	return call
}

// Cancel stops a pending call; Result will report ErrCancelled. Cancelling
// after completion is a no-op. In-flight network I/O is interrupted only as
// far as context propagation reaches into the transport.
func (c *Call[T]) Cancel() {
	select {
	case <-c.done:
	default:
		c.cancel()
	}
}

// Done is closed once the outcome is available.
func (c *Call[T]) Done() <-chan struct{} { return c.done }

// Result blocks until the call settles and returns its single outcome.
func (c *Call[T]) Result() (T, error) {
	<-c.done
	return c.value, c.err
}
