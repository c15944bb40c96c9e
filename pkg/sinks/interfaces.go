package sinks

import "context"

// Sink forwards fetched API responses to a downstream system (SQS, HTTP, etc).
type Sink interface {
	ID() string
	Type() string
	Deliver(ctx context.Context, rec Record) error
}
