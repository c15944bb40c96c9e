package sinks

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSQSSinkDeliverSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	sink := &sqsSink{
		id:       "queue-1",
		typ:      TypeSQS,
		queueURL: "https://sqs.example/queue",
		client:   client,
		log:      noopLogger{},
	}

	rec := NewRecord("ep-1", "Endpoint One", json.RawMessage(`{"ok":true}`))
	if err := sink.Deliver(context.Background(), rec); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://sqs.example/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["endpoint_id"]
	if !ok || attr.StringValue == nil || aws.ToString(attr.StringValue) != "ep-1" {
		t.Fatalf("endpoint_id attribute missing or wrong: %#v", attr)
	}
	if client.input.MessageBody == nil || !strings.Contains(aws.ToString(client.input.MessageBody), `"endpoint_id":"ep-1"`) {
		t.Fatalf("MessageBody missing endpoint_id: %s", aws.ToString(client.input.MessageBody))
	}
}

func TestSQSSinkDeliverError(t *testing.T) {
	client := &fakeSQSClient{err: errors.New("throttled")}
	sink := &sqsSink{
		id:       "queue-1",
		typ:      TypeSQS,
		queueURL: "https://sqs.example/queue",
		client:   client,
		log:      noopLogger{},
	}

	rec := NewRecord("ep-1", "", json.RawMessage(`{}`))
	err := sink.Deliver(context.Background(), rec)
	if err == nil || !strings.Contains(err.Error(), "throttled") {
		t.Fatalf("expected wrapped send error, got %v", err)
	}
}
