package sinks

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Record is the payload delivered downstream for one fetched response.
type Record struct {
	EndpointID   string          `json:"endpoint_id"`
	EndpointName string          `json:"endpoint_name"`
	Body         json.RawMessage `json:"body"`
	Digest       string          `json:"digest"`
	FetchedAt    time.Time       `json:"fetched_at"`
}

// NewRecord constructs a Record for the given endpoint + response body.
func NewRecord(endpointID, endpointName string, body json.RawMessage) Record {
	return Record{
		EndpointID:   endpointID,
		EndpointName: endpointName,
		Body:         body,
		Digest:       BodyDigest(body),
		FetchedAt:    time.Now().UTC(),
	}
}

// BodyDigest returns the hex SHA-256 of a response body.
func BodyDigest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
