package domain

import (
	"context"
	"time"

	"github.com/couchcryptid/fuel-vcf-service/internal/correction"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// CorrectionRequest is the JSON payload of a source message. ID is optional;
// a deterministic one is derived when the producer leaves it out.
type CorrectionRequest struct {
	ID string `json:"id,omitempty"`
	correction.Request
}

// CorrectionRecord is the result published for one request.
type CorrectionRecord struct {
	ID          string             `json:"id"`
	Request     correction.Request `json:"request"`
	Result      correction.Result  `json:"result"`
	ProcessedAt time.Time          `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
