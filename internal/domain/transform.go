package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/fuel-vcf-service/internal/correction"
)

// ErrMalformedRequest is returned for payloads that are not a JSON correction request.
var ErrMalformedRequest = errors.New("malformed correction request")

// requestNamespace scopes the name-based request IDs to this service.
var requestNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:fuel-vcf:correction-request"))

// ParseCorrectionRequest decodes a RawEvent's value into a CorrectionRequest
// and fills in a deterministic ID when the producer did not set one.
// Shape validation is left to the dispatcher.
func ParseCorrectionRequest(raw RawEvent) (CorrectionRequest, error) {
	var req CorrectionRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return CorrectionRequest{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}

	req.ID = strings.TrimSpace(req.ID)
	req.Fuel = strings.TrimSpace(req.Fuel)
	if req.ID == "" {
		req.ID = requestID(raw)
	}
	return req, nil
}

// requestID derives a UUID from the message position and payload, so a
// replayed message keeps its ID.
func requestID(raw RawEvent) string {
	name := fmt.Sprintf("%s|%d|%d|", raw.Topic, raw.Partition, raw.Offset)
	return uuid.NewSHA1(requestNamespace, append([]byte(name), raw.Value...)).String()
}

// NewCorrectionRecord pairs a request with its result and stamps the processing time.
func NewCorrectionRecord(req CorrectionRequest, res correction.Result) CorrectionRecord {
	return CorrectionRecord{
		ID:          req.ID,
		Request:     req.Request,
		Result:      res,
		ProcessedAt: clock.Now().UTC(),
	}
}

// SerializeRecord marshals a record into a sink message keyed by its ID.
func SerializeRecord(rec CorrectionRecord) (OutputEvent, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize correction record: %w", err)
	}
	return OutputEvent{
		Key:   []byte(rec.ID),
		Value: data,
		Headers: map[string]string{
			"mode":         string(rec.Result.Mode),
			"table":        string(rec.Result.Table),
			"processed_at": rec.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
