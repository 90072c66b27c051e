package pipeline_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/fuel-vcf-service/internal/domain"
	"github.com/couchcryptid/fuel-vcf-service/internal/observability"
)

// fixtureTime matches the fixed clock cmd/vcfgrid uses for ProcessedAt.
var fixtureTime = time.Date(2026, time.January, 1, 6, 0, 0, 0, time.UTC)

func TestCorrectionTransformer_WithMockJSONData(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(fixtureTime))
	t.Cleanup(func() { domain.SetClock(nil) })

	requests := readMockRequests(t)
	expected := readMockResults(t)
	require.Len(t, expected, len(requests))

	transformer := newTransformer(observability.NewMetricsForTesting())

	for i, payload := range requests {
		want := expected[i]
		t.Run(want.ID, func(t *testing.T) {
			raw := domain.RawEvent{Value: payload, Topic: "fuel-correction-requests", Offset: int64(i)}

			out, err := transformer.Transform(context.Background(), raw)
			require.NoError(t, err)
			assert.Equal(t, []byte(want.ID), out.Key)
			assert.Equal(t, string(want.Result.Mode), out.Headers["mode"])
			assert.Equal(t, string(want.Result.Table), out.Headers["table"])

			var got domain.CorrectionRecord
			require.NoError(t, json.Unmarshal(out.Value, &got))

			if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Fatalf("record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func readMockRequests(t *testing.T) []json.RawMessage {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("..", "..", "data", "mock", "correction_requests.json"))
	require.NoError(t, err)

	var rows []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &rows))
	return rows
}

func readMockResults(t *testing.T) []domain.CorrectionRecord {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("..", "..", "data", "mock", "correction_results.json"))
	require.NoError(t, err)

	var rows []domain.CorrectionRecord
	require.NoError(t, json.Unmarshal(data, &rows))
	return rows
}
