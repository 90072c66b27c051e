package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/fuel-vcf-service/internal/correction"
	"github.com/couchcryptid/fuel-vcf-service/internal/domain"
	"github.com/couchcryptid/fuel-vcf-service/internal/fuel"
	"github.com/couchcryptid/fuel-vcf-service/internal/observability"
	"github.com/couchcryptid/fuel-vcf-service/internal/pipeline"
)

// --- mocks ---

type mockExtractor struct {
	batches [][]domain.RawEvent
	err     error
	calls   atomic.Int64
}

func (m *mockExtractor) ExtractBatch(ctx context.Context, _ int) ([]domain.RawEvent, error) {
	i := int(m.calls.Add(1) - 1)
	if m.err != nil {
		return nil, m.err
	}
	if i >= len(m.batches) {
		// block until context cancelled to simulate waiting for messages
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.batches[i], nil
}

type mockTransformer struct {
	err error
}

func (m *mockTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	if m.err != nil {
		return domain.OutputEvent{}, m.err
	}
	return domain.OutputEvent{Key: raw.Key, Value: raw.Value}, nil
}

type mockLoader struct {
	mu       sync.Mutex
	loaded   []domain.OutputEvent
	failures int
	attempts int
}

func (m *mockLoader) LoadBatch(_ context.Context, events []domain.OutputEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if m.failures > 0 {
		m.failures--
		return errors.New("broker unavailable")
	}
	m.loaded = append(m.loaded, events...)
	return nil
}

func (m *mockLoader) snapshot() []domain.OutputEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.OutputEvent(nil), m.loaded...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runFor(t *testing.T, p *pipeline.Pipeline, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	require.NoError(t, p.Run(ctx))
}

// --- pipeline tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	raw := makeRawEvent(t, "req-1", `{"fuel":"diesel","volume_m3":1000,"temp_c":25}`)

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), metrics, 10)
	runFor(t, p, 300*time.Millisecond)

	loaded := ldr.snapshot()
	require.Len(t, loaded, 1)
	assert.Equal(t, raw.Value, loaded[0].Value)
	require.NoError(t, p.CheckReadiness(context.Background()))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RequestsConsumed), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ResultsProduced), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.PipelineRunning), 0)
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	ldr := &mockLoader{}
	p := pipeline.New(&mockExtractor{}, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	assert.Empty(t, ldr.snapshot())
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_TransformErrorIsCommittedAndSkipped(t *testing.T) {
	var committed atomic.Bool
	raw := makeRawEvent(t, "req-2", `{"fuel":"diesel","temp_c":25}`)
	raw.Commit = func(_ context.Context) error {
		committed.Store(true)
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	tfm := &mockTransformer{err: &correction.MissingInputError{Field: "volume_m3/mass_ton", Reason: "give either volume or mass"}}
	ldr := &mockLoader{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(ext, tfm, ldr, discardLogger(), metrics, 10)
	runFor(t, p, 300*time.Millisecond)

	assert.Empty(t, ldr.snapshot())
	assert.True(t, committed.Load())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.CorrectionErrors.WithLabelValues(domain.KindMissingInput)), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.ResultsProduced), 0)
}

func TestPipeline_Run_CommitsAfterLoad(t *testing.T) {
	var commits atomic.Int64
	commit := func(_ context.Context) error {
		commits.Add(1)
		return nil
	}

	first := makeRawEvent(t, "req-3", `{}`)
	first.Commit = commit
	second := makeRawEvent(t, "req-4", `{}`)
	second.Commit = commit

	ext := &mockExtractor{batches: [][]domain.RawEvent{{first, second}}}
	p := pipeline.New(ext, &mockTransformer{}, &mockLoader{}, discardLogger(), observability.NewMetricsForTesting(), 10)
	runFor(t, p, 300*time.Millisecond)

	assert.Equal(t, int64(2), commits.Load())
}

func TestPipeline_Run_LoadFailureRetriesWithoutCommit(t *testing.T) {
	var committed atomic.Bool
	raw := makeRawEvent(t, "req-5", `{}`)
	raw.Commit = func(_ context.Context) error {
		committed.Store(true)
		return nil
	}

	ext := &mockExtractor{batches: [][]domain.RawEvent{{raw}}}
	ldr := &mockLoader{failures: 100}

	p := pipeline.New(ext, &mockTransformer{}, ldr, discardLogger(), observability.NewMetricsForTesting(), 10)
	runFor(t, p, 300*time.Millisecond)

	assert.Empty(t, ldr.snapshot())
	assert.False(t, committed.Load())
}

func TestPipeline_Run_ExtractErrorBacksOff(t *testing.T) {
	ext := &mockExtractor{err: errors.New("broker unreachable")}
	p := pipeline.New(ext, &mockTransformer{}, &mockLoader{}, discardLogger(), observability.NewMetricsForTesting(), 10)

	runFor(t, p, 500*time.Millisecond)

	// 200ms then 400ms backoff fit into the window at most twice.
	assert.LessOrEqual(t, ext.calls.Load(), int64(3))
	assert.Error(t, p.CheckReadiness(context.Background()))
}

// --- transformer tests ---

func newTransformer(metrics *observability.Metrics) *pipeline.CorrectionTransformer {
	dispatcher := correction.NewDispatcher(nil, fuel.New(nil), nil)
	return pipeline.NewTransformer(dispatcher, discardLogger(), metrics)
}

func TestCorrectionTransformer_Transform(t *testing.T) {
	fixed := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { domain.SetClock(nil) })

	metrics := observability.NewMetricsForTesting()
	raw := makeRawEvent(t, "", `{"id":"req-6","fuel":"diesel","volume_m3":1000,"temp_c":25}`)

	out, err := newTransformer(metrics).Transform(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, []byte("req-6"), out.Key)
	assert.Equal(t, map[string]string{
		"mode":         "volume_input",
		"table":        "54B",
		"processed_at": "2026-03-14T09:30:00Z",
	}, out.Headers)

	var rec domain.CorrectionRecord
	require.NoError(t, json.Unmarshal(out.Value, &rec))

	type summary struct {
		ID      string
		Fuel    string
		VCF     float64
		V15M3   float64
		MassTon float64
		Barrels float64
	}
	want := summary{ID: "req-6", Fuel: "diesel", VCF: 0.991672, V15M3: 991.672, MassTon: 842.921, Barrels: 6237.429}
	got := summary{ID: rec.ID, Fuel: rec.Result.Fuel, VCF: rec.Result.VCF, V15M3: rec.Result.V15M3, MassTon: rec.Result.MassTon}
	if rec.Result.Equivalents != nil {
		got.Barrels = rec.Result.Equivalents.Barrels
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, fixed, rec.ProcessedAt)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Corrections.WithLabelValues("volume_input", "54B")), 0)
}

func TestCorrectionTransformer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		kind    string
	}{
		{"malformed", `not json`, domain.KindMalformedRequest},
		{"both quantities", `{"fuel":"diesel","volume_m3":1,"mass_ton":1,"temp_c":25}`, domain.KindMissingInput},
		{"no temperature", `{"fuel":"diesel","volume_m3":1}`, domain.KindMissingInput},
		{"unknown fuel", `{"fuel":"unobtainium","volume_m3":1,"temp_c":25}`, domain.KindUnknownFuel},
		{"density too low", `{"rho15":600,"volume_m3":1,"temp_c":25}`, domain.KindDensityOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTransformer(observability.NewMetricsForTesting()).Transform(context.Background(), makeRawEvent(t, "x", tt.payload))
			require.Error(t, err)
			assert.Equal(t, tt.kind, domain.ErrorKind(err))
		})
	}
}

// --- helpers ---

func makeRawEvent(t *testing.T, key, payload string) domain.RawEvent {
	t.Helper()
	return domain.RawEvent{
		Key:   []byte(key),
		Value: []byte(payload),
		Topic: "fuel-correction-requests",
	}
}
