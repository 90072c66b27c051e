package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/fuel-vcf-service/internal/correction"
	"github.com/couchcryptid/fuel-vcf-service/internal/domain"
	"github.com/couchcryptid/fuel-vcf-service/internal/observability"
)

// Corrector runs one auto-correction. *correction.Dispatcher implements it.
type Corrector interface {
	AutoCorrect(req correction.Request) (correction.Result, error)
}

// CorrectionTransformer implements Transformer by decoding a correction
// request, running it through the dispatcher, and serializing the record.
type CorrectionTransformer struct {
	corrector Corrector
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewTransformer creates a CorrectionTransformer.
func NewTransformer(c Corrector, logger *slog.Logger, metrics *observability.Metrics) *CorrectionTransformer {
	return &CorrectionTransformer{
		corrector: c,
		logger:    logger,
		metrics:   metrics,
	}
}

func (t *CorrectionTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, err := domain.ParseCorrectionRequest(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	res, err := t.corrector.AutoCorrect(req.Request)
	if err != nil {
		t.logger.Debug("correction rejected", "id", req.ID, "fuel", req.Fuel, "kind", domain.ErrorKind(err))
		return domain.OutputEvent{}, err
	}
	t.metrics.Corrections.WithLabelValues(string(res.Mode), string(res.Table)).Inc()

	return domain.SerializeRecord(domain.NewCorrectionRecord(req, res))
}
