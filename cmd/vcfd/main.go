package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	httpadapter "github.com/couchcryptid/fuel-vcf-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/fuel-vcf-service/internal/adapter/kafka"
	"github.com/couchcryptid/fuel-vcf-service/internal/config"
	"github.com/couchcryptid/fuel-vcf-service/internal/correction"
	"github.com/couchcryptid/fuel-vcf-service/internal/fuel"
	"github.com/couchcryptid/fuel-vcf-service/internal/observability"
	"github.com/couchcryptid/fuel-vcf-service/internal/pipeline"
	"github.com/couchcryptid/fuel-vcf-service/internal/units"
	"github.com/couchcryptid/fuel-vcf-service/internal/vcf"
)

// alwaysReady backs /readyz when the Kafka pipeline is disabled.
type alwaysReady struct{}

func (alwaysReady) CheckReadiness(context.Context) error { return nil }

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	catalog, err := fuel.LoadFile(cfg.FuelDataPath)
	if err != nil {
		logger.Error("failed to load fuel data", "path", cfg.FuelDataPath, "error", err)
		os.Exit(1)
	}
	logger.Info("fuel catalog loaded", "fuels", len(catalog.Names()), "path", cfg.FuelDataPath)

	calc := vcf.NewCalculator(vcf.AnnexB())
	dispatcher := correction.NewDispatcher(correction.NewConverter(calc), catalog, units.ASTM())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		ready  sharedobs.ReadinessChecker = alwaysReady{}
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	if cfg.PipelineEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(dispatcher, logger, metrics)

		p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
		ready = p

		// Start correction pipeline.
		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	} else {
		logger.Info("kafka pipeline disabled")
	}

	api := httpadapter.API{
		Calculator: calc,
		Corrector:  dispatcher,
		Units:      units.ASTM(),
		Fuels:      catalog,
	}
	srv := httpadapter.NewServer(cfg.HTTPAddr, api, ready, metrics, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
