package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rabota-collector/internal/config"
	"rabota-collector/internal/logging"
	"rabota-collector/internal/pipeline"
	"rabota-collector/internal/scraper"
	"rabota-collector/pkg/utils"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	runID := utils.GenerateRunID()
	logger := logging.GetGlobalLogger().WithField("run_id", runID)
	logger.Info("Starting rabota.by vacancy collector")

	// Cancel the run context on SIGINT/SIGTERM; the pipeline stops at the
	// next item boundary, leaving the snapshot consistent.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher, err := scraper.NewFetcher(cfg)
	if err != nil {
		logger.Error("Failed to initialize fetcher", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer fetcher.Cleanup()

	period := utils.MonthToken(time.Now())
	runner := pipeline.NewRunner(cfg, fetcher, period)

	logger.Info("Collection run starting", map[string]interface{}{
		"period":   period,
		"engine":   cfg.Scraper.Engine,
		"snapshot": runner.Store().Path(),
	})

	start := time.Now()
	counts, err := runner.Run(ctx)
	elapsed := utils.FormatDuration(time.Since(start))

	summary := map[string]interface{}{
		"processed":       counts.Processed,
		"already_present": counts.AlreadyPresent,
		"failed":          counts.Failed,
		"elapsed":         elapsed,
	}

	switch {
	case err == nil:
		logger.Info("Run finished", summary)
	case errors.Is(err, context.Canceled):
		// Interruption is an expected outcome; the next run resumes from
		// the persisted snapshot.
		logger.Info("Run interrupted, progress persisted", summary)
	default:
		summary["error"] = err.Error()
		logger.Error("Run aborted", summary)
		fetcher.Cleanup()
		logging.CloseLogging()
		os.Exit(1)
	}
}
