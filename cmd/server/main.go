package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/norangai/Minimal-Pair-Test/internal/api"
	"github.com/norangai/Minimal-Pair-Test/internal/assets"
	"github.com/norangai/Minimal-Pair-Test/internal/catalog"
	"github.com/norangai/Minimal-Pair-Test/internal/config"
	"github.com/norangai/Minimal-Pair-Test/internal/feedback"
	"github.com/norangai/Minimal-Pair-Test/internal/logger"
	"github.com/norangai/Minimal-Pair-Test/internal/progress"
	"github.com/norangai/Minimal-Pair-Test/internal/scheduler"
	"github.com/norangai/Minimal-Pair-Test/internal/voicevox"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Minimal Pair Trainer Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("catalog_path=%s", cfg.CatalogPath)
	log.Debug("audio_dir=%s", cfg.AudioDir)
	log.Debug("progress_path=%s", cfg.ProgressPath)
	log.Debug("feedback_path=%s", cfg.FeedbackPath)
	log.Debug("tts_base_url=%s", cfg.TTSBaseURL)
	log.Debug("tts_voices=%v", cfg.TTSVoices)
	log.Debug("tts_timeout_seconds=%d", cfg.TTSTimeoutSecs)
	log.Debug("synth_worker_count=%d", cfg.SynthWorkers)
	log.Debug("daily_target=%d", cfg.DailyTarget)
	log.Debug("log_level=%s", cfg.LogLevel)

	// Load word catalog
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Error("failed to load catalog: %v", err)
		os.Exit(1)
	}
	log.Info("catalog loaded: %d pairs, %d categories", cat.Size(), len(cat.Categories()))

	// Load saved progress. A missing file is a fresh start; a corrupt one is
	// fatal so we never silently overwrite a learner's history.
	store := progress.NewFileStore(cfg.ProgressPath)
	state := scheduler.NewState()
	snap, err := store.Load()
	switch {
	case errors.Is(err, progress.ErrNotFound):
		log.Info("no saved progress found, starting fresh")
	case err != nil:
		log.Error("failed to load progress: %v", err)
		os.Exit(1)
	default:
		state = scheduler.StateFromSnapshot(snap)
		log.Info("progress loaded: %d items tracked", len(state.Items))
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	sched := scheduler.New(state, store, rng)

	// Asset pipeline
	ttsClient := voicevox.New(cfg.TTSBaseURL, time.Duration(cfg.TTSTimeoutSecs)*time.Second)
	audioStore := assets.NewStore(cfg.AudioDir)
	pipeline := assets.NewPipeline(ttsClient, audioStore, cfg.TTSVoices, cfg.SynthWorkers, rng)

	srv := &api.Server{
		Catalog:     cat,
		Scheduler:   sched,
		Pipeline:    pipeline,
		AudioStore:  audioStore,
		Feedback:    feedback.NewLog(cfg.FeedbackPath),
		DailyTarget: cfg.DailyTarget,
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Fill in missing audio in the background so a cold start does not block
	// the first question. Failures only leave artifacts missing; a later
	// reconcile picks them up.
	go func() {
		report, err := pipeline.Reconcile(ctx, cat)
		if err != nil {
			log.Error("startup reconcile failed: %v", err)
			return
		}
		if report.Total == 0 {
			log.Debug("audio artifacts already complete")
			return
		}
		log.Info("startup reconcile: %d/%d artifacts generated", report.Succeeded, report.Total)
		for _, f := range report.Failed {
			log.Warn("artifact %d_%s failed: %s", f.PairID, f.Slot, f.Reason)
		}
	}()

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop any in-flight synthesis
	log.Debug("cancelling background work")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Info("===========================================")
	log.Info("Minimal Pair Trainer Stopped")
	log.Info("===========================================")
}
