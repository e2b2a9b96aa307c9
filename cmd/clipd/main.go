package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clipforge/clipd/internal/analyzer"
	"github.com/clipforge/clipd/internal/api"
	"github.com/clipforge/clipd/internal/clips"
	"github.com/clipforge/clipd/internal/config"
	"github.com/clipforge/clipd/internal/db"
	"github.com/clipforge/clipd/internal/fetch"
	"github.com/clipforge/clipd/internal/history"
	"github.com/clipforge/clipd/internal/logging"
	"github.com/clipforge/clipd/internal/media"
	"github.com/clipforge/clipd/internal/playback"
)

var Version = "0.1.0"

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	for _, dir := range []string{cfg.DataDir(), cfg.DownloadsDir(), cfg.ClipsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting clipd", "version", Version, "data_dir", cfg.DataDir())

	var recorder history.Recorder
	if cfg.HistoryEnabled() {
		database, err := db.New(cfg.DBPath(), logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.Close()
		recorder = history.NewSQLiteRecorder(database.Conn())
	} else {
		logger.Info("history persistence disabled")
		recorder = history.NewStubRecorder(logger)
	}

	var fetcher fetch.Fetcher
	if f, err := fetch.NewYtDlpFetcher(cfg.DownloadsDir(), cfg.FetchTimeout(), logger); err != nil {
		logger.Warn("yt-dlp unavailable, video downloads will fail", "error", err)
		fetcher = fetch.NewStubFetcher(logger)
	} else {
		fetcher = f
	}

	var encoder media.Encoder
	if e, err := media.NewFFmpegEncoder(cfg.EncodeTimeout(), logger); err != nil {
		logger.Warn("ffmpeg unavailable, using stub encoder", "error", err)
		encoder = media.NewStubEncoder(logger)
	} else {
		encoder = e
	}

	var ai analyzer.Client
	if cfg.AnalyzerBaseURL() != "" && cfg.AnalyzerAPIKey() != "" {
		ai = analyzer.NewHTTPClient(cfg.AnalyzerBaseURL(), cfg.AnalyzerAPIKey(), logger)
		logger.Info("analyzer configured",
			"base_url", cfg.AnalyzerBaseURL(),
			"api_key", logging.SanitizeToken(cfg.AnalyzerAPIKey()),
		)
	} else {
		logger.Warn("no analyzer credentials configured, using stub analyzer")
		ai = analyzer.NewStubClient(logger)
	}

	registry := clips.NewRegistry()
	orchestrator := clips.NewOrchestrator(clips.OrchestratorConfig{
		Registry:     registry,
		Fetcher:      fetcher,
		Analyzer:     ai,
		Planner:      clips.NewPlanner(encoder, logger),
		Selector:     clips.NewSelector(encoder, cfg.HighlightThreshold(), logger),
		History:      recorder,
		ClipsDir:     cfg.ClipsDir(),
		PollInterval: cfg.AnalyzerPollInterval(),
		AnalyzeWait:  cfg.AnalyzerTimeout(),
		Logger:       logger,
	})

	apiServer := api.NewServer(api.ServerConfig{
		Port:      cfg.Port(),
		Processor: orchestrator,
		Artifacts: playback.NewStore(cfg.ClipsDir(), logger),
		History:   recorder,
		Logger:    logger,
		StartTime: startTime,
		Version:   Version,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
