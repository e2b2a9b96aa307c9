package clips

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/clipforge/clipd/internal/analyzer"
	"github.com/clipforge/clipd/internal/fetch"
	"github.com/clipforge/clipd/internal/history"
	"github.com/clipforge/clipd/internal/logging"
)

// ErrNoClipsIdentified signals that the analyzer's report yielded zero
// candidates.
var ErrNoClipsIdentified = errors.New("no valid clips identified")

// OrchestratorConfig wires the pipeline's collaborators together.
type OrchestratorConfig struct {
	Registry     *Registry
	Fetcher      fetch.Fetcher
	Analyzer     analyzer.Client
	Planner      *Planner
	Selector     *Selector
	History      history.Recorder
	ClipsDir     string
	PollInterval time.Duration
	AnalyzeWait  time.Duration
	Logger       *slog.Logger
}

// Orchestrator owns the job state machine. Submit registers a job and spawns
// one background goroutine that drives it through download, analysis,
// parsing, segmenting and highlight assembly; callers observe progress
// exclusively through Status.
type Orchestrator struct {
	registry     *Registry
	fetcher      fetch.Fetcher
	ai           analyzer.Client
	planner      *Planner
	selector     *Selector
	history      history.Recorder
	clipsDir     string
	pollInterval time.Duration
	analyzeWait  time.Duration
	logger       *slog.Logger
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	return &Orchestrator{
		registry:     cfg.Registry,
		fetcher:      cfg.Fetcher,
		ai:           cfg.Analyzer,
		planner:      cfg.Planner,
		selector:     cfg.Selector,
		history:      cfg.History,
		clipsDir:     cfg.ClipsDir,
		pollInterval: cfg.PollInterval,
		analyzeWait:  cfg.AnalyzeWait,
		logger:       cfg.Logger,
	}
}

// Submit registers a new job and returns its id immediately; processing runs
// in the background.
func (o *Orchestrator) Submit(url string, opts Options) string {
	id := NewJobID()
	o.registry.Create(id)
	go o.process(id, url, opts)
	return id
}

// Status returns a snapshot of a job, or false for an unknown id.
func (o *Orchestrator) Status(id string) (Job, bool) {
	return o.registry.Get(id)
}

func (o *Orchestrator) process(jobID, url string, opts Options) {
	logger := logging.WithJobID(o.logger, jobID)
	ctx := context.Background()

	var videoPath string
	defer func() {
		// The raw download is transient regardless of outcome.
		if videoPath == "" {
			return
		}
		if err := os.Remove(videoPath); err != nil && !os.IsNotExist(err) {
			logger.Error("cleanup of downloaded video failed", "path", videoPath, "error", err)
		}
	}()

	o.registry.SetMessage(jobID, "Downloading video...")
	fetched, err := o.fetcher.Fetch(ctx, url, jobID)
	if err != nil {
		o.fail(jobID, logger, err)
		return
	}
	videoPath = fetched.Path

	outDir := filepath.Join(o.clipsDir, fmt.Sprintf("%s_%s", fetched.Title, jobID))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		o.fail(jobID, logger, fmt.Errorf("create clip folder: %w", err))
		return
	}

	report, err := o.analyze(ctx, jobID, videoPath, logger)
	if err != nil {
		o.fail(jobID, logger, err)
		return
	}

	candidates := ParseReport(report, logger)
	if len(candidates) == 0 {
		o.fail(jobID, logger, ErrNoClipsIdentified)
		return
	}
	logger.Info("parsed clip candidates", "count", len(candidates))

	processed, err := o.planner.Cut(ctx, videoPath, outDir, candidates, func(current, total int) {
		o.registry.SetMessage(jobID, fmt.Sprintf("Processing clip %d/%d...", current, total))
	})
	if err != nil {
		o.fail(jobID, logger, err)
		return
	}

	o.registry.SetMessage(jobID, "Creating highlights reel...")
	highlightPath := o.selector.Assemble(ctx, outDir, processed)

	// Rewrite local paths into refs the clips endpoint can resolve.
	for i := range processed {
		processed[i].OutputRef = o.publicRef(processed[i].OutputRef)
	}
	highlightRef := ""
	if highlightPath != "" {
		highlightRef = o.publicRef(highlightPath)
	}

	o.recordHistory(ctx, logger, opts, url, fetched.Title, processed, highlightRef)

	o.registry.Complete(jobID, processed, highlightRef)
	logger.Info("video processing completed", "clips", len(processed), "highlights", highlightRef != "")
}

// analyze runs the submit/poll/report conversation with the analyzer under a
// single deadline so a stalled external service cannot hang the job.
func (o *Orchestrator) analyze(ctx context.Context, jobID, videoPath string, logger *slog.Logger) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.analyzeWait)
	defer cancel()

	o.registry.SetMessage(jobID, "Uploading video for analysis...")
	handle, err := o.ai.Submit(ctx, videoPath)
	if err != nil {
		return "", err
	}

	o.registry.SetMessage(jobID, "Waiting for analysis...")
	if err := analyzer.WaitReady(ctx, o.ai, handle, o.pollInterval); err != nil {
		return "", err
	}

	o.registry.SetMessage(jobID, "Analyzing video content...")
	return o.ai.Report(ctx, handle)
}

func (o *Orchestrator) publicRef(path string) string {
	rel, err := filepath.Rel(o.clipsDir, path)
	if err != nil {
		return path
	}
	return "/clips/" + filepath.ToSlash(rel)
}

func (o *Orchestrator) fail(jobID string, logger *slog.Logger, err error) {
	logger.Error("video processing failed", "error", err)
	o.registry.Fail(jobID, err.Error())
}

// recordHistory is best-effort: failures are logged and never change job
// state.
func (o *Orchestrator) recordHistory(ctx context.Context, logger *slog.Logger, opts Options, url, title string, processed []ProcessedClip, highlightRef string) {
	if opts.UserID == "" {
		logger.Debug("no user_id provided, skipping history save")
		return
	}

	clipsJSON, err := json.Marshal(processed)
	if err != nil {
		logger.Error("failed to encode clips for history", "error", err)
		return
	}

	err = o.history.Record(ctx, history.Entry{
		UserID:        opts.UserID,
		SourceURL:     url,
		VideoTitle:    title,
		Clips:         clipsJSON,
		HighlightsURL: highlightRef,
	})
	if err != nil {
		logger.Error("failed to save video history", "user_id", opts.UserID, "error", err)
		return
	}
	logger.Info("saved video history", "user_id", opts.UserID)
}
