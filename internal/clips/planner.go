package clips

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/clipforge/clipd/internal/media"
)

// ErrNoClipsProcessed signals that every candidate's cut failed. Distinct
// from ErrNoClipsIdentified so a caller can tell a useless report from a
// broken source video.
var ErrNoClipsProcessed = errors.New("failed to process any clips")

// ProgressFunc is invoked before each candidate is cut.
type ProgressFunc func(current, total int)

// Planner turns clip candidates into concrete cut instructions and delegates
// the actual stream-copy cuts to the media encoder.
type Planner struct {
	encoder media.Encoder
	logger  *slog.Logger
}

func NewPlanner(encoder media.Encoder, logger *slog.Logger) *Planner {
	return &Planner{encoder: encoder, logger: logger}
}

// Cut materializes each candidate under outDir, in candidate order. A failed
// cut drops that candidate and continues; only an empty result is fatal.
// Output names embed the index and time range so candidates sharing a start
// time cannot collide.
func (p *Planner) Cut(ctx context.Context, source, outDir string, candidates []ClipCandidate, progress ProgressFunc) ([]ProcessedClip, error) {
	var processed []ProcessedClip

	for i, cand := range candidates {
		if progress != nil {
			progress(i+1, len(candidates))
		}

		name := fmt.Sprintf("clip_%d_%d_%d.mp4", i+1, cand.StartSeconds, cand.EndSeconds)
		outPath := filepath.Join(outDir, name)
		duration := cand.EndSeconds - cand.StartSeconds

		if err := p.encoder.Cut(ctx, source, cand.StartSeconds, duration, outPath); err != nil {
			p.logger.Error("clip cut failed, dropping candidate",
				"clip", i+1,
				"start", cand.StartSeconds,
				"end", cand.EndSeconds,
				"error", err,
			)
			continue
		}

		processed = append(processed, ProcessedClip{ClipCandidate: cand, OutputRef: outPath})
		p.logger.Info("processed clip", "clip", i+1, "total", len(candidates), "output", outPath)
	}

	if len(processed) == 0 {
		return nil, ErrNoClipsProcessed
	}
	return processed, nil
}
