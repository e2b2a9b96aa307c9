package clips

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/clipforge/clipd/internal/media"
)

const highlightsFilename = "highlights.mp4"

// Selector picks the clips worth a highlight reel and delegates their
// concatenation to the media encoder.
type Selector struct {
	encoder   media.Encoder
	threshold int
	logger    *slog.Logger
}

func NewSelector(encoder media.Encoder, threshold int, logger *slog.Logger) *Selector {
	return &Selector{encoder: encoder, threshold: threshold, logger: logger}
}

// selectClips returns the clips meeting the viral-potential threshold,
// ordered by start time. The sort is stable: clips sharing a start keep
// their original relative order.
func (s *Selector) selectClips(processed []ProcessedClip) []ProcessedClip {
	var picked []ProcessedClip
	for _, c := range processed {
		if c.ViralPotential >= s.threshold {
			picked = append(picked, c)
		}
	}
	sort.SliceStable(picked, func(i, j int) bool {
		return picked[i].StartSeconds < picked[j].StartSeconds
	})
	return picked
}

// Assemble concatenates the qualifying clips into a single reel under outDir
// and returns its path. An empty selection or a failed concat yields an empty
// path; neither is an error, the job completes with its per-clip outputs.
func (s *Selector) Assemble(ctx context.Context, outDir string, processed []ProcessedClip) string {
	picked := s.selectClips(processed)
	if len(picked) == 0 {
		s.logger.Info("no clips meet the viral potential threshold", "threshold", s.threshold)
		return ""
	}

	inputs := make([]string, len(picked))
	for i, c := range picked {
		inputs[i] = c.OutputRef
	}

	outPath := filepath.Join(outDir, highlightsFilename)
	s.logger.Info("concatenating highlight reel", "clips", len(picked), "output", outPath)

	if err := s.encoder.Concat(ctx, inputs, outPath); err != nil {
		s.logger.Error("highlight reel concat failed, continuing without highlights", "error", err)
		return ""
	}
	return outPath
}
