// Package media abstracts the external video encoder. All operations request
// stream-copy semantics: encoded media is copied without transcoding, which
// is fast but assumes compatible codec parameters across joined segments.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

type Encoder interface {
	// Cut copies the [startSeconds, startSeconds+durationSeconds) segment of
	// input into output, overwriting any existing file.
	Cut(ctx context.Context, input string, startSeconds, durationSeconds int, output string) error

	// Concat joins the inputs in order into output, overwriting any existing
	// file.
	Concat(ctx context.Context, inputs []string, output string) error
}

// StubEncoder stands in when ffmpeg is not installed. It writes empty output
// files so the rest of the pipeline stays observable.
type StubEncoder struct {
	logger *slog.Logger
}

func NewStubEncoder(logger *slog.Logger) *StubEncoder {
	return &StubEncoder{logger: logger}
}

func (e *StubEncoder) Cut(ctx context.Context, input string, startSeconds, durationSeconds int, output string) error {
	e.logger.Info("encoder stub: cut requested",
		"input", input, "start", startSeconds, "duration", durationSeconds, "output", output)
	return writePlaceholder(output)
}

func (e *StubEncoder) Concat(ctx context.Context, inputs []string, output string) error {
	e.logger.Info("encoder stub: concat requested", "inputs", len(inputs), "output", output)
	return writePlaceholder(output)
}

func writePlaceholder(output string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return os.WriteFile(output, nil, 0644)
}
