package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const maxStderrBytes = 2 * 1024 // tail of stderr kept for diagnostics

// FFmpegEncoder runs the ffmpeg binary as a subprocess. Calls are synchronous
// and issued one at a time per job; each call is bounded by its own timeout.
type FFmpegEncoder struct {
	path    string
	timeout time.Duration
	logger  *slog.Logger
}

// NewFFmpegEncoder resolves the ffmpeg binary from PATH.
func NewFFmpegEncoder(timeout time.Duration, logger *slog.Logger) (*FFmpegEncoder, error) {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	return &FFmpegEncoder{path: path, timeout: timeout, logger: logger}, nil
}

func (e *FFmpegEncoder) Cut(ctx context.Context, input string, startSeconds, durationSeconds int, output string) error {
	if durationSeconds <= 0 {
		return fmt.Errorf("invalid clip duration %d: end must be after start", durationSeconds)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	args := []string{
		"-ss", strconv.Itoa(startSeconds),
		"-i", input,
		"-t", strconv.Itoa(durationSeconds),
		"-c", "copy",
		output,
	}
	if err := e.run(ctx, args); err != nil {
		return fmt.Errorf("clip extraction failed: %w", err)
	}
	return nil
}

func (e *FFmpegEncoder) Concat(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no input files provided")
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	listPath, err := writeConcatList(inputs)
	if err != nil {
		return fmt.Errorf("create concat list: %w", err)
	}
	defer os.Remove(listPath)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		output,
	}
	if err := e.run(ctx, args); err != nil {
		return fmt.Errorf("concat failed: %w", err)
	}
	return nil
}

func (e *FFmpegEncoder) run(ctx context.Context, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	full := append([]string{"-y", "-hide_banner", "-loglevel", "error"}, args...)
	e.logger.Debug("executing ffmpeg", "args", full)

	cmd := exec.CommandContext(ctx, e.path, full...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("ffmpeg timed out after %s", e.timeout)
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, stderrTail(stderr.String()))
	}

	e.logger.Debug("ffmpeg completed", "duration", time.Since(start))
	return nil
}

// writeConcatList produces the scratch file listing inputs in ffmpeg's concat
// demuxer format. The caller removes it after the encoder run.
func writeConcatList(inputs []string) (string, error) {
	f, err := os.CreateTemp("", "clipd-concat-*.txt")
	if err != nil {
		return "", err
	}
	defer f.Close()

	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			os.Remove(f.Name())
			return "", err
		}
		if _, err := fmt.Fprintf(f, "file '%s'\n", filepath.ToSlash(abs)); err != nil {
			os.Remove(f.Name())
			return "", err
		}
	}
	return f.Name(), nil
}

func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxStderrBytes {
		return s
	}
	return s[len(s)-maxStderrBytes:]
}
