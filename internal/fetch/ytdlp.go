package fetch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// YtDlpFetcher downloads videos with the local yt-dlp binary.
type YtDlpFetcher struct {
	binaryPath string
	outDir     string
	timeout    time.Duration
	logger     *slog.Logger
}

// NewYtDlpFetcher resolves yt-dlp from PATH and ensures the download
// directory exists.
func NewYtDlpFetcher(outDir string, timeout time.Duration, logger *slog.Logger) (*YtDlpFetcher, error) {
	path, err := exec.LookPath("yt-dlp")
	if err != nil {
		return nil, fmt.Errorf("yt-dlp not found in PATH: %w", err)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create downloads dir: %w", err)
	}
	return &YtDlpFetcher{binaryPath: path, outDir: outDir, timeout: timeout, logger: logger}, nil
}

// Fetch downloads the best available format. The output name is prefixed with
// the job id so concurrent jobs cannot collide on identically titled videos.
func (f *YtDlpFetcher) Fetch(ctx context.Context, url, jobID string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	template := filepath.Join(f.outDir, jobID+"_%(title)s.%(ext)s")

	// --print lines come out in flag order: final filepath, then title.
	cmd := exec.CommandContext(ctx, f.binaryPath,
		"-f", "b",
		"--no-warnings",
		"--no-playlist",
		"--no-simulate",
		"-o", template,
		"--print", "after_move:filepath",
		"--print", "title",
		url,
	)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	f.logger.Info("downloading video", "url", url)
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("video download timed out after %s", f.timeout)
		}
		return nil, fmt.Errorf("yt-dlp failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	path, title, err := parsePrintOutput(out.String())
	if err != nil {
		return nil, err
	}

	f.logger.Info("video downloaded", "path", path, "title", title)
	return &Result{Path: path, Title: SanitizeTitle(title)}, nil
}

func parsePrintOutput(output string) (path, title string, err error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) < 2 {
		return "", "", fmt.Errorf("unexpected yt-dlp output: %q", output)
	}
	path = strings.TrimSpace(lines[0])
	title = strings.TrimSpace(lines[1])
	if path == "" {
		return "", "", fmt.Errorf("yt-dlp returned empty filepath")
	}
	if title == "" {
		title = "unknown_video"
	}
	return path, title, nil
}
