// Package fetch abstracts source-video retrieval.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
)

// Result describes a downloaded source video.
type Result struct {
	// Path is the local file the video was downloaded to.
	Path string
	// Title is the video title, sanitized for filesystem use.
	Title string
}

type Fetcher interface {
	// Fetch downloads the video at url into a jobID-namespaced local file.
	Fetch(ctx context.Context, url, jobID string) (*Result, error)
}

// StubFetcher stands in when yt-dlp is not installed. Every fetch fails, so
// submitted jobs fail fast with a clear error instead of hanging.
type StubFetcher struct {
	logger *slog.Logger
}

func NewStubFetcher(logger *slog.Logger) *StubFetcher {
	return &StubFetcher{logger: logger}
}

func (f *StubFetcher) Fetch(ctx context.Context, url, jobID string) (*Result, error) {
	f.logger.Warn("fetch stub: download requested but no downloader is available", "url", url)
	return nil, fmt.Errorf("video fetcher unavailable: yt-dlp is not installed")
}
