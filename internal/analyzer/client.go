// Package analyzer abstracts the third-party AI video analysis service. The
// service works asynchronously: a submitted video is processed remotely and
// must be polled until it reaches a terminal state before a report can be
// requested.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Status is the analyzer's view of a submitted video.
type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

type Client interface {
	// Submit uploads a local video and returns an opaque analysis handle.
	Submit(ctx context.Context, videoPath string) (string, error)

	// Poll reports the current processing status for a handle.
	Poll(ctx context.Context, handle string) (Status, error)

	// Report returns the free-text engagement analysis once the handle is
	// ready.
	Report(ctx context.Context, handle string) (string, error)
}

// WaitReady polls on a fixed interval until the analyzer reports a terminal
// state or ctx expires. The caller bounds the wait through ctx; this function
// never blocks past it.
func WaitReady(ctx context.Context, c Client, handle string, interval time.Duration) error {
	for {
		status, err := c.Poll(ctx, handle)
		if err != nil {
			return fmt.Errorf("analysis status check failed: %w", err)
		}

		switch status {
		case StatusReady:
			return nil
		case StatusFailed:
			return fmt.Errorf("video analysis failed: analyzer reported terminal state %q", status)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("video analysis timed out: %w", ctx.Err())
		case <-time.After(interval):
		}
	}
}

// StubClient stands in when no analyzer credentials are configured. It
// returns a small canned report so the pipeline can be exercised end to end
// without the external service.
type StubClient struct {
	logger *slog.Logger
}

func NewStubClient(logger *slog.Logger) *StubClient {
	return &StubClient{logger: logger}
}

const stubReport = `0:00 - 0:30
Description: Opening moments of the video
Viral Potential: 8/10
Best Platforms: TikTok, Reels`

func (c *StubClient) Submit(ctx context.Context, videoPath string) (string, error) {
	c.logger.Info("analyzer stub: submit requested", "path", videoPath)
	return "stub-analysis", nil
}

func (c *StubClient) Poll(ctx context.Context, handle string) (Status, error) {
	return StatusReady, nil
}

func (c *StubClient) Report(ctx context.Context, handle string) (string, error) {
	c.logger.Info("analyzer stub: returning canned report", "handle", handle)
	return stubReport, nil
}
