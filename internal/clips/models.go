// Package clips implements the clip-extraction pipeline: parsing analyzer
// reports into clip candidates, cutting them into media artifacts, assembling
// a highlight reel, and tracking each submitted video through an asynchronous
// job lifecycle.
package clips

import (
	"time"

	"github.com/google/uuid"
)

const (
	JobStateProcessing = "processing"
	JobStateCompleted  = "completed"
	JobStateFailed     = "failed"
)

// ClipCandidate is a provisional time range and metadata extracted from the
// analyzer's report, not yet materialized as media.
type ClipCandidate struct {
	StartSeconds int `json:"start_time"`
	// EndSeconds is the decoded end timestamp plus one second, widened so a
	// stream-copy cut does not truncate the final frame.
	EndSeconds int `json:"end_time"`
	// OriginalEnd retains the end timestamp as it appeared in the report,
	// for display only. Arithmetic always uses EndSeconds.
	OriginalEnd    string   `json:"original_end,omitempty"`
	Description    string   `json:"description"`
	ViralPotential int      `json:"viral_potential"`
	Platforms      []string `json:"platforms"`
}

// ProcessedClip is a ClipCandidate that was successfully cut into a
// standalone media artifact.
type ProcessedClip struct {
	ClipCandidate
	// OutputRef starts as a local file path and is rewritten to a public
	// serving ref before it is stored on the job.
	OutputRef string `json:"url"`
}

// Job tracks one submitted video through the pipeline. Each job is mutated
// only by the background goroutine that owns it and becomes immutable once it
// reaches a terminal state.
type Job struct {
	ID         string
	State      string
	Message    string
	Clips      []ProcessedClip
	Highlights string
	Error      string
	CreatedAt  time.Time
}

// Options carries the free-form submit options the pipeline understands.
type Options struct {
	UserID string
}

func NewJobID() string {
	return uuid.New().String()
}
