package api

import (
	"encoding/json"
	"time"

	"github.com/clipforge/clipd/internal/clips"
	"github.com/clipforge/clipd/internal/history"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type ProcessVideoRequest struct {
	URL     string         `json:"url"`
	Options ProcessOptions `json:"options"`
}

type ProcessOptions struct {
	UserID string `json:"user_id,omitempty"`
}

type ProcessVideoResponse struct {
	JobID string `json:"jobId"`
}

type ClipResponse struct {
	StartTime      int      `json:"start_time"`
	EndTime        int      `json:"end_time"`
	OriginalEnd    string   `json:"original_end,omitempty"`
	Description    string   `json:"description"`
	ViralPotential int      `json:"viral_potential"`
	Platforms      []string `json:"platforms"`
	URL            string   `json:"url"`
}

type StatusResponse struct {
	State      string         `json:"state"`
	Message    string         `json:"message"`
	Clips      []ClipResponse `json:"clips"`
	Highlights *string        `json:"highlights"`
	Error      string         `json:"error,omitempty"`
}

type HistoryEntryResponse struct {
	ID            int64           `json:"id"`
	SourceURL     string          `json:"source_url"`
	VideoTitle    string          `json:"video_title"`
	Clips         json.RawMessage `json:"clips"`
	HighlightsURL string          `json:"highlights_url,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

type HistoryResponse struct {
	Entries []HistoryEntryResponse `json:"entries"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func clipsOptions(o ProcessOptions) clips.Options {
	return clips.Options{UserID: o.UserID}
}

func ClipToResponse(c clips.ProcessedClip) ClipResponse {
	platforms := c.Platforms
	if platforms == nil {
		platforms = []string{}
	}
	return ClipResponse{
		StartTime:      c.StartSeconds,
		EndTime:        c.EndSeconds,
		OriginalEnd:    c.OriginalEnd,
		Description:    c.Description,
		ViralPotential: c.ViralPotential,
		Platforms:      platforms,
		URL:            c.OutputRef,
	}
}

// JobToStatusResponse renders a job snapshot. Clips and highlights appear
// only once the job completed; the error only once it failed.
func JobToStatusResponse(job clips.Job) StatusResponse {
	resp := StatusResponse{
		State:   job.State,
		Message: job.Message,
		Clips:   []ClipResponse{},
	}

	if job.State == clips.JobStateCompleted {
		for _, c := range job.Clips {
			resp.Clips = append(resp.Clips, ClipToResponse(c))
		}
		if job.Highlights != "" {
			resp.Highlights = &job.Highlights
		}
	}

	if job.State == clips.JobStateFailed {
		resp.Error = job.Error
	}

	return resp
}

func HistoryToResponse(e history.Entry) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:            e.ID,
		SourceURL:     e.SourceURL,
		VideoTitle:    e.VideoTitle,
		Clips:         e.Clips,
		HighlightsURL: e.HighlightsURL,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}
