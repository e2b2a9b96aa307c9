// Package history records completed processing runs per user. Recording is
// best-effort: a job completes whether or not its history entry lands.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"
)

// Entry is one completed processing run. Clips holds the final clip set as
// JSON, exactly as the status endpoint reports it.
type Entry struct {
	ID            int64           `json:"id"`
	UserID        string          `json:"user_id"`
	SourceURL     string          `json:"source_url"`
	VideoTitle    string          `json:"video_title"`
	Clips         json.RawMessage `json:"clips"`
	HighlightsURL string          `json:"highlights_url,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Recorder interface {
	Record(ctx context.Context, entry Entry) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error)
}

// SQLiteRecorder persists history in the embedded database.
type SQLiteRecorder struct {
	db *sql.DB
}

func NewSQLiteRecorder(db *sql.DB) *SQLiteRecorder {
	return &SQLiteRecorder{db: db}
}

func (r *SQLiteRecorder) Record(ctx context.Context, entry Entry) error {
	clipsJSON := entry.Clips
	if clipsJSON == nil {
		clipsJSON = json.RawMessage("[]")
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO video_history (user_id, source_url, video_title, clips, highlights_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.UserID, entry.SourceURL, entry.VideoTitle, string(clipsJSON),
		nullString(entry.HighlightsURL), createdAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRecorder) ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, source_url, video_title, clips, highlights_url, created_at
		FROM video_history
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var clipsJSON string
		var highlights sql.NullString
		var createdAt string

		if err := rows.Scan(&e.ID, &e.UserID, &e.SourceURL, &e.VideoTitle, &clipsJSON, &highlights, &createdAt); err != nil {
			return nil, err
		}
		e.Clips = json.RawMessage(clipsJSON)
		e.HighlightsURL = highlights.String
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// StubRecorder is used when history persistence is disabled.
type StubRecorder struct {
	logger *slog.Logger
}

func NewStubRecorder(logger *slog.Logger) *StubRecorder {
	return &StubRecorder{logger: logger}
}

func (r *StubRecorder) Record(ctx context.Context, entry Entry) error {
	r.logger.Info("history stub: record requested", "user_id", entry.UserID)
	return nil
}

func (r *StubRecorder) ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error) {
	return nil, nil
}
