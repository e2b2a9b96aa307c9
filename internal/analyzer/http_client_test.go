package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTempVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.mp4")
	if err := os.WriteFile(path, []byte("not really a video"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestHTTPClient_Submit(t *testing.T) {
	var gotAuth, gotFilename string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/files" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		gotFilename = header.Filename

		json.NewEncoder(w).Encode(map[string]string{"id": "file-123"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret-key", discardLogger())
	handle, err := c.Submit(context.Background(), writeTempVideo(t))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if handle != "file-123" {
		t.Errorf("handle = %q", handle)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotFilename != "sample.mp4" {
		t.Errorf("uploaded filename = %q", gotFilename)
	}
}

func TestHTTPClient_SubmitEmptyID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret-key", discardLogger())
	if _, err := c.Submit(context.Background(), writeTempVideo(t)); err == nil {
		t.Fatal("Submit() succeeded despite empty file id")
	}
}

func TestHTTPClient_PollStates(t *testing.T) {
	tests := []struct {
		state string
		want  Status
	}{
		{"ACTIVE", StatusReady},
		{"PENDING", StatusPending},
		{"PROCESSING", StatusPending},
		{"FAILED", StatusFailed},
		{"GARBAGE", StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/files/file-123" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				json.NewEncoder(w).Encode(map[string]string{"state": tt.state})
			}))
			defer srv.Close()

			c := NewHTTPClient(srv.URL, "secret-key", discardLogger())
			got, err := c.Poll(context.Background(), "file-123")
			if err != nil {
				t.Fatalf("Poll() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Poll() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTTPClient_Report(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/analyze" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["file_id"] != "file-123" {
			t.Errorf("file_id = %q", req["file_id"])
		}
		if req["prompt"] == "" {
			t.Error("request carries no prompt")
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "0:00 - 0:10\nDescription: intro"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret-key", discardLogger())
	text, err := c.Report(context.Background(), "file-123")
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if text != "0:00 - 0:10\nDescription: intro" {
		t.Errorf("Report() = %q", text)
	}
}

func TestHTTPClient_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret-key", discardLogger())
	_, err := c.Report(context.Background(), "file-123")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
}
