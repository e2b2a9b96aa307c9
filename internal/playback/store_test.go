package playback

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStore(root, logger), root
}

func writeArtifact(t *testing.T, root, rel string, content []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestStore_Resolve(t *testing.T) {
	store, root := newTestStore(t)
	writeArtifact(t, root, "My_Video_abc/clip_1_0_10.mp4", []byte("clip"))

	tests := []struct {
		name string
		ref  string
	}{
		{"public ref", "/clips/My_Video_abc/clip_1_0_10.mp4"},
		{"bare rel", "My_Video_abc/clip_1_0_10.mp4"},
		{"leading slash", "/My_Video_abc/clip_1_0_10.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := store.Resolve(tt.ref)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.ref, err)
			}
			if filepath.Base(path) != "clip_1_0_10.mp4" {
				t.Errorf("Resolve(%q) = %q", tt.ref, path)
			}
		})
	}
}

func TestStore_ResolveRejects(t *testing.T) {
	store, root := newTestStore(t)
	writeArtifact(t, root, "job/clip.mp4", []byte("clip"))

	refs := []struct {
		name string
		ref  string
	}{
		{"traversal", "/clips/../secrets.txt"},
		{"nested traversal", "/clips/job/../../secrets.txt"},
		{"missing file", "/clips/job/nope.mp4"},
		{"directory", "/clips/job"},
		{"empty", "/clips/"},
	}

	for _, tt := range refs {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Resolve(tt.ref); !errors.Is(err, ErrNotFound) {
				t.Errorf("Resolve(%q) error = %v, want ErrNotFound", tt.ref, err)
			}
		})
	}
}

func serve(t *testing.T, store *Store, ref, rangeHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/clips/x", nil)
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}
	rec := httptest.NewRecorder()
	if err := store.ServeArtifact(rec, req, ref); err != nil {
		t.Fatalf("ServeArtifact() error = %v", err)
	}
	return rec
}

func TestStore_ServeFull(t *testing.T) {
	store, root := newTestStore(t)
	content := []byte("0123456789")
	writeArtifact(t, root, "job/clip.mp4", content)

	rec := serve(t, store, "/clips/job/clip.mp4", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Accept-Ranges"); got != "bytes" {
		t.Errorf("Accept-Ranges = %q", got)
	}
	// The exact mp4 type depends on the host's mime table; a fallback to
	// octet-stream is still valid.
	if got := rec.Header().Get("Content-Type"); got == "" {
		t.Error("Content-Type not set")
	}
	if got := rec.Header().Get("Content-Length"); got != "10" {
		t.Errorf("Content-Length = %q", got)
	}
	if rec.Body.String() != string(content) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestStore_ServePartial(t *testing.T) {
	store, root := newTestStore(t)
	writeArtifact(t, root, "job/clip.mp4", []byte("0123456789"))

	rec := serve(t, store, "/clips/job/clip.mp4", "bytes=2-5")

	if rec.Code != http.StatusPartialContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Range"); got != "bytes 2-5/10" {
		t.Errorf("Content-Range = %q", got)
	}
	if got := rec.Header().Get("Content-Length"); got != "4" {
		t.Errorf("Content-Length = %q", got)
	}
	if rec.Body.String() != "2345" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestStore_ServeUnsatisfiableRange(t *testing.T) {
	store, root := newTestStore(t)
	writeArtifact(t, root, "job/clip.mp4", []byte("0123456789"))

	rec := serve(t, store, "/clips/job/clip.mp4", "bytes=100-200")

	if rec.Code != http.StatusRequestedRangeNotSatisfiable {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Range"); got != "bytes */10" {
		t.Errorf("Content-Range = %q", got)
	}
}

func TestStore_ServeMalformedRangeDegradesToFull(t *testing.T) {
	store, root := newTestStore(t)
	content := []byte("0123456789")
	writeArtifact(t, root, "job/clip.mp4", content)

	rec := serve(t, store, "/clips/job/clip.mp4", "bytes=oops")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != string(content) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestStore_ServeMissingArtifact(t *testing.T) {
	store, _ := newTestStore(t)

	rec := serve(t, store, "/clips/nope/clip.mp4", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
