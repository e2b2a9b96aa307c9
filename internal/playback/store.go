// Package playback resolves public artifact references to files under the
// clips root and serves them with byte-range support for in-browser seeking.
package playback

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNotFound is returned for refs that escape the root, don't exist, or
// aren't regular files.
var ErrNotFound = errors.New("artifact not found")

// Store serves artifacts from a single root directory. Refs are the paths
// the orchestrator stores on completed jobs ("/clips/<rel>" or bare "<rel>").
type Store struct {
	root   string
	logger *slog.Logger
}

func NewStore(root string, logger *slog.Logger) *Store {
	return &Store{root: root, logger: logger}
}

// Resolve maps a public ref onto a file under the root. Any traversal
// segment rejects the ref outright.
func (s *Store) Resolve(ref string) (string, error) {
	rel := strings.TrimPrefix(ref, "/clips/")
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return "", ErrNotFound
	}

	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == ".." {
			return "", ErrNotFound
		}
	}

	path := filepath.Join(s.root, filepath.FromSlash(rel))

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	return path, nil
}

// ServeArtifact writes the referenced artifact to w, honoring a single-range
// Range header. Unknown refs get a 404, unsatisfiable ranges a 416 with the
// artifact size.
func (s *Store) ServeArtifact(w http.ResponseWriter, r *http.Request, ref string) error {
	path, err := s.Resolve(ref)
	if err != nil {
		http.Error(w, "artifact not found", http.StatusNotFound)
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open artifact: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat artifact: %w", err)
	}
	size := stat.Size()

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Content-Type", contentType)

	byteRange, err := ParseRange(r.Header.Get("Range"), size)
	if err == ErrUnsatisfiable {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, "Range Not Satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return nil
	}
	if err == ErrInvalidRange {
		// A malformed Range header degrades to a full response.
		byteRange = nil
	}

	if byteRange == nil {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		w.WriteHeader(http.StatusOK)
		_, err := io.Copy(w, file)
		return err
	}

	w.Header().Set("Content-Length", strconv.FormatInt(byteRange.Length(), 10))
	w.Header().Set("Content-Range", byteRange.ContentRange(size))
	w.WriteHeader(http.StatusPartialContent)

	if _, err := file.Seek(byteRange.Start, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek artifact: %w", err)
	}
	_, err = io.CopyN(w, file, byteRange.Length())
	return err
}
