package media

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWriteConcatList(t *testing.T) {
	inputs := []string{
		filepath.Join(t.TempDir(), "clip_1_0_10.mp4"),
		filepath.Join(t.TempDir(), "clip_2_20_30.mp4"),
	}

	listPath, err := writeConcatList(inputs)
	if err != nil {
		t.Fatalf("writeConcatList() error = %v", err)
	}
	defer os.Remove(listPath)

	data, err := os.ReadFile(listPath)
	if err != nil {
		t.Fatalf("read list: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("list has %d lines, want 2", len(lines))
	}
	for i, line := range lines {
		if !strings.HasPrefix(line, "file '") || !strings.HasSuffix(line, "'") {
			t.Errorf("line %d not in concat format: %q", i, line)
		}
		if !strings.Contains(line, filepath.Base(inputs[i])) {
			t.Errorf("line %d = %q, want path of %q", i, line, inputs[i])
		}
	}
}

func TestFFmpegEncoder_CutRejectsNonPositiveDuration(t *testing.T) {
	e := &FFmpegEncoder{path: "ffmpeg", logger: discardLogger()}

	for _, duration := range []int{0, -5} {
		err := e.Cut(context.Background(), "in.mp4", 10, duration, filepath.Join(t.TempDir(), "out.mp4"))
		if err == nil {
			t.Errorf("Cut() with duration %d succeeded, want error", duration)
		}
	}
}

func TestFFmpegEncoder_ConcatRejectsEmptyInputs(t *testing.T) {
	e := &FFmpegEncoder{path: "ffmpeg", logger: discardLogger()}

	if err := e.Concat(context.Background(), nil, filepath.Join(t.TempDir(), "out.mp4")); err == nil {
		t.Error("Concat() with no inputs succeeded, want error")
	}
}

func TestStderrTail(t *testing.T) {
	short := "frame dropped"
	if got := stderrTail("  " + short + "\n"); got != short {
		t.Errorf("stderrTail(short) = %q", got)
	}

	long := strings.Repeat("x", maxStderrBytes+100) + "END"
	got := stderrTail(long)
	if len(got) != maxStderrBytes {
		t.Errorf("stderrTail(long) length = %d, want %d", len(got), maxStderrBytes)
	}
	if !strings.HasSuffix(got, "END") {
		t.Error("stderrTail(long) dropped the tail instead of the head")
	}
}

func TestStubEncoder_WritesPlaceholders(t *testing.T) {
	e := NewStubEncoder(discardLogger())
	dir := t.TempDir()

	cutOut := filepath.Join(dir, "nested", "clip_1_0_10.mp4")
	if err := e.Cut(context.Background(), "in.mp4", 0, 10, cutOut); err != nil {
		t.Fatalf("Cut() error = %v", err)
	}
	info, err := os.Stat(cutOut)
	if err != nil {
		t.Fatalf("stat cut output: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("placeholder is %d bytes, want 0", info.Size())
	}

	concatOut := filepath.Join(dir, "highlights.mp4")
	if err := e.Concat(context.Background(), []string{cutOut}, concatOut); err != nil {
		t.Fatalf("Concat() error = %v", err)
	}
	if _, err := os.Stat(concatOut); err != nil {
		t.Errorf("stat concat output: %v", err)
	}
}
