package fetch

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "My Video Title", "My_Video_Title"},
		{"path hostile characters", `What? A "Test": Part 1/2`, "What_A_Test_Part_1_2"},
		{"whitespace runs collapse", "too   many\t\tspaces", "too_many_spaces"},
		{"underscore runs collapse", "already__underscored", "already_underscored"},
		{"non-ascii dropped", "café ☕ tour", "caf_tour"},
		{"control characters dropped", "line\x00break\x1f", "linebreak"},
		{"leading separators dropped", "  /weird start", "weird_start"},
		{"empty", "", "unknown_video"},
		{"only hostile characters", `<>:"/\|?*`, "unknown_video"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeTitle(tt.input); got != tt.want {
				t.Errorf("SanitizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeTitle_CapsLength(t *testing.T) {
	got := SanitizeTitle(strings.Repeat("a", 500))
	if len(got) != maxTitleLen {
		t.Errorf("len = %d, want %d", len(got), maxTitleLen)
	}
}

func TestParsePrintOutput(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		wantPath  string
		wantTitle string
		wantErr   bool
	}{
		{
			name:      "path then title",
			output:    "/downloads/abc_My Video.mp4\nMy Video\n",
			wantPath:  "/downloads/abc_My Video.mp4",
			wantTitle: "My Video",
		},
		{
			name:      "windows line endings",
			output:    "/downloads/abc.mp4\r\nTitle\r\n",
			wantPath:  "/downloads/abc.mp4",
			wantTitle: "Title",
		},
		{
			name:      "blank title falls back",
			output:    "/downloads/abc.mp4\n \nNA\n",
			wantPath:  "/downloads/abc.mp4",
			wantTitle: "unknown_video",
		},
		{name: "single line", output: "/downloads/abc.mp4\n", wantErr: true},
		{name: "empty output", output: "", wantErr: true},
		{name: "blank path", output: " \ntitle\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, title, err := parsePrintOutput(tt.output)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parsePrintOutput(%q) succeeded, want error", tt.output)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePrintOutput(%q) error = %v", tt.output, err)
			}
			if path != tt.wantPath || title != tt.wantTitle {
				t.Errorf("parsePrintOutput(%q) = (%q, %q), want (%q, %q)",
					tt.output, path, title, tt.wantPath, tt.wantTitle)
			}
		})
	}
}

func TestStubFetcher(t *testing.T) {
	f := NewStubFetcher(slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := f.Fetch(context.Background(), "https://example.com/v", "job-1")
	if err == nil {
		t.Fatal("StubFetcher.Fetch() succeeded, want error")
	}
	if !strings.Contains(err.Error(), "yt-dlp") {
		t.Errorf("error %q does not name the missing binary", err)
	}
}
