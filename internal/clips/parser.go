package clips

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

const (
	descriptionLabel = "Description:"
	potentialLabel   = "Viral Potential:"
	platformsLabel   = "Best Platforms:"
)

// timestampRangePattern matches "MM:SS - MM:SS" with either side optionally
// in H:MM:SS form and the dash optionally surrounded by spaces.
var timestampRangePattern = regexp.MustCompile(`(\d{1,2}:\d{2}(?::\d{2})?)\s*-\s*(\d{1,2}:\d{2}(?::\d{2})?)`)

var platformSeparators = regexp.MustCompile(`[,\s]+`)

// ParseReport scans the analyzer's free-text report and returns the clip
// candidates it describes, in encounter order. Malformed lines are logged and
// skipped; the result may be empty but the function never fails.
//
// A timestamp-range line opens a candidate (closing any open one first).
// While a candidate is open, lines are scanned for the Description, Viral
// Potential and Best Platforms labels; the first matching label wins, so a
// single line never sets two fields. Body lines before the first timestamp
// have no candidate to attach to and are ignored.
func ParseReport(text string, logger *slog.Logger) []ClipCandidate {
	var out []ClipCandidate
	var current *ClipCandidate

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Strip markdown emphasis the analyzer tends to sprinkle in.
		line = strings.ReplaceAll(line, "**", "")

		if m := timestampRangePattern.FindStringSubmatch(line); m != nil {
			if current != nil {
				out = append(out, *current)
				current = nil
			}

			start, err := ParseTimestamp(m[1])
			if err != nil {
				logger.Error("skipping clip with unparseable start timestamp", "line", line, "error", err)
				continue
			}
			end, err := ParseTimestamp(m[2])
			if err != nil {
				logger.Error("skipping clip with unparseable end timestamp", "line", line, "error", err)
				continue
			}

			current = &ClipCandidate{
				StartSeconds: start,
				EndSeconds:   end + 1,
				OriginalEnd:  m[2],
			}
			continue
		}

		if current == nil {
			continue
		}

		switch {
		case strings.Contains(line, descriptionLabel):
			current.Description = strings.TrimSpace(afterLabel(line, descriptionLabel))

		case strings.Contains(line, potentialLabel):
			raw := strings.TrimSpace(afterLabel(line, potentialLabel))
			scoreText, _, _ := strings.Cut(raw, "/")
			score, err := strconv.Atoi(strings.TrimSpace(scoreText))
			if err != nil {
				logger.Error("cannot parse viral potential", "line", line, "error", err)
				continue
			}
			current.ViralPotential = score

		case strings.Contains(line, platformsLabel):
			current.Platforms = splitPlatforms(afterLabel(line, platformsLabel))
		}
	}

	if current != nil {
		out = append(out, *current)
	}
	return out
}

// afterLabel returns the remainder of line after the first occurrence of label.
func afterLabel(line, label string) string {
	_, rest, _ := strings.Cut(line, label)
	return rest
}

func splitPlatforms(raw string) []string {
	var platforms []string
	for _, token := range platformSeparators.Split(raw, -1) {
		token = strings.Trim(token, " ,")
		if token != "" {
			platforms = append(platforms, token)
		}
	}
	return platforms
}
