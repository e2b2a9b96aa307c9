package fetch

import (
	"strings"
	"unicode"
)

const maxTitleLen = 200

// SanitizeTitle makes a video title safe for use in directory and file
// names: non-ASCII and control characters are dropped, path-hostile
// characters and whitespace runs collapse to a single underscore, and the
// result is capped at 200 characters.
func SanitizeTitle(title string) string {
	var b strings.Builder
	pendingSep := false

	for _, r := range title {
		if r > unicode.MaxASCII || unicode.IsControl(r) {
			continue
		}
		if unicode.IsSpace(r) || r == '_' || strings.ContainsRune(`<>:"/\|?*`, r) {
			pendingSep = true
			continue
		}
		if pendingSep && b.Len() > 0 {
			b.WriteByte('_')
		}
		pendingSep = false
		b.WriteRune(r)
	}

	out := b.String()
	if len(out) > maxTitleLen {
		out = strings.Trim(out[:maxTitleLen], "_")
	}
	if out == "" {
		return "unknown_video"
	}
	return out
}
