package clips

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTimestamp is returned for timestamps that are not two or three
// colon-separated integers.
var ErrInvalidTimestamp = errors.New("invalid timestamp format")

// ParseTimestamp converts an "MM:SS" or "HH:MM:SS" string to a second count.
// Segment magnitudes are deliberately unchecked: "90:00" decodes to 5400.
func ParseTimestamp(text string) (int, error) {
	parts := strings.Split(strings.TrimSpace(text), ":")

	switch len(parts) {
	case 2:
		minutes, err := atoiPart(parts[0], text)
		if err != nil {
			return 0, err
		}
		seconds, err := atoiPart(parts[1], text)
		if err != nil {
			return 0, err
		}
		return minutes*60 + seconds, nil

	case 3:
		hours, err := atoiPart(parts[0], text)
		if err != nil {
			return 0, err
		}
		minutes, err := atoiPart(parts[1], text)
		if err != nil {
			return 0, err
		}
		seconds, err := atoiPart(parts[2], text)
		if err != nil {
			return 0, err
		}
		return hours*3600 + minutes*60 + seconds, nil

	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, text)
	}
}

func atoiPart(part, original string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(part))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, original)
	}
	return n, nil
}
