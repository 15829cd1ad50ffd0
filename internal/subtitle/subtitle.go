package subtitle

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/frame-align/internal/align"
)

// ErrInvalidTimestamp means a negative time value reached the formatter.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// FormatTimestamp renders a non-negative number of seconds in the SRT
// HH:MM:SS,mmm form. Milliseconds are rounded, with carry into the
// seconds component when rounding reaches 1000.
func FormatTimestamp(seconds float64) (string, error) {
	if seconds < 0 {
		return "", fmt.Errorf("%w: %v is negative", ErrInvalidTimestamp, seconds)
	}

	millis := int64(math.Round(seconds * 1000))
	hours := millis / 3_600_000
	millis -= hours * 3_600_000
	minutes := millis / 60_000
	millis -= minutes * 60_000
	secs := millis / 1000
	millis -= secs * 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis), nil
}

// Render emits one numbered SRT cue per entry, in input order, starting
// at 1. Entries are never reordered or merged, even when their time
// ranges touch or overlap. Empty input renders as an empty string.
//
// Text keeps interior newlines verbatim, which can produce multi-line cue
// bodies; no escaping of SRT control sequences is attempted. Entries with
// no text at all render as "[inaudible]".
func Render(entries []align.Entry) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	lines := make([]string, 0, len(entries)*4)
	for i, entry := range entries {
		start, err := FormatTimestamp(entry.StartTime)
		if err != nil {
			return "", fmt.Errorf("cue %d: %w", i+1, err)
		}
		end, err := FormatTimestamp(entry.EndTime)
		if err != nil {
			return "", fmt.Errorf("cue %d: %w", i+1, err)
		}

		text := strings.TrimSpace(entry.Text)
		if text == "" {
			text = "[inaudible]"
		}

		lines = append(lines, strconv.Itoa(i+1), start+" --> "+end, text, "")
	}

	return strings.Join(lines, "\n"), nil
}

// WriteFile renders entries and writes the result to path in one shot,
// so no partial subtitle file is ever visible at the destination.
func WriteFile(path string, entries []align.Entry) error {
	content, err := Render(entries)
	if err != nil {
		return fmt.Errorf("render subtitles: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create subtitle dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write subtitles: %w", err)
	}

	return nil
}

// Convert reads an alignment document and writes the derived SRT file.
// Malformed input fails before anything is written; an empty alignment
// list converts successfully into a zero-cue file.
func Convert(alignmentPath, srtPath string) error {
	entries, err := align.ReadDocument(alignmentPath)
	if err != nil {
		return fmt.Errorf("read alignment: %w", err)
	}

	return WriteFile(srtPath, entries)
}
