// Package transcript decodes whisper.cpp JSON output into alignment
// segments.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/nguyentantai21042004/frame-align/internal/align"
)

// whisperOutput mirrors the document whisper.cpp writes with -oj.
// Offsets are milliseconds from the start of the audio.
type whisperOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Parse converts raw whisper.cpp JSON into ordered alignment segments.
// Segment text is trimmed and segments left empty by trimming are
// dropped, matching what the transcription step feeds the aligner.
func Parse(data []byte) ([]align.Segment, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	segments := make([]align.Segment, 0, len(out.Transcription))
	for _, item := range out.Transcription {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}

		segments = append(segments, align.Segment{
			Text:      text,
			StartTime: float64(item.Offsets.From) / 1000.0,
			EndTime:   float64(item.Offsets.To) / 1000.0,
		})
	}

	return segments, nil
}

// ParseFile reads and parses a whisper.cpp JSON output file.
func ParseFile(path string) ([]align.Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}
	return Parse(data)
}
