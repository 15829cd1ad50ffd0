package align

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidSegment means a transcript segment carries a negative or
	// inverted time range.
	ErrInvalidSegment = errors.New("invalid segment")

	// ErrInvalidRate means a non-positive frame rate was supplied.
	ErrInvalidRate = errors.New("invalid rate")

	// ErrMalformedInput means a persisted alignment document could not be
	// parsed or is missing required fields.
	ErrMalformedInput = errors.New("malformed alignment input")
)

// Segment is one contiguous span of transcribed speech, with times in
// seconds relative to the start of the source media.
type Segment struct {
	Text      string
	StartTime float64
	EndTime   float64
}

// Validate rejects segments with a negative start or an end before the
// start. Malformed segments are rejected here, at the boundary, rather
// than clamped into silently wrong frame indices.
func (s Segment) Validate() error {
	if s.StartTime < 0 {
		return fmt.Errorf("%w: start_time %v is negative", ErrInvalidSegment, s.StartTime)
	}
	if s.EndTime < s.StartTime {
		return fmt.Errorf("%w: end_time %v precedes start_time %v", ErrInvalidSegment, s.EndTime, s.StartTime)
	}
	return nil
}

// Entry links one transcript segment to the range of extracted-frame
// indices covering it. The JSON tag order defines the on-disk field order
// of alignment.json and must not change.
type Entry struct {
	Text       string  `json:"text"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	StartFrame int     `json:"start_frame"`
	EndFrame   int     `json:"end_frame"`
	VideoFPS   float64 `json:"video_fps"`
}

// Align maps each segment onto the frame indices that were sampled during
// its time range, preserving input order. Frames are assumed to be
// extracted at a constant extractionFPS per second of source video, so
// the index for a time t is floor(t * extractionFPS). videoFPS is carried
// through as descriptive metadata only; it plays no part in the index
// computation, which keeps the mapping correct even when the container
// reports an inaccurate nominal rate.
//
// End frames are not clamped against the materialized frame count. A
// transcript that runs past the last sampled frame yields indices beyond
// the inventory; consumers that need real files must clamp themselves.
func Align(segments []Segment, videoFPS, extractionFPS float64) ([]Entry, error) {
	if videoFPS <= 0 {
		return nil, fmt.Errorf("%w: video fps %v must be positive", ErrInvalidRate, videoFPS)
	}
	if extractionFPS <= 0 {
		return nil, fmt.Errorf("%w: extraction fps %v must be positive", ErrInvalidRate, extractionFPS)
	}

	entries := make([]Entry, 0, len(segments))
	for i, seg := range segments {
		if err := seg.Validate(); err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}

		entries = append(entries, Entry{
			Text:       seg.Text,
			StartTime:  seg.StartTime,
			EndTime:    seg.EndTime,
			StartFrame: frameIndex(seg.StartTime, extractionFPS),
			EndFrame:   frameIndex(seg.EndTime, extractionFPS),
			VideoFPS:   videoFPS,
		})
	}

	return entries, nil
}

// frameIndex floors. Times are validated non-negative before this point,
// so floor and truncation agree and there is no off-by-one ambiguity.
func frameIndex(seconds, extractionFPS float64) int {
	return int(math.Floor(seconds * extractionFPS))
}
