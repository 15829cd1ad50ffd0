package align

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Metadata describes one pipeline run. The JSON tag order defines the
// on-disk field order of metadata.json and must not change.
type Metadata struct {
	VideoPath     string  `json:"video_path"`
	AudioPath     string  `json:"audio_path"`
	FrameDir      string  `json:"frame_dir"`
	FrameCount    int     `json:"frame_count"`
	VideoFPS      float64 `json:"video_fps"`
	ExtractionFPS float64 `json:"extraction_fps"`
}

// WriteDocument persists entries to path as a 2-space-indented JSON array.
// An empty entry list writes "[]", not "null". The document is marshalled
// fully before the file is touched, so a failure never leaves partial output.
func WriteDocument(path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal alignment: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create alignment dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write alignment: %w", err)
	}

	return nil
}

// ReadDocument loads an alignment document written by WriteDocument (or a
// compatible producer). Every object must carry all six fields with the
// right types; anything less fails with ErrMalformedInput rather than
// defaulting missing values to zero.
func ReadDocument(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alignment: %w", err)
	}

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	entries := make([]Entry, 0, len(raw))
	for i, obj := range raw {
		entry, err := entryFromObject(obj)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func entryFromObject(obj map[string]json.RawMessage) (Entry, error) {
	var entry Entry

	if err := requireField(obj, "text", &entry.Text); err != nil {
		return Entry{}, err
	}
	if err := requireField(obj, "start_time", &entry.StartTime); err != nil {
		return Entry{}, err
	}
	if err := requireField(obj, "end_time", &entry.EndTime); err != nil {
		return Entry{}, err
	}
	if err := requireField(obj, "start_frame", &entry.StartFrame); err != nil {
		return Entry{}, err
	}
	if err := requireField(obj, "end_frame", &entry.EndFrame); err != nil {
		return Entry{}, err
	}
	if err := requireField(obj, "video_fps", &entry.VideoFPS); err != nil {
		return Entry{}, err
	}

	return entry, nil
}

func requireField(obj map[string]json.RawMessage, name string, dst any) error {
	raw, ok := obj[name]
	if !ok {
		return fmt.Errorf("%w: missing field %q", ErrMalformedInput, name)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: field %q: %v", ErrMalformedInput, name, err)
	}
	return nil
}

// WriteMetadata persists run metadata next to the alignment document, in
// the same 2-space-indented JSON form.
func WriteMetadata(path string, meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create metadata dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	return nil
}
