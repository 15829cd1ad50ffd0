package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/frame-align/internal/align"
	"github.com/nguyentantai21042004/frame-align/internal/transcript"
)

// transcribe runs whisper.cpp over the extracted audio and returns the
// parsed transcript segments.
func (p *implProcessor) transcribe(ctx context.Context, audioPath string) ([]align.Segment, error) {
	// Whisper appends .json to the output prefix.
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	jsonPath := outputPrefix + ".json"

	p.logger.Info(ctx, "Transcribing with %d threads: %s", p.cfg.Whisper.Threads, audioPath)

	// -oj: JSON output with per-segment millisecond offsets
	// -l: pin the language to prevent hallucinated language switches
	args := []string{
		"-m", p.cfg.Whisper.ModelPath,
		"-f", audioPath,
		"-oj",
		"-l", p.cfg.Whisper.Language,
		"-t", strconv.Itoa(p.cfg.Whisper.Threads),
		"--output-file", outputPrefix,
	}

	if _, err := p.executor.Execute(ctx, p.cfg.Whisper.BinaryPath, args...); err != nil {
		return nil, fmt.Errorf("whisper transcribe: %w", err)
	}
	defer p.cleanupTempFile(ctx, jsonPath)

	segments, err := transcript.ParseFile(jsonPath)
	if err != nil {
		return nil, err
	}

	p.logger.Info(ctx, "Transcription produced %d segments", len(segments))
	return segments, nil
}
