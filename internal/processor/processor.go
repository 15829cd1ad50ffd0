package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/frame-align/internal/align"
	"github.com/nguyentantai21042004/frame-align/internal/subtitle"
)

// Process runs the full alignment pipeline for one video: audio
// extraction, frame sampling, transcription, frame alignment, and the
// persisted alignment.json / metadata.json / SRT artifacts.
func (p *implProcessor) Process(ctx context.Context, videoPath string) error {
	startTime := time.Now()
	name := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	outputDir := filepath.Join(p.cfg.Paths.Output, name)

	p.logger.Info(ctx, "Starting alignment pipeline: %s", videoPath)

	runID := p.recordStart(ctx, videoPath, outputDir)

	result, err := p.run(ctx, videoPath, outputDir)
	if err != nil {
		p.recordFailure(ctx, runID, err)
		return err
	}
	p.recordSuccess(ctx, runID, result)

	p.logger.Info(ctx, "Pipeline completed: %s (%d segments, %d frames, %s)",
		videoPath, len(result.entries), result.frameCount, time.Since(startTime))
	return nil
}

type pipelineResult struct {
	entries    []align.Entry
	frameCount int
	videoFPS   float64
}

func (p *implProcessor) run(ctx context.Context, videoPath, outputDir string) (pipelineResult, error) {
	audioPath := filepath.Join(outputDir, "audio.wav")
	frameDir := filepath.Join(outputDir, "frames")
	extractionFPS := p.cfg.Extraction.FPS

	// Step 1: extract the audio track. Videos without one still get
	// frames and an empty alignment.
	hasAudio, err := p.extractAudio(ctx, videoPath, audioPath)
	if err != nil {
		return pipelineResult{}, fmt.Errorf("extract audio: %w", err)
	}

	// Step 2: probe the nominal source frame rate. It travels through
	// to the output as metadata only.
	videoFPS, err := p.probeVideoFPS(ctx, videoPath)
	if err != nil {
		return pipelineResult{}, fmt.Errorf("probe video fps: %w", err)
	}

	// Step 3: sample frames at the configured extraction rate.
	frameCount, err := p.extractFrames(ctx, videoPath, frameDir)
	if err != nil {
		return pipelineResult{}, fmt.Errorf("extract frames: %w", err)
	}

	// Step 4: transcribe.
	var segments []align.Segment
	if hasAudio {
		segments, err = p.transcribe(ctx, audioPath)
		if err != nil {
			return pipelineResult{}, fmt.Errorf("transcribe: %w", err)
		}
	} else {
		p.logger.Warn(ctx, "No audio stream in %s; alignment will be empty", videoPath)
	}

	// Step 5: align transcript segments with frame indices.
	entries, err := align.Align(segments, videoFPS, extractionFPS)
	if err != nil {
		return pipelineResult{}, fmt.Errorf("align: %w", err)
	}
	p.warnBeyondInventory(ctx, entries, frameCount)

	// Step 6: persist artifacts.
	alignmentPath := filepath.Join(outputDir, "alignment.json")
	if err := align.WriteDocument(alignmentPath, entries); err != nil {
		return pipelineResult{}, err
	}

	meta := align.Metadata{
		VideoPath:     videoPath,
		AudioPath:     audioPath,
		FrameDir:      frameDir,
		FrameCount:    frameCount,
		VideoFPS:      videoFPS,
		ExtractionFPS: extractionFPS,
	}
	if err := align.WriteMetadata(filepath.Join(outputDir, "metadata.json"), meta); err != nil {
		return pipelineResult{}, err
	}

	srtPath := filepath.Join(outputDir, filepath.Base(outputDir)+".srt")
	if err := subtitle.WriteFile(srtPath, entries); err != nil {
		return pipelineResult{}, err
	}

	p.logger.Info(ctx, "Wrote %s, metadata.json and %s", alignmentPath, srtPath)
	return pipelineResult{entries: entries, frameCount: frameCount, videoFPS: videoFPS}, nil
}

// warnBeyondInventory flags entries whose frame range points past the
// last materialized frame. The aligner leaves them unclamped; this is
// where the real frame inventory is known, so it is where the drift gets
// surfaced.
func (p *implProcessor) warnBeyondInventory(ctx context.Context, entries []align.Entry, frameCount int) {
	for i, entry := range entries {
		if entry.EndFrame >= frameCount {
			p.logger.Warn(ctx, "Entry %d ends at frame %d but only %d frames were extracted",
				i, entry.EndFrame, frameCount)
		}
	}
}

func (p *implProcessor) recordStart(ctx context.Context, videoPath, outputDir string) string {
	if p.catalog == nil {
		return ""
	}
	runID, err := p.catalog.StartRun(ctx, videoPath, outputDir)
	if err != nil {
		p.logger.Warn(ctx, "Failed to record run start: %v", err)
		return ""
	}
	return runID
}

func (p *implProcessor) recordSuccess(ctx context.Context, runID string, result pipelineResult) {
	if p.catalog == nil || runID == "" {
		return
	}
	err := p.catalog.CompleteRun(ctx, runID, len(result.entries), result.frameCount,
		result.videoFPS, p.cfg.Extraction.FPS)
	if err != nil {
		p.logger.Warn(ctx, "Failed to record run completion: %v", err)
	}
}

func (p *implProcessor) recordFailure(ctx context.Context, runID string, cause error) {
	if p.catalog == nil || runID == "" {
		return
	}
	if err := p.catalog.FailRun(ctx, runID, cause); err != nil {
		p.logger.Warn(ctx, "Failed to record run failure: %v", err)
	}
}
