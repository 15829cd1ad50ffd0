package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// extractAudio extracts the primary audio track into a mono WAV at the
// configured sample rate (16 kHz by default, what Whisper expects).
// Returns false without error when the video has no audio stream.
func (p *implProcessor) extractAudio(ctx context.Context, videoPath, audioPath string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(audioPath), 0755); err != nil {
		return false, fmt.Errorf("create audio dir: %w", err)
	}

	hasAudio, err := p.hasAudioStream(ctx, videoPath)
	if err != nil {
		return false, err
	}
	if !hasAudio {
		// Empty placeholder so metadata.json never references a file
		// that does not exist.
		if err := os.WriteFile(audioPath, nil, 0644); err != nil {
			return false, fmt.Errorf("create audio placeholder: %w", err)
		}
		return false, nil
	}

	p.logger.Info(ctx, "Extracting audio: %s -> %s", videoPath, audioPath)

	// -vn: drop video
	// -ac 1: mono, -ar: sample rate (Whisper works best on 16kHz mono)
	// -c:a pcm_s16le: uncompressed 16-bit PCM
	args := []string{
		"-i", videoPath,
		"-vn",
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", p.cfg.Extraction.SampleRate),
		"-c:a", "pcm_s16le",
		"-y",
		audioPath,
	}

	if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return false, fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	return true, nil
}

// hasAudioStream probes the container for at least one audio stream.
func (p *implProcessor) hasAudioStream(ctx context.Context, videoPath string) (bool, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=codec_type",
		"-of", "json",
		videoPath,
	}

	out, err := p.executor.Execute(ctx, "ffprobe", args...)
	if err != nil {
		return false, fmt.Errorf("ffprobe audio streams: %w", err)
	}

	var probe struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
		} `json:"streams"`
	}
	if err := json.Unmarshal([]byte(out), &probe); err != nil {
		return false, fmt.Errorf("parse ffprobe output: %w", err)
	}

	return len(probe.Streams) > 0, nil
}
