package processor

import (
	"context"
	"os"
)

// cleanupTempFile removes an intermediate file, logging instead of
// failing when it cannot be removed.
func (p *implProcessor) cleanupTempFile(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", path, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp file: %s", path)
	}
}
