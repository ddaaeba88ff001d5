package actions

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/r2d2m/graphy/pkg/graphy"
)

// ErrNoFrame reports a capture request when the host has no visual frame
// to hand over.
var ErrNoFrame = errors.New("no frame available")

// FrameFunc returns the host's current visual frame, or nil when none is
// available right now.
type FrameFunc func() image.Image

// ScreenshotWriter implements graphy.ScreenshotService by encoding the
// host-supplied frame as PNG under a base directory.
type ScreenshotWriter struct {
	dir   string
	frame FrameFunc
}

// NewScreenshotWriter creates a writer storing screenshots under dir,
// fetching frames through frame.
func NewScreenshotWriter(dir string, frame FrameFunc) *ScreenshotWriter {
	return &ScreenshotWriter{dir: dir, frame: frame}
}

// Capture writes the current frame to path joined under the writer's base
// directory, creating directories as needed.
func (w *ScreenshotWriter) Capture(path string) error {
	if w.frame == nil {
		return fmt.Errorf("screenshot writer has no frame source: %w", ErrNoFrame)
	}
	img := w.frame()
	if img == nil {
		return ErrNoFrame
	}

	full := filepath.Join(w.dir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create screenshot directory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("create screenshot file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode screenshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close screenshot file: %w", err)
	}
	return nil
}

// Ensure ScreenshotWriter implements graphy.ScreenshotService.
var _ graphy.ScreenshotService = (*ScreenshotWriter)(nil)
