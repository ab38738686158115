package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagestack/pkg/observability"
)

// exportProgress forwards per-image export events to callbacks. Either
// callback may be nil.
type exportProgress struct {
	observability.NoopExportHooks
	onImage func(index, total int, path string)
	onSkip  func(index int, path string, err error)
}

func (h *exportProgress) OnImageStart(_ context.Context, index, total int, path string) {
	if h.onImage != nil {
		h.onImage(index, total, path)
	}
}

func (h *exportProgress) OnImageSkipped(_ context.Context, index int, path string, err error) {
	if h.onSkip != nil {
		h.onSkip(index, path, err)
	}
}

// progressText is the status shown while image index of total is processed.
func progressText(index, total int) string {
	return fmt.Sprintf("Processing image %d/%d...", index+1, total)
}

// withExportProgress registers h for the duration of fn.
func withExportProgress(h observability.ExportHooks, fn func() error) error {
	observability.SetExportHooks(h)
	defer observability.SetExportHooks(observability.NoopExportHooks{})
	return fn()
}

// previewLogHooks reports preview rendering at debug level.
type previewLogHooks struct {
	logger *log.Logger
}

func (h previewLogHooks) OnPreviewRendered(_ context.Context, path string, cached bool, d time.Duration) {
	h.logger.Debug("Preview rendered", "path", path, "cached", cached, "took", d.Round(time.Millisecond))
}

func (h previewLogHooks) OnPreviewError(_ context.Context, path string, err error) {
	h.logger.Debug("Preview failed", "path", path, "err", err)
}
