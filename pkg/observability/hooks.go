// Package observability provides hooks for progress reporting and metrics.
//
// Library packages (export, preview) emit events through the hooks registered
// here instead of printing. The CLI registers hooks that drive a spinner or
// the interactive status line; tests register recorders. Without
// registration every hook is a no-op.
//
// # Usage
//
// Register hooks at application startup:
//
//	observability.SetExportHooks(progress)
//	defer observability.SetExportHooks(observability.NoopExportHooks{})
//
// Libraries call hooks to emit events:
//
//	observability.Export().OnImageStart(ctx, i, n, path)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Export Hooks
// =============================================================================

// ExportHooks receives events from document export.
type ExportHooks interface {
	// OnExportStart is called once before the first image is processed.
	OnExportStart(ctx context.Context, total int, dest string)

	// OnImageStart is called before image index (zero-based) of total is placed.
	OnImageStart(ctx context.Context, index, total int, path string)

	// OnImageSkipped is called when an image could not be placed.
	OnImageSkipped(ctx context.Context, index int, path string, err error)

	// OnExportComplete is called once at the end with the number of pages
	// written and the overall error, if any.
	OnExportComplete(ctx context.Context, pages int, duration time.Duration, err error)
}

// =============================================================================
// Preview Hooks
// =============================================================================

// PreviewHooks receives events from preview rendering.
type PreviewHooks interface {
	// OnPreviewRendered records a finished preview and whether it came from cache.
	OnPreviewRendered(ctx context.Context, path string, cached bool, duration time.Duration)

	// OnPreviewError records a preview failure.
	OnPreviewError(ctx context.Context, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopExportHooks is a no-op implementation of ExportHooks.
type NoopExportHooks struct{}

func (NoopExportHooks) OnExportStart(context.Context, int, string)                  {}
func (NoopExportHooks) OnImageStart(context.Context, int, int, string)              {}
func (NoopExportHooks) OnImageSkipped(context.Context, int, string, error)          {}
func (NoopExportHooks) OnExportComplete(context.Context, int, time.Duration, error) {}

// NoopPreviewHooks is a no-op implementation of PreviewHooks.
type NoopPreviewHooks struct{}

func (NoopPreviewHooks) OnPreviewRendered(context.Context, string, bool, time.Duration) {}
func (NoopPreviewHooks) OnPreviewError(context.Context, string, error)                  {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	exportHooks  ExportHooks  = NoopExportHooks{}
	previewHooks PreviewHooks = NoopPreviewHooks{}
	hooksMu      sync.RWMutex
)

// SetExportHooks registers custom export hooks. A nil argument is ignored.
func SetExportHooks(h ExportHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		exportHooks = h
	}
}

// SetPreviewHooks registers custom preview hooks. A nil argument is ignored.
func SetPreviewHooks(h PreviewHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		previewHooks = h
	}
}

// Export returns the registered export hooks.
func Export() ExportHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return exportHooks
}

// Preview returns the registered preview hooks.
func Preview() PreviewHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return previewHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	exportHooks = NoopExportHooks{}
	previewHooks = NoopPreviewHooks{}
}
