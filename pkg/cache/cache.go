// Package cache stores rendered preview canvases between runs.
//
// Decoding and resampling a large photo dominates preview latency, and the
// same image is previewed again every time the selection or orientation
// changes. Rendered canvases are therefore cached as encoded bytes under a
// key derived from everything that affects the result (see [PreviewKey]).
//
// Two implementations are provided:
//   - [FileCache]: sha256-sharded files under the user cache directory
//   - [NullCache]: never stores anything (--no-cache, tests)
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long a cached preview stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// PreviewKeyOpts are the inputs that change a rendered preview.
type PreviewKeyOpts struct {
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mod_time"`
	Orientation string    `json:"orientation"`
	Paper       string    `json:"paper"`
	CanvasSize  int       `json:"canvas_size"`
	Label       bool      `json:"label"`
}

// PreviewKey returns the cache key for a preview canvas.
func PreviewKey(opts PreviewKeyOpts) string {
	return hashKey("preview", opts.Path, opts.Size, opts.ModTime.UnixNano(),
		opts.Orientation, opts.Paper, opts.CanvasSize, opts.Label)
}
