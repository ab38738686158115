// Package preview renders a scaled-down page showing where an image will land.
//
// The canvas is a white page with the proportions of the selected paper and
// orientation, a light border, the image resampled into the placement that
// [layout.FitPixels] computes, and the orientation name in the top-left
// corner. It is the same placement rule the exported document uses, so the
// preview is a faithful proxy for the output.
//
// A [Preview] is a value the caller owns outright. Each recomputation returns
// a new one; callers replace their current preview wholesale and nothing in
// this package retains references to returned images.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/pagestack/pkg/cache"
	"github.com/matzehuels/pagestack/pkg/errors"
	"github.com/matzehuels/pagestack/pkg/layout"
	"github.com/matzehuels/pagestack/pkg/observability"
	"github.com/matzehuels/pagestack/pkg/raster"
)

// DefaultCanvasSize is the length in pixels of the canvas' long side.
const DefaultCanvasSize = 400

var (
	pageColor   = color.White
	borderColor = color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	labelColor  = color.NRGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
)

const (
	borderWidth = 2
	labelInset  = 5
)

// Preview is one rendered page canvas.
type Preview struct {
	// Image is the full canvas including border and label.
	Image image.Image
	// Canvas is the canvas size in pixels.
	Canvas image.Point
	// Placement is where the source image was drawn on the canvas.
	Placement image.Rectangle
	// Source describes the previewed image.
	Source raster.Info
	// Orientation and Paper the canvas represents.
	Orientation layout.Orientation
	Paper       layout.Paper
	// Cached reports whether the canvas was served from the cache.
	Cached bool
}

// Label returns the caption shown above the preview, e.g. "Preview: Portrait A4".
func (p *Preview) Label() string {
	return Label(p.Orientation, p.Paper)
}

// Label formats the caption for an orientation and paper.
func Label(o layout.Orientation, paper layout.Paper) string {
	return fmt.Sprintf("Preview: %s %s", o, paper.Name)
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithCanvasSize sets the canvas' long side in pixels.
func WithCanvasSize(px int) Option {
	return func(r *Renderer) {
		if px > 0 {
			r.canvasSize = px
		}
	}
}

// WithCache stores rendered canvases in c.
func WithCache(c cache.Cache) Option {
	return func(r *Renderer) {
		if c != nil {
			r.cache = c
		}
	}
}

// WithLabel toggles the orientation text drawn on the canvas.
func WithLabel(on bool) Option {
	return func(r *Renderer) { r.label = on }
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// Renderer produces page previews.
type Renderer struct {
	canvasSize int
	cache      cache.Cache
	label      bool
	logger     *log.Logger
}

// NewRenderer creates a renderer with a 400px canvas, the orientation label
// enabled and no cache.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		canvasSize: DefaultCanvasSize,
		cache:      cache.NewNullCache(),
		label:      true,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CanvasSize returns the pixel size of the canvas for a page. The long side
// is the renderer's canvas size; the short side keeps the page proportions,
// truncated to whole pixels.
func (r *Renderer) CanvasSize(page layout.Size) image.Point {
	n := float64(r.canvasSize)
	if page.Aspect() > 1 {
		return image.Pt(r.canvasSize, max(int(n/page.Aspect()), 1))
	}
	return image.Pt(max(int(n*page.Aspect()), 1), r.canvasSize)
}

// Render previews the image at path on a page of the given orientation and paper.
func (r *Renderer) Render(ctx context.Context, path string, o layout.Orientation, paper layout.Paper) (*Preview, error) {
	start := time.Now()
	p, err := r.render(ctx, path, o, paper)
	if err != nil {
		observability.Preview().OnPreviewError(ctx, path, err)
		return nil, err
	}
	observability.Preview().OnPreviewRendered(ctx, path, p.Cached, time.Since(start))
	return p, nil
}

func (r *Renderer) render(ctx context.Context, path string, o layout.Orientation, paper layout.Paper) (*Preview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key, keyErr := r.cacheKey(path, o, paper)
	if keyErr == nil {
		if p, ok := r.fromCache(ctx, key, path, o, paper); ok {
			return p, nil
		}
	}

	src, info, err := raster.Load(path)
	if err != nil {
		return nil, err
	}

	p, err := r.compose(src, info, o, paper)
	if err != nil {
		return nil, err
	}

	if keyErr == nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, p.Image); err == nil {
			if err := r.cache.Set(ctx, key, buf.Bytes(), cache.DefaultTTL); err != nil {
				r.logger.Debug("Preview cache write failed", "path", path, "err", err)
			}
		}
	}
	return p, nil
}

func (r *Renderer) compose(src image.Image, info raster.Info, o layout.Orientation, paper layout.Paper) (*Preview, error) {
	canvasSize := r.CanvasSize(paper.Oriented(o))
	placement, err := layout.FitPixels(info.Size(), canvasSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageDecode, err, "place %s", info.Path)
	}

	canvas := imaging.New(canvasSize.X, canvasSize.Y, pageColor)
	drawBorder(canvas)

	resized := imaging.Resize(src, placement.Dx(), placement.Dy(), imaging.Lanczos)
	canvas = imaging.Paste(canvas, resized, placement.Min)

	if r.label {
		drawLabel(canvas, o.String())
	}

	return &Preview{
		Image:       canvas,
		Canvas:      canvasSize,
		Placement:   placement,
		Source:      info,
		Orientation: o,
		Paper:       paper,
	}, nil
}

func (r *Renderer) cacheKey(path string, o layout.Orientation, paper layout.Paper) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	return cache.PreviewKey(cache.PreviewKeyOpts{
		Path:        abs,
		Size:        fi.Size(),
		ModTime:     fi.ModTime(),
		Orientation: o.String(),
		Paper:       paper.Name,
		CanvasSize:  r.canvasSize,
		Label:       r.label,
	}), nil
}

func (r *Renderer) fromCache(ctx context.Context, key, path string, o layout.Orientation, paper layout.Paper) (*Preview, bool) {
	data, hit, err := r.cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		r.logger.Debug("Discarding unreadable cached preview", "path", path, "err", err)
		_ = r.cache.Delete(ctx, key)
		return nil, false
	}
	info, err := raster.Config(path)
	if err != nil {
		return nil, false
	}
	canvasSize := r.CanvasSize(paper.Oriented(o))
	if img.Bounds().Size() != canvasSize {
		return nil, false
	}
	placement, err := layout.FitPixels(info.Size(), canvasSize)
	if err != nil {
		return nil, false
	}
	r.logger.Debug("Preview served from cache", "path", path)
	return &Preview{
		Image:       img,
		Canvas:      canvasSize,
		Placement:   placement,
		Source:      info,
		Orientation: o,
		Paper:       paper,
		Cached:      true,
	}, true
}

// drawBorder outlines the canvas with a borderWidth-pixel frame.
func drawBorder(dst *image.NRGBA) {
	b := dst.Bounds()
	for i := 0; i < borderWidth; i++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, b.Min.Y+i, borderColor)
			dst.Set(x, b.Max.Y-1-i, borderColor)
		}
		for y := b.Min.Y; y < b.Max.Y; y++ {
			dst.Set(b.Min.X+i, y, borderColor)
			dst.Set(b.Max.X-1-i, y, borderColor)
		}
	}
}

// drawLabel writes text with its top-left corner at (labelInset, labelInset).
func drawLabel(dst *image.NRGBA, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelColor),
		Face: face,
		Dot:  fixed.P(labelInset, labelInset+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

// Thumbnail scales the canvas down to fit within maxW x maxH, keeping its
// proportions. Canvases that already fit are returned unchanged.
func Thumbnail(p *Preview, maxW, maxH int) image.Image {
	return imaging.Fit(p.Image, max(maxW, 1), max(maxH, 1), imaging.Lanczos)
}

// WritePNG encodes the canvas as PNG.
func WritePNG(w io.Writer, p *Preview) error {
	return png.Encode(w, p.Image)
}

// SavePNG writes the canvas to path, replacing any existing file atomically.
func SavePNG(path string, p *Preview) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".preview-*.png")
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportWrite, err, "create preview file")
	}
	if err := WritePNG(tmp, p); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeExportWrite, err, "encode preview")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeExportWrite, err, "write preview")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeExportWrite, err, "write preview %s", path)
	}
	return nil
}
