package preview

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pagestack/internal/testimg"
	"github.com/matzehuels/pagestack/pkg/cache"
	"github.com/matzehuels/pagestack/pkg/errors"
	"github.com/matzehuels/pagestack/pkg/layout"
	"github.com/matzehuels/pagestack/pkg/observability"
)

func TestCanvasSize(t *testing.T) {
	r := NewRenderer()
	assert.Equal(t, image.Pt(282, 400), r.CanvasSize(layout.A4.Oriented(layout.Portrait)))
	assert.Equal(t, image.Pt(400, 282), r.CanvasSize(layout.A4.Oriented(layout.Landscape)))

	small := NewRenderer(WithCanvasSize(100))
	assert.Equal(t, image.Pt(70, 100), small.CanvasSize(layout.A4.Oriented(layout.Portrait)))

	ignored := NewRenderer(WithCanvasSize(0))
	assert.Equal(t, image.Pt(400, 282), ignored.CanvasSize(layout.A4.Oriented(layout.Landscape)))
}

func TestRenderPortrait(t *testing.T) {
	path := testimg.Write(t, t.TempDir(), "wide.png", 400, 300)
	r := NewRenderer()

	p, err := r.Render(context.Background(), path, layout.Portrait, layout.A4)
	require.NoError(t, err)

	assert.Equal(t, image.Pt(282, 400), p.Canvas)
	assert.Equal(t, p.Canvas, p.Image.Bounds().Size())
	assert.Equal(t, image.Rect(14, 105, 267, 294), p.Placement)
	assert.Equal(t, 400, p.Source.Width)
	assert.Equal(t, "Preview: Portrait A4", p.Label())
	assert.False(t, p.Cached)

	// Border pixels are light gray, the margin is white.
	assertColor(t, p.Image, 0, 200, borderColor)
	assertColor(t, p.Image, 1, 200, borderColor)
	assertColor(t, p.Image, 281, 399, borderColor)
	assertColor(t, p.Image, 8, 200, color.White)

	// Inside the placement the gradient shows through.
	c := color.NRGBAModel.Convert(p.Image.At(p.Placement.Max.X-2, p.Placement.Max.Y-2)).(color.NRGBA)
	assert.Greater(t, c.R, uint8(200))
	assert.Greater(t, c.G, uint8(200))
}

func TestRenderLandscapeSwapsCanvas(t *testing.T) {
	path := testimg.Write(t, t.TempDir(), "wide.png", 400, 300)
	r := NewRenderer()

	portrait, err := r.Render(context.Background(), path, layout.Portrait, layout.A4)
	require.NoError(t, err)
	landscape, err := r.Render(context.Background(), path, layout.Landscape, layout.A4)
	require.NoError(t, err)

	assert.Equal(t, image.Pt(portrait.Canvas.Y, portrait.Canvas.X), landscape.Canvas)
	// 4:3 on a landscape page is height limited: h = int(282*0.9) = 253.
	assert.Equal(t, 253, landscape.Placement.Dy())
	assert.Equal(t, 337, landscape.Placement.Dx())
	assert.Equal(t, "Preview: Landscape A4", landscape.Label())
}

func TestRenderLabel(t *testing.T) {
	path := testimg.Write(t, t.TempDir(), "tall.png", 10, 1000)

	with, err := NewRenderer().Render(context.Background(), path, layout.Portrait, layout.A4)
	require.NoError(t, err)
	without, err := NewRenderer(WithLabel(false)).Render(context.Background(), path, layout.Portrait, layout.A4)
	require.NoError(t, err)

	labelArea := image.Rect(5, 5, 60, 18)
	assert.True(t, hasColor(with.Image, labelArea, labelColor), "label should be drawn")
	assert.False(t, hasColor(without.Image, labelArea, labelColor), "label should be omitted")
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer()

	_, err := r.Render(context.Background(), filepath.Join(dir, "missing.png"), layout.Portrait, layout.A4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	garbage := testimg.WriteGarbage(t, dir, "bad.jpg")
	_, err = r.Render(context.Background(), garbage, layout.Portrait, layout.A4)
	require.Error(t, err)
	assert.True(t, errors.IsPerImage(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Render(ctx, garbage, layout.Portrait, layout.A4)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := testimg.Write(t, dir, "a.png", 64, 48)
	c, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	require.NoError(t, err)

	rec := &recordingHooks{}
	observability.SetPreviewHooks(rec)
	defer observability.Reset()

	r := NewRenderer(WithCache(c))
	first, err := r.Render(context.Background(), path, layout.Portrait, layout.A4)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := r.Render(context.Background(), path, layout.Portrait, layout.A4)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Placement, second.Placement)
	assert.Equal(t, first.Canvas, second.Canvas)

	// A different orientation is a different entry.
	third, err := r.Render(context.Background(), path, layout.Landscape, layout.A4)
	require.NoError(t, err)
	assert.False(t, third.Cached)

	assert.Equal(t, []bool{false, true, false}, rec.cached)
}

func TestRenderLandscapeLetter(t *testing.T) {
	path := testimg.Write(t, t.TempDir(), "tall.png", 50, 100)
	r := NewRenderer(WithCanvasSize(200))
	p, err := r.Render(context.Background(), path, layout.Landscape, layout.Letter)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(200, 154), p.Canvas)
	assert.Equal(t, layout.Letter, p.Paper)
}

func TestThumbnailAndPNG(t *testing.T) {
	path := testimg.Write(t, t.TempDir(), "a.png", 30, 30)
	p, err := NewRenderer().Render(context.Background(), path, layout.Portrait, layout.A4)
	require.NoError(t, err)

	th := Thumbnail(p, 141, 141)
	assert.Equal(t, image.Pt(99, 141), th.Bounds().Size())

	same := Thumbnail(p, 1000, 1000)
	assert.Equal(t, p.Canvas, same.Bounds().Size())

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, p))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, p.Canvas, decoded.Bounds().Size())

	out := filepath.Join(t.TempDir(), "preview.png")
	require.NoError(t, SavePNG(out, p))
	require.NoError(t, SavePNG(out, p), "overwrite")
	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func assertColor(t *testing.T, img image.Image, x, y int, want color.Color) {
	t.Helper()
	got := color.NRGBAModel.Convert(img.At(x, y))
	assert.Equal(t, color.NRGBAModel.Convert(want), got, "pixel (%d,%d)", x, y)
}

func hasColor(img image.Image, r image.Rectangle, want color.Color) bool {
	w := color.NRGBAModel.Convert(want)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if color.NRGBAModel.Convert(img.At(x, y)) == w {
				return true
			}
		}
	}
	return false
}

type recordingHooks struct {
	observability.NoopPreviewHooks
	cached []bool
}

func (h *recordingHooks) OnPreviewRendered(_ context.Context, _ string, cached bool, _ time.Duration) {
	h.cached = append(h.cached, cached)
}
