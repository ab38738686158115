package layout

import (
	"fmt"
	"image"

	"github.com/matzehuels/pagestack/pkg/errors"
)

// MarginFactor is the share of the target's limiting dimension an image covers.
const MarginFactor = 0.9

// Size is a width and height in arbitrary units (points or pixels).
type Size struct {
	W, H float64
}

// Aspect returns W/H.
func (s Size) Aspect() float64 { return s.W / s.H }

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool { return s.W > 0 && s.H > 0 }

// String formats the size as "WxH".
func (s Size) String() string { return fmt.Sprintf("%gx%g", s.W, s.H) }

// Rect is a placement rectangle. X and Y are offsets from the target's
// top-left corner; W and H are the drawn dimensions.
type Rect struct {
	X, Y float64
	W, H float64
}

// Right returns the right edge of the rectangle.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the bottom edge of the rectangle.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Margins returns the free space on each side of r inside target.
func (r Rect) Margins(target Size) (left, right, top, bottom float64) {
	return r.X, target.W - r.Right(), r.Y, target.H - r.Bottom()
}

// Fit places an image of size img inside target.
//
// If the image is relatively wider than the target (its aspect ratio is at
// least the target's), the drawn width is MarginFactor of the target width and
// the height follows from the image aspect. Otherwise the height is constrained
// the same way. The result is centered on both axes.
func Fit(img, target Size) (Rect, error) {
	if !img.Valid() {
		return Rect{}, errors.New(errors.ErrCodeInvalidInput, "image size %s must be positive", img)
	}
	if !target.Valid() {
		return Rect{}, errors.New(errors.ErrCodeInvalidInput, "target size %s must be positive", target)
	}

	imgAspect := img.Aspect()
	var w, h float64
	if imgAspect >= target.Aspect() {
		w = target.W * MarginFactor
		h = w / imgAspect
	} else {
		h = target.H * MarginFactor
		w = h * imgAspect
	}

	return Rect{
		X: (target.W - w) / 2,
		Y: (target.H - h) / 2,
		W: w,
		H: h,
	}, nil
}

// FitPixels is Fit on an integer pixel grid. Drawn dimensions and offsets are
// truncated toward zero, so the left and top margins may be up to one pixel
// smaller than their opposites. Drawn dimensions are never below one pixel.
func FitPixels(img, target image.Point) (image.Rectangle, error) {
	if img.X <= 0 || img.Y <= 0 {
		return image.Rectangle{}, errors.New(errors.ErrCodeInvalidInput, "image size %v must be positive", img)
	}
	if target.X <= 0 || target.Y <= 0 {
		return image.Rectangle{}, errors.New(errors.ErrCodeInvalidInput, "target size %v must be positive", target)
	}

	imgAspect := float64(img.X) / float64(img.Y)
	targetAspect := float64(target.X) / float64(target.Y)

	var w, h int
	if imgAspect >= targetAspect {
		w = int(float64(target.X) * MarginFactor)
		h = int(float64(w) / imgAspect)
	} else {
		h = int(float64(target.Y) * MarginFactor)
		w = int(float64(h) * imgAspect)
	}
	w = max(w, 1)
	h = max(h, 1)

	x := (target.X - w) / 2
	y := (target.Y - h) / 2
	return image.Rect(x, y, x+w, y+h), nil
}
