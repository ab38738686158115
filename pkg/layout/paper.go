package layout

import (
	"strings"

	"github.com/matzehuels/pagestack/pkg/errors"
)

// Orientation selects how a page's sides are assigned.
type Orientation int

const (
	// Portrait puts the long side vertically.
	Portrait Orientation = iota
	// Landscape puts the long side horizontally.
	Landscape
)

// String returns "Portrait" or "Landscape".
func (o Orientation) String() string {
	if o == Landscape {
		return "Landscape"
	}
	return "Portrait"
}

// Toggle returns the other orientation.
func (o Orientation) Toggle() Orientation {
	if o == Landscape {
		return Portrait
	}
	return Landscape
}

// ParseOrientation accepts "portrait"/"p" and "landscape"/"l" in any case.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "portrait", "p":
		return Portrait, nil
	case "landscape", "l":
		return Landscape, nil
	}
	return Portrait, errors.New(errors.ErrCodeInvalidOrientation,
		"invalid orientation: %s (must be 'portrait' or 'landscape')", s)
}

// Paper is a physical page format in portrait orientation.
// Width and Height are in PostScript points (1in = 72pt).
type Paper struct {
	Name   string
	Width  float64
	Height float64
}

// Standard page formats.
var (
	A4     = Paper{Name: "A4", Width: 595.28, Height: 841.89}  // 210mm x 297mm
	Letter = Paper{Name: "Letter", Width: 612, Height: 792}    // 8.5in x 11in
)

// papers is the lookup table for LookupPaper.
var papers = map[string]Paper{
	"a4":     A4,
	"letter": Letter,
}

// LookupPaper returns the paper format with the given case-insensitive name.
func LookupPaper(name string) (Paper, error) {
	if p, ok := papers[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p, nil
	}
	return Paper{}, errors.New(errors.ErrCodeInvalidPaper, "invalid paper size: %s (must be 'A4' or 'Letter')", name)
}

// Oriented returns the page size in points for orientation o.
func (p Paper) Oriented(o Orientation) Size {
	if o == Landscape {
		return Size{W: p.Height, H: p.Width}
	}
	return Size{W: p.Width, H: p.Height}
}

// Millimetres returns the page size in millimetres for orientation o,
// rounded to whole millimetres.
func (p Paper) Millimetres(o Orientation) Size {
	s := p.Oriented(o)
	const ptPerMM = 72 / 25.4
	return Size{W: roundHalf(s.W / ptPerMM), H: roundHalf(s.H / ptPerMM)}
}

func roundHalf(v float64) float64 {
	return float64(int(v + 0.5))
}
