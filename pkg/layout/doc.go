// Package layout computes where an image lands on a page.
//
// A single rule places every image: scale it, preserving its aspect ratio,
// until its limiting dimension covers [MarginFactor] of the target, then center
// it. The rule is evaluated in two coordinate systems:
//
//   - [Fit] works in floating point and is used for the exported document,
//     where the target is the page size in PostScript points.
//   - [FitPixels] works on integer pixel grids and is used for the on-screen
//     preview canvas, which is a scaled-down page.
//
// Both share the same decision (compare image aspect to target aspect), so a
// preview is a faithful proxy for the exported page.
//
// # Paper
//
// [Paper] describes a physical page format and [Orientation] selects whether
// the long side is vertical ([Portrait]) or horizontal ([Landscape]):
//
//	size := layout.A4.Oriented(layout.Landscape) // 841.89 x 595.28 pt
//	r, err := layout.Fit(layout.Size{W: 4000, H: 3000}, size)
package layout
