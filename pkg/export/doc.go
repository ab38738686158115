// Package export writes an ordered list of images into one PDF, one image per page.
//
// Every page has the same size: the configured paper in the configured
// orientation. Each image is placed with [layout.Fit] against that page size
// in points, so it covers 90% of the limiting dimension and is centered.
//
// # Failure policy
//
//   - An empty image list is rejected before any file is touched.
//   - An image that is missing, in an unknown format or undecodable is skipped,
//     logged, and reported in [Result.Skipped]; the export continues with the
//     next image. Any other failure while building the document aborts it.
//   - If every image is skipped no document is written.
//   - Failing to write the finished document aborts the export. The document is
//     written to a temporary file next to the destination and renamed into
//     place, so a failed export never leaves a truncated file behind.
//
// # Usage
//
//	exp := export.New(
//	    export.WithPaper(layout.A4),
//	    export.WithOrientation(layout.Landscape),
//	)
//	res, err := exp.Export(ctx, paths, "album.pdf")
//
// [Inspect] reads a written document back and reports its page sizes.
package export
