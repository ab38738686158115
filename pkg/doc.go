// Package pkg provides the libraries behind pagestack, a tool that combines
// images into a PDF with one image per page.
//
// # Overview
//
// Every page in a document has the same size, chosen from a paper format and
// an orientation. Each image is scaled so that it covers 90% of the page along
// its limiting dimension and is centered. The same placement rule drives the
// on-screen preview (in pixels) and the exported document (in points).
//
// # Packages
//
//   - [layout] - placement arithmetic, paper formats and orientation
//   - [session] - the ordered image list edited interactively
//   - [raster] - image decoding and path expansion
//   - [preview] - page preview canvases, cached on disk
//   - [export] - PDF writing and read-back
//   - [config] - user preferences from TOML and the environment
//   - [cache] - the file cache used for previews
//   - [observability] - progress hooks for preview and export
//   - [errors] - error codes and path validation
//   - [buildinfo] - version information set at build time
//
// # Data Flow
//
//	image files
//	     ↓
//	[raster] package (decode, expand globs and directories)
//	     ↓
//	[session] package (order, selection, orientation)
//	     ↓
//	[layout] package (fit each image to the page)
//	     ↓
//	[preview] PNG canvas  /  [export] multi-page PDF
//
// # Quick Start
//
//	exp := export.New(export.WithOrientation(layout.Landscape))
//	res, err := exp.Export(ctx, []string{"a.jpg", "b.png"}, "album.pdf")
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d pages\n", len(res.Pages))
package pkg
