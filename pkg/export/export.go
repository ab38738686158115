package export

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"

	"github.com/matzehuels/pagestack/pkg/buildinfo"
	"github.com/matzehuels/pagestack/pkg/errors"
	"github.com/matzehuels/pagestack/pkg/layout"
	"github.com/matzehuels/pagestack/pkg/observability"
	"github.com/matzehuels/pagestack/pkg/raster"
)

// Page records where one source image was placed.
type Page struct {
	Number    int         // 1-based page number in the output
	Source    string      // source image path
	Placement layout.Rect // in points, offsets from the page's top-left corner
}

// Skip records an image that was left out of the document.
type Skip struct {
	Index int // position in the input list
	Path  string
	Err   error
}

// Result summarizes a finished export.
type Result struct {
	Path     string
	PageSize layout.Size
	Pages    []Page
	Skipped  []Skip
	Duration time.Duration
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithPaper sets the page format (default A4).
func WithPaper(p layout.Paper) Option {
	return func(e *Exporter) { e.paper = p }
}

// WithOrientation sets the page orientation for every page (default Portrait).
func WithOrientation(o layout.Orientation) Option {
	return func(e *Exporter) { e.orientation = o }
}

// WithMetadata sets the document title and author.
func WithMetadata(title, author string) Option {
	return func(e *Exporter) {
		e.title = title
		e.author = author
	}
}

// WithCompression toggles stream compression (default on).
func WithCompression(on bool) Option {
	return func(e *Exporter) { e.compress = on }
}

// WithLogger sets the logger used for per-image diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// Exporter turns image lists into PDF documents.
type Exporter struct {
	paper       layout.Paper
	orientation layout.Orientation
	title       string
	author      string
	compress    bool
	logger      *log.Logger
	now         func() time.Time

	// load returns embeddable bytes for one source image.
	load func(path string) ([]byte, string, raster.Info, error)
}

// New creates an Exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		paper:       layout.A4,
		orientation: layout.Portrait,
		compress:    true,
		logger:      log.Default(),
		now:         time.Now,
		load:        embeddable,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PageSize returns the page size in points.
func (e *Exporter) PageSize() layout.Size {
	return e.paper.Oriented(e.orientation)
}

// Export writes paths, in order, to dest. A missing extension on dest is
// completed to .pdf.
func (e *Exporter) Export(ctx context.Context, paths []string, dest string) (res *Result, err error) {
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no images selected")
	}
	if err := errors.ValidateOutputPath(dest); err != nil {
		return nil, err
	}
	dest = errors.NormalizeOutputPath(dest)

	start := time.Now()
	hooks := observability.Export()
	hooks.OnExportStart(ctx, len(paths), dest)
	defer func() {
		pages := 0
		if res != nil {
			pages = len(res.Pages)
		}
		hooks.OnExportComplete(ctx, pages, time.Since(start), err)
	}()

	pdf, res, err := e.build(ctx, paths)
	if err != nil {
		return nil, err
	}
	res.Path = dest

	if err := writeAtomic(dest, pdf.Output); err != nil {
		return nil, err
	}
	res.Duration = time.Since(start)
	e.logger.Info("Exported document", "path", dest, "pages", len(res.Pages), "skipped", len(res.Skipped))
	return res, nil
}

// Write renders paths as a document into w. It applies the same skip policy
// as Export but leaves file handling to the caller.
func (e *Exporter) Write(ctx context.Context, paths []string, w io.Writer) (res *Result, err error) {
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no images selected")
	}

	start := time.Now()
	hooks := observability.Export()
	hooks.OnExportStart(ctx, len(paths), "")
	defer func() {
		pages := 0
		if res != nil {
			pages = len(res.Pages)
		}
		hooks.OnExportComplete(ctx, pages, time.Since(start), err)
	}()

	pdf, res, err := e.build(ctx, paths)
	if err != nil {
		return nil, err
	}
	if err := pdf.Output(w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportWrite, err, "write document")
	}
	res.Duration = time.Since(start)
	return res, nil
}

func (e *Exporter) build(ctx context.Context, paths []string) (*gofpdf.Fpdf, *Result, error) {
	page := e.PageSize()
	pdf := e.newDocument(page)
	res := &Result{PageSize: page}
	hooks := observability.Export()

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		hooks.OnImageStart(ctx, i, len(paths), path)
		e.logger.Debug("Processing image", "index", i+1, "total", len(paths), "path", path)

		placement, err := e.addImage(pdf, i, path, page)
		if err != nil && !errors.IsPerImage(err) {
			return nil, nil, err
		}
		if err != nil {
			e.logger.Warn("Could not process image", "path", path, "err", err)
			hooks.OnImageSkipped(ctx, i, path, err)
			res.Skipped = append(res.Skipped, Skip{Index: i, Path: path, Err: err})
			continue
		}
		res.Pages = append(res.Pages, Page{Number: len(res.Pages) + 1, Source: path, Placement: placement})
	}

	if len(res.Pages) == 0 {
		return nil, res, errors.New(errors.ErrCodeExportEmpty, "none of the %d images could be placed", len(paths))
	}
	if pdf.Err() {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, pdf.Error(), "build document")
	}
	return pdf, res, nil
}

func (e *Exporter) newDocument(page layout.Size) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: page.W, Ht: page.H},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(e.compress)
	pdf.SetCreator(buildinfo.Producer(), true)
	pdf.SetCreationDate(e.now())
	if e.title != "" {
		pdf.SetTitle(e.title, true)
	}
	if e.author != "" {
		pdf.SetAuthor(e.author, true)
	}
	return pdf
}

// addImage registers the image at path and places it on a new page. Errors
// about the source image are per-image; a rejected registration means the
// document itself is broken and is reported as internal.
func (e *Exporter) addImage(pdf *gofpdf.Fpdf, index int, path string, page layout.Size) (layout.Rect, error) {
	data, imageType, info, err := e.load(path)
	if err != nil {
		return layout.Rect{}, err
	}

	placement, err := layout.Fit(layout.Size{W: float64(info.Width), H: float64(info.Height)}, page)
	if err != nil {
		return layout.Rect{}, errors.Wrap(errors.ErrCodeImageDecode, err, "place %s", path)
	}

	name := fmt.Sprintf("img%d", index)
	opts := gofpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if pdf.Err() {
		return layout.Rect{}, errors.Wrap(errors.ErrCodeInternal, pdf.Error(), "embed %s", path)
	}

	pdf.AddPage()
	pdf.ImageOptions(name, placement.X, placement.Y, placement.W, placement.H, false, opts, 0, "")
	return placement, nil
}

// embeddable returns bytes the PDF writer can embed directly. JPEG files are
// passed through untouched; everything else is decoded and re-encoded as an
// 8-bit PNG.
func embeddable(path string) ([]byte, string, raster.Info, error) {
	img, info, err := raster.Load(path)
	if err != nil {
		return nil, "", raster.Info{}, err
	}

	if info.Format == raster.FormatJPEG {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", raster.Info{}, errors.Wrap(errors.ErrCodeImageDecode, err, "read %s", path)
		}
		return data, "JPG", info, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.Clone(img)); err != nil {
		return nil, "", raster.Info{}, errors.Wrap(errors.ErrCodeImageDecode, err, "re-encode %s", path)
	}
	return buf.Bytes(), "PNG", info, nil
}

// writeAtomic writes via a temporary file in the destination directory.
func writeAtomic(dest string, write func(io.Writer) error) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportWrite, err, "cannot write to %s", dir)
	}
	cleanup := func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}

	if err := write(tmp); err != nil {
		cleanup()
		return errors.Wrap(errors.ErrCodeExportWrite, err, "write %s", dest)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeExportWrite, err, "write %s", dest)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeExportWrite, err, "write %s", dest)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeExportWrite, err, "cannot replace %s", dest)
	}
	return nil
}
