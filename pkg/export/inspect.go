package export

import (
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/matzehuels/pagestack/pkg/errors"
	"github.com/matzehuels/pagestack/pkg/layout"
)

// Document describes a PDF read back from disk.
type Document struct {
	Path  string
	Pages []layout.Size // media box size per page, in points
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.Pages) }

// Inspect reads the PDF at path and reports its page sizes.
func Inspect(path string) (*Document, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	// pdfcpu would otherwise create a configuration directory on first use.
	model.ConfigPath = "disable"

	n, err := api.PageCountFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	dims, err := api.PageDimsFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read page sizes of %s", path)
	}
	if len(dims) != n {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: %d pages but %d page sizes", path, n, len(dims))
	}

	doc := &Document{Path: path, Pages: make([]layout.Size, 0, n)}
	for _, d := range dims {
		doc.Pages = append(doc.Pages, layout.Size{W: d.Width, H: d.Height})
	}
	return doc, nil
}
