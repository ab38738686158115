// Package raster loads source images.
//
// Decoders for JPEG, PNG and GIF come from the standard library; BMP, TIFF and
// WebP are registered from golang.org/x/image. Every error carries a code from
// pkg/errors so callers can tell a single unusable image apart from a fatal
// failure.
package raster

import (
	"bufio"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/matzehuels/pagestack/pkg/errors"
)

// Format names as reported by image.DecodeConfig.
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatGIF  = "gif"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
	FormatWebP = "webp"
)

// Extensions lists the file extensions offered for selection.
var Extensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".tif", ".tiff", ".webp"}

// Info describes a decoded image header.
type Info struct {
	Path   string
	Format string
	Width  int
	Height int
}

// Size returns the pixel dimensions as a point.
func (i Info) Size() image.Point { return image.Pt(i.Width, i.Height) }

// Supported reports whether path has one of the selectable image extensions.
func Supported(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// Config reads only the image header of path.
func Config(path string) (Info, error) {
	f, err := open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(bufio.NewReader(f))
	if err != nil {
		return Info{}, decodeError(path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, errors.New(errors.ErrCodeImageDecode, "%s has no pixels (%dx%d)", path, cfg.Width, cfg.Height)
	}
	return Info{Path: path, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// Load fully decodes the image at path.
func Load(path string) (image.Image, Info, error) {
	f, err := open(path)
	if err != nil {
		return nil, Info{}, err
	}
	defer f.Close()
	return Decode(f, path)
}

// Decode decodes an image from r. The name is used in error messages and
// copied into the returned Info.
func Decode(r io.Reader, name string) (image.Image, Info, error) {
	img, format, err := image.Decode(bufio.NewReader(r))
	if err != nil {
		return nil, Info{}, decodeError(name, err)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, Info{}, errors.New(errors.ErrCodeImageDecode, "%s has no pixels", name)
	}
	return img, Info{Path: name, Format: format, Width: b.Dx(), Height: b.Dy()}, nil
}

func open(path string) (*os.File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeImageDecode, err, "open %s", path)
	}
	return f, nil
}

func decodeError(path string, err error) error {
	if err == image.ErrFormat {
		return errors.Wrap(errors.ErrCodeUnsupportedFormat, err, "%s is not a supported image", path)
	}
	return errors.Wrap(errors.ErrCodeImageDecode, err, "decode %s", path)
}

// Expand resolves patterns into image paths, the way a file picker would.
// Each pattern may be a file, a directory (its supported images, sorted by
// name, non-recursive) or a glob. Plain files are passed through even when
// their extension is unknown so the caller can report a precise error later;
// directory and glob matches are filtered by Supported. Patterns that match
// nothing are an error.
func Expand(patterns []string) ([]string, error) {
	var out []string
	for _, p := range patterns {
		if err := errors.ValidatePath(p); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		switch {
		case err == nil && info.IsDir():
			files, err := listDir(p)
			if err != nil {
				return nil, err
			}
			out = append(out, files...)
			continue
		case err == nil:
			out = append(out, p)
			continue
		}

		matches, gerr := filepath.Glob(p)
		if gerr != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, gerr, "bad pattern %q", p)
		}
		var found []string
		for _, m := range matches {
			if fi, err := os.Stat(m); err == nil && !fi.IsDir() && Supported(m) {
				found = append(found, m)
			}
		}
		if len(found) == 0 {
			return nil, errors.New(errors.ErrCodeFileNotFound, "no images match %q", p)
		}
		out = append(out, found...)
	}
	return out, nil
}

func listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read directory %s", dir)
	}
	var out []string
	for _, e := range entries {
		if e.Type()&fs.ModeType != 0 || !Supported(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}
