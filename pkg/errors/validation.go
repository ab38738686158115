package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxPathLength bounds user-supplied paths.
const maxPathLength = 4096

// ValidatePath rejects empty paths, overlong paths and paths that contain
// control characters or null bytes.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateOutputPath validates a destination for an exported document.
// The destination must be a file path, not an existing directory marker, and
// if it carries an extension it must be .pdf.
func ValidateOutputPath(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path %q names a directory", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && ext != ".pdf" {
		return New(ErrCodeInvalidPath, "output must be a .pdf file, got %q", ext)
	}
	return nil
}

// NormalizeOutputPath appends the .pdf extension when path has none, the
// way a save dialog applies its default extension.
func NormalizeOutputPath(path string) string {
	if filepath.Ext(path) == "" {
		return path + ".pdf"
	}
	return path
}
