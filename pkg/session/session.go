// Package session holds the state of one image-to-document conversion task.
//
// A [Session] is an ordered list of image paths, the currently selected
// index, and the page settings (orientation and paper) that apply to every
// page of the exported document. It starts empty and is never persisted.
//
// # Selection
//
// The selection is either absent (index -1) or a valid index into the list.
// Every mutating operation restores that invariant:
//
//   - Add selects the last entry of the list
//   - Remove keeps the same index (the item that shifted into place), or the
//     new last index, or clears the selection when the list becomes empty
//   - MoveUp and MoveDown move the selection with the item
//
// # Concurrency
//
// A Session is owned by a single goroutine (the interactive view or a CLI
// command). It performs no locking; hand other goroutines a copy from Paths.
package session

import (
	"path/filepath"
	"slices"

	"github.com/matzehuels/pagestack/pkg/errors"
	"github.com/matzehuels/pagestack/pkg/layout"
)

// noSelection marks an absent selection.
const noSelection = -1

// Session stores the image order, selection and page settings.
type Session struct {
	paths       []string
	selected    int
	orientation layout.Orientation
	paper       layout.Paper
}

// Option configures a new Session.
type Option func(*Session)

// WithOrientation sets the initial orientation (default Portrait).
func WithOrientation(o layout.Orientation) Option {
	return func(s *Session) { s.orientation = o }
}

// WithPaper sets the paper format (default A4).
func WithPaper(p layout.Paper) Option {
	return func(s *Session) { s.paper = p }
}

// New creates an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		selected:    noSelection,
		orientation: layout.Portrait,
		paper:       layout.A4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len returns the number of images in the session.
func (s *Session) Len() int { return len(s.paths) }

// Empty reports whether the session has no images.
func (s *Session) Empty() bool { return len(s.paths) == 0 }

// Paths returns a copy of the image paths in order.
func (s *Session) Paths() []string { return slices.Clone(s.paths) }

// At returns the path at index i.
func (s *Session) At(i int) (string, bool) {
	if i < 0 || i >= len(s.paths) {
		return "", false
	}
	return s.paths[i], true
}

// Contains reports whether path is already part of the session.
func (s *Session) Contains(path string) bool {
	return slices.Contains(s.paths, filepath.Clean(path))
}

// Add appends every path that is not already present, in the given order,
// and returns how many were appended. When at least one path was offered the
// last entry of the list becomes selected.
func (s *Session) Add(paths ...string) int {
	added := 0
	for _, p := range paths {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		if slices.Contains(s.paths, p) {
			continue
		}
		s.paths = append(s.paths, p)
		added++
	}
	if len(paths) > 0 && len(s.paths) > 0 {
		s.selected = len(s.paths) - 1
	}
	return added
}

// Select makes index i the current selection.
func (s *Session) Select(i int) error {
	if i < 0 || i >= len(s.paths) {
		return errors.New(errors.ErrCodeInvalidSelection, "index %d out of range [0,%d)", i, len(s.paths))
	}
	s.selected = i
	return nil
}

// SelectedIndex returns the selected index, or -1 when nothing is selected.
func (s *Session) SelectedIndex() int { return s.selected }

// Selected returns the selected path.
func (s *Session) Selected() (string, bool) {
	return s.At(s.selected)
}

// Remove deletes the selected image. The selection moves to the item that
// shifted into the removed position, or to the new last item, and is cleared
// when the list becomes empty. It returns false when nothing was selected.
func (s *Session) Remove() bool {
	idx := s.selected
	if idx == noSelection {
		return false
	}
	s.paths = slices.Delete(s.paths, idx, idx+1)
	if len(s.paths) == 0 {
		s.selected = noSelection
		return true
	}
	s.selected = min(idx, len(s.paths)-1)
	return true
}

// MoveUp swaps the selected image with its predecessor. The selection
// follows the moved image. It returns false at the top boundary or when
// nothing is selected.
func (s *Session) MoveUp() bool {
	idx := s.selected
	if idx <= 0 {
		return false
	}
	s.paths[idx], s.paths[idx-1] = s.paths[idx-1], s.paths[idx]
	s.selected = idx - 1
	return true
}

// MoveDown swaps the selected image with its successor. The selection
// follows the moved image. It returns false at the bottom boundary or when
// nothing is selected.
func (s *Session) MoveDown() bool {
	idx := s.selected
	if idx == noSelection || idx >= len(s.paths)-1 {
		return false
	}
	s.paths[idx], s.paths[idx+1] = s.paths[idx+1], s.paths[idx]
	s.selected = idx + 1
	return true
}

// Orientation returns the page orientation shared by all pages.
func (s *Session) Orientation() layout.Orientation { return s.orientation }

// ToggleOrientation flips between Portrait and Landscape and returns the new
// value. The image list and selection are untouched.
func (s *Session) ToggleOrientation() layout.Orientation {
	s.orientation = s.orientation.Toggle()
	return s.orientation
}

// Paper returns the paper format.
func (s *Session) Paper() layout.Paper { return s.paper }

// SetPaper changes the paper format.
func (s *Session) SetPaper(p layout.Paper) { s.paper = p }

// PageSize returns the oriented page size in points.
func (s *Session) PageSize() layout.Size { return s.paper.Oriented(s.orientation) }

// Snapshot is an immutable copy of the parts of a session an export needs.
type Snapshot struct {
	Paths       []string
	Orientation layout.Orientation
	Paper       layout.Paper
}

// Snapshot copies the current export inputs.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Paths:       s.Paths(),
		Orientation: s.orientation,
		Paper:       s.paper,
	}
}
