package session

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pagestack/pkg/errors"
	"github.com/matzehuels/pagestack/pkg/layout"
)

func newFilled(t *testing.T, paths ...string) *Session {
	t.Helper()
	s := New()
	require.Equal(t, len(paths), s.Add(paths...))
	return s
}

func TestNewIsEmpty(t *testing.T) {
	s := New()
	assert.True(t, s.Empty())
	assert.Equal(t, -1, s.SelectedIndex())
	assert.Equal(t, layout.Portrait, s.Orientation())
	assert.Equal(t, layout.A4, s.Paper())

	_, ok := s.Selected()
	assert.False(t, ok)
}

func TestNewWithOptions(t *testing.T) {
	s := New(WithOrientation(layout.Landscape), WithPaper(layout.Letter))
	assert.Equal(t, layout.Landscape, s.Orientation())
	assert.Equal(t, layout.Letter, s.Paper())
	assert.Equal(t, layout.Size{W: 792, H: 612}, s.PageSize())
}

func TestAddSelectsLast(t *testing.T) {
	s := New()
	assert.Equal(t, 2, s.Add("a.png", "b.png"))
	assert.Equal(t, 1, s.SelectedIndex())

	assert.Equal(t, 1, s.Add("c.png"))
	assert.Equal(t, 2, s.SelectedIndex())
	if diff := cmp.Diff([]string{"a.png", "b.png", "c.png"}, s.Paths()); diff != "" {
		t.Errorf("Paths mismatch (-want +got):\n%s", diff)
	}
}

func TestAddDuplicateIsNoop(t *testing.T) {
	s := newFilled(t, "a.png", "b.png")
	require.NoError(t, s.Select(0))

	assert.Equal(t, 0, s.Add("a.png"))
	assert.Equal(t, 0, s.Add("./b.png"))
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("dir/../a.png"))
}

func TestAddDuplicateWithinBatch(t *testing.T) {
	s := New()
	assert.Equal(t, 1, s.Add("a.png", "a.png", ""))
	assert.Equal(t, 1, s.Len())
}

func TestAddNothing(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.Add())
	assert.Equal(t, -1, s.SelectedIndex())
}

func TestSelect(t *testing.T) {
	s := newFilled(t, "a.png", "b.png")
	require.NoError(t, s.Select(0))
	p, ok := s.Selected()
	assert.True(t, ok)
	assert.Equal(t, "a.png", p)

	err := s.Select(2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidSelection))
	assert.Equal(t, 0, s.SelectedIndex(), "failed select keeps previous selection")

	assert.Error(t, s.Select(-1))

	s.selected = noSelection
	assert.Equal(t, -1, s.SelectedIndex())
	_, ok = s.Selected()
	assert.False(t, ok)
}

func TestRemoveOnlyItemClearsSelection(t *testing.T) {
	s := newFilled(t, "a.png")
	assert.True(t, s.Remove())
	assert.True(t, s.Empty())
	assert.Equal(t, -1, s.SelectedIndex())
	assert.False(t, s.Remove())
}

func TestRemoveNonLastSelectsShiftedItem(t *testing.T) {
	s := newFilled(t, "a.png", "b.png", "c.png")
	require.NoError(t, s.Select(1))

	assert.True(t, s.Remove())
	assert.Equal(t, 1, s.SelectedIndex())
	p, _ := s.Selected()
	assert.Equal(t, "c.png", p)
}

func TestRemoveLastSelectsNewLast(t *testing.T) {
	s := newFilled(t, "a.png", "b.png", "c.png")

	assert.True(t, s.Remove())
	assert.Equal(t, 1, s.SelectedIndex())
	p, _ := s.Selected()
	assert.Equal(t, "b.png", p)
}

func TestRemoveWithoutSelection(t *testing.T) {
	s := newFilled(t, "a.png")
	s.selected = noSelection
	assert.False(t, s.Remove())
	assert.Equal(t, 1, s.Len())
}

func TestMoveBoundaries(t *testing.T) {
	s := newFilled(t, "a.png", "b.png", "c.png")

	require.NoError(t, s.Select(0))
	assert.False(t, s.MoveUp())
	assert.Equal(t, 0, s.SelectedIndex())

	require.NoError(t, s.Select(2))
	assert.False(t, s.MoveDown())
	assert.Equal(t, 2, s.SelectedIndex())

	s.selected = noSelection
	assert.False(t, s.MoveUp())
	assert.False(t, s.MoveDown())
}

func TestMoveSelectionFollowsItem(t *testing.T) {
	s := newFilled(t, "a.png", "b.png", "c.png")
	require.NoError(t, s.Select(1))

	assert.True(t, s.MoveUp())
	assert.Equal(t, 0, s.SelectedIndex())
	assert.Equal(t, []string{"b.png", "a.png", "c.png"}, s.Paths())

	assert.True(t, s.MoveDown())
	assert.True(t, s.MoveDown())
	assert.Equal(t, 2, s.SelectedIndex())
	assert.Equal(t, []string{"a.png", "c.png", "b.png"}, s.Paths())
}

func TestMoveIsPermutation(t *testing.T) {
	orig := []string{"a.png", "b.png", "c.png", "d.png"}

	for i := range orig {
		t.Run(orig[i], func(t *testing.T) {
			s := newFilled(t, orig...)
			require.NoError(t, s.Select(i))

			if i > 0 {
				require.True(t, s.MoveUp())
				require.True(t, s.MoveDown())
				assert.Equal(t, orig, s.Paths(), "up then down")
				assert.Equal(t, i, s.SelectedIndex())
			}
			if i < len(orig)-1 {
				require.True(t, s.MoveDown())
				require.True(t, s.MoveUp())
				assert.Equal(t, orig, s.Paths(), "down then up")
				assert.Equal(t, i, s.SelectedIndex())
			}
		})
	}
}

func TestOrientationChangeKeepsSequence(t *testing.T) {
	s := newFilled(t, "a.png", "b.png", "c.png")
	require.NoError(t, s.Select(1))
	before := s.Paths()

	assert.Equal(t, layout.Landscape, s.ToggleOrientation())
	assert.Equal(t, before, s.Paths())
	assert.Equal(t, 1, s.SelectedIndex())
	assert.Equal(t, layout.A4.Oriented(layout.Landscape), s.PageSize())

	assert.Equal(t, layout.Portrait, s.ToggleOrientation())
	assert.Equal(t, layout.Portrait, s.Orientation())
}

func TestPathsReturnsCopy(t *testing.T) {
	s := newFilled(t, "a.png")
	p := s.Paths()
	p[0] = "mutated"
	got, _ := s.At(0)
	assert.Equal(t, "a.png", got)
}

func TestSnapshot(t *testing.T) {
	s := newFilled(t, "a.png", "b.png")
	s.ToggleOrientation()
	snap := s.Snapshot()

	s.Remove()
	s.SetPaper(layout.Letter)

	want := Snapshot{
		Paths:       []string{"a.png", "b.png"},
		Orientation: layout.Landscape,
		Paper:       layout.A4,
	}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("Snapshot mismatch (-want +got):\n%s", diff)
	}
}
