package cli

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pagestack/pkg/errors"
	"github.com/matzehuels/pagestack/pkg/export"
	"github.com/matzehuels/pagestack/pkg/layout"
	"github.com/matzehuels/pagestack/pkg/preview"
	"github.com/matzehuels/pagestack/pkg/raster"
	"github.com/matzehuels/pagestack/pkg/session"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorRed).
			Padding(1, 3)
)

const (
	halfBlock = "▀"

	defaultPreviewCols = 40
	defaultPreviewRows = 24
	defaultListHeight  = 20
)

// =============================================================================
// SessionModel - Interactive image list and preview
// =============================================================================

type sessionMode int

const (
	modeBrowse sessionMode = iota
	modeAdd
	modeExportDest
	modeExporting
)

// exporterFunc builds an exporter for a snapshot's page settings.
type exporterFunc func(layout.Orientation, layout.Paper) *export.Exporter

// previewMsg delivers a rendered preview. Results with a stale seq are dropped.
type previewMsg struct {
	seq     int
	preview *preview.Preview
	err     error
}

// exportProgressMsg reports one image of a running export. err is set when
// the image was skipped.
type exportProgressMsg struct {
	index int
	total int
	path  string
	err   error
}

// exportDoneMsg reports the end of an export started from the session.
type exportDoneMsg struct {
	result *export.Result
	err    error
}

// SessionModel is the bubbletea model for an editing session.
//
// The model owns exactly one current preview and swaps it whole whenever the
// selection or orientation changes.
type SessionModel struct {
	ctx         context.Context
	sess        *session.Session
	renderer    *preview.Renderer
	newExporter exporterFunc
	exports     *sync.WaitGroup

	mode   sessionMode
	input  string
	output string

	current    *preview.Preview
	previewErr error
	previewSeq int

	status    string
	statusErr bool
	dialog    string

	width  int
	height int
}

// NewSessionModel creates a session model. output is the default export
// destination offered by the export prompt.
func NewSessionModel(ctx context.Context, sess *session.Session, r *preview.Renderer, exp exporterFunc, output string) SessionModel {
	return SessionModel{
		ctx:         ctx,
		sess:        sess,
		renderer:    r,
		newExporter: exp,
		exports:     &sync.WaitGroup{},
		output:      output,
	}
}

// Wait blocks until exports started by the model have returned.
func (m SessionModel) Wait() {
	m.exports.Wait()
}

func (m SessionModel) Init() tea.Cmd {
	return m.previewCmd()
}

func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case previewMsg:
		if msg.seq != m.previewSeq {
			return m, nil
		}
		m.current, m.previewErr = msg.preview, msg.err
		if msg.err != nil {
			m.setError(errors.UserMessage(msg.err))
		}
		return m, nil

	case exportProgressMsg:
		if m.mode != modeExporting {
			return m, nil
		}
		if msg.err != nil {
			m.setError("Skipped " + filepath.Base(msg.path) + ": " + errors.UserMessage(msg.err))
			return m, nil
		}
		m.setStatus(progressText(msg.index, msg.total))
		return m, nil

	case exportDoneMsg:
		m.mode = modeBrowse
		if msg.err != nil {
			m.dialog = "Export failed\n\n" + errors.UserMessage(msg.err)
			m.setError("Export failed")
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Exported %d pages to %s", len(msg.result.Pages), msg.result.Path))
		if n := len(msg.result.Skipped); n > 0 {
			m.setError(fmt.Sprintf("Exported %d pages to %s, skipped %d unreadable images", len(msg.result.Pages), msg.result.Path, n))
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.dialog != "" {
			m.dialog = ""
			return m, nil
		}
		switch m.mode {
		case modeExporting:
			return m, nil
		case modeAdd, modeExportDest:
			return m.updatePrompt(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m SessionModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if i := m.sess.SelectedIndex(); i > 0 {
			_ = m.sess.Select(i - 1)
			cmd := m.refreshPreview()
			return m, cmd
		}
		if m.sess.SelectedIndex() < 0 && !m.sess.Empty() {
			_ = m.sess.Select(0)
			cmd := m.refreshPreview()
			return m, cmd
		}
	case "down", "j":
		if i := m.sess.SelectedIndex(); i < m.sess.Len()-1 {
			_ = m.sess.Select(i + 1)
			cmd := m.refreshPreview()
			return m, cmd
		}
	case "shift+up", "K":
		if m.sess.MoveUp() {
			m.setStatus("Moved up")
		}
	case "shift+down", "J":
		if m.sess.MoveDown() {
			m.setStatus("Moved down")
		}
	case "x", "delete":
		if path, ok := m.sess.Selected(); ok {
			m.sess.Remove()
			m.setStatus("Removed " + filepath.Base(path))
			cmd := m.refreshPreview()
			return m, cmd
		}
	case "p":
		paper := layout.Letter
		if m.sess.Paper() == layout.Letter {
			paper = layout.A4
		}
		m.sess.SetPaper(paper)
		m.setStatus("Paper: " + paper.Name)
		cmd := m.refreshPreview()
		return m, cmd
	case "o":
		o := m.sess.ToggleOrientation()
		m.setStatus("Orientation: " + o.String())
		cmd := m.refreshPreview()
		return m, cmd
	case "a":
		m.mode = modeAdd
		m.input = ""
	case "e":
		if m.sess.Empty() {
			m.dialog = errors.UserMessage(errors.New(errors.ErrCodeEmptyInput, "No images selected"))
			m.setError("Nothing to export")
			return m, nil
		}
		m.mode = modeExportDest
		m.input = m.output
	}
	return m, nil
}

func (m SessionModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.mode == modeExportDest {
			m.setStatus("Export cancelled")
		}
		m.mode = modeBrowse
		m.input = ""
		return m, nil
	case tea.KeyEnter:
		input := strings.TrimSpace(m.input)
		mode := m.mode
		m.mode = modeBrowse
		m.input = ""
		if mode == modeAdd {
			return m.add(input)
		}
		return m.startExport(input)
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

// add expands pattern and appends the matches to the session.
func (m SessionModel) add(pattern string) (tea.Model, tea.Cmd) {
	if pattern == "" {
		return m, nil
	}
	paths, err := raster.Expand([]string{pattern})
	if err != nil {
		m.setError(errors.UserMessage(err))
		return m, nil
	}
	n := m.sess.Add(paths...)
	switch {
	case n == 0:
		m.setStatus("Already in the list")
	case n == 1:
		m.setStatus("Added " + filepath.Base(paths[len(paths)-1]))
	default:
		m.setStatus(fmt.Sprintf("Added %d images", n))
	}
	cmd := m.refreshPreview()
	return m, cmd
}

// startExport runs the export on a snapshot so later edits cannot affect it.
func (m SessionModel) startExport(dest string) (tea.Model, tea.Cmd) {
	if dest == "" {
		dest = m.output
	}
	if err := errors.ValidateOutputPath(dest); err != nil {
		m.dialog = errors.UserMessage(err)
		m.setError("Invalid destination")
		return m, nil
	}
	m.output = errors.NormalizeOutputPath(dest)
	m.mode = modeExporting
	m.setStatus("Exporting...")

	snap := m.sess.Snapshot()
	exp := m.newExporter(snap.Orientation, snap.Paper)
	ctx, wg := m.ctx, m.exports
	wg.Add(1)
	return m, func() tea.Msg {
		defer wg.Done()
		res, err := exp.Export(ctx, snap.Paths, dest)
		return exportDoneMsg{result: res, err: err}
	}
}

// refreshPreview starts rendering the selected image. The current preview is
// replaced when the result arrives.
func (m *SessionModel) refreshPreview() tea.Cmd {
	m.previewSeq++
	if _, ok := m.sess.Selected(); !ok {
		m.current, m.previewErr = nil, nil
		return nil
	}
	return m.previewCmd()
}

// previewCmd renders the selected image for the current preview generation.
func (m SessionModel) previewCmd() tea.Cmd {
	path, ok := m.sess.Selected()
	if !ok {
		return nil
	}
	seq := m.previewSeq
	ctx, r := m.ctx, m.renderer
	o, paper := m.sess.Orientation(), m.sess.Paper()
	return func() tea.Msg {
		p, err := r.Render(ctx, path, o, paper)
		return previewMsg{seq: seq, preview: p, err: err}
	}
}

func (m *SessionModel) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *SessionModel) setError(s string) {
	m.status, m.statusErr = s, true
}

// =============================================================================
// Rendering
// =============================================================================

func (m SessionModel) View() string {
	if m.dialog != "" {
		box := dialogStyle.Render(m.dialog + "\n\n" + listDimStyle.Render("press any key"))
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
		}
		return box
	}

	var b strings.Builder

	b.WriteString(StyleTitle.Render("pagestack"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d images · %s %s",
		m.sess.Len(), m.sess.Orientation(), m.sess.Paper().Name)))
	b.WriteString("\n\n")

	left := m.viewList()
	right := m.viewPreview()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", right))
	b.WriteString("\n\n")

	switch m.mode {
	case modeAdd:
		b.WriteString(StyleHighlight.Render("Add image, directory or glob: ") + m.input + "█\n")
	case modeExportDest:
		b.WriteString(StyleHighlight.Render("Export to: ") + m.input + "█\n")
	default:
		b.WriteString(listDimStyle.Render("↑/↓ select  K/J move  x remove  o orientation  p paper  a add  e export  q quit"))
		b.WriteString("\n")
	}

	if m.status != "" {
		style := StyleSuccess
		if m.statusErr {
			style = StyleError
		}
		b.WriteString(style.Render(m.status))
	}
	return b.String()
}

func (m SessionModel) viewList() string {
	if m.sess.Empty() {
		return listDimStyle.Render("No images. Press a to add some.")
	}

	height := defaultListHeight
	if m.height > 0 {
		height = max(m.height-8, 3)
	}
	sel := max(m.sess.SelectedIndex(), 0)
	offset := max(sel-height+1, 0)
	end := min(offset+height, m.sess.Len())

	var b strings.Builder
	for i := offset; i < end; i++ {
		path, _ := m.sess.At(i)
		cursor := "  "
		style := listNormalStyle
		if i == m.sess.SelectedIndex() {
			cursor = "▸ "
			style = listSelectedStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%3d  %s", cursor, i+1, filepath.Base(path))))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.sess.SelectedIndex()+1, m.sess.Len())))
	return b.String()
}

func (m SessionModel) viewPreview() string {
	if m.previewErr != nil {
		return StyleError.Render("Cannot preview:\n" + errors.UserMessage(m.previewErr))
	}
	if m.current == nil {
		return listDimStyle.Render(preview.Label(m.sess.Orientation(), m.sess.Paper()))
	}

	cols, rows := m.previewCells()
	p := m.current
	var b strings.Builder
	b.WriteString(renderHalfBlocks(preview.Thumbnail(p, cols, rows*2)))
	b.WriteString(StyleDim.Render(p.Label()))
	b.WriteString("\n")
	r := p.Placement
	b.WriteString(StyleDim.Render(fmt.Sprintf("image %dx%d at (%d,%d) on %dx%d",
		r.Dx(), r.Dy(), r.Min.X, r.Min.Y, p.Canvas.X, p.Canvas.Y)))
	return b.String()
}

// previewCells returns the preview size in terminal cells.
func (m SessionModel) previewCells() (cols, rows int) {
	cols, rows = defaultPreviewCols, defaultPreviewRows
	if m.width > 0 {
		cols = max(m.width/2-4, 10)
	}
	if m.height > 0 {
		rows = max(m.height-10, 5)
	}
	return cols, rows
}

// renderHalfBlocks draws img with one upper-half block per two pixel rows:
// the foreground is the upper pixel and the background the lower one.
func renderHalfBlocks(img image.Image) string {
	bounds := img.Bounds()
	var b strings.Builder
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			top := hexColor(img.At(x, y))
			bottom := top
			if y+1 < bounds.Max.Y {
				bottom = hexColor(img.At(x, y+1))
			}
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render(halfBlock))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func hexColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
