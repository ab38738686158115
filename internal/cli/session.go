package cli

import (
	"bytes"
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pagestack/pkg/export"
	"github.com/matzehuels/pagestack/pkg/layout"
	"github.com/matzehuels/pagestack/pkg/observability"
	"github.com/matzehuels/pagestack/pkg/preview"
	"github.com/matzehuels/pagestack/pkg/raster"
	"github.com/matzehuels/pagestack/pkg/session"
)

// sessionCommand creates the interactive session command.
func (c *CLI) sessionCommand() *cobra.Command {
	var (
		page    pageFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "session [images...]",
		Short: "Arrange, preview and export images interactively",
		Long: `Open an interactive session with an ordered image list and a live page preview.

Keys:
  ↑/↓ or k/j           change the selection
  shift+↑/↓ or K/J     move the selected image
  x or delete          remove the selected image
  o                    toggle portrait/landscape
  p                    switch between A4 and Letter
  a                    add images (file, directory or glob)
  e                    export the list as a PDF
  q                    quit

Nothing about the session is saved when it ends.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, p, err := c.resolve(page)
			if err != nil {
				return err
			}
			sess, err := newSession(args, o, p)
			if err != nil {
				return err
			}
			return c.runSession(cmd, sess, output, noCache)
		},
	}

	page.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", defaultOutput, "default export destination")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "render previews without the preview cache")

	return cmd
}

// newSession starts a session holding the images named by args. The last
// image added is selected.
func newSession(args []string, o layout.Orientation, p layout.Paper) (*session.Session, error) {
	sess := session.New(session.WithOrientation(o), session.WithPaper(p))
	if len(args) == 0 {
		return sess, nil
	}
	paths, err := raster.Expand(args)
	if err != nil {
		return nil, err
	}
	sess.Add(paths...)
	return sess, nil
}

func (c *CLI) runSession(cmd *cobra.Command, sess *session.Session, output string, noCache bool) error {
	// Quitting cancels any export still running.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// The terminal belongs to the session while it runs; log lines are held
	// back and printed once it ends.
	var logs bytes.Buffer
	logger := newLogger(&logs, c.Logger.GetLevel())
	defer func() { _, _ = os.Stderr.Write(logs.Bytes()) }()

	renderer := c.newRenderer(noCache, preview.WithLogger(logger))
	exporter := func(o layout.Orientation, p layout.Paper) *export.Exporter {
		return c.newExporter(o, p, export.WithLogger(logger))
	}

	observability.SetPreviewHooks(previewLogHooks{logger: logger})
	defer observability.SetPreviewHooks(previewLogHooks{logger: c.Logger})

	model := NewSessionModel(ctx, sess, renderer, exporter, output)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	progress := &exportProgress{
		onImage: func(index, total int, path string) {
			program.Send(exportProgressMsg{index: index, total: total, path: path})
		},
		onSkip: func(index int, path string, err error) {
			program.Send(exportProgressMsg{index: index, path: path, err: err})
		},
	}
	return withExportProgress(progress, func() error {
		_, err := program.Run()
		cancel()
		model.Wait()
		return err
	})
}
