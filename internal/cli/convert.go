package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pagestack/pkg/errors"
	"github.com/matzehuels/pagestack/pkg/export"
	"github.com/matzehuels/pagestack/pkg/layout"
	"github.com/matzehuels/pagestack/pkg/raster"
)

// convertCommand creates the non-interactive export command.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		page   pageFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "convert <images...>",
		Short: "Combine images into a PDF without the interactive session",
		Long: `Combine images into a PDF, one image per page, in the order given.

Arguments may be image files, directories (all supported images inside, sorted
by name) or glob patterns. Images that cannot be read are skipped with a
warning; the export fails only if none can be placed.`,
		Example: `  pagestack convert scans/*.jpg -o scans.pdf
  pagestack convert cover.png photos/ --orientation landscape --paper letter`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, p, err := c.resolve(page)
			if err != nil {
				return err
			}
			paths, err := raster.Expand(args)
			if err != nil {
				return err
			}
			return c.runConvert(cmd, paths, output, o, p)
		},
	}

	page.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", defaultOutput, "output PDF path")

	return cmd
}

func (c *CLI) runConvert(cmd *cobra.Command, paths []string, output string, o layout.Orientation, p layout.Paper) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	logger.Debug("Converting", "images", len(paths), "orientation", o, "paper", p.Name)

	spinner := newSpinnerWithContext(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Exporting %d images...", len(paths)))
	spinner.Start()

	var res *export.Result
	progress := &exportProgress{
		onImage: func(index, total int, _ string) { spinner.SetMessage(progressText(index, total)) },
	}
	err := withExportProgress(progress, func() error {
		var err error
		res, err = c.newExporter(o, p).Export(ctx, paths, output)
		return err
	})
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			printWarning("Export cancelled, nothing was written")
			return err
		}
		spinner.StopWithError(errors.UserMessage(err))
		return err
	}
	spinner.Stop()
	prog.done("Export finished")

	printSuccess("Wrote %d of %d pages", len(res.Pages), len(paths))
	for _, pg := range res.Pages {
		r := pg.Placement
		printPage(pg.Number, pg.Source, r.X, r.Y, r.W, r.H)
	}
	if len(res.Skipped) > 0 {
		printWarning("Skipped %d images", len(res.Skipped))
		for _, s := range res.Skipped {
			printSkipped(s.Path, errors.UserMessage(s.Err))
		}
	}
	printFile(res.Path)
	printNewline()
	printNextStep("Check the result", "pagestack inspect "+res.Path)
	return nil
}
