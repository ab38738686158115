package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pagestack/pkg/preview"
)

// previewCommand creates the command that writes a page preview image.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		page    pageFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "preview <image>",
		Short: "Render how an image sits on the page as a PNG",
		Example: `  pagestack preview photo.jpg -o photo-preview.png
  pagestack preview photo.jpg --orientation landscape`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, p, err := c.resolve(page)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))
			pv, err := c.newRenderer(noCache).Render(ctx, args[0], o, p)
			if err != nil {
				return err
			}
			if err := preview.SavePNG(output, pv); err != nil {
				return err
			}
			prog.done("Preview rendered")

			printSuccess("Rendered preview of %s", args[0])
			printPreviewStatus(pv.Label(), pv.Cached)
			printKeyValue("Canvas", formatPoint(pv.Canvas.X, pv.Canvas.Y))
			printKeyValue("Image", formatRect(pv.Placement.Min.X, pv.Placement.Min.Y, pv.Placement.Dx(), pv.Placement.Dy()))
			printFile(output)
			return nil
		},
	}

	page.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "preview.png", "output PNG path")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "render without reading or writing the preview cache")

	return cmd
}
