package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pagestack/pkg/export"
	"github.com/matzehuels/pagestack/pkg/layout"
)

// inspectCommand creates the command that reports page sizes of a PDF.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.pdf>",
		Short: "Print the page count and page sizes of a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := export.Inspect(args[0])
			if err != nil {
				return err
			}

			printKeyValue("File", doc.Path)
			printKeyValue("Pages", StyleNumber.Render(fmt.Sprint(doc.PageCount())))
			for i, size := range doc.Pages {
				printKeyValue(fmt.Sprintf("Page %d", i+1), describePage(size))
			}
			return nil
		},
	}
}

// describePage formats a page size in points and names a matching paper
// along with its size in millimetres.
func describePage(size layout.Size) string {
	s := fmt.Sprintf("%.2f x %.2f pt", size.W, size.H)
	for _, p := range []layout.Paper{layout.A4, layout.Letter} {
		for _, o := range []layout.Orientation{layout.Portrait, layout.Landscape} {
			want := p.Oriented(o)
			if closeTo(want.W, size.W) && closeTo(want.H, size.H) {
				mm := p.Millimetres(o)
				return s + StyleDim.Render(fmt.Sprintf(" (%s %s, %g x %g mm)", p.Name, o, mm.W, mm.H))
			}
		}
	}
	return s
}

func closeTo(a, b float64) bool {
	d := a - b
	return d > -0.5 && d < 0.5
}

func formatPoint(x, y int) string {
	return fmt.Sprintf("%d x %d px", x, y)
}

func formatRect(x, y, w, h int) string {
	return fmt.Sprintf("%d x %d px at (%d, %d)", w, h, x, y)
}
