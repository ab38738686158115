package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pagestack/pkg/buildinfo"
	"github.com/matzehuels/pagestack/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Before any subcommand runs, an optional .env file in the working directory
// is loaded into the environment and the configuration is read from
// --config (or the default location) with PAGESTACK_* overrides.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Pagestack combines images into a PDF, one image per page",
		Long:         `Pagestack is a terminal tool that arranges images into an ordered list, previews how each one sits on the page, and exports the list as a multi-page PDF with every image centered at 90% of the page.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			observability.SetPreviewHooks(previewLogHooks{logger: c.Logger})
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/pagestack/config.toml)")

	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
