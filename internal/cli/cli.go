package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pagestack/pkg/cache"
	"github.com/matzehuels/pagestack/pkg/config"
	"github.com/matzehuels/pagestack/pkg/export"
	"github.com/matzehuels/pagestack/pkg/layout"
	"github.com/matzehuels/pagestack/pkg/preview"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pagestack"

	// defaultOutput is the export destination when none is given.
	defaultOutput = "output.pdf"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the config file and environment into c.Config.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Page Options
// =============================================================================

// pageFlags are the page settings shared by convert, preview and session.
type pageFlags struct {
	orientation string
	paper       string
}

func (f *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.orientation, "orientation", "", "page orientation: portrait or landscape (default from config)")
	cmd.Flags().StringVar(&f.paper, "paper", "", "paper size: A4 or Letter (default from config)")
}

// resolve applies flags over the loaded configuration.
func (c *CLI) resolve(f pageFlags) (layout.Orientation, layout.Paper, error) {
	orientation, paper := c.Config.Orientation, c.Config.Paper
	if f.orientation != "" {
		orientation = f.orientation
	}
	if f.paper != "" {
		paper = f.paper
	}
	o, err := layout.ParseOrientation(orientation)
	if err != nil {
		return 0, layout.Paper{}, err
	}
	p, err := layout.LookupPaper(paper)
	if err != nil {
		return 0, layout.Paper{}, err
	}
	return o, p, nil
}

// =============================================================================
// Factories
// =============================================================================

// newRenderer creates a preview renderer backed by the preview cache.
func (c *CLI) newRenderer(noCache bool, extra ...preview.Option) *preview.Renderer {
	opts := []preview.Option{
		preview.WithCanvasSize(c.Config.CanvasSize),
		preview.WithCache(newCache(noCache || !c.Config.Cache, c.Logger)),
		preview.WithLogger(c.Logger),
	}
	return preview.NewRenderer(append(opts, extra...)...)
}

// newExporter creates an exporter for the given page settings. Options in
// extra are applied last.
func (c *CLI) newExporter(o layout.Orientation, p layout.Paper, extra ...export.Option) *export.Exporter {
	opts := []export.Option{
		export.WithOrientation(o),
		export.WithPaper(p),
		export.WithMetadata(c.Config.Title, c.Config.Author),
		export.WithCompression(c.Config.Compress),
		export.WithLogger(c.Logger),
	}
	return export.New(append(opts, extra...)...)
}

func newCache(noCache bool, logger *log.Logger) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		logger.Debug("Preview cache disabled", "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pagestack/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
