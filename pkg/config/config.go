// Package config loads pagestack's user preferences.
//
// Settings come from three layers, later ones winning: built-in defaults, an
// optional TOML file, and PAGESTACK_* environment variables. Command-line
// flags are applied on top by the CLI. Nothing about an editing session is
// stored here.
//
// Example config.toml:
//
//	orientation = "landscape"
//	paper = "letter"
//	canvas_size = 600
//	title = "Holiday 2024"
//	author = "Jane"
//	compress = true
//	cache = true
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go-simpler.org/env"

	"github.com/matzehuels/pagestack/pkg/errors"
	"github.com/matzehuels/pagestack/pkg/layout"
)

const (
	appName  = "pagestack"
	fileName = "config.toml"
)

// Config holds user preferences.
type Config struct {
	Orientation string `toml:"orientation" env:"PAGESTACK_ORIENTATION"`
	Paper       string `toml:"paper" env:"PAGESTACK_PAPER"`
	CanvasSize  int    `toml:"canvas_size" env:"PAGESTACK_CANVAS_SIZE"`
	Title       string `toml:"title" env:"PAGESTACK_TITLE"`
	Author      string `toml:"author" env:"PAGESTACK_AUTHOR"`
	Compress    bool   `toml:"compress" env:"PAGESTACK_COMPRESS"`
	Cache       bool   `toml:"cache" env:"PAGESTACK_CACHE"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Orientation: layout.Portrait.String(),
		Paper:       layout.A4.Name,
		CanvasSize:  400,
		Compress:    true,
		Cache:       true,
	}
}

// Path returns the default config file location
// ($XDG_CONFIG_HOME/pagestack/config.toml).
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, fileName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, fileName), nil
}

// Load reads settings. An empty path means the default location, which may
// be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.readFile(path, explicit); err != nil {
			return nil, err
		}
	}

	if err := env.Load(cfg, nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if _, err := c.PageOrientation(); err != nil {
		return err
	}
	if _, err := c.PaperSize(); err != nil {
		return err
	}
	if c.CanvasSize < 50 || c.CanvasSize > 4000 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas_size must be between 50 and 4000, got %d", c.CanvasSize)
	}
	return nil
}

// PageOrientation returns the parsed orientation.
func (c *Config) PageOrientation() (layout.Orientation, error) {
	return layout.ParseOrientation(c.Orientation)
}

// PaperSize returns the parsed paper format.
func (c *Config) PaperSize() (layout.Paper, error) {
	return layout.LookupPaper(c.Paper)
}
