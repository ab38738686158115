package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pagestack/pkg/errors"
	"github.com/matzehuels/pagestack/pkg/layout"
)

// isolate points the default config location at an empty directory and
// clears overrides from the caller's environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{
		"PAGESTACK_ORIENTATION", "PAGESTACK_PAPER", "PAGESTACK_CANVAS_SIZE",
		"PAGESTACK_TITLE", "PAGESTACK_AUTHOR", "PAGESTACK_COMPRESS", "PAGESTACK_CACHE",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func writeConfig(t *testing.T, path, body string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}

	o, err := cfg.PageOrientation()
	require.NoError(t, err)
	assert.Equal(t, layout.Portrait, o)
	p, err := cfg.PaperSize()
	require.NoError(t, err)
	assert.Equal(t, layout.A4, p)
}

func TestLoadDefaultLocation(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, filepath.Join(dir, "pagestack", "config.toml"), `
orientation = "landscape"
paper = "letter"
canvas_size = 600
title = "Holiday"
author = "Jane"
compress = false
cache = false
`)

	cfg, err := Load("")
	require.NoError(t, err)
	want := &Config{
		Orientation: "landscape",
		Paper:       "letter",
		CanvasSize:  600,
		Title:       "Holiday",
		Author:      "Jane",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, filepath.Join(dir, "custom.toml"), `orientation = "portrait"`)
	t.Setenv("PAGESTACK_ORIENTATION", "landscape")
	t.Setenv("PAGESTACK_PAPER", "Letter")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "landscape", cfg.Orientation)
	assert.Equal(t, "Letter", cfg.Paper)
	assert.True(t, cfg.Compress, "unset variables keep file and default values")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
		code errors.Code
	}{
		{name: "bad toml", body: `orientation = `, code: errors.ErrCodeInvalidInput},
		{name: "unknown key", body: `colour = "red"`, code: errors.ErrCodeInvalidInput},
		{name: "bad orientation", body: `orientation = "diagonal"`, code: errors.ErrCodeInvalidOrientation},
		{name: "bad paper", body: `paper = "A3"`, code: errors.ErrCodeInvalidPaper},
		{name: "canvas too small", body: `canvas_size = 10`, code: errors.ErrCodeInvalidInput},
		{name: "bad env orientation", env: map[string]string{"PAGESTACK_ORIENTATION": "sideways"}, code: errors.ErrCodeInvalidOrientation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeConfig(t, filepath.Join(dir, "c.toml"), tt.body)

			_, err := Load(path)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "err = %v", err)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "pagestack", "config.toml"), p)
}
