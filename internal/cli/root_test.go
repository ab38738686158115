package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pagestack/internal/testimg"
	"github.com/matzehuels/pagestack/pkg/errors"
	"github.com/matzehuels/pagestack/pkg/export"
	"github.com/matzehuels/pagestack/pkg/layout"
)

// isolateEnv points config and cache lookups at a fresh directory.
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	for _, k := range []string{"PAGESTACK_ORIENTATION", "PAGESTACK_PAPER"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandTree(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"session", "convert", "preview", "inspect", "cache", "completion"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	dir, err := cacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg-cache", "pagestack"), dir)

	t.Setenv("XDG_CACHE_HOME", "")
	os.Unsetenv("XDG_CACHE_HOME")
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	dir, err = cacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".cache", "pagestack"), dir)
}

func TestCachePathCommand(t *testing.T) {
	dir := isolateEnv(t)
	out, err := execute(t, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cache", "pagestack"), strings.TrimSpace(out))
}

func TestConvertCommand(t *testing.T) {
	dir := isolateEnv(t)
	imgs := filepath.Join(dir, "imgs")
	require.NoError(t, os.MkdirAll(imgs, 0o755))
	testimg.Write(t, imgs, "01.png", 40, 30)
	testimg.Write(t, imgs, "02.jpg", 30, 40)
	testimg.Write(t, imgs, "03.gif", 20, 20)
	dest := filepath.Join(dir, "album.pdf")

	_, err := execute(t, "convert", imgs, "-o", dest, "--orientation", "landscape", "--paper", "letter")
	require.NoError(t, err)

	doc, err := export.Inspect(dest)
	require.NoError(t, err)
	require.Equal(t, 3, doc.PageCount())
	assert.InDelta(t, 792, doc.Pages[0].W, 0.01)
	assert.InDelta(t, 612, doc.Pages[0].H, 0.01)
}

func TestConvertCommandUsesConfig(t *testing.T) {
	dir := isolateEnv(t)
	cfg := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("orientation = \"landscape\"\n"), 0o644))
	img := testimg.Write(t, dir, "a.png", 20, 20)
	dest := filepath.Join(dir, "out.pdf")

	_, err := execute(t, "--config", cfg, "convert", img, "-o", dest)
	require.NoError(t, err)

	doc, err := export.Inspect(dest)
	require.NoError(t, err)
	want := layout.A4.Oriented(layout.Landscape)
	assert.InDelta(t, want.W, doc.Pages[0].W, 0.01)
}

func TestConvertCommandErrors(t *testing.T) {
	dir := isolateEnv(t)
	img := testimg.Write(t, dir, "a.png", 20, 20)

	_, err := execute(t, "convert", img, "--orientation", "sideways")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidOrientation), "err = %v", err)

	_, err = execute(t, "convert", filepath.Join(dir, "*.webp"), "-o", filepath.Join(dir, "x.pdf"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "err = %v", err)

	_, err = execute(t, "convert", testimg.WriteGarbage(t, dir, "bad.png"), "-o", filepath.Join(dir, "x.pdf"))
	assert.True(t, errors.Is(err, errors.ErrCodeExportEmpty), "err = %v", err)
	assert.NoFileExists(t, filepath.Join(dir, "x.pdf"))
}

func TestPreviewCommand(t *testing.T) {
	dir := isolateEnv(t)
	img := testimg.Write(t, dir, "a.png", 400, 300)
	dest := filepath.Join(dir, "preview.png")

	_, err := execute(t, "preview", img, "-o", dest, "--orientation", "landscape")
	require.NoError(t, err)
	assert.FileExists(t, dest)
}

func TestInspectCommandRejectsGarbage(t *testing.T) {
	dir := isolateEnv(t)
	_, err := execute(t, "inspect", testimg.WriteGarbage(t, dir, "x.pdf"))
	assert.Error(t, err)
}

func TestDescribePage(t *testing.T) {
	assert.Contains(t, describePage(layout.A4.Oriented(layout.Portrait)), "A4 Portrait, 210 x 297 mm")
	assert.Contains(t, describePage(layout.Letter.Oriented(layout.Landscape)), "Letter Landscape, 279 x 216 mm")
	assert.Equal(t, "100.00 x 100.00 pt", describePage(layout.Size{W: 100, H: 100}))
}
