package emit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/config"
	derrors "git.home.luguber.info/inful/docsite/internal/errors"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/sidebar"
	"git.home.luguber.info/inful/docsite/internal/site"
)

func opts(dir string, formats ...string) Options {
	return Options{
		Dir:      dir,
		Formats:  formats,
		Site:     site.New(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		Manifest: sidebar.Default(),
	}
}

func TestRun_JSONRoundTrips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	o := opts(dir, config.FormatJSON)

	written, err := Run(context.Background(), o)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "docusaurus.config.json"),
		filepath.Join(dir, "sidebars.json"),
	}, written)

	data, err := os.ReadFile(written[0])
	require.NoError(t, err)
	cfg, err := site.DecodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, o.Site, cfg)

	data, err = os.ReadFile(written[1])
	require.NoError(t, err)
	m, err := sidebar.DecodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, sidebar.Default(), m)
}

func TestRun_AllFormatsAndHugo(t *testing.T) {
	dir := t.TempDir()
	o := opts(dir, config.FormatJSON, config.FormatYAML)
	o.Hugo = true
	rec := metrics.NewPrometheusRecorder(nil)
	o.Recorder = rec

	written, err := Run(context.Background(), o)
	require.NoError(t, err)
	require.Len(t, written, 5)
	for _, name := range Generated() {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	data, err := os.ReadFile(filepath.Join(dir, "sidebars.yaml"))
	require.NoError(t, err)
	m, err := sidebar.DecodeYAML(data)
	require.NoError(t, err)
	assert.Equal(t, sidebar.Default(), m)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 5, "no temporary files left behind")
}

func TestRun_CleanRemovesStaleFormats(t *testing.T) {
	dir := t.TempDir()
	o := opts(dir, config.FormatJSON, config.FormatYAML)
	o.Hugo = true
	_, err := Run(context.Background(), o)
	require.NoError(t, err)

	o = opts(dir, config.FormatYAML)
	o.Clean = true
	_, err = Run(context.Background(), o)
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(dir, "docusaurus.config.json"))
	assert.NoFileExists(t, filepath.Join(dir, "hugo.yaml"))
	assert.FileExists(t, filepath.Join(dir, "sidebars.yaml"))
}

func TestRun_UnknownFormat(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	_, err := Run(context.Background(), opts(dir, "toml"))
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryValidation))
	assert.NoDirExists(t, dir)
}

func TestRun_WriteFailure(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := Run(context.Background(), opts(filepath.Join(blocker, "out"), config.FormatJSON))
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryFileSystem))
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	written, err := Run(ctx, opts(t.TempDir(), config.FormatJSON))
	require.Error(t, err)
	assert.Empty(t, written)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryRuntime))
}
