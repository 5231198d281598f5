package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prettyresults/prettyresults/internal/icons"
	"github.com/prettyresults/prettyresults/internal/results"
)

// isolate points the user config at an empty temp dir so the developer's
// own config never leaks into tests.
func isolate(t *testing.T) string {
	t.Helper()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	for _, v := range []string{
		"PRETTYRESULTS_WEB_TITLE", "PRETTYRESULTS_COPY_WORKERS", "PRETTYRESULTS_OPEN_BROWSER",
		"PRETTYRESULTS_TREE_MAX_DEPTH", "PRETTYRESULTS_WATCH_DEBOUNCE", "PRETTYRESULTS_LOG_LEVEL",
	} {
		t.Setenv(v, "")
	}
	return xdg
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	cfg := NewConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "Analysis results", cfg.Web.Title)
	assert.Equal(t, runtime.NumCPU(), cfg.Web.CopyWorkers)
	assert.Equal(t, 16, cfg.Web.CacheSize)
	assert.False(t, cfg.Web.OpenBrowser)
	assert.Equal(t, 0, cfg.Tree.MaxDepth)
	assert.Equal(t, "300ms", cfg.Watch.Debounce)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFilesUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, NewConfig().Web, cfg.Web)
}

func TestLoad_ProjectConfigOverridesDefaults(t *testing.T) {
	// Given: a project config file
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".prettyresults.yaml"), `
web:
  title: Encuesta 2019
  copy_workers: 2
tree:
  max_depth: 3
icons:
  types:
    ContainerResult:
      closed: fa-folder-o
`)

	// When: loading
	cfg, err := Load(dir)

	// Then: file values win, the rest keeps defaults
	require.NoError(t, err)
	assert.Equal(t, "Encuesta 2019", cfg.Web.Title)
	assert.Equal(t, 2, cfg.Web.CopyWorkers)
	assert.Equal(t, 16, cfg.Web.CacheSize)
	assert.Equal(t, 3, cfg.Tree.MaxDepth)
	assert.Equal(t, "fa-folder-o", cfg.Icons.Types["ContainerResult"].Closed)
}

func TestLoad_YmlFallback(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".prettyresults.yml"), "web:\n  title: from yml\n")

	cfg, err := Load(dir)

	require.NoError(t, err)
	assert.Equal(t, "from yml", cfg.Web.Title)
}

func TestLoad_PrecedenceUserProjectEnv(t *testing.T) {
	// Given: user, project and env settings
	xdg := isolate(t)
	writeFile(t, filepath.Join(xdg, "prettyresults", "config.yaml"), `
web:
  title: user title
  cache_size: 4
log:
  level: debug
`)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".prettyresults.yaml"), "web:\n  title: project title\n")
	t.Setenv("PRETTYRESULTS_LOG_LEVEL", "error")

	// When: loading
	cfg, err := Load(dir)

	// Then: each layer overrides the previous one
	require.NoError(t, err)
	assert.Equal(t, "project title", cfg.Web.Title)
	assert.Equal(t, 4, cfg.Web.CacheSize)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.True(t, UserConfigExists())
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PRETTYRESULTS_WEB_TITLE", "env title")
	t.Setenv("PRETTYRESULTS_COPY_WORKERS", "3")
	t.Setenv("PRETTYRESULTS_OPEN_BROWSER", "1")
	t.Setenv("PRETTYRESULTS_TREE_MAX_DEPTH", "2")
	t.Setenv("PRETTYRESULTS_WATCH_DEBOUNCE", "1s")

	cfg, err := Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "env title", cfg.Web.Title)
	assert.Equal(t, 3, cfg.Web.CopyWorkers)
	assert.True(t, cfg.Web.OpenBrowser)
	assert.Equal(t, 2, cfg.Tree.MaxDepth)
	d, err := cfg.DebounceDuration()
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)
}

func TestLoad_InvalidEnvNumbersAreIgnored(t *testing.T) {
	isolate(t)
	t.Setenv("PRETTYRESULTS_COPY_WORKERS", "lots")
	t.Setenv("PRETTYRESULTS_TREE_MAX_DEPTH", "-1")

	cfg, err := Load(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, runtime.NumCPU(), cfg.Web.CopyWorkers)
	assert.Equal(t, 0, cfg.Tree.MaxDepth)
}

func TestLoad_MalformedYAML(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".prettyresults.yaml"), "web: [unclosed")

	_, err := Load(dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, "watch:\n  debounce: 50ms\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "50ms", cfg.Watch.Debounce)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"zero workers", func(c *Config) { c.Web.CopyWorkers = 0 }, "copy_workers"},
		{"zero cache", func(c *Config) { c.Web.CacheSize = 0 }, "cache_size"},
		{"negative depth", func(c *Config) { c.Tree.MaxDepth = -1 }, "max_depth"},
		{"bad debounce", func(c *Config) { c.Watch.Debounce = "soon" }, "watch.debounce"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = "-1s" }, "non-negative"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"empty icon pair", func(c *Config) { c.Icons.Types = map[string]icons.Pair{"TableResult": {}} }, "icons.types.TableResult"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestIconSet_AppliesOverridesAndFallback(t *testing.T) {
	cfg := NewConfig()
	cfg.Icons.Types = map[string]icons.Pair{
		"ContainerResult": {Closed: "fa-folder-o"},
	}
	cfg.Icons.Fallback = &icons.Pair{Open: "fa-file", Closed: "fa-file"}

	set := cfg.IconSet()

	assert.Equal(t, "fa-folder-o", set.Closed(results.TypeContainer))
	assert.Equal(t, "fa-folder-open", set.Open(results.TypeContainer))
	assert.Equal(t, "fa-bar-chart", set.Open(results.TypeFigure))
	assert.Equal(t, "fa-file", set.Open("HeatmapResult"))
}

func TestIconSet_DefaultsWithoutOverrides(t *testing.T) {
	set := NewConfig().IconSet()

	assert.Equal(t, "fa-folder", set.Closed(results.TypeContainer))
	assert.Equal(t, icons.None, set.Open("HeatmapResult"))
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := NewConfig()
	cfg.Web.Title = "written"

	require.NoError(t, cfg.WriteYAML(path))
	loaded, err := LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, "written", loaded.Web.Title)
}

func TestGetUserConfigPath_XDG(t *testing.T) {
	xdg := isolate(t)
	assert.Equal(t, filepath.Join(xdg, "prettyresults", "config.yaml"), GetUserConfigPath())
	assert.False(t, UserConfigExists())
}
