package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFromPath_Missing(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadFromPath_Values(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[compare]
ignore_case = true
ignore_blank_lines = true

[output]
width = 120
summary = true
`), 0o644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	require.True(t, cfg.Compare.IgnoreCase)
	require.True(t, cfg.Compare.IgnoreBlankLines)
	require.False(t, cfg.Compare.IgnoreAllSpace)
	require.Equal(t, 120, cfg.Output.Width)
	require.True(t, cfg.Output.Summary)

	opts := cfg.Compare.Options()
	require.True(t, opts.IgnoreCase)
	require.False(t, opts.IgnoreEOL)
}

func TestLoadFromPath_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not toml ==="), 0o644))
	_, err := LoadFromPath(path)
	require.Error(t, err)
}

func TestLoadFromPath_NegativeWidth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[output]\nwidth = -1\n"), 0o644))
	_, err := LoadFromPath(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	want := Config{
		Compare: CompareConfig{IgnoreSpaceChange: true, IgnoreEOL: true},
		Output:  OutputConfig{Width: 80},
	}
	require.NoError(t, Save(want, path))

	got, err := LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestPath_EnvOverride(t *testing.T) {
	t.Setenv("LINEALIGN_CONFIG", "/tmp/custom.toml")
	p, err := Path()
	require.NoError(t, err)
	require.Equal(t, "/tmp/custom.toml", p)
}
