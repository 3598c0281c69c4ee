package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, home)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSourceURL, c.SourceURL)
	assert.Equal(t, 5, c.CategoricalMaxDistinct)
	assert.InDelta(t, 0.05, c.Significance, 1e-12)
	assert.Equal(t, 3, c.RetryMaxAttempts)
	assert.Equal(t, filepath.Join(home, ".telecomx", "cache"), c.CacheDir)
	assert.Equal(t, filepath.Join(home, ".telecomx", "workspaces"), c.WorkspacesDir)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, home)

	path := filepath.Join(home, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categorical_max_distinct: 7\nsignificance: 0.01\n"), 0o644))
	t.Setenv("TELECOMX_SIGNIFICANCE", "0.1")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, c.CategoricalMaxDistinct)
	assert.InDelta(t, 0.1, c.Significance, 1e-12)
}

func TestLoadDotEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, home)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".env"), []byte("TELECOMX_SOURCE_URL=file:///tmp/x.json\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("TELECOMX_SOURCE_URL") })

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "file:///tmp/x.json", c.SourceURL)
}

func TestSaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, home)

	path := filepath.Join(home, "out.yaml")
	in := &Global{SourceURL: "http://example.test/data.json", CategoricalMaxDistinct: 4, Significance: 0.02}
	require.NoError(t, Save(in, path))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in.SourceURL, out.SourceURL)
	assert.Equal(t, 4, out.CategoricalMaxDistinct)
}
