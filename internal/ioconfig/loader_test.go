package ioconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/birddex/birddex/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	// Hermetic home: no stray user config can leak in.
	t.Setenv("HOME", t.TempDir())

	res, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "defaults", res.Source)
	assert.Empty(t, res.SourcePath)
	assert.Equal(t, config.New(), res.Config)
}

func TestLoadFromFile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `database:
  path: /data/dict.db
coordinator:
  timeout_ms: 3000
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	res, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "file", res.Source)
	assert.Equal(t, path, res.SourcePath)
	assert.Equal(t, "/data/dict.db", res.Config.Database.Path)
	assert.Equal(t, 3000, res.Config.Coordinator.TimeoutMS)
	assert.Equal(t, "debug", res.Config.Log.Level)

	// Untouched keys keep their defaults.
	assert.Equal(t, 500, res.Config.Ingest.BatchSize)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}

func TestLoadDefaultLocation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	home := t.TempDir()
	t.Setenv("HOME", home)

	path := config.ConfigFilePath(home)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path,
		[]byte("dataset:\n  path: /assets/taxonomy.csv\n"), 0644))

	res, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "file", res.Source)
	assert.Equal(t, "/assets/taxonomy.csv", res.Config.Dataset.Path)
}

func TestLoadEnvOverride(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	t.Setenv("HOME", t.TempDir())
	t.Setenv("BIRDDEX_DATABASE_PATH", "/env/dict.db")

	res, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "defaults+env", res.Source)
	assert.Equal(t, "/env/dict.db", res.Config.Database.Path)
}

func TestLoadWithProfile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	t.Setenv("HOME", t.TempDir())

	res, err := Load("", "constrained")
	require.NoError(t, err)

	assert.Equal(t, "constrained", res.Config.Profile)
	assert.Equal(t, 100, res.Config.Ingest.BatchSize)
	assert.Equal(t, 2, res.Config.Coordinator.MaxConcurrent)
}

func TestLoadFileOverridesProfile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path,
		[]byte("ingest:\n  batch_size: 250\n"), 0644))

	res, err := Load(path, "constrained")
	require.NoError(t, err)

	// The file wins over the profile; profile values not named in the
	// file survive.
	assert.Equal(t, 250, res.Config.Ingest.BatchSize)
	assert.Equal(t, 2, res.Config.Coordinator.MaxConcurrent)
}

func TestLoadUnknownProfile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	t.Setenv("HOME", t.TempDir())

	res, err := Load("", "server-farm")
	require.NoError(t, err)

	// Unknown profiles warn and fall back to defaults.
	assert.Equal(t, 500, res.Config.Ingest.BatchSize)
}
