package profiles_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/birddex/birddex/pkg/config"
	"github.com/birddex/birddex/pkg/profiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	catalog, err := profiles.Builtin()
	require.NoError(t, err)
	require.NotEmpty(t, catalog.Profiles)

	_, ok := catalog.Find("default")
	assert.True(t, ok, "default profile must ship built-in")

	constrained, ok := catalog.Find("constrained")
	require.True(t, ok, "constrained profile must ship built-in")
	assert.Equal(t, 100, constrained.Ingest.BatchSize)
	assert.Equal(t, 2, constrained.Coordinator.MaxConcurrent)
}

func TestFindIsCaseInsensitive(t *testing.T) {
	catalog, err := profiles.Builtin()
	require.NoError(t, err)

	_, ok := catalog.Find("  Constrained ")
	assert.True(t, ok)

	_, ok = catalog.Find("server-farm")
	assert.False(t, ok)
}

func TestToOptions(t *testing.T) {
	catalog, err := profiles.Builtin()
	require.NoError(t, err)

	constrained, ok := catalog.Find("constrained")
	require.True(t, ok)

	cfg := config.New()
	cfg.Update(constrained.ToOptions())

	assert.Equal(t, 100, cfg.Ingest.BatchSize)
	assert.Equal(t, 1, cfg.Ingest.YieldEvery)
	assert.Equal(t, 2, cfg.Coordinator.MaxConcurrent)
	assert.Equal(t, 32, cfg.Coordinator.QueueLimit)
	assert.Equal(t, 15_000, cfg.Coordinator.TimeoutMS)
	assert.Equal(t, 400, cfg.Coordinator.DebounceMS)
}

func TestLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	content := `profiles:
  - name: kiosk
    ingest:
      batch_size: 50
    coordinator:
      max_concurrent: 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	catalog, err := profiles.Load(path)
	require.NoError(t, err)

	kiosk, ok := catalog.Find("kiosk")
	require.True(t, ok)
	assert.Equal(t, 50, kiosk.Ingest.BatchSize)
	assert.Equal(t, 1, kiosk.Coordinator.MaxConcurrent)

	// Undeclared fields stay zero and must not override config.
	cfg := config.New()
	cfg.Update(kiosk.ToOptions())
	assert.Equal(t, 4, cfg.Ingest.YieldEvery)
}

func TestLoadErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := profiles.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("empty profiles", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "profiles.yaml")
		require.NoError(t, os.WriteFile(path, []byte("profiles: []"), 0644))
		_, err := profiles.Load(path)
		assert.Error(t, err)
	})
}
