package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere")

	paths, err := ResolvePaths(PathsConfig{
		BaseDir:    base,
		DataDir:    "data",
		UploadsDir: "data/uploads",
		ExportsDir: abs,
		LogsDir:    "logs",
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(base, "data", "uploads"), paths.UploadsDir)
	assert.Equal(t, abs, paths.ExportsDir)
	assert.Equal(t, filepath.Join(base, "logs"), paths.LogsDir)
}

func TestResolvePathsDefaultsToExecutableDir(t *testing.T) {
	paths, err := ResolvePaths(Default().Paths)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(paths.BaseDir))
	assert.True(t, filepath.IsAbs(paths.DataDir))
}

func TestEnsureDirectories(t *testing.T) {
	cfg := Default().Paths
	cfg.BaseDir = t.TempDir()
	paths, err := ResolvePaths(cfg)
	require.NoError(t, err)

	require.NoError(t, paths.EnsureDirectories())
	for _, dir := range []string{paths.DataDir, paths.UploadsDir, paths.ExportsDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	paths.LogPathResolution(nil)
}

func TestPathHelpers(t *testing.T) {
	cfg := Default().Paths
	cfg.BaseDir = t.TempDir()
	paths, err := ResolvePaths(cfg)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(paths.UploadsDir, "bonds.csv"), paths.UploadPath("../../bonds.csv"))
	assert.Equal(t, filepath.Join(paths.ExportsDir, "out.xlsx"), paths.ExportPath("out.xlsx"))

	assert.Equal(t, filepath.Join(paths.DataDir, "missing.csv"), paths.ResolveFile("missing.csv"))
	assert.Equal(t, "", paths.ResolveFile(""))

	existing := filepath.Join(t.TempDir(), "x.csv")
	require.NoError(t, os.WriteFile(existing, []byte("a"), 0644))
	assert.Equal(t, existing, paths.ResolveFile(existing))
	assert.True(t, FileExists(existing))
	assert.False(t, FileExists(filepath.Dir(existing)))
}
