package files

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bondmatch/internal/config"
	apperrors "bondmatch/internal/errors"
)

func newTestManager(t *testing.T) (*Manager, *config.Paths) {
	t.Helper()
	cfg := config.Default().Paths
	cfg.BaseDir = t.TempDir()
	paths, err := config.ResolvePaths(cfg)
	require.NoError(t, err)
	return NewManager(paths, nil), paths
}

func TestSaveUpload(t *testing.T) {
	m, paths := newTestManager(t)

	path, err := m.SaveUpload(strings.NewReader("债券代码,剩余年限\n"), "市场数据.csv", 1024)
	require.NoError(t, err)

	assert.Equal(t, paths.UploadsDir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "_市场数据.csv"))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "债券代码,剩余年限\n", string(content))

	entries, err := os.ReadDir(paths.UploadsDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestSaveUploadTooLarge(t *testing.T) {
	m, paths := newTestManager(t)

	_, err := m.SaveUpload(strings.NewReader(strings.Repeat("x", 11)), "big.csv", 10)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	entries, err := os.ReadDir(paths.UploadsDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveUploadStorageError(t *testing.T) {
	m, paths := newTestManager(t)
	blocker := filepath.Join(paths.BaseDir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	paths.UploadsDir = filepath.Join(blocker, "uploads")

	_, err := m.SaveUpload(strings.NewReader("a"), "bonds.csv", 10)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr), "got %v", err)
	assert.Equal(t, apperrors.ErrTypeStorage, appErr.Type)
}

func TestDiscardUpload(t *testing.T) {
	m, paths := newTestManager(t)

	path, err := m.SaveUpload(strings.NewReader("a"), "rejected.csv", 10)
	require.NoError(t, err)
	require.NoError(t, m.DiscardUpload(path))
	assert.NoFileExists(t, path)

	assert.NoError(t, m.DiscardUpload(path), "already gone is not an error")

	outside := filepath.Join(paths.BaseDir, "keep.csv")
	require.NoError(t, os.WriteFile(outside, []byte("a"), 0644))
	err = m.DiscardUpload(outside)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeStorage, appErr.Type)
	assert.FileExists(t, outside)
}

func TestSaveUploadSanitizesName(t *testing.T) {
	m, paths := newTestManager(t)

	path, err := m.SaveUpload(strings.NewReader("a"), `..\..\evil?.csv`, 10)
	require.NoError(t, err)
	assert.Equal(t, paths.UploadsDir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "_evil_.csv"))
}

func TestPruneUploads(t *testing.T) {
	m, paths := newTestManager(t)
	require.NoError(t, os.MkdirAll(paths.UploadsDir, 0755))

	touch(t, paths.UploadsDir, "1.csv", 4*time.Hour)
	touch(t, paths.UploadsDir, "2.csv", 3*time.Hour)
	touch(t, paths.UploadsDir, "3.csv", 2*time.Hour)
	touch(t, paths.UploadsDir, "4.csv", time.Hour)

	require.NoError(t, m.PruneUploads(2, filepath.Join(paths.UploadsDir, "1.csv")))

	files, err := NewDiscovery("").FindDatasetFiles(paths.UploadsDir)
	require.NoError(t, err)
	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"4.csv", "3.csv", "1.csv"}, names)
}
