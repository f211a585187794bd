package files

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"bondmatch/internal/config"
	apperrors "bondmatch/internal/errors"
	"bondmatch/internal/infrastructure"
)

// ErrFileTooLarge is returned when an upload exceeds the configured limit
var ErrFileTooLarge = errors.New("file exceeds size limit")

// Manager stores uploaded dataset files
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		paths:  paths,
		logger: infrastructure.WithComponent(logger, "file_manager"),
	}
}

// SaveUpload copies r into the uploads directory under a unique name that
// keeps the original extension. The file only appears once fully written.
// Reading more than maxBytes aborts with ErrFileTooLarge.
func (m *Manager) SaveUpload(r io.Reader, originalName string, maxBytes int64) (string, error) {
	if err := os.MkdirAll(m.paths.UploadsDir, 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create uploads directory", err)
	}

	base := sanitizeName(originalName)
	dst := m.paths.UploadPath(uuid.New().String()[:8] + "_" + base)

	tmp, err := os.CreateTemp(m.paths.UploadsDir, ".upload-*")
	if err != nil {
		return "", apperrors.NewStorageError("failed to create temp file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	n, err := io.Copy(tmp, io.LimitReader(r, maxBytes+1))
	closeErr := tmp.Close()
	if err != nil {
		return "", apperrors.NewStorageError("failed to write upload", err)
	}
	if closeErr != nil {
		return "", apperrors.NewStorageError("failed to close upload", closeErr)
	}
	if n > maxBytes {
		return "", fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, maxBytes)
	}

	if err := os.Rename(tmpName, dst); err != nil {
		return "", apperrors.NewStorageError("failed to move upload into place", err).
			WithContext("path", dst)
	}

	m.logger.Info("Stored uploaded dataset",
		slog.String("original_name", originalName),
		slog.String("path", dst),
		slog.Int64("size", n))
	return dst, nil
}

// DiscardUpload removes a stored upload that failed to load. Paths outside
// the uploads directory are refused.
func (m *Manager) DiscardUpload(path string) error {
	rel, err := filepath.Rel(m.paths.UploadsDir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return apperrors.NewStorageError("refusing to remove file outside uploads directory", nil).
			WithContext("path", path)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return apperrors.NewStorageError("failed to remove upload", err).WithContext("path", path)
	}
	m.logger.Info("Discarded rejected upload", slog.String("path", path))
	return nil
}

// PruneUploads deletes all but the newest keep uploads, never touching
// the file at inUse.
func (m *Manager) PruneUploads(keep int, inUse string) error {
	files, err := NewDiscovery(m.paths.BaseDir).FindDatasetFiles(m.paths.UploadsDir)
	if err != nil {
		return err
	}
	var errs []error
	for i, f := range files {
		if i < keep || f.Path == inUse {
			continue
		}
		if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
			continue
		}
		m.logger.Debug("Pruned old upload", slog.String("path", f.Path))
	}
	return errors.Join(errs...)
}

func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
	if name == "." || name == "" || name == "/" {
		return "dataset"
	}
	return name
}
