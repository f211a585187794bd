package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"bondmatch/internal/dataprocessing"
	apperrors "bondmatch/internal/errors"
	"bondmatch/internal/infrastructure"
)

var (
	ErrFileNotFound = errors.New("file does not exist")
	ErrNotAFile     = errors.New("path is a directory")
	ErrEmptyFile    = errors.New("file is empty")
	ErrFileTooLarge = errors.New("file exceeds size limit")
	ErrLockFile     = errors.New("file is an office lock file")
	ErrNoSheets     = errors.New("workbook has no sheets")
)

// FileValidator checks dataset and output locations before they are used
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: infrastructure.WithComponent(logger, "file_validator"),
	}
}

// ValidateDatasetFile checks that path is a non-empty, readable CSV or
// Excel file no larger than maxBytes (0 disables the size check).
// Workbooks are opened to make sure they have at least one sheet.
func (v *FileValidator) ValidateDatasetFile(path string, maxBytes int64) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		v.logger.Warn("Dataset file does not exist", slog.String("file", path))
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		return fmt.Errorf("%w: %s", ErrLockFile, path)
	}
	if !dataprocessing.IsSupported(path) {
		v.logger.Warn("Unsupported dataset extension",
			slog.String("file", path),
			slog.String("extension", filepath.Ext(path)))
		return fmt.Errorf("%w: %s", dataprocessing.ErrUnsupportedFormat, filepath.Ext(path))
	}

	if info.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, info.Size(), maxBytes)
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".csv" {
		if err := v.validateWorkbook(path); err != nil {
			return err
		}
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("file %s is not readable: %w", path, err)
		}
		f.Close()
	}

	v.logger.Debug("Dataset file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

func (v *FileValidator) validateWorkbook(path string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", dataprocessing.ErrUnsupportedFormat, err)
	}
	defer f.Close()
	if len(f.GetSheetList()) == 0 {
		return fmt.Errorf("%w: %s", ErrNoSheets, path)
	}
	return nil
}

// ValidateOutputDirectory ensures dir exists and is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("failed to create output directory", err).WithContext("directory", dir)
	}

	tmp, err := os.CreateTemp(dir, ".write_test-*")
	if err != nil {
		return apperrors.NewStorageError("output directory is not writable", err).WithContext("directory", dir)
	}
	tmp.Close()
	os.Remove(tmp.Name())
	return nil
}
