package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved, absolute directories used at runtime
type Paths struct {
	BaseDir    string
	DataDir    string
	UploadsDir string
	ExportsDir string
	LogsDir    string
}

// ResolvePaths turns the configured directories into absolute paths.
// Without an explicit base dir, relative entries hang off the executable
// directory so the binary behaves the same wherever it is started from.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		exeDir, err := executableDir()
		if err != nil {
			return nil, err
		}
		base = exeDir
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base dir: %w", err)
	}

	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(base, p)
	}

	return &Paths{
		BaseDir:    base,
		DataDir:    resolve(cfg.DataDir),
		UploadsDir: resolve(cfg.UploadsDir),
		ExportsDir: resolve(cfg.ExportsDir),
		LogsDir:    resolve(cfg.LogsDir),
	}, nil
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}
	return filepath.Dir(exe), nil
}

// EnsureDirectories creates all runtime directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.UploadsDir, p.ExportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// UploadPath returns the location for an uploaded dataset file
func (p *Paths) UploadPath(filename string) string {
	return filepath.Join(p.UploadsDir, filepath.Base(filename))
}

// ExportPath returns the location for a generated export file
func (p *Paths) ExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filepath.Base(filename))
}

// ResolveFile makes a user-supplied file path absolute. Bare relative
// paths are tried against the data directory when they don't exist as given.
func (p *Paths) ResolveFile(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if FileExists(path) {
		abs, err := filepath.Abs(path)
		if err == nil {
			return abs
		}
		return path
	}
	return filepath.Join(p.DataDir, path)
}

// LogPathResolution logs the resolved directories at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		return
	}
	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("uploads", p.UploadsDir),
			slog.String("exports", p.ExportsDir),
			slog.String("logs", p.LogsDir),
		))
}

// FileExists checks if a regular file exists at path
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
