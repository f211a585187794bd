package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"bondmatch/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes headers and records to w
func WriteCSV(w io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteMatchesCSV writes the matched bonds with display headers and a BOM
func WriteMatchesCSV(w io.Writer, matches []domain.BondRecord) error {
	rows := make([][]string, 0, len(matches))
	for _, b := range matches {
		rows = append(rows, DisplayRow(b))
	}
	return WriteCSV(w, WriteOptions{
		Headers:   DisplayHeaders,
		Records:   rows,
		BOMPrefix: true,
	})
}

// Write renders result in the given format
func Write(w io.Writer, format Format, result domain.SearchResult) error {
	switch format {
	case FormatCSV:
		return WriteMatchesCSV(w, result.Matches)
	case FormatXLSX:
		return WriteMatchesXLSX(w, result)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// WriteFile exports result to path, choosing the format from its extension
func WriteFile(path string, result domain.SearchResult) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Write(file, format, result); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	slog.Debug("Exported search result",
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.Int("records", len(result.Matches)))
	return nil
}
