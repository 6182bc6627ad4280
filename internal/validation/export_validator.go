// Package validation provides pre-flight checks shared by the command line
// tools. It verifies export files and directories before any parsing starts
// so failures surface with a clear message instead of mid-run.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"wprcli/internal/config"
)

// ExportValidator checks export files and their directories before processing
type ExportValidator struct {
	logger *slog.Logger
}

// NewExportValidator creates a new export validator
func NewExportValidator(logger *slog.Logger) *ExportValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportValidator{
		logger: logger,
	}
}

// ValidateExportFile checks that a single export file exists, is readable,
// carries the export extension and is not empty
func (v *ExportValidator) ValidateExportFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Export file does not exist",
			slog.String("file", path))
		return fmt.Errorf("export file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat export file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not an export file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != config.ExportFileExtension {
		v.logger.Error("File does not carry the export extension",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("file %s is not a %s export (extension: %s)", path, config.ExportFileExtension, ext)
	}

	if info.Size() == 0 {
		v.logger.Warn("Export file is empty",
			slog.String("file", path))
		return fmt.Errorf("export file %s is empty", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Export file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("export file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("Export file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateInputDirectory checks that the export directory exists and reports
// how many exports it contains. An empty directory is not an error.
func (v *ExportValidator) ValidateInputDirectory(dir string) (int, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return 0, fmt.Errorf("input directory %s does not exist", dir)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return 0, fmt.Errorf("%s is not a directory", dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*"+config.ExportFileExtension))
	if err != nil {
		return 0, fmt.Errorf("failed to scan directory %s: %w", dir, err)
	}

	count := 0
	for _, match := range matches {
		if fi, err := os.Stat(match); err == nil && !fi.IsDir() {
			count++
		}
	}

	v.logger.Info("Input directory validated",
		slog.String("directory", dir),
		slog.Int("exports_found", count))
	return count, nil
}

// ValidateOutputDirectory ensures the output directory exists and is writable
func (v *ExportValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	return nil
}

// ValidateWorkbookPath checks that a workbook target has an xlsx extension
// and is not an Excel lock file
func (v *ExportValidator) ValidateWorkbookPath(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" {
		return fmt.Errorf("workbook %s must use the .xlsx extension (got %s)", path, ext)
	}
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return fmt.Errorf("workbook %s is an Excel lock file", path)
	}
	return nil
}
