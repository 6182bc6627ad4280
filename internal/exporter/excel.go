package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"wprcli/internal/config"
	"wprcli/pkg/contracts/domain"
)

// Excel sheet names are capped at 31 characters
const maxSheetNameLen = 31

// WorkbookWriter writes parsed tables into a single Excel workbook
type WorkbookWriter struct {
	paths *config.Paths
}

// NewWorkbookWriter creates a new workbook writer instance
func NewWorkbookWriter(paths *config.Paths) *WorkbookWriter {
	return &WorkbookWriter{paths: paths}
}

// WriteWorkbook writes one sheet per table in the given order. Sheet names
// are derived from table titles, truncated and de-duplicated as needed.
func (w *WorkbookWriter) WriteWorkbook(filePath string, tables map[string][]*domain.Record, order []string) error {
	fullPath := filePath
	if !filepath.IsAbs(fullPath) {
		fullPath = w.paths.GetReportPath(filePath)
	}

	slog.Info("Writing workbook",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("table_count", len(order)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	used := make(map[string]bool)
	for i, title := range order {
		sheet := sheetName(title, used)
		used[sheet] = true

		if i == 0 {
			// Reuse the default sheet instead of leaving an empty Sheet1
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("failed to rename default sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
			}
		}

		if err := writeSheet(f, sheet, tables[title]); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", sheet, err)
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, records []*domain.Record) error {
	headers, rows := Tabulate(records)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return nil
}

// sheetName converts a table title into a valid, unused Excel sheet name
func sheetName(title string, used map[string]bool) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = "Table"
	}

	// Strip characters Excel rejects in sheet names
	for _, ch := range []string{":", "\\", "/", "?", "*", "[", "]"} {
		name = strings.ReplaceAll(name, ch, " ")
	}
	name = strings.Join(strings.Fields(name), " ")
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}

	if !used[name] {
		return name
	}
	for i := 2; ; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		candidate := name
		if len(candidate)+len(suffix) > maxSheetNameLen {
			candidate = candidate[:maxSheetNameLen-len(suffix)]
		}
		candidate += suffix
		if !used[candidate] {
			return candidate
		}
	}
}
