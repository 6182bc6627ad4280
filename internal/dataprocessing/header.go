package dataprocessing

import (
	"strconv"
	"strings"
)

// LooksLikeHeader reports whether a row of cells plausibly forms a
// column-header row. The exact rule set, with no undisclosed exceptions:
//
//   - the row has at least two cells (a single-cell row is a title, not a
//     header)
//   - every cell is non-empty after trimming whitespace
//   - no cell is purely numeric (a row made entirely of numbers is data)
//
// The function is deterministic and side-effect-free. It is the sole arbiter
// of table-boundary detection, so any change here changes where tables begin
// and end.
func LooksLikeHeader(cells []string) bool {
	if len(cells) < 2 {
		return false
	}
	for _, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			return false
		}
		if isNumericCell(cell) {
			return false
		}
	}
	return true
}

// isNumericCell reports whether a cell is purely numeric. Thousands
// separators are removed first so "1,234" counts as numeric, matching how the
// exporters print counters.
func isNumericCell(cell string) bool {
	_, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
	return err == nil
}
