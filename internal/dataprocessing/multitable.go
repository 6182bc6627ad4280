package dataprocessing

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"wprcli/pkg/contracts/domain"
)

// HeaderPolicy controls how a multi-table parse treats segments whose header
// never arrived.
type HeaderPolicy int

const (
	// SkipSegment drops the broken segment, records a diagnostic and keeps
	// parsing. This is the default.
	SkipSegment HeaderPolicy = iota
	// AbortParse fails the whole parse on the first broken segment.
	AbortParse
)

// MultiTableOptions configures multi-table parsing.
type MultiTableOptions struct {
	// Tables supplies per-table options keyed by table title. Segments whose
	// title has no entry are parsed with zero options: no rename, no
	// formatters, no grouping.
	Tables map[string]TableOptions

	// OnMissingHeader selects the policy for segments without a classifiable
	// header.
	OnMissingHeader HeaderPolicy
}

// MultiTableResult maps each table title to its parsed records.
//
// Duplicate titles keep the last segment seen: the earlier segment's records
// are replaced, the title keeps its first-seen position in Order, and the
// replacement is recorded in Diagnostics. Titleless tables get the synthetic
// title "Table N" where N is the 1-based segment index.
type MultiTableResult struct {
	Tables map[string]*TableResult
	// Order lists titles by first appearance, for deterministic iteration.
	Order []string
	// Diagnostics collects segment-level problems: missing headers, partial
	// tables, duplicate titles. Non-empty diagnostics do not make the parse
	// itself fail.
	Diagnostics []SegmentError
}

// ParseMultiTable partitions a multi-table report stream into segments and
// parses each one. Zero tables in, zero entries out; K well-formed tables in,
// K entries out (absent duplicate titles).
func ParseMultiTable(r io.Reader, opts MultiTableOptions) (*MultiTableResult, error) {
	scanner := NewSegmentScanner(r)
	result := &MultiTableResult{Tables: make(map[string]*TableResult)}

	segIndex := 0
	for {
		seg, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		segIndex++

		title := seg.Title
		if title == "" {
			title = fmt.Sprintf("Table %d", segIndex)
		}

		tableResult, err := parseSegment(seg, opts.Tables[title])
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", title, err)
		}

		if _, dup := result.Tables[title]; dup {
			result.Diagnostics = append(result.Diagnostics, SegmentError{
				Title: title,
				Err:   ErrDuplicateTitle,
			})
			slog.Warn("duplicate table title, keeping last segment",
				slog.String("title", title))
		} else {
			result.Order = append(result.Order, title)
		}
		result.Tables[title] = tableResult
	}

	result.Diagnostics = append(result.Diagnostics, scanner.Errs()...)
	if opts.OnMissingHeader == AbortParse {
		for _, diag := range result.Diagnostics {
			if errors.Is(diag.Err, ErrMissingHeader) || errors.Is(diag.Err, ErrPartialTable) {
				return nil, diag
			}
		}
	}

	return result, nil
}

// ParseMultiTableFile opens and parses a multi-table report file.
func ParseMultiTableFile(path string, opts MultiTableOptions) (*MultiTableResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	result, err := ParseMultiTable(f, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return result, nil
}

// parseSegment runs the single-table body logic over one scanned segment.
func parseSegment(seg *domain.TableSegment, opts TableOptions) (*TableResult, error) {
	proc, err := newRowProcessor(seg.Header, opts)
	if err != nil {
		return nil, err
	}
	for _, row := range seg.Rows {
		if err := proc.process(row); err != nil {
			return nil, err
		}
	}
	return proc.result(), nil
}
