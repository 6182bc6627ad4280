package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"wprcli/pkg/contracts/domain"
)

// processColumn is the column name that automatically gets trailing process
// identifiers stripped, matching how the tracing tools label process columns.
const processColumn = "Process"

// TableOptions configures single-table parsing.
type TableOptions struct {
	// Rename maps source column names to output column names. Columns absent
	// from the map pass through unchanged. Two source columns present in the
	// same table must not map to the same target.
	Rename map[string]string

	// KeyColumns are the output column names used to group and deduplicate
	// rows. Empty means no grouping: every row becomes a record.
	KeyColumns []string

	// Formatters are per-column value formatters, keyed by output column
	// name. A column named exactly "Process" always gets
	// StripTrailingIdentifier applied first, before any formatter here.
	Formatters map[string]CellFormatter

	// OnMalformedValue selects the fallback when a formatter rejects a value.
	OnMalformedValue MalformedValuePolicy

	// Reducers override the last-write-wins merge per output column when
	// grouping.
	Reducers map[string]Reducer
}

// TableResult carries the parsed records plus row-level diagnostics.
type TableResult struct {
	Records []*domain.Record
	// MalformedRows counts rows skipped because their cell count did not
	// match the header.
	MalformedRows int
	// FlaggedValues counts cells a formatter rejected and that were kept raw
	// under KeepRawValue.
	FlaggedValues int
}

// ErrEmptyTable is returned when a table has no header line at all.
var ErrEmptyTable = errors.New("table has no header line")

// ParseTable reads a single-table delimited stream: the first row is the
// header, every following row is data. Rows stream through the grouper one at
// a time, so memory is bounded by the number of distinct group keys rather
// than the row count.
func ParseTable(r io.Reader, opts TableOptions) (*TableResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	proc, err := newRowProcessor(header, opts)
	if err != nil {
		return nil, err
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if err := proc.process(row); err != nil {
			return nil, err
		}
	}

	return proc.result(), nil
}

// ParseTableFile opens and parses a single-table report file.
func ParseTableFile(path string, opts TableOptions) (*TableResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	result, err := ParseTable(f, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return result, nil
}

// rowProcessor applies renaming, formatting and grouping to body rows. It is
// shared by the single-table and multi-table parsers.
type rowProcessor struct {
	outCols    []string
	formatters []CellFormatter // aligned with outCols, nil means passthrough
	policy     MalformedValuePolicy
	grouper    *Grouper
	rowNum     int
	malformed  int
	flagged    int
}

func newRowProcessor(header []string, opts TableOptions) (*rowProcessor, error) {
	outCols := make([]string, len(header))
	seen := make(map[string]string, len(header))
	for i, col := range header {
		out := col
		if renamed, ok := opts.Rename[col]; ok {
			out = renamed
		}
		if prev, dup := seen[out]; dup {
			return nil, fmt.Errorf("rename map: columns %q and %q both map to %q", prev, col, out)
		}
		seen[out] = col
		outCols[i] = out
	}

	formatters := make([]CellFormatter, len(outCols))
	for i, col := range outCols {
		if f, ok := opts.Formatters[col]; ok {
			formatters[i] = f
		}
	}

	grouper := NewGrouper(opts.KeyColumns)
	for col, fn := range opts.Reducers {
		grouper.WithReducer(col, fn)
	}

	return &rowProcessor{
		outCols:    outCols,
		formatters: formatters,
		policy:     opts.OnMalformedValue,
		grouper:    grouper,
	}, nil
}

func (p *rowProcessor) process(row []string) error {
	p.rowNum++
	if len(row) != len(p.outCols) {
		// Never index-misalign into adjacent columns: drop the whole row.
		p.malformed++
		slog.Debug("skipping malformed row",
			slog.Int("row", p.rowNum),
			slog.Int("cells", len(row)),
			slog.Int("want", len(p.outCols)))
		return nil
	}

	rec := domain.NewRecord()
	for i, col := range p.outCols {
		val := row[i]
		if col == processColumn {
			val = StripTrailingIdentifier(val)
		}
		if f := p.formatters[i]; f != nil {
			formatted, err := f(val)
			if err != nil {
				if p.policy == FailOnMalformedValue {
					return fmt.Errorf("row %d, column %q: %w", p.rowNum, col, err)
				}
				p.flagged++
				slog.Debug("keeping raw value for rejected cell",
					slog.Int("row", p.rowNum),
					slog.String("column", col),
					slog.String("error", err.Error()))
			} else {
				val = formatted
			}
		}
		rec.Set(col, val)
	}
	p.grouper.Add(rec)
	return nil
}

func (p *rowProcessor) result() *TableResult {
	return &TableResult{
		Records:       p.grouper.Records(),
		MalformedRows: p.malformed,
		FlaggedValues: p.flagged,
	}
}
