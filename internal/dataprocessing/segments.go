package dataprocessing

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"wprcli/pkg/contracts/domain"
)

// Sentinel conditions surfaced as segment-level diagnostics.
var (
	// ErrMissingHeader marks a segment whose first content line could not be
	// classified as a header row.
	ErrMissingHeader = errors.New("expected a header row")
	// ErrPartialTable marks a table that was still open when the input ended.
	ErrPartialTable = errors.New("input ended inside an unfinished table")
	// ErrDuplicateTitle marks a segment whose title was already seen; the
	// later segment replaces the earlier one.
	ErrDuplicateTitle = errors.New("duplicate table title, earlier segment replaced")
)

// SegmentError describes a table segment that could not be parsed. These are
// diagnostics, not fatal errors: the scanner recovers and keeps looking for
// the next segment.
type SegmentError struct {
	Line  int    // 1-based line number where the problem was detected
	Title string // pending title, if one had been captured
	Err   error
}

func (e SegmentError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("line %d, table %q: %v", e.Line, e.Title, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e SegmentError) Unwrap() error { return e.Err }

// segmentState names the states of the boundary-detection state machine.
type segmentState int

const (
	seekingTitle segmentState = iota
	seekingHeader
	inBody
)

// maxLineBytes bounds a single report line. Exported tables can carry long
// stack or command-line columns.
const maxLineBytes = 1 << 20

// SegmentScanner partitions a multi-table report stream into table segments.
// Tables are separated only by blank lines and optional single-cell title
// lines; runs of consecutive blank lines collapse into one separator.
//
// Next returns segments one at a time so the caller never holds more than the
// current table in memory. Segment-level problems (a header that never
// arrived, a table cut off by end of input) are collected as diagnostics
// rather than stopping the scan; only I/O failure on the underlying stream is
// fatal.
type SegmentScanner struct {
	sc   *bufio.Scanner
	line int
	errs []SegmentError
}

// NewSegmentScanner creates a scanner over the given stream.
func NewSegmentScanner(r io.Reader) *SegmentScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &SegmentScanner{sc: sc}
}

// Errs returns the segment-level diagnostics collected so far.
func (s *SegmentScanner) Errs() []SegmentError {
	return s.errs
}

// Next returns the next complete table segment, or io.EOF when the input is
// exhausted.
func (s *SegmentScanner) Next() (*domain.TableSegment, error) {
	state := seekingTitle
	seg := &domain.TableSegment{}

	for {
		line, ok, err := s.readLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			switch state {
			case seekingHeader:
				// A title was captured but its header never arrived.
				s.report(seg.Title, ErrPartialTable)
				return nil, io.EOF
			case inBody:
				// End of stream finalizes the open segment.
				return seg, nil
			default:
				return nil, io.EOF
			}
		}

		blank := strings.TrimSpace(line) == ""

		switch state {
		case seekingTitle:
			if blank {
				continue
			}
			cells, err := splitCells(line)
			if err != nil {
				s.report("", fmt.Errorf("unreadable line: %w", err))
				s.skipToBlank()
				continue
			}
			if len(cells) == 1 {
				seg.Title = strings.TrimSpace(cells[0])
				state = seekingHeader
				continue
			}
			if LooksLikeHeader(cells) {
				// Titleless table: the line is the header itself.
				seg.Header = cells
				state = inBody
				continue
			}
			// Multi-cell data with neither title nor header.
			s.report("", ErrMissingHeader)
			s.skipToBlank()

		case seekingHeader:
			if blank {
				continue
			}
			cells, err := splitCells(line)
			if err == nil && LooksLikeHeader(cells) {
				seg.Header = cells
				state = inBody
				continue
			}
			s.report(seg.Title, ErrMissingHeader)
			s.skipToBlank()
			seg = &domain.TableSegment{}
			state = seekingTitle

		case inBody:
			if blank {
				return seg, nil
			}
			cells, err := splitCells(line)
			if err != nil {
				s.report(seg.Title, fmt.Errorf("unreadable row: %w", err))
				continue
			}
			seg.Rows = append(seg.Rows, cells)
		}
	}
}

// readLine returns the next line, a flag for whether one was read, and any
// I/O error from the underlying stream.
func (s *SegmentScanner) readLine() (string, bool, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", false, fmt.Errorf("read line %d: %w", s.line+1, err)
		}
		return "", false, nil
	}
	s.line++
	return s.sc.Text(), true, nil
}

// skipToBlank consumes lines up to and including the next blank line so the
// scanner can resynchronize on the following segment.
func (s *SegmentScanner) skipToBlank() {
	for s.sc.Scan() {
		s.line++
		if strings.TrimSpace(s.sc.Text()) == "" {
			return
		}
	}
}

func (s *SegmentScanner) report(title string, err error) {
	s.errs = append(s.errs, SegmentError{Line: s.line, Title: title, Err: err})
}

// splitCells parses one report line into cells. Fields may be quoted and may
// contain the delimiter; quoting errors are tolerated the way the exporters
// produce them.
func splitCells(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.Read()
}
