package domain

// TableSegment is a self-contained title/header/body unit found inside a
// multi-table report file. Rows hold raw cell strings exactly as they appear
// in the file; cell-count validation against the header happens downstream so
// misaligned rows are never silently kept.
type TableSegment struct {
	Title  string
	Header []string
	Rows   [][]string
}

// Titled reports whether the segment carried an explicit title line.
func (s TableSegment) Titled() bool {
	return s.Title != ""
}
