package dataprocessing

import (
	"strings"

	"wprcli/pkg/contracts/domain"
)

// Reducer merges a newly seen cell value into the value already held by a
// group, keyed by column name. The default reducer is last-write-wins; supply
// custom reducers when aggregation semantics (sum, max, ...) are needed.
type Reducer func(old, next string) string

// keySeparator joins key-column values into a single lookup key. Cell values
// never contain this byte in practice; the reports are printable text.
const keySeparator = "\x1f"

// Grouper deduplicates records by a set of key columns, merging non-key
// columns with last-write-wins (or a per-column Reducer). Output order is the
// order of first appearance of each distinct key. With no key columns the
// grouper is an identity pass-through.
//
// State grows with the number of distinct keys, not the number of records, so
// a streaming caller can feed arbitrarily many rows. Records() is valid at
// any point: a truncated parse still yields a consistent, if incomplete,
// result.
type Grouper struct {
	keyColumns []string
	reducers   map[string]Reducer
	index      map[string]int
	records    []*domain.Record
}

// NewGrouper creates a grouper over the given key columns.
func NewGrouper(keyColumns []string) *Grouper {
	return &Grouper{
		keyColumns: keyColumns,
		index:      make(map[string]int),
	}
}

// WithReducer registers a merge function for one column and returns the
// grouper for chaining.
func (g *Grouper) WithReducer(column string, fn Reducer) *Grouper {
	if g.reducers == nil {
		g.reducers = make(map[string]Reducer)
	}
	g.reducers[column] = fn
	return g
}

// Add feeds one record into the grouper. The grouper takes ownership of the
// record.
func (g *Grouper) Add(rec *domain.Record) {
	if len(g.keyColumns) == 0 {
		g.records = append(g.records, rec)
		return
	}

	key := g.keyFor(rec)
	idx, seen := g.index[key]
	if !seen {
		g.index[key] = len(g.records)
		g.records = append(g.records, rec)
		return
	}

	existing := g.records[idx]
	for _, col := range rec.Columns() {
		if g.isKeyColumn(col) {
			continue
		}
		next := rec.Value(col)
		if fn, ok := g.reducers[col]; ok {
			if old, present := existing.Get(col); present {
				next = fn(old, next)
			}
		}
		existing.Set(col, next)
	}
}

// Records returns the grouped records in first-seen key order.
func (g *Grouper) Records() []*domain.Record {
	return g.records
}

// Len returns the number of distinct groups seen so far.
func (g *Grouper) Len() int {
	return len(g.records)
}

func (g *Grouper) keyFor(rec *domain.Record) string {
	vals := make([]string, len(g.keyColumns))
	for i, col := range g.keyColumns {
		vals[i] = rec.Value(col)
	}
	return strings.Join(vals, keySeparator)
}

func (g *Grouper) isKeyColumn(column string) bool {
	for _, k := range g.keyColumns {
		if k == column {
			return true
		}
	}
	return false
}

// GroupRecords groups an in-memory record slice by the given key columns.
// Convenience wrapper over Grouper for callers that already hold all records.
func GroupRecords(records []*domain.Record, keyColumns []string) []*domain.Record {
	g := NewGrouper(keyColumns)
	for _, rec := range records {
		g.Add(rec)
	}
	return g.Records()
}
