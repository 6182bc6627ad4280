package domain

import (
	"bytes"
	"encoding/json"
)

// Record is an ordered mapping from column name to cell value.
// Column insertion order is preserved so that output (CSV columns, JSON keys)
// is deterministic regardless of how the record was assembled.
type Record struct {
	columns []string
	values  map[string]string
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// Set stores a value for the given column. The column keeps its original
// insertion position; setting an existing column overwrites the value only.
func (r *Record) Set(column, value string) {
	if _, ok := r.values[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

// Get returns the value for a column and whether the column is present.
func (r *Record) Get(column string) (string, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Value returns the value for a column, or the empty string when absent.
func (r *Record) Value(column string) string {
	return r.values[column]
}

// Columns returns the column names in insertion order.
// The returned slice is owned by the record and must not be mutated.
func (r *Record) Columns() []string {
	return r.columns
}

// Values returns the cell values in column order.
func (r *Record) Values() []string {
	out := make([]string, len(r.columns))
	for i, col := range r.columns {
		out[i] = r.values[col]
	}
	return out
}

// Len returns the number of columns.
func (r *Record) Len() int {
	return len(r.columns)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	out := &Record{
		columns: make([]string, len(r.columns)),
		values:  make(map[string]string, len(r.values)),
	}
	copy(out.columns, r.columns)
	for k, v := range r.values {
		out.values[k] = v
	}
	return out
}

// Equal reports whether two records have the same columns in the same order
// with the same values.
func (r *Record) Equal(other *Record) bool {
	if other == nil || len(r.columns) != len(other.columns) {
		return false
	}
	for i, col := range r.columns {
		if other.columns[i] != col || other.values[col] != r.values[col] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the record as a JSON object with keys in column order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[col])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
