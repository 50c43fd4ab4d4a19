package pgbridge

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Row is a single query result: an immutable mapping from column name
// to Value, always materialized in full from exactly one wire row.
// The orchestrator never constructs partial rows itself.
type Row struct {
	columns map[string]Value
}

// Get returns the value for a column. A present column holding SQL
// NULL returns the null Value; a missing column is an error.
func (r Row) Get(column string) (Value, error) {
	v, ok := r.columns[column]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	return v, nil
}

// Has reports whether the row contains a column.
func (r Row) Has(column string) bool {
	_, ok := r.columns[column]
	return ok
}

// Columns returns the row's column names in sorted order.
func (r Row) Columns() []string {
	names := make([]string, 0, len(r.columns))
	for name := range r.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of columns.
func (r Row) Len() int { return len(r.columns) }

// JSONValue projects the row into a generic JSON object keyed by
// column name, each value projected per Value.JSONValue: bytes as
// lowercase hex, timestamptz as RFC 3339, decimals as exact strings.
func (r Row) JSONValue() map[string]any {
	out := make(map[string]any, len(r.columns))
	for name, v := range r.columns {
		out[name] = v.JSONValue()
	}
	return out
}

// MarshalJSON implements json.Marshaler using the JSONValue
// projection. Object keys serialize in sorted order, so marshaling
// the same row twice yields byte-identical output.
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.JSONValue())
}
