// Package table provides the row-oriented data model shared by all
// preprocessing steps.
//
// A Table is an ordered sequence of rows parsed from a CSV or JSON
// observation file. Row order is preserved on every operation: it carries
// the temporal/spatial sequence that interpolation, spike detection and
// mask indexing depend on.
package table

import (
	"fmt"
	"math"
	"sort"
)

// Value is a single cell: float64, string, or nil when missing.
type Value = any

// Row maps a field name to its value for one observation.
type Row map[string]Value

// Table is an ordered collection of rows with a stable field order.
type Table struct {
	// Fields holds field names in first-seen order.
	Fields []string
	// Rows holds observations in file order.
	Rows []Row
}

// NumericThreshold is the fraction of present values that must parse as
// numbers for a field to be treated as numeric.
const NumericThreshold = 0.8

// New creates an empty table with the given field order.
func New(fields []string) *Table {
	return &Table{Fields: append([]string(nil), fields...)}
}

// Missing reports whether a value counts as missing data.
// Nil, empty string, and NaN are all missing. The same predicate is used
// by cleaning, mask generation, and gap filling.
func Missing(v Value) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case float64:
		return math.IsNaN(x)
	default:
		return false
	}
}

// Number extracts a float64 from a value. The second return is false when
// the value is missing or not numeric.
func Number(v Value) (float64, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return t.Len() == 0 }

// Append adds a row and records any fields not seen before.
func (t *Table) Append(r Row) {
	for _, f := range sortedNewFields(t, r) {
		t.Fields = append(t.Fields, f)
	}
	t.Rows = append(t.Rows, r)
}

// sortedNewFields returns fields present in r but not yet in t, sorted for
// deterministic ordering when a row introduces several at once.
func sortedNewFields(t *Table, r Row) []string {
	known := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		known[f] = true
	}
	var fresh []string
	for f := range r {
		if !known[f] {
			fresh = append(fresh, f)
		}
	}
	sort.Strings(fresh)
	return fresh
}

// Clone returns a deep copy. Transforms operate on clones so the parsed
// input is never mutated.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := New(t.Fields)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = CloneRow(r)
	}
	return out
}

// CloneRow returns a shallow copy of a row. Values are scalars, so a
// shallow copy is a full copy.
func CloneRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// NumericFields returns the fields where at least NumericThreshold of the
// non-missing values are numbers, in table field order.
func (t *Table) NumericFields() []string {
	var out []string
	for _, f := range t.Fields {
		present, numeric := 0, 0
		for _, r := range t.Rows {
			v, ok := r[f]
			if !ok || Missing(v) {
				continue
			}
			present++
			if _, isNum := Number(v); isNum {
				numeric++
			}
		}
		if present > 0 && float64(numeric) >= NumericThreshold*float64(present) {
			out = append(out, f)
		}
	}
	return out
}

// Column returns the values of one field in row order. Rows without the
// field yield nil.
func (t *Table) Column(field string) []Value {
	out := make([]Value, len(t.Rows))
	for i, r := range t.Rows {
		if v, ok := r[field]; ok {
			out[i] = v
		}
	}
	return out
}

// MissingRatio returns the fraction of rows where field is missing.
// An empty table reports 1.
func (t *Table) MissingRatio(field string) float64 {
	if t.Len() == 0 {
		return 1
	}
	missing := 0
	for _, r := range t.Rows {
		if Missing(r[field]) {
			missing++
		}
	}
	return float64(missing) / float64(t.Len())
}

// Head returns up to n rows for result previews.
func (t *Table) Head(n int) []Row {
	if n > t.Len() {
		n = t.Len()
	}
	out := make([]Row, n)
	for i := 0; i < n; i++ {
		out[i] = CloneRow(t.Rows[i])
	}
	return out
}

// String implements fmt.Stringer for log output.
func (t *Table) String() string {
	return fmt.Sprintf("Table(%d fields, %d rows)", len(t.Fields), t.Len())
}
