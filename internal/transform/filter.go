package transform

import (
	"fmt"
	"math"

	"github.com/oceankit/oceankit/internal/table"
)

// Range is an inclusive [Min, Max] bound on one field. Nil ends are open.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Contains reports whether v satisfies the range.
func (r Range) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Bounds returns the effective endpoints for log output.
func (r Range) Bounds() (float64, float64) {
	lo, hi := math.Inf(-1), math.Inf(1)
	if r.Min != nil {
		lo = *r.Min
	}
	if r.Max != nil {
		hi = *r.Max
	}
	return lo, hi
}

// Filter keeps rows satisfying every range predicate. A row that lacks a
// predicate's field, or holds a missing value there, is kept: missingness
// is not a filter failure.
func Filter(t *table.Table, ranges map[string]Range) (*table.Table, []string) {
	out := table.New(t.Fields)
	dropped := 0

	for _, r := range t.Rows {
		if rowPasses(r, ranges) {
			out.Rows = append(out.Rows, table.CloneRow(r))
		} else {
			dropped++
		}
	}

	var warnings []string
	if dropped > 0 {
		warnings = append(warnings, fmt.Sprintf("Filtered out %d rows", dropped))
	}
	return out, warnings
}

func rowPasses(r table.Row, ranges map[string]Range) bool {
	for field, rng := range ranges {
		v, ok := r[field]
		if !ok || table.Missing(v) {
			continue
		}
		f, isNum := table.Number(v)
		if !isNum {
			continue
		}
		if !rng.Contains(f) {
			return false
		}
	}
	return true
}
