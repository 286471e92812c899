package table

import (
	"math"
	"sort"
)

// FieldStats summarizes one numeric field.
type FieldStats struct {
	Field        string  `json:"field"`
	Count        int     `json:"count"`
	Missing      int     `json:"missing"`
	MissingRatio float64 `json:"missing_ratio"`
	Mean         float64 `json:"mean"`
	Std          float64 `json:"std"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Median       float64 `json:"median"`
}

// Stats computes summary statistics for a field, ignoring missing values.
// A field with no numeric values yields a zero-count result.
func (t *Table) Stats(field string) FieldStats {
	s := FieldStats{Field: field}
	var values []float64
	for _, r := range t.Rows {
		v, ok := r[field]
		if !ok || Missing(v) {
			s.Missing++
			continue
		}
		if f, isNum := Number(v); isNum {
			values = append(values, f)
		}
	}
	if t.Len() > 0 {
		s.MissingRatio = float64(s.Missing) / float64(t.Len())
	}
	s.Count = len(values)
	if s.Count == 0 {
		return s
	}

	s.Min, s.Max = values[0], values[0]
	sum := 0.0
	for _, v := range values {
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = sum / float64(s.Count)

	variance := 0.0
	for _, v := range values {
		d := v - s.Mean
		variance += d * d
	}
	s.Std = math.Sqrt(variance / float64(s.Count))

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		s.Median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		s.Median = sorted[mid]
	}
	return s
}

// Describe computes stats for every numeric field.
func (t *Table) Describe() []FieldStats {
	fields := t.NumericFields()
	out := make([]FieldStats, 0, len(fields))
	for _, f := range fields {
		out = append(out, t.Stats(f))
	}
	return out
}
