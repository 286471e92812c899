// Package transform implements row-wise table transforms: cleaning,
// scaling, gap filling, and range filtering.
//
// Every transform takes a Table and returns a new one together with
// human-readable warnings describing what changed. Inputs are never
// mutated.
package transform

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/oceankit/oceankit/internal/table"
)

// CleanThreshold is the fraction of missing fields above which a row is
// dropped by Clean.
const CleanThreshold = 0.5

// Clean drops rows with more than CleanThreshold missing fields, then
// removes exact duplicates. Row order is otherwise preserved.
func Clean(t *table.Table) (*table.Table, []string) {
	out := table.New(t.Fields)
	var warnings []string

	dropped := 0
	for _, r := range t.Rows {
		if len(t.Fields) > 0 {
			missing := 0
			for _, f := range t.Fields {
				if table.Missing(r[f]) {
					missing++
				}
			}
			if float64(missing)/float64(len(t.Fields)) > CleanThreshold {
				dropped++
				continue
			}
		}
		out.Rows = append(out.Rows, table.CloneRow(r))
	}
	if dropped > 0 {
		warnings = append(warnings, fmt.Sprintf("Removed %d rows with more than %.0f%% missing values", dropped, CleanThreshold*100))
	}

	seen := make(map[string]bool, len(out.Rows))
	deduped := out.Rows[:0]
	dupes := 0
	for _, r := range out.Rows {
		key := rowKey(t.Fields, r)
		if seen[key] {
			dupes++
			continue
		}
		seen[key] = true
		deduped = append(deduped, r)
	}
	out.Rows = deduped
	if dupes > 0 {
		warnings = append(warnings, fmt.Sprintf("Removed %d duplicate rows", dupes))
	}
	return out, warnings
}

// rowKey builds a stable fingerprint of a row over the table's field set.
func rowKey(fields []string, r table.Row) string {
	h := sha256.New()
	for _, f := range fields {
		fmt.Fprintf(h, "%s=%v;", f, r[f])
	}
	// Fields outside the declared set still distinguish rows.
	var extra []string
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f] = true
	}
	for k := range r {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, f := range extra {
		fmt.Fprintf(h, "%s=%v;", f, r[f])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Normalize applies min-max scaling to every numeric field. Fields with a
// zero range are left untouched and reported.
func Normalize(t *table.Table) (*table.Table, []string) {
	out := t.Clone()
	var warnings []string

	for _, field := range t.NumericFields() {
		s := t.Stats(field)
		if s.Count == 0 {
			continue
		}
		span := s.Max - s.Min
		if span == 0 {
			warnings = append(warnings, fmt.Sprintf("Field %q has zero range, skipped normalization", field))
			continue
		}
		for _, r := range out.Rows {
			if v, ok := table.Number(r[field]); ok {
				r[field] = (v - s.Min) / span
			}
		}
	}
	return out, warnings
}

// Standardize applies z-score scaling to every numeric field. Fields with
// zero standard deviation are left untouched and reported.
func Standardize(t *table.Table) (*table.Table, []string) {
	out := t.Clone()
	var warnings []string

	for _, field := range t.NumericFields() {
		s := t.Stats(field)
		if s.Count == 0 {
			continue
		}
		if s.Std == 0 {
			warnings = append(warnings, fmt.Sprintf("Field %q has zero standard deviation, skipped standardization", field))
			continue
		}
		for _, r := range out.Rows {
			if v, ok := table.Number(r[field]); ok {
				r[field] = (v - s.Mean) / s.Std
			}
		}
	}
	return out, warnings
}
