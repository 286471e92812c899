// Package mask implements the land/cloud mask engine for missing-data
// simulation.
//
// A land mask marks fields that are absent in every observation
// (permanently dry, in the satellite sense). Cloud masks capture the
// per-row transient missingness pattern of rows whose missing ratio falls
// inside a requested band. Stored masks are later applied to a clean
// ground-truth table to synthesize realistic gaps for model training.
package mask

import (
	"fmt"

	"github.com/oceankit/oceankit/internal/table"
)

// LandMask marks fields missing in every row of the source table.
type LandMask map[string]bool

// CloudMask records the missingness pattern of one source row.
type CloudMask struct {
	// Index is the source row the pattern was lifted from.
	Index int `json:"index"`
	// MissingRatio is the fraction of non-land fields missing in that row.
	MissingRatio float64 `json:"missingRatio"`
	// Mask marks fields missing in that row. Land fields are excluded.
	Mask map[string]bool `json:"mask"`
}

// Set is a land mask plus an ordered sequence of cloud masks.
type Set struct {
	LandMask   LandMask    `json:"landMask"`
	CloudMasks []CloudMask `json:"cloudMasks"`
}

// Params bounds cloud-mask selection.
type Params struct {
	// MinRatio and MaxRatio bound the accepted missing ratio, inclusive.
	MinRatio float64
	MaxRatio float64
	// Count caps the number of cloud masks. Fewer may be returned when the
	// table has fewer qualifying rows; masks are never synthesized or
	// recycled.
	Count int
}

// DefaultParams mirrors the JAXA-style defaults of the binary-format path.
func DefaultParams() Params {
	return Params{MinRatio: 0.1, MaxRatio: 0.6, Count: 360}
}

// Generate derives a mask set from a table.
//
// The land pass examines every row for every field; a field is land only
// when missing in all of them. The cloud pass walks rows in original
// order and keeps the first Count rows whose non-land missing ratio lies
// in [MinRatio, MaxRatio]. Selection is deterministic.
//
// A malformed or empty table yields an empty set and a warning, never an
// error.
func Generate(t *table.Table, p Params) (*Set, []string) {
	set := &Set{LandMask: LandMask{}}
	var warnings []string

	if t == nil || t.Empty() {
		warnings = append(warnings, "Input table is empty, no masks generated")
		return set, warnings
	}

	var ocean []string
	for _, f := range t.Fields {
		land := true
		for _, r := range t.Rows {
			if !table.Missing(r[f]) {
				land = false
				break
			}
		}
		set.LandMask[f] = land
		if !land {
			ocean = append(ocean, f)
		}
	}

	if len(ocean) == 0 {
		warnings = append(warnings, "All fields are permanently missing, no cloud masks generated")
		return set, warnings
	}

	for i, r := range t.Rows {
		missing := 0
		pattern := make(map[string]bool, len(ocean))
		for _, f := range ocean {
			m := table.Missing(r[f])
			pattern[f] = m
			if m {
				missing++
			}
		}
		ratio := float64(missing) / float64(len(ocean))
		if ratio < p.MinRatio || ratio > p.MaxRatio {
			continue
		}
		set.CloudMasks = append(set.CloudMasks, CloudMask{
			Index:        i,
			MissingRatio: ratio,
			Mask:         pattern,
		})
		if p.Count > 0 && len(set.CloudMasks) >= p.Count {
			break
		}
	}

	if p.Count > 0 && len(set.CloudMasks) < p.Count {
		warnings = append(warnings, fmt.Sprintf(
			"Only %d of %d requested masks matched missing ratio [%.2f, %.2f]",
			len(set.CloudMasks), p.Count, p.MinRatio, p.MaxRatio))
	}
	return set, warnings
}

// Apply builds the masked "input" table from a ground truth and a mask
// set. Row i < len(CloudMasks) is copied with every cloud-masked or land
// field forced to nil. Rows beyond the cloud-mask count pass through
// unmodified; dropping them would lose ground-truth data, so the
// carry-through is deliberate. The ground truth is never mutated.
//
// A nil or empty set is a pass-through with a warning.
func Apply(t *table.Table, set *Set) (*table.Table, []string) {
	var warnings []string
	if t == nil {
		return nil, []string{"No input table to mask"}
	}
	if set == nil || len(set.CloudMasks) == 0 {
		warnings = append(warnings, "Mask set is empty, table passed through unmasked")
		return t.Clone(), warnings
	}

	out := table.New(t.Fields)
	out.Rows = make([]table.Row, t.Len())
	for i, r := range t.Rows {
		row := table.CloneRow(r)
		if i < len(set.CloudMasks) {
			applyMask(row, t.Fields, set.LandMask, set.CloudMasks[i].Mask)
		}
		out.Rows[i] = row
	}

	if t.Len() > len(set.CloudMasks) {
		warnings = append(warnings, fmt.Sprintf(
			"%d rows beyond the %d cloud masks were passed through unmasked",
			t.Len()-len(set.CloudMasks), len(set.CloudMasks)))
	}
	return out, warnings
}

func applyMask(row table.Row, fields []string, land LandMask, cloud map[string]bool) {
	for _, f := range fields {
		if land[f] || cloud[f] {
			row[f] = nil
		}
	}
}
