package transform

import (
	"fmt"

	"github.com/oceankit/oceankit/internal/table"
)

// Method selects the gap-filling strategy for Interpolate.
type Method string

const (
	// MethodLinear averages the nearest valid neighbors on each side.
	MethodLinear Method = "linear"
	// MethodNearest copies the closest valid neighbor.
	MethodNearest Method = "nearest"
	// MethodMean fills with the field mean.
	MethodMean Method = "mean"
)

// Interpolate fills missing values in every numeric field, treating row
// order as the sequence. Cells with no valid neighbor on either side stay
// missing.
func Interpolate(t *table.Table, method Method) (*table.Table, []string, error) {
	switch method {
	case MethodLinear, MethodNearest, MethodMean, "":
	default:
		return nil, nil, fmt.Errorf("unknown interpolation method %q", method)
	}
	if method == "" {
		method = MethodLinear
	}

	out := t.Clone()
	var warnings []string
	filled := 0

	for _, field := range t.NumericFields() {
		values := make([]float64, t.Len())
		valid := make([]bool, t.Len())
		for i, r := range t.Rows {
			values[i], valid[i] = table.Number(r[field])
		}

		mean := t.Stats(field).Mean
		for i := range out.Rows {
			if valid[i] || !table.Missing(out.Rows[i][field]) {
				continue
			}
			v, ok := fillValue(values, valid, i, mean, method)
			if !ok {
				continue
			}
			out.Rows[i][field] = v
			filled++
		}
	}
	if filled > 0 {
		warnings = append(warnings, fmt.Sprintf("Filled %d missing values using %s interpolation", filled, method))
	}
	return out, warnings, nil
}

func fillValue(values []float64, valid []bool, i int, mean float64, method Method) (float64, bool) {
	if method == MethodMean {
		for _, ok := range valid {
			if ok {
				return mean, true
			}
		}
		return 0, false
	}

	before, hasBefore := nearestValid(values, valid, i, -1)
	after, hasAfter := nearestValid(values, valid, i, +1)

	switch {
	case hasBefore && hasAfter:
		if method == MethodNearest {
			// nearestValid walks outward one step at a time, so distance
			// ties resolve toward the earlier row.
			db, da := i-before.index, after.index-i
			if da < db {
				return after.value, true
			}
			return before.value, true
		}
		return (before.value + after.value) / 2, true
	case hasBefore:
		return before.value, true
	case hasAfter:
		return after.value, true
	default:
		return 0, false
	}
}

type neighbor struct {
	index int
	value float64
}

func nearestValid(values []float64, valid []bool, from, step int) (neighbor, bool) {
	for i := from + step; i >= 0 && i < len(values); i += step {
		if valid[i] {
			return neighbor{index: i, value: values[i]}, true
		}
	}
	return neighbor{}, false
}
