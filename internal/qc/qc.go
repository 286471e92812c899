// Package qc implements range-based quality control and 3-point spike
// detection for ocean observation tables.
package qc

import (
	"fmt"
	"math"

	"github.com/oceankit/oceankit/internal/table"
	"github.com/oceankit/oceankit/internal/transform"
)

// DefaultSpikeThreshold is the multiplier on the local window deviation
// above which a point is flagged as a spike.
const DefaultSpikeThreshold = 3.0

// Params configures a quality-control run. Ranges bind to source fields
// through the table's alias resolver, so callers speak in canonical
// parameter names.
type Params struct {
	TemperatureRange *transform.Range
	SalinityRange    *transform.Range
	PressureRange    *transform.Range
	OxygenRange      *transform.Range

	CheckSpikes    bool
	SpikeThreshold float64

	// RemoveOutliers drops flagged rows from the returned table.
	RemoveOutliers bool
}

// Report summarizes a quality-control run.
type Report struct {
	// Failed marks each input row that violated at least one check.
	Failed []bool `json:"-"`
	// Violations counts range failures per canonical parameter.
	Violations map[string]int `json:"violations"`
	// Spikes lists the row indexes flagged by spike detection.
	Spikes []int `json:"spikes"`
	// FailedCount is the number of rows with any failure.
	FailedCount int `json:"failed_count"`
	// Removed is the number of rows dropped (only when RemoveOutliers).
	Removed int `json:"removed"`
}

// Check runs range checks and optional spike detection. The returned table
// is the input clone, with flagged rows removed when p.RemoveOutliers is
// set; the original is never modified.
func Check(t *table.Table, resolver *table.Resolver, p Params) (*table.Table, *Report, []string) {
	report := &Report{
		Failed:     make([]bool, t.Len()),
		Violations: make(map[string]int),
	}
	var warnings []string

	checks := []struct {
		param string
		rng   *transform.Range
	}{
		{table.ParamTemperature, p.TemperatureRange},
		{table.ParamSalinity, p.SalinityRange},
		{table.ParamPressure, p.PressureRange},
		{table.ParamOxygen, p.OxygenRange},
	}

	for _, c := range checks {
		if c.rng == nil {
			continue
		}
		field, ok := resolver.Field(c.param)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("No field found for parameter %q, range check skipped", c.param))
			continue
		}
		for i, r := range t.Rows {
			v, isNum := table.Number(r[field])
			if !isNum {
				continue
			}
			if !c.rng.Contains(v) {
				report.Violations[c.param]++
				report.Failed[i] = true
			}
		}
	}

	if p.CheckSpikes {
		threshold := p.SpikeThreshold
		if threshold <= 0 {
			threshold = DefaultSpikeThreshold
		}
		field, ok := resolver.Field(table.ParamTemperature)
		if !ok {
			warnings = append(warnings, "No temperature field found, spike check skipped")
		} else {
			report.Spikes = DetectSpikes(t.Column(field), threshold)
			for _, i := range report.Spikes {
				report.Failed[i] = true
			}
		}
	}

	for _, failed := range report.Failed {
		if failed {
			report.FailedCount++
		}
	}
	if report.FailedCount > 0 {
		warnings = append(warnings, fmt.Sprintf("%d rows failed quality control", report.FailedCount))
	}

	out := t.Clone()
	if p.RemoveOutliers && report.FailedCount > 0 {
		kept := table.New(t.Fields)
		for i, r := range out.Rows {
			if report.Failed[i] {
				report.Removed++
				continue
			}
			kept.Rows = append(kept.Rows, r)
		}
		out = kept
		warnings = append(warnings, fmt.Sprintf("Removed %d flagged rows", report.Removed))
	}
	return out, report, warnings
}

// DetectSpikes flags interior points whose distance from the neighbor
// average exceeds threshold times the two-point window deviation. This is
// a local estimator, deliberately not a global statistical test: results
// depend on the exact window definition.
func DetectSpikes(values []table.Value, threshold float64) []int {
	var spikes []int
	for i := 1; i < len(values)-1; i++ {
		cur, okCur := table.Number(values[i])
		prev, okPrev := table.Number(values[i-1])
		next, okNext := table.Number(values[i+1])
		if !okCur || !okPrev || !okNext {
			continue
		}

		avg := (prev + next) / 2
		window := math.Sqrt(((prev-avg)*(prev-avg) + (next-avg)*(next-avg)) / 2)
		diff := math.Abs(cur - avg)

		// Equal neighbors give a zero window deviation; fall back to the
		// threshold as an absolute bound so an isolated jump still flags.
		if window > 0 {
			if diff > threshold*window {
				spikes = append(spikes, i)
			}
		} else if diff > threshold {
			spikes = append(spikes, i)
		}
	}
	return spikes
}
