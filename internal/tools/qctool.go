package tools

import (
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/oceankit/oceankit/internal/log"
	"github.com/oceankit/oceankit/internal/qc"
	"github.com/oceankit/oceankit/internal/transform"
)

// QCToolsetName is the registered name of the quality-control toolset.
const QCToolsetName = "qc"

// QualityCheckInput defines input for the quality_check tool. Ranges are
// given as [min, max] pairs against canonical parameters; the alias table
// maps them onto whatever the file calls its fields.
type QualityCheckInput struct {
	FilePath       string     `json:"file_path" jsonschema_description:"Path of the CSV or JSON file to check"`
	OutputPath     string     `json:"output_path,omitempty" jsonschema_description:"Where to write the checked table; required with remove_outliers"`
	TempRange      []float64  `json:"temp_range,omitempty" jsonschema_description:"Accepted [min, max] temperature"`
	SalinityRange  []float64  `json:"salinity_range,omitempty" jsonschema_description:"Accepted [min, max] salinity"`
	PressureRange  []float64  `json:"pressure_range,omitempty" jsonschema_description:"Accepted [min, max] pressure"`
	OxygenRange    []float64  `json:"oxygen_range,omitempty" jsonschema_description:"Accepted [min, max] dissolved oxygen"`
	CheckSpikes    bool       `json:"check_spikes,omitempty" jsonschema_description:"Run 3-point spike detection on the temperature field"`
	SpikeThreshold float64    `json:"spike_threshold,omitempty" jsonschema_description:"Spike sensitivity multiplier, default 3"`
	RemoveOutliers bool       `json:"remove_outliers,omitempty" jsonschema_description:"Drop flagged rows from the output"`
}

// QCToolset flags implausible measurements.
type QCToolset struct {
	io     *IO
	logger log.Logger
}

// NewQCToolset creates the quality-control toolset.
func NewQCToolset(io *IO, logger log.Logger) (*QCToolset, error) {
	if io == nil {
		return nil, fmt.Errorf("io plumbing is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &QCToolset{io: io, logger: logger}, nil
}

// Name returns the toolset identifier.
func (*QCToolset) Name() string { return QCToolsetName }

// Tools returns the quality-control tools.
func (ts *QCToolset) Tools() []*ExecutableTool {
	return []*ExecutableTool{
		NewTool(
			ToolQualityCheck,
			"Flag rows with out-of-range temperature, salinity, pressure or oxygen "+
				"values, optionally detect temperature spikes, and optionally remove "+
				"the flagged rows.",
			false,
			ts.QualityCheck,
		),
	}
}

// QualityCheck runs the configured checks.
func (ts *QCToolset) QualityCheck(_ *ai.ToolContext, input QualityCheckInput) (Result, error) {
	ts.logger.Info("QualityCheck called", "path", input.FilePath, "spikes", input.CheckSpikes)

	params := qc.Params{
		CheckSpikes:    input.CheckSpikes,
		SpikeThreshold: input.SpikeThreshold,
		RemoveOutliers: input.RemoveOutliers,
	}
	ranges := []struct {
		name   string
		bounds []float64
		dest   **transform.Range
	}{
		{"temp_range", input.TempRange, &params.TemperatureRange},
		{"salinity_range", input.SalinityRange, &params.SalinityRange},
		{"pressure_range", input.PressureRange, &params.PressureRange},
		{"oxygen_range", input.OxygenRange, &params.OxygenRange},
	}
	for _, r := range ranges {
		if len(r.bounds) == 0 {
			continue
		}
		if len(r.bounds) != 2 {
			return fail(&Error{Code: ErrCodeValidation,
				Message: fmt.Sprintf("%s must be [min, max], got %d values", r.name, len(r.bounds))}), nil
		}
		lo, hi := r.bounds[0], r.bounds[1]
		*r.dest = &transform.Range{Min: &lo, Max: &hi}
	}
	if input.RemoveOutliers && input.OutputPath == "" {
		return fail(&Error{Code: ErrCodeValidation,
			Message: "output_path is required when remove_outliers is set"}), nil
	}

	t, terr := ts.io.LoadTable(input.FilePath)
	if terr != nil {
		return fail(terr), nil
	}

	checked, report, warnings := qc.Check(t, ts.io.Resolver(t), params)

	result := Result{
		Status: StatusSuccess,
		Message: fmt.Sprintf("Quality control flagged %d of %d rows",
			report.FailedCount, t.Len()),
		Rows:     checked.Len(),
		Preview:  ts.io.Preview(checked),
		Warnings: warnings,
		Data: map[string]any{
			"violations":   report.Violations,
			"spikes":       report.Spikes,
			"failed_count": report.FailedCount,
			"removed":      report.Removed,
		},
	}
	if input.OutputPath != "" {
		written, terr := ts.io.SaveTable(checked, input.OutputPath)
		if terr != nil {
			return fail(terr), nil
		}
		result.Files = []string{written}
	}
	return result, nil
}
