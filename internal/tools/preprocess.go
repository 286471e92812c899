package tools

import (
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/oceankit/oceankit/internal/log"
	"github.com/oceankit/oceankit/internal/table"
	"github.com/oceankit/oceankit/internal/transform"
)

// PreprocessToolsetName is the registered name of the preprocess toolset.
const PreprocessToolsetName = "preprocess"

// CleanDataInput defines input for the clean_data tool.
type CleanDataInput struct {
	FilePath   string `json:"file_path" jsonschema_description:"Path of the CSV or JSON file to clean"`
	OutputPath string `json:"output_path" jsonschema_description:"Where to write the cleaned table"`
}

// FilterDataInput defines input for the filter_data tool.
type FilterDataInput struct {
	FilePath   string                     `json:"file_path" jsonschema_description:"Path of the CSV or JSON file to filter"`
	OutputPath string                     `json:"output_path" jsonschema_description:"Where to write the filtered table"`
	Ranges     map[string]transform.Range `json:"ranges" jsonschema_description:"Per-field inclusive min/max bounds; rows failing any bound are dropped"`
}

// NormalizeDataInput defines input for the normalize_data tool.
type NormalizeDataInput struct {
	FilePath   string `json:"file_path" jsonschema_description:"Path of the CSV or JSON file to scale"`
	OutputPath string `json:"output_path" jsonschema_description:"Where to write the scaled table"`
	Method     string `json:"method,omitempty" jsonschema_description:"Scaling method: minmax (default) or zscore"`
}

// InterpolateDataInput defines input for the interpolate_data tool.
type InterpolateDataInput struct {
	FilePath   string `json:"file_path" jsonschema_description:"Path of the CSV or JSON file to gap-fill"`
	OutputPath string `json:"output_path" jsonschema_description:"Where to write the filled table"`
	Method     string `json:"method,omitempty" jsonschema_description:"Fill method: linear (default), nearest, or mean"`
}

// PreprocessToolset provides the row-wise transform tools.
type PreprocessToolset struct {
	io     *IO
	logger log.Logger
}

// NewPreprocessToolset creates the preprocess toolset.
func NewPreprocessToolset(io *IO, logger log.Logger) (*PreprocessToolset, error) {
	if io == nil {
		return nil, fmt.Errorf("io plumbing is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &PreprocessToolset{io: io, logger: logger}, nil
}

// Name returns the toolset identifier.
func (*PreprocessToolset) Name() string { return PreprocessToolsetName }

// Tools returns the transform tools.
func (ts *PreprocessToolset) Tools() []*ExecutableTool {
	return []*ExecutableTool{
		NewTool(
			ToolCleanData,
			"Clean a table: drop rows with more than 50% missing values and remove "+
				"duplicate rows. The input file is never modified.",
			false,
			ts.CleanData,
		),
		NewTool(
			ToolFilterData,
			"Keep only rows whose values satisfy every given per-field range. Rows "+
				"missing a filtered field are kept.",
			false,
			ts.FilterData,
		),
		NewTool(
			ToolNormalizeData,
			"Scale every numeric field with min-max normalization or z-score "+
				"standardization.",
			false,
			ts.NormalizeData,
		),
		NewTool(
			ToolInterpolateData,
			"Fill missing numeric values from neighboring rows (linear or nearest) "+
				"or from the field mean.",
			false,
			ts.InterpolateData,
		),
	}
}

// writeResult saves the table and assembles the shared success shape.
func (ts *PreprocessToolset) writeResult(t *table.Table, outputPath, message string, warnings []string) (Result, error) {
	written, terr := ts.io.SaveTable(t, outputPath)
	if terr != nil {
		return fail(terr), nil
	}
	return Result{
		Status:   StatusSuccess,
		Message:  message,
		Rows:     t.Len(),
		Preview:  ts.io.Preview(t),
		Warnings: warnings,
		Files:    []string{written},
	}, nil
}

// CleanData drops mostly-missing and duplicate rows.
func (ts *PreprocessToolset) CleanData(_ *ai.ToolContext, input CleanDataInput) (Result, error) {
	ts.logger.Info("CleanData called", "path", input.FilePath)

	t, terr := ts.io.LoadTable(input.FilePath)
	if terr != nil {
		return fail(terr), nil
	}
	cleaned, warnings := transform.Clean(t)
	return ts.writeResult(cleaned, input.OutputPath,
		fmt.Sprintf("Cleaned %d rows down to %d", t.Len(), cleaned.Len()), warnings)
}

// FilterData applies range predicates.
func (ts *PreprocessToolset) FilterData(_ *ai.ToolContext, input FilterDataInput) (Result, error) {
	ts.logger.Info("FilterData called", "path", input.FilePath, "ranges", len(input.Ranges))

	if len(input.Ranges) == 0 {
		return fail(&Error{Code: ErrCodeValidation, Message: "ranges is required"}), nil
	}
	t, terr := ts.io.LoadTable(input.FilePath)
	if terr != nil {
		return fail(terr), nil
	}
	filtered, warnings := transform.Filter(t, input.Ranges)
	return ts.writeResult(filtered, input.OutputPath,
		fmt.Sprintf("Kept %d of %d rows", filtered.Len(), t.Len()), warnings)
}

// NormalizeData scales numeric fields.
func (ts *PreprocessToolset) NormalizeData(_ *ai.ToolContext, input NormalizeDataInput) (Result, error) {
	ts.logger.Info("NormalizeData called", "path", input.FilePath, "method", input.Method)

	t, terr := ts.io.LoadTable(input.FilePath)
	if terr != nil {
		return fail(terr), nil
	}

	var (
		scaled   *table.Table
		warnings []string
	)
	switch input.Method {
	case "", "minmax":
		scaled, warnings = transform.Normalize(t)
	case "zscore":
		scaled, warnings = transform.Standardize(t)
	default:
		return fail(&Error{Code: ErrCodeValidation,
			Message: fmt.Sprintf("unknown method %q, want minmax or zscore", input.Method)}), nil
	}
	return ts.writeResult(scaled, input.OutputPath,
		fmt.Sprintf("Scaled %d numeric fields", len(t.NumericFields())), warnings)
}

// InterpolateData fills gaps.
func (ts *PreprocessToolset) InterpolateData(_ *ai.ToolContext, input InterpolateDataInput) (Result, error) {
	ts.logger.Info("InterpolateData called", "path", input.FilePath, "method", input.Method)

	t, terr := ts.io.LoadTable(input.FilePath)
	if terr != nil {
		return fail(terr), nil
	}
	filled, warnings, err := transform.Interpolate(t, transform.Method(input.Method))
	if err != nil {
		return fail(&Error{Code: ErrCodeValidation, Message: err.Error()}), nil
	}
	return ts.writeResult(filled, input.OutputPath, "Interpolated missing values", warnings)
}
