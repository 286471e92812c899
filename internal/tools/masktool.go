package tools

import (
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/oceankit/oceankit/internal/delegate"
	"github.com/oceankit/oceankit/internal/log"
	"github.com/oceankit/oceankit/internal/mask"
)

// MaskToolsetName is the registered name of the mask toolset.
const MaskToolsetName = "mask"

// GenerateMasksInput defines input for the generate_masks tool.
type GenerateMasksInput struct {
	FilePath          string    `json:"file_path" jsonschema_description:"Path of the ground-truth table (CSV/JSON) or NetCDF grid"`
	OutputPath        string    `json:"output_path" jsonschema_description:"Where to write the mask set"`
	Variable          string    `json:"variable,omitempty" jsonschema_description:"Variable to analyze; required for NetCDF input"`
	MissingRatioRange []float64 `json:"missing_ratio_range,omitempty" jsonschema_description:"Accepted [min, max] per-row missing ratio, default [0.1, 0.6]"`
	MaskCount         int       `json:"mask_count,omitempty" jsonschema_description:"Maximum number of cloud masks, default 360"`
}

// ApplyMasksInput defines input for the apply_masks tool.
type ApplyMasksInput struct {
	FilePath   string `json:"file_path" jsonschema_description:"Path of the ground-truth table (CSV/JSON) or NetCDF grid"`
	MaskFile   string `json:"mask_file" jsonschema_description:"Path of a mask set written by generate_masks"`
	OutputPath string `json:"output_path" jsonschema_description:"Where to write the masked table"`
	Variable   string `json:"variable,omitempty" jsonschema_description:"Variable to mask; required for NetCDF input"`
}

// MaskToolset derives and applies land/cloud masks. Tabular input is
// handled in process; gridded NetCDF input goes through the delegate.
type MaskToolset struct {
	io     *IO
	runner *delegate.Runner
	logger log.Logger
}

// NewMaskToolset creates the mask toolset. runner may be nil, which
// limits the tools to tabular input.
func NewMaskToolset(io *IO, runner *delegate.Runner, logger log.Logger) (*MaskToolset, error) {
	if io == nil {
		return nil, fmt.Errorf("io plumbing is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &MaskToolset{io: io, runner: runner, logger: logger}, nil
}

// Name returns the toolset identifier.
func (*MaskToolset) Name() string { return MaskToolsetName }

// Tools returns the mask tools.
func (ts *MaskToolset) Tools() []*ExecutableTool {
	return []*ExecutableTool{
		NewTool(
			ToolGenerateMasks,
			"Derive a land mask (fields missing in every row) and cloud masks (per-row "+
				"missingness patterns within a missing-ratio band) from a table, and save "+
				"them as a mask set for training-data synthesis.",
			false,
			ts.GenerateMasks,
		),
		NewTool(
			ToolApplyMasks,
			"Apply a stored mask set to a ground-truth table, forcing masked fields to "+
				"null so the result simulates realistic observation gaps.",
			false,
			ts.ApplyMasks,
		),
	}
}

// GenerateMasks derives a mask set from a table or a NetCDF grid.
func (ts *MaskToolset) GenerateMasks(ctx *ai.ToolContext, input GenerateMasksInput) (Result, error) {
	ts.logger.Info("GenerateMasks called", "path", input.FilePath, "count", input.MaskCount)

	params := mask.DefaultParams()
	if len(input.MissingRatioRange) > 0 {
		if len(input.MissingRatioRange) != 2 {
			return fail(&Error{Code: ErrCodeValidation,
				Message: fmt.Sprintf("missing_ratio_range must be [min, max], got %d values", len(input.MissingRatioRange))}), nil
		}
		params.MinRatio, params.MaxRatio = input.MissingRatioRange[0], input.MissingRatioRange[1]
	}
	if params.MinRatio < 0 || params.MaxRatio > 1 || params.MinRatio > params.MaxRatio {
		return fail(&Error{Code: ErrCodeValidation,
			Message: fmt.Sprintf("missing_ratio_range [%g, %g] must satisfy 0 <= min <= max <= 1", params.MinRatio, params.MaxRatio)}), nil
	}
	if input.MaskCount > 0 {
		params.Count = input.MaskCount
	}

	safe, format, terr := ts.io.ValidateInput(input.FilePath)
	if terr != nil {
		return fail(terr), nil
	}
	if !format.Tabular() {
		return ts.generateGridded(ctx, safe, input, params)
	}

	t, terr := ts.io.LoadTable(input.FilePath)
	if terr != nil {
		return fail(terr), nil
	}

	set, warnings := mask.Generate(t, params)

	safeOut, err := ts.io.pathVal.Validate(input.OutputPath)
	if err != nil {
		return fail(&Error{Code: ErrCodeSecurity, Message: err.Error()}), nil
	}
	if err := mask.Save(set, safeOut); err != nil {
		return fail(&Error{Code: ErrCodeIO, Message: err.Error()}), nil
	}

	landCount := 0
	for _, land := range set.LandMask {
		if land {
			landCount++
		}
	}
	return Result{
		Status:   StatusSuccess,
		Message:  fmt.Sprintf("Generated %d cloud masks (%d land fields) from %d rows", len(set.CloudMasks), landCount, t.Len()),
		Rows:     t.Len(),
		Warnings: warnings,
		Files:    []string{safeOut},
		Data: map[string]any{
			"cloud_masks": len(set.CloudMasks),
			"land_fields": landCount,
		},
	}, nil
}

// generateGridded hands a NetCDF grid to the Python helper.
func (ts *MaskToolset) generateGridded(ctx *ai.ToolContext, safe string, input GenerateMasksInput, params mask.Params) (Result, error) {
	if ts.runner == nil {
		return fail(&Error{Code: ErrCodeValidation,
			Message: "gridded input needs the Python delegate; set delegate.python and delegate.script"}), nil
	}
	if input.Variable == "" {
		return fail(&Error{Code: ErrCodeValidation, Message: "variable is required for gridded input"}), nil
	}
	safeOut, err := ts.io.pathVal.Validate(input.OutputPath)
	if err != nil {
		return fail(&Error{Code: ErrCodeSecurity, Message: err.Error()}), nil
	}

	payload, err := ts.runner.GenerateMasks(ctx.Context, safe, input.Variable, safeOut, map[string]any{
		"missing_ratio_range": []float64{params.MinRatio, params.MaxRatio},
		"mask_count":          params.Count,
	})
	if err != nil {
		return fail(&Error{Code: ErrCodeDelegate, Message: err.Error()}), nil
	}
	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Generated gridded masks for %s from %s", input.Variable, input.FilePath),
		Files:   []string{safeOut},
		Data:    payload,
	}, nil
}

// ApplyMasks masks a ground-truth table with a stored set.
func (ts *MaskToolset) ApplyMasks(ctx *ai.ToolContext, input ApplyMasksInput) (Result, error) {
	ts.logger.Info("ApplyMasks called", "path", input.FilePath, "masks", input.MaskFile)

	safe, format, terr := ts.io.ValidateInput(input.FilePath)
	if terr != nil {
		return fail(terr), nil
	}

	safeMask, err := ts.io.pathVal.Validate(input.MaskFile)
	if err != nil {
		return fail(&Error{Code: ErrCodeSecurity, Message: err.Error()}), nil
	}

	if !format.Tabular() {
		return ts.applyGridded(ctx, safe, safeMask, input)
	}

	t, terr := ts.io.LoadTable(input.FilePath)
	if terr != nil {
		return fail(terr), nil
	}
	set, err := mask.Load(safeMask)
	if err != nil {
		return fail(&Error{Code: ErrCodeIO, Message: err.Error()}), nil
	}

	masked, warnings := mask.Apply(t, set)
	written, terr := ts.io.SaveTable(masked, input.OutputPath)
	if terr != nil {
		return fail(terr), nil
	}
	return Result{
		Status:   StatusSuccess,
		Message:  fmt.Sprintf("Masked %d rows with %d cloud masks", masked.Len(), len(set.CloudMasks)),
		Rows:     masked.Len(),
		Preview:  ts.io.Preview(masked),
		Warnings: warnings,
		Files:    []string{written},
	}, nil
}

// applyGridded hands a NetCDF grid and an .npy mask bundle to the helper,
// which writes an HDF5 training file.
func (ts *MaskToolset) applyGridded(ctx *ai.ToolContext, safe, safeMask string, input ApplyMasksInput) (Result, error) {
	if ts.runner == nil {
		return fail(&Error{Code: ErrCodeValidation,
			Message: "gridded input needs the Python delegate; set delegate.python and delegate.script"}), nil
	}
	if input.Variable == "" {
		return fail(&Error{Code: ErrCodeValidation, Message: "variable is required for gridded input"}), nil
	}
	safeOut, err := ts.io.pathVal.Validate(input.OutputPath)
	if err != nil {
		return fail(&Error{Code: ErrCodeSecurity, Message: err.Error()}), nil
	}

	payload, err := ts.runner.ApplyMasks(ctx.Context, safe, input.Variable, safeMask, safeOut)
	if err != nil {
		return fail(&Error{Code: ErrCodeDelegate, Message: err.Error()}), nil
	}
	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Masked gridded variable %s into %s", input.Variable, safeOut),
		Files:   []string{safeOut},
		Data:    payload,
	}, nil
}
