package tools

import (
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/oceankit/oceankit/internal/log"
	"github.com/oceankit/oceankit/internal/mask"
	"github.com/oceankit/oceankit/internal/pipeline"
	"github.com/oceankit/oceankit/internal/transform"
)

// PipelineToolsetName is the registered name of the pipeline toolset.
const PipelineToolsetName = "pipeline"

// RunPipelineInput defines input for the run_pipeline tool.
type RunPipelineInput struct {
	FilePath   string `json:"file_path" jsonschema_description:"Path of the CSV or JSON file to process"`
	Preset     string `json:"preset" jsonschema_description:"Workflow preset: standard, ml_training, qc_only, or gap_fill"`
	OutputPath string `json:"output_path,omitempty" jsonschema_description:"Where to write the processed table"`
	OutputDir  string `json:"output_dir,omitempty" jsonschema_description:"Directory for mask and split files (ml_training)"`

	TempRange         []float64 `json:"temp_range,omitempty" jsonschema_description:"Accepted [min, max] temperature for the QC step"`
	SalinityRange     []float64 `json:"salinity_range,omitempty" jsonschema_description:"Accepted [min, max] salinity for the QC step"`
	PressureRange     []float64 `json:"pressure_range,omitempty" jsonschema_description:"Accepted [min, max] pressure for the QC step"`
	MissingRatioRange []float64 `json:"missing_ratio_range,omitempty" jsonschema_description:"Accepted [min, max] missing ratio for mask generation"`
	MaskCount         int       `json:"mask_count,omitempty" jsonschema_description:"Maximum cloud masks for mask generation"`
}

// PipelineToolset runs named workflow presets.
type PipelineToolset struct {
	io     *IO
	runner *pipeline.Runner
	logger log.Logger
}

// NewPipelineToolset creates the pipeline toolset.
func NewPipelineToolset(io *IO, runner *pipeline.Runner, logger log.Logger) (*PipelineToolset, error) {
	if io == nil {
		return nil, fmt.Errorf("io plumbing is required")
	}
	if runner == nil {
		return nil, fmt.Errorf("pipeline runner is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &PipelineToolset{io: io, runner: runner, logger: logger}, nil
}

// Name returns the toolset identifier.
func (*PipelineToolset) Name() string { return PipelineToolsetName }

// Tools returns the pipeline tools.
func (ts *PipelineToolset) Tools() []*ExecutableTool {
	return []*ExecutableTool{
		NewTool(
			ToolRunPipeline,
			"Run a named preprocessing workflow over a table. Presets: standard "+
				"(clean + QC + normalize), ml_training (clean + masks + pairs + split), "+
				"qc_only, gap_fill (clean + interpolate).",
			true, // presets may chain file-writing steps
			ts.RunPipeline,
		),
	}
}

// RunPipeline executes a preset.
func (ts *PipelineToolset) RunPipeline(_ *ai.ToolContext, input RunPipelineInput) (Result, error) {
	ts.logger.Info("RunPipeline called", "path", input.FilePath, "preset", input.Preset)

	if input.Preset == "" {
		return fail(&Error{Code: ErrCodeValidation,
			Message: fmt.Sprintf("preset is required, have %v", pipeline.PresetNames())}), nil
	}

	t, terr := ts.io.LoadTable(input.FilePath)
	if terr != nil {
		return fail(terr), nil
	}

	params := pipeline.Params{Aliases: ts.io.aliases}
	if r := toRange(input.TempRange); r != nil {
		params.QC.TemperatureRange = r
	}
	if r := toRange(input.SalinityRange); r != nil {
		params.QC.SalinityRange = r
	}
	if r := toRange(input.PressureRange); r != nil {
		params.QC.PressureRange = r
	}
	if len(input.MissingRatioRange) == 2 {
		params.Mask = mask.Params{
			MinRatio: input.MissingRatioRange[0],
			MaxRatio: input.MissingRatioRange[1],
			Count:    input.MaskCount,
		}
		if params.Mask.Count == 0 {
			params.Mask.Count = mask.DefaultParams().Count
		}
	} else if input.MaskCount > 0 {
		params.Mask = mask.DefaultParams()
		params.Mask.Count = input.MaskCount
	}
	if input.OutputDir != "" {
		safeDir, err := ts.io.pathVal.Validate(input.OutputDir)
		if err != nil {
			return fail(&Error{Code: ErrCodeSecurity, Message: err.Error()}), nil
		}
		params.OutputDir = safeDir
	}

	res, err := ts.runner.Run(input.Preset, t, params)
	if err != nil {
		return fail(&Error{Code: ErrCodeValidation, Message: err.Error()}), nil
	}

	result := Result{
		Status:   StatusSuccess,
		Message:  fmt.Sprintf("Preset %s finished %d steps with %d rows", input.Preset, len(res.Steps), res.Table.Len()),
		Rows:     res.Table.Len(),
		Preview:  ts.io.Preview(res.Table),
		Warnings: res.Warnings,
		Files:    res.Files,
		Data: map[string]any{
			"steps": res.Steps,
			"pairs": res.Pairs,
		},
	}
	if res.QCReport != nil {
		result.Data["qc_report"] = res.QCReport
	}
	if input.OutputPath != "" {
		written, terr := ts.io.SaveTable(res.Table, input.OutputPath)
		if terr != nil {
			return fail(terr), nil
		}
		result.Files = append(result.Files, written)
	}
	return result, nil
}

func toRange(bounds []float64) *transform.Range {
	if len(bounds) != 2 {
		return nil
	}
	lo, hi := bounds[0], bounds[1]
	return &transform.Range{Min: &lo, Max: &hi}
}
