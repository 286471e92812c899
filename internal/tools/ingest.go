package tools

import (
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/oceankit/oceankit/internal/delegate"
	"github.com/oceankit/oceankit/internal/log"
	"github.com/oceankit/oceankit/internal/table"
)

// IngestToolsetName is the registered name of the ingest toolset.
const IngestToolsetName = "ingest"

// LoadDataInput defines input for the load_data tool.
type LoadDataInput struct {
	FilePath string `json:"file_path" jsonschema_description:"Path of the CSV/JSON/NetCDF/HDF5 file to load"`
}

// DescribeDataInput defines input for the describe_data tool.
type DescribeDataInput struct {
	FilePath string   `json:"file_path" jsonschema_description:"Path of the CSV or JSON file to summarize"`
	Fields   []string `json:"fields,omitempty" jsonschema_description:"Restrict statistics to these fields"`
}

// ConvertFormatInput defines input for the convert_format tool.
type ConvertFormatInput struct {
	FilePath   string `json:"file_path" jsonschema_description:"Path of the CSV or JSON input file"`
	OutputPath string `json:"output_path" jsonschema_description:"Output path; the extension selects the format"`
}

// IngestToolset loads, summarizes and converts observation files.
// Binary formats are answered through the delegate when one is
// configured, otherwise with a placeholder pointing at it.
type IngestToolset struct {
	io     *IO
	runner *delegate.Runner
	logger log.Logger
}

// NewIngestToolset creates the ingest toolset. runner may be nil when no
// Python interpreter is available.
func NewIngestToolset(io *IO, runner *delegate.Runner, logger log.Logger) (*IngestToolset, error) {
	if io == nil {
		return nil, fmt.Errorf("io plumbing is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &IngestToolset{io: io, runner: runner, logger: logger}, nil
}

// Name returns the toolset identifier.
func (*IngestToolset) Name() string { return IngestToolsetName }

// Tools returns the ingest tools.
func (ts *IngestToolset) Tools() []*ExecutableTool {
	return []*ExecutableTool{
		NewTool(
			ToolLoadData,
			"Load an ocean observation file (CSV, JSON, NetCDF, HDF5) and report its "+
				"fields, row count and a preview. NetCDF/HDF5 files return metadata from "+
				"the Python delegate instead of rows.",
			false,
			ts.LoadData,
		),
		NewTool(
			ToolDescribeData,
			"Compute per-field statistics (count, mean, std, min, max, median, missing "+
				"ratio) for a CSV or JSON table.",
			false,
			ts.DescribeData,
		),
		NewTool(
			ToolConvert,
			"Convert a table between CSV and JSON. The output extension selects the format.",
			false,
			ts.ConvertFormat,
		),
	}
}

// LoadData parses a file and reports its shape.
func (ts *IngestToolset) LoadData(ctx *ai.ToolContext, input LoadDataInput) (Result, error) {
	ts.logger.Info("LoadData called", "path", input.FilePath)

	safe, format, terr := ts.io.ValidateInput(input.FilePath)
	if terr != nil {
		return fail(terr), nil
	}

	if !format.Tabular() {
		if ts.runner == nil {
			return Result{
				Status:  StatusSuccess,
				Message: fmt.Sprintf("%s is a %s file; configure the Python delegate to inspect it", input.FilePath, format),
				Data: map[string]any{
					"format":    string(format),
					"delegated": true,
					"hint":      "set delegate.python and delegate.script in the oceankit config",
				},
			}, nil
		}
		meta, err := ts.runner.LoadMetadata(ctx.Context, safe)
		if err != nil {
			return fail(&Error{Code: ErrCodeDelegate, Message: err.Error()}), nil
		}
		return Result{
			Status:  StatusSuccess,
			Message: fmt.Sprintf("Loaded %s metadata from %s", format, input.FilePath),
			Data:    map[string]any{"format": string(format), "metadata": meta},
		}, nil
	}

	t, terr := ts.io.LoadTable(input.FilePath)
	if terr != nil {
		return fail(terr), nil
	}
	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Loaded %d rows from %s", t.Len(), input.FilePath),
		Rows:    t.Len(),
		Preview: ts.io.Preview(t),
		Data: map[string]any{
			"fields":         t.Fields,
			"numeric_fields": t.NumericFields(),
			"format":         string(format),
		},
	}, nil
}

// DescribeData computes summary statistics. Binary files are described
// variable by variable through the delegate.
func (ts *IngestToolset) DescribeData(ctx *ai.ToolContext, input DescribeDataInput) (Result, error) {
	ts.logger.Info("DescribeData called", "path", input.FilePath)

	safe, format, terr := ts.io.ValidateInput(input.FilePath)
	if terr != nil {
		return fail(terr), nil
	}
	if !format.Tabular() {
		return ts.describeGridded(ctx, safe, input)
	}

	t, terr := ts.io.LoadTable(input.FilePath)
	if terr != nil {
		return fail(terr), nil
	}

	var stats []table.FieldStats
	if len(input.Fields) > 0 {
		for _, f := range input.Fields {
			stats = append(stats, t.Stats(f))
		}
	} else {
		stats = t.Describe()
	}

	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Described %d fields over %d rows", len(stats), t.Len()),
		Rows:    t.Len(),
		Data:    map[string]any{"statistics": stats},
	}, nil
}

// describeGridded runs NaN-aware statistics per variable in the helper.
func (ts *IngestToolset) describeGridded(ctx *ai.ToolContext, safe string, input DescribeDataInput) (Result, error) {
	if ts.runner == nil {
		return fail(&Error{Code: ErrCodeValidation,
			Message: "gridded input needs the Python delegate; set delegate.python and delegate.script"}), nil
	}
	if len(input.Fields) == 0 {
		return fail(&Error{Code: ErrCodeValidation,
			Message: "fields is required for NetCDF/HDF5 input; use load_data to list variables"}), nil
	}

	stats := make(map[string]any, len(input.Fields))
	for _, f := range input.Fields {
		s, err := ts.runner.CalculateStats(ctx.Context, safe, f)
		if err != nil {
			return fail(&Error{Code: ErrCodeDelegate, Message: err.Error()}), nil
		}
		stats[f] = s
	}
	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Described %d gridded variables from %s", len(stats), input.FilePath),
		Data:    map[string]any{"statistics": stats},
	}, nil
}

// ConvertFormat re-serializes a table in another format. Binary input and
// output are bridged through the delegate codec, so NetCDF rows can land
// in CSV and vice versa.
func (ts *IngestToolset) ConvertFormat(ctx *ai.ToolContext, input ConvertFormatInput) (Result, error) {
	ts.logger.Info("ConvertFormat called", "path", input.FilePath, "output", input.OutputPath)

	safeIn, inFormat, terr := ts.io.ValidateInput(input.FilePath)
	if terr != nil {
		return fail(terr), nil
	}
	if input.OutputPath == "" {
		return fail(&Error{Code: ErrCodeValidation, Message: "output_path is required"}), nil
	}
	safeOut, err := ts.io.pathVal.Validate(input.OutputPath)
	if err != nil {
		return fail(&Error{Code: ErrCodeSecurity, Message: err.Error()}), nil
	}
	outFormat, err := table.FormatForPath(safeOut)
	if err != nil {
		return fail(&Error{Code: ErrCodeValidation, Message: err.Error()}), nil
	}
	if (!inFormat.Tabular() || !outFormat.Tabular()) && ts.runner == nil {
		return fail(&Error{Code: ErrCodeValidation,
			Message: "binary formats need the Python delegate; set delegate.python and delegate.script"}), nil
	}

	var t *table.Table
	if inFormat.Tabular() {
		if t, terr = ts.io.LoadTable(input.FilePath); terr != nil {
			return fail(terr), nil
		}
	} else {
		if t, err = ts.runner.Decode(ctx.Context, safeIn, nil); err != nil {
			return fail(&Error{Code: ErrCodeDelegate, Message: err.Error()}), nil
		}
	}

	written := safeOut
	if outFormat.Tabular() {
		if written, terr = ts.io.SaveTable(t, input.OutputPath); terr != nil {
			return fail(terr), nil
		}
	} else {
		if err := ts.runner.Encode(ctx.Context, t, safeOut); err != nil {
			return fail(&Error{Code: ErrCodeDelegate, Message: err.Error()}), nil
		}
	}
	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Converted %s to %s", input.FilePath, written),
		Rows:    t.Len(),
		Files:   []string{written},
	}, nil
}
