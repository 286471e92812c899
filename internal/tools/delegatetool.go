package tools

import (
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/oceankit/oceankit/internal/delegate"
	"github.com/oceankit/oceankit/internal/log"
)

// DelegateToolsetName is the registered name of the delegate toolset.
const DelegateToolsetName = "delegate"

// CheckDependenciesInput defines input for the check_dependencies tool.
type CheckDependenciesInput struct{}

// LoadMetadataInput defines input for the load_metadata tool.
type LoadMetadataInput struct {
	FilePath string `json:"file_path" jsonschema_description:"Path of the NetCDF or HDF5 file to inspect"`
}

// MergeFilesInput defines input for the merge_files tool.
type MergeFilesInput struct {
	FilePaths  []string `json:"file_paths" jsonschema_description:"NetCDF files to merge, in order"`
	OutputPath string   `json:"output_path" jsonschema_description:"Path of the merged output file"`
	TimeDim    string   `json:"time_dim,omitempty" jsonschema_description:"Dimension to concatenate along, default time"`
}

// DelegateToolset exposes the operations that need the scientific Python
// stack. Every tool here shells out to the helper script; none of them
// work without a configured interpreter.
type DelegateToolset struct {
	io     *IO
	runner *delegate.Runner
	logger log.Logger
}

// NewDelegateToolset creates the delegate toolset.
func NewDelegateToolset(io *IO, runner *delegate.Runner, logger log.Logger) (*DelegateToolset, error) {
	if io == nil {
		return nil, fmt.Errorf("io plumbing is required")
	}
	if runner == nil {
		return nil, fmt.Errorf("delegate runner is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &DelegateToolset{io: io, runner: runner, logger: logger}, nil
}

// Name returns the toolset identifier.
func (*DelegateToolset) Name() string { return DelegateToolsetName }

// Tools returns the delegate tools. All are marked long-running because
// they spawn an external interpreter.
func (ts *DelegateToolset) Tools() []*ExecutableTool {
	return []*ExecutableTool{
		NewTool(
			ToolCheckDependencies,
			"Check whether the Python helper and its scientific libraries (xarray, "+
				"netCDF4, h5py, numpy) are available, reporting each library's version.",
			true,
			ts.CheckDependencies,
		),
		NewTool(
			ToolLoadMetadata,
			"Read the dimensions, variables and attributes of a NetCDF or HDF5 file "+
				"through the Python helper without loading its data.",
			true,
			ts.LoadMetadata,
		),
		NewTool(
			ToolMergeFiles,
			"Merge multiple NetCDF files along a shared dimension (default time) into "+
				"one output file through the Python helper.",
			true,
			ts.MergeFiles,
		),
	}
}

// CheckDependencies probes the helper environment.
func (ts *DelegateToolset) CheckDependencies(ctx *ai.ToolContext, _ CheckDependenciesInput) (Result, error) {
	ts.logger.Info("CheckDependencies called")

	deps, err := ts.runner.CheckDependencies(ctx.Context)
	if err != nil {
		return fail(&Error{Code: ErrCodeDelegate, Message: err.Error()}), nil
	}
	return Result{
		Status:  StatusSuccess,
		Message: "Python helper responded",
		Data:    map[string]any{"dependencies": deps},
	}, nil
}

// LoadMetadata reads structural metadata from a binary file.
func (ts *DelegateToolset) LoadMetadata(ctx *ai.ToolContext, input LoadMetadataInput) (Result, error) {
	ts.logger.Info("LoadMetadata called", "path", input.FilePath)

	if input.FilePath == "" {
		return fail(&Error{Code: ErrCodeValidation, Message: "file_path is required"}), nil
	}
	safe, err := ts.io.pathVal.Validate(input.FilePath)
	if err != nil {
		return fail(&Error{Code: ErrCodeSecurity, Message: err.Error()}), nil
	}

	meta, err := ts.runner.LoadMetadata(ctx.Context, safe)
	if err != nil {
		return fail(&Error{Code: ErrCodeDelegate, Message: err.Error()}), nil
	}
	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Loaded metadata from %s", input.FilePath),
		Data:    map[string]any{"metadata": meta},
	}, nil
}

// MergeFiles concatenates NetCDF files along one dimension.
func (ts *DelegateToolset) MergeFiles(ctx *ai.ToolContext, input MergeFilesInput) (Result, error) {
	ts.logger.Info("MergeFiles called", "files", len(input.FilePaths), "output", input.OutputPath)

	if len(input.FilePaths) < 2 {
		return fail(&Error{Code: ErrCodeValidation, Message: "merge_files needs at least two file_paths"}), nil
	}
	if input.OutputPath == "" {
		return fail(&Error{Code: ErrCodeValidation, Message: "output_path is required"}), nil
	}

	safePaths := make([]string, 0, len(input.FilePaths))
	for _, p := range input.FilePaths {
		safe, err := ts.io.pathVal.Validate(p)
		if err != nil {
			return fail(&Error{Code: ErrCodeSecurity, Message: err.Error()}), nil
		}
		safePaths = append(safePaths, safe)
	}
	safeOut, err := ts.io.pathVal.Validate(input.OutputPath)
	if err != nil {
		return fail(&Error{Code: ErrCodeSecurity, Message: err.Error()}), nil
	}

	out, err := ts.runner.MergeFiles(ctx.Context, safePaths, safeOut, input.TimeDim)
	if err != nil {
		return fail(&Error{Code: ErrCodeDelegate, Message: err.Error()}), nil
	}
	return Result{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Merged %d files into %s", len(safePaths), input.OutputPath),
		Files:   []string{safeOut},
		Data:    map[string]any{"merge": out},
	}, nil
}
