// Package delegate runs the external Python helper that handles NetCDF
// and HDF5 files.
//
// The in-process engine only understands tabular CSV/JSON data; anything
// binary is delegated to scripts/oceandata_helper.py (xarray/h5py/numpy).
// The helper speaks a small CLI: one command argument plus flags, one JSON
// object on stdout. Errors are reported either as a non-zero exit or as an
// {"error": ...} payload; both surface here as a single wrapped error with
// the captured diagnostics. There are no retries and no partial results.
package delegate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/oceankit/oceankit/internal/log"
)

// Helper commands understood by the Python script.
const (
	CmdCheckDeps     = "check_deps"
	CmdLoadMetadata  = "load_metadata"
	CmdGenerateMasks = "generate_masks"
	CmdApplyMasks    = "apply_masks"
	CmdMergeFiles    = "merge_files"
	CmdCalcStats     = "calculate_stats"
)

// DefaultTimeout bounds a helper invocation when the config does not.
const DefaultTimeout = 5 * time.Minute

var (
	// ErrHelperFailed indicates a non-zero exit from the helper process.
	ErrHelperFailed = errors.New("python helper failed")

	// ErrHelperOutput indicates stdout that was not a JSON object.
	ErrHelperOutput = errors.New("python helper produced malformed output")

	// ErrHelperReported indicates an {"error": ...} payload from the helper.
	ErrHelperReported = errors.New("python helper reported an error")
)

// Runner invokes the Python helper script.
type Runner struct {
	python  string
	script  string
	timeout time.Duration
	logger  log.Logger
}

// New creates a Runner. python is the interpreter binary, script the
// helper path. A zero timeout falls back to DefaultTimeout.
func New(python, script string, timeout time.Duration, logger log.Logger) (*Runner, error) {
	if python == "" {
		return nil, fmt.Errorf("python interpreter path is required")
	}
	if script == "" {
		return nil, fmt.Errorf("helper script path is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{python: python, script: script, timeout: timeout, logger: logger}, nil
}

// Request describes one helper invocation.
type Request struct {
	Command  string
	File     string
	Files    []string
	Output   string
	Variable string
	MaskFile string
	// Params is marshaled to JSON and passed as --params.
	Params map[string]any
}

// Run executes the helper and returns its decoded JSON payload.
// The payload is returned only on full success.
func (r *Runner) Run(ctx context.Context, req Request) (map[string]any, error) {
	args, err := r.buildArgs(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.logger.Info("Running python helper", "command", req.Command, "file", req.File)

	cmd := exec.CommandContext(ctx, r.python, args...) // #nosec G204 - interpreter and script come from config, not the model
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %s timed out after %s", ErrHelperFailed, req.Command, r.timeout)
		}
		return nil, fmt.Errorf("%w: %s: %v (stderr: %s)",
			ErrHelperFailed, req.Command, err, truncate(stderr.String(), 2000))
	}

	var payload map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &payload); err != nil {
		return nil, fmt.Errorf("%w: %s: %v (stdout: %s)",
			ErrHelperOutput, req.Command, err, truncate(stdout.String(), 500))
	}
	if msg, ok := payload["error"].(string); ok && msg != "" {
		return nil, fmt.Errorf("%w: %s: %s", ErrHelperReported, req.Command, msg)
	}
	return payload, nil
}

func (r *Runner) buildArgs(req Request) ([]string, error) {
	if req.Command == "" {
		return nil, fmt.Errorf("helper command is required")
	}
	args := []string{r.script, req.Command}
	if req.File != "" {
		args = append(args, "--file", req.File)
	}
	if req.Output != "" {
		args = append(args, "--output", req.Output)
	}
	if req.Variable != "" {
		args = append(args, "--variable", req.Variable)
	}
	if req.MaskFile != "" {
		args = append(args, "--mask-file", req.MaskFile)
	}
	if len(req.Params) > 0 {
		params, err := json.Marshal(req.Params)
		if err != nil {
			return nil, fmt.Errorf("encoding helper params: %w", err)
		}
		args = append(args, "--params", string(params))
	}
	if len(req.Files) > 0 {
		args = append(args, "--files")
		args = append(args, req.Files...)
	}
	return args, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// CheckDependencies asks the helper which Python libraries are available.
func (r *Runner) CheckDependencies(ctx context.Context) (map[string]any, error) {
	return r.Run(ctx, Request{Command: CmdCheckDeps})
}

// LoadMetadata reads variable/dimension metadata from a binary file.
func (r *Runner) LoadMetadata(ctx context.Context, path string) (map[string]any, error) {
	return r.Run(ctx, Request{Command: CmdLoadMetadata, File: path})
}

// MergeFiles concatenates NetCDF files along the time dimension.
func (r *Runner) MergeFiles(ctx context.Context, paths []string, output, timeDim string) (map[string]any, error) {
	req := Request{Command: CmdMergeFiles, Files: paths, Output: output}
	if timeDim != "" {
		req.Params = map[string]any{"time_dim": timeDim}
	}
	return r.Run(ctx, req)
}

// CalculateStats computes NaN-aware statistics for a NetCDF variable.
func (r *Runner) CalculateStats(ctx context.Context, path, variable string) (map[string]any, error) {
	return r.Run(ctx, Request{Command: CmdCalcStats, File: path, Variable: variable})
}

// GenerateMasks derives cloud masks from the missing-value pattern of a
// gridded variable. The helper reads the save location from params, not
// from --output.
func (r *Runner) GenerateMasks(ctx context.Context, path, variable, output string, params map[string]any) (map[string]any, error) {
	if params == nil {
		params = map[string]any{}
	}
	if output != "" {
		params["output"] = output
	}
	return r.Run(ctx, Request{Command: CmdGenerateMasks, File: path, Variable: variable, Params: params})
}

// ApplyMasks blanks a gridded variable with a stored mask file.
func (r *Runner) ApplyMasks(ctx context.Context, path, variable, maskFile, output string) (map[string]any, error) {
	return r.Run(ctx, Request{
		Command: CmdApplyMasks, File: path, Variable: variable, MaskFile: maskFile, Output: output,
	})
}
