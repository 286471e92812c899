package tools

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/oceankit/oceankit/internal/config"
	"github.com/oceankit/oceankit/internal/log"
	"github.com/oceankit/oceankit/internal/security"
	"github.com/oceankit/oceankit/internal/table"
)

// IO bundles the validation and file plumbing every toolset needs:
// path sandboxing, ingestion limits, the alias table, and a logger.
type IO struct {
	pathVal *security.Path
	limits  config.Limits
	aliases table.Aliases
	logger  log.Logger
}

// NewIO creates the shared toolset plumbing.
func NewIO(pathVal *security.Path, limits config.Limits, aliases table.Aliases, logger log.Logger) (*IO, error) {
	if pathVal == nil {
		return nil, fmt.Errorf("path validator is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if aliases == nil {
		aliases = table.DefaultAliases()
	}
	return &IO{pathVal: pathVal, limits: limits, aliases: aliases, logger: logger}, nil
}

// Resolver builds the per-table alias binding.
func (io *IO) Resolver(t *table.Table) *table.Resolver {
	return table.NewResolver(t, io.aliases)
}

// Preview returns the first rows of a table for result payloads.
func (io *IO) Preview(t *table.Table) []table.Row {
	n := io.limits.PreviewRows
	if n <= 0 {
		n = config.DefaultPreviewRows
	}
	return t.Head(n)
}

// ValidateInput checks a path before any processing: sandbox, existence,
// extension whitelist, size ceiling. Returns the safe path and the
// detected format.
func (io *IO) ValidateInput(path string) (string, table.Format, *Error) {
	if path == "" {
		return "", "", &Error{Code: ErrCodeValidation, Message: "file_path is required"}
	}
	safe, err := io.pathVal.Validate(path)
	if err != nil {
		return "", "", &Error{Code: ErrCodeSecurity, Message: err.Error()}
	}

	format, err := table.FormatForPath(safe)
	if err != nil {
		return "", "", &Error{Code: ErrCodeValidation, Message: err.Error()}
	}

	info, err := os.Stat(safe)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", &Error{Code: ErrCodeNotFound, Message: fmt.Sprintf("file not found: %s", path)}
		}
		return "", "", &Error{Code: ErrCodeIO, Message: fmt.Sprintf("stat %s: %v", path, err)}
	}
	if info.IsDir() {
		return "", "", &Error{Code: ErrCodeValidation, Message: fmt.Sprintf("%s is a directory", path)}
	}
	if info.Size() > io.limits.MaxFileBytes {
		return "", "", &Error{Code: ErrCodeValidation, Message: fmt.Sprintf(
			"file size %d exceeds the %d byte ceiling", info.Size(), io.limits.MaxFileBytes)}
	}
	return safe, format, nil
}

// LoadTable validates and parses a tabular (CSV/JSON) input file.
func (io *IO) LoadTable(path string) (*table.Table, *Error) {
	safe, format, terr := io.ValidateInput(path)
	if terr != nil {
		return nil, terr
	}
	if !format.Tabular() {
		return nil, &Error{Code: ErrCodeValidation, Message: fmt.Sprintf(
			"%s files are handled by the external delegate, not tabular tools", format)}
	}

	f, err := os.Open(safe) // #nosec G304 - validated above
	if err != nil {
		return nil, &Error{Code: ErrCodeIO, Message: fmt.Sprintf("opening %s: %v", path, err)}
	}
	defer func() { _ = f.Close() }()

	t, err := table.Decode(f, format, table.DecodeOptions{MaxRows: io.limits.MaxRows})
	if err != nil {
		return nil, &Error{Code: ErrCodeIO, Message: fmt.Sprintf("parsing %s: %v", path, err)}
	}
	io.logger.Info("Loaded table", "path", safe, "rows", t.Len(), "fields", len(t.Fields))
	return t, nil
}

// SaveTable validates the output path and serializes the table in the
// format implied by its extension. Output goes only to explicit paths;
// inputs are never rewritten in place by any tool.
func (io *IO) SaveTable(t *table.Table, path string) (string, *Error) {
	if path == "" {
		return "", &Error{Code: ErrCodeValidation, Message: "output_path is required"}
	}
	safe, err := io.pathVal.Validate(path)
	if err != nil {
		return "", &Error{Code: ErrCodeSecurity, Message: err.Error()}
	}
	format, err := table.FormatForPath(safe)
	if err != nil {
		return "", &Error{Code: ErrCodeValidation, Message: err.Error()}
	}
	if !format.Tabular() {
		return "", &Error{Code: ErrCodeValidation, Message: fmt.Sprintf(
			"cannot write %s output without the external delegate", format)}
	}

	if err := os.MkdirAll(filepath.Dir(safe), 0o750); err != nil {
		return "", &Error{Code: ErrCodeIO, Message: fmt.Sprintf("creating output directory: %v", err)}
	}
	f, err := os.OpenFile(safe, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) // #nosec G304 - validated above
	if err != nil {
		return "", &Error{Code: ErrCodeIO, Message: fmt.Sprintf("opening %s: %v", path, err)}
	}
	defer func() { _ = f.Close() }()

	if err := table.Encode(f, t, format); err != nil {
		return "", &Error{Code: ErrCodeIO, Message: fmt.Sprintf("writing %s: %v", path, err)}
	}
	io.logger.Info("Wrote table", "path", safe, "rows", t.Len())
	return safe, nil
}

// fail converts a structured error into an error Result.
func fail(e *Error) Result {
	return Result{Status: StatusError, Message: e.Message, Error: e}
}
