package delegate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oceankit/oceankit/internal/table"
)

// Extra helper commands backing the Codec interface.
const (
	cmdExportTable = "export_table"
	cmdImportTable = "import_table"
)

// Codec is the external collaborator interface for binary formats. Core
// logic goes through it and never assumes the delegate succeeded
// silently; every error carries the helper's diagnostics.
type Codec interface {
	// Decode flattens the named variables of a NetCDF/HDF5 file into a
	// row-oriented table. An empty fields list decodes every variable.
	Decode(ctx context.Context, path string, fields []string) (*table.Table, error)

	// Encode writes a table back to a binary file.
	Encode(ctx context.Context, t *table.Table, path string) error
}

// Runner implements Codec via the helper's export_table/import_table
// commands.
var _ Codec = (*Runner)(nil)

// exportPayload is the helper's export_table response shape.
type exportPayload struct {
	Fields []string `json:"fields"`
	Rows   [][]any  `json:"rows"`
}

// Decode implements Codec.
func (r *Runner) Decode(ctx context.Context, path string, fields []string) (*table.Table, error) {
	req := Request{Command: cmdExportTable, File: path}
	if len(fields) > 0 {
		req.Params = map[string]any{"fields": fields}
	}
	payload, err := r.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	// Re-marshal the generic payload into the typed shape.
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHelperOutput, err)
	}
	var export exportPayload
	if err := json.Unmarshal(raw, &export); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHelperOutput, err)
	}
	if len(export.Fields) == 0 {
		return nil, fmt.Errorf("%w: export_table returned no fields", ErrHelperOutput)
	}

	t := table.New(export.Fields)
	for i, values := range export.Rows {
		if len(values) != len(export.Fields) {
			return nil, fmt.Errorf("%w: row %d has %d values for %d fields",
				ErrHelperOutput, i, len(values), len(export.Fields))
		}
		row := make(table.Row, len(export.Fields))
		for j, f := range export.Fields {
			switch v := values[j].(type) {
			case nil, float64, string:
				row[f] = v
			default:
				return nil, fmt.Errorf("%w: row %d field %q has unsupported type %T",
					ErrHelperOutput, i, f, v)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Encode implements Codec. The table is staged as a JSON scratch file the
// helper converts to the binary format inferred from the output path.
func (r *Runner) Encode(ctx context.Context, t *table.Table, path string) error {
	scratch, err := os.CreateTemp("", "oceankit-encode-*.json")
	if err != nil {
		return fmt.Errorf("creating scratch file: %w", err)
	}
	defer func() {
		_ = scratch.Close()
		_ = os.Remove(scratch.Name())
	}()

	if err := table.Encode(scratch, t, table.FormatJSON); err != nil {
		return fmt.Errorf("staging table for encode: %w", err)
	}
	if err := scratch.Close(); err != nil {
		return fmt.Errorf("flushing scratch file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	_, err = r.Run(ctx, Request{Command: cmdImportTable, File: scratch.Name(), Output: path})
	return err
}
