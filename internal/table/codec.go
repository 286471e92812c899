package table

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Format identifies a supported file format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatNetCDF Format = "netcdf"
	FormatHDF5   Format = "hdf5"
)

var (
	// ErrUnsupportedFormat indicates a file extension outside the whitelist.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptyInput indicates a file with no header or no parseable content.
	ErrEmptyInput = errors.New("empty input")

	// ErrTooManyRows indicates the row cap was exceeded during parsing.
	ErrTooManyRows = errors.New("too many rows")
)

// FormatForPath infers the format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".nc":
		return FormatNetCDF, nil
	case ".h5", ".hdf5":
		return FormatHDF5, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Tabular reports whether the format is parsed in-process. NetCDF and HDF5
// are handled by the external delegate.
func (f Format) Tabular() bool {
	return f == FormatCSV || f == FormatJSON
}

// DecodeOptions bounds parsing.
type DecodeOptions struct {
	// MaxRows caps the number of parsed rows. Zero means no cap.
	MaxRows int
}

// Decode parses CSV or JSON content into a Table.
func Decode(r io.Reader, format Format, opts DecodeOptions) (*Table, error) {
	switch format {
	case FormatCSV:
		return decodeCSV(r, opts)
	case FormatJSON:
		return decodeJSON(r, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Encode serializes a Table as CSV or JSON.
func Encode(w io.Writer, t *Table, format Format) error {
	switch format {
	case FormatCSV:
		return encodeCSV(w, t)
	case FormatJSON:
		return encodeJSON(w, t)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func decodeCSV(r io.Reader, opts DecodeOptions) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	t := New(header)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", t.Len()+1, err)
		}
		if opts.MaxRows > 0 && t.Len() >= opts.MaxRows {
			return nil, fmt.Errorf("%w: cap is %d", ErrTooManyRows, opts.MaxRows)
		}

		row := make(Row, len(header))
		for i, field := range header {
			if i >= len(record) {
				row[field] = nil
				continue
			}
			row[field] = parseCell(record[i])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// parseCell applies the heuristic value parser: float64 when the cell parses
// as a number, nil when empty, string otherwise.
func parseCell(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func decodeJSON(r io.Reader, opts DecodeOptions) (*Table, error) {
	var objects []map[string]json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&objects); err != nil {
		return nil, fmt.Errorf("parsing JSON array: %w", err)
	}
	if opts.MaxRows > 0 && len(objects) > opts.MaxRows {
		return nil, fmt.Errorf("%w: cap is %d", ErrTooManyRows, opts.MaxRows)
	}

	t := New(nil)
	for _, obj := range objects {
		row := make(Row, len(obj))
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v, err := parseJSONValue(obj[k])
			if err != nil {
				return nil, fmt.Errorf("parsing JSON field %q: %w", k, err)
			}
			row[k] = v
		}
		t.Append(row)
	}
	return t, nil
}

func parseJSONValue(raw json.RawMessage) (Value, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case nil, float64, string:
		return x, nil
	case bool:
		// Booleans are kept as strings so the table stays two-typed.
		return strconv.FormatBool(x), nil
	default:
		return nil, fmt.Errorf("nested values are not supported (%T)", v)
	}
}

func encodeCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Fields); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	record := make([]string, len(t.Fields))
	for i, row := range t.Rows {
		for j, field := range t.Fields {
			record[j] = formatCell(row[field])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func encodeJSON(w io.Writer, t *Table) error {
	// NaN is not representable in JSON; normalize to null first.
	out := make([]map[string]any, len(t.Rows))
	for i, row := range t.Rows {
		obj := make(map[string]any, len(t.Fields))
		for _, field := range t.Fields {
			v, ok := row[field]
			if !ok || Missing(v) {
				obj[field] = nil
				continue
			}
			obj[field] = v
		}
		out[i] = obj
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// EncodeBytes is a convenience wrapper used by tests and the pipeline writer.
func EncodeBytes(t *Table, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, t, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
