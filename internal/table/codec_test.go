package table

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"data/argo.csv", FormatCSV, false},
		{"data/ARGO.CSV", FormatCSV, false},
		{"profiles.json", FormatJSON, false},
		{"grid.nc", FormatNetCDF, false},
		{"model.h5", FormatHDF5, false},
		{"model.hdf5", FormatHDF5, false},
		{"notes.txt", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatForPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("want ErrUnsupportedFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FormatForPath(%s) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestDecodeCSV(t *testing.T) {
	t.Run("heuristic cell parsing", func(t *testing.T) {
		in := "temperature,station,note\n20.5,A1,ok\n,A2,\n"
		tbl, err := Decode(strings.NewReader(in), FormatCSV, DecodeOptions{})
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if tbl.Len() != 2 {
			t.Fatalf("rows = %d, want 2", tbl.Len())
		}
		if v := tbl.Rows[0]["temperature"]; v != 20.5 {
			t.Errorf("temperature = %v (%T), want float64 20.5", v, v)
		}
		if v := tbl.Rows[0]["station"]; v != "A1" {
			t.Errorf("station = %v, want A1", v)
		}
		if v := tbl.Rows[1]["temperature"]; v != nil {
			t.Errorf("empty cell = %v, want nil", v)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Decode(strings.NewReader(""), FormatCSV, DecodeOptions{})
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("want ErrEmptyInput, got %v", err)
		}
	})

	t.Run("row cap", func(t *testing.T) {
		in := "a\n1\n2\n3\n"
		_, err := Decode(strings.NewReader(in), FormatCSV, DecodeOptions{MaxRows: 2})
		if !errors.Is(err, ErrTooManyRows) {
			t.Errorf("want ErrTooManyRows, got %v", err)
		}
	})
}

func TestDecodeJSON(t *testing.T) {
	t.Run("flat objects", func(t *testing.T) {
		in := `[{"temp": 18.2, "station": "B", "flag": null}]`
		tbl, err := Decode(strings.NewReader(in), FormatJSON, DecodeOptions{})
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if tbl.Rows[0]["temp"] != 18.2 || tbl.Rows[0]["station"] != "B" || tbl.Rows[0]["flag"] != nil {
			t.Errorf("unexpected row: %v", tbl.Rows[0])
		}
	})

	t.Run("nested values rejected", func(t *testing.T) {
		in := `[{"temp": {"surface": 18.2}}]`
		if _, err := Decode(strings.NewReader(in), FormatJSON, DecodeOptions{}); err == nil {
			t.Error("expected error for nested object")
		}
	})

	t.Run("not an array", func(t *testing.T) {
		if _, err := Decode(strings.NewReader(`{"a": 1}`), FormatJSON, DecodeOptions{}); err == nil {
			t.Error("expected error for top-level object")
		}
	})
}

func TestEncode_RoundTrip(t *testing.T) {
	tbl := New([]string{"temp", "station"})
	tbl.Rows = append(tbl.Rows,
		Row{"temp": 20.5, "station": "A"},
		Row{"temp": nil, "station": "B"},
	)

	for _, format := range []Format{FormatCSV, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			data, err := EncodeBytes(tbl, format)
			if err != nil {
				t.Fatalf("EncodeBytes: %v", err)
			}
			back, err := Decode(strings.NewReader(string(data)), format, DecodeOptions{})
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if back.Len() != tbl.Len() {
				t.Fatalf("rows = %d, want %d", back.Len(), tbl.Len())
			}
			if back.Rows[0]["temp"] != 20.5 {
				t.Errorf("temp = %v, want 20.5", back.Rows[0]["temp"])
			}
			if !Missing(back.Rows[1]["temp"]) {
				t.Errorf("missing value not preserved: %v", back.Rows[1]["temp"])
			}
		})
	}
}

func TestEncodeJSON_NaN(t *testing.T) {
	tbl := New([]string{"temp"})
	tbl.Rows = append(tbl.Rows, Row{"temp": math.NaN()})

	data, err := EncodeBytes(tbl, FormatJSON)
	if err != nil {
		t.Fatalf("EncodeBytes: %v", err)
	}
	if !strings.Contains(string(data), "null") {
		t.Errorf("NaN should serialize as null, got %s", data)
	}
}
