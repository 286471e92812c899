package table

import (
	"math"
	"reflect"
	"testing"
)

func TestMissing(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"NaN", math.NaN(), true},
		{"zero", 0.0, false},
		{"text", "STATION_A", false},
		{"negative", -12.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Missing(tt.v); got != tt.want {
				t.Errorf("Missing(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestNumber(t *testing.T) {
	if _, ok := Number("12.5"); ok {
		t.Error("Number should not coerce strings")
	}
	if _, ok := Number(math.NaN()); ok {
		t.Error("Number should reject NaN")
	}
	got, ok := Number(3.25)
	if !ok || got != 3.25 {
		t.Errorf("Number(3.25) = %v, %v", got, ok)
	}
}

func TestTable_NumericFields(t *testing.T) {
	t.Run("mostly numeric field passes the threshold", func(t *testing.T) {
		tbl := New([]string{"temp", "station"})
		for i := 0; i < 9; i++ {
			tbl.Rows = append(tbl.Rows, Row{"temp": float64(i), "station": "A"})
		}
		tbl.Rows = append(tbl.Rows, Row{"temp": "bad", "station": "A"})

		got := tbl.NumericFields()
		want := []string{"temp"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("NumericFields() = %v, want %v", got, want)
		}
	})

	t.Run("missing values do not count against the ratio", func(t *testing.T) {
		tbl := New([]string{"sal"})
		tbl.Rows = append(tbl.Rows,
			Row{"sal": 35.1},
			Row{"sal": nil},
			Row{"sal": nil},
			Row{"sal": 34.9},
		)
		if got := tbl.NumericFields(); len(got) != 1 || got[0] != "sal" {
			t.Errorf("NumericFields() = %v, want [sal]", got)
		}
	})

	t.Run("below threshold is excluded", func(t *testing.T) {
		tbl := New([]string{"mixed"})
		tbl.Rows = append(tbl.Rows,
			Row{"mixed": 1.0},
			Row{"mixed": "a"},
			Row{"mixed": "b"},
			Row{"mixed": "c"},
		)
		if got := tbl.NumericFields(); len(got) != 0 {
			t.Errorf("NumericFields() = %v, want none", got)
		}
	})
}

func TestTable_MissingRatio(t *testing.T) {
	tbl := New([]string{"temp"})
	tbl.Rows = append(tbl.Rows,
		Row{"temp": 20.1},
		Row{"temp": nil},
		Row{"temp": math.NaN()},
		Row{"temp": ""},
	)
	if got := tbl.MissingRatio("temp"); got != 0.75 {
		t.Errorf("MissingRatio(temp) = %v, want 0.75", got)
	}

	empty := New([]string{"temp"})
	if got := empty.MissingRatio("temp"); got != 1 {
		t.Errorf("MissingRatio on empty table = %v, want 1", got)
	}
}

func TestTable_Clone(t *testing.T) {
	tbl := New([]string{"temp"})
	tbl.Rows = append(tbl.Rows, Row{"temp": 20.0})

	clone := tbl.Clone()
	clone.Rows[0]["temp"] = 99.0

	if tbl.Rows[0]["temp"] != 20.0 {
		t.Error("mutating a clone changed the original")
	}
}

func TestTable_Append_NewFields(t *testing.T) {
	tbl := New([]string{"temp"})
	tbl.Append(Row{"temp": 1.0, "salinity": 35.0, "depth": 10.0})

	want := []string{"temp", "depth", "salinity"}
	if !reflect.DeepEqual(tbl.Fields, want) {
		t.Errorf("Fields = %v, want %v", tbl.Fields, want)
	}
}
