package table

import "testing"

func TestResolver(t *testing.T) {
	t.Run("first matching candidate wins", func(t *testing.T) {
		tbl := New([]string{"TEMP", "temp", "PSAL"})
		r := NewResolver(tbl, DefaultAliases())

		got, ok := r.Field(ParamTemperature)
		if !ok || got != "temp" {
			t.Errorf("Field(temperature) = %q, %v; want temp", got, ok)
		}
		got, ok = r.Field(ParamSalinity)
		if !ok || got != "PSAL" {
			t.Errorf("Field(salinity) = %q, %v; want PSAL", got, ok)
		}
	})

	t.Run("unmatched parameter stays unbound", func(t *testing.T) {
		tbl := New([]string{"temp"})
		r := NewResolver(tbl, DefaultAliases())

		if _, ok := r.Field(ParamOxygen); ok {
			t.Error("oxygen should be unbound")
		}
	})

	t.Run("custom aliases override candidates", func(t *testing.T) {
		tbl := New([]string{"wassertemp"})
		r := NewResolver(tbl, Aliases{ParamTemperature: {"wassertemp"}})

		got, ok := r.Field(ParamTemperature)
		if !ok || got != "wassertemp" {
			t.Errorf("Field(temperature) = %q, %v; want wassertemp", got, ok)
		}
	})
}

func TestStats(t *testing.T) {
	tbl := New([]string{"temp"})
	for _, v := range []Value{10.0, 20.0, 30.0, nil} {
		tbl.Rows = append(tbl.Rows, Row{"temp": v})
	}

	s := tbl.Stats("temp")
	if s.Count != 3 {
		t.Errorf("Count = %d, want 3", s.Count)
	}
	if s.Missing != 1 {
		t.Errorf("Missing = %d, want 1", s.Missing)
	}
	if s.Mean != 20 {
		t.Errorf("Mean = %v, want 20", s.Mean)
	}
	if s.Min != 10 || s.Max != 30 {
		t.Errorf("Min/Max = %v/%v, want 10/30", s.Min, s.Max)
	}
	if s.Median != 20 {
		t.Errorf("Median = %v, want 20", s.Median)
	}
	if s.MissingRatio != 0.25 {
		t.Errorf("MissingRatio = %v, want 0.25", s.MissingRatio)
	}
}

func TestStats_NoNumericValues(t *testing.T) {
	tbl := New([]string{"station"})
	tbl.Rows = append(tbl.Rows, Row{"station": "A"}, Row{"station": "B"})

	s := tbl.Stats("station")
	if s.Count != 0 {
		t.Errorf("Count = %d, want 0", s.Count)
	}
}
