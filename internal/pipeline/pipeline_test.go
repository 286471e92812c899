package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oceankit/oceankit/internal/log"
	"github.com/oceankit/oceankit/internal/mask"
	"github.com/oceankit/oceankit/internal/table"
	"github.com/oceankit/oceankit/internal/transform"
)

func testTable(n int) *table.Table {
	tbl := table.New([]string{"temperature", "salinity"})
	for i := 0; i < n; i++ {
		row := table.Row{"temperature": 20.0 + float64(i%10), "salinity": 35.0}
		if i%3 == 0 {
			row["salinity"] = nil
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl
}

func TestPresets(t *testing.T) {
	names := PresetNames()
	want := []string{"gap_fill", "ml_training", "qc_only", "standard"}
	if len(names) != len(want) {
		t.Fatalf("PresetNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("PresetNames()[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestRunner_Standard(t *testing.T) {
	r, err := NewRunner(log.NewNop())
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	res, err := r.Run("standard", testTable(20), Params{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Steps) != 3 {
		t.Errorf("Steps = %v, want 3 steps", res.Steps)
	}
	if res.QCReport == nil {
		t.Error("standard preset should produce a QC report")
	}
	// Normalized temperatures land in [0, 1].
	for i, row := range res.Table.Rows {
		v, ok := table.Number(row["temperature"])
		if !ok {
			continue
		}
		if v < 0 || v > 1 {
			t.Fatalf("row %d temperature = %v, not normalized", i, v)
		}
	}
}

func TestRunner_QCOnly(t *testing.T) {
	r, _ := NewRunner(log.NewNop())
	in := testTable(10)

	res, err := r.Run("qc_only", in, Params{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Table.Len() != in.Len() {
		t.Errorf("qc_only changed the row count: %d -> %d", in.Len(), res.Table.Len())
	}
}

func TestRunner_GapFill(t *testing.T) {
	r, _ := NewRunner(log.NewNop())
	tbl := table.New([]string{"temperature"})
	for _, v := range []table.Value{10.0, nil, 20.0} {
		tbl.Rows = append(tbl.Rows, table.Row{"temperature": v})
	}

	res, err := r.Run("gap_fill", tbl, Params{Interp: transform.MethodLinear})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := res.Table.Rows[1]["temperature"]; got != 15.0 {
		t.Errorf("gap fill = %v, want 15", got)
	}
}

func TestRunner_MLTraining(t *testing.T) {
	r, _ := NewRunner(log.NewNop())
	dir := t.TempDir()

	res, err := r.Run("ml_training", testTable(30), Params{
		Mask:      mask.Params{MinRatio: 0.1, MaxRatio: 0.9, Count: 10},
		OutputDir: dir,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Pairs == 0 {
		t.Error("ml_training built no pairs")
	}
	if len(res.Files) != 4 {
		t.Fatalf("Files = %v, want masks.json plus three splits", res.Files)
	}
	for _, p := range res.Files {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing output %s: %v", p, err)
		}
	}
	if filepath.Base(res.Files[0]) != "masks.json" {
		t.Errorf("first output = %s, want masks.json", res.Files[0])
	}
}

func TestRunner_UnknownPreset(t *testing.T) {
	r, _ := NewRunner(log.NewNop())
	if _, err := r.Run("does_not_exist", testTable(1), Params{}); err == nil {
		t.Error("unknown preset should error")
	}
}
