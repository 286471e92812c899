package mask

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oceankit/oceankit/internal/table"
)

func TestGenerate(t *testing.T) {
	t.Run("land fields are missing in every row", func(t *testing.T) {
		tbl := table.New([]string{"sst", "ice", "chl"})
		tbl.Rows = append(tbl.Rows,
			table.Row{"sst": 20.0, "ice": nil, "chl": 0.4},
			table.Row{"sst": 21.0, "ice": nil, "chl": nil},
		)

		set, _ := Generate(tbl, Params{MinRatio: 0, MaxRatio: 1, Count: 10})
		if !set.LandMask["ice"] {
			t.Error("ice should be land (missing everywhere)")
		}
		if set.LandMask["sst"] || set.LandMask["chl"] {
			t.Errorf("LandMask = %v, only ice should be land", set.LandMask)
		}
	})

	t.Run("one present value flips a field to ocean", func(t *testing.T) {
		tbl := table.New([]string{"ice"})
		tbl.Rows = append(tbl.Rows,
			table.Row{"ice": nil},
			table.Row{"ice": 0.1},
			table.Row{"ice": nil},
		)

		set, _ := Generate(tbl, DefaultParams())
		if set.LandMask["ice"] {
			t.Error("a single present value must make the field ocean")
		}
	})

	t.Run("cloud ratio excludes land fields", func(t *testing.T) {
		// 4 fields, 1 land. Row 0 misses 1 of the 3 ocean fields: ratio 1/3.
		tbl := table.New([]string{"sst", "sal", "chl", "ice"})
		tbl.Rows = append(tbl.Rows,
			table.Row{"sst": 20.0, "sal": 35.0, "chl": nil, "ice": nil},
			table.Row{"sst": 21.0, "sal": 34.0, "chl": 0.3, "ice": nil},
		)

		set, _ := Generate(tbl, Params{MinRatio: 0.3, MaxRatio: 0.4, Count: 10})
		if len(set.CloudMasks) != 1 {
			t.Fatalf("cloud masks = %d, want 1", len(set.CloudMasks))
		}
		cm := set.CloudMasks[0]
		if cm.Index != 0 {
			t.Errorf("Index = %d, want 0", cm.Index)
		}
		if cm.MissingRatio < 0.33 || cm.MissingRatio > 0.34 {
			t.Errorf("MissingRatio = %v, want 1/3", cm.MissingRatio)
		}
		if !cm.Mask["chl"] || cm.Mask["sst"] || cm.Mask["sal"] {
			t.Errorf("Mask = %v", cm.Mask)
		}
		if _, hasLand := cm.Mask["ice"]; hasLand {
			t.Error("land fields must not appear in cloud masks")
		}
	})

	t.Run("selection is deterministic first-match order", func(t *testing.T) {
		tbl := table.New([]string{"a", "b"})
		for i := 0; i < 4; i++ {
			tbl.Rows = append(tbl.Rows, table.Row{"a": float64(i), "b": nil})
		}
		// b is present once so it stays ocean.
		tbl.Rows = append(tbl.Rows, table.Row{"a": 4.0, "b": 1.0})

		// Rows 0-3 have ratio 0.5; cap at 2 keeps rows 0 and 1.
		set, _ := Generate(tbl, Params{MinRatio: 0.4, MaxRatio: 0.6, Count: 2})
		if len(set.CloudMasks) != 2 {
			t.Fatalf("cloud masks = %d, want 2", len(set.CloudMasks))
		}
		if set.CloudMasks[0].Index != 0 || set.CloudMasks[1].Index != 1 {
			t.Errorf("indexes = %d, %d; want 0, 1", set.CloudMasks[0].Index, set.CloudMasks[1].Index)
		}

		again, _ := Generate(tbl, Params{MinRatio: 0.4, MaxRatio: 0.6, Count: 2})
		if again.CloudMasks[0].Index != 0 || again.CloudMasks[1].Index != 1 {
			t.Error("selection is not deterministic")
		}
	})

	t.Run("short supply warns instead of recycling", func(t *testing.T) {
		tbl := table.New([]string{"a", "b"})
		tbl.Rows = append(tbl.Rows,
			table.Row{"a": 1.0, "b": nil},
			table.Row{"a": 2.0, "b": 2.0},
		)

		set, warnings := Generate(tbl, Params{MinRatio: 0.4, MaxRatio: 0.6, Count: 360})
		if len(set.CloudMasks) != 1 {
			t.Fatalf("cloud masks = %d, want 1", len(set.CloudMasks))
		}
		if len(warnings) != 1 || !strings.Contains(warnings[0], "Only 1 of 360") {
			t.Errorf("warnings = %v", warnings)
		}
	})

	t.Run("empty table warns, never errors", func(t *testing.T) {
		set, warnings := Generate(table.New([]string{"a"}), DefaultParams())
		if len(set.CloudMasks) != 0 {
			t.Errorf("cloud masks = %d, want 0", len(set.CloudMasks))
		}
		if len(warnings) != 1 {
			t.Errorf("warnings = %v", warnings)
		}
	})

	t.Run("all-land table warns", func(t *testing.T) {
		tbl := table.New([]string{"a"})
		tbl.Rows = append(tbl.Rows, table.Row{"a": nil})

		set, warnings := Generate(tbl, DefaultParams())
		if len(set.CloudMasks) != 0 {
			t.Errorf("cloud masks = %d, want 0", len(set.CloudMasks))
		}
		if len(warnings) != 1 || !strings.Contains(warnings[0], "permanently missing") {
			t.Errorf("warnings = %v", warnings)
		}
	})
}

func TestApply(t *testing.T) {
	groundTruth := func() *table.Table {
		tbl := table.New([]string{"sst", "sal", "ice"})
		for i := 0; i < 3; i++ {
			tbl.Rows = append(tbl.Rows, table.Row{"sst": 20.0 + float64(i), "sal": 35.0, "ice": 0.2})
		}
		return tbl
	}

	t.Run("cloud and land fields are blanked", func(t *testing.T) {
		set := &Set{
			LandMask:   LandMask{"ice": true},
			CloudMasks: []CloudMask{{Index: 0, Mask: map[string]bool{"sst": true}}},
		}
		tbl := groundTruth()

		out, _ := Apply(tbl, set)
		if !table.Missing(out.Rows[0]["sst"]) {
			t.Error("cloud-masked field should be missing")
		}
		if !table.Missing(out.Rows[0]["ice"]) {
			t.Error("land field should be missing")
		}
		if out.Rows[0]["sal"] != 35.0 {
			t.Errorf("unmasked field = %v, want 35", out.Rows[0]["sal"])
		}
		if tbl.Rows[0]["sst"] != 20.0 {
			t.Error("ground truth was mutated")
		}
	})

	t.Run("rows beyond the masks pass through", func(t *testing.T) {
		set := &Set{
			LandMask:   LandMask{},
			CloudMasks: []CloudMask{{Index: 0, Mask: map[string]bool{"sst": true}}},
		}

		out, warnings := Apply(groundTruth(), set)
		if table.Missing(out.Rows[1]["sst"]) || table.Missing(out.Rows[2]["sst"]) {
			t.Error("rows beyond the cloud masks must pass through unmasked")
		}
		if len(warnings) != 1 || !strings.Contains(warnings[0], "2 rows beyond") {
			t.Errorf("warnings = %v", warnings)
		}
	})

	t.Run("empty set is a pass-through with a warning", func(t *testing.T) {
		out, warnings := Apply(groundTruth(), &Set{LandMask: LandMask{}})
		if out.Len() != 3 || table.Missing(out.Rows[0]["sst"]) {
			t.Errorf("pass-through failed: %v", out.Rows)
		}
		if len(warnings) != 1 {
			t.Errorf("warnings = %v", warnings)
		}
	})
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "masks", "set.json")

	set := &Set{
		LandMask: LandMask{"ice": true, "sst": false},
		CloudMasks: []CloudMask{
			{Index: 2, MissingRatio: 0.25, Mask: map[string]bool{"sst": true}},
		},
	}
	if err := Save(set, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.LandMask["ice"] || got.LandMask["sst"] {
		t.Errorf("LandMask = %v", got.LandMask)
	}
	if len(got.CloudMasks) != 1 || got.CloudMasks[0].Index != 2 {
		t.Errorf("CloudMasks = %v", got.CloudMasks)
	}
}

func TestSaveLoad_NpyRejected(t *testing.T) {
	if err := Save(&Set{}, "masks.npy"); !errors.Is(err, ErrBinaryMaskFile) {
		t.Errorf("Save .npy: %v, want ErrBinaryMaskFile", err)
	}
	if _, err := Load("masks.NPY"); !errors.Is(err, ErrBinaryMaskFile) {
		t.Errorf("Load .NPY: %v, want ErrBinaryMaskFile", err)
	}
}
