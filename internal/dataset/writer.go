package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Split file names written next to the output prefix.
const (
	TrainFile = "train.json"
	ValFile   = "val.json"
	TestFile  = "test.json"
)

// WriteSplits writes the three partitions as JSON arrays under dir.
// Returns the written paths in train/val/test order. The directory is
// flock-guarded so two tool invocations targeting the same output
// directory cannot interleave partial files.
func WriteSplits(dir string, train, val, test []Pair) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, ".oceankit.lock"))
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("locking output directory: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	outputs := []struct {
		name  string
		pairs []Pair
	}{
		{TrainFile, train},
		{ValFile, val},
		{TestFile, test},
	}

	paths := make([]string, 0, len(outputs))
	for _, out := range outputs {
		path := filepath.Join(dir, out.name)
		if err := writePairs(path, out.pairs); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writePairs(path string, pairs []Pair) error {
	if pairs == nil {
		pairs = []Pair{}
	}
	data, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding pairs for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
