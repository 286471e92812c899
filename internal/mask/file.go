package mask

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrBinaryMaskFile indicates a .npy mask path, which only the external
// delegate can read.
var ErrBinaryMaskFile = errors.New("numeric-array mask files require the external delegate")

// Save writes the set to a JSON file, creating parent directories.
func Save(set *Set, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".npy") {
		return fmt.Errorf("%w: %s", ErrBinaryMaskFile, path)
	}
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding mask set: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating mask directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing mask file: %w", err)
	}
	return nil
}

// Load reads a mask set from a JSON file. Malformed content is a fatal
// error for the calling tool; nothing partial is returned.
func Load(path string) (*Set, error) {
	if strings.EqualFold(filepath.Ext(path), ".npy") {
		return nil, fmt.Errorf("%w: %s", ErrBinaryMaskFile, path)
	}
	data, err := os.ReadFile(path) // #nosec G304 - callers validate the path
	if err != nil {
		return nil, fmt.Errorf("reading mask file: %w", err)
	}
	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parsing mask file %s: %w", path, err)
	}
	if set.LandMask == nil {
		set.LandMask = LandMask{}
	}
	return &set, nil
}
