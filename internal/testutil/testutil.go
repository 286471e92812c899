// Package testutil provides shared test helpers.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// DiscardLogger returns a slog.Logger that discards all output. Prefer
// log.NewNop() in packages that already import internal/log; this exists
// for tests that only need the slog type.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// WriteFile writes content into a file under dir and returns its path.
// Parent directories are created as needed.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("creating directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// ReadFile reads a file and fails the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path) // #nosec G304 - test fixture path
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
