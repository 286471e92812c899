package security

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPath_Validate(t *testing.T) {
	allowed := t.TempDir()
	outside := t.TempDir()

	p, err := NewPath([]string{allowed})
	if err != nil {
		t.Fatalf("NewPath: %v", err)
	}

	t.Run("file inside an allowed root", func(t *testing.T) {
		target := filepath.Join(allowed, "data.csv")
		if err := os.WriteFile(target, []byte("a\n1\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		got, err := p.Validate(target)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if got == "" {
			t.Error("expected a resolved path")
		}
	})

	t.Run("missing file inside the sandbox is allowed for outputs", func(t *testing.T) {
		if _, err := p.Validate(filepath.Join(allowed, "new", "out.csv")); err != nil {
			t.Errorf("Validate: %v", err)
		}
	})

	t.Run("path outside every root is denied", func(t *testing.T) {
		if _, err := p.Validate(filepath.Join(outside, "x.csv")); err == nil {
			t.Error("expected access denied")
		}
	})

	t.Run("traversal out of the sandbox is denied", func(t *testing.T) {
		evil := filepath.Join(allowed, "..", "..", "etc", "passwd")
		if _, err := p.Validate(evil); err == nil {
			t.Error("expected access denied for traversal")
		}
	})

	t.Run("symlink escaping the sandbox is denied", func(t *testing.T) {
		secret := filepath.Join(outside, "secret.csv")
		if err := os.WriteFile(secret, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
		link := filepath.Join(allowed, "link.csv")
		if err := os.Symlink(secret, link); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}
		if _, err := p.Validate(link); err == nil || !strings.Contains(err.Error(), "symlink") {
			t.Errorf("Validate(link) = %v, want symlink denial", err)
		}
	})

	t.Run("working directory is always allowed", func(t *testing.T) {
		wd, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := p.Validate(filepath.Join(wd, "somefile.csv")); err != nil {
			t.Errorf("Validate in workdir: %v", err)
		}
	})
}
