// Package security provides input validation for tool operations.
//
// Tools receive file paths from a language model. Every path is validated
// against an allow-list of data directories before any I/O happens, which
// blocks path traversal (CWE-22) and symlink escapes.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Path validates file paths against allowed directories.
type Path struct {
	allowedDirs []string
	workDir     string
}

// NewPath creates a path validator. The working directory is always
// allowed; allowedDirs adds further roots.
func NewPath(allowedDirs []string) (*Path, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	abs := make([]string, 0, len(allowedDirs))
	for _, dir := range allowedDirs {
		a, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolving allowed directory %s: %w", dir, err)
		}
		abs = append(abs, a)
	}
	return &Path{allowedDirs: abs, workDir: workDir}, nil
}

// Validate cleans a path, resolves it to an absolute location, and checks
// it lies inside an allowed root. Symlinks are resolved and re-checked so
// a link cannot escape the sandbox. Returns the safe absolute path.
func (p *Path) Validate(path string) (string, error) {
	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !p.inside(absPath) {
		return "", fmt.Errorf("access denied: %s is outside the allowed directories", absPath)
	}

	real, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		// A missing file is fine for output paths; the prefix check above
		// already passed.
		if os.IsNotExist(err) {
			return absPath, nil
		}
		return "", fmt.Errorf("resolving symlinks: %w", err)
	}
	if real != absPath && !p.inside(real) {
		return "", fmt.Errorf("access denied: symlink target %s is outside the allowed directories", real)
	}
	return real, nil
}

func (p *Path) inside(abs string) bool {
	withSep := filepath.Clean(abs) + string(filepath.Separator)
	roots := append([]string{p.workDir}, p.allowedDirs...)
	for _, root := range roots {
		rootNorm := filepath.Clean(root) + string(filepath.Separator)
		if abs == root || strings.HasPrefix(withSep, rootNorm) {
			return true
		}
	}
	return false
}
