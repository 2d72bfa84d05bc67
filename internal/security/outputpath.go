// Package security guards the file paths framectl writes exports to.
package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// canonical returns the absolute form of p with symlinks resolved on the
// longest prefix that exists. The remainder is appended unresolved.
func canonical(p string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	rest := ""
	for dir := abs; ; {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(resolved, rest), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
	}
}

// ValidatePathWithinDirectory rejects paths that escape dir, including
// escapes through a symlinked parent such as dir/link/file with link -> /etc.
func ValidatePathWithinDirectory(path, dir string) error {
	p, err := canonical(path)
	if err != nil {
		return err
	}
	d, err := canonical(dir)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(d, p)
	if err != nil {
		return fmt.Errorf("path is outside %s: %w", dir, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path traversal detected: %s escapes %s", path, dir)
	}
	return nil
}

// ResolveOutputPath places a relative export path under dir. Absolute paths
// and an empty dir leave path as given.
func ResolveOutputPath(dir, path string) (string, error) {
	if dir == "" || filepath.IsAbs(path) {
		return path, nil
	}
	joined := filepath.Join(dir, path)
	if err := ValidatePathWithinDirectory(joined, dir); err != nil {
		return "", err
	}
	return joined, nil
}
