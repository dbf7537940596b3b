// Package workspace locates svn working copies and converts paths between
// their absolute and root-relative forms.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/svnstage/internal/config"
	"github.com/penwyp/svnstage/internal/errors"
)

// DefaultMarker is the metadata directory svn creates at the root of a checkout.
const DefaultMarker = ".svn"

// Canonical returns the absolute, symlink-free, cleaned form of path. A
// leading "~" is expanded. Paths that do not exist (deleted files) are
// resolved through their deepest existing ancestor.
func Canonical(path string) (string, error) {
	expanded, err := config.ExpandHome(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}

	existing := abs
	var missing []string
	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			parts := append([]string{resolved}, missing...)
			return filepath.Join(parts...), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		missing = append([]string{filepath.Base(existing)}, missing...)
		existing = parent
	}
}

// Normalize canonicalizes the directory part of path and keeps the final
// element as given, so a versioned symlink is not replaced by its target.
func Normalize(path string) (string, error) {
	expanded, err := config.ExpandHome(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(abs)
	if dir == abs {
		return abs, nil
	}
	canonDir, err := Canonical(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(canonDir, filepath.Base(abs)), nil
}

// FindRoot walks from path towards the filesystem root and returns the first
// directory that contains marker.
func FindRoot(path, marker string) (string, error) {
	if marker == "" {
		marker = DefaultMarker
	}
	dir, err := Canonical(path)
	if err != nil {
		return "", errors.ErrRepoNotFound.WithPath(path).WithCause(err)
	}
	for {
		if hasMarker(dir, marker) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.ErrRepoNotFound.WithPath(path)
		}
		dir = parent
	}
}

func hasMarker(dir, marker string) bool {
	info, err := os.Stat(filepath.Join(dir, marker))
	return err == nil && info.IsDir()
}

// Rel converts an absolute path under root into a root-relative one. root must
// already be canonical.
func Rel(root, path string) (string, error) {
	canon, err := Canonical(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, canon)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside working copy %s", path, root)
	}
	return rel, nil
}

// Abs joins root and a root-relative path.
func Abs(root, rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(root, rel)
}
