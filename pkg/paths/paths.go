// Package paths provides centralized path handling for carton.
// It holds the well-known file names of the package layout and the
// small amount of path arithmetic the rest of the codebase shares.
package paths

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Well-known names within a package directory.
// IMPORTANT: These constants define carton's on-disk package layout and
// are NOT user-configurable. They must remain consistent across all carton
// installations for manifests and build output to be found reliably.
const (
	// ManifestFile is the name of the package manifest file
	ManifestFile = "Carton.toml"

	// LockFile is the name of the dependency lockfile
	LockFile = "Carton.lock"

	// TargetDir is the directory name for build output
	TargetDir = "target"

	// GitDir is the VCS metadata directory name
	GitDir = ".git"
)

// AppName is used for XDG directory locations
const AppName = "carton"

// CacheDir returns the XDG cache directory for carton
func CacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// StateDir returns the XDG state directory for carton
func StateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// ManifestPath returns the manifest path for a package rooted at dir
func ManifestPath(dir string) string {
	return filepath.Join(dir, ManifestFile)
}

// IsAncestor reports whether parent is an ancestor of (or the same as) child.
// Both paths must be absolute and cleaned for the answer to be meaningful.
func IsAncestor(parent, child string) bool {
	parent = filepath.Clean(parent)
	child = filepath.Clean(child)
	if parent == child {
		return true
	}
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// RelativeTo returns child relative to parent in slash form, which is what
// glob patterns are matched against. Returns "" if child is not under parent.
func RelativeTo(parent, child string) string {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(child))
	if err != nil {
		return ""
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.ToSlash(rel)
}
