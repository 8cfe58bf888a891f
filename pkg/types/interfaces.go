package types

import (
	"io/fs"
)

// FS is the filesystem interface required for carton's read-only operations
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	ReadDir(name string) ([]fs.DirEntry, error)
}

// Registry answers "which summaries satisfy this dependency". It is
// implemented by sources and, trivially, by Summaries.
type Registry interface {
	Query(dep Dependency) ([]Summary, error)
}

// Source discovers packages and their files from some origin.
//
// A Source starts out uninitialized. Update performs discovery exactly once;
// every other operation except Download fails with an internal error until
// the first successful Update.
type Source interface {
	Registry

	// Update discovers every package reachable from the source root.
	// Idempotent: calls after the first successful one are no-ops.
	Update() error

	// Download makes the given packages available locally. Local sources
	// implement this as a no-op.
	Download(ids []PackageId) error

	// Get returns the subset of discovered packages whose identity is in
	// ids, in discovery order.
	Get(ids []PackageId) ([]*Package, error)

	// ListFiles enumerates the files belonging to pkg.
	ListFiles(pkg *Package) ([]string, error)

	// Fingerprint returns a cheap staleness signal for pkg.
	Fingerprint(pkg *Package) (string, error)
}
