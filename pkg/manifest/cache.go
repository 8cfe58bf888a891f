package manifest

import (
	"path/filepath"

	"github.com/carton-pm/carton/pkg/errors"
	"github.com/carton-pm/carton/pkg/logging"
	"github.com/carton-pm/carton/pkg/types"
)

// ParseOutput is one cached parse result. It is shared and read-only after
// insertion: callers must treat both fields as immutable.
type ParseOutput struct {
	Manifest *Manifest

	// Unused lists document keys the schema did not recognize, as sorted
	// dotted paths. Used for non-fatal warnings.
	Unused []string
}

// Cache deduplicates manifest parsing per package directory. The manifest
// file has a fixed name within its directory, so the containing directory
// is an equivalent but cheaper key than the file path.
//
// The cache is process-scoped and intended for single-threaded use within
// one resolution/build session; concurrent writers need external locking.
type Cache struct {
	fsys    types.FS
	entries map[string]*ParseOutput
}

// NewCache creates an empty manifest cache reading through fsys
func NewCache(fsys types.FS) *Cache {
	return &Cache{
		fsys:    fsys,
		entries: make(map[string]*ParseOutput),
	}
}

// ParseManifest returns the parse output for the manifest file, parsing at
// most once per directory for the lifetime of the cache. The returned
// pointer is shared between all callers.
func (c *Cache) ParseManifest(file string) (*ParseOutput, error) {
	logger := logging.GetLogger("manifest.cache")

	key := filepath.Dir(filepath.Clean(file))
	if output, ok := c.entries[key]; ok {
		logger.Trace().Str("dir", key).Msg("Manifest cache hit")
		return output, nil
	}

	data, err := c.fsys.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestRead, "failed to read manifest at `%s`", file).
			WithDetail("file", file)
	}

	m, unused, err := Parse(data, file)
	if err != nil {
		return nil, err
	}

	output := &ParseOutput{Manifest: m, Unused: unused}
	c.entries[key] = output

	logger.Debug().
		Str("dir", key).
		Int("unusedKeys", len(unused)).
		Msg("Manifest parsed and cached")
	return output, nil
}
