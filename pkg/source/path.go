package source

import (
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/carton-pm/carton/pkg/errors"
	"github.com/carton-pm/carton/pkg/filesystem"
	"github.com/carton-pm/carton/pkg/logging"
	"github.com/carton-pm/carton/pkg/manifest"
	"github.com/carton-pm/carton/pkg/types"
)

// PathSource is a Source rooted at a local directory that contains a
// Carton.toml. Discovery runs exactly once, on the first Update; every
// other operation except Download fails until then.
//
// PathSource mutates its state in place during Update and is not safe for
// concurrent use. Callers wanting parallelism should fan out across
// independent source roots.
type PathSource struct {
	id       types.SourceId
	root     string
	updated  bool
	packages []*types.Package
	fsys     types.FS
	cache    *manifest.Cache
	logger   zerolog.Logger
}

// Option configures a PathSource
type Option func(*PathSource)

// WithFS replaces the filesystem used for discovery and walking.
// Git-aware file listing always inspects the real filesystem.
func WithFS(fsys types.FS) Option {
	return func(s *PathSource) {
		s.fsys = fsys
	}
}

// New creates a PathSource for the given root and source identity
func New(root string, id types.SourceId, opts ...Option) *PathSource {
	s := &PathSource{
		id:     id,
		root:   filepath.Clean(root),
		fsys:   filesystem.NewOS(),
		logger: logging.GetLogger("source.path"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = manifest.NewCache(s.fsys)
	return s
}

// ForPath creates a PathSource for a root directory, deriving its identity
func ForPath(root string, opts ...Option) (*PathSource, error) {
	id, err := types.NewPathSourceId(root)
	if err != nil {
		return nil, err
	}
	return New(id.URL(), id, opts...), nil
}

// ID returns the source identity
func (s *PathSource) ID() types.SourceId { return s.id }

// Root returns the source root directory
func (s *PathSource) Root() string { return s.root }

// Update discovers every package reachable from the root. Idempotent:
// calls after the first successful one do not re-discover.
func (s *PathSource) Update() error {
	if s.updated {
		s.logger.Trace().Str("root", s.root).Msg("Source already updated")
		return nil
	}

	packages, err := manifest.ReadPackages(s.root, s.id, s.fsys, s.cache)
	if err != nil {
		return err
	}
	s.packages = append(s.packages, packages...)
	s.updated = true

	s.logger.Debug().
		Str("root", s.root).
		Int("packages", len(s.packages)).
		Msg("Source updated")
	return nil
}

// ReadPackages returns the discovered packages, discovering on the fly if
// the source has not been updated yet
func (s *PathSource) ReadPackages() ([]*types.Package, error) {
	if s.updated {
		packages := make([]*types.Package, len(s.packages))
		copy(packages, s.packages)
		return packages, nil
	}
	return manifest.ReadPackages(s.root, s.id, s.fsys, s.cache)
}

// GetRootPackage returns the package rooted at the source root itself
func (s *PathSource) GetRootPackage() (*types.Package, error) {
	if err := s.ensureUpdated(); err != nil {
		return nil, err
	}
	for _, pkg := range s.packages {
		if pkg.Root() == s.root {
			return pkg, nil
		}
	}
	return nil, errors.New(errors.ErrInternal, "no package found in source").
		WithDetail("root", s.root)
}

// Query returns the discovered summaries satisfying dep, in discovery order
func (s *PathSource) Query(dep types.Dependency) ([]types.Summary, error) {
	if err := s.ensureUpdated(); err != nil {
		return nil, err
	}
	summaries := make(types.Summaries, len(s.packages))
	for i, pkg := range s.packages {
		summaries[i] = pkg.Summary()
	}
	return summaries.Query(dep)
}

// Get returns the subset of discovered packages whose identity is in ids,
// preserving discovery order rather than the order of ids
func (s *PathSource) Get(ids []types.PackageId) ([]*types.Package, error) {
	if err := s.ensureUpdated(); err != nil {
		return nil, err
	}
	var packages []*types.Package
	for _, pkg := range s.packages {
		for _, id := range ids {
			if pkg.PackageID().Equal(id) {
				packages = append(packages, pkg)
				break
			}
		}
	}
	return packages, nil
}

// Download is a no-op for a local source: the packages are already present.
// It exists to satisfy the Source contract shared with remote sources.
func (s *PathSource) Download(ids []types.PackageId) error {
	s.logger.Trace().Int("count", len(ids)).Msg("Download is a no-op for path sources")
	return nil
}

// Fingerprint returns the maximum modification time across the files of
// pkg, as a decimal string. A file that cannot be stat'ed (broken symlink,
// permission error, or a remove race) counts as modification time zero so
// a single inaccessible file never blocks staleness evaluation.
func (s *PathSource) Fingerprint(pkg *types.Package) (string, error) {
	if err := s.ensureUpdated(); err != nil {
		return "", err
	}

	files, err := s.ListFiles(pkg)
	if err != nil {
		return "", err
	}

	var max int64
	for _, file := range files {
		var mtime int64
		if info, err := s.fsys.Stat(file); err == nil {
			mtime = info.ModTime().Unix()
		}
		s.logger.Trace().Int64("mtime", mtime).Str("file", file).Msg("Fingerprint input")
		if mtime > max {
			max = mtime
		}
	}

	s.logger.Debug().
		Str("package", pkg.Name()).
		Int64("fingerprint", max).
		Msg("Fingerprint computed")
	return strconv.FormatInt(max, 10), nil
}

func (s *PathSource) ensureUpdated() error {
	if !s.updated {
		return errors.New(errors.ErrSourceNotUpdated, "source has not been updated").
			WithDetail("root", s.root)
	}
	return nil
}

var _ types.Source = (*PathSource)(nil)
