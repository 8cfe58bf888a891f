package source

import (
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	git "github.com/go-git/go-git/v5"

	"github.com/carton-pm/carton/pkg/errors"
	"github.com/carton-pm/carton/pkg/paths"
	"github.com/carton-pm/carton/pkg/types"
)

// ListFiles enumerates the files belonging to pkg.
//
// If the package lies inside a git working tree, the repository's view of
// its contents (index plus, for a commit-less repository, untracked files)
// is authoritative, which respects ignore rules without reimplementing
// them. Packages outside any repository fall back to a plain walk.
func (s *PathSource) ListFiles(pkg *types.Package) ([]string, error) {
	if err := s.ensureUpdated(); err != nil {
		return nil, err
	}

	filter, err := newFileFilter(pkg)
	if err != nil {
		return nil, err
	}

	// We are not quite sure where the enclosing repository is, so we probe:
	// any discovered package whose root is an ancestor of this one may sit
	// at the repository root.
	for _, other := range s.packages {
		if !paths.IsAncestor(other.Root(), pkg.Root()) {
			continue
		}
		repo, err := git.PlainOpen(other.Root())
		if err != nil {
			continue
		}
		s.logger.Debug().
			Str("package", pkg.Name()).
			Str("repo", other.Root()).
			Msg("Listing files via git")
		return s.listFilesGit(pkg, repo, filter)
	}

	s.logger.Debug().Str("package", pkg.Name()).Msg("Listing files via walk")
	return s.listFilesWalk(pkg, filter)
}

// fileFilter decides whether a file belongs to a package based on its
// declared include/exclude globs, matched against the path relative to the
// package root in slash form.
type fileFilter struct {
	root    string
	include []string
	exclude []string
}

func newFileFilter(pkg *types.Package) (*fileFilter, error) {
	for _, pattern := range append(append([]string{}, pkg.Include()...), pkg.Exclude()...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Newf(errors.ErrInvalidInput, "invalid glob pattern `%s`", pattern).
				WithDetail("package", pkg.Name()).
				WithDetail("pattern", pattern)
		}
	}
	return &fileFilter{
		root:    pkg.Root(),
		include: pkg.Include(),
		exclude: pkg.Exclude(),
	}, nil
}

func (f *fileFilter) matches(path string) bool {
	rel := paths.RelativeTo(f.root, path)
	if rel == "" {
		return false
	}
	for _, pattern := range f.include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	if len(f.include) > 0 {
		return false
	}
	for _, pattern := range f.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	return true
}

func (s *PathSource) listFilesGit(pkg *types.Package, repo *git.Repository, filter *fileFilter) ([]string, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot list files on a bare repository")
	}
	repoRoot := wt.Filesystem.Root()

	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrVCSOpen, "cannot read repository index").
			WithDetail("repo", repoRoot)
	}

	candidates := make([]string, 0, len(idx.Entries))
	for _, entry := range idx.Entries {
		candidates = append(candidates, filepath.Join(repoRoot, filepath.FromSlash(entry.Name)))
	}

	// An unborn repository's index is not representative, so take untracked
	// files from status as well.
	if _, err := repo.Head(); err != nil {
		status, err := wt.Status()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrVCSOpen, "cannot compute worktree status").
				WithDetail("repo", repoRoot)
		}
		for _, rel := range sortedStatusPaths(status) {
			if status.File(rel).Worktree == git.Untracked {
				candidates = append(candidates, filepath.Join(repoRoot, filepath.FromSlash(rel)))
			}
		}
	}

	pkgRoot := pkg.Root()
	var files []string
	for _, candidate := range candidates {
		if !paths.IsAncestor(pkgRoot, candidate) {
			continue
		}
		base := filepath.Base(candidate)
		if base == paths.LockFile || base == paths.TargetDir {
			continue
		}
		// Sub-packages own their own file lists
		if s.underNestedPackage(pkg, candidate) {
			continue
		}

		if info, err := s.fsys.Stat(candidate); err == nil && info.IsDir() {
			// A directory in the index is a submodule. Recurse into it as
			// its own repository; fall back to a plain walk if it does not
			// open as one.
			if sub, err := s.openSubmodule(wt, repoRoot, candidate); err == nil {
				subFiles, err := s.listFilesGit(pkg, sub, filter)
				if err != nil {
					return nil, err
				}
				files = append(files, subFiles...)
			} else {
				s.logger.Trace().Str("dir", candidate).Msg("Submodule fallback to walk")
				if err := s.walkFiles(candidate, false, filter, &files); err != nil {
					return nil, err
				}
			}
			continue
		}

		if filter.matches(candidate) {
			files = append(files, candidate)
		}
	}
	return files, nil
}

func (s *PathSource) openSubmodule(wt *git.Worktree, repoRoot, dir string) (*git.Repository, error) {
	rel := paths.RelativeTo(repoRoot, dir)
	sub, err := wt.Submodule(rel)
	if err != nil {
		return nil, err
	}
	return sub.Repository()
}

// underNestedPackage reports whether candidate falls inside another
// discovered package nested under pkg's directory
func (s *PathSource) underNestedPackage(pkg *types.Package, candidate string) bool {
	for _, other := range s.packages {
		if other.PackageID().Equal(pkg.PackageID()) {
			continue
		}
		if paths.IsAncestor(pkg.Root(), other.Root()) && paths.IsAncestor(other.Root(), candidate) {
			return true
		}
	}
	return false
}

func (s *PathSource) listFilesWalk(pkg *types.Package, filter *fileFilter) ([]string, error) {
	var files []string
	if err := s.walkFiles(pkg.Root(), true, filter, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// walkFiles recursively descends from path collecting files that pass the
// filter. `.git` is skipped at any depth; the build-output directory and
// the lockfile only at the root. A directory containing its own manifest is
// a nested sub-package and is not descended into unless it is the root.
func (s *PathSource) walkFiles(path string, isRoot bool, filter *fileFilter, files *[]string) error {
	info, err := s.fsys.Stat(path)
	if err != nil || !info.IsDir() {
		if filter.matches(path) {
			*files = append(*files, path)
		}
		return nil
	}

	if !isRoot {
		if _, err := s.fsys.Stat(paths.ManifestPath(path)); err == nil {
			return nil
		}
	}

	entries, err := s.fsys.ReadDir(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileAccess, "cannot read directory").
			WithDetail("path", path)
	}
	for _, entry := range entries {
		name := entry.Name()
		if name == paths.GitDir {
			continue
		}
		if isRoot && (name == paths.TargetDir || name == paths.LockFile) {
			continue
		}
		if err := s.walkFiles(filepath.Join(path, name), false, filter, files); err != nil {
			return err
		}
	}
	return nil
}

func sortedStatusPaths(status git.Status) []string {
	out := make([]string, 0, len(status))
	for path := range status {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}
