package manifest

import (
	stderrors "errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/carton-pm/carton/pkg/errors"
	"github.com/carton-pm/carton/pkg/logging"
	"github.com/carton-pm/carton/pkg/paths"
	"github.com/carton-pm/carton/pkg/types"
)

// ReadPackages discovers every package reachable from root by walking the
// directory tree for manifest files, parsing each through the cache.
// Discovery order is the walk order: a directory's own package before its
// subdirectories, entries in lexical order.
func ReadPackages(root string, sourceID types.SourceId, fsys types.FS, cache *Cache) ([]*types.Package, error) {
	logger := logging.GetLogger("manifest.read")
	logger.Debug().Str("root", root).Msg("Reading packages")

	info, err := fsys.Stat(root)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrNotFound, "source root does not exist").
			WithDetail("path", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrInvalidInput, "source root is not a directory").
			WithDetail("path", root)
	}

	var packages []*types.Package
	if err := readInto(root, sourceID, fsys, cache, &packages); err != nil {
		return nil, err
	}

	if len(packages) == 0 {
		return nil, errors.Newf(errors.ErrPackageNotFound, "no packages found at `%s`", root).
			WithDetail("path", root)
	}

	logger.Info().Int("count", len(packages)).Str("root", root).Msg("Packages discovered")
	return packages, nil
}

func readInto(dir string, sourceID types.SourceId, fsys types.FS, cache *Cache, packages *[]*types.Package) error {
	manifestPath := paths.ManifestPath(dir)
	if _, err := fsys.Stat(manifestPath); err == nil {
		output, err := cache.ParseManifest(manifestPath)
		if err != nil {
			return err
		}
		pkg, err := toPackage(output, dir, manifestPath, sourceID)
		if err != nil {
			return err
		}
		*packages = append(*packages, pkg)
	}

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return errors.Wrap(err, errors.ErrFileAccess, "cannot read directory").
			WithDetail("path", dir)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == paths.GitDir || name == paths.TargetDir {
			continue
		}
		if err := readInto(filepath.Join(dir, name), sourceID, fsys, cache, packages); err != nil {
			return err
		}
	}
	return nil
}

// toPackage converts a parsed manifest into a discovered Package with a
// validated Summary. Unused document keys are surfaced as warnings here,
// once per parse thanks to the cache.
func toPackage(output *ParseOutput, dir, manifestPath string, sourceID types.SourceId) (*types.Package, error) {
	logger := logging.GetLogger("manifest.read")
	m := output.Manifest

	for _, key := range output.Unused {
		logger.Warn().
			Str("manifest", manifestPath).
			Str("key", key).
			Msg("Unused manifest key")
	}

	id, err := types.NewPackageId(m.Package.Name, m.Package.Version, sourceID)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse,
			"invalid `package.version` in `%s`", manifestPath).
			WithDetail("file", manifestPath)
	}

	deps, err := buildDependencies(m, manifestPath)
	if err != nil {
		return nil, err
	}

	summary, err := types.NewSummary(id, deps, buildFeatures(m))
	if err != nil {
		var cartonErr *errors.CartonError
		if stderrors.As(err, &cartonErr) {
			cartonErr.WithDetail("manifest", manifestPath)
		}
		return nil, err
	}

	return types.NewPackage(dir, manifestPath, m.Package.Include, m.Package.Exclude, summary), nil
}

// buildDependencies flattens the dependency tables into the ordered
// sequence a Summary expects: normal dependencies first, then
// dev-dependencies, each sorted by name for reproducible resolution.
func buildDependencies(m *Manifest, manifestPath string) ([]types.Dependency, error) {
	deps := make([]types.Dependency, 0, len(m.Dependencies)+len(m.DevDependencies))

	for _, name := range sortedSpecNames(m.Dependencies) {
		spec := m.Dependencies[name]
		constraint, err := parseConstraint(spec.Version, name, manifestPath)
		if err != nil {
			return nil, err
		}
		deps = append(deps, types.NewDependency(name, constraint).WithOptional(spec.Optional))
	}
	for _, name := range sortedSpecNames(m.DevDependencies) {
		spec := m.DevDependencies[name]
		constraint, err := parseConstraint(spec.Version, name, manifestPath)
		if err != nil {
			return nil, err
		}
		deps = append(deps, types.NewDependency(name, constraint).
			WithTransitive(false).
			WithOptional(spec.Optional))
	}
	return deps, nil
}

// buildFeatures classifies each feature token: a token naming another
// feature implies it, anything else (including dep/feature reexports) is a
// dependency token.
func buildFeatures(m *Manifest) map[string]types.Feature {
	features := make(map[string]types.Feature, len(m.Features))
	for name, tokens := range m.Features {
		var feature types.Feature
		for _, token := range tokens {
			if !strings.Contains(token, "/") {
				if _, ok := m.Features[token]; ok {
					feature.Features = append(feature.Features, token)
					continue
				}
			}
			feature.Dependencies = append(feature.Dependencies, token)
		}
		features[name] = feature
	}
	return features
}

func parseConstraint(raw, depName, manifestPath string) (*semver.Constraints, error) {
	if raw == "" {
		return nil, nil
	}
	constraint, err := semver.NewConstraint(raw)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse,
			"invalid version constraint `%s` for dependency `%s` in `%s`", raw, depName, manifestPath).
			WithDetail("file", manifestPath).
			WithDetail("dependency", depName)
	}
	return constraint, nil
}

func sortedSpecNames(specs map[string]DependencySpec) []string {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
