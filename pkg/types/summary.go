package types

import (
	"sort"
	"strings"

	"github.com/carton-pm/carton/pkg/errors"
)

// Feature is a named, user-selectable switch declared by a package.
type Feature struct {
	// Dependencies lists dependency tokens this feature enables. A token is
	// either a plain dependency name or "dep/feature", which enables a
	// feature on that dependency without requiring it to be optional.
	Dependencies []string

	// Features lists other features of the same package this feature implies
	Features []string
}

// Summary is a validated, immutable snapshot of one package's identity and
// dependency/feature graph. It is the unit exchanged during resolution.
//
// Summaries are cloned freely and must not be mutated after creation. The
// invariants checked by NewSummary are never rechecked: OverrideID and
// MapDependencies trust their callers not to smuggle in a now-invalid
// dependency set.
type Summary struct {
	pkgID        PackageId
	dependencies []Dependency
	features     map[string]Feature
}

// NewSummary validates the raw dependency and feature set and returns the
// Summary, or a validation error identifying the offending feature and
// dependency. No partial Summary is ever returned.
func NewSummary(id PackageId, dependencies []Dependency, features map[string]Feature) (Summary, error) {
	for _, dep := range dependencies {
		if dep.IsOptional() && !dep.IsTransitive() {
			return Summary{}, errors.Newf(errors.ErrSummaryInvalid,
				"dev-dependencies are not allowed to be optional: `%s`", dep.Name()).
				WithDetail("dependency", dep.Name())
		}
	}

	// Iterate features in sorted order so validation errors are deterministic
	names := make([]string, 0, len(features))
	for name := range features {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, feature := range names {
		desc := features[feature]
		for _, token := range desc.Dependencies {
			depName, _, isReexport := strings.Cut(token, "/")
			dep, found := findDependency(dependencies, depName)
			if !found {
				return Summary{}, errors.Newf(errors.ErrSummaryInvalid,
					"feature `%s` requires `%s` which is not a dependency", feature, depName).
					WithDetail("feature", feature).
					WithDetail("dependency", depName)
			}
			if dep.IsOptional() || isReexport {
				continue
			}
			return Summary{}, errors.Newf(errors.ErrSummaryInvalid,
				"feature `%s` depends on `%s` which is not an optional dependency; "+
					"consider adding `optional = true` to the dependency", feature, depName).
				WithDetail("feature", feature).
				WithDetail("dependency", depName)
		}
		for _, subfeat := range desc.Features {
			if _, ok := features[subfeat]; !ok {
				return Summary{}, errors.Newf(errors.ErrSummaryInvalid,
					"feature `%s` requires `%s` which is not a feature", feature, subfeat).
					WithDetail("feature", feature).
					WithDetail("subFeature", subfeat)
			}
		}
	}

	deps := make([]Dependency, len(dependencies))
	copy(deps, dependencies)
	feats := make(map[string]Feature, len(features))
	for name, f := range features {
		feats[name] = f
	}

	return Summary{
		pkgID:        id,
		dependencies: deps,
		features:     feats,
	}, nil
}

func findDependency(deps []Dependency, name string) (Dependency, bool) {
	for _, d := range deps {
		if d.MatchesName(name) {
			return d, true
		}
	}
	return Dependency{}, false
}

// PackageID returns the identity of the summarized package
func (s Summary) PackageID() PackageId { return s.pkgID }

// Name returns the package name
func (s Summary) Name() string { return s.pkgID.Name() }

// Version returns the exact package version
func (s Summary) Version() string {
	if s.pkgID.Version() == nil {
		return ""
	}
	return s.pkgID.Version().String()
}

// SourceID returns where the package comes from
func (s Summary) SourceID() SourceId { return s.pkgID.Source() }

// Dependencies returns the declared dependencies in manifest order.
// Callers must not mutate the returned slice.
func (s Summary) Dependencies() []Dependency { return s.dependencies }

// Features returns the feature graph. Callers must not mutate the map.
func (s Summary) Features() map[string]Feature { return s.features }

// Equal reports whether both summaries describe the same package identity.
// Dependency and feature content is deliberately not compared: identity is
// the resolution key, and content mismatches for the same id are a caller
// error detected elsewhere.
func (s Summary) Equal(other Summary) bool {
	return s.pkgID.Equal(other.pkgID)
}

// OverrideID returns a copy of the summary re-keyed to a different package
// identity, used when a source presents a package under another id (path
// or git overrides). Dependencies and features are unchanged, so the
// construction-time validation still holds.
func (s Summary) OverrideID(id PackageId) Summary {
	s.pkgID = id
	return s
}

// MapDependencies returns a copy with every dependency passed through f,
// preserving order. Validation is not re-run; the transformation must not
// violate the optional/feature invariants, or the caller must re-validate.
func (s Summary) MapDependencies(f func(Dependency) Dependency) Summary {
	deps := make([]Dependency, len(s.dependencies))
	for i, d := range s.dependencies {
		deps[i] = f(d)
	}
	s.dependencies = deps
	return s
}

// Summaries is a plain collection of Summary values. It implements Registry,
// which makes any in-memory slice usable where a query capability is needed.
type Summaries []Summary

// Names projects the collection to its package names
func (s Summaries) Names() []string {
	names := make([]string, len(s))
	for i, summary := range s {
		names[i] = summary.Name()
	}
	return names
}

// Query returns the summaries satisfying dep, in collection order
func (s Summaries) Query(dep Dependency) ([]Summary, error) {
	var matches []Summary
	for _, summary := range s {
		if dep.MatchesId(summary.PackageID()) {
			matches = append(matches, summary)
		}
	}
	return matches, nil
}
