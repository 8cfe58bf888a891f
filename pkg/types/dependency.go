package types

import (
	"github.com/Masterminds/semver/v3"
)

// Dependency is one requirement declared by a package: a package name and a
// version constraint, plus the optionality and transitivity flags that drive
// feature resolution. Dependencies are immutable values; the With* methods
// return modified copies.
type Dependency struct {
	name       string
	constraint *semver.Constraints
	optional   bool
	transitive bool
}

// NewDependency creates a normal (transitive, non-optional) dependency.
// A nil constraint matches every version.
func NewDependency(name string, constraint *semver.Constraints) Dependency {
	return Dependency{
		name:       name,
		constraint: constraint,
		transitive: true,
	}
}

// Name returns the name of the required package
func (d Dependency) Name() string { return d.name }

// VersionConstraint returns the version constraint, nil meaning "any"
func (d Dependency) VersionConstraint() *semver.Constraints { return d.constraint }

// IsOptional reports whether this dependency is enabled only by a feature
func (d Dependency) IsOptional() bool { return d.optional }

// IsTransitive reports whether this dependency propagates to dependents.
// Dev-only dependencies are not transitive.
func (d Dependency) IsTransitive() bool { return d.transitive }

// WithOptional returns a copy with the optional flag set
func (d Dependency) WithOptional(optional bool) Dependency {
	d.optional = optional
	return d
}

// WithTransitive returns a copy with the transitive flag set
func (d Dependency) WithTransitive(transitive bool) Dependency {
	d.transitive = transitive
	return d
}

// WithConstraint returns a copy with the version constraint replaced
func (d Dependency) WithConstraint(constraint *semver.Constraints) Dependency {
	d.constraint = constraint
	return d
}

// MatchesName reports whether this dependency requires the named package
func (d Dependency) MatchesName(name string) bool {
	return d.name == name
}

// Matches reports whether a package with the given name and version
// satisfies this dependency
func (d Dependency) Matches(name string, version *semver.Version) bool {
	if d.name != name {
		return false
	}
	if d.constraint == nil {
		return true
	}
	return version != nil && d.constraint.Check(version)
}

// MatchesId reports whether the identified package satisfies this dependency
func (d Dependency) MatchesId(id PackageId) bool {
	return d.Matches(id.Name(), id.Version())
}
