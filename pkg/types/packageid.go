package types

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/carton-pm/carton/pkg/errors"
)

// PackageId uniquely identifies one package: its name, its exact version,
// and the source it comes from. Equality is by all three fields.
type PackageId struct {
	name    string
	version *semver.Version
	source  SourceId
}

// NewPackageId creates a PackageId, parsing version as a semantic version
func NewPackageId(name, version string, source SourceId) (PackageId, error) {
	if name == "" {
		return PackageId{}, errors.New(errors.ErrInvalidInput, "package name must not be empty")
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return PackageId{}, errors.Wrapf(err, errors.ErrInvalidInput, "invalid version %q for package %q", version, name)
	}
	return PackageId{name: name, version: v, source: source}, nil
}

// Name returns the package name
func (id PackageId) Name() string { return id.name }

// Version returns the exact package version
func (id PackageId) Version() *semver.Version { return id.version }

// Source returns the identity of the source this package comes from
func (id PackageId) Source() SourceId { return id.source }

// Equal reports whether both ids name the same package from the same source
func (id PackageId) Equal(other PackageId) bool {
	if id.name != other.name || id.source != other.source {
		return false
	}
	if id.version == nil || other.version == nil {
		return id.version == other.version
	}
	return id.version.Equal(other.version)
}

func (id PackageId) String() string {
	return fmt.Sprintf("%s v%s (%s)", id.name, id.version, id.source)
}
