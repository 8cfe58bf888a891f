package manifest

// Manifest is the typed form of a Carton.toml document.
type Manifest struct {
	Package         PackageSection
	Dependencies    map[string]DependencySpec
	DevDependencies map[string]DependencySpec
	Features        map[string][]string
}

// PackageSection is the [package] table of a manifest
type PackageSection struct {
	Name        string
	Version     string
	Description string

	// Include and Exclude are glob patterns controlling which files belong
	// to the package. When Include is non-empty it wins; otherwise every
	// file not matching Exclude belongs to the package.
	Include []string
	Exclude []string
}

// DependencySpec is one entry of [dependencies] or [dev-dependencies].
// In the document it is either a bare constraint string or a table with
// `version` and `optional` keys.
type DependencySpec struct {
	// Version is the constraint string; empty means any version
	Version string

	// Optional marks the dependency as enabled only through a feature
	Optional bool
}
