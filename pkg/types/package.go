package types

// Package is one discovered package: where it lives on disk, its file
// inclusion rules, and its validated Summary.
type Package struct {
	root         string
	manifestPath string
	include      []string
	exclude      []string
	summary      Summary
}

// NewPackage creates a Package rooted at root with the given manifest path,
// include/exclude glob patterns, and validated summary
func NewPackage(root, manifestPath string, include, exclude []string, summary Summary) *Package {
	return &Package{
		root:         root,
		manifestPath: manifestPath,
		include:      include,
		exclude:      exclude,
		summary:      summary,
	}
}

// Root returns the absolute path of the package directory
func (p *Package) Root() string { return p.root }

// ManifestPath returns the absolute path of the package manifest file
func (p *Package) ManifestPath() string { return p.manifestPath }

// Include returns the declared include glob patterns
func (p *Package) Include() []string { return p.include }

// Exclude returns the declared exclude glob patterns
func (p *Package) Exclude() []string { return p.exclude }

// Summary returns the package's validated summary
func (p *Package) Summary() Summary { return p.summary }

// PackageID returns the package identity
func (p *Package) PackageID() PackageId { return p.summary.PackageID() }

// Name returns the package name
func (p *Package) Name() string { return p.summary.Name() }

func (p *Package) String() string {
	return p.summary.PackageID().String()
}
