package types

import (
	"fmt"
	"path/filepath"

	"github.com/carton-pm/carton/pkg/errors"
)

// SourceKind identifies the kind of origin a SourceId points at
type SourceKind string

const (
	// SourceKindPath is a package source rooted at a local directory
	SourceKindPath SourceKind = "path"
)

// SourceId identifies where packages come from. Two SourceIds are equal
// when both kind and URL are equal; the zero value is not a valid id.
type SourceId struct {
	kind SourceKind
	url  string
}

// NewPathSourceId creates the SourceId for a local directory source
func NewPathSourceId(root string) (SourceId, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return SourceId{}, errors.Wrap(err, errors.ErrInvalidInput, "cannot resolve source root").
			WithDetail("path", root)
	}
	return SourceId{kind: SourceKindPath, url: filepath.Clean(abs)}, nil
}

// Kind returns the source kind
func (s SourceId) Kind() SourceKind { return s.kind }

// URL returns the canonical location of the source
func (s SourceId) URL() string { return s.url }

// IsPath reports whether this is a local directory source
func (s SourceId) IsPath() bool { return s.kind == SourceKindPath }

func (s SourceId) String() string {
	return fmt.Sprintf("%s+file://%s", s.kind, s.url)
}
