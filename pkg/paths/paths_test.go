package paths_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carton-pm/carton/pkg/paths"
)

func TestIsAncestor(t *testing.T) {
	tests := []struct {
		name     string
		parent   string
		child    string
		expected bool
	}{
		{"same path", "/a/b", "/a/b", true},
		{"direct child", "/a/b", "/a/b/c", true},
		{"deep child", "/a", "/a/b/c/d", true},
		{"sibling", "/a/b", "/a/c", false},
		{"name prefix is not ancestry", "/a/b", "/a/bc", false},
		{"child of child is not parent", "/a/b/c", "/a/b", false},
		{"unclean paths", "/a/b/.", "/a/b/c/../c", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, paths.IsAncestor(tt.parent, tt.child))
		})
	}
}

func TestRelativeTo(t *testing.T) {
	assert.Equal(t, "src/main.c", paths.RelativeTo("/p", "/p/src/main.c"))
	assert.Equal(t, ".", paths.RelativeTo("/p", "/p"))
	assert.Equal(t, "", paths.RelativeTo("/p", "/q/file"))
}

func TestManifestPath(t *testing.T) {
	assert.Equal(t, "/p/Carton.toml", paths.ManifestPath("/p"))
}
