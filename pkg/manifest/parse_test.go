package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carton-pm/carton/pkg/errors"
	"github.com/carton-pm/carton/pkg/manifest"
)

func TestParse_FullManifest(t *testing.T) {
	data := []byte(`
[package]
name = "demo"
version = "1.2.3"
description = "a demo package"
include = ["src/**"]
exclude = ["*.tmp"]

[dependencies]
log = "^1.0"
cli = { version = "^2.0", optional = true }

[dev-dependencies]
testkit = "^0.5"

[features]
default = ["fancy"]
fancy = ["cli", "log/color"]
`)

	m, unused, err := manifest.Parse(data, "/p/Carton.toml")
	require.NoError(t, err)
	assert.Empty(t, unused)

	assert.Equal(t, "demo", m.Package.Name)
	assert.Equal(t, "1.2.3", m.Package.Version)
	assert.Equal(t, "a demo package", m.Package.Description)
	assert.Equal(t, []string{"src/**"}, m.Package.Include)
	assert.Equal(t, []string{"*.tmp"}, m.Package.Exclude)

	assert.Equal(t, manifest.DependencySpec{Version: "^1.0"}, m.Dependencies["log"])
	assert.Equal(t, manifest.DependencySpec{Version: "^2.0", Optional: true}, m.Dependencies["cli"])
	assert.Equal(t, manifest.DependencySpec{Version: "^0.5"}, m.DevDependencies["testkit"])

	assert.Equal(t, []string{"fancy"}, m.Features["default"])
	assert.Equal(t, []string{"cli", "log/color"}, m.Features["fancy"])
}

func TestParse_UnusedKeysAsDottedPaths(t *testing.T) {
	data := []byte(`
[package]
name = "demo"
version = "1.0.0"

[package.metadata]
foo = "bar"

[dependencies]
cli = { version = "^2.0", git = "https://example.com/cli" }

[badsection]
x = 1

[[tool.item]]
a = 1
`)

	_, unused, err := manifest.Parse(data, "/p/Carton.toml")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"badsection.x",
		"dependencies.cli.git",
		"package.metadata.foo",
		"tool.item.0.a",
	}, unused)
}

func TestParse_MissingRequiredFields(t *testing.T) {
	_, _, err := manifest.Parse([]byte("[package]\nversion = \"1.0.0\"\n"), "/p/Carton.toml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse))
	assert.Contains(t, err.Error(), "package.name")

	_, _, err = manifest.Parse([]byte("[package]\nname = \"demo\"\n"), "/p/Carton.toml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse))
	assert.Contains(t, err.Error(), "package.version")
}

func TestParse_InvalidToml(t *testing.T) {
	_, _, err := manifest.Parse([]byte("= nonsense"), "/p/Carton.toml")

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse))
	assert.Contains(t, err.Error(), "/p/Carton.toml")
}

func TestParse_InvalidShapes(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"dependency is a number", "[package]\nname=\"d\"\nversion=\"1.0.0\"\n[dependencies]\nlog = 1\n"},
		{"feature is not an array", "[package]\nname=\"d\"\nversion=\"1.0.0\"\n[features]\nfancy = \"cli\"\n"},
		{"feature entry is not a string", "[package]\nname=\"d\"\nversion=\"1.0.0\"\n[features]\nfancy = [1]\n"},
		{"package name is not a string", "[package]\nname = 1\nversion=\"1.0.0\"\n"},
		{"include is not an array", "[package]\nname=\"d\"\nversion=\"1.0.0\"\ninclude = \"src\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := manifest.Parse([]byte(tt.data), "/p/Carton.toml")
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse))
		})
	}
}
