package source_test

import (
	"testing"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carton-pm/carton/pkg/errors"
	"github.com/carton-pm/carton/pkg/source"
	"github.com/carton-pm/carton/pkg/testutil"
	"github.com/carton-pm/carton/pkg/types"
)

func writeManifest(t *testing.T, fsys *testutil.MemFS, dir, body string) {
	t.Helper()
	fsys.WriteFile(dir+"/Carton.toml", []byte(body), time.Unix(0, 0))
}

func newTestSource(t *testing.T, fsys *testutil.MemFS, root string) *source.PathSource {
	t.Helper()
	s, err := source.ForPath(root, source.WithFS(fsys))
	require.NoError(t, err)
	return s
}

func mustConstraint(t *testing.T, raw string) *semver.Constraints {
	t.Helper()
	c, err := semver.NewConstraint(raw)
	require.NoError(t, err)
	return c
}

func workspaceFS(t *testing.T) *testutil.MemFS {
	t.Helper()
	fsys := testutil.NewMemFS()
	writeManifest(t, fsys, "/ws", `
[package]
name = "root"
version = "1.0.0"
`)
	writeManifest(t, fsys, "/ws/libs/util", `
[package]
name = "util"
version = "0.3.0"
`)
	return fsys
}

func TestPathSource_OperationsRequireUpdate(t *testing.T) {
	s := newTestSource(t, workspaceFS(t), "/ws")

	_, err := s.Query(types.NewDependency("root", nil))
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceNotUpdated))

	_, err = s.Get(nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceNotUpdated))

	_, err = s.GetRootPackage()
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceNotUpdated))

	_, err = s.ListFiles(nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceNotUpdated))

	_, err = s.Fingerprint(nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceNotUpdated))

	// Download never touches discovery state
	assert.NoError(t, s.Download(nil))
}

func TestPathSource_UpdateIsIdempotent(t *testing.T) {
	s := newTestSource(t, workspaceFS(t), "/ws")

	require.NoError(t, s.Update())
	require.NoError(t, s.Update())

	packages, err := s.ReadPackages()
	require.NoError(t, err)
	assert.Len(t, packages, 2)
}

func TestPathSource_UpdateFailsOnEmptyRoot(t *testing.T) {
	fsys := testutil.NewMemFS()
	fsys.WriteFile("/empty/README.md", []byte("nothing here"), time.Unix(0, 0))
	s := newTestSource(t, fsys, "/empty")

	err := s.Update()

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPackageNotFound))
}

func TestPathSource_ReadPackagesWorksWithoutUpdate(t *testing.T) {
	s := newTestSource(t, workspaceFS(t), "/ws")

	packages, err := s.ReadPackages()
	require.NoError(t, err)
	assert.Len(t, packages, 2)

	// On-the-fly discovery does not flip the updated state
	_, err = s.Query(types.NewDependency("root", nil))
	assert.True(t, errors.IsErrorCode(err, errors.ErrSourceNotUpdated))
}

func TestPathSource_GetRootPackage(t *testing.T) {
	s := newTestSource(t, workspaceFS(t), "/ws")
	require.NoError(t, s.Update())

	pkg, err := s.GetRootPackage()
	require.NoError(t, err)
	assert.Equal(t, "root", pkg.Name())
	assert.Equal(t, "/ws", pkg.Root())
}

func TestPathSource_QueryFiltersByNameAndConstraint(t *testing.T) {
	s := newTestSource(t, workspaceFS(t), "/ws")
	require.NoError(t, s.Update())

	matches, err := s.Query(types.NewDependency("util", nil))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "util", matches[0].Name())

	matches, err = s.Query(types.NewDependency("util", mustConstraint(t, ">= 1.0")))
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = s.Query(types.NewDependency("unknown", nil))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestPathSource_GetPreservesDiscoveryOrder(t *testing.T) {
	s := newTestSource(t, workspaceFS(t), "/ws")
	require.NoError(t, s.Update())

	all, err := s.ReadPackages()
	require.NoError(t, err)
	require.Len(t, all, 2)

	// Request in reverse order, get back discovery order
	got, err := s.Get([]types.PackageId{all[1].PackageID(), all[0].PackageID()})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, all[0].Name(), got[0].Name())
	assert.Equal(t, all[1].Name(), got[1].Name())

	got, err = s.Get([]types.PackageId{all[1].PackageID()})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "util", got[0].Name())
}
