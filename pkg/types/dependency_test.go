package types_test

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carton-pm/carton/pkg/types"
)

func TestNewDependency_Defaults(t *testing.T) {
	dep := types.NewDependency("log", nil)

	assert.Equal(t, "log", dep.Name())
	assert.Nil(t, dep.VersionConstraint())
	assert.False(t, dep.IsOptional())
	assert.True(t, dep.IsTransitive())
}

func TestDependency_WithMethodsReturnCopies(t *testing.T) {
	dep := types.NewDependency("log", nil)
	dev := dep.WithTransitive(false)
	opt := dep.WithOptional(true)

	assert.True(t, dep.IsTransitive())
	assert.False(t, dev.IsTransitive())
	assert.False(t, dep.IsOptional())
	assert.True(t, opt.IsOptional())
}

func TestDependency_Matches(t *testing.T) {
	version := semver.MustParse("1.2.3")
	dep := types.NewDependency("log", mustConstraint(t, "^1.0"))

	assert.True(t, dep.Matches("log", version))
	assert.False(t, dep.Matches("cli", version))
	assert.False(t, dep.Matches("log", semver.MustParse("2.0.0")))

	// A nil constraint matches any version
	any := types.NewDependency("log", nil)
	assert.True(t, any.Matches("log", version))
	assert.True(t, any.Matches("log", semver.MustParse("0.0.1")))
}

func TestDependency_MatchesId(t *testing.T) {
	dep := types.NewDependency("log", mustConstraint(t, ">=1.0.0 <2.0.0"))

	assert.True(t, dep.MatchesId(testPackageId(t, "log", "1.5.0")))
	assert.False(t, dep.MatchesId(testPackageId(t, "log", "2.1.0")))
}

func TestPackageId_EqualityByAllFields(t *testing.T) {
	a := testPackageId(t, "demo", "1.0.0")
	b := testPackageId(t, "demo", "1.0.0")
	assert.True(t, a.Equal(b))

	assert.False(t, a.Equal(testPackageId(t, "other", "1.0.0")))
	assert.False(t, a.Equal(testPackageId(t, "demo", "2.0.0")))

	otherSource, err := types.NewPathSourceId("/elsewhere")
	require.NoError(t, err)
	c, err := types.NewPackageId("demo", "1.0.0", otherSource)
	require.NoError(t, err)
	assert.False(t, a.Equal(c))
}

func TestNewPackageId_RejectsInvalidInput(t *testing.T) {
	src := testSourceId(t)

	_, err := types.NewPackageId("", "1.0.0", src)
	assert.Error(t, err)

	_, err = types.NewPackageId("demo", "not-a-version", src)
	assert.Error(t, err)
}
