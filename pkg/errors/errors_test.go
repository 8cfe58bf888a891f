package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carton-pm/carton/pkg/errors"
)

func TestNew_FormatsCodeAndMessage(t *testing.T) {
	err := errors.New(errors.ErrNotFound, "package missing")
	assert.Equal(t, "[NOT_FOUND] package missing", err.Error())
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := errors.Wrap(cause, errors.ErrFileAccess, "cannot read manifest")

	require.NotNil(t, err)
	assert.Equal(t, "[FILE_ACCESS] cannot read manifest: disk on fire", err.Error())
	assert.Equal(t, cause, err.Unwrap())
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "nothing"))
}

func TestWithDetail_AccumulatesDetails(t *testing.T) {
	err := errors.New(errors.ErrSummaryInvalid, "bad feature").
		WithDetail("feature", "fancy").
		WithDetail("dependency", "cli")

	details := errors.GetErrorDetails(err)
	assert.Equal(t, "fancy", details["feature"])
	assert.Equal(t, "cli", details["dependency"])
}

func TestIsErrorCode_MatchesThroughWrapping(t *testing.T) {
	inner := errors.New(errors.ErrManifestParse, "bad toml")
	outer := fmt.Errorf("loading package: %w", inner)

	assert.True(t, errors.IsErrorCode(outer, errors.ErrManifestParse))
	assert.False(t, errors.IsErrorCode(outer, errors.ErrManifestRead))
}

func TestGetErrorCode_FallsBackToUnknown(t *testing.T) {
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(fmt.Errorf("plain")))
	assert.Equal(t, errors.ErrInternal, errors.GetErrorCode(errors.New(errors.ErrInternal, "bug")))
}
