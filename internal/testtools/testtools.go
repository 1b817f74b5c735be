// Package testtools contains the assertion helpers shared by the tests,
// they are imported as `tt` by convention.
package testtools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badtuple/pipelang"
)

func AssertNoErr(t *testing.T, err error) {
	t.Helper()
	require.NoError(t, err)
}

func AssertEqual(t *testing.T, got any, expected any) {
	t.Helper()
	require.Equal(t, expected, got)
}

func AssertNotEqual(t *testing.T, got any, unexpected any) {
	t.Helper()
	require.NotEqual(t, unexpected, got)
}

// AssertErrContains checks that err is not nil and that its message
// contains every one of the given substrings
func AssertErrContains(t *testing.T, err error, substrs ...string) {
	t.Helper()
	require.Error(t, err)

	for _, substr := range substrs {
		assert.Contains(t, err.Error(), substr)
	}
}

// AssertErrCode checks that err is a pipelang.Err (or wraps one) with the given code
func AssertErrCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, pipelang.ErrIs(err, code), "expected error with code %s, got: %s", code, err)
}
