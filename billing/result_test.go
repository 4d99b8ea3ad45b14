package billing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewResult(t *testing.T) {
	r := NewResult(ResponseOK, "Success")
	require.Equal(t, ResponseOK, r.Code)
	require.Equal(t, "Success", r.Message)
	require.True(t, r.IsSuccess())
	require.False(t, r.IsFailure())

	// An empty message falls back to the code's description.
	r = NewResult(HelperBadResponse, "")
	require.Equal(t, "-1002:Bad response received", r.Message)
	require.True(t, r.IsFailure())
}

func TestResult_String(t *testing.T) {
	r := NewResult(HelperUserCanceled, "User canceled.")
	require.Equal(t, "IabResult: User canceled. (response: -1005:User cancelled)", r.String())
}
