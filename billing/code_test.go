package billing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCode_Values(t *testing.T) {
	// The numeric vocabulary is a compatibility contract.
	require.EqualValues(t, 0, ResponseOK)
	require.EqualValues(t, 1, ResponseUserCanceled)
	require.EqualValues(t, 3, ResponseBillingUnavailable)
	require.EqualValues(t, 4, ResponseItemUnavailable)
	require.EqualValues(t, 5, ResponseDeveloperError)
	require.EqualValues(t, 6, ResponseError)
	require.EqualValues(t, 7, ResponseItemAlreadyOwned)
	require.EqualValues(t, 8, ResponseItemNotOwned)

	require.EqualValues(t, -1001, HelperRemoteException)
	require.EqualValues(t, -1002, HelperBadResponse)
	require.EqualValues(t, -1003, HelperVerificationFailed)
	require.EqualValues(t, -1004, HelperSendIntentFailed)
	require.EqualValues(t, -1005, HelperUserCanceled)
	require.EqualValues(t, -1006, HelperUnknownPurchaseResponse)
	require.EqualValues(t, -1007, HelperMissingToken)
	require.EqualValues(t, -1008, HelperUnknownError)
	require.EqualValues(t, -1009, HelperSubscriptionsUnavailable)
	require.EqualValues(t, -1010, HelperInvalidConsumption)
}

func TestCode_Description(t *testing.T) {
	for _, tc := range []struct {
		code     Code
		expected string
	}{
		{ResponseOK, "0:OK"},
		{ResponseUserCanceled, "1:User Canceled"},
		{2, "2:Unknown"},
		{ResponseBillingUnavailable, "3:Billing Unavailable"},
		{ResponseItemAlreadyOwned, "7:Item Already Owned"},
		{HelperRemoteException, "-1001:Remote exception during initialization"},
		{HelperBadResponse, "-1002:Bad response received"},
		{HelperVerificationFailed, "-1003:Purchase signature verification failed"},
		{HelperUserCanceled, "-1005:User cancelled"},
		{HelperInvalidConsumption, "-1010:Invalid consumption attempt"},
		{9, "9:Unknown"},
		{-1, "-1:Unknown"},
		{-2000, "-2000:Unknown IAB Helper Error"},
	} {
		require.Equal(t, tc.expected, tc.code.Description())
	}
}

func TestCode_Families(t *testing.T) {
	require.False(t, ResponseOK.IsHelperError())
	require.False(t, ResponseItemNotOwned.IsHelperError())
	require.True(t, HelperRemoteException.IsHelperError())
	require.True(t, HelperInvalidConsumption.IsHelperError())

	// The base offset keeps the ranges disjoint.
	for _, helper := range []Code{
		HelperRemoteException, HelperBadResponse, HelperVerificationFailed,
		HelperSendIntentFailed, HelperUserCanceled, HelperUnknownPurchaseResponse,
		HelperMissingToken, HelperUnknownError, HelperSubscriptionsUnavailable,
		HelperInvalidConsumption,
	} {
		require.Less(t, int32(helper), int32(HelperErrorBase))
	}
}
