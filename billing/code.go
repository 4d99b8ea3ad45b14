package billing

import "strconv"

// Code classifies the result of a billing operation. Non-negative codes are
// reported by the platform billing service; codes at or below
// HelperErrorBase are produced by this library for transport, parsing, and
// verification failures. The two ranges never overlap.
type Code int32

// Platform response codes. The numeric values are part of the wire contract
// and must not change.
const (
	ResponseOK                 Code = 0
	ResponseUserCanceled       Code = 1
	ResponseBillingUnavailable Code = 3
	ResponseItemUnavailable    Code = 4
	ResponseDeveloperError     Code = 5
	ResponseError              Code = 6
	ResponseItemAlreadyOwned   Code = 7
	ResponseItemNotOwned       Code = 8
)

// HelperErrorBase anchors the library-internal code range. Each internal
// code is a fixed offset below the base, keeping it disjoint from anything
// the platform can report.
const HelperErrorBase Code = -1000

const (
	HelperRemoteException          = HelperErrorBase - 1
	HelperBadResponse              = HelperErrorBase - 2
	HelperVerificationFailed       = HelperErrorBase - 3
	HelperSendIntentFailed         = HelperErrorBase - 4
	HelperUserCanceled             = HelperErrorBase - 5
	HelperUnknownPurchaseResponse  = HelperErrorBase - 6
	HelperMissingToken             = HelperErrorBase - 7
	HelperUnknownError             = HelperErrorBase - 8
	HelperSubscriptionsUnavailable = HelperErrorBase - 9
	HelperInvalidConsumption       = HelperErrorBase - 10
)

// Descriptions are fixed tables rather than formatted at runtime so the
// exact legacy strings survive.
var platformDescriptions = []string{
	"0:OK",
	"1:User Canceled",
	"2:Unknown",
	"3:Billing Unavailable",
	"4:Item unavailable",
	"5:Developer Error",
	"6:Error",
	"7:Item Already Owned",
	"8:Item not owned",
}

var helperDescriptions = []string{
	"0:OK",
	"-1001:Remote exception during initialization",
	"-1002:Bad response received",
	"-1003:Purchase signature verification failed",
	"-1004:Send intent failed",
	"-1005:User cancelled",
	"-1006:Unknown purchase response",
	"-1007:Missing token",
	"-1008:Unknown error",
	"-1009:Subscriptions not available",
	"-1010:Invalid consumption attempt",
}

// IsHelperError reports whether the code was generated by this library
// rather than reported by the platform.
func (c Code) IsHelperError() bool {
	return c <= HelperErrorBase
}

// Description returns a human-readable description of the code, including
// the numeric value.
func (c Code) Description() string {
	if c <= HelperErrorBase {
		index := int(HelperErrorBase - c)
		if index < len(helperDescriptions) {
			return helperDescriptions[index]
		}
		return strconv.Itoa(int(c)) + ":Unknown IAB Helper Error"
	}

	if c < 0 || int(c) >= len(platformDescriptions) {
		return strconv.Itoa(int(c)) + ":Unknown"
	}
	return platformDescriptions[c]
}
