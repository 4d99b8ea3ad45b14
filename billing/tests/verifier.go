package tests

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imagestudio/billing-server/billing"
)

// SignFunc produces a valid signature for the given payload.
type SignFunc func(signedData string) string

// RunVerifierTests exercises a SignatureVerifier implementation against
// the shared contract: valid signatures verify, tampered payloads and
// malformed signatures are untrusted, and decisions are deterministic.
func RunVerifierTests(t *testing.T, v billing.SignatureVerifier, sign SignFunc, teardown func()) {
	for _, tf := range []func(t *testing.T, v billing.SignatureVerifier, sign SignFunc){
		testVerifier_ValidSignature,
		testVerifier_TamperedPayload,
		testVerifier_MalformedSignature,
		testVerifier_Deterministic,
	} {
		tf(t, v, sign)
		teardown()
	}
}

func testVerifier_ValidSignature(t *testing.T, v billing.SignatureVerifier, sign SignFunc) {
	payload := `{"orderId":"order-1","productId":"premium_upgrade","purchaseToken":"token-1"}`

	trusted, err := v.Verify(payload, sign(payload))
	require.NoError(t, err)
	require.True(t, trusted)
}

func testVerifier_TamperedPayload(t *testing.T, v billing.SignatureVerifier, sign SignFunc) {
	payload := `{"orderId":"order-1","productId":"premium_upgrade","purchaseToken":"token-1"}`
	signature := sign(payload)

	tampered := `{"orderId":"order-1","productId":"premium_upgrade","purchaseToken":"token-2"}`
	trusted, err := v.Verify(tampered, signature)
	require.NoError(t, err)
	require.False(t, trusted)

	// Even a whitespace change must break trust: the signature covers the
	// exact bytes.
	trusted, err = v.Verify(payload+" ", signature)
	require.NoError(t, err)
	require.False(t, trusted)
}

func testVerifier_MalformedSignature(t *testing.T, v billing.SignatureVerifier, sign SignFunc) {
	payload := `{"productId":"premium_upgrade"}`

	for _, signature := range []string{"", "not base64!!!", "aGVsbG8="} {
		trusted, err := v.Verify(payload, signature)
		require.NoError(t, err)
		require.False(t, trusted)
	}
}

func testVerifier_Deterministic(t *testing.T, v billing.SignatureVerifier, sign SignFunc) {
	payload := `{"productId":"premium_upgrade","purchaseToken":"token-1"}`
	signature := sign(payload)

	for i := 0; i < 3; i++ {
		trusted, err := v.Verify(payload, signature)
		require.NoError(t, err)
		require.True(t, trusted)
	}
}
