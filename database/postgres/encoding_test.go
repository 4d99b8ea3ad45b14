package pg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imagestudio/billing-server/model"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	receiptID := model.ReceiptID(`{"productId":"premium_upgrade"}`, "sig")

	for _, tc := range []struct {
		name       string
		encodeType EncodeType
	}{
		{"Base64", Base64},
		{"Base58", Base58},
		{"Hex", Hex},
		{"Default", DefaultEncodeType},
	} {
		t.Run(tc.name, func(t *testing.T) {
			encoded := Encode(receiptID, tc.encodeType)

			decoded, err := Decode(encoded)
			require.NoError(t, err)
			require.Equal(t, receiptID, decoded)
		})
	}
}

func TestEncode_DefaultsToBase64(t *testing.T) {
	encoded := Encode([]byte("token"))
	require.Equal(t, "b64:", encoded[:4])
}

func TestDecode_MissingPrefix(t *testing.T) {
	_, err := Decode("no-prefix-here")
	require.Error(t, err)
}

func TestDecode_UnsupportedEncoding(t *testing.T) {
	_, err := Decode("b32:SGVsbG8=")
	require.Error(t, err)
}
