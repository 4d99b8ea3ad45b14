package billing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBundle_ResponseCode_Absent(t *testing.T) {
	// A payload without a response code decodes as OK: known platform
	// quirk on success.
	for _, b := range []Bundle{{}, {KeyResponseCode: nil}} {
		code, err := b.ResponseCode()
		require.NoError(t, err)
		require.Equal(t, ResponseOK, code)
	}
}

func TestBundle_ResponseCode_WidthIdempotence(t *testing.T) {
	// The same numeric value decodes identically whatever integer width
	// the platform happened to use.
	for _, b := range []Bundle{
		{KeyResponseCode: int(7)},
		{KeyResponseCode: int32(7)},
		{KeyResponseCode: int64(7)},
	} {
		code, err := b.ResponseCode()
		require.NoError(t, err)
		require.Equal(t, ResponseItemAlreadyOwned, code)
	}
}

func TestBundle_ResponseCode_UnexpectedType(t *testing.T) {
	for _, value := range []any{"7", 7.0, []byte("7"), map[string]any{}} {
		b := Bundle{KeyResponseCode: value}

		_, err := b.ResponseCode()
		require.Error(t, err)

		var typeErr *UnexpectedTypeError
		require.ErrorAs(t, err, &typeErr)
		require.Equal(t, KeyResponseCode, typeErr.Key)
	}
}

func TestBundle_String(t *testing.T) {
	b := Bundle{
		KeyPurchaseData: `{"productId":"premium_upgrade"}`,
		KeyResponseCode: int64(0),
	}

	data, err := b.String(KeyPurchaseData)
	require.NoError(t, err)
	require.Equal(t, `{"productId":"premium_upgrade"}`, data)

	_, err = b.String(KeyDataSignature)
	require.True(t, errors.Is(err, ErrAbsent))

	// Present but mistyped is not the same failure as absent.
	_, err = b.String(KeyResponseCode)
	require.False(t, errors.Is(err, ErrAbsent))
	var typeErr *UnexpectedTypeError
	require.ErrorAs(t, err, &typeErr)
}

func TestBundle_Has(t *testing.T) {
	b := Bundle{KeyResponseCode: int64(0), KeyPurchaseData: nil}
	require.True(t, b.Has(KeyResponseCode))
	require.False(t, b.Has(KeyPurchaseData))
	require.False(t, b.Has(KeyDataSignature))
}
