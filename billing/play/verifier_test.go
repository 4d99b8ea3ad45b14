package play

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imagestudio/billing-server/billing"
	"github.com/imagestudio/billing-server/billing/tests"
)

func generateKey(t *testing.T) (*rsa.PrivateKey, string) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	return key, base64.StdEncoding.EncodeToString(der)
}

func sign(t *testing.T, key *rsa.PrivateKey, signedData string) string {
	digest := sha1.Sum([]byte(signedData))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA1, digest[:])
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(sig)
}

func TestPlayVerifier(t *testing.T) {
	key, encodedPub := generateKey(t)

	verifier := NewVerifier(encodedPub)
	signFunc := func(signedData string) string {
		return sign(t, key, signedData)
	}

	tests.RunVerifierTests(t, verifier, signFunc, func() {})
}

func TestPlayVerifier_NoPublicKey(t *testing.T) {
	verifier := NewVerifier("")

	trusted, err := verifier.Verify(`{"productId":"premium_upgrade"}`, "c2ln")
	require.ErrorIs(t, err, billing.ErrNoPublicKey)
	require.False(t, trusted)
}

func TestPlayVerifier_BadPublicKey(t *testing.T) {
	for _, encoded := range []string{
		"not base64!!!",
		base64.StdEncoding.EncodeToString([]byte("not a DER key")),
	} {
		verifier := NewVerifier(encoded)

		trusted, err := verifier.Verify(`{"productId":"premium_upgrade"}`, "c2ln")
		require.Error(t, err)
		require.False(t, trusted)
	}
}

func TestPlayVerifier_WrongKey(t *testing.T) {
	signingKey, _ := generateKey(t)
	_, otherPub := generateKey(t)

	verifier := NewVerifier(otherPub)
	payload := `{"productId":"premium_upgrade"}`

	trusted, err := verifier.Verify(payload, sign(t, signingKey, payload))
	require.NoError(t, err)
	require.False(t, trusted)
}
