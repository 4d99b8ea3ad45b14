// Package play verifies purchase signatures produced by the Play billing
// service.
package play

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"

	"github.com/pkg/errors"

	"github.com/imagestudio/billing-server/billing"
)

// Verifier checks the Play signing scheme: SHA1-with-RSA (PKCS#1 v1.5)
// over the exact payload bytes, against a base64-encoded X.509
// SubjectPublicKeyInfo public key from the developer console.
type Verifier struct {
	base64PublicKey string
}

func NewVerifier(base64PublicKey string) *Verifier {
	return &Verifier{base64PublicKey: base64PublicKey}
}

// Verify implements billing.SignatureVerifier. A malformed signature is
// untrusted; a missing or malformed public key is a configuration error.
func (v *Verifier) Verify(signedData, signature string) (bool, error) {
	if v.base64PublicKey == "" {
		return false, billing.ErrNoPublicKey
	}

	pub, err := decodePublicKey(v.base64PublicKey)
	if err != nil {
		return false, err
	}

	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false, nil
	}

	// No trimming or re-encoding of signedData: the signature covers the
	// bytes exactly as transmitted.
	digest := sha1.Sum([]byte(signedData))
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA1, digest[:], sig); err != nil {
		return false, nil
	}
	return true, nil
}

func decodePublicKey(encoded string) (*rsa.PublicKey, error) {
	der, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrap(err, "public key is not valid base64")
	}

	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse public key")
	}

	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, errors.Errorf("public key is %T, expected RSA", key)
	}
	return rsaKey, nil
}
