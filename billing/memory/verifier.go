// Package memory provides an in-memory signature verifier for tests,
// using ed25519 instead of the platform's RSA scheme so fixtures can sign
// payloads without a developer console key.
package memory

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"

	"github.com/imagestudio/billing-server/billing"
)

type Verifier struct {
	publicKey ed25519.PublicKey
}

func NewVerifier(pubKey ed25519.PublicKey) *Verifier {
	return &Verifier{publicKey: pubKey}
}

func (v *Verifier) Verify(signedData, signature string) (bool, error) {
	if len(v.publicKey) == 0 {
		return false, billing.ErrNoPublicKey
	}

	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false, nil
	}

	return ed25519.Verify(v.publicKey, []byte(signedData), sig), nil
}

// GenerateKeyPair returns a fresh signing key pair for fixtures.
func GenerateKeyPair() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	return ed25519.GenerateKey(rand.Reader)
}

// Sign produces a signature accepted by a Verifier holding the matching
// public key.
func Sign(owner ed25519.PrivateKey, signedData string) string {
	return base64.StdEncoding.EncodeToString(ed25519.Sign(owner, []byte(signedData)))
}
