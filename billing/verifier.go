package billing

import "errors"

// ErrNoPublicKey is returned when verification is impossible because no
// public key was configured. It is a configuration error, distinct from an
// untrusted signature: it means verification never happened at all.
var ErrNoPublicKey = errors.New("billing: no public key configured")

// SignatureVerifier decides whether a purchase payload was signed by the
// expected issuer.
//
// Implementations must treat malformed payloads or signatures as untrusted
// (false, nil) rather than failing, and must verify the exact signedData
// string received from the platform without any normalization.
type SignatureVerifier interface {
	Verify(signedData, signature string) (bool, error)
}
