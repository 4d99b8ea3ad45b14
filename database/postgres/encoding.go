// Package pg holds shared helpers for postgres-backed stores.
//
// Binary values (receipt identifiers, digests) are stored as text columns
// carrying a short encoding prefix, so rows stay greppable and the encoding
// can change without a column migration.
package pg

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/mr-tron/base58"
)

// EncodeType selects the text encoding used for a stored byte value.
type EncodeType string

const (
	Base64 EncodeType = "b64"
	Base58 EncodeType = "b58"
	Hex    EncodeType = "hex"

	DefaultEncodeType = Base64
)

// Encode renders value as prefixed text. With no explicit type it uses
// DefaultEncodeType.
func Encode(value []byte, encodeType ...EncodeType) string {
	encType := DefaultEncodeType
	if len(encodeType) > 0 {
		encType = encodeType[0]
	}

	var encoded string
	switch encType {
	case Base58:
		encoded = base58.Encode(value)
	case Hex:
		encoded = hex.EncodeToString(value)
	default:
		encType = Base64
		encoded = base64.StdEncoding.EncodeToString(value)
	}

	return string(encType) + ":" + encoded
}

// Decode reverses Encode, selecting the decoder from the stored prefix.
func Decode(value string) ([]byte, error) {
	prefix, encoded, found := strings.Cut(value, ":")
	if !found {
		return nil, errors.New("encoded value has no encoding prefix")
	}

	switch EncodeType(prefix) {
	case Base58:
		return base58.Decode(encoded)
	case Hex:
		return hex.DecodeString(encoded)
	case Base64:
		return base64.StdEncoding.DecodeString(encoded)
	default:
		return nil, errors.New("unsupported encoding type: " + prefix)
	}
}
