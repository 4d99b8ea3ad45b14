package billing

import (
	"errors"
	"fmt"
)

// Keys used by the platform billing service in result payloads.
const (
	KeyResponseCode  = "RESPONSE_CODE"
	KeyPurchaseData  = "INAPP_PURCHASE_DATA"
	KeyDataSignature = "INAPP_DATA_SIGNATURE"
)

// ErrAbsent reports that a payload carried no entry for the requested key.
// Accessors return it unwrapped so callers can tell "absent" apart from
// "present with the wrong type".
var ErrAbsent = errors.New("billing: no value for key")

// UnexpectedTypeError reports a payload entry whose runtime type violates
// the platform contract. This is never coerced or swallowed: it signals a
// broken platform boundary, not a purchase outcome.
type UnexpectedTypeError struct {
	Key   string
	Value any
}

func (e *UnexpectedTypeError) Error() string {
	return fmt.Sprintf("billing: unexpected type %T for key %q", e.Value, e.Key)
}

// Bundle is the loosely-typed key/value payload attached to a platform
// result event. Values are heterogeneous; accessors apply a typed
// extraction contract instead of ad hoc type inspection.
type Bundle map[string]any

// Has reports whether the bundle carries any entry for key, including a
// nil one.
func (b Bundle) Has(key string) bool {
	v, ok := b[key]
	return ok && v != nil
}

// Int64 extracts an integer entry, accepting any integer width the
// platform is known to send.
func (b Bundle) Int64(key string) (int64, error) {
	v, ok := b[key]
	if !ok || v == nil {
		return 0, ErrAbsent
	}
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	default:
		return 0, &UnexpectedTypeError{Key: key, Value: v}
	}
}

// String extracts a string entry.
func (b Bundle) String(key string) (string, error) {
	v, ok := b[key]
	if !ok || v == nil {
		return "", ErrAbsent
	}
	s, ok := v.(string)
	if !ok {
		return "", &UnexpectedTypeError{Key: key, Value: v}
	}
	return s, nil
}

// ResponseCode extracts the billing response code from a result payload.
//
// An absent entry decodes as ResponseOK: some platform versions omit the
// code on success, and that quirk is tolerated. An entry of any
// non-integer type is a contract violation and fails hard; the asymmetry
// with the absent case is deliberate.
func (b Bundle) ResponseCode() (Code, error) {
	n, err := b.Int64(KeyResponseCode)
	if errors.Is(err, ErrAbsent) {
		return ResponseOK, nil
	}
	if err != nil {
		return 0, err
	}
	return Code(n), nil
}
