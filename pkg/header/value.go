package header

import (
	"errors"

	"golang.org/x/net/http/httpguts"
)

// ErrInvalidValue is returned when a header value starts or ends with
// space/tab, or contains a CR or LF byte.
var ErrInvalidValue = errors.New("header: invalid header value")

// Value is a validated header field value. Construction rejects leading
// or trailing space/tab and any CR or LF byte, which is what makes
// response-splitting via a caller-supplied header value impossible: the
// bytes that would let a value smuggle a second header line never make
// it past NewValue.
type Value string

// NewValue validates s and returns it as a Value.
func NewValue(s string) (Value, error) {
	if !httpguts.ValidHeaderFieldValue(s) {
		return "", ErrInvalidValue
	}
	if len(s) > 0 && (s[0] == ' ' || s[0] == '\t' || s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
		return "", ErrInvalidValue
	}
	return Value(s), nil
}

// String returns the value's bytes as a string.
func (v Value) String() string { return string(v) }
