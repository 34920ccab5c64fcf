// Package header implements the HTTP field-name/field-value model: a
// case-normalized name type, a validated value type, and an ordered
// multi-valued map that the wire codec reads and writes.
package header

import (
	"errors"

	"golang.org/x/net/http/httpguts"
)

// ErrInvalidName is returned when a header name is empty or contains a
// byte outside the HTTP token set.
var ErrInvalidName = errors.New("header: invalid header name")

// Name is an ASCII header field name normalized to lowercase at
// construction time. Two Names compare equal iff their normalized bytes
// are equal, which makes every later comparison (map lookup, forbidden-set
// check, Connection-header check) a plain case-sensitive comparison.
type Name string

// NewName validates and normalizes s into a Name. It fails with
// ErrInvalidName if s is empty or contains a byte outside the HTTP token
// grammar (validated via httpguts, the same grammar net/http enforces).
func NewName(s string) (Name, error) {
	if s == "" || !httpguts.ValidHeaderFieldName(s) {
		return "", ErrInvalidName
	}
	return Name(toLowerASCII(s)), nil
}

// String returns the normalized name.
func (n Name) String() string { return string(n) }

func toLowerASCII(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Well-known header names, normalized.
const (
	Host             Name = "host"
	Connection       Name = "connection"
	ContentLength    Name = "content-length"
	ContentType      Name = "content-type"
	ContentEncoding  Name = "content-encoding"
	TransferEncoding Name = "transfer-encoding"
	Trailer          Name = "trailer"
	UserAgent        Name = "user-agent"
	AcceptEncoding   Name = "accept-encoding"
	AcceptCharset    Name = "accept-charset"
	Expect           Name = "expect"
	Location         Name = "location"
	Server           Name = "server"
	Date             Name = "date"
	Upgrade          Name = "upgrade"
	Range            Name = "range"
	KeepAlive        Name = "keep-alive"
	Origin           Name = "origin"
	Via              Name = "via"
	TE               Name = "te"
)
