// Package wire implements the HTTP/1.1 read and write sides: parsing a
// request or response off a buffered connection, selecting body framing,
// and serializing a request or response back onto one.
package wire

import (
	"github.com/yourusername/httpcore/pkg/body"
	"github.com/yourusername/httpcore/pkg/header"
)

// Method is an HTTP request method. The zero value is not a valid method.
type Method string

const (
	CONNECT Method = "CONNECT"
	DELETE  Method = "DELETE"
	GET     Method = "GET"
	HEAD    Method = "HEAD"
	OPTIONS Method = "OPTIONS"
	POST    Method = "POST"
	PUT     Method = "PUT"
	TRACE   Method = "TRACE"
)

// IsSafe reports whether m is one of the methods defined as safe: GET,
// HEAD, OPTIONS, TRACE.
func (m Method) IsSafe() bool {
	switch m {
	case GET, HEAD, OPTIONS, TRACE:
		return true
	default:
		return false
	}
}

// StatusCode is an HTTP response status code, valid in [100, 999].
type StatusCode int

// ReasonPhrase returns the canonical reason phrase for well-known codes,
// or the empty string for anything else. An empty reason is a valid wire
// form, so callers are never required to supply one.
func (c StatusCode) ReasonPhrase() string {
	return reasonPhrases[c]
}

var reasonPhrases = map[StatusCode]string{
	100: "Continue",
	101: "Switching Protocols",
	200: "OK",
	201: "Created",
	202: "Accepted",
	203: "Non-Authoritative Information",
	204: "No Content",
	205: "Reset Content",
	206: "Partial Content",
	300: "Multiple Choices",
	301: "Moved Permanently",
	302: "Found",
	303: "See Other",
	304: "Not Modified",
	305: "Use Proxy",
	307: "Temporary Redirect",
	308: "Permanent Redirect",
	400: "Bad Request",
	401: "Unauthorized",
	402: "Payment Required",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	406: "Not Acceptable",
	407: "Proxy Authentication Required",
	408: "Request Timeout",
	409: "Conflict",
	410: "Gone",
	411: "Length Required",
	412: "Precondition Failed",
	413: "Payload Too Large",
	414: "URI Too Long",
	415: "Unsupported Media Type",
	417: "Expectation Failed",
	426: "Upgrade Required",
	429: "Too Many Requests",
	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	504: "Gateway Timeout",
	505: "HTTP Version Not Supported",
}

// Version is an HTTP message version: Major 1, Minor 0 or 1 for this
// engine.
type Version struct {
	Major int
	Minor int
}

// AtLeast reports whether v is >= other under the usual major.minor
// ordering.
func (v Version) AtLeast(other Version) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	return v.Minor >= other.Minor
}

// String renders v as it appears on the wire, e.g. "HTTP/1.1".
func (v Version) String() string {
	digits := [...]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}
	buf := make([]byte, 0, 8)
	buf = append(buf, "HTTP/"...)
	buf = append(buf, digits[v.Major])
	buf = append(buf, '.')
	buf = append(buf, digits[v.Minor])
	return string(buf)
}

// HTTP10 and HTTP11 are the only two versions this engine speaks.
var (
	HTTP10 = Version{Major: 1, Minor: 0}
	HTTP11 = Version{Major: 1, Minor: 1}
)

// Target is a decoded request target, covering all four forms a
// request-line can carry (origin, absolute, asterisk, authority). When
// the wire form omitted them (origin-form, asterisk-form), Scheme is
// taken from the connection's security and Authority from the Host
// header.
type Target struct {
	Scheme    string
	Authority string
	Path      string
	Query     string
}

// Request is a decoded or to-be-encoded HTTP request.
type Request struct {
	Method  Method
	Target  Target
	Version Version
	Header  *header.Map
	Body    body.Body
}

// Response is a decoded or to-be-encoded HTTP response.
type Response struct {
	Version    Version
	StatusCode StatusCode
	Reason     string
	Header     *header.Map
	Body       body.Body
}

// HasBody reports whether resp's status class permits a message body.
// It is false for informational (1xx), 204 No Content and 304 Not
// Modified: the decoder reads no body for them, and the encoder omits
// Content-Length for them when the body is empty. A non-empty body set
// on such a response is still encoded.
func (r *Response) HasBody() bool {
	switch {
	case r.StatusCode >= 100 && r.StatusCode < 200:
		return false
	case r.StatusCode == 204, r.StatusCode == 304:
		return false
	default:
		return true
	}
}
