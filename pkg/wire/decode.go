package wire

import (
	"bufio"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/yourusername/httpcore/pkg/body"
	"github.com/yourusername/httpcore/pkg/compressor"
	"github.com/yourusername/httpcore/pkg/header"
)

// DecodeRequest reads one HTTP request head off r and attaches a body
// handle over r itself. secure indicates whether the underlying
// connection is TLS, which constrains what scheme an absolute-form
// target or a Host-derived origin-form target is allowed to carry. reg
// selects which Content-Encoding values are decoded rather than passed
// through; a nil reg passes every coding through unchanged.
func DecodeRequest(r *bufio.Reader, secure bool, reg *compressor.Registry) (*Request, error) {
	block, err := readHeadBlock(r, MaxHeaderBlock)
	if err != nil {
		return nil, err
	}
	startLine, headerLines := splitHeadLines(block)

	method, rawTarget, version, err := parseRequestLine(startLine)
	if err != nil {
		return nil, err
	}

	hdr, err := parseHeaderLines(headerLines)
	if err != nil {
		return nil, err
	}

	target, err := resolveTarget(rawTarget, method, hdr, secure)
	if err != nil {
		return nil, err
	}

	b, err := decodeBody(r, hdr, false, reg)
	if err != nil {
		return nil, err
	}

	return &Request{
		Method:  method,
		Target:  target,
		Version: version,
		Header:  hdr,
		Body:    b,
	}, nil
}

// DecodeResponse reads one HTTP response head off r and attaches a body
// handle over r itself. noBody tells the decoder the request that
// produced this response used HEAD, or that the request line started a
// CONNECT tunnel: status-class-based no-body detection alone can't see
// that from the response bytes. reg selects which Content-Encoding
// values are decoded rather than passed through; a nil reg passes every
// coding through unchanged.
func DecodeResponse(r *bufio.Reader, noBody bool, reg *compressor.Registry) (*Response, error) {
	block, err := readHeadBlock(r, MaxHeaderBlock)
	if err != nil {
		return nil, err
	}
	startLine, headerLines := splitHeadLines(block)

	version, code, err := parseStatusLine(startLine)
	if err != nil {
		return nil, err
	}

	hdr, err := parseHeaderLines(headerLines)
	if err != nil {
		return nil, err
	}

	resp := &Response{Version: version, StatusCode: code, Header: hdr}
	b, err := decodeBody(r, hdr, noBody || !resp.HasBody(), reg)
	if err != nil {
		return nil, err
	}
	resp.Body = b
	return resp, nil
}

func parseRequestLine(line string) (Method, string, Version, error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return "", "", Version{}, errInvalidData("wire.decode", "malformed request line")
	}
	if !validToken(parts[0]) {
		return "", "", Version{}, errInvalidData("wire.decode", "invalid method token")
	}
	version, err := parseVersion(parts[2])
	if err != nil {
		return "", "", Version{}, err
	}
	return Method(parts[0]), parts[1], version, nil
}

// parseStatusLine validates the status line and returns its code. A third
// word, the reason phrase, is permitted by the grammar but discarded: it
// carries no information a caller can rely on, and keeping it would make
// Response.Reason mean two different things depending on whether the
// Response was built locally or decoded off the wire.
func parseStatusLine(line string) (Version, StatusCode, error) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return Version{}, 0, errInvalidData("wire.decode", "malformed status line")
	}
	version, err := parseVersion(parts[0])
	if err != nil {
		return Version{}, 0, err
	}
	code, err := strconv.Atoi(parts[1])
	if err != nil || code < 100 || code > 999 {
		return Version{}, 0, errInvalidData("wire.decode", "invalid status code")
	}
	return version, StatusCode(code), nil
}

func validToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if c := s[i]; c <= 0x20 || c == 0x7f {
			return false
		}
	}
	return true
}

func parseVersion(s string) (Version, error) {
	switch s {
	case "HTTP/1.1":
		return HTTP11, nil
	case "HTTP/1.0":
		return HTTP10, nil
	default:
		return Version{}, errInvalidData("wire.decode", "unsupported protocol version")
	}
}

// resolveTarget turns the raw request-target text into a Target. For the
// origin-form and asterisk-form cases the scheme comes from secure and
// the authority from the Host header.
func resolveTarget(raw string, method Method, hdr *header.Map, secure bool) (Target, error) {
	scheme := "http"
	if secure {
		scheme = "https"
	}

	switch {
	case raw == "*":
		host, ok := hdr.Get(header.Host)
		if !ok {
			return Target{}, errInvalidData("wire.decode", "missing Host header")
		}
		return Target{Scheme: scheme, Authority: host.String()}, nil

	case strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://"):
		u, err := url.Parse(raw)
		if err != nil {
			return Target{}, errInvalidData("wire.decode", "invalid absolute-form target")
		}
		if (u.Scheme == "https") != secure {
			return Target{}, errInvalidData("wire.decode", "target scheme does not match connection security")
		}
		return Target{Scheme: u.Scheme, Authority: u.Host, Path: u.Path, Query: u.RawQuery}, nil

	case method == CONNECT:
		return Target{Scheme: scheme, Authority: raw}, nil

	default:
		if !strings.HasPrefix(raw, "/") {
			return Target{}, errInvalidData("wire.decode", "invalid origin-form target")
		}
		host, ok := hdr.Get(header.Host)
		if !ok {
			return Target{}, errInvalidData("wire.decode", "missing Host header")
		}
		path, query := raw, ""
		if idx := strings.IndexByte(raw, '?'); idx >= 0 {
			path, query = raw[:idx], raw[idx+1:]
		}
		return Target{Scheme: scheme, Authority: host.String(), Path: path, Query: query}, nil
	}
}

// decodeBody selects body framing per the decoded headers and attaches
// a Content-Encoding decoder from reg, if any coding the peer declared
// is registered. noBody forces an empty body regardless of framing
// headers, for HEAD responses and the like.
func decodeBody(r *bufio.Reader, hdr *header.Map, noBody bool, reg *compressor.Registry) (body.Body, error) {
	_, hasCL := hdr.Get(header.ContentLength)
	_, hasTE := hdr.Get(header.TransferEncoding)
	if hasCL && hasTE {
		return nil, errInvalidData("wire.decode", "conflicting Content-Length and Transfer-Encoding")
	}

	var b body.Body
	switch {
	case noBody:
		b = body.Empty()
	case hasCL:
		clVal, _ := hdr.Get(header.ContentLength)
		n, err := strconv.ParseInt(clVal.String(), 10, 64)
		if err != nil || n < 0 {
			return nil, errInvalidData("wire.decode", "invalid Content-Length")
		}
		b = body.FromReader(r, n)
	case hasTE:
		teVal, _ := hdr.Get(header.TransferEncoding)
		if !strings.EqualFold(teVal.String(), "chunked") {
			return nil, errInvalidDataf("wire.decode", "transfer-encoding %q not supported", teVal.String())
		}
		b = body.FromChunkedSource(newChunkedReader(r))
	default:
		b = body.Empty()
	}

	if ceVal, ok := hdr.Get(header.ContentEncoding); ok {
		decoded, wrapped, err := reg.Wrap(ceVal.String(), b)
		if err != nil {
			return nil, errInvalidDataf("wire.decode", "content-encoding %q: %v", ceVal.String(), err)
		}
		if wrapped {
			b = &recodedBody{Body: b, r: decoded}
		}
	}

	return b, nil
}

// recodedBody overlays a Content-Encoding decoder's reader on top of a
// Body, keeping the inner Body's Trailers behavior (relevant when the
// framing underneath is chunked) but reporting an unknown length, since
// the decompressed size is not the wire size.
type recodedBody struct {
	body.Body
	r io.Reader
}

func (b *recodedBody) Read(p []byte) (int, error) { return b.r.Read(p) }
func (b *recodedBody) Len() (int64, bool)         { return 0, false }
