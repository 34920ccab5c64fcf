// Package body implements the unified request/response payload
// abstraction: owned buffers, borrowed slices, length-bounded readers and
// chunked streams all satisfy the same Body interface.
package body

import (
	"bytes"
	"errors"
	"io"
	"unicode/utf8"

	"github.com/yourusername/httpcore/pkg/errs"
	"github.com/yourusername/httpcore/pkg/header"
)

// Body is implemented by every payload shape the wire codec can carry.
// It embeds io.Reader: repeated Read calls return bytes in order until a
// zero-length read signals EOF, exactly like any other io.Reader.
type Body interface {
	io.Reader

	// Len returns the body's length and true if it is known up front
	// (owned buffer, borrowed slice, sized reader). It returns (0,
	// false) for a chunked body, whose length is not known until EOF.
	Len() (int64, bool)

	// Trailers returns the trailer headers observed after a chunked
	// body's final chunk. It is nil until the body has been read to
	// EOF, and may still be nil afterward if the peer sent none. For
	// non-chunked bodies it is always nil.
	Trailers() *header.Map
}

// errShortBody builds the ConnectionAborted error returned by a sized
// body's Read when the underlying reader ends before the declared
// length has been produced.
func errShortBody(total, consumed int64) error {
	return errs.Newf(errs.ConnectionAborted, "body.Read",
		"expected %d bytes but only read %d", total, consumed)
}

// Empty returns a zero-length body.
func Empty() Body {
	return FromBytes(nil)
}

// FromBytes returns an owned body that copies data. The returned Body can
// be read exactly once; a second read returns 0, io.EOF.
func FromBytes(data []byte) Body {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &ownedBody{r: bytes.NewReader(buf), size: int64(len(buf))}
}

// FromString is a convenience wrapper around FromBytes.
func FromString(s string) Body {
	return FromBytes([]byte(s))
}

// FromSlice returns a body that borrows data directly: no copy is made,
// so the caller must keep data alive and unmodified for as long as the
// Body is in use. This is the zero-copy path for static payloads that
// collapsing into the owned variant would lose.
func FromSlice(data []byte) Body {
	return &ownedBody{r: bytes.NewReader(data), size: int64(len(data))}
}

// ownedBody backs both the "owned buffer" and "borrowed slice" arms: the
// distinction between them is only about who allocated the backing array,
// which FromBytes and FromSlice already resolved by the time this struct
// is built.
type ownedBody struct {
	r    *bytes.Reader
	size int64
}

func (b *ownedBody) Read(p []byte) (int, error) { return b.r.Read(p) }
func (b *ownedBody) Len() (int64, bool)         { return b.size, true }
func (b *ownedBody) Trailers() *header.Map      { return nil }

// FromReader returns a sized body: reading it returns at most n bytes
// from r, and it is an error for r to end before producing n bytes. n
// must be the caller's honest declaration of the payload length (usually
// the value that will also be sent as Content-Length).
func FromReader(r io.Reader, n int64) Body {
	return &sizedBody{r: r, total: n}
}

type sizedBody struct {
	r        io.Reader
	total    int64
	consumed int64
	err      error
}

func (b *sizedBody) Read(p []byte) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	remaining := b.total - b.consumed
	if remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := b.r.Read(p)
	b.consumed += int64(n)
	if err == io.EOF && b.consumed < b.total {
		b.err = errShortBody(b.total, b.consumed)
		return n, b.err
	}
	if n == 0 && err == nil && b.consumed < b.total {
		// A reader that legitimately returns (0, nil) is allowed by
		// io.Reader; just ask again on the next call.
		return 0, nil
	}
	if err != nil && err != io.EOF {
		b.err = err
	}
	return n, err
}

func (b *sizedBody) Len() (int64, bool)    { return b.total, true }
func (b *sizedBody) Trailers() *header.Map { return nil }

// ChunkedSource is an opaque byte source that, once fully drained, may
// expose trailer headers. Decoders implement this over the wire's
// chunked framing; callers building an outbound chunked body over a
// plain io.Reader can use FromChunkedReader instead.
type ChunkedSource interface {
	io.Reader
	Trailers() *header.Map
}

// FromChunkedSource wraps a ChunkedSource (typically the chunked decoder,
// see pkg/wire) as a Body whose length is never known up front.
func FromChunkedSource(src ChunkedSource) Body {
	return &chunkedBody{src: src}
}

// FromChunkedReader wraps a plain io.Reader for outbound use as a
// chunked body: it carries no trailers, so the encoder writes none after
// the final chunk.
func FromChunkedReader(r io.Reader) Body {
	return &chunkedBody{src: &noTrailerSource{r}}
}

type noTrailerSource struct{ io.Reader }

func (noTrailerSource) Trailers() *header.Map { return nil }

type chunkedBody struct {
	src ChunkedSource
}

func (b *chunkedBody) Read(p []byte) (int, error) { return b.src.Read(p) }
func (b *chunkedBody) Len() (int64, bool)         { return 0, false }
func (b *chunkedBody) Trailers() *header.Map      { return b.src.Trailers() }

// Bytes drains body into a byte slice.
func Bytes(b Body) ([]byte, error) {
	return io.ReadAll(b)
}

// Text drains body and validates it as UTF-8.
func Text(b Body) (string, error) {
	data, err := Bytes(b)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.New("body: not valid UTF-8")
	}
	return string(data), nil
}
