// Package compressor is the pluggable Content-Encoding boundary: a
// Registry names which of gzip, deflate and brotli a caller is willing
// to decode. An unregistered, unknown, or absent coding passes the
// reader through unchanged, leaving decoding to the caller.
package compressor

import (
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
)

// Registry is the set of content-encodings Wrap is allowed to decode.
// A nil Registry, and a Registry built with no codecs, both behave as
// "nothing registered": every coding passes through unchanged. This is
// what makes the boundary genuinely optional rather than an
// always-on codec set.
type Registry struct {
	codecs map[string]struct{}
}

// NewRegistry returns a Registry supporting exactly the named codecs.
// Names are case-insensitive; "x-gzip" is normalized to "gzip".
// Unrecognized names are kept (normalized the same way) but can never match anything
// Wrap knows how to decode, so registering one has no effect.
func NewRegistry(codecs ...string) *Registry {
	r := &Registry{codecs: make(map[string]struct{}, len(codecs))}
	for _, c := range codecs {
		r.codecs[normalize(c)] = struct{}{}
	}
	return r
}

// Default returns a Registry with every codec this package can decode:
// gzip, deflate and brotli. This is the registry a Client uses unless
// the caller supplies its own.
func Default() *Registry {
	return NewRegistry("gzip", "deflate", "br")
}

func normalize(coding string) string {
	c := strings.ToLower(strings.TrimSpace(coding))
	if c == "x-gzip" {
		c = "gzip"
	}
	return c
}

// Supports reports whether coding is registered. A nil Registry
// supports nothing.
func (r *Registry) Supports(coding string) bool {
	if r == nil {
		return false
	}
	_, ok := r.codecs[normalize(coding)]
	return ok
}

// Wrap returns a reader that decodes src according to coding
// (case-insensitive), if and only if r has that coding registered. The
// bool result reports whether src was actually wrapped: false for
// "identity", the empty string, an unregistered coding, or any coding
// this package does not recognize, in which case the returned reader
// is src itself. Calling Wrap on a nil Registry always passes through.
func (r *Registry) Wrap(coding string, src io.Reader) (io.Reader, bool, error) {
	name := normalize(coding)
	if name == "" || name == "identity" {
		return src, false, nil
	}
	if !r.Supports(name) {
		return src, false, nil
	}
	switch name {
	case "gzip":
		zr, err := gzip.NewReader(src)
		if err != nil {
			return nil, false, err
		}
		return zr, true, nil
	case "deflate":
		return flate.NewReader(src), true, nil
	case "br":
		return brotli.NewReader(src), true, nil
	default:
		return src, false, nil
	}
}
