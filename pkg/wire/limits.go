package wire

// MaxHeaderBlock is the hard cap on a request or response header block,
// request line included.
const MaxHeaderBlock = 8 * 1024

// MaxTrailerBlock is the hard cap on a chunked body's trailer block.
const MaxTrailerBlock = 8 * 1024

// BufferSize is the buffered reader/writer capacity installed on every
// connection: large enough to hold a header block comfortably and to let
// most short bodies go out in a single syscall.
const BufferSize = 16 * 1024

// minChunkSize is the minimum number of bytes the encoder accumulates
// before emitting a chunk, to avoid pathologically small chunks when the
// body source yields a few bytes at a time. The final chunk before EOF is
// exempt.
const minChunkSize = 1024

// chunkEncodeBufferSize is the scratch buffer size used while
// accumulating bytes toward minChunkSize.
const chunkEncodeBufferSize = 4 * 1024

// maxChunkSize bounds an individual decoded chunk's declared size,
// independent of MaxHeaderBlock/MaxTrailerBlock, as a defense against a
// peer declaring an absurd chunk length.
const maxChunkSize = 16 * 1024 * 1024

// forbiddenHeaders is the message-layer forbidden set: names the encoder
// never lets a caller-supplied header override, because either the
// encoder owns them itself or they belong to a higher layer this library
// does not implement.
var forbiddenHeaders = map[string]struct{}{
	"accept-charset":                  {},
	"accept-encoding":                 {},
	"access-control-request-headers":  {},
	"access-control-allow-methods":    {},
	"connection":                      {},
	"content-length":                  {},
	"date":                            {},
	"expect":                          {},
	"host":                            {},
	"keep-alive":                      {},
	"origin":                          {},
	"te":                              {},
	"trailer":                         {},
	"transfer-encoding":               {},
	"upgrade":                         {},
	"via":                             {},
}

func isForbidden(name string) bool {
	_, ok := forbiddenHeaders[name]
	return ok
}
