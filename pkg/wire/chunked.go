package wire

import (
	"bufio"
	"bytes"
	"io"

	"github.com/valyala/bytebufferpool"

	"github.com/yourusername/httpcore/pkg/body"
	"github.com/yourusername/httpcore/pkg/header"
)

// chunkedReader decodes RFC 7230 §4.1 chunked transfer encoding off a
// buffered connection reader. It satisfies body.ChunkedSource: Read
// strips the chunk framing and Trailers exposes whatever trailer fields
// followed the final chunk, available only once Read has reached EOF.
type chunkedReader struct {
	r         *bufio.Reader
	remaining int64
	started   bool
	err       error
	done      bool
	trailers  *header.Map
}

// newChunkedReader wraps r for reading a chunked body.
func newChunkedReader(r *bufio.Reader) *chunkedReader {
	return &chunkedReader{r: r}
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	if c.done {
		return 0, io.EOF
	}

	if c.remaining == 0 {
		if c.started {
			if err := c.consumeLineEnd(); err != nil {
				c.err = err
				return 0, err
			}
		}
		c.started = true

		size, err := c.readChunkSizeLine()
		if err != nil {
			c.err = err
			return 0, err
		}
		if size == 0 {
			trailers, err := readHeaderBlock(c.r, MaxTrailerBlock)
			if err != nil {
				c.err = err
				return 0, err
			}
			c.trailers = trailers
			c.done = true
			return 0, io.EOF
		}
		c.remaining = size
	}

	toRead := int64(len(p))
	if toRead > c.remaining {
		toRead = c.remaining
	}
	n, err := c.r.Read(p[:toRead])
	c.remaining -= int64(n)
	if err == io.EOF && c.remaining > 0 {
		err = errInvalidData("chunked.Read", "connection closed mid-chunk")
	}
	if err != nil {
		c.err = err
		return n, err
	}
	return n, nil
}

// Trailers returns the parsed trailer map. It is nil until Read has
// observed EOF, and may remain nil afterward if the peer sent no
// trailers.
func (c *chunkedReader) Trailers() *header.Map {
	return c.trailers
}

// consumeLineEnd reads the CRLF (or bare LF) that terminates the
// previous chunk's data before the next chunk-size line.
func (c *chunkedReader) consumeLineEnd() error {
	b, err := c.r.ReadByte()
	if err != nil {
		return errAborted("chunked.Read", "connection closed between chunks")
	}
	if b == '\r' {
		b, err = c.r.ReadByte()
		if err != nil {
			return errAborted("chunked.Read", "connection closed between chunks")
		}
	}
	if b != '\n' {
		return errInvalidData("chunked.Read", "malformed chunk terminator")
	}
	return nil
}

// readChunkSizeLine reads "hex-size [; ext...] CRLF" and returns the
// parsed size. Chunk extensions are recognized and discarded: accepting
// but ignoring them, rather than rejecting the line outright, matches
// how widely-deployed servers behave, while still refusing to let an
// extension smuggle extra framing bytes past the size line.
func (c *chunkedReader) readChunkSizeLine() (int64, error) {
	line, err := c.r.ReadSlice('\n')
	if err != nil {
		return 0, errAborted("chunked.Read", "connection closed reading chunk size")
	}
	line = bytes.TrimRight(line, "\r\n")
	if idx := bytes.IndexByte(line, ';'); idx >= 0 {
		line = line[:idx]
	}
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return 0, errInvalidData("chunked.Read", "empty chunk size line")
	}

	var size int64
	for _, b := range line {
		var v int64
		switch {
		case b >= '0' && b <= '9':
			v = int64(b - '0')
		case b >= 'a' && b <= 'f':
			v = int64(b-'a') + 10
		case b >= 'A' && b <= 'F':
			v = int64(b-'A') + 10
		default:
			return 0, errInvalidData("chunked.Read", "invalid chunk size digit")
		}
		size = size*16 + v
		if size > maxChunkSize {
			return 0, errInvalidData("chunked.Read", "chunk size exceeds limit")
		}
	}
	return size, nil
}

// chunkedWriter encodes an io.Reader's bytes as chunked transfer
// encoding, coalescing short reads up to minChunkSize before emitting a
// chunk so that a slow source doesn't produce a chunk per syscall.
type chunkedWriter struct {
	w   io.Writer
	buf *bytebufferpool.ByteBuffer
}

var chunkBufferPool bytebufferpool.Pool

func newChunkedWriter(w io.Writer) *chunkedWriter {
	return &chunkedWriter{w: w, buf: chunkBufferPool.Get()}
}

// encode copies src to the chunked writer's destination, accumulating at
// least minChunkSize bytes per emitted chunk (the final chunk may be
// smaller), then writes the closing zero-size chunk followed by
// whatever trailers src exposes once it has reached EOF.
func (cw *chunkedWriter) encode(src body.Body) error {
	defer chunkBufferPool.Put(cw.buf)

	scratch := make([]byte, chunkEncodeBufferSize)
	for {
		cw.buf.Reset()
		eof := false
		for int64(cw.buf.Len()) < minChunkSize {
			n, err := src.Read(scratch)
			if n > 0 {
				cw.buf.Write(scratch[:n])
			}
			if err != nil {
				if err != io.EOF {
					return err
				}
				eof = true
				break
			}
		}
		if cw.buf.Len() > 0 {
			if err := cw.writeChunk(cw.buf.Bytes()); err != nil {
				return err
			}
		}
		if eof {
			break
		}
	}
	if _, err := io.WriteString(cw.w, "0\r\n"); err != nil {
		return err
	}
	if trailers := src.Trailers(); trailers != nil {
		if err := writeHeaderLines(cw.w, trailers); err != nil {
			return err
		}
	}
	_, err := io.WriteString(cw.w, "\r\n")
	return err
}

func (cw *chunkedWriter) writeChunk(data []byte) error {
	if _, err := io.WriteString(cw.w, formatHex(int64(len(data)))+"\r\n"); err != nil {
		return err
	}
	if _, err := cw.w.Write(data); err != nil {
		return err
	}
	_, err := io.WriteString(cw.w, "\r\n")
	return err
}

func formatHex(n int64) string {
	if n == 0 {
		return "0"
	}
	const digits = "0123456789abcdef"
	var buf [16]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = digits[n&0xf]
		n >>= 4
	}
	return string(buf[i:])
}
