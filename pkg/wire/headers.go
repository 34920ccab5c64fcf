package wire

import (
	"bufio"
	"io"
	"strings"

	"github.com/yourusername/httpcore/pkg/header"
)

// readHeadBlock reads a request or response head (start line plus header
// lines) off r, accepting both CRLF and bare LF line endings and
// normalizing them to LF by dropping every CR byte as it is read. It
// stops at the first blank line, which after normalization appears as
// two consecutive LFs, and returns the block with the terminating blank
// line stripped. limit bounds the length of the block after CR bytes
// have been dropped.
//
// A connection closed before any byte arrives yields a distinct message
// from one closed partway through a head, since the former means the
// client never sent anything at all.
func readHeadBlock(r *bufio.Reader, limit int) (string, error) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if len(buf) == 0 {
				return "", errAborted("wire.decode", "Empty HTTP request")
			}
			return "", errAborted("wire.decode", "Interrupted HTTP request")
		}
		if b == '\r' {
			continue
		}
		buf = append(buf, b)
		if len(buf) > limit {
			return "", errInvalidData("wire.decode", "headers too large")
		}
		if len(buf) >= 2 && buf[len(buf)-1] == '\n' && buf[len(buf)-2] == '\n' {
			return string(buf[:len(buf)-2]), nil
		}
	}
}

// splitHeadLines splits a block returned by readHeadBlock into its start
// line and its header lines.
func splitHeadLines(block string) (startLine string, headerLines []string) {
	lines := strings.Split(block, "\n")
	if len(lines) == 0 {
		return "", nil
	}
	return lines[0], lines[1:]
}

// parseHeaderLines parses "name: value" lines into a header.Map. Blank
// lines are skipped rather than treated as an error.
func parseHeaderLines(lines []string) (*header.Map, error) {
	m := header.NewMap()
	for _, line := range lines {
		if line == "" {
			continue
		}
		if err := appendHeaderLine(m, line); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func appendHeaderLine(m *header.Map, line string) error {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return errInvalidData("wire.decode", "malformed header line")
	}
	name, err := header.NewName(line[:idx])
	if err != nil {
		return errInvalidData("wire.decode", "invalid header name")
	}
	value, err := header.NewValue(strings.TrimLeft(line[idx+1:], " \t"))
	if err != nil {
		return errInvalidData("wire.decode", "invalid header value")
	}
	m.Append(name, value)
	return nil
}

// readHeaderBlock reads header-style lines up to limit bytes, terminated
// by a blank line, and parses them into a header.Map. It is used for
// chunked trailers, which have no start line to pair with, so it cannot
// reuse readHeadBlock's two-consecutive-LF trick.
func readHeaderBlock(r *bufio.Reader, limit int) (*header.Map, error) {
	m := header.NewMap()
	var total int
	for {
		line, err := readRawLine(r)
		if err != nil {
			return nil, errAborted("wire.decode", "connection closed reading trailers")
		}
		total += len(line) + 1
		if total > limit {
			return nil, errInvalidData("wire.decode", "trailers too large")
		}
		if line == "" {
			return m, nil
		}
		if err := appendHeaderLine(m, line); err != nil {
			return nil, err
		}
	}
}

// readRawLine reads one LF-terminated line, accepting an optional
// preceding CR, with the terminator stripped.
func readRawLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// writeHeaderLines writes one "name: value\r\n" line per entry in m,
// silently skipping any name in the forbidden set.
func writeHeaderLines(w io.Writer, m *header.Map) error {
	if m == nil {
		return nil
	}
	var werr error
	m.VisitAll(func(name header.Name, value header.Value) bool {
		if isForbidden(name.String()) {
			return true
		}
		if _, err := io.WriteString(w, name.String()+": "+value.String()+"\r\n"); err != nil {
			werr = err
			return false
		}
		return true
	})
	return werr
}
