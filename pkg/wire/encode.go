package wire

import (
	"io"
	"strconv"
	"strings"

	"github.com/yourusername/httpcore/pkg/body"
	"github.com/yourusername/httpcore/pkg/header"
)

// EncodeRequest serializes req's request-line, Host header, remaining
// headers (forbidden names filtered) and body onto w.
func EncodeRequest(w io.Writer, req *Request) error {
	if strings.Contains(req.Target.Authority, "@") {
		return errInvalidInput("wire.encode", "credentials disallowed in authority")
	}
	if req.Target.Authority == "" {
		return errInvalidInput("wire.encode", "missing host")
	}

	path := req.Target.Path
	if path == "" {
		path = "/"
	}
	if req.Target.Query != "" {
		path += "?" + req.Target.Query
	}

	version := req.Version
	if version == (Version{}) {
		version = HTTP11
	}

	if _, err := io.WriteString(w, string(req.Method)+" "+path+" "+version.String()+"\r\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "host: "+req.Target.Authority+"\r\n"); err != nil {
		return err
	}

	mandatory := req.Method == POST || req.Method == PUT
	return encodeBodyFraming(w, req.Header, req.Body, mandatory)
}

// EncodeResponse serializes resp's status-line, headers (forbidden names
// filtered) and body onto w.
func EncodeResponse(w io.Writer, resp *Response) error {
	version := resp.Version
	if version == (Version{}) {
		version = HTTP11
	}
	reason := resp.Reason
	if reason == "" {
		reason = resp.StatusCode.ReasonPhrase()
	}

	statusLine := version.String() + " " + strconv.Itoa(int(resp.StatusCode)) + " " + reason
	if _, err := io.WriteString(w, statusLine+"\r\n"); err != nil {
		return err
	}

	return encodeBodyFraming(w, resp.Header, resp.Body, resp.HasBody())
}

// encodeBodyFraming writes the remaining headers and body for either a
// request or a response, choosing sized or chunked framing from
// body.Len.
func encodeBodyFraming(w io.Writer, hdr *header.Map, b body.Body, bodyMandatory bool) error {
	if b == nil {
		b = body.Empty()
	}
	if n, ok := b.Len(); ok {
		if err := writeHeaderLines(w, hdr); err != nil {
			return err
		}
		if n > 0 || bodyMandatory {
			if _, err := io.WriteString(w, "content-length: "+strconv.FormatInt(n, 10)+"\r\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\r\n"); err != nil {
			return err
		}
		if n > 0 {
			if _, err := io.CopyN(w, b, n); err != nil {
				return err
			}
		}
		return nil
	}

	if err := writeHeaderLines(w, hdr); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "transfer-encoding: chunked\r\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\r\n"); err != nil {
		return err
	}
	return newChunkedWriter(w).encode(b)
}
