// Package client implements the HTTP/1.1 request engine: scheme
// dispatch, bad-port rejection, connection setup with per-socket
// timeouts, header augmentation, and redirect following with method
// rewriting. Every call opens a fresh connection and closes it once the
// response body has been drained — there is no pooling or reuse.
package client

import (
	"bufio"
	"errors"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/httpcore/pkg/body"
	"github.com/yourusername/httpcore/pkg/compressor"
	"github.com/yourusername/httpcore/pkg/errs"
	"github.com/yourusername/httpcore/pkg/header"
	"github.com/yourusername/httpcore/pkg/tlsdial"
	"github.com/yourusername/httpcore/pkg/wire"
)

// Config configures a Client.
type Config struct {
	// Timeout applies to connect, read and write. Zero means no
	// timeout, waiting indefinitely.
	Timeout time.Duration

	// UserAgent is inserted when the caller's request doesn't set one.
	UserAgent string

	// MaxRedirects bounds how many redirects Do follows before giving
	// up. Zero, the default, means redirects are not followed at all.
	MaxRedirects int

	// Dial upgrades an already-connected stream to TLS for an https
	// request. Defaults to tlsdial.Dial.
	Dial tlsdial.Dialer

	// Compression names which Content-Encoding values this client can
	// decode, and therefore which ones augmentHeaders lists in the
	// request's Accept-Encoding header. Defaults to compressor.Default()
	// (gzip, deflate, br). Pass compressor.NewRegistry() with no codecs
	// to turn decoding off entirely.
	Compression *compressor.Registry

	// DisableCompression stops Do from adding Accept-Encoding to
	// outgoing requests.
	DisableCompression bool
}

// Client sends requests over freshly dialed, single-use connections.
type Client struct {
	cfg Config
}

// New returns a Client configured by cfg.
func New(cfg Config) *Client {
	if cfg.Dial == nil {
		cfg.Dial = tlsdial.Dial
	}
	if cfg.Compression == nil {
		cfg.Compression = compressor.Default()
	}
	return &Client{cfg: cfg}
}

// Do sends req, following redirects up to cfg.MaxRedirects, and returns
// the final decoded response.
func (c *Client) Do(req *wire.Request) (*wire.Response, error) {
	current := req
	for redirects := 0; ; redirects++ {
		resp, sentReq, err := c.doOnce(current)
		if err != nil {
			return nil, err
		}
		next, redirecting := c.redirectTarget(sentReq, resp)
		if !redirecting {
			return resp, nil
		}
		if redirects >= c.cfg.MaxRedirects {
			return nil, errs.Newf(errs.Other, "client.Do",
				"redirect limit exceeded, last target %s://%s%s", next.Target.Scheme, next.Target.Authority, next.Target.Path)
		}
		current = next
	}
}

func (c *Client) doOnce(req *wire.Request) (*wire.Response, *wire.Request, error) {
	c.augmentHeaders(req)

	host, port, err := splitAuthority(req.Target.Authority, req.Target.Scheme)
	if err != nil {
		return nil, nil, err
	}
	if isBadPort(port) {
		return nil, nil, errs.Newf(errs.InvalidInput, "client.Do", "port %d is not allowed for HTTP(S)", port)
	}

	conn, err := c.dial(req.Target.Scheme, host, port)
	if err != nil {
		return nil, nil, err
	}

	resp, err := c.roundTrip(conn, req)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return resp, req, nil
}

// augmentHeaders applies the per-request header policy: single-shot
// Connection: close (overwriting any caller value), a default
// User-Agent when unset, and Accept-Encoding for automatic
// decompression when it won't conflict with a Range request.
// Connection and Accept-Encoding are in the encoder's forbidden set, so
// they are set on req.Header but wire.EncodeRequest does not write them.
func (c *Client) augmentHeaders(req *wire.Request) {
	if req.Header == nil {
		req.Header = header.NewMap()
	}
	req.Header.Set(header.Connection, header.Value("close"))
	if !req.Header.Has(header.UserAgent) && c.cfg.UserAgent != "" {
		req.Header.Set(header.UserAgent, header.Value(c.cfg.UserAgent))
	}
	if !c.cfg.DisableCompression && !req.Header.Has(header.Range) {
		if codings := acceptEncodings(c.cfg.Compression); codings != "" {
			req.Header.Set(header.AcceptEncoding, header.Value(codings))
		}
	}
}

// acceptEncodings builds the Accept-Encoding value advertising exactly
// the codings reg can decode, so the client never asks for a coding its
// own decoder couldn't unwrap.
func acceptEncodings(reg *compressor.Registry) string {
	var codings []string
	for _, coding := range []string{"gzip", "deflate", "br"} {
		if reg.Supports(coding) {
			codings = append(codings, coding)
		}
	}
	return strings.Join(codings, ",")
}

func (c *Client) dial(scheme, host string, port int) (net.Conn, error) {
	switch scheme {
	case "http":
		return c.dialTCP(host, port)
	case "https":
		raw, err := c.dialTCP(host, port)
		if err != nil {
			return nil, err
		}
		conn, err := c.cfg.Dial(host, raw)
		if err != nil {
			raw.Close()
			return nil, err
		}
		return conn, nil
	default:
		return nil, errs.Newf(errs.InvalidInput, "client.Do", "unsupported URL scheme %q", scheme)
	}
}

func (c *Client) dialTCP(host string, port int) (net.Conn, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	dialer := net.Dialer{Timeout: c.cfg.Timeout}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return nil, translateNetError(err)
	}
	if c.cfg.Timeout > 0 {
		conn.SetDeadline(time.Now().Add(c.cfg.Timeout))
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		tcp.SetNoDelay(true)
	}
	return conn, nil
}

func (c *Client) roundTrip(conn net.Conn, req *wire.Request) (*wire.Response, error) {
	w := bufio.NewWriterSize(conn, wire.BufferSize)
	if err := wire.EncodeRequest(w, req); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, translateNetError(err)
	}

	r := bufio.NewReaderSize(conn, wire.BufferSize)
	resp, err := wire.DecodeResponse(r, req.Method == wire.HEAD, c.cfg.Compression)
	if err != nil {
		return nil, translateNetError(err)
	}
	resp.Body = &connClosingBody{Body: resp.Body, conn: conn}
	return resp, nil
}

// connClosingBody closes the underlying connection the first time a
// Read on the response body returns any error, EOF included. Since this
// client never reuses a connection, there is nothing to preserve by
// keeping it open past that point, and a caller that never drains the
// body simply leaks the socket until it times out or the process exits.
type connClosingBody struct {
	body.Body
	conn   net.Conn
	closed bool
}

func (b *connClosingBody) Read(p []byte) (int, error) {
	n, err := b.Body.Read(p)
	if err != nil && !b.closed {
		b.closed = true
		b.conn.Close()
	}
	return n, err
}

func splitAuthority(authority, scheme string) (string, int, error) {
	if authority == "" {
		return "", 0, errs.New(errs.InvalidInput, "client.Do", "no host provided")
	}
	host, portStr, err := net.SplitHostPort(authority)
	if err != nil {
		host, portStr = authority, ""
	}
	if portStr == "" {
		switch scheme {
		case "http":
			return host, 80, nil
		case "https":
			return host, 443, nil
		default:
			return "", 0, errs.Newf(errs.InvalidInput, "client.Do", "no port provided for scheme %q", scheme)
		}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return "", 0, errs.New(errs.InvalidInput, "client.Do", "invalid port")
	}
	return host, port, nil
}

func translateNetError(err error) error {
	if err == nil {
		return nil
	}
	var classified *errs.Error
	if errors.As(err, &classified) {
		return err
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return errs.Wrap(errs.TimedOut, "client", "timed out", err)
	}
	if errors.Is(err, io.EOF) {
		return errs.Wrap(errs.ConnectionAborted, "client", "connection closed", err)
	}
	return errs.Wrap(errs.Other, "client", "I/O error", err)
}

// redirectTarget decides whether resp should trigger a redirect from
// sentReq and, if so, builds the next request per the method-rewriting
// rules for 301/302/303 vs 307/308. The new URI is resolved against the
// prior one the way a browser resolves a relative Location header.
func (c *Client) redirectTarget(sentReq *wire.Request, resp *wire.Response) (*wire.Request, bool) {
	switch resp.StatusCode {
	case 301, 302, 303, 307, 308:
	default:
		return nil, false
	}
	loc, ok := resp.Header.Get(header.Location)
	if !ok {
		return nil, false
	}

	method := sentReq.Method
	switch resp.StatusCode {
	case 301, 302, 303:
		if method != wire.HEAD {
			method = wire.GET
		}
	case 307, 308:
		if !method.IsSafe() {
			return nil, false
		}
	}

	target, err := resolveRedirectTarget(sentReq.Target, loc.String())
	if err != nil {
		return nil, false
	}

	hdr := header.NewMap()
	if sentReq.Header != nil {
		hdr = sentReq.Header.Clone()
	}

	return &wire.Request{
		Method:  method,
		Target:  target,
		Version: sentReq.Version,
		Header:  hdr,
		Body:    body.Empty(),
	}, true
}

func resolveRedirectTarget(prior wire.Target, location string) (wire.Target, error) {
	base := &url.URL{Scheme: prior.Scheme, Host: prior.Authority, Path: prior.Path, RawQuery: prior.Query}
	ref, err := url.Parse(location)
	if err != nil {
		return wire.Target{}, err
	}
	resolved := base.ResolveReference(ref)
	return wire.Target{
		Scheme:    resolved.Scheme,
		Authority: resolved.Host,
		Path:      resolved.Path,
		Query:     resolved.RawQuery,
	}, nil
}
