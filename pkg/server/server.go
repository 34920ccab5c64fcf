// Package server implements the HTTP/1.1 connection engine: one
// goroutine per bound listener, one worker goroutine per accepted
// connection, a keep-alive/close state machine per connection, and an
// optional semaphore bounding how many workers run at once.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/yourusername/httpcore/pkg/body"
	"github.com/yourusername/httpcore/pkg/compressor"
	"github.com/yourusername/httpcore/pkg/errs"
	"github.com/yourusername/httpcore/pkg/header"
	"github.com/yourusername/httpcore/pkg/metrics"
	"github.com/yourusername/httpcore/pkg/wire"
)

// Handler answers a decoded request with a response. Handlers are
// called from worker goroutines and must be safe to call concurrently.
type Handler func(*wire.Request) *wire.Response

// Config configures a Server.
type Config struct {
	// Addrs is the set of "host:port" strings to listen on. Spawning
	// fails as a whole if any one of them fails to bind.
	Addrs []string

	// Handler answers every decoded request. Required.
	Handler Handler

	// Timeout bounds each request/response exchange on a connection:
	// the connection's deadline is set to now+Timeout before each
	// request is read, and individual reads and writes do not extend
	// it. Zero means no deadline.
	Timeout time.Duration

	// ServerName, if set, is injected as the Server header on any
	// response returned by Handler that doesn't already carry one. The
	// server's own error responses (decode failure, unsupported Expect,
	// body drain failure) are written without it.
	ServerName string

	// MaxConcurrentConnections bounds how many connections are served
	// at once. Zero means unbounded.
	MaxConcurrentConnections int

	// Compression names which Content-Encoding values on an incoming
	// request body this server decodes before handing it to Handler.
	// Defaults to compressor.Default() (gzip, deflate, br). Pass
	// compressor.NewRegistry() with no codecs to leave every
	// Content-Encoding request body untouched.
	Compression *compressor.Registry

	// Logger receives one line per connection lifecycle event (accept
	// failure, decode error, handler panic). Defaults to slog.Default().
	Logger *slog.Logger
}

// Server binds a Config's addresses and serves HTTP/1.1 over each.
type Server struct {
	cfg       Config
	log       *slog.Logger
	sem       *semaphore.Weighted
	listeners []net.Listener
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New builds a Server from cfg. It does not bind anything yet.
func New(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if cfg.Compression == nil {
		cfg.Compression = compressor.Default()
	}
	s := &Server{cfg: cfg, log: log}
	if cfg.MaxConcurrentConnections > 0 {
		s.sem = semaphore.NewWeighted(int64(cfg.MaxConcurrentConnections))
	}
	return s
}

// ListenAndServe binds every configured address and starts a listener
// goroutine for each. It returns once every address is bound; if any
// bind fails, everything already bound is closed and the error is
// returned. Serving continues in the background after a successful
// return — use Wait to block until every listener goroutine exits.
func (s *Server) ListenAndServe() error {
	for _, addr := range s.cfg.Addrs {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			s.closeListeners()
			return fmt.Errorf("server: bind %s: %w", addr, err)
		}
		s.listeners = append(s.listeners, ln)
	}
	for _, ln := range s.listeners {
		s.wg.Add(1)
		go s.acceptLoop(ln)
	}
	return nil
}

// Wait blocks until every listener goroutine has returned, which only
// happens once its listener has been closed.
func (s *Server) Wait() {
	s.wg.Wait()
}

// Close closes every bound listener, which unblocks each listener
// goroutine's Accept call and lets it return. It does not wait for
// in-flight connections to finish serving their current request.
func (s *Server) Close() error {
	s.closeListeners()
	return nil
}

func (s *Server) closeListeners() {
	s.closeOnce.Do(func() {
		for _, ln := range s.listeners {
			ln.Close()
		}
	})
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warn("accept failed", "addr", ln.Addr(), "err", err)
			continue
		}

		setNoDelay(conn, s.log)
		metrics.ConnectionAccepted()

		if s.sem != nil {
			if err := s.sem.Acquire(context.Background(), 1); err != nil {
				conn.Close()
				continue
			}
		}

		s.wg.Add(1)
		go s.serveConn(conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()
	if s.sem != nil {
		defer s.sem.Release(1)
	}

	peer := conn.RemoteAddr()
	state := keepAlive
	for state == keepAlive {
		if s.cfg.Timeout > 0 {
			conn.SetDeadline(time.Now().Add(s.cfg.Timeout))
		}
		state = s.serveOne(conn)
	}
	metrics.ConnectionClosed()
	s.log.Debug("connection closed", "peer", peer)
}

type connState int

const (
	keepAlive connState = iota
	closeConn
)

func (s *Server) serveOne(conn net.Conn) connState {
	start := time.Now()
	r := bufio.NewReaderSize(conn, wire.BufferSize)
	req, err := wire.DecodeRequest(r, false, s.cfg.Compression)
	if err != nil {
		if errs.KindOf(err) == errs.ConnectionAborted {
			return closeConn
		}
		s.log.Debug("request decode failed", "peer", conn.RemoteAddr(), "err", err)
		s.writeResponse(conn, s.buildErrorResponse(err))
		return closeConn
	}

	if expect, ok := req.Header.Get(header.Expect); ok {
		if !strings.EqualFold(strings.TrimSpace(expect.String()), "100-continue") || !req.Version.AtLeast(wire.HTTP11) {
			resp := buildTextResponse(417, fmt.Sprintf("Expect header value '%s' is not supported.", expect.String()))
			s.writeResponse(conn, resp)
			return closeConn
		}
		if _, err := io.WriteString(conn, "HTTP/1.1 100 Continue\r\n\r\n"); err != nil {
			return closeConn
		}
	}

	resp, panicked := s.invokeHandler(req)

	if _, err := io.Copy(io.Discard, req.Body); err != nil {
		s.log.Debug("draining request body failed", "peer", conn.RemoteAddr(), "err", err)
		s.writeResponse(conn, s.buildErrorResponse(err))
		return closeConn
	}

	next := nextState(req)
	if panicked {
		next = closeConn
	}

	if s.cfg.ServerName != "" {
		if resp.Header == nil {
			resp.Header = header.NewMap()
		}
		if !resp.Header.Has(header.Server) {
			resp.Header.Set(header.Server, header.Value(s.cfg.ServerName))
		}
	}

	if err := s.writeResponse(conn, resp); err != nil {
		return closeConn
	}
	metrics.RequestServed(int(resp.StatusCode), time.Since(start))
	return next
}

// invokeHandler calls the configured Handler, recovering a panic into a
// 500 response instead of letting it kill the worker goroutine, and
// reports whether a panic was recovered so the caller closes the
// connection. This is enforced here rather than merely documented as
// the handler's responsibility.
func (s *Server) invokeHandler(req *wire.Request) (resp *wire.Response, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			metrics.HandlerPanicked()
			s.log.Error("handler panic", "method", req.Method, "path", req.Target.Path, "panic", r)
			resp = buildTextResponse(500, fmt.Sprintf("panic: %v", r))
			panicked = true
		}
	}()
	resp = s.cfg.Handler(req)
	if resp == nil {
		resp = buildTextResponse(500, "handler returned a nil response")
	}
	return resp, false
}

func (s *Server) writeResponse(conn net.Conn, resp *wire.Response) error {
	w := bufio.NewWriterSize(conn, wire.BufferSize)
	if err := wire.EncodeResponse(w, resp); err != nil {
		return err
	}
	return w.Flush()
}

func nextState(req *wire.Request) connState {
	if v, ok := req.Header.Get(header.Connection); ok && strings.EqualFold(strings.TrimSpace(v.String()), "close") {
		return closeConn
	}
	if !req.Version.AtLeast(wire.HTTP11) {
		return closeConn
	}
	return keepAlive
}

func (s *Server) buildErrorResponse(err error) *wire.Response {
	status := wire.StatusCode(500)
	switch errs.KindOf(err) {
	case errs.TimedOut:
		status = 408
	case errs.InvalidData:
		status = 400
	}
	return buildTextResponse(status, err.Error())
}

func buildTextResponse(status wire.StatusCode, text string) *wire.Response {
	h := header.NewMap()
	h.Set(header.ContentType, header.Value("text/plain; charset=utf-8"))
	return &wire.Response{StatusCode: status, Header: h, Body: body.FromString(text)}
}
