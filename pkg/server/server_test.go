package server

import (
	"bufio"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/yourusername/httpcore/pkg/body"
	"github.com/yourusername/httpcore/pkg/header"
	"github.com/yourusername/httpcore/pkg/wire"
)

func startTestServer(t *testing.T, cfg Config) (addr string, stop func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Addrs = nil
	s := New(cfg)
	s.listeners = []net.Listener{ln}
	s.wg.Add(1)
	go s.acceptLoop(ln)
	return ln.Addr().String(), func() {
		s.Close()
		s.Wait()
	}
}

func dial(t *testing.T, addr string) net.Conn {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	conn.SetDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func TestServer_RegularRequest(t *testing.T) {
	addr, stop := startTestServer(t, Config{
		ServerName: "testserver/1.0",
		Handler: func(req *wire.Request) *wire.Response {
			h := header.NewMap()
			h.Set(header.ContentType, header.Value("text/plain"))
			return &wire.Response{StatusCode: 200, Header: h, Body: body.FromString("ok")}
		},
	})
	defer stop()

	conn := dial(t, addr)
	defer conn.Close()
	io.WriteString(conn, "GET / HTTP/1.1\r\nhost: "+addr+"\r\n\r\n")

	r := bufio.NewReader(conn)
	resp, err := wire.DecodeResponse(r, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if v, ok := resp.Header.Get(header.Server); !ok || v.String() != "testserver/1.0" {
		t.Errorf("Server header = %q, %v, want testserver/1.0, true", v, ok)
	}
	got, err := body.Bytes(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "ok" {
		t.Errorf("body = %q, want ok", got)
	}
}

func TestServer_BadExpectReturns417(t *testing.T) {
	addr, stop := startTestServer(t, Config{
		Handler: func(req *wire.Request) *wire.Response {
			t.Error("handler should not run for an unsupported Expect value")
			return &wire.Response{StatusCode: 200, Body: body.Empty()}
		},
	})
	defer stop()

	conn := dial(t, addr)
	defer conn.Close()
	io.WriteString(conn, "GET / HTTP/1.1\r\nhost: "+addr+"\r\nexpect: bad\r\n\r\n")

	r := bufio.NewReader(conn)
	resp, err := wire.DecodeResponse(r, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 417 {
		t.Errorf("StatusCode = %d, want 417", resp.StatusCode)
	}
	got, err := body.Bytes(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	want := "Expect header value 'bad' is not supported."
	if string(got) != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestServer_KeepAliveServesSecondRequest(t *testing.T) {
	count := 0
	addr, stop := startTestServer(t, Config{
		Handler: func(req *wire.Request) *wire.Response {
			count++
			return &wire.Response{StatusCode: 200, Body: body.Empty()}
		},
	})
	defer stop()

	conn := dial(t, addr)
	defer conn.Close()
	r := bufio.NewReader(conn)

	io.WriteString(conn, "GET / HTTP/1.1\r\nhost: "+addr+"\r\n\r\n")
	if _, err := wire.DecodeResponse(r, false, nil); err != nil {
		t.Fatal(err)
	}

	io.WriteString(conn, "GET / HTTP/1.1\r\nhost: "+addr+"\r\nconnection: close\r\n\r\n")
	resp, err := wire.DecodeResponse(r, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if count != 2 {
		t.Errorf("handler invocations = %d, want 2", count)
	}

	if n, err := conn.Read(make([]byte, 1)); err != io.EOF || n != 0 {
		t.Errorf("expected the server to close after Connection: close, got n=%d err=%v", n, err)
	}
}

func TestServer_MalformedRequestReturns400(t *testing.T) {
	addr, stop := startTestServer(t, Config{
		Handler: func(req *wire.Request) *wire.Response {
			t.Error("handler should not run for a malformed request")
			return &wire.Response{StatusCode: 200, Body: body.Empty()}
		},
	})
	defer stop()

	conn := dial(t, addr)
	defer conn.Close()
	io.WriteString(conn, "GET / HTTP/1.1\r\nhost: "+addr+"\r\ncontent-length: 5\r\ntransfer-encoding: chunked\r\n\r\n")

	r := bufio.NewReader(conn)
	resp, err := wire.DecodeResponse(r, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("StatusCode = %d, want 400", resp.StatusCode)
	}
}

func TestServer_HandlerPanicReturns500(t *testing.T) {
	addr, stop := startTestServer(t, Config{
		Handler: func(req *wire.Request) *wire.Response {
			panic("boom")
		},
	})
	defer stop()

	conn := dial(t, addr)
	defer conn.Close()
	io.WriteString(conn, "GET / HTTP/1.1\r\nhost: "+addr+"\r\n\r\n")

	r := bufio.NewReader(conn)
	resp, err := wire.DecodeResponse(r, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", resp.StatusCode)
	}
	got, err := body.Bytes(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), "boom") {
		t.Errorf("body = %q, want it to mention the panic value", got)
	}
}

func TestServer_ConcurrencyBound(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{}, 3)
	addr, stop := startTestServer(t, Config{
		MaxConcurrentConnections: 1,
		Handler: func(req *wire.Request) *wire.Response {
			entered <- struct{}{}
			<-release
			return &wire.Response{StatusCode: 200, Body: body.Empty()}
		},
	})
	defer stop()

	var conns []net.Conn
	for i := 0; i < 2; i++ {
		c := dial(t, addr)
		conns = append(conns, c)
		defer c.Close()
		io.WriteString(c, "GET / HTTP/1.1\r\nhost: "+addr+"\r\n\r\n")
	}

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("first request never reached the handler")
	}
	select {
	case <-entered:
		t.Fatal("second request entered the handler while capacity was exhausted")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
}
