//go:build linux

package server

import (
	"log/slog"
	"net"

	"golang.org/x/sys/unix"
)

// setNoDelay disables Nagle's algorithm on conn. On Linux it reaches the
// raw file descriptor through SyscallConn and sets TCP_NODELAY via
// golang.org/x/sys/unix, mirroring the fast path the teacher's socket
// tuning package takes on this platform; net.TCPConn.SetNoDelay is the
// portable fallback used everywhere else.
func setNoDelay(conn net.Conn, log *slog.Logger) {
	tcp, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}

	raw, err := tcp.SyscallConn()
	if err != nil {
		log.Debug("TCP_NODELAY: SyscallConn unavailable, falling back", "peer", conn.RemoteAddr(), "err", err)
		fallbackNoDelay(tcp, log)
		return
	}

	var setErr error
	ctrlErr := raw.Control(func(fd uintptr) {
		setErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	})
	if ctrlErr != nil || setErr != nil {
		log.Debug("TCP_NODELAY via raw fd failed, falling back", "peer", conn.RemoteAddr(), "ctrlErr", ctrlErr, "setErr", setErr)
		fallbackNoDelay(tcp, log)
	}
}

func fallbackNoDelay(tcp *net.TCPConn, log *slog.Logger) {
	if err := tcp.SetNoDelay(true); err != nil {
		log.Debug("TCP_NODELAY fallback failed", "peer", tcp.RemoteAddr(), "err", err)
	}
}
