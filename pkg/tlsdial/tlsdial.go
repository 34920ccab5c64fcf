// Package tlsdial is the pluggable TLS boundary the client's https
// branch calls through: given a hostname and a raw connected stream, it
// returns a handshaked read/write stream ready to carry HTTP traffic.
package tlsdial

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"sync"
)

// Dialer upgrades raw, already connected to hostname, to a TLS stream.
// Concrete backends (system root store, a custom verifier, a pinned
// certificate) are wired in by whoever constructs a Client; they are a
// build-time selection, not a per-request one.
type Dialer func(hostname string, raw net.Conn) (net.Conn, error)

// defaultCipherSuites restricts TLS 1.2 negotiation to modern,
// forward-secret suites. TLS 1.3 ignores this list and picks its own.
var defaultCipherSuites = []uint16{
	tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
	tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
}

var (
	once    sync.Once
	cfg     *tls.Config
	initErr error
)

func buildDefaultConfig() (*tls.Config, error) {
	pool, err := x509.SystemCertPool()
	if err != nil {
		return nil, fmt.Errorf("loading system root store: %w", err)
	}
	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		CipherSuites: defaultCipherSuites,
		RootCAs:      pool,
	}, nil
}

// defaultConfig returns the process-wide TLS configuration, building it
// exactly once under sync.Once regardless of how many goroutines race
// to call Dial first. If construction failed, every caller — not just
// the one that triggered it — panics: there is no retry path. This
// mirrors the "first-use is fatal" contract of a process-wide,
// lazily-initialized TLS singleton; changing it to a retryable variant
// is an open question, not a decision made here.
func defaultConfig() *tls.Config {
	once.Do(func() {
		cfg, initErr = buildDefaultConfig()
	})
	if initErr != nil {
		panic(fmt.Errorf("tlsdial: process-wide TLS config failed to initialize: %w", initErr))
	}
	return cfg
}

// Dial is the default Dialer. It clones the process-wide default
// configuration (so per-connection ServerName doesn't mutate shared
// state), performs the handshake, and returns once it completes.
func Dial(hostname string, raw net.Conn) (net.Conn, error) {
	conf := defaultConfig().Clone()
	conf.ServerName = hostname
	conn := tls.Client(raw, conf)
	if err := conn.Handshake(); err != nil {
		return nil, fmt.Errorf("tlsdial: handshake with %s: %w", hostname, err)
	}
	return conn, nil
}
