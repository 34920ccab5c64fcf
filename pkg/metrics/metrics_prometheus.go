//go:build prometheus

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectionsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "httpcore",
		Subsystem: "server",
		Name:      "connections_accepted_total",
		Help:      "Total number of accepted TCP connections.",
	})

	connectionsClosed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "httpcore",
		Subsystem: "server",
		Name:      "connections_closed_total",
		Help:      "Total number of connections that finished their keep-alive loop.",
	})

	requestsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "httpcore",
		Subsystem: "server",
		Name:      "requests_total",
		Help:      "Total number of requests served, labeled by response status code.",
	}, []string{"status"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "httpcore",
		Subsystem: "server",
		Name:      "request_duration_seconds",
		Help:      "Time from decoded request to written response.",
		Buckets:   prometheus.DefBuckets,
	})

	handlerPanics = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "httpcore",
		Subsystem: "server",
		Name:      "handler_panics_total",
		Help:      "Total number of handler invocations that panicked.",
	})
)

// ConnectionAccepted records one accepted connection.
func ConnectionAccepted() { connectionsAccepted.Inc() }

// ConnectionClosed records one connection whose keep-alive loop ended.
func ConnectionClosed() { connectionsClosed.Inc() }

// RequestServed records one completed request and its response status.
func RequestServed(status int, d time.Duration) {
	requestsServed.WithLabelValues(strconv.Itoa(status)).Inc()
	requestDuration.Observe(d.Seconds())
}

// HandlerPanicked records one recovered handler panic.
func HandlerPanicked() { handlerPanics.Inc() }
