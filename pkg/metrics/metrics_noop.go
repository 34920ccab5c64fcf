//go:build !prometheus

package metrics

import "time"

// ConnectionAccepted is a no-op without the prometheus build tag.
func ConnectionAccepted() {}

// ConnectionClosed is a no-op without the prometheus build tag.
func ConnectionClosed() {}

// RequestServed is a no-op without the prometheus build tag.
func RequestServed(status int, d time.Duration) {}

// HandlerPanicked is a no-op without the prometheus build tag.
func HandlerPanicked() {}
