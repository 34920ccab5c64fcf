// Package metrics is the server's instrumentation boundary. The
// exported functions are called unconditionally from pkg/server; which
// file actually backs them is picked by the prometheus build tag, the
// same gating idiom the teacher uses for its buffer-pool metrics. With
// the tag unset, metrics_noop.go backs every call with a no-op.
package metrics
