// Package errs provides the error taxonomy shared by the wire codec, the
// client engine and the server engine: every failure is classified into
// one of a small set of Kinds so that callers — and the server's
// error-to-response mapping — can act on the category without parsing
// error strings.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation failed.
type Kind int

const (
	// Other is the catch-all kind for I/O failures with no more
	// specific classification.
	Other Kind = iota

	// InvalidInput means the caller supplied a malformed request: no
	// scheme, no host, credentials in a URL, a blocked port, an
	// unknown URI scheme. It never surfaces on the wire.
	InvalidInput

	// InvalidData means the peer sent malformed bytes: a bad header
	// name or value, a headers block over the size cap, broken chunk
	// framing, conflicting framing headers, or a version/scheme
	// mismatch.
	InvalidData

	// ConnectionAborted means the peer closed the connection before a
	// complete message was produced.
	ConnectionAborted

	// TimedOut means a read or write exceeded its configured deadline.
	TimedOut
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case InvalidData:
		return "InvalidData"
	case ConnectionAborted:
		return "ConnectionAborted"
	case TimedOut:
		return "TimedOut"
	default:
		return "Other"
	}
}

// Error is a classified error: Kind drives the server's error-to-response
// mapping (see pkg/server), Op names the failing operation, and Cause
// chains to whatever produced the failure, if anything.
type Error struct {
	Kind  Kind
	Op    string
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	var s string
	if e.Op != "" {
		s = e.Op + ": " + e.Msg
	} else {
		s = e.Msg
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

// Unwrap lets errors.Is/errors.As see through to Cause.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Kind, letting
// callers write errors.Is(err, errs.New(errs.TimedOut, "", "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// New builds an *Error with no wrapped cause.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Newf builds an *Error with a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error that chains to cause.
func Wrap(kind Kind, op, msg string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Cause: cause}
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, and
// Other otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Other
}

// Is is a small helper so call sites can write errs.Is(err,
// errs.TimedOut) instead of constructing a sentinel *Error to compare
// against.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
