package wire

import "github.com/yourusername/httpcore/pkg/errs"

func errInvalidData(op, msg string) error {
	return errs.New(errs.InvalidData, op, msg)
}

func errInvalidDataf(op, format string, args ...any) error {
	return errs.Newf(errs.InvalidData, op, format, args...)
}

func errAborted(op, msg string) error {
	return errs.New(errs.ConnectionAborted, op, msg)
}

func errInvalidInput(op, msg string) error {
	return errs.New(errs.InvalidInput, op, msg)
}
