package expr

import "github.com/pkg/errors"

// Failure kinds. Errors returned by this module wrap exactly one of these,
// so callers can tell them apart with errors.Is.
var (
	// ErrSyntax marks text that does not parse.
	ErrSyntax = errors.New("syntax error")
	// ErrArithmetic marks an evaluation with no defined value, such as a
	// division by zero.
	ErrArithmetic = errors.New("arithmetic error")
	// ErrUnsupported marks a request outside the supported feature set.
	ErrUnsupported = errors.New("unsupported operation")
)

func arithmetic(format string, args ...interface{}) error {
	return errors.Wrapf(ErrArithmetic, format, args...)
}

func unsupported(format string, args ...interface{}) error {
	return errors.Wrapf(ErrUnsupported, format, args...)
}
