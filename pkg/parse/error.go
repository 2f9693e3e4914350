// Package parse turns expression text into an expression tree.
package parse

import (
	"fmt"

	"github.com/wildfunctions/algebra/pkg/expr"
)

// Error is a parse failure. It wraps expr.ErrSyntax.
type Error struct {
	// Input is the text handed to the parser.
	Input string
	// Rest is the unparsed remainder at the point of failure.
	Rest string
	Msg  string
}

func (e *Error) Error() string {
	if e.Rest == "" {
		return fmt.Sprintf("parse %q: %s", e.Input, e.Msg)
	}
	return fmt.Sprintf("parse %q: %s at %q", e.Input, e.Msg, e.Rest)
}

func (e *Error) Unwrap() error { return expr.ErrSyntax }
