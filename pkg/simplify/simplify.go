// Package simplify rewrites expression trees to a canonical form by
// applying an ordered list of rules until a fixed point is reached.
package simplify

import (
	"io"
	"log"

	"github.com/wildfunctions/algebra/pkg/expr"
)

// DefaultMaxPasses bounds the number of full passes of one Simplify call.
const DefaultMaxPasses = 100

// Rule rewrites one kind of node. Apply visits the children first and
// then the node itself, so Transform always sees rewritten children.
type Rule struct {
	Name      string
	Applies   func(c expr.Component) bool
	Transform func(env *expr.Env, c expr.Component) expr.Component
	// Opaque, when set, keeps the rule out of the matching subtrees.
	Opaque func(c expr.Component) bool
}

// Apply rewrites c bottom-up.
func (r Rule) Apply(env *expr.Env, c expr.Component) expr.Component {
	if r.Opaque == nil || !r.Opaque(c) {
		c = expr.MapChildren(c, func(child expr.Component) expr.Component {
			return r.Apply(env, child)
		})
	}
	if r.Applies(c) {
		return r.Transform(env, c)
	}
	return c
}

// Simplifier runs the rule list. A nil Logger disables tracing.
type Simplifier struct {
	Rules     []Rule
	Logger    *log.Logger
	MaxPasses int
}

// New returns a simplifier with the standard rules that traces to l.
func New(l *log.Logger) *Simplifier {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	return &Simplifier{Rules: Rules(), Logger: l, MaxPasses: DefaultMaxPasses}
}

var std = New(nil)

// Simplify simplifies c with the standard rules and no tracing.
func Simplify(env *expr.Env, c expr.Component) *expr.Expression {
	return std.Simplify(env, c)
}

// Simplify applies every rule once per pass, in order, until a pass
// leaves the tree unchanged. Trees are compared by fingerprint. When a
// pass yields a tree already produced during this call the loop stops
// and returns that tree.
func (s *Simplifier) Simplify(env *expr.Env, c expr.Component) *expr.Expression {
	cur := expr.AsExpression(c)
	seen := map[string]bool{expr.Fingerprint(cur): true}
	limit := s.MaxPasses
	if limit <= 0 {
		limit = DefaultMaxPasses
	}
	for i := 0; i < limit; i++ {
		next := s.pass(env, cur)
		fp := expr.Fingerprint(next)
		if fp == expr.Fingerprint(cur) {
			return next
		}
		if seen[fp] {
			s.logf("cycle: %s", next)
			return next
		}
		seen[fp] = true
		cur = next
	}
	s.logf("gave up after %d passes: %s", limit, cur)
	return cur
}

func (s *Simplifier) pass(env *expr.Env, e *expr.Expression) *expr.Expression {
	for _, r := range s.Rules {
		next := expr.AsExpression(r.Apply(env, e))
		if expr.Fingerprint(next) != expr.Fingerprint(e) {
			s.logf("%s: %s -> %s", r.Name, e, next)
		}
		e = next
	}
	return e
}

func (s *Simplifier) logf(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}
