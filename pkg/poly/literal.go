// Package poly views product chains as monomials (a scalar coefficient
// times a set of powers) and sums of them as polynomials.
package poly

import (
	"strings"

	"github.com/google/btree"

	"github.com/wildfunctions/algebra/pkg/expr"
)

// Power is one base^exponent entry of a literal part. The base is never
// signed.
type Power struct {
	Base     expr.Base
	Exponent expr.Factor
}

// Factor returns the power as a tree factor; an exponent of one is
// dropped.
func (p Power) Factor() expr.Factor {
	if expr.IsOne(p.Exponent) {
		return p.Base
	}
	return expr.NewExponential(expr.Plus, p.Base, p.Exponent)
}

func (p Power) String() string { return p.Factor().String() }

func lessBase(a, b Power) bool { return expr.Compare(a.Base, b.Base) < 0 }

// LiteralPart is the non-scalar part of a monomial: a set of powers with
// pairwise distinct bases, ordered by expr.Compare on the base. The zero
// value is the empty product.
type LiteralPart struct {
	tree *btree.BTreeG[Power]
}

func newLiteral() LiteralPart {
	return LiteralPart{tree: btree.NewG[Power](4, lessBase)}
}

// Len returns the number of distinct bases.
func (l LiteralPart) Len() int {
	if l.tree == nil {
		return 0
	}
	return l.tree.Len()
}

// Powers returns the entries in base order.
func (l LiteralPart) Powers() []Power {
	if l.tree == nil {
		return nil
	}
	out := make([]Power, 0, l.tree.Len())
	l.tree.Ascend(func(p Power) bool {
		out = append(out, p)
		return true
	})
	return out
}

// Lookup returns the exponent stored for base.
func (l LiteralPart) Lookup(base expr.Base) (expr.Factor, bool) {
	if l.tree == nil {
		return nil, false
	}
	p, ok := l.tree.Get(Power{Base: base})
	return p.Exponent, ok
}

// Equal reports whether l and o hold the same bases with the same
// exponents.
func (l LiteralPart) Equal(o LiteralPart) bool {
	a, b := l.Powers(), o.Powers()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if expr.Compare(a[i].Base, b[i].Base) != 0 || expr.Compare(a[i].Exponent, b[i].Exponent) != 0 {
			return false
		}
	}
	return true
}

// Key identifies l structurally.
func (l LiteralPart) Key() string {
	var b strings.Builder
	for _, p := range l.Powers() {
		b.WriteString(expr.Fingerprint(p.Base))
		b.WriteByte('^')
		b.WriteString(expr.Fingerprint(p.Exponent))
		b.WriteByte(';')
	}
	return b.String()
}

// IsScalar reports whether every base and exponent is scalar.
func (l LiteralPart) IsScalar() bool {
	for _, p := range l.Powers() {
		if !p.Base.IsScalar() || !p.Exponent.IsScalar() {
			return false
		}
	}
	return true
}

// with returns a copy of l multiplied by p. Exponents of an equal base
// add up; a zero exponent removes the base.
func (l LiteralPart) with(env *expr.Env, p Power) LiteralPart {
	var out LiteralPart
	if l.tree == nil {
		out = newLiteral()
	} else {
		out = LiteralPart{tree: l.tree.Clone()}
	}
	if old, ok := out.tree.Get(p); ok {
		p.Exponent = addExponents(env, old.Exponent, p.Exponent)
	}
	if expr.IsZero(p.Exponent) {
		out.tree.Delete(p)
		return out
	}
	out.tree.ReplaceOrInsert(p)
	return out
}

func addExponents(env *expr.Env, a, b expr.Factor) expr.Factor {
	return fold(env, expr.Add(a, b))
}

// fold reduces a scalar to one factor and otherwise wraps c as a factor.
func fold(env *expr.Env, c expr.Component) expr.Factor {
	if f, ok := expr.FoldScalar(env, c); ok {
		return f
	}
	return expr.AsFactor(c)
}
