package poly

import (
	"github.com/wildfunctions/algebra/pkg/expr"
)

// Cancel removes the bases that num and den share with literal
// exponents, keeping the difference of the exponents on the side where
// it is positive. It reports whether anything was cancelled.
func Cancel(env *expr.Env, num, den *Monomial) (*Monomial, *Monomial, bool) {
	n, d := NewMonomial(env, num.coef), NewMonomial(env, den.coef)
	changed := false
	for _, p := range num.literal.Powers() {
		q, ok := den.literal.Lookup(p.Base)
		if !ok || !expr.IsLiteral(p.Exponent) || !expr.IsLiteral(q) {
			n.literal = n.literal.with(env, p)
			continue
		}
		changed = true
		diff := fold(env, expr.Sub(p.Exponent, q))
		r, _ := expr.ExactRat(diff)
		switch {
		case r == nil || r.Sign() > 0:
			n.literal = n.literal.with(env, Power{Base: p.Base, Exponent: diff})
		case r.Sign() < 0:
			d.literal = d.literal.with(env, Power{Base: p.Base, Exponent: diff.WithSign(expr.Plus)})
		}
	}
	for _, q := range den.literal.Powers() {
		p, ok := num.literal.Lookup(q.Base)
		if ok && expr.IsLiteral(p) && expr.IsLiteral(q.Exponent) {
			continue
		}
		d.literal = d.literal.with(env, q)
	}
	return n, d, changed
}
