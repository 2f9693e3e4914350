package poly

import (
	"github.com/pkg/errors"

	"github.com/wildfunctions/algebra/pkg/expr"
)

// Polynomial is an ordered sum of monomials.
type Polynomial struct {
	terms []*Monomial
}

// FromExpression reads every term of e as a monomial. It fails when one
// of them is not a monomial.
func FromExpression(env *expr.Env, e *expr.Expression) (*Polynomial, bool) {
	p := &Polynomial{}
	for _, t := range e.Terms() {
		m, ok := FromTerm(env, t)
		if !ok {
			return nil, false
		}
		if !m.IsZero() {
			p.terms = append(p.terms, m)
		}
	}
	return p, true
}

// Monomials returns the summands in order.
func (p *Polynomial) Monomials() []*Monomial { return append([]*Monomial(nil), p.terms...) }

func (p *Polynomial) Len() int { return len(p.terms) }

// Collect merges monomials with equal literal parts. The merged monomial
// takes the position of the first one; zero sums are dropped.
func (p *Polynomial) Collect(env *expr.Env) *Polynomial {
	var out []*Monomial
	index := map[string]int{}
	for _, m := range p.terms {
		key := m.literal.Key()
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, m)
			continue
		}
		if s, ok := Sum(env, out[i], m); ok {
			out[i] = s
		}
	}
	kept := out[:0]
	for _, m := range out {
		if !m.IsZero() {
			kept = append(kept, m)
		}
	}
	return &Polynomial{terms: kept}
}

// Negate returns -p.
func (p *Polynomial) Negate() *Polynomial {
	out := make([]*Monomial, len(p.terms))
	for i, m := range p.terms {
		out[i] = m.Negate()
	}
	return &Polynomial{terms: out}
}

// ToExpression rebuilds the sum.
func (p *Polynomial) ToExpression() *expr.Expression {
	terms := make([]*expr.Term, len(p.terms))
	for i, m := range p.terms {
		terms[i] = m.ToTerm()
	}
	return expr.NewExpression(terms...)
}

func (p *Polynomial) String() string { return p.ToExpression().String() }

// Degree returns the largest integer exponent of the variable v. Powers
// of v with a non-integer exponent are ignored. It fails when v occurs
// inside another base or inside an exponent, and when no power of v has
// an integer exponent.
func (p *Polynomial) Degree(v string) (int64, error) {
	var deg int64
	found := false
	for _, m := range p.terms {
		for _, pw := range m.literal.Powers() {
			if x, ok := pw.Base.(*expr.Variable); ok && x.Name() == v {
				if expr.Contains(pw.Exponent, v) {
					return 0, errors.Wrapf(expr.ErrUnsupported, "%s occurs in the exponent of %s", v, pw)
				}
				n, ok := integerExponent(pw.Exponent)
				if !ok {
					continue
				}
				if !found || n > deg {
					deg = n
				}
				found = true
				continue
			}
			if expr.Contains(pw.Base, v) || expr.Contains(pw.Exponent, v) {
				return 0, errors.Wrapf(expr.ErrUnsupported, "%s occurs inside %s", v, pw)
			}
		}
	}
	if !found {
		return 0, errors.Wrapf(expr.ErrUnsupported, "no integer power of %s", v)
	}
	return deg, nil
}

// Coefficient returns the sum of the coefficients of v^n. Every other
// power in those monomials must be scalar, and every power of v must have
// an integer exponent.
func (p *Polynomial) Coefficient(env *expr.Env, v string, n int64) (expr.Component, error) {
	var sum []*expr.Term
	for _, m := range p.terms {
		x := m.exponentOf(v)
		k, ok := integerExponent(x)
		if !ok {
			return nil, errors.Wrapf(expr.ErrUnsupported, "non-integer power %s^%s", v, x)
		}
		if k != n {
			continue
		}
		factors := []expr.Factor{m.coef}
		for _, pw := range m.literal.Powers() {
			if b, ok := pw.Base.(*expr.Variable); ok && b.Name() == v {
				continue
			}
			if !pw.Base.IsScalar() || !pw.Exponent.IsScalar() {
				return nil, errors.Wrapf(expr.ErrUnsupported, "coefficient of %s^%d depends on %s", v, n, pw)
			}
			factors = append(factors, pw.Factor())
		}
		sum = append(sum, expr.Product(factors...))
	}
	c := expr.NewExpression(sum...)
	if f, ok := expr.FoldScalar(env, c); ok {
		return f, nil
	}
	return c, nil
}
