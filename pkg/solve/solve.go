// Package solve resolves equations and inequalities of degree one and two
// in a single variable, and computes where an expression is defined.
package solve

import (
	"github.com/cockroachdb/apd"
	"github.com/pkg/errors"

	"github.com/wildfunctions/algebra/pkg/decimal"
	"github.com/wildfunctions/algebra/pkg/expr"
	"github.com/wildfunctions/algebra/pkg/interval"
	"github.com/wildfunctions/algebra/pkg/poly"
	"github.com/wildfunctions/algebra/pkg/simplify"
)

// Resolve returns the values of v for which eq holds. The equation is
// moved to the form f(v) ⋈ 0 and simplified; f must then be a polynomial
// of degree one or two in v with scalar coefficients.
func Resolve(env *expr.Env, eq expr.Equation, v string) (interval.Interval, error) {
	f := simplify.Simplify(env, expr.Sub(eq.Left, eq.Right))
	if !expr.Contains(f, v) {
		return nil, errors.Wrapf(expr.ErrUnsupported, "%s has degree 0 in %s", f, v)
	}
	p, ok := poly.FromExpression(env, f)
	if !ok {
		return nil, errors.Wrapf(expr.ErrUnsupported, "%s is not a polynomial in %s", f, v)
	}
	p = p.Collect(env)
	if err := checkPowers(p, v); err != nil {
		return nil, err
	}
	deg, err := p.Degree(v)
	if err != nil {
		return nil, err
	}

	var coefs []*coefficient
	for n := deg; n >= 0; n-- {
		c, err := coefficientOf(env, p, v, n)
		if err != nil {
			return nil, err
		}
		coefs = append(coefs, c)
	}
	switch deg {
	case 1:
		return linear(env, v, eq.Rel, coefs[0], coefs[1])
	case 2:
		return quadratic(env, v, eq.Rel, coefs[0], coefs[1], coefs[2])
	}
	return nil, errors.Wrapf(expr.ErrUnsupported, "%s has degree %d in %s", f, deg, v)
}

// checkPowers rejects negative powers of v, which Degree does not see.
func checkPowers(p *poly.Polynomial, v string) error {
	for _, m := range p.Monomials() {
		x, ok := m.Literal().Lookup(expr.Var(v))
		if !ok {
			continue
		}
		if r, ok := expr.ExactRat(x); ok && r.Sign() < 0 {
			return errors.Wrapf(expr.ErrUnsupported, "negative power %s^%s", v, x)
		}
	}
	return nil
}

// coefficient is a symbolic coefficient with its numeric value.
type coefficient struct {
	sym   expr.Component
	value *apd.Decimal
}

func coefficientOf(env *expr.Env, p *poly.Polynomial, v string, n int64) (*coefficient, error) {
	c, err := p.Coefficient(env, v, n)
	if err != nil {
		return nil, err
	}
	val, err := c.Eval(env)
	if err != nil {
		return nil, errors.Wrapf(err, "coefficient of %s^%d", v, n)
	}
	return &coefficient{sym: c, value: val}, nil
}

func (c *coefficient) negate() *coefficient {
	return &coefficient{sym: expr.Neg(c.sym), value: decimal.Neg(c.value)}
}

// linear solves a·v + b ⋈ 0.
func linear(env *expr.Env, v string, rel expr.Relation, a, b *coefficient) (interval.Interval, error) {
	if a.value.IsZero() {
		return nil, errors.Wrapf(expr.ErrUnsupported, "leading coefficient %s is zero", a.sym)
	}
	if a.value.Negative {
		rel = rel.Mirror()
	}
	root, err := point(env, expr.Div(expr.Neg(b.sym), a.sym))
	if err != nil {
		return nil, err
	}
	switch rel {
	case expr.Eq:
		return interval.Equal(v, root), nil
	case expr.Neq:
		return interval.NotEqual(v, root), nil
	case expr.Lt:
		return interval.Below(v, root, false), nil
	case expr.Lte:
		return interval.Below(v, root, true), nil
	case expr.Gt:
		return interval.Above(v, root, false), nil
	}
	return interval.Above(v, root, true), nil
}

// quadratic solves a·v² + b·v + c ⋈ 0 by the sign of the discriminant.
// A negative a is made positive first, mirroring the relation.
func quadratic(env *expr.Env, v string, rel expr.Relation, a, b, c *coefficient) (interval.Interval, error) {
	if a.value.IsZero() {
		return nil, errors.Wrapf(expr.ErrUnsupported, "leading coefficient %s is zero", a.sym)
	}
	if a.value.Negative {
		a, b, c = a.negate(), b.negate(), c.negate()
		rel = rel.Mirror()
	}
	delta := expr.Sub(expr.Pow(b.sym, expr.Int(2)), expr.Mul(expr.Mul(expr.Int(4), a.sym), c.sym))
	d, err := delta.Eval(env)
	if err != nil {
		return nil, errors.Wrap(err, "discriminant")
	}
	twoA := expr.Mul(expr.Int(2), a.sym)

	switch d.Sign() {
	case -1:
		switch rel {
		case expr.Eq, expr.Lt, expr.Lte:
			return interval.Empty(v), nil
		}
		return interval.All(v), nil
	case 0:
		r, err := point(env, expr.Div(expr.Neg(b.sym), twoA))
		if err != nil {
			return nil, err
		}
		switch rel {
		case expr.Eq, expr.Lte:
			return interval.Equal(v, r), nil
		case expr.Neq, expr.Gt:
			return interval.NotEqual(v, r), nil
		case expr.Gte:
			return interval.All(v), nil
		}
		return interval.Empty(v), nil
	}

	sqrt := expr.NewRoot(expr.Plus, 2, expr.AsFactor(delta))
	r1, err := point(env, expr.Div(expr.Sub(expr.Neg(b.sym), sqrt), twoA))
	if err != nil {
		return nil, err
	}
	r2, err := point(env, expr.Div(expr.Add(expr.Neg(b.sym), sqrt), twoA))
	if err != nil {
		return nil, err
	}
	if r1.Cmp(r2) > 0 {
		r1, r2 = r2, r1
	}
	switch rel {
	case expr.Eq:
		return interval.NewUnion(v, interval.Equal(v, r1), interval.Equal(v, r2)), nil
	case expr.Neq:
		return interval.Intersect(interval.NotEqual(v, r1), interval.NotEqual(v, r2))
	case expr.Gt:
		return interval.NewUnion(v, interval.Below(v, r1, false), interval.Above(v, r2, false)), nil
	case expr.Gte:
		return interval.NewUnion(v, interval.Below(v, r1, true), interval.Above(v, r2, true)), nil
	case expr.Lt:
		return interval.Between(v, interval.Open(r1), interval.Open(r2)), nil
	}
	return interval.Between(v, interval.Closed(r1), interval.Closed(r2)), nil
}

// point simplifies a scalar root. In Fractional mode the point keeps the
// simplified form as its label, so 1-√5 is not rounded in the output.
func point(env *expr.Env, root expr.Component) (interval.Point, error) {
	s := simplify.Simplify(env, root)
	val, err := s.Eval(env)
	if err != nil {
		return interval.Point{}, errors.Wrapf(err, "root %s", root)
	}
	val = decimal.Strip(val)
	if env.Config().Mode == expr.Decimal {
		return interval.Finite(val), nil
	}
	return interval.Labeled(val, s.String(), s.LaTeX()), nil
}
