package poly

import (
	"github.com/pkg/errors"

	"github.com/wildfunctions/algebra/pkg/decimal"
	"github.com/wildfunctions/algebra/pkg/expr"
)

// Monomial is coefficient × literal part. The coefficient is a Constant
// or a Fraction.
type Monomial struct {
	coef    expr.Factor
	literal LiteralPart
}

// NewMonomial returns coef × the given powers.
func NewMonomial(env *expr.Env, coef expr.Factor, powers ...Power) *Monomial {
	m := &Monomial{coef: coef, literal: newLiteral()}
	for _, p := range powers {
		m.literal = m.literal.with(env, p)
	}
	return m
}

func (m *Monomial) Coefficient() expr.Factor { return m.coef }
func (m *Monomial) Literal() LiteralPart     { return m.literal }
func (m *Monomial) IsZero() bool             { return expr.IsZero(m.coef) }
func (m *Monomial) String() string           { return m.ToTerm().String() }

// FromTerm reads t as a monomial. It fails when a divisor is not scalar
// or is a literal zero.
func FromTerm(env *expr.Env, t *expr.Term) (*Monomial, bool) {
	m := NewMonomial(env, expr.Int(1))
	ops := t.Ops()
	for i, f := range t.Factors() {
		if ops[i] == expr.Divide && !f.IsScalar() {
			return nil, false
		}
		s, ok := fromFactor(env, f)
		if !ok {
			return nil, false
		}
		if ops[i] == expr.Divide {
			var err error
			if m, err = Divide(env, m, s); err != nil {
				return nil, false
			}
			continue
		}
		m = Multiply(env, m, s)
	}
	return m, true
}

func fromFactor(env *expr.Env, f expr.Factor) (*Monomial, bool) {
	if f.IsScalar() {
		folded, ok := expr.FoldScalar(env, f)
		if !ok {
			folded = f
		}
		switch g := folded.(type) {
		case *expr.Constant, *expr.Fraction:
			return NewMonomial(env, g), true
		case *expr.ConstantFunction:
			if inner, ok := g.Inner().(*expr.Term); ok {
				m, ok := FromTerm(env, inner)
				if !ok {
					return nil, false
				}
				if g.Sign() == expr.Minus {
					m = m.Negate()
				}
				return m, true
			}
		}
		f = folded
	}
	sign := f.Sign()
	var base expr.Base
	var exponent expr.Factor
	if e, ok := f.(*expr.Exponential); ok {
		base, exponent = e.Base(), e.Exponent()
	} else {
		base, exponent = f.WithSign(expr.Plus).(expr.Base), expr.Int(1)
	}
	if base.Sign() == expr.Minus {
		if n, ok := integerExponent(exponent); ok {
			if n%2 != 0 {
				sign = sign.Invert()
			}
			base = base.WithSign(expr.Plus).(expr.Base)
		} else {
			base = expr.NewParenthesized(expr.Plus, expr.AsExpression(base))
		}
	}
	coef := expr.Factor(expr.Int(1))
	if sign == expr.Minus {
		coef = expr.Int(-1)
	}
	return NewMonomial(env, coef, Power{Base: base, Exponent: exponent}), true
}

// Negate returns -m.
func (m *Monomial) Negate() *Monomial {
	return &Monomial{coef: m.coef.WithSign(m.coef.Sign().Invert()), literal: m.literal}
}

// Sum returns a+b. It fails unless both have the same literal part.
func Sum(env *expr.Env, a, b *Monomial) (*Monomial, bool) {
	if !a.literal.Equal(b.literal) {
		return nil, false
	}
	coef := fold(env, expr.Add(a.coef, b.coef))
	if expr.IsZero(coef) {
		return NewMonomial(env, coef), true
	}
	return &Monomial{coef: coef, literal: a.literal}, true
}

// Multiply returns a*b.
func Multiply(env *expr.Env, a, b *Monomial) *Monomial {
	coef := fold(env, expr.Mul(a.coef, b.coef))
	if expr.IsZero(coef) {
		return NewMonomial(env, coef)
	}
	lit := a.literal
	for _, p := range b.literal.Powers() {
		lit = lit.with(env, p)
	}
	return &Monomial{coef: coef, literal: lit}
}

// Divide returns a/b.
func Divide(env *expr.Env, a, b *Monomial) (*Monomial, error) {
	switch {
	case a.IsZero() && b.IsZero():
		return nil, errors.Wrap(expr.ErrArithmetic, "0/0 is undefined")
	case b.IsZero():
		return nil, errors.Wrap(expr.ErrArithmetic, "division by zero")
	}
	coef := fold(env, expr.Div(a.coef, b.coef))
	if a.IsZero() {
		return NewMonomial(env, coef), nil
	}
	lit := a.literal
	for _, p := range b.literal.Powers() {
		p.Exponent = negateExponent(env, p.Exponent)
		lit = lit.with(env, p)
	}
	return &Monomial{coef: coef, literal: lit}, nil
}

func negateExponent(env *expr.Env, x expr.Factor) expr.Factor {
	if expr.IsLiteral(x) {
		return x.WithSign(x.Sign().Invert())
	}
	return fold(env, expr.Neg(x))
}

// ToTerm rebuilds the product chain. The coefficient comes first unless
// it is ±1, and powers with a negative literal exponent are moved to the
// denominator.
func (m *Monomial) ToTerm() *expr.Term {
	if m.IsZero() {
		return expr.Product(expr.Int(0))
	}
	var num, den []expr.Factor
	for _, p := range m.literal.Powers() {
		if expr.IsLiteral(p.Exponent) && p.Exponent.Sign() == expr.Minus {
			p.Exponent = p.Exponent.WithSign(expr.Plus)
			den = append(den, p.Factor())
			continue
		}
		num = append(num, p.Factor())
	}
	var factors []expr.Factor
	if expr.IsOne(m.coef.WithSign(expr.Plus)) && len(num) > 0 {
		num[0] = num[0].WithSign(num[0].Sign().Mul(m.coef.Sign()))
		factors = num
	} else {
		factors = append([]expr.Factor{m.coef}, num...)
	}
	ops := make([]expr.TermOp, len(factors))
	for _, d := range den {
		factors = append(factors, d)
		ops = append(ops, expr.Divide)
	}
	return expr.NewTerm(factors, ops)
}

// exponentOf returns the exponent of variable v in m, or 0 when v does
// not appear as a base.
func (m *Monomial) exponentOf(v string) expr.Factor {
	if x, ok := m.literal.Lookup(expr.Var(v)); ok {
		return x
	}
	return expr.Int(0)
}

// integerExponent returns the value of a literal integer exponent.
func integerExponent(f expr.Factor) (int64, bool) {
	switch f := f.(type) {
	case *expr.Constant:
		return decimal.Int64(f.Value())
	case *expr.Fraction:
		r := f.Rat()
		if !r.IsInt() || !r.Num().IsInt64() {
			return 0, false
		}
		return r.Num().Int64(), true
	}
	return 0, false
}
