package expr

import (
	"math/big"

	"github.com/wildfunctions/algebra/pkg/decimal"
)

// FoldScalar reduces a scalar component to a single factor.
//
// In Decimal mode the component is evaluated and replaced by a constant.
// In Fractional mode a rational value becomes a Constant or a Fraction;
// for an irrational product the rational factors are multiplied out and
// the rest is kept symbolic inside a ConstantFunction, so 2*π*3 becomes
// 6π. The second result is false when c is not scalar or cannot be
// folded, in which case c should be kept as is.
func FoldScalar(env *Env, c Component) (Factor, bool) {
	if !c.IsScalar() {
		return nil, false
	}
	if env.cfg.Mode == Decimal {
		v, err := c.Eval(env)
		if err != nil {
			return nil, false
		}
		return NewConstant(Plus, v), true
	}
	if r, ok := exactRat(c); ok {
		return RatFactor(r), true
	}
	switch c := c.(type) {
	case *Term:
		return foldRationalPart(c)
	case *ConstantFunction:
		inner, ok := c.inner.(*Term)
		if !ok {
			return nil, false
		}
		f, ok := foldRationalPart(inner)
		if !ok {
			return nil, false
		}
		return f.WithSign(f.Sign().Mul(c.sign)), true
	}
	return nil, false
}

// RatFactor returns r as a Constant when it is an integer and as a
// Fraction otherwise.
func RatFactor(r *big.Rat) Factor {
	if r.IsInt() {
		return NewConstant(Plus, decimal.FromBigInt(r.Num()))
	}
	return NewFraction(Plus, r.Num(), r.Denom())
}

// ExactRat returns the exact rational value of c, if it has one without
// rounding.
func ExactRat(c Component) (*big.Rat, bool) { return exactRat(c) }

func exactRat(c Component) (*big.Rat, bool) {
	switch c := c.(type) {
	case *Constant:
		return decimalRat(c.Value()), true
	case *Fraction:
		if c.den.Sign() == 0 {
			return nil, false
		}
		return c.Rat(), true
	case *Expression:
		sum := new(big.Rat)
		for _, t := range c.terms {
			r, ok := exactRat(t)
			if !ok {
				return nil, false
			}
			sum.Add(sum, r)
		}
		return sum, true
	case *Term:
		acc := new(big.Rat).SetInt64(1)
		for i, f := range c.factors {
			r, ok := exactRat(f)
			if !ok {
				return nil, false
			}
			if c.ops[i] == Divide {
				if r.Sign() == 0 {
					return nil, false
				}
				acc.Quo(acc, r)
			} else {
				acc.Mul(acc, r)
			}
		}
		return acc, true
	case *Parenthesized:
		return signedRat(c.sign, c.inner)
	case *ConstantFunction:
		return signedRat(c.sign, c.inner)
	case *Abs:
		r, ok := exactRat(c.inner)
		if !ok {
			return nil, false
		}
		r.Abs(r)
		if c.sign == Minus {
			r.Neg(r)
		}
		return r, true
	case *Exponential:
		b, ok := exactRat(c.base)
		if !ok {
			return nil, false
		}
		x, ok := exactRat(c.exponent)
		if !ok || !x.IsInt() || !x.Num().IsInt64() {
			return nil, false
		}
		n := x.Num().Int64()
		if n > 1024 || n < -1024 || (b.Sign() == 0 && n < 0) {
			return nil, false
		}
		r := ratPow(b, n)
		if c.sign == Minus {
			r.Neg(r)
		}
		return r, true
	case *Factorial:
		a, ok := exactRat(c.arg)
		if !ok || !a.IsInt() || !a.Num().IsInt64() {
			return nil, false
		}
		v, ok := factorial(a.Num().Int64())
		if !ok {
			return nil, false
		}
		r := new(big.Rat).SetInt(v)
		if c.sign == Minus {
			r.Neg(r)
		}
		return r, true
	case *Root:
		a, ok := exactRat(c.arg)
		if !ok || (a.Sign() < 0 && c.index%2 == 0) {
			return nil, false
		}
		neg := a.Sign() < 0
		a.Abs(a)
		num, ok := exactRoot(decimal.FromBigInt(a.Num()), c.index)
		if !ok {
			return nil, false
		}
		den, ok := exactRoot(decimal.FromBigInt(a.Denom()), c.index)
		if !ok {
			return nil, false
		}
		r := new(big.Rat).SetFrac(&num.Coeff, &den.Coeff)
		if neg != (c.sign == Minus) {
			r.Neg(r)
		}
		return r, true
	}
	return nil, false
}

func signedRat(s Sign, c Component) (*big.Rat, bool) {
	r, ok := exactRat(c)
	if !ok {
		return nil, false
	}
	if s == Minus {
		r.Neg(r)
	}
	return r, true
}

func ratPow(b *big.Rat, n int64) *big.Rat {
	neg := n < 0
	if neg {
		n = -n
	}
	e := big.NewInt(n)
	num := new(big.Int).Exp(b.Num(), e, nil)
	den := new(big.Int).Exp(b.Denom(), e, nil)
	if neg {
		num, den = den, num
	}
	return new(big.Rat).SetFrac(num, den)
}

// foldRationalPart multiplies out the rational factors of a scalar term
// and keeps the others symbolic.
func foldRationalPart(t *Term) (Factor, bool) {
	coef := new(big.Rat).SetInt64(1)
	var rest []Factor
	var ops []TermOp
	factors, fops := flattenProduct(t)
	for i, f := range factors {
		r, ok := exactRat(f)
		if !ok {
			rest = append(rest, f.WithSign(Plus))
			ops = append(ops, fops[i])
			if f.Sign() == Minus {
				coef.Neg(coef)
			}
			continue
		}
		if fops[i] == Divide {
			if r.Sign() == 0 {
				return nil, false
			}
			coef.Quo(coef, r)
		} else {
			coef.Mul(coef, r)
		}
	}
	if coef.Sign() == 0 {
		return Int(0), true
	}
	sign := Plus
	if coef.Sign() < 0 {
		sign = Minus
		coef.Neg(coef)
	}
	folded := NewTerm(append([]Factor{RatFactor(coef)}, rest...), append([]TermOp{Multiply}, ops...))
	if len(folded.factors) == 1 {
		f := folded.factors[0]
		return f.WithSign(f.Sign().Mul(sign)), true
	}
	return NewConstantFunction(sign, folded), true
}

// flattenProduct splices multiplied constant functions holding a product
// into the factor list of t, so 3*(2π) folds like 3*2*π.
func flattenProduct(t *Term) ([]Factor, []TermOp) {
	var factors []Factor
	var ops []TermOp
	for i, f := range t.factors {
		cf, ok := f.(*ConstantFunction)
		var inner *Term
		if ok {
			inner, ok = cf.inner.(*Term)
		}
		if !ok || t.ops[i] != Multiply {
			factors = append(factors, f)
			ops = append(ops, t.ops[i])
			continue
		}
		fs, os := flattenProduct(inner)
		if cf.sign == Minus && len(fs) > 0 {
			fs[0] = fs[0].WithSign(fs[0].Sign().Invert())
		}
		factors = append(factors, fs...)
		ops = append(ops, os...)
	}
	return factors, ops
}
