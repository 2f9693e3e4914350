package simplify

import (
	"math/big"

	"github.com/wildfunctions/algebra/pkg/expr"
	"github.com/wildfunctions/algebra/pkg/poly"
)

// Rules returns the standard rule list in application order. The order
// decides which fixed point is reached when several rules apply.
func Rules() []Rule {
	return []Rule{
		scalarEvaluator,
		identityElimination,
		fractionReduction,
		nestedParenthesesCompactor,
		exponentialSimplifier,
		constantExponentDistribution,
		logarithmSimplifier,
		signTermSimplifier,
		applyMinusSign,
		leftDistributiveProperty,
		rightDistributiveProperty,
		divideByRationalTerm,
		similarMonomialsReduction,
		monomialTermReduction,
		rationalFunctionReduction,
	}
}

// scalarEvaluator folds scalar sub-trees to a single factor. Constant
// functions are left alone: they hold what Fractional mode keeps
// symbolic.
var scalarEvaluator = Rule{
	Name: "ScalarEvaluator",
	Applies: func(c expr.Component) bool {
		_, cf := c.(*expr.ConstantFunction)
		return !cf && c.IsScalar() && !expr.IsLiteral(c)
	},
	Transform: func(env *expr.Env, c expr.Component) expr.Component {
		if f, ok := expr.FoldScalar(env, c); ok {
			return f
		}
		return c
	},
	Opaque: func(c expr.Component) bool {
		_, ok := c.(*expr.ConstantFunction)
		return ok
	},
}

// identityElimination drops -1 factors into the leading sign and folds
// 1^x and 0^n.
var identityElimination = Rule{
	Name: "IdentityElimination",
	Applies: func(c expr.Component) bool {
		switch c := c.(type) {
		case *expr.Term:
			for _, f := range c.Factors()[1:] {
				if isMinusOne(f) {
					return true
				}
			}
		case *expr.Exponential:
			b := c.Base()
			if b.Sign() == expr.Plus && expr.IsOne(b) {
				return true
			}
			return expr.IsZero(b) && isPositiveLiteral(c.Exponent())
		}
		return false
	},
	Transform: func(env *expr.Env, c expr.Component) expr.Component {
		switch c := c.(type) {
		case *expr.Term:
			fs, ops := c.Factors(), c.Ops()
			sign := expr.Plus
			var keepF []expr.Factor
			var keepOps []expr.TermOp
			for i, f := range fs {
				if i > 0 && isMinusOne(f) {
					sign = sign.Invert()
					continue
				}
				keepF = append(keepF, f)
				keepOps = append(keepOps, ops[i])
			}
			keepF[0] = keepF[0].WithSign(keepF[0].Sign().Mul(sign))
			return expr.NewTerm(keepF, keepOps)
		case *expr.Exponential:
			if expr.IsZero(c.Base()) {
				return expr.Int(0)
			}
			return expr.Int(1).WithSign(c.Sign())
		}
		return c
	},
}

func isMinusOne(f expr.Factor) bool {
	return expr.IsLiteral(f) && f.Sign() == expr.Minus && expr.IsOne(f.WithSign(expr.Plus))
}

func isPositiveLiteral(f expr.Factor) bool {
	r, ok := literalRat(f)
	return ok && r.Sign() > 0
}

func literalRat(f expr.Factor) (*big.Rat, bool) {
	if !expr.IsLiteral(f) {
		return nil, false
	}
	return expr.ExactRat(f)
}

// integerLiteral returns the value of a literal integer.
func integerLiteral(f expr.Factor) (*big.Int, bool) {
	r, ok := literalRat(f)
	if !ok || !r.IsInt() {
		return nil, false
	}
	return r.Num(), true
}

// fractionReduction reduces fractions to lowest terms and turns whole
// ones into constants.
var fractionReduction = Rule{
	Name: "FractionReduction",
	Applies: func(c expr.Component) bool {
		f, ok := c.(*expr.Fraction)
		if !ok || f.Den().Sign() == 0 {
			return false
		}
		g := new(big.Int).GCD(nil, nil, f.Num(), f.Den())
		return f.Den().Cmp(big.NewInt(1)) == 0 || g.Cmp(big.NewInt(1)) != 0
	},
	Transform: func(env *expr.Env, c expr.Component) expr.Component {
		return expr.RatFactor(c.(*expr.Fraction).Rat())
	},
}

// singleFactor returns the only factor of e.
func singleFactor(e *expr.Expression) (expr.Factor, bool) {
	terms := e.Terms()
	if len(terms) != 1 || terms[0].Len() != 1 {
		return nil, false
	}
	return terms[0].Factors()[0], true
}

// nestedParenthesesCompactor removes parentheses around a single term
// and splices parenthesized sums into the enclosing sum.
var nestedParenthesesCompactor = Rule{
	Name: "NestedParenthesesCompactor",
	Applies: func(c expr.Component) bool {
		switch c := c.(type) {
		case *expr.Parenthesized:
			return len(c.Inner().Terms()) == 1
		case *expr.Expression:
			for _, t := range c.Terms() {
				if _, ok := groupedSum(t); ok {
					return true
				}
			}
		}
		return false
	},
	Transform: func(env *expr.Env, c expr.Component) expr.Component {
		switch c := c.(type) {
		case *expr.Parenthesized:
			t := c.Inner().Terms()[0]
			if t.Len() == 1 {
				f := t.Factors()[0]
				return f.WithSign(f.Sign().Mul(c.Sign()))
			}
			if c.Sign() == expr.Minus {
				return t.Negate()
			}
			return t
		case *expr.Expression:
			var terms []*expr.Term
			for _, t := range c.Terms() {
				p, ok := groupedSum(t)
				if !ok {
					terms = append(terms, t)
					continue
				}
				inner := p.Inner()
				if p.Sign() == expr.Minus {
					inner = expr.AsExpression(expr.Neg(inner))
				}
				terms = append(terms, inner.Terms()...)
			}
			return expr.NewExpression(terms...)
		}
		return c
	},
}

// groupedSum reports whether t is a single parenthesized factor.
func groupedSum(t *expr.Term) (*expr.Parenthesized, bool) {
	if t.Len() != 1 {
		return nil, false
	}
	p, ok := t.Factors()[0].(*expr.Parenthesized)
	return p, ok
}

// exponentialSimplifier applies a^1 = a, a^0 = 1 and (a^x)^y = a^(x*y).
var exponentialSimplifier = Rule{
	Name: "ExponentialSimplifier",
	Applies: func(c expr.Component) bool {
		_, ok := c.(*expr.Exponential)
		return ok
	},
	Transform: func(env *expr.Env, c expr.Component) expr.Component {
		e := c.(*expr.Exponential)
		x := e.Exponent()
		if expr.IsLiteral(x) {
			switch {
			case expr.IsOne(x):
				b := e.Base()
				return b.WithSign(b.Sign().Mul(e.Sign()))
			case expr.IsZero(x):
				return expr.Int(1).WithSign(e.Sign())
			}
		}
		p, ok := e.Base().(*expr.Parenthesized)
		if !ok || p.Sign() != expr.Plus {
			return e
		}
		f, ok := singleFactor(p.Inner())
		if !ok {
			return e
		}
		inner, ok := f.(*expr.Exponential)
		if !ok || inner.Sign() != expr.Plus {
			return e
		}
		return expr.NewExponential(e.Sign(), inner.Base(), product(env, inner.Exponent(), x))
	},
}

func product(env *expr.Env, a, b expr.Factor) expr.Factor {
	m := expr.Mul(a, b)
	if f, ok := expr.FoldScalar(env, m); ok {
		return f
	}
	return expr.AsFactor(m)
}

// constantExponentDistribution applies (a*b)^n = a^n*b^n and
// (a/b)^n = a^n/b^n for an integer literal n.
var constantExponentDistribution = Rule{
	Name: "ConstantExponentDistribution",
	Applies: func(c expr.Component) bool {
		e, ok := c.(*expr.Exponential)
		if !ok {
			return false
		}
		if _, ok := integerLiteral(e.Exponent()); !ok {
			return false
		}
		p, ok := e.Base().(*expr.Parenthesized)
		if !ok {
			return false
		}
		terms := p.Inner().Terms()
		return len(terms) == 1 && terms[0].Len() > 1
	},
	Transform: func(env *expr.Env, c expr.Component) expr.Component {
		e := c.(*expr.Exponential)
		n, _ := integerLiteral(e.Exponent())
		odd := n.Bit(0) == 1
		p := e.Base().(*expr.Parenthesized)
		t := p.Inner().Terms()[0]

		sign := e.Sign()
		if odd && p.Sign() == expr.Minus {
			sign = sign.Invert()
		}
		factors := t.Factors()
		for i, f := range factors {
			if odd && f.Sign() == expr.Minus {
				sign = sign.Invert()
			}
			factors[i] = expr.NewExponential(expr.Plus, expr.AsBase(f.WithSign(expr.Plus)), e.Exponent())
		}
		factors[0] = factors[0].WithSign(sign)
		return expr.NewTerm(factors, t.Ops())
	},
}

// logarithmSimplifier applies log_b(1) = 0, log_b(b) = 1,
// log_b(b^x) = x and log_b(a^y) = y*log_b(a).
var logarithmSimplifier = Rule{
	Name: "LogarithmSimplifier",
	Applies: func(c expr.Component) bool {
		_, ok := c.(*expr.Logarithm)
		return ok
	},
	Transform: func(env *expr.Env, c expr.Component) expr.Component {
		l := c.(*expr.Logarithm)
		if expr.IsOne(l.Arg()) {
			return expr.Int(0)
		}
		f, ok := singleFactor(l.Arg())
		if !ok {
			return l
		}
		if isLogBase(l, f) {
			return expr.Int(1).WithSign(l.Sign())
		}
		e, ok := f.(*expr.Exponential)
		if !ok || e.Sign() != expr.Plus {
			return l
		}
		x := e.Exponent()
		if isLogBase(l, e.Base()) {
			return x.WithSign(x.Sign().Mul(l.Sign()))
		}
		t := expr.Mul(x, expr.NewLogarithm(expr.Plus, l.LogBase(), logArgument(e.Base())))
		if l.Sign() == expr.Minus {
			t = t.Negate()
		}
		return t
	},
}

// isLogBase reports whether f is the base of l.
func isLogBase(l *expr.Logarithm, f expr.Factor) bool {
	if f.Sign() != expr.Plus {
		return false
	}
	if l.IsNatural() {
		n, ok := f.(*expr.Named)
		return ok && n.Kind() == expr.E
	}
	k, ok := f.(*expr.Constant)
	return ok && k.Value().Cmp(l.LogBase()) == 0
}

func logArgument(b expr.Base) *expr.Expression {
	if p, ok := b.(*expr.Parenthesized); ok && p.Sign() == expr.Plus {
		return p.Inner()
	}
	return expr.AsExpression(b)
}

// signTermSimplifier moves every factor sign of a product onto its
// first factor, so -x*-y becomes x*y.
var signTermSimplifier = Rule{
	Name: "SignTermSimplifier",
	Applies: func(c expr.Component) bool {
		t, ok := c.(*expr.Term)
		if !ok {
			return false
		}
		for _, f := range t.Factors()[1:] {
			if f.Sign() == expr.Minus {
				return true
			}
		}
		return false
	},
	Transform: func(env *expr.Env, c expr.Component) expr.Component {
		t := c.(*expr.Term)
		fs := t.Factors()
		sign := expr.Plus
		for i := 1; i < len(fs); i++ {
			if fs[i].Sign() == expr.Minus {
				fs[i] = fs[i].WithSign(expr.Plus)
				sign = sign.Invert()
			}
		}
		fs[0] = fs[0].WithSign(fs[0].Sign().Mul(sign))
		return expr.NewTerm(fs, t.Ops())
	},
}

// applyMinusSign pushes the sign of a group into its terms.
var applyMinusSign = Rule{
	Name: "ApplyMinusSign",
	Applies: func(c expr.Component) bool {
		p, ok := c.(*expr.Parenthesized)
		return ok && p.Sign() == expr.Minus
	},
	Transform: func(env *expr.Env, c expr.Component) expr.Component {
		p := c.(*expr.Parenthesized)
		return expr.NewParenthesized(expr.Plus, expr.AsExpression(expr.Neg(p.Inner())))
	},
}

// leftDistributiveProperty applies c*(a+b) = c*a+c*b for a literal c.
var leftDistributiveProperty = Rule{
	Name: "LeftDistributiveProperty",
	Applies: func(c expr.Component) bool {
		fs, ok := pair(c)
		return ok && expr.IsLiteral(fs[0]) && isGroupedSum(fs[1])
	},
	Transform: func(env *expr.Env, c expr.Component) expr.Component {
		fs, _ := pair(c)
		return distribute(fs[0], fs[1].(*expr.Parenthesized), true)
	},
}

// rightDistributiveProperty applies (a+b)*c = a*c+b*c for a literal c.
var rightDistributiveProperty = Rule{
	Name: "RightDistributiveProperty",
	Applies: func(c expr.Component) bool {
		fs, ok := pair(c)
		return ok && isGroupedSum(fs[0]) && expr.IsLiteral(fs[1])
	},
	Transform: func(env *expr.Env, c expr.Component) expr.Component {
		fs, _ := pair(c)
		return distribute(fs[1], fs[0].(*expr.Parenthesized), false)
	},
}

// pair returns the factors of a two-factor product.
func pair(c expr.Component) ([]expr.Factor, bool) {
	t, ok := c.(*expr.Term)
	if !ok || t.Len() != 2 || t.Ops()[1] != expr.Multiply {
		return nil, false
	}
	return t.Factors(), true
}

func isGroupedSum(f expr.Factor) bool {
	p, ok := f.(*expr.Parenthesized)
	return ok && len(p.Inner().Terms()) > 1
}

func distribute(k expr.Factor, p *expr.Parenthesized, left bool) *expr.Expression {
	if p.Sign() == expr.Minus {
		k = k.WithSign(k.Sign().Invert())
	}
	var terms []*expr.Term
	for _, t := range p.Inner().Terms() {
		if left {
			terms = append(terms, expr.Mul(k, t))
		} else {
			terms = append(terms, expr.Mul(t, k))
		}
	}
	return expr.NewExpression(terms...)
}

// divideByRationalTerm splices a parenthesized product divisor into the
// chain with its operators inverted: a/(b/c) = a/b*c.
var divideByRationalTerm = Rule{
	Name: "DivideByRationalTerm",
	Applies: func(c expr.Component) bool {
		t, ok := c.(*expr.Term)
		if !ok {
			return false
		}
		ops := t.Ops()
		for i, f := range t.Factors() {
			if _, ok := productDivisor(f, ops[i]); ok {
				return true
			}
		}
		return false
	},
	Transform: func(env *expr.Env, c expr.Component) expr.Component {
		t := c.(*expr.Term)
		var fs []expr.Factor
		var ops []expr.TermOp
		tops := t.Ops()
		for i, f := range t.Factors() {
			d, ok := productDivisor(f, tops[i])
			if !ok {
				fs = append(fs, f)
				ops = append(ops, tops[i])
				continue
			}
			dfs, dops := d.Factors(), d.Ops()
			if f.Sign() == expr.Minus {
				dfs[0] = dfs[0].WithSign(dfs[0].Sign().Invert())
			}
			for j, g := range dfs {
				fs = append(fs, g)
				ops = append(ops, invert(dops[j]))
			}
		}
		return expr.NewTerm(fs, ops)
	},
}

func productDivisor(f expr.Factor, op expr.TermOp) (*expr.Term, bool) {
	p, ok := f.(*expr.Parenthesized)
	if !ok || op != expr.Divide {
		return nil, false
	}
	terms := p.Inner().Terms()
	if len(terms) != 1 {
		return nil, false
	}
	return terms[0], true
}

func invert(op expr.TermOp) expr.TermOp {
	if op == expr.Multiply {
		return expr.Divide
	}
	return expr.Multiply
}

// similarMonomialsReduction adds up the terms of a sum that share a
// literal part. Each group takes the place of its first member.
var similarMonomialsReduction = Rule{
	Name: "SimilarMonomialsReduction",
	Applies: func(c expr.Component) bool {
		e, ok := c.(*expr.Expression)
		return ok && len(e.Terms()) > 1
	},
	Transform: func(env *expr.Env, c expr.Component) expr.Component {
		type slot struct {
			term   *expr.Term
			mono   *poly.Monomial
			merged bool
		}
		var slots []*slot
		index := map[string]*slot{}
		changed := false
		for _, t := range c.(*expr.Expression).Terms() {
			m, ok := poly.FromTerm(env, t)
			if !ok {
				slots = append(slots, &slot{term: t})
				continue
			}
			key := m.Literal().Key()
			if s, ok := index[key]; ok {
				if sum, ok := poly.Sum(env, s.mono, m); ok {
					s.mono, s.merged, changed = sum, true, true
					continue
				}
			}
			s := &slot{term: t, mono: m}
			index[key] = s
			slots = append(slots, s)
		}
		if !changed {
			return c
		}
		var terms []*expr.Term
		for _, s := range slots {
			switch {
			case !s.merged:
				terms = append(terms, s.term)
			case !s.mono.IsZero():
				terms = append(terms, s.mono.ToTerm())
			}
		}
		return expr.NewExpression(terms...)
	},
}

// monomialTermReduction rewrites a product as coefficient times powers,
// combining equal bases.
var monomialTermReduction = Rule{
	Name: "MonomialTermReduction",
	Applies: func(c expr.Component) bool {
		t, ok := c.(*expr.Term)
		return ok && t.Len() > 1
	},
	Transform: func(env *expr.Env, c expr.Component) expr.Component {
		m, ok := poly.FromTerm(env, c.(*expr.Term))
		if !ok {
			return c
		}
		return m.ToTerm()
	},
}

// rationalFunctionReduction cancels the powers that the numerator and a
// non-scalar denominator of a product share, and folds the scalar factors
// around such a denominator into one coefficient.
var rationalFunctionReduction = Rule{
	Name: "RationalFunctionReduction",
	Applies: func(c expr.Component) bool {
		t, ok := c.(*expr.Term)
		if !ok {
			return false
		}
		ops := t.Ops()
		for i, f := range t.Factors() {
			if ops[i] == expr.Divide && !f.IsScalar() {
				return true
			}
		}
		return false
	},
	Transform: func(env *expr.Env, c expr.Component) expr.Component {
		t := c.(*expr.Term)
		var numF, denF []expr.Factor
		var numOps []expr.TermOp
		scalars := 0
		ops := t.Ops()
		for i, f := range t.Factors() {
			if ops[i] == expr.Divide && !f.IsScalar() {
				denF = append(denF, f)
				continue
			}
			if f.IsScalar() {
				scalars++
			}
			numF = append(numF, f)
			numOps = append(numOps, ops[i])
		}
		num, ok := poly.FromTerm(env, expr.NewTerm(numF, numOps))
		if !ok {
			return t
		}
		den, ok := poly.FromTerm(env, expr.Product(denF...))
		if !ok {
			return t
		}
		n, d, changed := poly.Cancel(env, num, den)
		// several scalar factors fold into one coefficient
		if !changed && scalars < 2 {
			return t
		}
		if !expr.IsOne(d.Coefficient()) {
			var err error
			n, err = poly.Divide(env, n, poly.NewMonomial(env, d.Coefficient()))
			if err != nil {
				return t
			}
		}
		out := n.ToTerm()
		fs, fops := out.Factors(), out.Ops()
		for _, p := range d.Literal().Powers() {
			fs = append(fs, p.Factor())
			fops = append(fops, expr.Divide)
		}
		return expr.NewTerm(fs, fops)
	},
}
