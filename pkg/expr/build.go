package expr

// AsFactor returns c as a single factor, wrapping sums and products in
// parentheses when needed.
func AsFactor(c Component) Factor {
	switch c := c.(type) {
	case Factor:
		return c
	case *Term:
		if len(c.factors) == 1 {
			return c.factors[0]
		}
		return NewParenthesized(Plus, NewExpression(c))
	case *Expression:
		if len(c.terms) == 1 {
			return AsFactor(c.terms[0])
		}
		return NewParenthesized(Plus, c)
	}
	panic("expr: unknown component")
}

// AsBase returns c as something that can be raised to a power.
func AsBase(c Component) Base {
	f := AsFactor(c)
	if b, ok := f.(Base); ok {
		return b
	}
	return NewParenthesized(Plus, NewExpression(Product(f)))
}

// AsTerm returns c as a product chain.
func AsTerm(c Component) *Term {
	switch c := c.(type) {
	case *Term:
		return c
	case Factor:
		return Product(c)
	case *Expression:
		if len(c.terms) == 1 {
			return c.terms[0]
		}
		return Product(NewParenthesized(Plus, c))
	}
	panic("expr: unknown component")
}

// AsExpression returns c as a sum.
func AsExpression(c Component) *Expression {
	switch c := c.(type) {
	case *Expression:
		return c
	case *Term:
		return NewExpression(c)
	case Factor:
		return NewExpression(Product(c))
	}
	panic("expr: unknown component")
}

// Add returns a+b.
func Add(a, b Component) *Expression {
	return NewExpression(append(AsExpression(a).Terms(), AsExpression(b).terms...)...)
}

// Sub returns a-b.
func Sub(a, b Component) *Expression {
	terms := AsExpression(a).Terms()
	for _, t := range AsExpression(b).terms {
		terms = append(terms, t.Negate())
	}
	return NewExpression(terms...)
}

// Mul returns a*b, splicing product chains.
func Mul(a, b Component) *Term {
	ta, tb := AsTerm(a), AsTerm(b)
	fs := append(ta.Factors(), tb.factors...)
	ops := append(ta.Ops(), tb.ops...)
	return NewTerm(fs, ops)
}

// Div returns a/b. A divisor with more than one factor is parenthesized.
func Div(a, b Component) *Term {
	ta := AsTerm(a)
	fs := append(ta.Factors(), AsFactor(b))
	ops := append(ta.Ops(), Divide)
	return NewTerm(fs, ops)
}

// Pow returns b^e.
func Pow(b, e Component) *Exponential {
	return NewExponential(Plus, AsBase(b), AsFactor(e))
}

// Neg returns -c.
func Neg(c Component) Component {
	switch c := c.(type) {
	case Factor:
		return c.WithSign(c.Sign().Invert())
	case *Term:
		return c.Negate()
	case *Expression:
		terms := make([]*Term, len(c.terms))
		for i, t := range c.terms {
			terms[i] = t.Negate()
		}
		return NewExpression(terms...)
	}
	panic("expr: unknown component")
}

// MapChildren rebuilds c with f applied to each direct child. Results are
// coerced back to the shape the parent needs: a sum returned for a term
// is spliced into the parent sum, and a product returned for a multiplied
// factor is spliced into the parent chain.
func MapChildren(c Component, f func(Component) Component) Component {
	switch c := c.(type) {
	case *Expression:
		var terms []*Term
		for _, t := range c.terms {
			switch r := f(t).(type) {
			case *Expression:
				terms = append(terms, r.terms...)
			default:
				terms = append(terms, AsTerm(r))
			}
		}
		return NewExpression(terms...)
	case *Term:
		var fs []Factor
		var ops []TermOp
		for i, x := range c.factors {
			r := f(x)
			op := c.ops[i]
			if op == Multiply {
				if e, ok := r.(*Expression); ok && len(e.terms) == 1 {
					r = e.terms[0]
				}
				if t, ok := r.(*Term); ok {
					fs = append(fs, t.factors...)
					ops = append(ops, t.ops...)
					continue
				}
			}
			fs = append(fs, AsFactor(r))
			ops = append(ops, op)
		}
		return NewTerm(fs, ops)
	case *ConstantFunction:
		return NewConstantFunction(c.sign, f(c.inner))
	case *Exponential:
		return NewExponential(c.sign, AsBase(f(c.base)), AsFactor(f(c.exponent)))
	case *Logarithm:
		return NewLogarithm(c.sign, c.base, AsExpression(f(c.arg)))
	case *Factorial:
		return NewFactorial(c.sign, AsBase(f(c.arg)))
	case *Root:
		return NewRoot(c.sign, c.index, AsFactor(f(c.arg)))
	case *Function:
		return NewFunction(c.sign, c.name, AsExpression(f(c.arg)))
	case *Parenthesized:
		return NewParenthesized(c.sign, AsExpression(f(c.inner)))
	case *Abs:
		return NewAbs(c.sign, AsExpression(f(c.inner)))
	}
	return c
}
