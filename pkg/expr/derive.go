package expr

// Derive returns the raw derivative of each node with respect to v. The
// result is not simplified.

func (e *Expression) Derive(v string) (Component, error) {
	var terms []*Term
	for _, t := range e.terms {
		d, err := t.Derive(v)
		if err != nil {
			return nil, err
		}
		terms = append(terms, AsExpression(d).terms...)
	}
	return NewExpression(terms...), nil
}

func (t *Term) Derive(v string) (Component, error) {
	n := len(t.factors)
	if n == 1 {
		return t.factors[0].Derive(v)
	}
	left := &Term{factors: t.factors[:n-1], ops: t.ops[:n-1]}
	last := t.factors[n-1]
	dl, err := left.Derive(v)
	if err != nil {
		return nil, err
	}
	dr, err := last.Derive(v)
	if err != nil {
		return nil, err
	}
	if t.ops[n-1] == Multiply {
		// (fg)' = f'g + fg'
		return Add(Mul(dl, last), Mul(left, dr)), nil
	}
	// (f/g)' = (f'g - fg')/g^2
	return Div(Sub(Mul(dl, last), Mul(left, dr)), Pow(last, Int(2))), nil
}

// withSign negates d when s is Minus.
func withSign(s Sign, d Component) Component {
	if s == Minus {
		return Neg(d)
	}
	return d
}

func (*Constant) Derive(string) (Component, error)         { return Int(0), nil }
func (*Fraction) Derive(string) (Component, error)         { return Int(0), nil }
func (*Named) Derive(string) (Component, error)            { return Int(0), nil }
func (*ConstantFunction) Derive(string) (Component, error) { return Int(0), nil }

func (x *Variable) Derive(v string) (Component, error) {
	if x.name != v {
		return Int(0), nil
	}
	return Int(1).WithSign(x.sign), nil
}

// b^e' = b^e·(e'·ln(b) + e·b'/b)
func (e *Exponential) Derive(v string) (Component, error) {
	if !Contains(e, v) {
		return Int(0), nil
	}
	db, err := e.base.Derive(v)
	if err != nil {
		return nil, err
	}
	de, err := e.exponent.Derive(v)
	if err != nil {
		return nil, err
	}
	this := e.WithSign(Plus)
	inner := Add(
		Mul(de, Ln(e.base)),
		Div(Mul(e.exponent, db), e.base),
	)
	return withSign(e.sign, Mul(this, inner)), nil
}

// log_b(u)' = u'/(u·ln(b))
func (l *Logarithm) Derive(v string) (Component, error) {
	du, err := l.arg.Derive(v)
	if err != nil {
		return nil, err
	}
	u := AsFactor(l.arg)
	var den Component = u
	if l.base != nil {
		den = Mul(u, Ln(NewConstant(Plus, l.base)))
	}
	return withSign(l.sign, Div(du, den)), nil
}

// (u^(1/n))' = u'/(n·root^(n-1))
func (r *Root) Derive(v string) (Component, error) {
	du, err := r.arg.Derive(v)
	if err != nil {
		return nil, err
	}
	root := r.WithSign(Plus)
	den := Mul(Int(int64(r.index)), Pow(root, Int(int64(r.index-1))))
	return withSign(r.sign, Div(du, den)), nil
}

func (p *Parenthesized) Derive(v string) (Component, error) {
	d, err := p.inner.Derive(v)
	if err != nil {
		return nil, err
	}
	return withSign(p.sign, d), nil
}

// Factorials, functions and absolute values of a constant derive to 0.

func (f *Factorial) Derive(v string) (Component, error) {
	if !Contains(f, v) {
		return Int(0), nil
	}
	return nil, unsupported("cannot differentiate factorial %s", f)
}

func (f *Function) Derive(v string) (Component, error) {
	if !Contains(f, v) {
		return Int(0), nil
	}
	return nil, unsupported("cannot differentiate function %s", f)
}

func (a *Abs) Derive(v string) (Component, error) {
	if !Contains(a, v) {
		return Int(0), nil
	}
	return nil, unsupported("cannot differentiate absolute value %s", a)
}
