package expr

import "math"

func (e *Expression) NodeCount() int {
	n := 1
	for _, t := range e.terms {
		n += t.NodeCount()
	}
	return n
}

func (t *Term) NodeCount() int {
	n := 1
	for _, f := range t.factors {
		n += f.NodeCount()
	}
	return n
}

func (c *Constant) NodeCount() int         { return 1 }
func (f *Fraction) NodeCount() int         { return 1 }
func (n *Named) NodeCount() int            { return 1 }
func (v *Variable) NodeCount() int         { return 1 }
func (c *ConstantFunction) NodeCount() int { return 1 + c.inner.NodeCount() }
func (e *Exponential) NodeCount() int {
	return 1 + e.base.NodeCount() + e.exponent.NodeCount()
}
func (l *Logarithm) NodeCount() int     { return 1 + l.arg.NodeCount() }
func (f *Factorial) NodeCount() int     { return 1 + f.arg.NodeCount() }
func (r *Root) NodeCount() int          { return 1 + r.arg.NodeCount() }
func (f *Function) NodeCount() int      { return 1 + f.arg.NodeCount() }
func (p *Parenthesized) NodeCount() int { return 1 + p.inner.NodeCount() }
func (a *Abs) NodeCount() int           { return 1 + a.inner.NodeCount() }

func (e *Expression) Depth() int {
	d := 0
	for _, t := range e.terms {
		if td := t.Depth(); td > d {
			d = td
		}
	}
	return 1 + d
}

func (t *Term) Depth() int {
	d := 0
	for _, f := range t.factors {
		if fd := f.Depth(); fd > d {
			d = fd
		}
	}
	return 1 + d
}

func (c *Constant) Depth() int         { return 1 }
func (f *Fraction) Depth() int         { return 1 }
func (n *Named) Depth() int            { return 1 }
func (v *Variable) Depth() int         { return 1 }
func (c *ConstantFunction) Depth() int { return 1 + c.inner.Depth() }
func (e *Exponential) Depth() int {
	bd := e.base.Depth()
	xd := e.exponent.Depth()
	if bd > xd {
		return 1 + bd
	}
	return 1 + xd
}
func (l *Logarithm) Depth() int     { return 1 + l.arg.Depth() }
func (f *Factorial) Depth() int     { return 1 + f.arg.Depth() }
func (r *Root) Depth() int          { return 1 + r.arg.Depth() }
func (f *Function) Depth() int      { return 1 + f.arg.Depth() }
func (p *Parenthesized) Depth() int { return 1 + p.inner.Depth() }
func (a *Abs) Depth() int           { return 1 + a.inner.Depth() }

// WeightedComplexity returns a complexity score with heavier weight for
// operations that are more "expensive" (factorial, logarithms, etc.).
// Sums and products are cheap, so a fully expanded polynomial scores
// lower than the same value left under nested parentheses.
func WeightedComplexity(node Component) float64 {
	switch n := node.(type) {
	case *Expression:
		w := float64(len(n.terms)-1) * 1.0
		for _, t := range n.terms {
			w += WeightedComplexity(t)
		}
		return w
	case *Term:
		w := 0.0
		for i, f := range n.factors {
			if i > 0 {
				w += termOpWeight(n.ops[i])
			}
			w += WeightedComplexity(f)
		}
		return w
	case *Constant:
		v, err := n.magnitude.Float64()
		if err != nil || v <= 10 {
			return 1.0
		}
		return 1.0 + math.Log10(v)
	case *Fraction:
		return 2.0
	case *Variable, *Named:
		return 1.0
	case *ConstantFunction:
		return WeightedComplexity(n.inner)
	case *Exponential:
		return 2.0 + WeightedComplexity(n.base) + WeightedComplexity(n.exponent)
	case *Logarithm:
		return 3.0 + WeightedComplexity(n.arg)
	case *Factorial:
		return 2.0 + WeightedComplexity(n.arg)
	case *Root:
		return 2.0 + WeightedComplexity(n.arg)
	case *Function:
		return 3.0 + WeightedComplexity(n.arg)
	case *Parenthesized:
		return 0.5 + WeightedComplexity(n.inner)
	case *Abs:
		return 1.0 + WeightedComplexity(n.inner)
	default:
		return 1.0
	}
}

func termOpWeight(op TermOp) float64 {
	switch op {
	case Divide:
		return 1.5
	default:
		return 1.0
	}
}
