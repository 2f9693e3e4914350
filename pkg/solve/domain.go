package solve

import (
	"github.com/wildfunctions/algebra/pkg/expr"
	"github.com/wildfunctions/algebra/pkg/interval"
)

// constraint is one definedness condition arg ⋈ 0.
type constraint struct {
	arg expr.Component
	rel expr.Relation
}

// Domain returns the values of v for which c can be evaluated: divisors
// are non-zero, logarithm arguments are positive, even roots and
// factorials take non-negative arguments, and powers with a literal
// exponent restrict their base as powerConstraint describes. A factorial
// of v itself restricts v to ℕ.
func Domain(env *expr.Env, c expr.Component, v string) (interval.Interval, error) {
	var d interval.Interval = interval.All(v)
	for _, k := range constraints(c) {
		r, err := holds(env, k, v)
		if err != nil {
			return nil, err
		}
		if d, err = interval.Intersect(d, r); err != nil {
			return nil, err
		}
	}
	if factorialOf(c, v) {
		return interval.Intersect(d, interval.Naturals(v))
	}
	return d, nil
}

func constraints(c expr.Component) []constraint {
	var out []constraint
	expr.Walk(c, func(n expr.Component) bool {
		switch n := n.(type) {
		case *expr.Term:
			ops := n.Ops()
			for i, f := range n.Factors() {
				if ops[i] == expr.Divide {
					out = append(out, constraint{f, expr.Neq})
				}
			}
		case *expr.Logarithm:
			out = append(out, constraint{n.Arg(), expr.Gt})
		case *expr.Root:
			if n.Index()%2 == 0 {
				out = append(out, constraint{n.Arg(), expr.Gte})
			}
		case *expr.Factorial:
			out = append(out, constraint{n.Arg(), expr.Gte})
		case *expr.Exponential:
			if k, ok := powerConstraint(n); ok {
				out = append(out, k)
			}
		}
		return true
	})
	return out
}

// powerConstraint restricts the base of a power with a literal exponent:
// a negative exponent needs a non-zero base and a fractional one a
// non-negative base. Both together need a positive base.
func powerConstraint(e *expr.Exponential) (constraint, bool) {
	r, ok := expr.ExactRat(e.Exponent())
	if !ok {
		return constraint{}, false
	}
	neg, frac := r.Sign() < 0, !r.IsInt()
	switch {
	case neg && frac:
		return constraint{e.Base(), expr.Gt}, true
	case neg:
		return constraint{e.Base(), expr.Neq}, true
	case frac:
		return constraint{e.Base(), expr.Gte}, true
	}
	return constraint{}, false
}

// factorialOf reports whether c holds the factorial of v itself.
func factorialOf(c expr.Component, v string) bool {
	found := false
	expr.Walk(c, func(n expr.Component) bool {
		if f, ok := n.(*expr.Factorial); ok {
			if a, ok := f.Arg().(*expr.Variable); ok && a.Name() == v && a.Sign() == expr.Plus {
				found = true
			}
		}
		return !found
	})
	return found
}

// holds resolves arg ⋈ 0. A scalar constraint is decided by value; one
// over other variables only does not restrict v.
func holds(env *expr.Env, k constraint, v string) (interval.Interval, error) {
	if !expr.Contains(k.arg, v) {
		if !k.arg.IsScalar() {
			return interval.All(v), nil
		}
		val, err := k.arg.Eval(env)
		if err == nil && k.rel.Holds(val.Sign()) {
			return interval.All(v), nil
		}
		return interval.Empty(v), nil
	}
	return Resolve(env, expr.Equation{Left: k.arg, Right: expr.Int(0), Rel: k.rel}, v)
}
