package expr

import "math"

// Float64 lookup table, fixed-size, computed at init, read-only.
var factorialF64 [171]float64 // 170! is the last finite float64 factorial

func init() {
	factorialF64[0] = 1
	for i := 1; i < len(factorialF64); i++ {
		factorialF64[i] = factorialF64[i-1] * float64(i)
	}
}

// EvalF64 evaluates c in float64 with the given bindings. It is a fast,
// inexact companion to Eval used to sample expressions at many points;
// ok is false wherever Eval would fail or the result is not finite.
func EvalF64(c Component, vars map[string]float64) (float64, bool) {
	switch n := c.(type) {
	case *Expression:
		sum := 0.0
		for _, t := range n.terms {
			v, ok := EvalF64(t, vars)
			if !ok {
				return 0, false
			}
			sum += v
		}
		return finite(sum)
	case *Term:
		acc, ok := EvalF64(n.factors[0], vars)
		if !ok {
			return 0, false
		}
		for i := 1; i < len(n.factors); i++ {
			v, ok := EvalF64(n.factors[i], vars)
			if !ok {
				return 0, false
			}
			if n.ops[i] == Divide {
				if v == 0 {
					return 0, false
				}
				acc /= v
			} else {
				acc *= v
			}
		}
		return finite(acc)
	}

	f := c.(Factor)
	v, ok := evalFactorF64(f, vars)
	if !ok {
		return 0, false
	}
	if f.Sign() == Minus {
		v = -v
	}
	return finite(v)
}

func evalFactorF64(c Factor, vars map[string]float64) (float64, bool) {
	switch n := c.(type) {
	case *Constant:
		v, err := n.magnitude.Float64()
		return v, err == nil
	case *Fraction:
		v, _ := n.Rat().Abs(n.Rat()).Float64()
		return v, true
	case *Named:
		if n.kind == Pi {
			return math.Pi, true
		}
		return math.E, true
	case *ConstantFunction:
		return EvalF64(n.inner, vars)
	case *Variable:
		v, ok := vars[n.name]
		return v, ok
	case *Exponential:
		b, ok := EvalF64(n.base, vars)
		if !ok {
			return 0, false
		}
		e, ok := EvalF64(n.exponent, vars)
		if !ok {
			return 0, false
		}
		return powF64(b, e)
	case *Logarithm:
		a, ok := EvalF64(n.arg, vars)
		if !ok || a <= 0 {
			return 0, false
		}
		if n.base == nil {
			return math.Log(a), true
		}
		b, err := n.base.Float64()
		if err != nil || b <= 0 || b == 1 {
			return 0, false
		}
		return math.Log(a) / math.Log(b), true
	case *Factorial:
		a, ok := EvalF64(n.arg, vars)
		if !ok {
			return 0, false
		}
		iv := int64(a)
		if a != float64(iv) || iv < 0 || iv >= int64(len(factorialF64)) {
			return 0, false
		}
		return factorialF64[iv], true
	case *Root:
		a, ok := EvalF64(n.arg, vars)
		if !ok || math.IsNaN(a) {
			return 0, false
		}
		if a < 0 {
			if n.index%2 == 0 {
				return 0, false
			}
			return -math.Pow(-a, 1/float64(n.index)), true
		}
		return math.Pow(a, 1/float64(n.index)), true
	case *Function:
		fn, ok := Functions[n.name]
		if !ok {
			return 0, false
		}
		a, ok := EvalF64(n.arg, vars)
		if !ok {
			return 0, false
		}
		return fn(a), true
	case *Parenthesized:
		return EvalF64(n.inner, vars)
	case *Abs:
		a, ok := EvalF64(n.inner, vars)
		return math.Abs(a), ok
	}
	return 0, false
}

func finite(v float64) (float64, bool) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// powF64 computes base^exp in float64.
func powF64(base, exp float64) (float64, bool) {
	// For integer exponents, use intPowF64 for precision
	ei := int64(exp)
	if exp == float64(ei) {
		if ei < 0 {
			if base == 0 {
				return 0, false
			}
			pos, ok := intPowF64(base, -ei)
			if !ok {
				return 0, false
			}
			return finite(1.0 / pos)
		}
		return intPowF64(base, ei)
	}
	// Non-integer exponent
	if base < 0 {
		return 0, false
	}
	return finite(math.Pow(base, exp))
}

// intPowF64 computes base^exp using binary exponentiation, exp >= 0, capped at 64.
func intPowF64(base float64, exp int64) (float64, bool) {
	if exp > 64 {
		return 0, false
	}
	result := 1.0
	b := base
	e := exp
	for e > 0 {
		if e%2 == 1 {
			result *= b
		}
		b *= b
		e /= 2
	}
	return finite(result)
}
