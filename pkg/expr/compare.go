package expr

import (
	"math/big"
	"strings"

	"github.com/cockroachdb/apd"
)

// weight orders node kinds; heavier kinds sort first.
func weight(c Component) int {
	switch c.(type) {
	case *Expression:
		return 130
	case *Term:
		return 120
	case *Abs:
		return 110
	case *Exponential:
		return 70
	case *Parenthesized:
		return 100
	case *Root:
		return 60
	case *Factorial:
		return 55
	case *Variable:
		return 50
	case *Logarithm:
		return 45
	case *Function:
		return 43
	case *ConstantFunction:
		return 35
	case *Named:
		return 32
	}
	return 30 // Constant, Fraction
}

// Compare is the total order on components used for canonical sibling
// order and for monomial keys. It returns a negative number when a sorts
// before b, zero when they are equal, and a positive number
// otherwise.
//
// An exponential is ordered by its base and then by its exponent, larger
// exponents first; any other factor compares against an exponential as
// factor^1.
func Compare(a, b Component) int {
	_, aExp := a.(*Exponential)
	_, bExp := b.(*Exponential)
	if aExp || bExp {
		if fa, ok := a.(Factor); ok {
			if fb, ok := b.(Factor); ok {
				ba, xa := powerOf(fa)
				bb, xb := powerOf(fb)
				if c := Compare(ba, bb); c != 0 {
					return c
				}
				if c := Compare(xb, xa); c != 0 {
					return c
				}
				return compareSign(fa.Sign(), fb.Sign())
			}
		}
	}
	if wa, wb := weight(a), weight(b); wa != wb {
		if wa > wb {
			return -1
		}
		return 1
	}
	switch a := a.(type) {
	case *Expression:
		b := b.(*Expression)
		for i := 0; i < len(a.terms) && i < len(b.terms); i++ {
			if c := Compare(a.terms[i], b.terms[i]); c != 0 {
				return c
			}
		}
		return compareInt(len(b.terms), len(a.terms))
	case *Term:
		b := b.(*Term)
		for i := 0; i < len(a.factors) && i < len(b.factors); i++ {
			if c := compareInt(int(a.ops[i]), int(b.ops[i])); c != 0 {
				return c
			}
			if c := Compare(a.factors[i], b.factors[i]); c != 0 {
				return c
			}
		}
		return compareInt(len(b.factors), len(a.factors))
	case *Abs:
		b := b.(*Abs)
		return chain(Compare(a.inner, b.inner), compareSign(a.sign, b.sign))
	case *Parenthesized:
		b := b.(*Parenthesized)
		return chain(Compare(a.inner, b.inner), compareSign(a.sign, b.sign))
	case *Root:
		b := b.(*Root)
		return chain(compareInt(a.index, b.index), Compare(a.arg, b.arg), compareSign(a.sign, b.sign))
	case *Factorial:
		b := b.(*Factorial)
		return chain(Compare(a.arg, b.arg), compareSign(a.sign, b.sign))
	case *Variable:
		b := b.(*Variable)
		return chain(strings.Compare(a.name, b.name), compareSign(a.sign, b.sign))
	case *Logarithm:
		b := b.(*Logarithm)
		return chain(compareLogBase(a.base, b.base), Compare(a.arg, b.arg), compareSign(a.sign, b.sign))
	case *Function:
		b := b.(*Function)
		return chain(strings.Compare(a.name, b.name), Compare(a.arg, b.arg), compareSign(a.sign, b.sign))
	case *ConstantFunction:
		b := b.(*ConstantFunction)
		return chain(Compare(a.inner, b.inner), compareSign(a.sign, b.sign))
	case *Named:
		b := b.(*Named)
		return chain(compareInt(int(a.kind), int(b.kind)), compareSign(a.sign, b.sign))
	}
	// Literals order by value; a constant sorts before an equal fraction.
	ra, rb := literalRat(a), literalRat(b)
	if c := ra.Cmp(rb); c != 0 {
		return c
	}
	_, fa := a.(*Fraction)
	_, fb := b.(*Fraction)
	switch {
	case fa && !fb:
		return 1
	case !fa && fb:
		return -1
	}
	return 0
}

// Equal reports whether a and b compare equal. Note that x and x^1 are
// equal under Compare; use Fingerprint to tell them apart.
func Equal(a, b Component) bool { return Compare(a, b) == 0 }

// powerOf views f as base^exponent.
func powerOf(f Factor) (Base, Factor) {
	if e, ok := f.(*Exponential); ok {
		return e.base, e.exponent
	}
	return f.WithSign(Plus).(Base), Int(1)
}

func chain(cs ...int) int {
	for _, c := range cs {
		if c != 0 {
			return c
		}
	}
	return 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareSign(a, b Sign) int { return compareInt(int(a), int(b)) }

func compareLogBase(a, b *apd.Decimal) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Cmp(b)
}

// literalRat returns the exact value of a Constant or Fraction.
func literalRat(c Component) *big.Rat {
	switch c := c.(type) {
	case *Constant:
		return decimalRat(c.Value())
	case *Fraction:
		return c.Rat()
	}
	return new(big.Rat)
}

// decimalRat converts a finite decimal to an exact rational.
func decimalRat(d *apd.Decimal) *big.Rat {
	num := new(big.Int).Set(&d.Coeff)
	if d.Negative {
		num.Neg(num)
	}
	ten := big.NewInt(10)
	if d.Exponent >= 0 {
		num.Mul(num, new(big.Int).Exp(ten, big.NewInt(int64(d.Exponent)), nil))
		return new(big.Rat).SetInt(num)
	}
	den := new(big.Int).Exp(ten, big.NewInt(int64(-d.Exponent)), nil)
	return new(big.Rat).SetFrac(num, den)
}
