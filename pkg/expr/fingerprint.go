package expr

import (
	"strconv"
	"strings"
)

// Fingerprint returns a key that identifies c up to structure: two trees
// have the same fingerprint exactly when they are built from the same
// node kinds, signs, operators and values. Unlike the rendered form it
// does not depend on the formatting rules.
func Fingerprint(c Component) string {
	var b strings.Builder
	fingerprint(&b, c)
	return b.String()
}

func fingerprint(b *strings.Builder, c Component) {
	if f, ok := c.(Factor); ok {
		b.WriteString(f.Sign().String())
	}
	switch c := c.(type) {
	case *Expression:
		b.WriteString("E[")
		for i, t := range c.terms {
			if i > 0 {
				b.WriteByte(',')
			}
			fingerprint(b, t)
		}
	case *Term:
		b.WriteString("T[")
		for i, f := range c.factors {
			if c.ops[i] == Divide {
				b.WriteByte('/')
			} else if i > 0 {
				b.WriteByte('*')
			}
			fingerprint(b, f)
		}
	case *Constant:
		b.WriteString("C[")
		b.WriteString(c.magnitude.String())
	case *Fraction:
		b.WriteString("Q[")
		b.WriteString(c.num.String())
		b.WriteByte(':')
		b.WriteString(c.den.String())
	case *Named:
		b.WriteString("N[")
		b.WriteString(strconv.Itoa(int(c.kind)))
	case *ConstantFunction:
		b.WriteString("K[")
		fingerprint(b, c.inner)
	case *Variable:
		b.WriteString("V[")
		b.WriteString(c.name)
	case *Exponential:
		b.WriteString("P[")
		fingerprint(b, c.base)
		b.WriteByte('^')
		fingerprint(b, c.exponent)
	case *Logarithm:
		b.WriteString("L[")
		if c.base != nil {
			b.WriteString(c.base.String())
		}
		b.WriteByte(';')
		fingerprint(b, c.arg)
	case *Factorial:
		b.WriteString("F[")
		fingerprint(b, c.arg)
	case *Root:
		b.WriteString("R[")
		b.WriteString(strconv.Itoa(c.index))
		b.WriteByte(';')
		fingerprint(b, c.arg)
	case *Function:
		b.WriteString("U[")
		b.WriteString(c.name)
		b.WriteByte(';')
		fingerprint(b, c.arg)
	case *Parenthesized:
		b.WriteString("G[")
		fingerprint(b, c.inner)
	case *Abs:
		b.WriteString("A[")
		fingerprint(b, c.inner)
	}
	b.WriteByte(']')
}
