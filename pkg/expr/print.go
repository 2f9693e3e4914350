package expr

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wildfunctions/algebra/pkg/decimal"
)

// Renderer is the set of string combinators a rendering back end
// provides. Operands are already rendered.
type Renderer interface {
	Number(s string) string
	Ratio(num, den string) string
	Named(k NamedKind) string
	Sum(a, b string) string
	Difference(a, b string) string
	// Product joins two factors; implicit requests juxtaposition.
	Product(a, b string, implicit bool) string
	Division(num, den string) string
	Power(base, exponent string) string
	Signed(s string) string
	Group(s string) string
	Abs(s string) string
	Root(index int, arg string) string
	// Log renders a logarithm; base is empty for ln and "10" for log.
	Log(base, arg string) string
	Factorial(s string) string
	Call(name, arg string) string
}

// Render renders c with r.
func Render(c Component, r Renderer) string { return c.render(r) }

var (
	// Plain renders the input syntax accepted by the parser.
	Plain Renderer = plainRenderer{}
	// LaTeX renders LaTeX math.
	LaTeX Renderer = latexRenderer{}
)

type plainRenderer struct{}

func (plainRenderer) Number(s string) string        { return s }
func (plainRenderer) Ratio(num, den string) string  { return num + "/" + den }
func (plainRenderer) Sum(a, b string) string        { return a + "+" + b }
func (plainRenderer) Difference(a, b string) string { return a + "-" + b }
func (plainRenderer) Division(n, d string) string   { return n + "/" + d }
func (plainRenderer) Power(b, e string) string      { return b + "^" + e }
func (plainRenderer) Signed(s string) string        { return "-" + s }
func (plainRenderer) Group(s string) string         { return "(" + s + ")" }
func (plainRenderer) Abs(s string) string           { return "|" + s + "|" }
func (plainRenderer) Factorial(s string) string     { return s + "!" }
func (plainRenderer) Call(name, arg string) string  { return name + "(" + arg + ")" }

func (plainRenderer) Named(k NamedKind) string {
	if k == Pi {
		return "π"
	}
	return "e"
}

func (plainRenderer) Product(a, b string, implicit bool) string {
	if implicit {
		return a + b
	}
	return a + "*" + b
}

func (plainRenderer) Root(index int, arg string) string {
	switch index {
	case 2:
		return "√" + arg
	case 3:
		return "∛" + arg
	case 4:
		return "∜" + arg
	}
	return fmt.Sprintf("root(%d,%s)", index, arg)
}

func (plainRenderer) Log(base, arg string) string {
	switch base {
	case "":
		return "ln(" + arg + ")"
	case "10":
		return "log(" + arg + ")"
	}
	return "log(" + base + "," + arg + ")"
}

type latexRenderer struct{}

func (latexRenderer) Number(s string) string        { return s }
func (latexRenderer) Ratio(num, den string) string  { return `\frac{` + num + "}{" + den + "}" }
func (latexRenderer) Sum(a, b string) string        { return a + " + " + b }
func (latexRenderer) Difference(a, b string) string { return a + " - " + b }
func (latexRenderer) Division(n, d string) string   { return `\frac{` + n + "}{" + d + "}" }
func (latexRenderer) Power(b, e string) string      { return "{" + b + "}^{" + e + "}" }
func (latexRenderer) Signed(s string) string        { return "-" + s }
func (latexRenderer) Group(s string) string         { return `\left(` + s + `\right)` }
func (latexRenderer) Abs(s string) string           { return `\left|` + s + `\right|` }
func (latexRenderer) Factorial(s string) string     { return s + "!" }

func (latexRenderer) Named(k NamedKind) string {
	if k == Pi {
		return `{\pi}`
	}
	return "e"
}

func (latexRenderer) Product(a, b string, implicit bool) string {
	if implicit {
		return a + b
	}
	return a + ` \cdot ` + b
}

func (latexRenderer) Root(index int, arg string) string {
	if index == 2 {
		return `\sqrt{` + arg + "}"
	}
	return fmt.Sprintf(`\sqrt[%d]{%s}`, index, arg)
}

func (latexRenderer) Log(base, arg string) string {
	switch base {
	case "":
		return `\ln\left(` + arg + `\right)`
	case "10":
		return `\log\left(` + arg + `\right)`
	}
	return `\log_{` + base + `}\left(` + arg + `\right)`
}

func (latexRenderer) Call(name, arg string) string {
	return `\` + name + `\left(` + arg + `\right)`
}

func sign(r Renderer, s Sign, body string) string {
	if s == Minus {
		return r.Signed(body)
	}
	return body
}

// String methods

func (e *Expression) String() string       { return e.render(Plain) }
func (t *Term) String() string             { return t.render(Plain) }
func (c *Constant) String() string         { return c.render(Plain) }
func (f *Fraction) String() string         { return f.render(Plain) }
func (n *Named) String() string            { return n.render(Plain) }
func (c *ConstantFunction) String() string { return c.render(Plain) }
func (v *Variable) String() string         { return v.render(Plain) }
func (e *Exponential) String() string      { return e.render(Plain) }
func (l *Logarithm) String() string        { return l.render(Plain) }
func (f *Factorial) String() string        { return f.render(Plain) }
func (r *Root) String() string             { return r.render(Plain) }
func (f *Function) String() string         { return f.render(Plain) }
func (p *Parenthesized) String() string    { return p.render(Plain) }
func (a *Abs) String() string              { return a.render(Plain) }

// LaTeX methods

func (e *Expression) LaTeX() string       { return e.render(LaTeX) }
func (t *Term) LaTeX() string             { return t.render(LaTeX) }
func (c *Constant) LaTeX() string         { return c.render(LaTeX) }
func (f *Fraction) LaTeX() string         { return f.render(LaTeX) }
func (n *Named) LaTeX() string            { return n.render(LaTeX) }
func (c *ConstantFunction) LaTeX() string { return c.render(LaTeX) }
func (v *Variable) LaTeX() string         { return v.render(LaTeX) }
func (e *Exponential) LaTeX() string      { return e.render(LaTeX) }
func (l *Logarithm) LaTeX() string        { return l.render(LaTeX) }
func (f *Factorial) LaTeX() string        { return f.render(LaTeX) }
func (r *Root) LaTeX() string             { return r.render(LaTeX) }
func (f *Function) LaTeX() string         { return f.render(LaTeX) }
func (p *Parenthesized) LaTeX() string    { return p.render(LaTeX) }
func (a *Abs) LaTeX() string              { return a.render(LaTeX) }

func (e *Expression) render(r Renderer) string {
	out := e.terms[0].render(r)
	for _, t := range e.terms[1:] {
		if t.factors[0].Sign() == Minus {
			out = r.Difference(out, t.Negate().render(r))
			continue
		}
		out = r.Sum(out, t.render(r))
	}
	return out
}

func (t *Term) render(r Renderer) string {
	out := t.factors[0].render(r)
	divided := false
	numeric := isNumber(t.factors[0])
	for i := 1; i < len(t.factors); i++ {
		f := t.factors[i]
		s := f.render(r)
		if isCompound(f) {
			s = r.Group(s)
		}
		if t.ops[i] == Divide {
			out = r.Division(out, s)
			divided = true
			numeric = false
			continue
		}
		implicit := !divided && numeric && f.Sign() == Plus && startsImplicit(s)
		out = r.Product(out, s, implicit)
		numeric = isNumber(f) && !divided
	}
	return out
}

// isNumber reports whether f renders as a numeral.
func isNumber(f Factor) bool {
	_, ok := f.(*Constant)
	return ok
}

// isCompound reports whether f needs grouping when it is not the first
// factor of a chain.
func isCompound(f Factor) bool {
	switch f := f.(type) {
	case *Fraction:
		return true
	case *ConstantFunction:
		return f.sign == Plus
	}
	return false
}

// startsImplicit reports whether a product with s as right operand can be
// written without an operator.
func startsImplicit(s string) bool {
	c, _ := utf8.DecodeRuneInString(s)
	switch c {
	case '(', '√', '∛', '∜', '\\', '{':
		return true
	}
	return unicode.IsLetter(c)
}

func (c *Constant) render(r Renderer) string {
	return sign(r, c.sign, r.Number(decimal.Format(c.magnitude)))
}

func (f *Fraction) render(r Renderer) string {
	return sign(r, f.sign, r.Ratio(f.num.String(), f.den.String()))
}

func (n *Named) render(r Renderer) string { return sign(r, n.sign, r.Named(n.kind)) }

func (c *ConstantFunction) render(r Renderer) string {
	s := c.inner.render(r)
	if e, ok := c.inner.(*Expression); ok && len(e.terms) > 1 || c.sign == Minus && startsWithMinus(s) {
		s = r.Group(s)
	}
	return sign(r, c.sign, s)
}

func (v *Variable) render(r Renderer) string { return sign(r, v.sign, v.name) }

func (e *Exponential) render(r Renderer) string {
	b := e.base.render(r)
	if needsBaseGroup(e.base) {
		b = r.Group(b)
	}
	x := e.exponent.render(r)
	switch e.exponent.(type) {
	case *Fraction, *ConstantFunction:
		x = r.Group(x)
	}
	return sign(r, e.sign, r.Power(b, x))
}

// needsBaseGroup reports whether f must be grouped as the base of a
// power. A signed base is always grouped so that -x^2 and (-x)^2 differ.
func needsBaseGroup(f Factor) bool {
	if f.Sign() == Minus {
		return true
	}
	switch f.(type) {
	case *Fraction, *ConstantFunction, *Root, *Factorial:
		return true
	}
	return false
}

func (l *Logarithm) render(r Renderer) string {
	base := ""
	if l.base != nil {
		base = decimal.Format(l.base)
	}
	return sign(r, l.sign, r.Log(base, l.arg.render(r)))
}

func (f *Factorial) render(r Renderer) string {
	s := f.arg.render(r)
	if !isPrimary(f.arg) {
		s = r.Group(s)
	}
	return sign(r, f.sign, r.Factorial(s))
}

func (rt *Root) render(r Renderer) string {
	s := rt.arg.render(r)
	// Glyph roots bind to the next primary only.
	if _, latex := r.(latexRenderer); !latex && rt.index <= 4 && !isPrimary(rt.arg) {
		s = r.Group(s)
	}
	return sign(r, rt.sign, r.Root(rt.index, s))
}

// isPrimary reports whether f renders as a single unsigned operand that
// binds tighter than any operator.
func isPrimary(f Factor) bool {
	if f.Sign() == Minus {
		return false
	}
	switch f.(type) {
	case *Constant, *Variable, *Named, *Parenthesized, *Abs, *Logarithm, *Function:
		return true
	}
	return false
}

func (f *Function) render(r Renderer) string {
	return sign(r, f.sign, r.Call(f.name, f.arg.render(r)))
}

func (p *Parenthesized) render(r Renderer) string {
	return sign(r, p.sign, r.Group(p.inner.render(r)))
}

func (a *Abs) render(r Renderer) string {
	return sign(r, a.sign, r.Abs(a.inner.render(r)))
}

func startsWithMinus(s string) bool { return strings.HasPrefix(s, "-") }
