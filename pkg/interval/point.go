package interval

import (
	"github.com/cockroachdb/apd"

	"github.com/wildfunctions/algebra/pkg/decimal"
)

// Point is a boundary value: finite, or one of the two infinities.
// Finite points order by value and render by label, so a symbolic root
// such as (1-√5)/2 keeps its exact form.
type Point struct {
	inf   int // -1 for -∞, +1 for +∞
	value *apd.Decimal
	text  string
	latex string
}

var (
	PlusInfinity  = Point{inf: 1}
	MinusInfinity = Point{inf: -1}
)

// Finite returns a point labeled by its decimal value.
func Finite(v *apd.Decimal) Point {
	s := decimal.Format(v)
	return Point{value: v, text: s, latex: s}
}

// Labeled returns a point ordered by v and rendered by the given labels.
func Labeled(v *apd.Decimal, text, latex string) Point {
	return Point{value: v, text: text, latex: latex}
}

// Int returns the finite point for an integer.
func Int(i int64) Point {
	return Finite(decimal.New(i))
}

func (p Point) IsInfinite() bool { return p.inf != 0 }

// Value returns the numeric value; nil for an infinity.
func (p Point) Value() *apd.Decimal { return p.value }

// Cmp orders p against q.
func (p Point) Cmp(q Point) int {
	if p.inf != 0 || q.inf != 0 {
		switch {
		case p.inf == q.inf:
			return 0
		case p.inf < q.inf:
			return -1
		default:
			return 1
		}
	}
	return p.value.Cmp(q.value)
}

// CmpValue orders p against a finite value.
func (p Point) CmpValue(v *apd.Decimal) int {
	if p.inf != 0 {
		return p.inf
	}
	return p.value.Cmp(v)
}

// IsInteger reports whether p is a finite integral value.
func (p Point) IsInteger() bool {
	return p.inf == 0 && decimal.IsInteger(p.value)
}

func (p Point) String() string {
	switch p.inf {
	case 1:
		return "+∞"
	case -1:
		return "-∞"
	}
	return p.text
}

func (p Point) LaTeX() string {
	switch p.inf {
	case 1:
		return `+\infty`
	case -1:
		return `-\infty`
	}
	return p.latex
}

func (p Point) floor() Point {
	if p.inf != 0 || decimal.IsInteger(p.value) {
		return p
	}
	return Finite(decimal.Floor(p.value))
}

func (p Point) ceil() Point {
	if p.inf != 0 || decimal.IsInteger(p.value) {
		return p
	}
	return Finite(decimal.Ceil(p.value))
}

func (p Point) plus(i int64) Point {
	if p.inf != 0 {
		return p
	}
	return Finite(decimal.Add(p.value, decimal.New(i)))
}

// Delimiter bounds a double-point interval on one side.
type Delimiter struct {
	Point  Point
	Closed bool
}

// Open returns an open delimiter at p.
func Open(p Point) Delimiter { return Delimiter{Point: p} }

// Closed returns a closed delimiter at p. Infinite delimiters are always
// open.
func Closed(p Point) Delimiter { return Delimiter{Point: p, Closed: !p.IsInfinite()} }

var (
	minusInfinity = Open(MinusInfinity)
	plusInfinity  = Open(PlusInfinity)
)

// tighterLeft picks the more restrictive of two left delimiters.
func tighterLeft(a, b Delimiter) Delimiter {
	switch c := a.Point.Cmp(b.Point); {
	case c > 0:
		return a
	case c < 0:
		return b
	}
	if !a.Closed {
		return a
	}
	return b
}

// tighterRight picks the more restrictive of two right delimiters.
func tighterRight(a, b Delimiter) Delimiter {
	switch c := a.Point.Cmp(b.Point); {
	case c < 0:
		return a
	case c > 0:
		return b
	}
	if !a.Closed {
		return a
	}
	return b
}

// looserLeft picks the less restrictive of two left delimiters.
func looserLeft(a, b Delimiter) Delimiter {
	switch c := a.Point.Cmp(b.Point); {
	case c < 0:
		return a
	case c > 0:
		return b
	}
	if a.Closed {
		return a
	}
	return b
}

// looserRight picks the less restrictive of two right delimiters.
func looserRight(a, b Delimiter) Delimiter {
	switch c := a.Point.Cmp(b.Point); {
	case c > 0:
		return a
	case c < 0:
		return b
	}
	if a.Closed {
		return a
	}
	return b
}
