// Package interval models the admissible values of a single named
// variable: empty sets, points, real ranges, integer ranges and the
// unions and intersections of those.
package interval

import (
	"strings"
	"sync"

	"github.com/cockroachdb/apd"

	"github.com/wildfunctions/algebra/pkg/decimal"
)

// Interval is a set of values of one variable.
type Interval interface {
	Variable() string
	Contains(v *apd.Decimal) bool
	String() string
	LaTeX() string
	isInterval()
}

// NoPoint is the empty set.
type NoPoint struct{ variable string }

// Empty returns the empty set over v.
func Empty(v string) *NoPoint { return &NoPoint{variable: v} }

func (n *NoPoint) Variable() string           { return n.variable }
func (n *NoPoint) Contains(*apd.Decimal) bool { return false }
func (n *NoPoint) String() string             { return n.variable + " ∈ ∅" }
func (n *NoPoint) LaTeX() string              { return n.variable + ` \in \emptyset` }
func (*NoPoint) isInterval()                  {}

// Relation distinguishes x = p from x ≠ p.
type Relation int

const (
	Equals Relation = iota
	NotEquals
)

// SinglePoint is x = p or x ≠ p.
type SinglePoint struct {
	variable string
	point    Point
	relation Relation
}

// Equal returns the set {p}.
func Equal(v string, p Point) *SinglePoint {
	return &SinglePoint{variable: v, point: p, relation: Equals}
}

// NotEqual returns every value except p.
func NotEqual(v string, p Point) *SinglePoint {
	return &SinglePoint{variable: v, point: p, relation: NotEquals}
}

func (s *SinglePoint) Variable() string   { return s.variable }
func (s *SinglePoint) Point() Point       { return s.point }
func (s *SinglePoint) Relation() Relation { return s.relation }
func (*SinglePoint) isInterval()          {}

func (s *SinglePoint) Contains(v *apd.Decimal) bool {
	eq := s.point.CmpValue(v) == 0
	if s.relation == Equals {
		return eq
	}
	return !eq
}

func (s *SinglePoint) String() string {
	if s.relation == Equals {
		return s.variable + " = " + s.point.String()
	}
	return s.variable + " ≠ " + s.point.String()
}

func (s *SinglePoint) LaTeX() string {
	if s.relation == Equals {
		return s.variable + " = " + s.point.LaTeX()
	}
	return s.variable + ` \neq ` + s.point.LaTeX()
}

// DoublePoint is a real range bounded by two delimiters.
type DoublePoint struct {
	variable    string
	left, right Delimiter
}

// Between returns the real range between l and r. Degenerate bounds
// collapse to a single point or the empty set.
func Between(v string, l, r Delimiter) Interval {
	if l.Point.IsInfinite() {
		l.Closed = false
	}
	if r.Point.IsInfinite() {
		r.Closed = false
	}
	switch c := l.Point.Cmp(r.Point); {
	case c > 0:
		return Empty(v)
	case c == 0:
		if l.Closed && r.Closed {
			return Equal(v, l.Point)
		}
		return Empty(v)
	}
	return &DoublePoint{variable: v, left: l, right: r}
}

// All returns the whole real line.
func All(v string) *DoublePoint {
	return &DoublePoint{variable: v, left: minusInfinity, right: plusInfinity}
}

// Above returns x > p, or x ≥ p when closed.
func Above(v string, p Point, closed bool) Interval {
	return Between(v, Delimiter{Point: p, Closed: closed}, plusInfinity)
}

// Below returns x < p, or x ≤ p when closed.
func Below(v string, p Point, closed bool) Interval {
	return Between(v, minusInfinity, Delimiter{Point: p, Closed: closed})
}

func (d *DoublePoint) Variable() string { return d.variable }
func (d *DoublePoint) Left() Delimiter  { return d.left }
func (d *DoublePoint) Right() Delimiter { return d.right }
func (*DoublePoint) isInterval()        {}

// IsAll reports whether d is the whole real line.
func (d *DoublePoint) IsAll() bool {
	return d.left.Point.IsInfinite() && d.right.Point.IsInfinite()
}

func (d *DoublePoint) Contains(v *apd.Decimal) bool {
	return rangeContains(d.left, d.right, v)
}

func (d *DoublePoint) String() string { return rangeString(d.variable, d.left, d.right, "ℝ", plain) }
func (d *DoublePoint) LaTeX() string  { return rangeString(d.variable, d.left, d.right, `\mathbb{R}`, latex) }

func rangeContains(l, r Delimiter, v *apd.Decimal) bool {
	lc := l.Point.CmpValue(v)
	if lc > 0 || (lc == 0 && !l.Closed) {
		return false
	}
	rc := r.Point.CmpValue(v)
	return rc > 0 || (rc == 0 && r.Closed)
}

type symbols struct {
	lt, lte, gt, gte, in, forall string
	point                        func(Point) string
}

var (
	plain = symbols{"<", "≤", ">", "≥", "∈", "∀", Point.String}
	latex = symbols{"<", `\leq`, ">", `\geq`, `\in`, `\forall`, Point.LaTeX}
)

func rangeString(v string, l, r Delimiter, set string, s symbols) string {
	lInf, rInf := l.Point.IsInfinite(), r.Point.IsInfinite()
	switch {
	case lInf && rInf:
		return s.forall + " " + v + " " + s.in + " " + set
	case rInf:
		op := s.gt
		if l.Closed {
			op = s.gte
		}
		return v + " " + op + " " + s.point(l.Point) + " , " + v + " " + s.in + " " + set
	case lInf:
		op := s.lt
		if r.Closed {
			op = s.lte
		}
		return v + " " + op + " " + s.point(r.Point) + " , " + v + " " + s.in + " " + set
	}
	lop, rop := s.lt, s.lt
	if l.Closed {
		lop = s.lte
	}
	if r.Closed {
		rop = s.lte
	}
	return s.point(l.Point) + " " + lop + " " + v + " " + rop + " " + s.point(r.Point) +
		" , " + v + " " + s.in + " " + set
}

// N is the set of natural numbers, ℕ.
type N struct{ variable string }

// Z is the set of integers, ℤ.
type Z struct{ variable string }

type setCache struct {
	mu       sync.RWMutex
	naturals map[string]*N
	integers map[string]*Z
}

var cache = &setCache{naturals: map[string]*N{}, integers: map[string]*Z{}}

// Naturals returns ℕ over v. One instance is kept per variable name.
func Naturals(v string) *N {
	cache.mu.RLock()
	n, ok := cache.naturals[v]
	cache.mu.RUnlock()
	if ok {
		return n
	}
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if n, ok := cache.naturals[v]; ok {
		return n
	}
	n = &N{variable: v}
	cache.naturals[v] = n
	return n
}

// Integers returns ℤ over v. One instance is kept per variable name.
func Integers(v string) *Z {
	cache.mu.RLock()
	z, ok := cache.integers[v]
	cache.mu.RUnlock()
	if ok {
		return z
	}
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if z, ok := cache.integers[v]; ok {
		return z
	}
	z = &Z{variable: v}
	cache.integers[v] = z
	return z
}

func (n *N) Variable() string { return n.variable }
func (n *N) String() string   { return n.variable + " ∈ ℕ" }
func (n *N) LaTeX() string    { return n.variable + ` \in \mathbb{N}` }
func (*N) isInterval()        {}

func (n *N) Contains(v *apd.Decimal) bool {
	return decimal.IsInteger(v) && v.Sign() >= 0
}

func (z *Z) Variable() string { return z.variable }
func (z *Z) String() string   { return z.variable + " ∈ ℤ" }
func (z *Z) LaTeX() string    { return z.variable + ` \in \mathbb{Z}` }
func (*Z) isInterval()        {}

func (z *Z) Contains(v *apd.Decimal) bool { return decimal.IsInteger(v) }

// SubSetN is a bounded range of naturals. Bounds are closed integers or
// +∞ on the right.
type SubSetN struct {
	variable string
	lo, hi   Point
}

// SubSetZ is a range of integers. Bounds are closed integers or
// infinities.
type SubSetZ struct {
	variable string
	lo, hi   Point
}

func (s *SubSetN) Variable() string { return s.variable }
func (s *SubSetN) Lo() Point        { return s.lo }
func (s *SubSetN) Hi() Point        { return s.hi }
func (*SubSetN) isInterval()        {}

func (s *SubSetN) Contains(v *apd.Decimal) bool {
	return decimal.IsInteger(v) && v.Sign() >= 0 && rangeContains(Closed(s.lo), Closed(s.hi), v)
}

func (s *SubSetN) String() string {
	return rangeString(s.variable, Closed(s.lo), Closed(s.hi), "ℕ", plain)
}

func (s *SubSetN) LaTeX() string {
	return rangeString(s.variable, Closed(s.lo), Closed(s.hi), `\mathbb{N}`, latex)
}

func (s *SubSetZ) Variable() string { return s.variable }
func (s *SubSetZ) Lo() Point        { return s.lo }
func (s *SubSetZ) Hi() Point        { return s.hi }
func (*SubSetZ) isInterval()        {}

func (s *SubSetZ) Contains(v *apd.Decimal) bool {
	return decimal.IsInteger(v) && rangeContains(Closed(s.lo), Closed(s.hi), v)
}

func (s *SubSetZ) String() string {
	return rangeString(s.variable, Closed(s.lo), Closed(s.hi), "ℤ", plain)
}

func (s *SubSetZ) LaTeX() string {
	return rangeString(s.variable, Closed(s.lo), Closed(s.hi), `\mathbb{Z}`, latex)
}

// IntegerRange returns the integers of [lo, hi], restricted to the
// naturals when natural is set. Bounds are rounded inward.
func IntegerRange(v string, lo, hi Point, natural bool) Interval {
	lo, hi = lo.ceil(), hi.floor()
	if natural && lo.Cmp(Int(0)) < 0 {
		lo = Int(0)
	}
	switch c := lo.Cmp(hi); {
	case c > 0:
		return Empty(v)
	case c == 0:
		if lo.IsInfinite() {
			return Empty(v)
		}
		return Equal(v, lo)
	}
	switch {
	case natural && lo.Cmp(Int(0)) == 0 && hi.inf > 0:
		return Naturals(v)
	case natural:
		return &SubSetN{variable: v, lo: lo, hi: hi}
	case lo.inf < 0 && hi.inf > 0:
		return Integers(v)
	}
	return &SubSetZ{variable: v, lo: lo, hi: hi}
}

// Union is a set of disjoint members, kept sorted by their lower bound.
type Union struct {
	variable string
	members  []Interval
}

func (u *Union) Variable() string    { return u.variable }
func (u *Union) Members() []Interval { return append([]Interval(nil), u.members...) }
func (*Union) isInterval()           {}

func (u *Union) Contains(v *apd.Decimal) bool {
	for _, m := range u.members {
		if m.Contains(v) {
			return true
		}
	}
	return false
}

func (u *Union) String() string { return u.join(" ∪ ", Interval.String) }
func (u *Union) LaTeX() string  { return u.join(` \cup `, Interval.LaTeX) }

func (u *Union) join(sep string, f func(Interval) string) string {
	parts := make([]string, len(u.members))
	for i, m := range u.members {
		parts[i] = f(m)
		if _, ok := m.(*Intersection); ok {
			parts[i] = "(" + parts[i] + ")"
		}
	}
	return strings.Join(parts, sep)
}

// Intersection is a base set with a list of excluded points, such as
// x ∈ ℤ ∩ x ≠ 3.
type Intersection struct {
	variable string
	base     Interval
	excluded []Point
}

func (i *Intersection) Variable() string  { return i.variable }
func (i *Intersection) Base() Interval    { return i.base }
func (i *Intersection) Excluded() []Point { return append([]Point(nil), i.excluded...) }
func (*Intersection) isInterval()         {}

func (i *Intersection) Contains(v *apd.Decimal) bool {
	if !i.base.Contains(v) {
		return false
	}
	for _, p := range i.excluded {
		if p.CmpValue(v) == 0 {
			return false
		}
	}
	return true
}

func (i *Intersection) String() string {
	return i.join(" ∩ ", Interval.String, func(p Point) string { return i.variable + " ≠ " + p.String() })
}

func (i *Intersection) LaTeX() string {
	return i.join(` \cap `, Interval.LaTeX, func(p Point) string { return i.variable + ` \neq ` + p.LaTeX() })
}

func (i *Intersection) join(sep string, base func(Interval) string, point func(Point) string) string {
	var parts []string
	if d, ok := i.base.(*DoublePoint); !ok || !d.IsAll() {
		parts = append(parts, base(i.base))
	}
	for _, p := range i.excluded {
		parts = append(parts, point(p))
	}
	return strings.Join(parts, sep)
}
