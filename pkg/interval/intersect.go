package interval

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/wildfunctions/algebra/pkg/expr"
)

// ErrDisjoint is returned when merging intervals that do not touch.
var ErrDisjoint = errors.New("disjoint intervals")

// integer is the common view of ℕ, ℤ, SubSetN and SubSetZ.
type integer struct {
	lo, hi  Point
	natural bool
}

func asInteger(i Interval) (integer, bool) {
	switch i := i.(type) {
	case *N:
		return integer{lo: Int(0), hi: PlusInfinity, natural: true}, true
	case *Z:
		return integer{lo: MinusInfinity, hi: PlusInfinity}, true
	case *SubSetN:
		return integer{lo: i.lo, hi: i.hi, natural: true}, true
	case *SubSetZ:
		return integer{lo: i.lo, hi: i.hi}, true
	}
	return integer{}, false
}

// Intersect returns the values in both a and b. Both must describe the
// same variable; the result describes a's. A pair of shapes without an
// intersection rule fails with expr.ErrUnsupported.
func Intersect(a, b Interval) (Interval, error) {
	var m meet
	r := m.of(a, b)
	if m.err != nil {
		return nil, m.err
	}
	return r, nil
}

// meet intersects shapes and keeps the first failure.
type meet struct {
	err error
}

func (m *meet) of(a, b Interval) Interval {
	v := a.Variable()
	switch b := b.(type) {
	case *NoPoint:
		return Empty(v)
	case *Union:
		return unionOf(v, b.members, func(x Interval) Interval { return m.of(a, x) })
	case *Intersection:
		return exclude(m.of(a, b.base), b.excluded)
	case *SinglePoint:
		if b.relation == NotEquals {
			return exclude(a, []Point{b.point})
		}
		if a.Contains(b.point.value) {
			return Equal(v, b.point)
		}
		return Empty(v)
	}

	switch a := a.(type) {
	case *NoPoint:
		return a
	case *Union:
		return unionOf(v, a.members, func(x Interval) Interval { return m.of(x, b) })
	case *Intersection:
		return exclude(m.of(a.base, b), a.excluded)
	case *SinglePoint:
		return m.of(b, a)
	case *DoublePoint:
		switch b := b.(type) {
		case *DoublePoint:
			return Between(v, tighterLeft(a.left, b.left), tighterRight(a.right, b.right))
		case *N, *Z, *SubSetN, *SubSetZ:
			ib, _ := asInteger(b)
			return integerWithin(v, ib, a.left, a.right)
		}
	case *N, *Z, *SubSetN, *SubSetZ:
		ia, _ := asInteger(a)
		switch b := b.(type) {
		case *DoublePoint:
			return integerWithin(v, ia, b.left, b.right)
		case *N, *Z, *SubSetN, *SubSetZ:
			ib, _ := asInteger(b)
			lo, hi := ia.lo, ia.hi
			if ib.lo.Cmp(lo) > 0 {
				lo = ib.lo
			}
			if ib.hi.Cmp(hi) < 0 {
				hi = ib.hi
			}
			return IntegerRange(v, lo, hi, ia.natural || ib.natural)
		}
	}
	if m.err == nil {
		m.err = errors.Wrapf(expr.ErrUnsupported, "no intersection of %T and %T", a, b)
	}
	return Empty(v)
}

// integerWithin restricts an integer range to the real range [l, r],
// turning open integer bounds into the next integer inward.
func integerWithin(v string, i integer, l, r Delimiter) Interval {
	lo, hi := l.Point.ceil(), r.Point.floor()
	if !l.Closed && lo.Cmp(l.Point) == 0 {
		lo = lo.plus(1)
	}
	if !r.Closed && hi.Cmp(r.Point) == 0 {
		hi = hi.plus(-1)
	}
	if i.lo.Cmp(lo) > 0 {
		lo = i.lo
	}
	if i.hi.Cmp(hi) < 0 {
		hi = i.hi
	}
	return IntegerRange(v, lo, hi, i.natural)
}

// exclude removes every point of pts from r.
func exclude(r Interval, pts []Point) Interval {
	v := r.Variable()
	for _, p := range pts {
		r = excludePoint(v, r, p)
	}
	return r
}

func excludePoint(v string, r Interval, p Point) Interval {
	if !r.Contains(p.value) {
		return r
	}
	switch r := r.(type) {
	case *SinglePoint:
		if r.relation == Equals {
			return Empty(v)
		}
		return &Intersection{variable: v, base: All(v), excluded: sortedPoints(r.point, p)}
	case *DoublePoint:
		if r.IsAll() {
			return NotEqual(v, p)
		}
		left := Between(v, r.left, Open(p))
		right := Between(v, Open(p), r.right)
		return unionOf(v, []Interval{left, right}, nil)
	case *Union:
		return unionOf(v, r.members, func(m Interval) Interval { return excludePoint(v, m, p) })
	case *Intersection:
		pts := append(append([]Point(nil), r.excluded...), p)
		return &Intersection{variable: v, base: r.base, excluded: sortedPoints(pts...)}
	case *N, *Z, *SubSetN, *SubSetZ:
		i, _ := asInteger(r)
		switch {
		case i.lo.Cmp(p) == 0:
			return IntegerRange(v, p.plus(1), i.hi, i.natural)
		case i.hi.Cmp(p) == 0:
			return IntegerRange(v, i.lo, p.plus(-1), i.natural)
		}
		return &Intersection{variable: v, base: r, excluded: []Point{p}}
	}
	return r
}

func sortedPoints(pts ...Point) []Point {
	out := append([]Point(nil), pts...)
	sort.Slice(out, func(i, j int) bool { return out[i].Cmp(out[j]) < 0 })
	return out
}

// NewUnion returns the union of the given intervals. Empty members are
// dropped, overlapping or adjacent real ranges are merged, and a single
// remaining member is returned as is.
func NewUnion(v string, members ...Interval) Interval {
	return unionOf(v, members, nil)
}

func unionOf(v string, members []Interval, f func(Interval) Interval) Interval {
	var flat []Interval
	var add func(Interval)
	add = func(m Interval) {
		switch m := m.(type) {
		case *NoPoint:
		case *Union:
			for _, n := range m.members {
				add(n)
			}
		default:
			flat = append(flat, m)
		}
	}
	for _, m := range members {
		if f != nil {
			m = f(m)
		}
		add(m)
	}
	if len(flat) == 0 {
		return Empty(v)
	}
	sort.SliceStable(flat, func(i, j int) bool { return lowerBound(flat[i]).Cmp(lowerBound(flat[j])) < 0 })

	merged := []Interval{flat[0]}
	for _, m := range flat[1:] {
		last := merged[len(merged)-1]
		if joined, err := Merge(last, m); err == nil {
			merged[len(merged)-1] = joined
			continue
		}
		merged = append(merged, m)
	}
	if len(merged) == 1 {
		return merged[0]
	}
	return &Union{variable: v, members: merged}
}

func lowerBound(i Interval) Point {
	switch i := i.(type) {
	case *SinglePoint:
		if i.relation == Equals {
			return i.point
		}
	case *DoublePoint:
		return i.left.Point
	case *N:
		return Int(0)
	case *SubSetN:
		return i.lo
	case *SubSetZ:
		return i.lo
	case *Intersection:
		return lowerBound(i.base)
	}
	return MinusInfinity
}

// Merge joins two real ranges, or a real range and a point, that overlap
// or touch at a boundary that one of them includes.
func Merge(a, b Interval) (Interval, error) {
	v := a.Variable()
	switch a := a.(type) {
	case *DoublePoint:
		switch b := b.(type) {
		case *DoublePoint:
			if !rangesTouch(a, b) {
				return nil, errors.Wrapf(ErrDisjoint, "cannot merge %s and %s", a, b)
			}
			return Between(v, looserLeft(a.left, b.left), looserRight(a.right, b.right)), nil
		case *SinglePoint:
			if b.relation != Equals {
				break
			}
			switch {
			case a.Contains(b.point.value):
				return a, nil
			case a.left.Point.Cmp(b.point) == 0:
				return Between(v, Closed(b.point), a.right), nil
			case a.right.Point.Cmp(b.point) == 0:
				return Between(v, a.left, Closed(b.point)), nil
			}
			return nil, errors.Wrapf(ErrDisjoint, "cannot merge %s and %s", a, b)
		}
	case *SinglePoint:
		if _, ok := b.(*DoublePoint); ok && a.relation == Equals {
			return Merge(b, a)
		}
		if sb, ok := b.(*SinglePoint); ok && a.relation == Equals && sb.relation == Equals && a.point.Cmp(sb.point) == 0 {
			return a, nil
		}
	}
	return nil, errors.Wrapf(ErrDisjoint, "cannot merge %s and %s", a, b)
}

func rangesTouch(a, b *DoublePoint) bool {
	if a.right.Point.Cmp(b.left.Point) < 0 || b.right.Point.Cmp(a.left.Point) < 0 {
		return false
	}
	if a.right.Point.Cmp(b.left.Point) == 0 && !a.right.Closed && !b.left.Closed {
		return false
	}
	if b.right.Point.Cmp(a.left.Point) == 0 && !b.right.Closed && !a.left.Closed {
		return false
	}
	return true
}

// AreDisjoint reports whether a and b share no value. Boundaries are
// exact: ranges meeting at a value are disjoint unless both include it.
func AreDisjoint(a, b Interval) bool {
	r, err := Intersect(a, b)
	if err != nil {
		return false
	}
	_, empty := r.(*NoPoint)
	return empty
}

// AreAdjacent reports whether two real ranges meet at exactly one shared
// boundary that both include, or a point lies on a range's open
// boundary.
func AreAdjacent(a, b Interval) bool {
	switch a := a.(type) {
	case *DoublePoint:
		switch b := b.(type) {
		case *DoublePoint:
			return (a.right.Point.Cmp(b.left.Point) == 0 && a.right.Closed && b.left.Closed) ||
				(b.right.Point.Cmp(a.left.Point) == 0 && b.right.Closed && a.left.Closed)
		case *SinglePoint:
			if b.relation != Equals {
				return false
			}
			return (a.left.Point.Cmp(b.point) == 0 && !a.left.Closed) ||
				(a.right.Point.Cmp(b.point) == 0 && !a.right.Closed)
		}
	case *SinglePoint:
		switch b := b.(type) {
		case *DoublePoint:
			return AreAdjacent(b, a)
		case *SinglePoint:
			return a.relation == Equals && b.relation == Equals && a.point.Cmp(b.point) == 0
		}
	}
	return false
}
