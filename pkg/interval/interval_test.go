package interval

import (
	"errors"
	"testing"

	"github.com/cockroachdb/apd"
	"github.com/google/go-cmp/cmp"

	"github.com/wildfunctions/algebra/pkg/decimal"
	"github.com/wildfunctions/algebra/pkg/expr"
)

func closedRange(lo, hi int64) Interval {
	return Between("x", Closed(Int(lo)), Closed(Int(hi)))
}

func openRange(lo, hi int64) Interval {
	return Between("x", Open(Int(lo)), Open(Int(hi)))
}

func mustIntersect(t *testing.T, a, b Interval) Interval {
	t.Helper()
	r, err := Intersect(a, b)
	if err != nil {
		t.Fatalf("Intersect(%s, %s) failed: %v", a, b, err)
	}
	return r
}

func TestNaturalsIntersectRange(t *testing.T) {
	got := mustIntersect(t, Naturals("x"), closedRange(-5, 5))
	s, ok := got.(*SubSetN)
	if !ok {
		t.Fatalf("ℕ ∩ [-5,5] = %T (%s), want *SubSetN", got, got)
	}
	if s.Lo().Cmp(Int(0)) != 0 || s.Hi().Cmp(Int(5)) != 0 {
		t.Errorf("ℕ ∩ [-5,5] bounds = [%s, %s], want [0, 5]", s.Lo(), s.Hi())
	}
	if want := "0 ≤ x ≤ 5 , x ∈ ℕ"; got.String() != want {
		t.Errorf("String() = %q, want %q", got.String(), want)
	}
	// Symmetric dispatch gives the same shape.
	if back := mustIntersect(t, closedRange(-5, 5), Naturals("x")); back.String() != got.String() {
		t.Errorf("[-5,5] ∩ ℕ = %s, want %s", back, got)
	}
}

func TestIntersectShapes(t *testing.T) {
	half, _ := decimal.Parse("2.5")
	cases := []struct {
		name string
		a, b Interval
		want string
	}{
		{"disjoint", closedRange(0, 1), closedRange(2, 3), "x ∈ ∅"},
		{"shared closed boundary", closedRange(1, 2), closedRange(2, 3), "x = 2"},
		{"shared open boundary", Between("x", Closed(Int(1)), Open(Int(2))), closedRange(2, 3), "x ∈ ∅"},
		{"overlap", closedRange(0, 4), openRange(2, 6), "2 < x ≤ 4 , x ∈ ℝ"},
		{"half line", Above("x", Int(1), false), Below("x", Int(3), true), "1 < x ≤ 3 , x ∈ ℝ"},
		{"whole line", All("x"), closedRange(-1, 1), "-1 ≤ x ≤ 1 , x ∈ ℝ"},
		{"integers rounded inward", Integers("x"), Between("x", Closed(Finite(decimal.Neg(half))), Closed(Finite(half))), "-2 ≤ x ≤ 2 , x ∈ ℤ"},
		{"integers open bound", Integers("x"), openRange(0, 3), "1 ≤ x ≤ 2 , x ∈ ℤ"},
		{"naturals and integers", Naturals("x"), Integers("x"), "x ∈ ℕ"},
		{"naturals negative range", Naturals("x"), closedRange(-4, -1), "x ∈ ∅"},
		{"point inside", closedRange(0, 4), Equal("x", Int(2)), "x = 2"},
		{"point outside", closedRange(0, 4), Equal("x", Int(7)), "x ∈ ∅"},
		{"interior point removed", closedRange(0, 4), NotEqual("x", Int(2)), "0 ≤ x < 2 , x ∈ ℝ ∪ 2 < x ≤ 4 , x ∈ ℝ"},
		{"boundary point removed", closedRange(0, 4), NotEqual("x", Int(4)), "0 ≤ x < 4 , x ∈ ℝ"},
		{"whole line minus point", All("x"), NotEqual("x", Int(0)), "x ≠ 0"},
		{"two excluded points", NotEqual("x", Int(1)), NotEqual("x", Int(0)), "x ≠ 0 ∩ x ≠ 1"},
		{"same excluded point", NotEqual("x", Int(1)), NotEqual("x", Int(1)), "x ≠ 1"},
		{"equal and excluded", Equal("x", Int(1)), NotEqual("x", Int(1)), "x ∈ ∅"},
		{"integers minus point", Integers("x"), NotEqual("x", Int(3)), "x ∈ ℤ ∩ x ≠ 3"},
		{"naturals minus zero", Naturals("x"), NotEqual("x", Int(0)), "x ≥ 1 , x ∈ ℕ"},
		{"naturals minus fraction", Naturals("x"), NotEqual("x", Finite(half)), "x ∈ ℕ"},
		{"naturals at fraction", Naturals("x"), Equal("x", Finite(half)), "x ∈ ∅"},
		{"empty absorbs", Empty("x"), All("x"), "x ∈ ∅"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mustIntersect(t, tc.a, tc.b)
			if got.String() != tc.want {
				t.Errorf("Intersect(%s, %s) = %q, want %q", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestUnionIntersect(t *testing.T) {
	u := NewUnion("x", Below("x", Int(-1), false), Above("x", Int(1), false))
	got := mustIntersect(t, u, closedRange(-3, 3))
	want := []string{"-3 ≤ x < -1 , x ∈ ℝ", "1 < x ≤ 3 , x ∈ ℝ"}
	gu, ok := got.(*Union)
	if !ok {
		t.Fatalf("got %T (%s), want *Union", got, got)
	}
	var members []string
	for _, m := range gu.Members() {
		members = append(members, m.String())
	}
	if diff := cmp.Diff(want, members); diff != "" {
		t.Errorf("members mismatch (-want +got):\n%s", diff)
	}
}

func TestNewUnionMerges(t *testing.T) {
	got := NewUnion("x", closedRange(0, 2), openRange(1, 5), Empty("x"))
	if want := "0 ≤ x < 5 , x ∈ ℝ"; got.String() != want {
		t.Errorf("NewUnion = %q, want %q", got, want)
	}
	got = NewUnion("x", Between("x", Closed(Int(0)), Open(Int(2))), Equal("x", Int(2)))
	if want := "0 ≤ x ≤ 2 , x ∈ ℝ"; got.String() != want {
		t.Errorf("NewUnion with boundary point = %q, want %q", got, want)
	}
	if got := NewUnion("x", Empty("x"), Empty("x")); got.String() != "x ∈ ∅" {
		t.Errorf("union of empties = %q", got)
	}
}

func TestMerge(t *testing.T) {
	if _, err := Merge(openRange(0, 1), openRange(1, 2)); !errors.Is(err, ErrDisjoint) {
		t.Errorf("Merge of ranges open at the shared point: err = %v, want ErrDisjoint", err)
	}
	got, err := Merge(Between("x", Open(Int(0)), Closed(Int(1))), openRange(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if want := "0 < x < 2 , x ∈ ℝ"; got.String() != want {
		t.Errorf("Merge = %q, want %q", got, want)
	}
}

func TestAdjacencyAndDisjointness(t *testing.T) {
	if !AreAdjacent(closedRange(0, 1), closedRange(1, 2)) {
		t.Error("[0,1] and [1,2] should be adjacent")
	}
	if AreAdjacent(Between("x", Closed(Int(0)), Open(Int(1))), closedRange(1, 2)) {
		t.Error("[0,1) and [1,2] should not be adjacent")
	}
	if !AreDisjoint(openRange(0, 1), openRange(1, 2)) {
		t.Error("(0,1) and (1,2) should be disjoint")
	}
	if AreDisjoint(closedRange(0, 1), closedRange(1, 2)) {
		t.Error("[0,1] and [1,2] share 1")
	}
	if !AreAdjacent(openRange(0, 1), Equal("x", Int(1))) {
		t.Error("a point on an open boundary should be adjacent")
	}
}

func TestContains(t *testing.T) {
	two, three, half := decimal.New(2), decimal.New(3), mustDecimal(t, "0.5")
	cases := []struct {
		i    Interval
		v    string
		want bool
	}{
		{closedRange(0, 2), "2", true},
		{openRange(0, 2), "2", false},
		{Naturals("x"), "0.5", false},
		{Naturals("x"), "3", true},
		{Integers("x"), "-3", true},
		{NotEqual("x", Int(2)), "2", false},
		{mustIntersect(t, Integers("x"), NotEqual("x", Int(3))), "3", false},
		{mustIntersect(t, Integers("x"), NotEqual("x", Int(3))), "2", true},
	}
	for _, tc := range cases {
		if got := tc.i.Contains(mustDecimal(t, tc.v)); got != tc.want {
			t.Errorf("%s contains %s = %v, want %v", tc.i, tc.v, got, tc.want)
		}
	}
	if Empty("x").Contains(two) || !All("x").Contains(three) || !All("x").Contains(half) {
		t.Error("empty/all membership wrong")
	}
}

func TestNaturalsCached(t *testing.T) {
	if Naturals("y") != Naturals("y") || Integers("y") != Integers("y") {
		t.Error("ℕ and ℤ should be cached per variable")
	}
	if Naturals("y") == Naturals("z") {
		t.Error("distinct variables share a cached set")
	}
}

func TestLaTeX(t *testing.T) {
	cases := []struct {
		i    Interval
		want string
	}{
		{Empty("x"), `x \in \emptyset`},
		{NotEqual("x", Int(0)), `x \neq 0`},
		{All("x"), `\forall x \in \mathbb{R}`},
		{Above("x", Int(0), false), `x > 0 , x \in \mathbb{R}`},
		{closedRange(0, 1), `0 \leq x \leq 1 , x \in \mathbb{R}`},
		{Naturals("x"), `x \in \mathbb{N}`},
	}
	for _, tc := range cases {
		if got := tc.i.LaTeX(); got != tc.want {
			t.Errorf("LaTeX() = %q, want %q", got, tc.want)
		}
	}
}

func mustDecimal(t *testing.T, s string) *apd.Decimal {
	t.Helper()
	d, err := decimal.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

// opaque is a shape with no intersection rule.
type opaque struct{}

func (opaque) Variable() string             { return "x" }
func (opaque) Contains(v *apd.Decimal) bool { return false }
func (opaque) String() string               { return "opaque" }
func (opaque) LaTeX() string                { return "opaque" }
func (opaque) isInterval()                  {}

func TestIntersectUnsupported(t *testing.T) {
	for _, a := range []Interval{closedRange(0, 1), Naturals("x"), NewUnion("x", openRange(0, 1), openRange(2, 3))} {
		if _, err := Intersect(a, opaque{}); !errors.Is(err, expr.ErrUnsupported) {
			t.Errorf("Intersect(%s, opaque) error = %v, want ErrUnsupported", a, err)
		}
	}
	if AreDisjoint(closedRange(0, 1), opaque{}) {
		t.Error("an unsupported pair should not be reported disjoint")
	}
}
