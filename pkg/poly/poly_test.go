package poly

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/wildfunctions/algebra/pkg/expr"
	"github.com/wildfunctions/algebra/pkg/parse"
)

func decimalEnv() *expr.Env { return expr.NewEnv(expr.DefaultConfig()) }

func fractionalEnv() *expr.Env {
	cfg := expr.DefaultConfig()
	cfg.Mode = expr.Fractional
	return expr.NewEnv(cfg)
}

func mustTerm(t *testing.T, src string, mode expr.Mode) *expr.Term {
	t.Helper()
	e, err := parse.ParseMode(src, mode)
	if err != nil {
		t.Fatalf("ParseMode(%q) failed: %v", src, err)
	}
	terms := e.Terms()
	if len(terms) != 1 {
		t.Fatalf("%q has %d terms, want 1", src, len(terms))
	}
	return terms[0]
}

func mustMonomial(t *testing.T, env *expr.Env, src string) *Monomial {
	t.Helper()
	m, ok := FromTerm(env, mustTerm(t, src, env.Config().Mode))
	if !ok {
		t.Fatalf("FromTerm(%q) failed", src)
	}
	return m
}

func mustPolynomial(t *testing.T, env *expr.Env, src string) *Polynomial {
	t.Helper()
	e, err := parse.ParseMode(src, env.Config().Mode)
	if err != nil {
		t.Fatalf("ParseMode(%q) failed: %v", src, err)
	}
	p, ok := FromExpression(env, e)
	if !ok {
		t.Fatalf("FromExpression(%q) failed", src)
	}
	return p
}

func powerStrings(l LiteralPart) []string {
	var out []string
	for _, p := range l.Powers() {
		out = append(out, p.String())
	}
	return out
}

func TestFromTerm(t *testing.T) {
	env := decimalEnv()
	tests := []struct {
		src  string
		want string
	}{
		{"2*x*3*x", "6x^2"},
		{"x*y*x", "x^2*y"},
		{"-x*2", "-2x"},
		{"x/2", "0.5x"},
		{"7", "7"},
		{"2*0*x", "0"},
		{"x*x^-1", "1"},
		{"x^2*x^-3", "1/x"},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			if got := mustMonomial(t, env, tc.src).String(); got != tc.want {
				t.Errorf("FromTerm(%q) = %s, want %s", tc.src, got, tc.want)
			}
		})
	}

	for _, src := range []string{"2/x", "x/(x+1)", "2x/0"} {
		if _, ok := FromTerm(env, mustTerm(t, src, expr.Decimal)); ok {
			t.Errorf("FromTerm(%q) succeeded, want failure", src)
		}
	}
}

func TestSignedBases(t *testing.T) {
	env := decimalEnv()
	minusX := expr.NewVariable(expr.Minus, "x")
	tests := []struct {
		factor expr.Factor
		want   string
	}{
		{expr.Pow(minusX, expr.Int(2)), "x^2"},
		{expr.Pow(minusX, expr.Int(3)), "-x^3"},
		{expr.NewExponential(expr.Minus, minusX, expr.Int(3)), "x^3"},
		{expr.Pow(minusX, expr.Var("y")), "(-x)^y"},
	}
	for _, tc := range tests {
		m, ok := FromTerm(env, expr.Product(tc.factor))
		if !ok {
			t.Fatalf("FromTerm(%s) failed", tc.factor)
		}
		if got := m.String(); got != tc.want {
			t.Errorf("FromTerm(%s) = %s, want %s", tc.factor, got, tc.want)
		}
	}
}

func TestLiteralPartOrder(t *testing.T) {
	env := decimalEnv()
	m := mustMonomial(t, env, "y*x^2*|x|*x")
	want := []string{"|x|", "x^3", "y"}
	if diff := cmp.Diff(want, powerStrings(m.Literal())); diff != "" {
		t.Errorf("powers mismatch (-want +got):\n%s", diff)
	}

	a := mustMonomial(t, env, "x*y")
	b := mustMonomial(t, env, "y*x")
	if !a.Literal().Equal(b.Literal()) || a.Literal().Key() != b.Literal().Key() {
		t.Error("x*y and y*x should share a literal part")
	}
	if a.Literal().Equal(mustMonomial(t, env, "x^2*y").Literal()) {
		t.Error("x*y and x^2*y should differ")
	}
	if x, ok := a.Literal().Lookup(expr.Var("y")); !ok || !expr.IsOne(x) {
		t.Errorf("Lookup(y) = %v, %v", x, ok)
	}
}

func TestMonomialOps(t *testing.T) {
	env := decimalEnv()
	two, three := mustMonomial(t, env, "2x"), mustMonomial(t, env, "3x")

	if s, ok := Sum(env, two, three); !ok || s.String() != "5x" {
		t.Errorf("Sum(2x, 3x) = %v, %v", s, ok)
	}
	if _, ok := Sum(env, two, mustMonomial(t, env, "y")); ok {
		t.Error("Sum(2x, y) should fail")
	}
	if s, ok := Sum(env, two, two.Negate()); !ok || !s.IsZero() {
		t.Errorf("Sum(2x, -2x) = %v, want 0", s)
	}
	if got := Multiply(env, two, mustMonomial(t, env, "3y")).String(); got != "6x*y" {
		t.Errorf("Multiply(2x, 3y) = %s", got)
	}

	q, err := Divide(env, mustMonomial(t, env, "6x^2"), two)
	if err != nil || q.String() != "3x" {
		t.Errorf("Divide(6x^2, 2x) = %v, %v", q, err)
	}
	q, err = Divide(env, mustMonomial(t, env, "x"), mustMonomial(t, env, "x^2"))
	if err != nil || q.String() != "1/x" {
		t.Errorf("Divide(x, x^2) = %v, %v", q, err)
	}

	zero := mustMonomial(t, env, "0")
	if _, err := Divide(env, two, zero); !errors.Is(err, expr.ErrArithmetic) {
		t.Errorf("Divide(2x, 0) error = %v", err)
	}
	if _, err := Divide(env, zero, zero); !errors.Is(err, expr.ErrArithmetic) {
		t.Errorf("Divide(0, 0) error = %v", err)
	}
}

func TestFractionalCoefficients(t *testing.T) {
	env := fractionalEnv()
	m := mustMonomial(t, env, "2*π*x/4")
	if got := m.String(); got != "1/2*x*π" {
		t.Errorf("FromTerm(2*π*x/4) = %s", got)
	}
	if _, ok := m.Coefficient().(*expr.Fraction); !ok {
		t.Errorf("coefficient %s is %T, want a fraction", m.Coefficient(), m.Coefficient())
	}
}

func TestPolynomialDegree(t *testing.T) {
	env := decimalEnv()
	tests := []struct {
		src  string
		want int64
	}{
		{"x^2+3x+1", 2},
		{"2x-1", 1},
		{"x^0.5+x", 1},
		{"x^2*y+x", 2},
		{"x*x*x-1", 3},
	}
	for _, tc := range tests {
		got, err := mustPolynomial(t, env, tc.src).Degree("x")
		if err != nil {
			t.Errorf("Degree(%q) failed: %v", tc.src, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Degree(%q) = %d, want %d", tc.src, got, tc.want)
		}
	}

	for _, src := range []string{"3", "2^x", "ln(x)+x", "y+1"} {
		if _, err := mustPolynomial(t, env, src).Degree("x"); !errors.Is(err, expr.ErrUnsupported) {
			t.Errorf("Degree(%q) error = %v, want unsupported", src, err)
		}
	}
}

func TestPolynomialCoefficient(t *testing.T) {
	env := decimalEnv()
	p := mustPolynomial(t, env, "3x^2-2x+5")
	got := make([]string, 0, 3)
	for n := int64(2); n >= 0; n-- {
		c, err := p.Coefficient(env, "x", n)
		if err != nil {
			t.Fatalf("Coefficient(x, %d) failed: %v", n, err)
		}
		got = append(got, c.String())
	}
	if diff := cmp.Diff([]string{"3", "-2", "5"}, got); diff != "" {
		t.Errorf("coefficients mismatch (-want +got):\n%s", diff)
	}

	c, err := mustPolynomial(t, env, "2x+3x").Coefficient(env, "x", 1)
	if err != nil || c.String() != "5" {
		t.Errorf("Coefficient(2x+3x) = %v, %v", c, err)
	}
	if _, err := mustPolynomial(t, env, "x*y+1").Coefficient(env, "x", 1); !errors.Is(err, expr.ErrUnsupported) {
		t.Errorf("Coefficient(x*y) error = %v", err)
	}
	if _, err := mustPolynomial(t, env, "x^0.5+1").Coefficient(env, "x", 0); !errors.Is(err, expr.ErrUnsupported) {
		t.Errorf("Coefficient(x^0.5) error = %v", err)
	}
}

func TestCollect(t *testing.T) {
	env := decimalEnv()
	tests := []struct {
		src  string
		want string
	}{
		{"x+2y+3x-2y", "4x"},
		{"7x+4y-2x+2", "5x+4y+2"},
		{"x-x", "0"},
	}
	for _, tc := range tests {
		p := mustPolynomial(t, env, tc.src)
		if got := p.Collect(env).String(); got != tc.want {
			t.Errorf("Collect(%q) = %s, want %s", tc.src, got, tc.want)
		}
	}
	if got := mustPolynomial(t, env, "x-2").Negate().String(); got != "-x+2" {
		t.Errorf("Negate(x-2) = %s", got)
	}
}

func TestCancel(t *testing.T) {
	env := decimalEnv()
	tests := []struct {
		num, den     string
		wantN, wantD string
		changed      bool
	}{
		{"x^3*y", "x*y^2", "x^2", "y", true},
		{"2x", "x", "2", "1", true},
		{"x^2", "y", "x^2", "y", false},
		{"x^y", "x", "x^y", "x", false},
	}
	for _, tc := range tests {
		n, d, changed := Cancel(env, mustMonomial(t, env, tc.num), mustMonomial(t, env, tc.den))
		if n.String() != tc.wantN || d.String() != tc.wantD || changed != tc.changed {
			t.Errorf("Cancel(%s, %s) = %s, %s, %v; want %s, %s, %v",
				tc.num, tc.den, n, d, changed, tc.wantN, tc.wantD, tc.changed)
		}
	}
}
