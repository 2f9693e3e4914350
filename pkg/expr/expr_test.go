package expr

import (
	"math"
	"math/big"
	"testing"

	"github.com/cockroachdb/apd"
	"github.com/pkg/errors"

	"github.com/wildfunctions/algebra/pkg/decimal"
)

var (
	x = Var("x")
	y = Var("y")
)

func assertEval(t *testing.T, node Component, want string) {
	t.Helper()
	got, err := node.Eval(NewEnv(DefaultConfig()))
	if err != nil {
		t.Fatalf("Eval(%s) failed: %v", node, err)
	}
	if s := decimal.Format(got); s != want {
		t.Errorf("Eval(%s) = %s, want %s", node, s, want)
	}
}

func assertEvalAt(t *testing.T, node Component, at int64, want float64) {
	t.Helper()
	env := NewEnv(DefaultConfig()).Bind("x", apd.New(at, 0))
	got, err := node.Eval(env)
	if err != nil {
		t.Fatalf("Eval(%s, x=%d) failed: %v", node, at, err)
	}
	f, _ := got.Float64()
	if math.Abs(f-want) > 1e-12 {
		t.Errorf("Eval(%s, x=%d) = %v, want %v", node, at, f, want)
	}
}

func TestLiteralEval(t *testing.T) {
	assertEval(t, Add(Mul(Int(2), Int(4)), Int(7)), "15")
	assertEval(t, Pow(Add(Int(2), Pow(Int(4), Int(3))), Int(5)), "1252332576")
	assertEval(t, NewFactorial(Plus, Int(3)), "6")
	assertEval(t, Pow(Int(2), Int(-3)), "0.125")
	assertEval(t, NewFactorial(Plus, Int(0)), "1")
	assertEval(t, Pow(Int(-2), Int(3)), "-8")
	assertEval(t, NewRoot(Plus, 3, Int(-27)), "-3")
	assertEval(t, Ln(NewNamed(Plus, E)), "1")
	assertEval(t, Ln(Pow(NewNamed(Plus, E), Int(2))), "2")
	assertEval(t, NewRoot(Plus, 2, Int(144)), "12")
	assertEval(t, NewAbs(Plus, Sub(Int(2), Int(9))), "7")
	assertEval(t, NewLogarithm(Plus, apd.New(2, 0), AsExpression(Int(1024))), "10")
	assertEval(t, Log10(Int(1000)), "3")
}

func TestLeftAssociativeDivision(t *testing.T) {
	// 8/4/2 is (8/4)/2, and 8/4*2 is (8/4)*2.
	div := NewTerm([]Factor{Int(8), Int(4), Int(2)}, []TermOp{Multiply, Divide, Divide})
	assertEval(t, div, "1")
	mixed := NewTerm([]Factor{Int(8), Int(4), Int(2)}, []TermOp{Multiply, Divide, Multiply})
	assertEval(t, mixed, "4")
}

func TestNamedConstants(t *testing.T) {
	assertEval(t, NewNamed(Plus, E), "2.718281828459045")
	assertEval(t, NewNamed(Plus, Pi), "3.141592653589793")
	assertEval(t, NewNamed(Minus, Pi), "-3.141592653589793")
}

func TestRounding(t *testing.T) {
	twoThirds := Div(Int(2), Int(3))
	tests := []struct {
		rounding string
		want     string
	}{
		{"half_even", "0.6666666666666667"},
		{"down", "0.6666666666666666"},
		{"bogus", "0.6666666666666667"},
	}
	for _, tc := range tests {
		t.Run(tc.rounding, func(t *testing.T) {
			got, err := twoThirds.Eval(NewEnv(Config{Rounding: tc.rounding}))
			if err != nil {
				t.Fatal(err)
			}
			if s := decimal.Format(got); s != tc.want {
				t.Errorf("2/3 with %s = %s, want %s", tc.rounding, s, tc.want)
			}
		})
	}
}

func TestEvalFailures(t *testing.T) {
	third := NewFraction(Plus, big.NewInt(1), big.NewInt(3))
	tests := []struct {
		name string
		node Component
		kind error
	}{
		{"division by zero", Div(Int(1), Int(0)), ErrArithmetic},
		{"negative base fractional exponent", Pow(Int(-8), third), ErrArithmetic},
		{"zero to negative power", Pow(Int(0), Int(-1)), ErrArithmetic},
		{"negative factorial", NewFactorial(Plus, Int(-1)), ErrArithmetic},
		{"fractional factorial", NewFactorial(Plus, NewConstant(Plus, apd.New(25, -1))), ErrArithmetic},
		{"log of zero", Ln(Int(0)), ErrArithmetic},
		{"log base one", NewLogarithm(Plus, apd.New(1, 0), AsExpression(Int(5))), ErrArithmetic},
		{"even root of negative", NewRoot(Plus, 2, Int(-4)), ErrArithmetic},
		{"exponent below int32", Pow(Int(2), NewConstant(Plus, apd.New(math.MinInt32-1, 0))), ErrArithmetic},
		{"unbound variable", Add(x, Int(1)), ErrUnsupported},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.node.Eval(NewEnv(DefaultConfig()))
			if !errors.Is(err, tc.kind) {
				t.Errorf("Eval(%s) error = %v, want %v", tc.node, err, tc.kind)
			}
		})
	}
}

func TestSignNormalization(t *testing.T) {
	c := NewConstant(Minus, apd.New(-3, 0))
	if c.Sign() != Plus || decimal.Format(c.Magnitude()) != "3" {
		t.Errorf("NewConstant(-, -3) = %s%s, want +3", c.Sign(), decimal.Format(c.Magnitude()))
	}
	c = NewConstant(Plus, apd.New(-3, 0))
	if c.Sign() != Minus || decimal.Format(c.Magnitude()) != "3" {
		t.Errorf("NewConstant(+, -3) = %s%s, want -3", c.Sign(), decimal.Format(c.Magnitude()))
	}
	if z := NewConstant(Minus, apd.New(0, 0)); z.Sign() != Plus {
		t.Errorf("zero constant has sign %s", z.Sign())
	}
	f := NewFraction(Minus, big.NewInt(-1), big.NewInt(2))
	if f.Sign() != Plus || f.String() != "1/2" {
		t.Errorf("NewFraction(-, -1, 2) = %s with sign %s", f, f.Sign())
	}
}

func TestConstructionFolding(t *testing.T) {
	if !Product(x, Int(0)).IsZero() {
		t.Error("x*0 should collapse to zero")
	}
	if tm := Product(Int(1), x); tm.Len() != 1 || tm.String() != "x" {
		t.Errorf("1*x = %s (%d factors), want x", tm, tm.Len())
	}
	if s := Quotient(Int(1), x).String(); s != "1/x" {
		t.Errorf("1/x renders as %q", s)
	}
	if s := Quotient(x, Int(1)).String(); s != "x" {
		t.Errorf("x/1 renders as %q", s)
	}
	if e := NewExpression(Product(Int(0)), Product(x)); e.String() != "x" {
		t.Errorf("0+x = %s, want x", e)
	}
	if !NewExpression().IsZero() {
		t.Error("empty sum should be zero")
	}
	// A zero divisor is kept so that evaluation can fail on it.
	if Div(x, Int(0)).IsZero() {
		t.Error("x/0 must not collapse to zero")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		node Component
		want string
	}{
		{Mul(Int(6), Pow(x, Int(2))), "6x^2"},
		{Pow(x.WithSign(Minus), Int(2)), "(-x)^2"},
		{NewExponential(Minus, x, Int(2)), "-x^2"},
		{Mul(x, y.WithSign(Minus)), "x*-y"},
		{Sub(x, Int(3)), "x-3"},
		{Sub(x, Mul(Int(2), y)), "x-2y"},
		{Add(Mul(Int(5), x), Add(Mul(Int(4), y), Int(2))), "5x+4y+2"},
		{Mul(Int(2), Int(3)), "2*3"},
		{Ln(x), "ln(x)"},
		{Log10(x), "log(x)"},
		{NewLogarithm(Plus, apd.New(2, 0), AsExpression(x)), "log(2,x)"},
		{NewRoot(Plus, 2, NewParenthesized(Plus, Add(x, Int(1)))), "√(x+1)"},
		{NewRoot(Plus, 3, x), "∛x"},
		{NewRoot(Plus, 5, x), "root(5,x)"},
		{NewFactorial(Plus, Int(3)), "3!"},
		{NewFactorial(Plus, NewFactorial(Plus, x)), "(x!)!"},
		{NewAbs(Minus, Sub(x, Int(1))), "-|x-1|"},
		{NewFunction(Plus, "sin", AsExpression(x)), "sin(x)"},
		{Pow(x, NewFraction(Plus, big.NewInt(1), big.NewInt(2))), "x^(1/2)"},
		{Mul(Int(2), NewNamed(Plus, Pi)), "2π"},
		{NewConstant(Plus, apd.New(125, -3)), "0.125"},
	}
	for _, tc := range tests {
		if got := tc.node.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestLaTeX(t *testing.T) {
	tests := []struct {
		node Component
		want string
	}{
		{Div(x, Int(2)), `\frac{x}{2}`},
		{Pow(x, Int(2)), `{x}^{2}`},
		{NewRoot(Plus, 2, x), `\sqrt{x}`},
		{NewRoot(Plus, 3, x), `\sqrt[3]{x}`},
		{Mul(Int(2), NewNamed(Plus, Pi)), `2{\pi}`},
		{Mul(x, y), `x \cdot y`},
		{Sub(x, y), `x - y`},
		{Ln(x), `\ln\left(x\right)`},
		{NewFraction(Plus, big.NewInt(1), big.NewInt(3)), `\frac{1}{3}`},
		{NewAbs(Plus, AsExpression(x)), `\left|x\right|`},
	}
	for _, tc := range tests {
		if got := tc.node.LaTeX(); got != tc.want {
			t.Errorf("LaTeX() = %q, want %q", got, tc.want)
		}
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Component
	}{
		{"higher power first", Pow(x, Int(2)), x},
		{"variable before constant", x, Int(3)},
		{"smaller constant first", Int(2), Int(3)},
		{"alphabetical variables", x, y},
		{"root before variable", NewRoot(Plus, 2, x), y},
		{"parenthesized before root", NewParenthesized(Plus, AsExpression(x)), NewRoot(Plus, 2, x)},
		{"variable before logarithm", y, Ln(x)},
		{"constant before equal fraction", Int(1), NewFraction(Plus, big.NewInt(2), big.NewInt(2))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if c := Compare(tc.a, tc.b); c >= 0 {
				t.Errorf("Compare(%s, %s) = %d, want < 0", tc.a, tc.b, c)
			}
			if c := Compare(tc.b, tc.a); c <= 0 {
				t.Errorf("Compare(%s, %s) = %d, want > 0", tc.b, tc.a, c)
			}
		})
	}
	if !Equal(x, Pow(x, Int(1))) {
		t.Error("x and x^1 should compare equal")
	}
	if !Equal(Add(x, Int(1)), Add(x, Int(1))) {
		t.Error("structurally equal sums should compare equal")
	}
}

func TestFingerprint(t *testing.T) {
	if Fingerprint(x) == Fingerprint(Pow(x, Int(1))) {
		t.Error("x and x^1 should have different fingerprints")
	}
	if Fingerprint(x) == Fingerprint(x.WithSign(Minus)) {
		t.Error("x and -x should have different fingerprints")
	}
	if Fingerprint(Add(x, Int(1))) != Fingerprint(Add(Var("x"), Int(1))) {
		t.Error("equal trees should share a fingerprint")
	}
	if Fingerprint(Div(x, y)) == Fingerprint(Mul(x, y)) {
		t.Error("x/y and x*y should differ")
	}
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name string
		node Component
		at   int64
		want float64
	}{
		{"2x", Mul(Int(2), x), 5, 2},
		{"x/2", Div(x, Int(2)), 5, 0.5},
		{"x^3", Pow(x, Int(3)), 2, 12},
		{"x^2+3x", Add(Pow(x, Int(2)), Mul(Int(3), x)), 4, 11},
		{"1/x", Div(Int(1), x), 2, -0.25},
		{"x*x", Mul(x, x), 3, 6},
		{"ln(x)", Ln(x), 2, 0.5},
		{"log(x)", Log10(x), 1, 1 / math.Ln10},
		{"√x", NewRoot(Plus, 2, x), 4, 0.25},
		{"2^x", Pow(Int(2), x), 3, 8 * math.Ln2},
		{"x^x", Pow(x, x), 1, 1},
		{"-x", x.WithSign(Minus), 7, -1},
		{"(x+1)", NewParenthesized(Minus, Add(x, Int(1))), 7, -1},
		{"π", NewNamed(Plus, Pi), 1, 0},
		{"3!x", Mul(NewFactorial(Plus, Int(3)), x), 1, 6},
		{"sin(y)+x", Add(NewFunction(Plus, "sin", AsExpression(y)), x), 1, 1},
		{"|-2|x", Mul(NewAbs(Plus, AsExpression(Int(-2))), x), 1, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := tc.node.Derive("x")
			if err != nil {
				t.Fatalf("Derive(%s) failed: %v", tc.node, err)
			}
			assertEvalAt(t, d, tc.at, tc.want)
		})
	}
}

func TestDeriveOtherVariable(t *testing.T) {
	d, err := Mul(Int(3), y).Derive("x")
	if err != nil {
		t.Fatal(err)
	}
	if !IsZero(d) {
		t.Errorf("d/dx 3y = %s, want 0", d)
	}
}

func TestDeriveUnsupported(t *testing.T) {
	nodes := []Component{
		NewAbs(Plus, AsExpression(x)),
		NewFunction(Plus, "sin", AsExpression(x)),
		NewFactorial(Plus, x),
		Add(Int(1), NewAbs(Plus, AsExpression(x))),
	}
	for _, n := range nodes {
		if _, err := n.Derive("x"); !errors.Is(err, ErrUnsupported) {
			t.Errorf("Derive(%s) error = %v, want ErrUnsupported", n, err)
		}
	}
}

func TestFoldScalar(t *testing.T) {
	frac := NewEnv(Config{Mode: Fractional})
	dec := NewEnv(DefaultConfig())
	pi := NewNamed(Plus, Pi)
	third := NewFraction(Plus, big.NewInt(1), big.NewInt(3))
	sixth := NewFraction(Plus, big.NewInt(1), big.NewInt(6))

	tests := []struct {
		name string
		env  *Env
		node Component
		want string
	}{
		{"decimal sum", dec, Add(Int(2), Int(3)), "5"},
		{"decimal pi", dec, Mul(Int(2), pi), "6.283185307179586"},
		{"exact sum", frac, Add(third, sixth), "1/2"},
		{"exact quotient", frac, Div(Int(4), Int(2)), "2"},
		{"exact power", frac, Pow(Int(2), Int(-2)), "1/4"},
		{"symbolic product", frac, Mul(Mul(Int(2), pi), Int(3)), "6π"},
		{"negative symbolic product", frac, Mul(Int(-2), pi), "-2π"},
		{"exact root", frac, NewRoot(Plus, 2, NewFraction(Plus, big.NewInt(4), big.NewInt(9))), "2/3"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := FoldScalar(tc.env, tc.node)
			if !ok {
				t.Fatalf("FoldScalar(%s) did not fold", tc.node)
			}
			if got.String() != tc.want {
				t.Errorf("FoldScalar(%s) = %s, want %s", tc.node, got, tc.want)
			}
		})
	}

	if _, ok := FoldScalar(dec, Add(x, Int(1))); ok {
		t.Error("FoldScalar should refuse a non-scalar")
	}
	if _, ok := FoldScalar(dec, Div(Int(1), Int(0))); ok {
		t.Error("FoldScalar should refuse a failing evaluation")
	}
}

func TestComplexity(t *testing.T) {
	sum := Add(x, Int(1))
	if n := x.NodeCount(); n != 1 {
		t.Errorf("x.NodeCount() = %d, want 1", n)
	}
	if n := sum.NodeCount(); n != 5 {
		t.Errorf("(x+1).NodeCount() = %d, want 5", n)
	}
	if d := sum.Depth(); d != 3 {
		t.Errorf("(x+1).Depth() = %d, want 3", d)
	}
	if w := WeightedComplexity(sum); w != 3 {
		t.Errorf("WeightedComplexity(x+1) = %v, want 3", w)
	}
	nested := NewParenthesized(Plus, sum)
	if WeightedComplexity(nested) <= WeightedComplexity(sum) {
		t.Error("parentheses should add complexity")
	}
}

func TestMapChildren(t *testing.T) {
	// A sum returned for a term is spliced into the parent sum.
	got := MapChildren(Add(x, y), func(c Component) Component {
		return Add(c, Int(1))
	})
	if e, ok := got.(*Expression); !ok || len(e.Terms()) != 4 || e.String() != "x+1+y+1" {
		t.Errorf("MapChildren splice sum = %s", got)
	}

	// A product returned for a multiplied factor is spliced into the chain.
	got = MapChildren(Mul(Int(2), x), func(c Component) Component {
		if v, ok := c.(*Variable); ok && v.Name() == "x" {
			return Mul(x, y)
		}
		return c
	})
	if tm, ok := got.(*Term); !ok || tm.Len() != 3 || tm.String() != "2x*y" {
		t.Errorf("MapChildren splice product = %s", got)
	}

	// A product returned for a divisor stays grouped.
	got = MapChildren(Div(Int(1), x), func(c Component) Component {
		if _, ok := c.(*Variable); ok {
			return Mul(Int(2), y)
		}
		return c
	})
	if s := got.String(); s != "1/(2y)" {
		t.Errorf("MapChildren divisor = %s, want 1/(2y)", s)
	}
}

func TestContains(t *testing.T) {
	n := Add(Ln(Pow(x, Int(2))), Int(1))
	if !Contains(n, "x") {
		t.Error("ln(x^2)+1 contains x")
	}
	if Contains(n, "y") {
		t.Error("ln(x^2)+1 does not contain y")
	}
	if n.IsScalar() || !Add(Int(1), NewNamed(Plus, E)).IsScalar() {
		t.Error("IsScalar mismatch")
	}
}
