package simplify

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/wildfunctions/algebra/pkg/expr"
	"github.com/wildfunctions/algebra/pkg/parse"
)

func envFor(mode expr.Mode) *expr.Env {
	cfg := expr.DefaultConfig()
	cfg.Mode = mode
	return expr.NewEnv(cfg)
}

func mustParse(t *testing.T, src string, mode expr.Mode) *expr.Expression {
	t.Helper()
	e, err := parse.ParseMode(src, mode)
	if err != nil {
		t.Fatalf("ParseMode(%q) failed: %v", src, err)
	}
	return e
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		src  string
		mode expr.Mode
		want string
	}{
		{"(2*x)*(3*x)", expr.Decimal, "6x^2"},
		{"7*x+4*y-2*x+2", expr.Decimal, "5x+4y+2"},
		{"2*4+7", expr.Decimal, "15"},
		{"2(x+1)", expr.Decimal, "2x+2"},
		{"(x+1)*3", expr.Decimal, "3x+3"},
		{"-(x-1)", expr.Decimal, "-x+1"},
		{"x*x/x", expr.Decimal, "x"},
		{"x^1", expr.Decimal, "x"},
		{"x^0", expr.Decimal, "1"},
		{"(x^2)^3", expr.Decimal, "x^6"},
		{"(2x)^2", expr.Decimal, "4x^2"},
		{"log(2,2^x)", expr.Decimal, "x"},
		{"ln(x^2)", expr.Decimal, "2ln(x)"},
		{"x/(2/y)", expr.Decimal, "0.5x*y"},
		{"6/x/3", expr.Decimal, "2/x"},
		{"2/x*3", expr.Decimal, "6/x"},
		{"2*x/4/y", expr.Decimal, "0.5x/y"},
		{"6/x/3", expr.Fractional, "2/x"},
		{"2*π*3", expr.Fractional, "6π"},
		{"x/2+x/2", expr.Fractional, "x"},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			got := Simplify(envFor(tc.mode), mustParse(t, tc.src, tc.mode))
			if got.String() != tc.want {
				t.Errorf("Simplify(%q) = %s, want %s", tc.src, got, tc.want)
			}
		})
	}
}

func TestSignTerm(t *testing.T) {
	env := envFor(expr.Decimal)
	in := expr.Mul(expr.Var("x"), expr.NewVariable(expr.Minus, "y"))
	if got := Simplify(env, in).String(); got != "-x*y" {
		t.Errorf("Simplify(%s) = %s, want -x*y", in, got)
	}
}

func TestIdempotent(t *testing.T) {
	env := envFor(expr.Decimal)
	for _, src := range []string{
		"(x+1)*(x+1)",
		"3x^2-2x+5-x^2",
		"x/(x*y)",
		"ln(e^x)+2*3",
		"(x*y)^2/x",
		"|x|+|x|",
	} {
		once := Simplify(env, mustParse(t, src, expr.Decimal))
		twice := Simplify(env, once)
		if expr.Fingerprint(once) != expr.Fingerprint(twice) {
			t.Errorf("Simplify(%q) is not idempotent: %s then %s", src, once, twice)
		}
	}
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer
	s := New(log.New(&buf, "", 0))
	s.Simplify(envFor(expr.Decimal), mustParse(t, "2*4+7", expr.Decimal))
	if !strings.Contains(buf.String(), "ScalarEvaluator: 2*4+7 -> 15") {
		t.Errorf("trace missing rewrite, got:\n%s", buf.String())
	}
}

func TestCycle(t *testing.T) {
	swap := Rule{
		Name: "swap",
		Applies: func(c expr.Component) bool {
			_, ok := c.(*expr.Variable)
			return ok
		},
		Transform: func(_ *expr.Env, c expr.Component) expr.Component {
			if c.(*expr.Variable).Name() == "x" {
				return expr.Var("y")
			}
			return expr.Var("x")
		},
	}
	var buf bytes.Buffer
	s := &Simplifier{Rules: []Rule{swap}, Logger: log.New(&buf, "", 0)}
	got := s.Simplify(envFor(expr.Decimal), expr.Var("x"))
	if got.String() != "x" {
		t.Errorf("Simplify = %s, want x", got)
	}
	if !strings.Contains(buf.String(), "cycle: x") {
		t.Errorf("cycle not logged, got:\n%s", buf.String())
	}
}

func TestMaxPasses(t *testing.T) {
	grow := Rule{
		Name: "grow",
		Applies: func(c expr.Component) bool {
			_, ok := c.(*expr.Expression)
			return ok
		},
		Transform: func(_ *expr.Env, c expr.Component) expr.Component {
			return expr.Add(c, expr.Var("z"))
		},
	}
	var buf bytes.Buffer
	s := &Simplifier{Rules: []Rule{grow}, Logger: log.New(&buf, "", 0), MaxPasses: 3}
	got := s.Simplify(envFor(expr.Decimal), expr.Var("x"))
	if n := len(got.Terms()); n != 4 {
		t.Errorf("Simplify = %s with %d terms, want 4", got, n)
	}
	if !strings.Contains(buf.String(), "gave up after 3 passes") {
		t.Errorf("limit not logged, got:\n%s", buf.String())
	}
}
