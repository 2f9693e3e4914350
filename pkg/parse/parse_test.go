package parse

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/wildfunctions/algebra/pkg/decimal"
	"github.com/wildfunctions/algebra/pkg/expr"
)

func mustParse(t *testing.T, src string) *expr.Expression {
	t.Helper()
	e, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	return e
}

func assertValue(t *testing.T, src, want string) {
	t.Helper()
	e := mustParse(t, src)
	v, err := e.Eval(expr.NewEnv(expr.DefaultConfig()))
	if err != nil {
		t.Fatalf("Eval(%q) failed: %v", src, err)
	}
	if got := decimal.Format(v); got != want {
		t.Errorf("Eval(%q) = %s, want %s", src, got, want)
	}
}

func TestParseRendering(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"", "0"},
		{"2*4+7", "2*4+7"},
		{"(2+4^3)^5", "(2+4^3)^5"},
		{"3!", "3!"},
		{"2^-3", "2^-3"},
		{"2x", "2x"},
		{" 2 * x ", "2x"},
		{"xy", "x*y"},
		{"2(x+1)", "2(x+1)"},
		{"-x^2", "-x^2"},
		{"(-x)^2", "(-x)^2"},
		{"x^2^3", "x^2^3"},
		{"x-2y", "x-2y"},
		{"x+-3", "x-3"},
		{"--3", "3"},
		{"2*0*x", "0"},
		{"x*1", "x"},
		{"1/2/3", "1/2/3"},
		{"√x", "√x"},
		{"∛(x+1)", "∛(x+1)"},
		{"∜16", "∜16"},
		{"root(5-th,x)", "root(5,x)"},
		{"root(5,x)", "root(5,x)"},
		{"log(100)", "log(100)"},
		{"log(2,x)", "log(2,x)"},
		{"log(e,x)", "ln(x)"},
		{"ln(x)", "ln(x)"},
		{"2ln(x)", "2ln(x)"},
		{"|x-|y||", "|x-|y||"},
		{"||x|-|y||", "||x|-|y||"},
		{"sin(x)+sinh(x)", "sin(x)+sinh(x)"},
		{"2π", "2π"},
		{"e^x", "e^x"},
		{"x!!", "(x!)!"},
		{"(x+1)!", "(x+1)!"},
		{".5", "0.5"},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			if got := mustParse(t, tc.src).String(); got != tc.want {
				t.Errorf("Parse(%q).String() = %q, want %q", tc.src, got, tc.want)
			}
		})
	}
}

func TestParseValues(t *testing.T) {
	assertValue(t, "2*4+7", "15")
	assertValue(t, "(2+4^3)^5", "1252332576")
	assertValue(t, "3!", "6")
	assertValue(t, "2^-3", "0.125")
	assertValue(t, "8/4/2", "1")
	assertValue(t, "8/4*2", "4")
	assertValue(t, "2^3^2", "512")
	assertValue(t, "-2^2", "-4")
	assertValue(t, "(-2)^2", "4")
	assertValue(t, "|3-10|", "7")
	assertValue(t, "√16+∛27", "7")
	assertValue(t, "root(3rd,8)", "2")
	assertValue(t, "log(1000)", "3")
	assertValue(t, "3!!", "720")
	assertValue(t, "2(3+4)", "14")
}

func TestParseConstantsAndVariables(t *testing.T) {
	e := mustParse(t, "e*x")
	fs := e.Terms()[0].Factors()
	if n, ok := fs[0].(*expr.Named); !ok || n.Kind() != expr.E {
		t.Errorf("e parsed as %T", fs[0])
	}
	if v, ok := fs[1].(*expr.Variable); !ok || v.Name() != "x" {
		t.Errorf("x parsed as %T", fs[1])
	}
	if _, ok := mustParse(t, "exp(x)").Terms()[0].Factors()[0].(*expr.Function); !ok {
		t.Error("exp(x) should parse as a function")
	}
	if _, ok := mustParse(t, "π").Terms()[0].Factors()[0].(*expr.Named); !ok {
		t.Error("π should parse as a named constant")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		mode expr.Mode
		rest string
		msg  string
	}{
		{"unclosed", "(x+1", expr.Decimal, "(x+1", "unbalanced parentheses"},
		{"unopened", "x+1)", expr.Decimal, ")", "unbalanced parentheses"},
		{"bad token", "x+#", expr.Decimal, "#", "unexpected token"},
		{"double dot", "2..3", expr.Decimal, ".3", "unexpected token"},
		{"fractional dot", "0.5+x", expr.Fractional, ".5+x", "decimal numbers are not allowed in fractional mode"},
		{"empty parens", "()", expr.Decimal, ")", "empty parentheses"},
		{"unmatched bar", "|x", expr.Decimal, "|x", "unmatched absolute value bar"},
		{"root index", "root(1,x)", expr.Decimal, "1,x)", "invalid root index"},
		{"log base", "log(1,x)", expr.Decimal, "1,x)", "invalid logarithm base"},
		{"dangling power", "x^", expr.Decimal, "", "missing operand"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseMode(tc.src, tc.mode)
			if !errors.Is(err, expr.ErrSyntax) {
				t.Fatalf("ParseMode(%q) error = %v, want syntax error", tc.src, err)
			}
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("error %v is not a *parse.Error", err)
			}
			if perr.Rest != tc.rest || perr.Msg != tc.msg {
				t.Errorf("error = {Rest: %q, Msg: %q}, want {Rest: %q, Msg: %q}", perr.Rest, perr.Msg, tc.rest, tc.msg)
			}
			if perr.Input != tc.src {
				t.Errorf("error input = %q, want %q", perr.Input, tc.src)
			}
		})
	}
}

func TestParseEquation(t *testing.T) {
	tests := []struct {
		src         string
		left, right string
		rel         expr.Relation
	}{
		{"2x+1 = 3", "2x+1", "3", expr.Eq},
		{"x^2 <= 4", "x^2", "4", expr.Lte},
		{"x != 1", "x", "1", expr.Neq},
		{"x!=1", "x", "1", expr.Neq},
		{"x≥2", "x", "2", expr.Gte},
		{"x>0", "x", "0", expr.Gt},
		{"log(2,x)<1", "log(2,x)", "1", expr.Lt},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			eq, err := ParseEquation(tc.src, expr.Decimal)
			if err != nil {
				t.Fatal(err)
			}
			if eq.Left.String() != tc.left || eq.Right.String() != tc.right || eq.Rel != tc.rel {
				t.Errorf("ParseEquation(%q) = %s, want %s%s%s", tc.src, eq, tc.left, tc.rel, tc.right)
			}
		})
	}

	for _, src := range []string{"x=1=2", "x+1", "=3", "x<"} {
		if _, err := ParseEquation(src, expr.Decimal); !errors.Is(err, expr.ErrSyntax) {
			t.Errorf("ParseEquation(%q) error = %v, want syntax error", src, err)
		}
	}
	if !HasRelation("x^2 >= 1") || HasRelation("x^2+1") {
		t.Error("HasRelation mismatch")
	}
}

func TestParseDerivative(t *testing.T) {
	tests := []struct {
		src  string
		want string
		v    string
	}{
		{"D[2*x,x]", "2x", "x"},
		{"D[x/2, x]", "x/2", "x"},
		{"D[log(2,y),y]", "log(2,y)", "y"},
	}
	for _, tc := range tests {
		e, v, err := ParseDerivative(tc.src, expr.Decimal)
		if err != nil {
			t.Fatalf("ParseDerivative(%q) failed: %v", tc.src, err)
		}
		if e.String() != tc.want || v != tc.v {
			t.Errorf("ParseDerivative(%q) = %s, %s; want %s, %s", tc.src, e, v, tc.want, tc.v)
		}
	}

	for _, src := range []string{"D[x]", "D[x,2]", "D[x,e]", "D[x,x", "x,x"} {
		if _, _, err := ParseDerivative(src, expr.Decimal); !errors.Is(err, expr.ErrSyntax) {
			t.Errorf("ParseDerivative(%q) error = %v, want syntax error", src, err)
		}
	}
	if !IsDerivative(" D[x,x]") || IsDerivative("x+1") {
		t.Error("IsDerivative mismatch")
	}
}
