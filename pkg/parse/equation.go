package parse

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wildfunctions/algebra/pkg/expr"
)

// HasRelation reports whether s contains a relational operator outside
// parentheses.
func HasRelation(s string) bool {
	_, _, _, ok := findRelation(strings.Join(strings.Fields(s), ""))
	return ok
}

// IsDerivative reports whether s is a derivative request D[expr,x].
func IsDerivative(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "D[")
}

// ParseEquation parses "lhs ⋈ rhs" where ⋈ is one of = != < <= > >=.
func ParseEquation(src string, mode expr.Mode) (expr.Equation, error) {
	ps, err := newParser(src, mode)
	if err != nil {
		return expr.Equation{}, err
	}
	at, width, rel, ok := findRelation(ps.src)
	if !ok {
		return expr.Equation{}, ps.errorf("missing relational operator")
	}
	if _, _, _, again := findRelation(ps.src[at+width:]); again {
		ps.pos = at + width
		return expr.Equation{}, ps.errorf("more than one relational operator")
	}
	left, err := ps.sub(0, at, "left side")
	if err != nil {
		return expr.Equation{}, err
	}
	right, err := ps.sub(at+width, ps.end, "right side")
	if err != nil {
		return expr.Equation{}, err
	}
	return expr.Equation{Left: left, Right: right, Rel: rel}, nil
}

// ParseDerivative parses "D[expr,x]" and returns the expression and the
// variable.
func ParseDerivative(src string, mode expr.Mode) (*expr.Expression, string, error) {
	ps, err := newParser(src, mode)
	if err != nil {
		return nil, "", err
	}
	if !strings.HasPrefix(ps.src, "D[") || !strings.HasSuffix(ps.src, "]") {
		return nil, "", ps.errorf("derivative must have the form D[expression,variable]")
	}
	inner := len(ps.src) - len("]")
	comma := -1
	depth := 0
	for i := len("D["); i < inner; i++ {
		switch ps.src[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				comma = i
			}
		}
	}
	if comma < 0 {
		ps.pos = len("D[")
		return nil, "", ps.errorf("derivative needs a variable")
	}
	v := ps.src[comma+1 : inner]
	r, size := utf8.DecodeRuneInString(v)
	if size != len(v) || !unicode.IsLetter(r) || r == 'e' || r == 'π' {
		ps.pos = comma + 1
		return nil, "", ps.errorf("invalid variable")
	}
	e, err := ps.sub(len("D["), comma, "expression")
	if err != nil {
		return nil, "", err
	}
	return e, v, nil
}
