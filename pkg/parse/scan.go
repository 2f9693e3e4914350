package parse

import (
	"unicode/utf8"

	"github.com/wildfunctions/algebra/pkg/expr"
)

// balanced reports whether the parentheses of s match. When they do not,
// it also returns the index of the offending parenthesis.
func balanced(s string) (int, bool) {
	var open []int
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			open = append(open, i)
		case ')', ']':
			if len(open) == 0 {
				return i, false
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) > 0 {
		return open[len(open)-1], false
	}
	return 0, true
}

// matchingParen returns the index of the parenthesis closing the one at
// s[open], looking no further than end, or -1.
func matchingParen(s string, open, end int) int {
	depth := 0
	for i := open; i < end; i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// matchingBar returns the index of the bar closing the one at s[open], or
// -1. A bar in operand position opens a nested absolute value; any other
// bar closes one. Bars inside parentheses belong to the parenthesized
// group.
func matchingBar(s string, open, end int) int {
	depth, parens := 0, 0
	operand := true
	for i := open + 1; i < end; {
		r, size := utf8.DecodeRuneInString(s[i:end])
		switch r {
		case '(':
			parens++
			operand = true
		case ')':
			parens--
			operand = false
		case '|':
			switch {
			case parens > 0:
			case operand:
				depth++
			case depth > 0:
				depth--
			default:
				return i
			}
		case '+', '-', '*', '/', '^', ',':
			operand = true
		default:
			operand = false
		}
		i += size
	}
	return -1
}

// findRelation returns the position, width and kind of the first
// relational token of s outside parentheses.
func findRelation(s string) (int, int, expr.Relation, bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
			continue
		case ')', ']':
			depth--
			continue
		}
		if depth != 0 {
			continue
		}
		for _, r := range expr.Relations {
			if hasPrefixAt(s, i, r.Token) {
				return i, len(r.Token), r.Rel, true
			}
		}
	}
	return 0, 0, expr.Eq, false
}

func hasPrefixAt(s string, i int, p string) bool {
	return len(s)-i >= len(p) && s[i:i+len(p)] == p
}
