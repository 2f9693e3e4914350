package parse

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wildfunctions/algebra/pkg/decimal"
	"github.com/wildfunctions/algebra/pkg/expr"
)

// Grammar:
//
//	expression := term (('+'|'-') term)*
//	term       := factor (('*'|'/'|implicit) factor)*
//	factor     := ('-'|'+')* postfix ['^' factor]
//	postfix    := primary '!'*
//	primary    := '(' expression ')' | '|' expression '|'
//	            | ('√'|'∛'|'∜') primary | 'root(' index ',' expression ')'
//	            | 'log(' [base ','] expression ')' | 'ln(' expression ')'
//	            | function '(' expression ')' | number | 'e' | 'π' | letter
//
// Whitespace is ignored. Implicit multiplication applies before a
// letter, '(', a root glyph or π.

const eof rune = -1

// functionNames holds the keys of expr.Functions, longest first so that
// sinh is tried before sin.
var functionNames []string

func init() {
	for name := range expr.Functions {
		functionNames = append(functionNames, name)
	}
	sort.Slice(functionNames, func(i, j int) bool {
		if len(functionNames[i]) != len(functionNames[j]) {
			return len(functionNames[i]) > len(functionNames[j])
		}
		return functionNames[i] < functionNames[j]
	})
}

type parser struct {
	input string // as given, for error reports
	src   string // input without whitespace
	pos   int
	end   int
	mode  expr.Mode
}

// Parse parses src in decimal mode. The empty string parses as 0.
func Parse(src string) (*expr.Expression, error) {
	return ParseMode(src, expr.Decimal)
}

// ParseMode parses src. In fractional mode decimal points are rejected.
func ParseMode(src string, mode expr.Mode) (*expr.Expression, error) {
	ps, err := newParser(src, mode)
	if err != nil {
		return nil, err
	}
	if ps.end == 0 {
		return expr.NewExpression(), nil
	}
	return ps.sub(0, ps.end, "expression")
}

func newParser(src string, mode expr.Mode) (*parser, error) {
	clean := strings.Join(strings.Fields(src), "")
	ps := &parser{input: src, src: clean, end: len(clean), mode: mode}
	if mode == expr.Fractional {
		if i := strings.IndexByte(clean, '.'); i >= 0 {
			ps.pos = i
			return nil, ps.errorf("decimal numbers are not allowed in fractional mode")
		}
	}
	if i, ok := balanced(clean); !ok {
		ps.pos = i
		return nil, ps.errorf("unbalanced parentheses")
	}
	return ps, nil
}

func (ps *parser) errorf(format string, args ...interface{}) error {
	return &Error{Input: ps.input, Rest: ps.src[ps.pos:], Msg: fmt.Sprintf(format, args...)}
}

func (ps *parser) peek() rune {
	if ps.pos >= ps.end {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(ps.src[ps.pos:ps.end])
	return r
}

func (ps *parser) next() rune {
	if ps.pos >= ps.end {
		return eof
	}
	r, size := utf8.DecodeRuneInString(ps.src[ps.pos:ps.end])
	ps.pos += size
	return r
}

func (ps *parser) hasPrefix(prefix string) bool {
	return strings.HasPrefix(ps.src[ps.pos:ps.end], prefix)
}

// sub parses src[from:to] as a complete expression.
func (ps *parser) sub(from, to int, what string) (*expr.Expression, error) {
	if from >= to {
		ps.pos = from
		return nil, ps.errorf("empty %s", what)
	}
	saved := ps.end
	ps.pos, ps.end = from, to
	e, err := ps.expression()
	if err == nil && ps.pos != to {
		err = ps.errorf("unexpected token")
	}
	ps.end = saved
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (ps *parser) expression() (*expr.Expression, error) {
	t, err := ps.term()
	if err != nil {
		return nil, err
	}
	terms := []*expr.Term{t}
	for {
		r := ps.peek()
		if r != '+' && r != '-' {
			return expr.NewExpression(terms...), nil
		}
		ps.next()
		t, err := ps.term()
		if err != nil {
			return nil, err
		}
		if r == '-' {
			t = t.Negate()
		}
		terms = append(terms, t)
	}
}

func (ps *parser) term() (*expr.Term, error) {
	f, err := ps.factor()
	if err != nil {
		return nil, err
	}
	factors := []expr.Factor{f}
	ops := []expr.TermOp{expr.Multiply}
	for {
		op := expr.Multiply
		switch r := ps.peek(); {
		case r == '*':
			ps.next()
		case r == '/':
			ps.next()
			op = expr.Divide
		case startsOperand(r):
		default:
			return expr.NewTerm(factors, ops), nil
		}
		f, err := ps.factor()
		if err != nil {
			return nil, err
		}
		factors = append(factors, f)
		ops = append(ops, op)
	}
}

// startsOperand reports whether r begins an implicitly multiplied factor.
func startsOperand(r rune) bool {
	switch r {
	case '(', '√', '∛', '∜', 'π':
		return true
	}
	return r != eof && unicode.IsLetter(r)
}

func (ps *parser) factor() (expr.Factor, error) {
	sign := expr.Plus
loop:
	for {
		switch ps.peek() {
		case '-':
			sign = sign.Invert()
		case '+':
		default:
			break loop
		}
		ps.next()
	}
	base, err := ps.postfix()
	if err != nil {
		return nil, err
	}
	if ps.peek() == '^' {
		ps.next()
		exponent, err := ps.factor()
		if err != nil {
			return nil, err
		}
		return expr.NewExponential(sign, base, exponent), nil
	}
	return base.WithSign(base.Sign().Mul(sign)), nil
}

func (ps *parser) postfix() (expr.Base, error) {
	b, err := ps.primary()
	if err != nil {
		return nil, err
	}
	for ps.peek() == '!' {
		ps.next()
		b = expr.NewFactorial(expr.Plus, b)
	}
	return b, nil
}

func (ps *parser) primary() (expr.Base, error) {
	switch r := ps.peek(); {
	case r == eof:
		return nil, ps.errorf("missing operand")
	case r == '(':
		inner, err := ps.group("parentheses")
		if err != nil {
			return nil, err
		}
		return expr.NewParenthesized(expr.Plus, inner), nil
	case r == '|':
		inner, err := ps.bars()
		if err != nil {
			return nil, err
		}
		return expr.NewAbs(expr.Plus, inner), nil
	case r == '√' || r == '∛' || r == '∜':
		ps.next()
		arg, err := ps.primary()
		if err != nil {
			return nil, err
		}
		return expr.NewRoot(expr.Plus, glyphIndex(r), arg), nil
	case r == 'π':
		ps.next()
		return expr.NewNamed(expr.Plus, expr.Pi), nil
	case isDigit(r) || r == '.':
		return ps.number()
	case unicode.IsLetter(r):
		return ps.word()
	}
	return nil, ps.errorf("unexpected token")
}

func glyphIndex(r rune) int {
	switch r {
	case '∛':
		return 3
	case '∜':
		return 4
	}
	return 2
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func (ps *parser) number() (expr.Base, error) {
	start := ps.pos
	dot := false
	for {
		r := ps.peek()
		if r == '.' && !dot {
			dot = true
		} else if !isDigit(r) {
			break
		}
		ps.next()
	}
	text := ps.src[start:ps.pos]
	if text == "." {
		ps.pos = start
		return nil, ps.errorf("invalid number")
	}
	if strings.HasPrefix(text, ".") {
		text = "0" + text
	}
	if strings.HasSuffix(text, ".") {
		text += "0"
	}
	d, err := decimal.Parse(text)
	if err != nil {
		ps.pos = start
		return nil, ps.errorf("invalid number")
	}
	return expr.NewConstant(expr.Plus, d), nil
}

func (ps *parser) word() (expr.Base, error) {
	switch {
	case ps.hasPrefix("root("):
		return ps.root()
	case ps.hasPrefix("log("):
		return ps.log()
	case ps.hasPrefix("ln("):
		ps.pos += len("ln")
		arg, err := ps.group("logarithm")
		if err != nil {
			return nil, err
		}
		return expr.NewLogarithm(expr.Plus, nil, arg), nil
	}
	for _, name := range functionNames {
		if ps.hasPrefix(name + "(") {
			ps.pos += len(name)
			arg, err := ps.group(name)
			if err != nil {
				return nil, err
			}
			return expr.NewFunction(expr.Plus, name, arg), nil
		}
	}
	if r := ps.next(); r != 'e' {
		return expr.NewVariable(expr.Plus, string(r)), nil
	}
	return expr.NewNamed(expr.Plus, expr.E), nil
}

// group parses the parenthesized expression starting at the cursor.
func (ps *parser) group(what string) (*expr.Expression, error) {
	open := ps.pos
	closing := matchingParen(ps.src, open, ps.end)
	if closing < 0 {
		return nil, ps.errorf("unbalanced parentheses")
	}
	inner, err := ps.sub(open+1, closing, what)
	if err != nil {
		return nil, err
	}
	ps.pos = closing + 1
	return inner, nil
}

func (ps *parser) bars() (*expr.Expression, error) {
	open := ps.pos
	closing := matchingBar(ps.src, open, ps.end)
	if closing < 0 {
		return nil, ps.errorf("unmatched absolute value bar")
	}
	inner, err := ps.sub(open+1, closing, "absolute value")
	if err != nil {
		return nil, err
	}
	ps.pos = closing + 1
	return inner, nil
}

// arguments splits the group starting at the cursor at its top-level
// commas. It returns the byte range of each argument and the position of
// the closing parenthesis.
func (ps *parser) arguments() ([][2]int, int, error) {
	open := ps.pos
	closing := matchingParen(ps.src, open, ps.end)
	if closing < 0 {
		return nil, 0, ps.errorf("unbalanced parentheses")
	}
	var args [][2]int
	start, depth := open+1, 0
	for i := open + 1; i < closing; i++ {
		switch ps.src[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, [2]int{start, i})
				start = i + 1
			}
		}
	}
	return append(args, [2]int{start, closing}), closing, nil
}

var ordinalSuffixes = []string{"-th", "-st", "-nd", "-rd", "th", "st", "nd", "rd"}

func (ps *parser) root() (expr.Base, error) {
	ps.pos += len("root")
	args, closing, err := ps.arguments()
	if err != nil {
		return nil, err
	}
	if len(args) != 2 {
		return nil, ps.errorf("root needs an index and an argument")
	}
	text := ps.src[args[0][0]:args[0][1]]
	for _, s := range ordinalSuffixes {
		if strings.HasSuffix(text, s) {
			text = strings.TrimSuffix(text, s)
			break
		}
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 2 {
		ps.pos = args[0][0]
		return nil, ps.errorf("invalid root index")
	}
	arg, err := ps.sub(args[1][0], args[1][1], "root argument")
	if err != nil {
		return nil, err
	}
	ps.pos = closing + 1
	return expr.NewRoot(expr.Plus, n, expr.AsFactor(arg)), nil
}

func (ps *parser) log() (expr.Base, error) {
	ps.pos += len("log")
	args, closing, err := ps.arguments()
	if err != nil {
		return nil, err
	}
	base := decimal.New(10)
	switch len(args) {
	case 1:
	case 2:
		text := ps.src[args[0][0]:args[0][1]]
		if text == "e" {
			base = nil
			break
		}
		d, err := decimal.Parse(text)
		if err != nil || d.Sign() <= 0 || d.Cmp(decimal.One) == 0 {
			ps.pos = args[0][0]
			return nil, ps.errorf("invalid logarithm base")
		}
		base = d
	default:
		return nil, ps.errorf("log takes at most a base and an argument")
	}
	last := args[len(args)-1]
	arg, err := ps.sub(last[0], last[1], "logarithm")
	if err != nil {
		return nil, err
	}
	ps.pos = closing + 1
	return expr.NewLogarithm(expr.Plus, base, arg), nil
}
