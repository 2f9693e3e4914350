package expr

import (
	"math/big"

	"github.com/cockroachdb/apd"

	"github.com/wildfunctions/algebra/pkg/decimal"
)

// Component is the interface for all expression tree nodes. Nodes are
// immutable once built; every transformation returns a new tree.
type Component interface {
	Eval(env *Env) (*apd.Decimal, error)
	Derive(v string) (Component, error)
	// IsScalar reports whether the node contains no variable.
	IsScalar() bool
	String() string
	LaTeX() string
	NodeCount() int
	Depth() int
	render(r Renderer) string
}

// Factor is a signed leaf of a Term.
type Factor interface {
	Component
	Sign() Sign
	WithSign(s Sign) Factor
}

// Base is a factor that can be raised to a power. Every factor except an
// Exponential is a Base.
type Base interface {
	Factor
	isBase()
}

// Sign is the sign tag carried by every factor.
type Sign int8

const (
	Plus Sign = iota
	Minus
)

// Invert returns the opposite sign.
func (s Sign) Invert() Sign {
	if s == Plus {
		return Minus
	}
	return Plus
}

// Mul returns the sign of a product of s and o.
func (s Sign) Mul(o Sign) Sign {
	if s == o {
		return Plus
	}
	return Minus
}

func (s Sign) String() string {
	if s == Minus {
		return "-"
	}
	return "+"
}

// TermOp joins two factors of a Term.
type TermOp int8

const (
	Multiply TermOp = iota
	Divide
)

// Expression is a sum of terms. Subtraction is stored as a sum with the
// sign of the subtracted term inverted.
type Expression struct {
	terms []*Term
}

// Term is a left-associative chain f0 op1 f1 op2 f2 ... where each op is
// Multiply or Divide. ops[0] is always Multiply.
type Term struct {
	factors []Factor
	ops     []TermOp
}

// Constant is a signed decimal. Its magnitude is never negative.
type Constant struct {
	sign      Sign
	magnitude *apd.Decimal
}

// Fraction is an exact rational num/den with non-negative parts and
// den > 0.
type Fraction struct {
	sign     Sign
	num, den *big.Int
}

// NamedKind identifies a named mathematical constant.
type NamedKind int8

const (
	E NamedKind = iota
	Pi
)

// Named is Euler's number or π.
type Named struct {
	sign Sign
	kind NamedKind
}

// ConstantFunction is a scalar that is kept symbolic, such as 6π.
type ConstantFunction struct {
	sign  Sign
	inner Component
}

// Variable is a single named unknown.
type Variable struct {
	sign Sign
	name string
}

// Exponential is base^exponent.
type Exponential struct {
	sign     Sign
	base     Base
	exponent Factor
}

// Logarithm is log_base(arg). A nil base means the natural logarithm.
type Logarithm struct {
	sign Sign
	base *apd.Decimal
	arg  *Expression
}

// Factorial is arg!.
type Factorial struct {
	sign Sign
	arg  Base
}

// Root is the index-th root of arg.
type Root struct {
	sign  Sign
	index int
	arg   Factor
}

// Function applies a named unary numeric function such as sin.
type Function struct {
	sign Sign
	name string
	arg  *Expression
}

// Parenthesized wraps a sub-expression.
type Parenthesized struct {
	sign  Sign
	inner *Expression
}

// Abs is the absolute value of a sub-expression.
type Abs struct {
	sign  Sign
	inner *Expression
}

// NewExpression returns the sum of terms. Zero terms are dropped; an
// empty sum is the literal 0.
func NewExpression(terms ...*Term) *Expression {
	out := make([]*Term, 0, len(terms))
	for _, t := range terms {
		if t == nil || t.IsZero() {
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		out = append(out, zeroTerm())
	}
	return &Expression{terms: out}
}

// Terms returns the summands.
func (e *Expression) Terms() []*Term { return append([]*Term(nil), e.terms...) }

// IsZero reports whether e is the literal 0.
func (e *Expression) IsZero() bool {
	return len(e.terms) == 1 && e.terms[0].IsZero()
}

func zeroTerm() *Term {
	return &Term{factors: []Factor{Int(0)}, ops: []TermOp{Multiply}}
}

// NewTerm builds a chain from parallel factor and operator slices; ops[0]
// is ignored. A zero factor in a multiplied position collapses the term
// to 0 and a literal one is dropped unless it is the only numerator.
func NewTerm(factors []Factor, ops []TermOp) *Term {
	if len(factors) == 0 {
		return &Term{factors: []Factor{Int(1)}, ops: []TermOp{Multiply}}
	}
	var keep []Factor
	var keepOps []TermOp
	for i, f := range factors {
		op := Multiply
		if i > 0 && i < len(ops) {
			op = ops[i]
		}
		if op == Multiply && isZeroFactor(f) {
			return zeroTerm()
		}
		if isOneFactor(f) {
			continue
		}
		keep = append(keep, f)
		keepOps = append(keepOps, op)
	}
	if len(keep) == 0 || keepOps[0] == Divide {
		keep = append([]Factor{Int(1)}, keep...)
		keepOps = append([]TermOp{Multiply}, keepOps...)
	}
	keepOps[0] = Multiply
	return &Term{factors: keep, ops: keepOps}
}

// Product returns the term f0*f1*...
func Product(factors ...Factor) *Term {
	return NewTerm(factors, make([]TermOp, len(factors)))
}

// Quotient returns the term num/den.
func Quotient(num, den Factor) *Term {
	return NewTerm([]Factor{num, den}, []TermOp{Multiply, Divide})
}

// Factors returns the chain's factors.
func (t *Term) Factors() []Factor { return append([]Factor(nil), t.factors...) }

// Ops returns the chain's operators, parallel to Factors.
func (t *Term) Ops() []TermOp { return append([]TermOp(nil), t.ops...) }

func (t *Term) Len() int { return len(t.factors) }

// IsZero reports whether t is the literal 0.
func (t *Term) IsZero() bool {
	return len(t.factors) == 1 && isZeroFactor(t.factors[0])
}

// Negate returns -t by inverting the sign of its first factor.
func (t *Term) Negate() *Term {
	fs := append([]Factor(nil), t.factors...)
	fs[0] = fs[0].WithSign(fs[0].Sign().Invert())
	return &Term{factors: fs, ops: append([]TermOp(nil), t.ops...)}
}

func isZeroFactor(f Factor) bool {
	switch f := f.(type) {
	case *Constant:
		return f.magnitude.IsZero()
	case *Fraction:
		return f.num.Sign() == 0
	}
	return false
}

func isOneFactor(f Factor) bool {
	switch f := f.(type) {
	case *Constant:
		return f.sign == Plus && f.magnitude.Cmp(decimal.One) == 0
	case *Fraction:
		return f.sign == Plus && f.num.Cmp(f.den) == 0
	}
	return false
}

// IsZero reports whether c is a literal zero.
func IsZero(c Component) bool {
	switch c := c.(type) {
	case *Expression:
		return c.IsZero()
	case *Term:
		return c.IsZero()
	case Factor:
		return isZeroFactor(c)
	}
	return false
}

// IsOne reports whether c is a literal one.
func IsOne(c Component) bool {
	switch c := c.(type) {
	case *Expression:
		return len(c.terms) == 1 && IsOne(c.terms[0])
	case *Term:
		return len(c.factors) == 1 && isOneFactor(c.factors[0])
	case Factor:
		return isOneFactor(c)
	}
	return false
}

// NewConstant returns the constant s·v. A negative v folds into the sign,
// so the stored magnitude is never negative.
func NewConstant(s Sign, v *apd.Decimal) *Constant {
	m := decimal.Strip(v)
	if m.Negative {
		m.Negative = false
		s = s.Invert()
	}
	if m.IsZero() {
		s = Plus
	}
	return &Constant{sign: s, magnitude: m}
}

// Int returns the constant i.
func Int(i int64) *Constant {
	return NewConstant(Plus, decimal.New(i))
}

// Magnitude returns the unsigned value.
func (c *Constant) Magnitude() *apd.Decimal { return new(apd.Decimal).Set(c.magnitude) }

// Value returns the signed value.
func (c *Constant) Value() *apd.Decimal {
	v := new(apd.Decimal).Set(c.magnitude)
	if c.sign == Minus {
		v.Neg(v)
	}
	return v
}

// NewFraction returns s·num/den with the signs of num and den folded into
// the sign. den must not be zero.
func NewFraction(s Sign, num, den *big.Int) *Fraction {
	n, d := new(big.Int).Abs(num), new(big.Int).Abs(den)
	if num.Sign() < 0 {
		s = s.Invert()
	}
	if den.Sign() < 0 {
		s = s.Invert()
	}
	if n.Sign() == 0 {
		s = Plus
	}
	return &Fraction{sign: s, num: n, den: d}
}

func (f *Fraction) Num() *big.Int { return new(big.Int).Set(f.num) }
func (f *Fraction) Den() *big.Int { return new(big.Int).Set(f.den) }

// Rat returns the signed value.
func (f *Fraction) Rat() *big.Rat {
	r := new(big.Rat).SetFrac(f.num, f.den)
	if f.sign == Minus {
		r.Neg(r)
	}
	return r
}

// NewNamed returns e or π.
func NewNamed(s Sign, k NamedKind) *Named { return &Named{sign: s, kind: k} }

func (n *Named) Kind() NamedKind { return n.kind }

// NewConstantFunction keeps the scalar inner symbolic.
func NewConstantFunction(s Sign, inner Component) *ConstantFunction {
	return &ConstantFunction{sign: s, inner: inner}
}

func (c *ConstantFunction) Inner() Component { return c.inner }

// NewVariable returns the variable name with sign s.
func NewVariable(s Sign, name string) *Variable { return &Variable{sign: s, name: name} }

// Var returns the unsigned variable name.
func Var(name string) *Variable { return NewVariable(Plus, name) }

func (v *Variable) Name() string { return v.name }

// NewExponential returns s·base^exponent.
func NewExponential(s Sign, base Base, exponent Factor) *Exponential {
	return &Exponential{sign: s, base: base, exponent: exponent}
}

func (e *Exponential) Base() Base       { return e.base }
func (e *Exponential) Exponent() Factor { return e.exponent }

// NewLogarithm returns s·log_base(arg); a nil base is the natural log.
func NewLogarithm(s Sign, base *apd.Decimal, arg *Expression) *Logarithm {
	if base != nil {
		base = decimal.Strip(base)
	}
	return &Logarithm{sign: s, base: base, arg: arg}
}

// Ln returns the natural logarithm of arg.
func Ln(arg Component) *Logarithm { return NewLogarithm(Plus, nil, AsExpression(arg)) }

// Log10 returns the decimal logarithm of arg.
func Log10(arg Component) *Logarithm {
	return NewLogarithm(Plus, decimal.New(10), AsExpression(arg))
}

// LogBase returns the base, or nil for the natural logarithm.
func (l *Logarithm) LogBase() *apd.Decimal { return l.base }
func (l *Logarithm) IsNatural() bool       { return l.base == nil }
func (l *Logarithm) Arg() *Expression      { return l.arg }

// NewFactorial returns s·arg!.
func NewFactorial(s Sign, arg Base) *Factorial { return &Factorial{sign: s, arg: arg} }

func (f *Factorial) Arg() Base { return f.arg }

// NewRoot returns s·(index-th root of arg). index must be at least 2.
func NewRoot(s Sign, index int, arg Factor) *Root {
	return &Root{sign: s, index: index, arg: arg}
}

func (r *Root) Index() int  { return r.index }
func (r *Root) Arg() Factor { return r.arg }

// NewFunction applies the named function to arg. The name must be one of
// FunctionNames.
func NewFunction(s Sign, name string, arg *Expression) *Function {
	return &Function{sign: s, name: name, arg: arg}
}

func (f *Function) Name() string     { return f.name }
func (f *Function) Arg() *Expression { return f.arg }

// NewParenthesized wraps inner.
func NewParenthesized(s Sign, inner *Expression) *Parenthesized {
	return &Parenthesized{sign: s, inner: inner}
}

func (p *Parenthesized) Inner() *Expression { return p.inner }

// NewAbs returns s·|inner|.
func NewAbs(s Sign, inner *Expression) *Abs { return &Abs{sign: s, inner: inner} }

func (a *Abs) Inner() *Expression { return a.inner }

// Sign accessors and sign replacement.

func (c *Constant) Sign() Sign         { return c.sign }
func (f *Fraction) Sign() Sign         { return f.sign }
func (n *Named) Sign() Sign            { return n.sign }
func (c *ConstantFunction) Sign() Sign { return c.sign }
func (v *Variable) Sign() Sign         { return v.sign }
func (e *Exponential) Sign() Sign      { return e.sign }
func (l *Logarithm) Sign() Sign        { return l.sign }
func (f *Factorial) Sign() Sign        { return f.sign }
func (r *Root) Sign() Sign             { return r.sign }
func (f *Function) Sign() Sign         { return f.sign }
func (p *Parenthesized) Sign() Sign    { return p.sign }
func (a *Abs) Sign() Sign              { return a.sign }

func (c *Constant) WithSign(s Sign) Factor {
	if c.magnitude.IsZero() {
		return c
	}
	return &Constant{sign: s, magnitude: c.magnitude}
}

func (f *Fraction) WithSign(s Sign) Factor {
	if f.num.Sign() == 0 {
		return f
	}
	return &Fraction{sign: s, num: f.num, den: f.den}
}

func (n *Named) WithSign(s Sign) Factor { return &Named{sign: s, kind: n.kind} }
func (c *ConstantFunction) WithSign(s Sign) Factor {
	return &ConstantFunction{sign: s, inner: c.inner}
}
func (v *Variable) WithSign(s Sign) Factor { return &Variable{sign: s, name: v.name} }
func (e *Exponential) WithSign(s Sign) Factor {
	return &Exponential{sign: s, base: e.base, exponent: e.exponent}
}
func (l *Logarithm) WithSign(s Sign) Factor { return &Logarithm{sign: s, base: l.base, arg: l.arg} }
func (f *Factorial) WithSign(s Sign) Factor { return &Factorial{sign: s, arg: f.arg} }
func (r *Root) WithSign(s Sign) Factor      { return &Root{sign: s, index: r.index, arg: r.arg} }
func (f *Function) WithSign(s Sign) Factor  { return &Function{sign: s, name: f.name, arg: f.arg} }
func (p *Parenthesized) WithSign(s Sign) Factor {
	return &Parenthesized{sign: s, inner: p.inner}
}
func (a *Abs) WithSign(s Sign) Factor { return &Abs{sign: s, inner: a.inner} }

func (*Constant) isBase()         {}
func (*Fraction) isBase()         {}
func (*Named) isBase()            {}
func (*ConstantFunction) isBase() {}
func (*Variable) isBase()         {}
func (*Logarithm) isBase()        {}
func (*Factorial) isBase()        {}
func (*Root) isBase()             {}
func (*Function) isBase()         {}
func (*Parenthesized) isBase()    {}
func (*Abs) isBase()              {}

// IsScalar implementations.

func (e *Expression) IsScalar() bool {
	for _, t := range e.terms {
		if !t.IsScalar() {
			return false
		}
	}
	return true
}

func (t *Term) IsScalar() bool {
	for _, f := range t.factors {
		if !f.IsScalar() {
			return false
		}
	}
	return true
}

func (*Constant) IsScalar() bool         { return true }
func (*Fraction) IsScalar() bool         { return true }
func (*Named) IsScalar() bool            { return true }
func (*ConstantFunction) IsScalar() bool { return true }
func (*Variable) IsScalar() bool         { return false }
func (e *Exponential) IsScalar() bool    { return e.base.IsScalar() && e.exponent.IsScalar() }
func (l *Logarithm) IsScalar() bool      { return l.arg.IsScalar() }
func (f *Factorial) IsScalar() bool      { return f.arg.IsScalar() }
func (r *Root) IsScalar() bool           { return r.arg.IsScalar() }
func (f *Function) IsScalar() bool       { return f.arg.IsScalar() }
func (p *Parenthesized) IsScalar() bool  { return p.inner.IsScalar() }
func (a *Abs) IsScalar() bool            { return a.inner.IsScalar() }

// IsLiteral reports whether f is a plain number: a Constant or a Fraction.
func IsLiteral(f Component) bool {
	switch f.(type) {
	case *Constant, *Fraction:
		return true
	}
	return false
}

// Contains reports whether the variable v occurs anywhere in c.
func Contains(c Component, v string) bool {
	found := false
	Walk(c, func(n Component) bool {
		if x, ok := n.(*Variable); ok && x.name == v {
			found = true
		}
		return !found
	})
	return found
}

// Walk calls f for c and then each descendant in depth-first order until
// f returns false.
func Walk(c Component, f func(Component) bool) bool {
	if !f(c) {
		return false
	}
	for _, child := range Children(c) {
		if !Walk(child, f) {
			return false
		}
	}
	return true
}

// Children returns the direct sub-nodes of c.
func Children(c Component) []Component {
	switch c := c.(type) {
	case *Expression:
		out := make([]Component, len(c.terms))
		for i, t := range c.terms {
			out[i] = t
		}
		return out
	case *Term:
		out := make([]Component, len(c.factors))
		for i, f := range c.factors {
			out[i] = f
		}
		return out
	case *ConstantFunction:
		return []Component{c.inner}
	case *Exponential:
		return []Component{c.base, c.exponent}
	case *Logarithm:
		return []Component{c.arg}
	case *Factorial:
		return []Component{c.arg}
	case *Root:
		return []Component{c.arg}
	case *Function:
		return []Component{c.arg}
	case *Parenthesized:
		return []Component{c.inner}
	case *Abs:
		return []Component{c.inner}
	}
	return nil
}
