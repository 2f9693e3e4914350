package expr

import (
	"math"
	"math/big"
	"sync"

	"github.com/cockroachdb/apd"

	"github.com/wildfunctions/algebra/pkg/decimal"
)

// piDigits is π to well past any precision used in practice.
const piDigits = "3.14159265358979323846264338327950288419716939937510582097494459230781640628620899862803482534211706798214808651328230664709384460955058223172535940812848111745028410270193852110555964462294895493038196"

var (
	minExponent = apd.New(math.MinInt32, 0)
	maxExponent = apd.New(math.MaxInt32, 0)
)

func signed(s Sign, d *apd.Decimal) *apd.Decimal {
	if s == Minus {
		d.Neg(d)
	}
	return d
}

// check turns an apd failure into an arithmetic error.
func check(op string, _ apd.Condition, err error) error {
	if err != nil {
		return arithmetic("%s: %v", op, err)
	}
	return nil
}

func (e *Expression) Eval(env *Env) (*apd.Decimal, error) {
	sum := new(apd.Decimal)
	for _, t := range e.terms {
		v, err := t.Eval(env)
		if err != nil {
			return nil, err
		}
		c, err := env.ctx.Add(sum, sum, v)
		if err := check("addition", c, err); err != nil {
			return nil, err
		}
	}
	return sum, nil
}

func (t *Term) Eval(env *Env) (*apd.Decimal, error) {
	acc, err := t.factors[0].Eval(env)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(t.factors); i++ {
		v, err := t.factors[i].Eval(env)
		if err != nil {
			return nil, err
		}
		if t.ops[i] == Divide {
			if v.IsZero() {
				return nil, arithmetic("division by zero in %s", t)
			}
			c, err := env.ctx.Quo(acc, acc, v)
			if err := check("division", c, err); err != nil {
				return nil, err
			}
			continue
		}
		c, err := env.ctx.Mul(acc, acc, v)
		if err := check("multiplication", c, err); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (c *Constant) Eval(env *Env) (*apd.Decimal, error) {
	return c.Value(), nil
}

func (f *Fraction) Eval(env *Env) (*apd.Decimal, error) {
	if f.den.Sign() == 0 {
		return nil, arithmetic("division by zero in %s", f)
	}
	d := new(apd.Decimal)
	cond, err := env.ctx.Quo(d, decimal.FromBigInt(f.num), decimal.FromBigInt(f.den))
	if err := check("division", cond, err); err != nil {
		return nil, err
	}
	return signed(f.sign, d), nil
}

func (n *Named) Eval(env *Env) (*apd.Decimal, error) {
	d := new(apd.Decimal)
	var cond apd.Condition
	var err error
	switch n.kind {
	case E:
		cond, err = env.ctx.Exp(d, decimal.One)
	default:
		pi, _, _ := apd.NewFromString(piDigits)
		cond, err = env.ctx.Round(d, pi)
	}
	if err := check("constant", cond, err); err != nil {
		return nil, err
	}
	return signed(n.sign, d), nil
}

func (c *ConstantFunction) Eval(env *Env) (*apd.Decimal, error) {
	v, err := c.inner.Eval(env)
	if err != nil {
		return nil, err
	}
	return signed(c.sign, v), nil
}

func (v *Variable) Eval(env *Env) (*apd.Decimal, error) {
	x, ok := env.Lookup(v.name)
	if !ok {
		return nil, unsupported("variable %s has no value", v.name)
	}
	return signed(v.sign, new(apd.Decimal).Set(x)), nil
}

func (e *Exponential) Eval(env *Env) (*apd.Decimal, error) {
	b, err := e.base.Eval(env)
	if err != nil {
		return nil, err
	}
	x, err := e.exponent.Eval(env)
	if err != nil {
		return nil, err
	}
	if x.Cmp(minExponent) < 0 || x.Cmp(maxExponent) > 0 {
		return nil, arithmetic("exponent %s out of range", decimal.Format(x))
	}
	integral := decimal.IsInteger(x)
	if b.Sign() < 0 && !integral {
		return nil, arithmetic("negative base %s with non-integer exponent %s", decimal.Format(b), decimal.Format(x))
	}
	if b.IsZero() && x.Sign() < 0 {
		return nil, arithmetic("division by zero in %s", e)
	}
	d := new(apd.Decimal)
	switch {
	case x.IsZero():
		d.SetInt64(1)
	case integral:
		// Integer powers go through exact repeated squaring so that
		// negative bases are handled.
		n, _ := decimal.Int64(x)
		if err := intPow(env.ctx, d, b, n); err != nil {
			return nil, err
		}
	default:
		cond, err := env.ctx.Pow(d, b, x)
		if err := check("power", cond, err); err != nil {
			return nil, err
		}
	}
	return signed(e.sign, d), nil
}

// intPow sets d = b^n by repeated squaring.
func intPow(ctx *apd.Context, d, b *apd.Decimal, n int64) error {
	neg := n < 0
	if neg {
		n = -n
	}
	result := apd.New(1, 0)
	sq := new(apd.Decimal).Set(b)
	for n > 0 {
		if n%2 == 1 {
			c, err := ctx.Mul(result, result, sq)
			if err := check("power", c, err); err != nil {
				return err
			}
		}
		n /= 2
		if n > 0 {
			c, err := ctx.Mul(sq, sq, sq)
			if err := check("power", c, err); err != nil {
				return err
			}
		}
	}
	if neg {
		c, err := ctx.Quo(result, decimal.One, result)
		if err := check("power", c, err); err != nil {
			return err
		}
	}
	d.Set(result)
	return nil
}

func (l *Logarithm) Eval(env *Env) (*apd.Decimal, error) {
	g := env.guarded()
	a, err := l.arg.Eval(g)
	if err != nil {
		return nil, err
	}
	if a.Sign() <= 0 {
		return nil, arithmetic("logarithm of non-positive value %s", decimal.Format(a))
	}
	d := new(apd.Decimal)
	switch {
	case l.base == nil:
		c, err := g.ctx.Ln(d, a)
		if err := check("logarithm", c, err); err != nil {
			return nil, err
		}
	case l.base.Cmp(apd.New(10, 0)) == 0:
		c, err := g.ctx.Log10(d, a)
		if err := check("logarithm", c, err); err != nil {
			return nil, err
		}
	default:
		if l.base.Sign() <= 0 || l.base.Cmp(decimal.One) == 0 {
			return nil, arithmetic("invalid logarithm base %s", decimal.Format(l.base))
		}
		num, den := new(apd.Decimal), new(apd.Decimal)
		c, err := g.ctx.Ln(num, a)
		if err := check("logarithm", c, err); err != nil {
			return nil, err
		}
		c, err = g.ctx.Ln(den, l.base)
		if err := check("logarithm", c, err); err != nil {
			return nil, err
		}
		c, err = g.ctx.Quo(d, num, den)
		if err := check("logarithm", c, err); err != nil {
			return nil, err
		}
	}
	c, err := env.ctx.Round(d, d)
	if err := check("logarithm", c, err); err != nil {
		return nil, err
	}
	return signed(l.sign, d), nil
}

func (f *Factorial) Eval(env *Env) (*apd.Decimal, error) {
	a, err := f.arg.Eval(env)
	if err != nil {
		return nil, err
	}
	n, ok := decimal.Int64(a)
	if !ok || n < 0 {
		return nil, arithmetic("factorial of %s: argument must be a non-negative integer", decimal.Format(a))
	}
	v, ok := factorial(n)
	if !ok {
		return nil, arithmetic("factorial of %d: argument too large", n)
	}
	d := new(apd.Decimal)
	c, err := env.ctx.Round(d, decimal.FromBigInt(v))
	if err := check("factorial", c, err); err != nil {
		return nil, err
	}
	return signed(f.sign, d), nil
}

func (r *Root) Eval(env *Env) (*apd.Decimal, error) {
	a, err := r.arg.Eval(env)
	if err != nil {
		return nil, err
	}
	neg := a.Sign() < 0
	if neg && r.index%2 == 0 {
		return nil, arithmetic("even root of negative value %s", decimal.Format(a))
	}
	x := decimal.Abs(a)
	d := new(apd.Decimal)
	if exact, ok := exactRoot(x, r.index); ok {
		d.Set(exact)
	} else {
		var c apd.Condition
		switch r.index {
		case 2:
			c, err = env.ctx.Sqrt(d, x)
		case 3:
			c, err = env.ctx.Cbrt(d, x)
		default:
			inv := new(apd.Decimal)
			c, err = env.ctx.Quo(inv, decimal.One, apd.New(int64(r.index), 0))
			if err == nil {
				c, err = env.ctx.Pow(d, x, inv)
			}
		}
		if err := check("root", c, err); err != nil {
			return nil, err
		}
	}
	if neg {
		d.Neg(d)
	}
	return signed(r.sign, d), nil
}

// exactRoot returns the integer n-th root of x when there is one.
func exactRoot(x *apd.Decimal, n int) (*apd.Decimal, bool) {
	i, ok := decimal.BigInt(x)
	if !ok || i.BitLen() > 4096 {
		return nil, false
	}
	// Newton iteration on integers, starting above the root.
	bn := big.NewInt(int64(n))
	guess := new(big.Int).Lsh(big.NewInt(1), uint(i.BitLen()/n+1))
	for {
		// next = ((n-1)*guess + i/guess^(n-1)) / n
		p := new(big.Int).Exp(guess, big.NewInt(int64(n-1)), nil)
		if p.Sign() == 0 {
			break
		}
		next := new(big.Int).Quo(i, p)
		next.Add(next, new(big.Int).Mul(guess, big.NewInt(int64(n-1))))
		next.Quo(next, bn)
		if next.Cmp(guess) >= 0 {
			break
		}
		guess = next
	}
	if new(big.Int).Exp(guess, bn, nil).Cmp(i) != 0 {
		return nil, false
	}
	return decimal.FromBigInt(guess), true
}

// Functions maps the supported unary function names to their
// implementations.
var Functions = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"sinh": math.Sinh,
	"cosh": math.Cosh,
	"tanh": math.Tanh,
	"exp":  math.Exp,
}

func (f *Function) Eval(env *Env) (*apd.Decimal, error) {
	fn, ok := Functions[f.name]
	if !ok {
		return nil, unsupported("unknown function %s", f.name)
	}
	a, err := f.arg.Eval(env)
	if err != nil {
		return nil, err
	}
	x, err := a.Float64()
	if err != nil {
		return nil, arithmetic("%s(%s): %v", f.name, decimal.Format(a), err)
	}
	y := fn(x)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return nil, arithmetic("%s(%s) has no finite value", f.name, decimal.Format(a))
	}
	raw, err := new(apd.Decimal).SetFloat64(y)
	if err != nil {
		return nil, arithmetic("%s: %v", f.name, err)
	}
	d := new(apd.Decimal)
	c, err := env.ctx.Round(d, raw)
	if err := check(f.name, c, err); err != nil {
		return nil, err
	}
	return signed(f.sign, d), nil
}

func (p *Parenthesized) Eval(env *Env) (*apd.Decimal, error) {
	v, err := p.inner.Eval(env)
	if err != nil {
		return nil, err
	}
	return signed(p.sign, v), nil
}

func (a *Abs) Eval(env *Env) (*apd.Decimal, error) {
	v, err := a.inner.Eval(env)
	if err != nil {
		return nil, err
	}
	v.Abs(v)
	return signed(a.sign, v), nil
}

const maxFactorial = 1000

// Memoized factorial table that grows on demand.
var factorialCache = &mathCache{}

type mathCache struct {
	mu     sync.RWMutex
	values []*big.Int
}

func (c *mathCache) get(n int64) (*big.Int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if n < int64(len(c.values)) {
		return c.values[n], true
	}
	return nil, false
}

func init() {
	// Seed factorial: 0!=1, 1!=1, ..., 20!=2432902008176640000
	facts := make([]*big.Int, 21)
	facts[0] = big.NewInt(1)
	for i := int64(1); i <= 20; i++ {
		facts[i] = new(big.Int).Mul(facts[i-1], big.NewInt(i))
	}
	factorialCache.values = facts
}

func factorial(n int64) (*big.Int, bool) {
	if n < 0 || n > maxFactorial {
		return nil, false
	}
	if v, ok := factorialCache.get(n); ok {
		return v, true
	}
	factorialCache.mu.Lock()
	defer factorialCache.mu.Unlock()
	// Re-check after acquiring write lock
	if n < int64(len(factorialCache.values)) {
		return factorialCache.values[n], true
	}
	for i := int64(len(factorialCache.values)); i <= n; i++ {
		next := new(big.Int).Mul(factorialCache.values[i-1], big.NewInt(i))
		factorialCache.values = append(factorialCache.values, next)
	}
	return factorialCache.values[n], true
}
