// Package pool generates random expression trees for exploratory and
// property-based testing of the parser, evaluator and simplifier.
package pool

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"

	"github.com/wildfunctions/algebra/pkg/expr"
)

// Pool provides random building blocks for constructing expression trees.
type Pool interface {
	Name() string
	RandomLeaf(rng *rand.Rand) expr.Factor
	RandomUnary(rng *rand.Rand) UnaryOp
	RandomBinary(rng *rand.Rand) BinaryOp
	RandomTree(rng *rand.Rand, maxDepth int) expr.Component
}

// UnaryOp wraps one operand.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpFactorial
	OpSqrt
	OpSquare
	OpAbs
	OpLn
	OpSin
	OpCos
	OpExp
)

// Apply builds the node for op over c.
func (op UnaryOp) Apply(c expr.Component) expr.Component {
	switch op {
	case OpNeg:
		return expr.Neg(c)
	case OpFactorial:
		return expr.NewFactorial(expr.Plus, expr.AsBase(c))
	case OpSqrt:
		return expr.NewRoot(expr.Plus, 2, expr.AsFactor(c))
	case OpSquare:
		return expr.Pow(c, expr.Int(2))
	case OpAbs:
		return expr.NewAbs(expr.Plus, expr.AsExpression(c))
	case OpLn:
		return expr.Ln(c)
	case OpSin:
		return expr.NewFunction(expr.Plus, "sin", expr.AsExpression(c))
	case OpCos:
		return expr.NewFunction(expr.Plus, "cos", expr.AsExpression(c))
	case OpExp:
		return expr.NewFunction(expr.Plus, "exp", expr.AsExpression(c))
	}
	return c
}

// BinaryOp joins two operands.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow
)

// Apply builds the node for op over l and r.
func (op BinaryOp) Apply(l, r expr.Component) expr.Component {
	switch op {
	case OpAdd:
		return expr.Add(l, r)
	case OpSub:
		return expr.Sub(l, r)
	case OpMul:
		return expr.Mul(l, r)
	case OpDiv:
		return expr.Div(l, r)
	}
	return expr.Pow(l, r)
}

var registry = map[string]func() Pool{}

// Register adds a pool constructor to the registry.
func Register(name string, constructor func() Pool) {
	registry[name] = constructor
}

// Get returns a pool by name.
func Get(name string) (Pool, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("unknown pool: %s (available: %v)", name, Names())
	}
	return ctor(), nil
}

// Names returns all registered pool names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// smallExponent keeps random powers cheap to evaluate.
func smallExponent(rng *rand.Rand) expr.Factor {
	return expr.Int(int64(rng.Intn(3) + 1))
}

// randomTree is a shared helper for building random trees.
func randomTree(p Pool, rng *rand.Rand, maxDepth int) expr.Component {
	if maxDepth <= 1 {
		return p.RandomLeaf(rng)
	}
	// Bias toward leaves at shallow depths to keep trees small
	r := rng.Float64()
	switch {
	case r < 0.4:
		return p.RandomLeaf(rng)
	case r < 0.6:
		return p.RandomUnary(rng).Apply(randomTree(p, rng, maxDepth-1))
	}
	op := p.RandomBinary(rng)
	left := randomTree(p, rng, maxDepth-1)
	if op == OpPow {
		return op.Apply(left, smallExponent(rng))
	}
	return op.Apply(left, randomTree(p, rng, maxDepth-1))
}
