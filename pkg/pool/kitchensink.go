package pool

import (
	"math/rand"

	"github.com/wildfunctions/algebra/pkg/expr"
)

func init() {
	Register("kitchensink", func() Pool { return &KitchenSinkPool{} })
}

// KitchenSinkPool extends moderate with named constants, logarithms,
// absolute values and the named functions.
type KitchenSinkPool struct{}

func (p *KitchenSinkPool) Name() string { return "kitchensink" }

func (p *KitchenSinkPool) RandomLeaf(rng *rand.Rand) expr.Factor {
	r := rng.Float64()
	switch {
	case r < 0.3:
		return expr.Var("x")
	case r < 0.4:
		return expr.Var("y")
	case r < 0.7:
		return expr.Int(int64(rng.Intn(10) + 1))
	case r < 0.8:
		exp := rng.Intn(4) + 1
		return expr.Int(int64(1) << uint(exp))
	case r < 0.9:
		return expr.NewNamed(expr.Plus, expr.Pi)
	default:
		return expr.NewNamed(expr.Plus, expr.E)
	}
}

var kitchenSinkUnary = []UnaryOp{
	OpNeg,
	OpSquare,
	OpSqrt,
	OpFactorial,
	OpAbs,
	OpLn,
	OpSin,
	OpCos,
	OpExp,
}

func (p *KitchenSinkPool) RandomUnary(rng *rand.Rand) UnaryOp {
	return kitchenSinkUnary[rng.Intn(len(kitchenSinkUnary))]
}

var kitchenSinkBinary = []BinaryOp{
	OpAdd,
	OpSub,
	OpMul,
	OpDiv,
	OpPow,
}

func (p *KitchenSinkPool) RandomBinary(rng *rand.Rand) BinaryOp {
	return kitchenSinkBinary[rng.Intn(len(kitchenSinkBinary))]
}

func (p *KitchenSinkPool) RandomTree(rng *rand.Rand, maxDepth int) expr.Component {
	return randomTree(p, rng, maxDepth)
}
