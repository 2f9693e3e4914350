package pool

import (
	"math/rand"

	"github.com/wildfunctions/algebra/pkg/expr"
)

func init() {
	Register("conservative", func() Pool { return &ConservativePool{} })
}

// ConservativePool provides basic building blocks: x, ints 1-10,
// negation, squaring, and basic arithmetic.
type ConservativePool struct{}

func (p *ConservativePool) Name() string { return "conservative" }

func (p *ConservativePool) RandomLeaf(rng *rand.Rand) expr.Factor {
	if rng.Float64() < 0.4 {
		return expr.Var("x")
	}
	return expr.Int(int64(rng.Intn(10) + 1))
}

var conservativeUnary = []UnaryOp{
	OpNeg,
	OpSquare,
}

func (p *ConservativePool) RandomUnary(rng *rand.Rand) UnaryOp {
	return conservativeUnary[rng.Intn(len(conservativeUnary))]
}

var conservativeBinary = []BinaryOp{
	OpAdd,
	OpSub,
	OpMul,
	OpDiv,
}

func (p *ConservativePool) RandomBinary(rng *rand.Rand) BinaryOp {
	return conservativeBinary[rng.Intn(len(conservativeBinary))]
}

func (p *ConservativePool) RandomTree(rng *rand.Rand, maxDepth int) expr.Component {
	return randomTree(p, rng, maxDepth)
}
