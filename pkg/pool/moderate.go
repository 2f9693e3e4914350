package pool

import (
	"math/rand"

	"github.com/wildfunctions/algebra/pkg/expr"
)

func init() {
	Register("moderate", func() Pool { return &ModeratePool{} })
}

// ModeratePool extends conservative with a second variable, powers of
// 2/3 as leaves, roots, factorials and powers.
type ModeratePool struct{}

func (p *ModeratePool) Name() string { return "moderate" }

func (p *ModeratePool) RandomLeaf(rng *rand.Rand) expr.Factor {
	r := rng.Float64()
	switch {
	case r < 0.3:
		return expr.Var("x")
	case r < 0.4:
		return expr.Var("y")
	case r < 0.75:
		return expr.Int(int64(rng.Intn(10) + 1))
	case r < 0.875:
		// powers of 2: 2, 4, 8, 16
		exp := rng.Intn(4) + 1
		return expr.Int(int64(1) << uint(exp))
	default:
		// powers of 3: 3, 9, 27
		vals := []int64{3, 9, 27}
		return expr.Int(vals[rng.Intn(len(vals))])
	}
}

var moderateUnary = []UnaryOp{
	OpNeg,
	OpSquare,
	OpSqrt,
	OpFactorial,
}

func (p *ModeratePool) RandomUnary(rng *rand.Rand) UnaryOp {
	return moderateUnary[rng.Intn(len(moderateUnary))]
}

var moderateBinary = []BinaryOp{
	OpAdd,
	OpSub,
	OpMul,
	OpDiv,
	OpPow,
}

func (p *ModeratePool) RandomBinary(rng *rand.Rand) BinaryOp {
	return moderateBinary[rng.Intn(len(moderateBinary))]
}

func (p *ModeratePool) RandomTree(rng *rand.Rand, maxDepth int) expr.Component {
	return randomTree(p, rng, maxDepth)
}
