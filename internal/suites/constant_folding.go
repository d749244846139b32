package suites

import "optbench/internal/harness"

const foldingSize = 8000

var constantFolding = Suite{
	Name:        "constant_folding",
	Description: "chains of literal constants vs the pre-folded constant",
	Defaults:    harness.Params{Iterations: 20000, Init: 1},
	run: func(b *harness.Bench) {
		constantFoldingFor[int8](b)
		constantFoldingFor[uint8](b)
		constantFoldingFor[int16](b)
		constantFoldingFor[uint16](b)
		constantFoldingFor[int32](b)
		constantFoldingFor[uint32](b)
		constantFoldingFor[int64](b)
		constantFoldingFor[uint64](b)
		constantFoldingFor[float32](b)
		constantFoldingFor[float64](b)
	},
}

type foldExpr int

const (
	foldAddChain foldExpr = iota
	foldAddFolded
	foldSubChain
	foldSubFolded
	foldMulChain
	foldMulFolded
	foldMixedChain
	foldMixedFolded
	foldIdentityChain
	foldIdentityFolded
)

var foldNames = map[foldExpr]string{
	foldAddChain:       "x + 1 + 2 + 3 + 4",
	foldAddFolded:      "x + 10",
	foldSubChain:       "x - 1 - 2 - 3",
	foldSubFolded:      "x - 6",
	foldMulChain:       "x * 2 * 3 * 4",
	foldMulFolded:      "x * 24",
	foldMixedChain:     "x*2 + x*3",
	foldMixedFolded:    "x * 5",
	foldIdentityChain:  "(x + 0) * 1",
	foldIdentityFolded: "x",
}

// foldValue evaluates expression e on a single value. It is the oracle for
// the loops in foldSum, which spell out the same expressions inline.
func foldValue[T harness.Number](e foldExpr, x T) T {
	switch e {
	case foldAddChain, foldAddFolded:
		return x + 10
	case foldSubChain, foldSubFolded:
		return x - 6
	case foldMulChain, foldMulFolded:
		return x * 24
	case foldMixedChain, foldMixedFolded:
		return x * 5
	default:
		return x
	}
}

func foldSum[T harness.Number](data []T, e foldExpr) T {
	var result T
	switch e {
	case foldAddChain:
		for j := 0; j < len(data); j++ {
			result += data[j] + 1 + 2 + 3 + 4
		}
	case foldAddFolded:
		for j := 0; j < len(data); j++ {
			result += data[j] + 10
		}
	case foldSubChain:
		for j := 0; j < len(data); j++ {
			result += data[j] - 1 - 2 - 3
		}
	case foldSubFolded:
		for j := 0; j < len(data); j++ {
			result += data[j] - 6
		}
	case foldMulChain:
		for j := 0; j < len(data); j++ {
			result += data[j] * 2 * 3 * 4
		}
	case foldMulFolded:
		for j := 0; j < len(data); j++ {
			result += data[j] * 24
		}
	case foldMixedChain:
		for j := 0; j < len(data); j++ {
			result += data[j]*2 + data[j]*3
		}
	case foldMixedFolded:
		for j := 0; j < len(data); j++ {
			result += data[j] * 5
		}
	case foldIdentityChain:
		for j := 0; j < len(data); j++ {
			result += (data[j] + 0) * 1
		}
	default:
		for j := 0; j < len(data); j++ {
			result += data[j]
		}
	}
	return result
}

func constantFoldingFor[T harness.Number](b *harness.Bench) {
	data := make([]T, foldingSize)
	init := T(b.Init())
	harness.Fill(data, init)

	for e := foldAddChain; e <= foldIdentityFolded; e++ {
		expected := harness.RepeatSum(foldValue(e, init), foldingSize)
		measureScalar(b, label[T]("%s", foldNames[e]), expected, foldingSize*4, func() T {
			return foldSum(data, e)
		})
	}

	b.Summarize(harness.SummaryOptions{
		Name:  harness.TypeName[T]() + " constant folding",
		Items: foldingSize,
	})
}
