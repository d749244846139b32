package suites

import "optbench/internal/harness"

const invariantSize = 8000

var loopInvariant = Suite{
	Name:        "loop_invariant",
	Description: "invariant subexpressions computed inside the loop vs hoisted by hand",
	Defaults:    harness.Params{Iterations: 20000, Init: 1},
	run: func(b *harness.Bench) {
		loopInvariantFor[int8](b)
		loopInvariantFor[uint8](b)
		loopInvariantFor[int16](b)
		loopInvariantFor[uint16](b)
		loopInvariantFor[int32](b)
		loopInvariantFor[uint32](b)
		loopInvariantFor[int64](b)
		loopInvariantFor[uint64](b)
		loopInvariantFor[float32](b)
		loopInvariantFor[float64](b)
	},
}

type arithOp int

const (
	opAdd arithOp = iota
	opSub
	opMul
)

func (o arithOp) String() string {
	switch o {
	case opAdd:
		return "add"
	case opSub:
		return "sub"
	default:
		return "mul"
	}
}

func apply[T harness.Number](op arithOp, x, y T) T {
	switch op {
	case opAdd:
		return x + y
	case opSub:
		return x - y
	default:
		return x * y
	}
}

func loopInvariantFor[T harness.Number](b *harness.Bench) {
	data := make([]T, invariantSize)
	init := T(b.Init())
	harness.Fill(data, init)

	v1, v2, v3 := init+1, init+2, init+3
	inv := v1 * v2 * v3

	for _, op := range []arithOp{opAdd, opSub, opMul} {
		expected := harness.RepeatSum(apply(op, init, inv), invariantSize)
		measureScalar(b, label[T]("%s invariant in loop", op), expected, invariantSize, func() T {
			return invariantInLoop(data, op, v1, v2, v3)
		})
		measureScalar(b, label[T]("%s invariant hoisted", op), expected, invariantSize, func() T {
			return invariantHoisted(data, op, v1, v2, v3)
		})
		measureScalar(b, label[T]("%s invariant folded", op), expected, invariantSize, func() T {
			return invariantFolded(data, op, v1, v2, v3)
		})
	}

	b.Summarize(harness.SummaryOptions{
		Name:  harness.TypeName[T]() + " loop invariant",
		Items: invariantSize,
	})
}

func invariantInLoop[T harness.Number](data []T, op arithOp, v1, v2, v3 T) T {
	var result T
	switch op {
	case opAdd:
		for j := 0; j < len(data); j++ {
			result += data[j] + v1*v2*v3
		}
	case opSub:
		for j := 0; j < len(data); j++ {
			result += data[j] - v1*v2*v3
		}
	default:
		for j := 0; j < len(data); j++ {
			result += data[j] * (v1 * v2 * v3)
		}
	}
	return result
}

func invariantHoisted[T harness.Number](data []T, op arithOp, v1, v2, v3 T) T {
	var result T
	temp := v1 * v2 * v3
	switch op {
	case opAdd:
		for j := 0; j < len(data); j++ {
			result += data[j] + temp
		}
	case opSub:
		for j := 0; j < len(data); j++ {
			result += data[j] - temp
		}
	default:
		for j := 0; j < len(data); j++ {
			result += data[j] * temp
		}
	}
	return result
}

// invariantFolded moves the invariant out of the sum entirely.
func invariantFolded[T harness.Number](data []T, op arithOp, v1, v2, v3 T) T {
	var sum T
	for j := 0; j < len(data); j++ {
		sum += data[j]
	}
	temp := v1 * v2 * v3
	switch op {
	case opAdd:
		return sum + T(len(data))*temp
	case opSub:
		return sum - T(len(data))*temp
	default:
		return sum * temp
	}
}
