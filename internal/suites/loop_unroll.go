package suites

import "optbench/internal/harness"

const (
	unrollSize = 8000
	maxUnroll  = 32
)

var unrollFactors = []int{1, 2, 3, 4, 5, 6, 7, 8, 16, 32}

var loopUnroll = Suite{
	Name:        "loop_unroll",
	Description: "summation unrolled by hand with one or several accumulators",
	Defaults:    harness.Params{Iterations: 20000, Init: 1},
	run: func(b *harness.Bench) {
		loopUnrollFor[int8](b)
		loopUnrollFor[uint8](b)
		loopUnrollFor[int16](b)
		loopUnrollFor[uint16](b)
		loopUnrollFor[int32](b)
		loopUnrollFor[uint32](b)
		loopUnrollFor[int64](b)
		loopUnrollFor[uint64](b)
		loopUnrollFor[float32](b)
		loopUnrollFor[float64](b)
	},
}

func loopUnrollFor[T harness.Number](b *harness.Bench) {
	data := make([]T, unrollSize)
	init := T(b.Init())
	harness.Fill(data, init)
	expected := harness.RepeatSum(init, unrollSize)

	measureScalar(b, label[T]("range loop"), expected, unrollSize, func() T {
		return sumRange(data)
	})
	for _, factor := range unrollFactors {
		measureScalar(b, label[T]("unroll %d", factor), expected, unrollSize, func() T {
			return sumUnrolled(data, factor)
		})
	}
	for _, factor := range unrollFactors {
		measureScalar(b, label[T]("unroll %d split accumulators", factor), expected, unrollSize, func() T {
			return sumSplit(data, factor)
		})
	}
	measureScalar(b, label[T]("hand unrolled 4"), expected, unrollSize, func() T {
		return sumHand4(data)
	})
	measureScalar(b, label[T]("hand unrolled 8"), expected, unrollSize, func() T {
		return sumHand8(data)
	})

	b.Summarize(harness.SummaryOptions{
		Name:  harness.TypeName[T]() + " loop unroll",
		Items: unrollSize,
	})
}

func sumRange[T harness.Number](data []T) T {
	var result T
	for _, v := range data {
		result += v
	}
	return result
}

// sumUnrolled adds factor consecutive elements per outer step into a single
// accumulator and finishes the remainder one at a time.
func sumUnrolled[T harness.Number](data []T, factor int) T {
	var result T
	n := len(data)
	j := 0
	for ; j+factor <= n; j += factor {
		for u := 0; u < factor; u++ {
			result += data[j+u]
		}
	}
	for ; j < n; j++ {
		result += data[j]
	}
	return result
}

// sumSplit keeps factor independent partial sums to break the dependency chain.
func sumSplit[T harness.Number](data []T, factor int) T {
	var acc [maxUnroll]T
	factor = min(max(factor, 1), maxUnroll)
	n := len(data)
	j := 0
	for ; j+factor <= n; j += factor {
		block := data[j : j+factor]
		for u := range block {
			acc[u] += block[u]
		}
	}
	var result T
	for u := 0; u < factor; u++ {
		result += acc[u]
	}
	for ; j < n; j++ {
		result += data[j]
	}
	return result
}

func sumHand4[T harness.Number](data []T) T {
	var s0, s1, s2, s3 T
	n := len(data)
	j := 0
	for ; j+4 <= n; j += 4 {
		s0 += data[j]
		s1 += data[j+1]
		s2 += data[j+2]
		s3 += data[j+3]
	}
	for ; j < n; j++ {
		s0 += data[j]
	}
	return (s0 + s1) + (s2 + s3)
}

func sumHand8[T harness.Number](data []T) T {
	var s0, s1, s2, s3, s4, s5, s6, s7 T
	n := len(data)
	j := 0
	for ; j+8 <= n; j += 8 {
		d := data[j : j+8 : j+8]
		s0 += d[0]
		s1 += d[1]
		s2 += d[2]
		s3 += d[3]
		s4 += d[4]
		s5 += d[5]
		s6 += d[6]
		s7 += d[7]
	}
	for ; j < n; j++ {
		s0 += data[j]
	}
	return ((s0 + s1) + (s2 + s3)) + ((s4 + s5) + (s6 + s7))
}
