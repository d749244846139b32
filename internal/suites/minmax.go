package suites

import (
	"slices"

	"optbench/internal/harness"
)

const (
	minMaxSize   = 8000
	minMaxPeriod = 97
)

var minMax = Suite{
	Name:        "minmax",
	Description: "minimum and maximum scans with branches, builtins and split accumulators",
	Defaults:    harness.Params{Iterations: 20000, Init: 1},
	run: func(b *harness.Bench) {
		minMaxFor[int8](b)
		minMaxFor[uint8](b)
		minMaxFor[int16](b)
		minMaxFor[uint16](b)
		minMaxFor[int32](b)
		minMaxFor[uint32](b)
		minMaxFor[int64](b)
		minMaxFor[uint64](b)
		minMaxFor[float32](b)
		minMaxFor[float64](b)
	},
}

func minMaxFor[T harness.Number](b *harness.Bench) {
	init := T(b.Init())
	data := make([]T, minMaxSize)
	harness.FillRamp(data, init, minMaxPeriod)
	harness.Shuffle(data, harness.DefaultSeed)

	pattern := make([]T, minMaxPeriod)
	harness.FillRamp(pattern, init, minMaxPeriod)
	hi, lo := slices.Max(pattern), slices.Min(pattern)

	measureScalar(b, label[T]("max branch"), hi, 1, func() T { return maxBranch(data) })
	measureScalar(b, label[T]("max builtin"), hi, 1, func() T { return maxBuiltin(data) })
	measureScalar(b, label[T]("max 4 accumulators"), hi, 1, func() T { return max4(data) })
	measureScalar(b, label[T]("max slices package"), hi, 1, func() T { return slices.Max(data) })
	measureScalar(b, label[T]("min branch"), lo, 1, func() T { return minBranch(data) })
	measureScalar(b, label[T]("min builtin"), lo, 1, func() T { return minBuiltin(data) })
	measureScalar(b, label[T]("min 4 accumulators"), lo, 1, func() T { return min4(data) })
	measureScalar(b, label[T]("min slices package"), lo, 1, func() T { return slices.Min(data) })

	b.Summarize(harness.SummaryOptions{
		Name:  harness.TypeName[T]() + " minmax",
		Items: minMaxSize,
	})
}

func maxBranch[T harness.Number](data []T) T {
	m := data[0]
	for _, v := range data[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func maxBuiltin[T harness.Number](data []T) T {
	m := data[0]
	for _, v := range data[1:] {
		m = max(m, v)
	}
	return m
}

func max4[T harness.Number](data []T) T {
	m0, m1, m2, m3 := data[0], data[0], data[0], data[0]
	n := len(data)
	i := 0
	for ; i+4 <= n; i += 4 {
		m0 = max(m0, data[i])
		m1 = max(m1, data[i+1])
		m2 = max(m2, data[i+2])
		m3 = max(m3, data[i+3])
	}
	for ; i < n; i++ {
		m0 = max(m0, data[i])
	}
	return max(m0, m1, m2, m3)
}

func minBranch[T harness.Number](data []T) T {
	m := data[0]
	for _, v := range data[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func minBuiltin[T harness.Number](data []T) T {
	m := data[0]
	for _, v := range data[1:] {
		m = min(m, v)
	}
	return m
}

func min4[T harness.Number](data []T) T {
	m0, m1, m2, m3 := data[0], data[0], data[0], data[0]
	n := len(data)
	i := 0
	for ; i+4 <= n; i += 4 {
		m0 = min(m0, data[i])
		m1 = min(m1, data[i+1])
		m2 = min(m2, data[i+2])
		m3 = min(m3, data[i+3])
	}
	for ; i < n; i++ {
		m0 = min(m0, data[i])
	}
	return min(m0, m1, m2, m3)
}
