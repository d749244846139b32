package suites

import "optbench/internal/harness"

const vectorSize = 8000

var vectorize = Suite{
	Name:        "vectorize",
	Description: "axpy and dot product with bounds-check and unrolling hints",
	Defaults:    harness.Params{Iterations: 20000, Init: 1},
	run: func(b *harness.Bench) {
		vectorizeFor[int8](b)
		vectorizeFor[uint8](b)
		vectorizeFor[int16](b)
		vectorizeFor[uint16](b)
		vectorizeFor[int32](b)
		vectorizeFor[uint32](b)
		vectorizeFor[int64](b)
		vectorizeFor[uint64](b)
		vectorizeFor[float32](b)
		vectorizeFor[float64](b)
	},
}

func vectorizeFor[T harness.Number](b *harness.Bench) {
	init := T(b.Init())
	x := make([]T, vectorSize)
	y := make([]T, vectorSize)
	out := make([]T, vectorSize)
	harness.Fill(x, init)
	harness.Fill(y, init+1)
	a := init + 2

	axpy := a*init + (init + 1)
	measureBuffer(b, label[T]("axpy index loop"), out, axpy, 2, func() { axpyIndex(out, a, x, y) })
	clear(out)
	measureBuffer(b, label[T]("axpy range loop"), out, axpy, 2, func() { axpyRange(out, a, x, y) })
	clear(out)
	measureBuffer(b, label[T]("axpy bounds hint"), out, axpy, 2, func() { axpyBounds(out, a, x, y) })
	clear(out)
	measureBuffer(b, label[T]("axpy unrolled 4"), out, axpy, 2, func() { axpyUnrolled(out, a, x, y) })

	dot := harness.RepeatSum(init*(init+1), vectorSize)
	measureScalar(b, label[T]("dot index loop"), dot, vectorSize, func() T { return dotIndex(x, y) })
	measureScalar(b, label[T]("dot bounds hint"), dot, vectorSize, func() T { return dotBounds(x, y) })
	measureScalar(b, label[T]("dot 4 accumulators"), dot, vectorSize, func() T { return dotUnrolled(x, y) })

	b.Summarize(harness.SummaryOptions{
		Name:  harness.TypeName[T]() + " vectorize",
		Items: vectorSize,
	})
}

func axpyIndex[T harness.Number](out []T, a T, x, y []T) {
	for i := 0; i < len(x); i++ {
		out[i] = a*x[i] + y[i]
	}
}

func axpyRange[T harness.Number](out []T, a T, x, y []T) {
	for i, v := range x {
		out[i] = a*v + y[i]
	}
}

// axpyBounds reslices the operands to a common length so the compiler can
// drop the per-element bounds checks.
func axpyBounds[T harness.Number](out []T, a T, x, y []T) {
	n := len(x)
	y = y[:n]
	out = out[:n]
	for i := 0; i < n; i++ {
		out[i] = a*x[i] + y[i]
	}
}

func axpyUnrolled[T harness.Number](out []T, a T, x, y []T) {
	n := len(x)
	y = y[:n]
	out = out[:n]
	i := 0
	for ; i+4 <= n; i += 4 {
		xs, ys, dst := x[i:i+4:i+4], y[i:i+4:i+4], out[i:i+4:i+4]
		dst[0] = a*xs[0] + ys[0]
		dst[1] = a*xs[1] + ys[1]
		dst[2] = a*xs[2] + ys[2]
		dst[3] = a*xs[3] + ys[3]
	}
	for ; i < n; i++ {
		out[i] = a*x[i] + y[i]
	}
}

func dotIndex[T harness.Number](x, y []T) T {
	var sum T
	for i := 0; i < len(x); i++ {
		sum += x[i] * y[i]
	}
	return sum
}

func dotBounds[T harness.Number](x, y []T) T {
	var sum T
	y = y[:len(x)]
	for i, v := range x {
		sum += v * y[i]
	}
	return sum
}

func dotUnrolled[T harness.Number](x, y []T) T {
	var s0, s1, s2, s3 T
	n := len(x)
	y = y[:n]
	i := 0
	for ; i+4 <= n; i += 4 {
		s0 += x[i] * y[i]
		s1 += x[i+1] * y[i+1]
		s2 += x[i+2] * y[i+2]
		s3 += x[i+3] * y[i+3]
	}
	for ; i < n; i++ {
		s0 += x[i] * y[i]
	}
	return (s0 + s1) + (s2 + s3)
}
