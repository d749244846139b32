package suites

import "optbench/internal/harness"

const cseSize = 8000

var commonSubexpression = Suite{
	Name:        "common_subexpression",
	Description: "repeated subexpressions vs a temporary computed once",
	Defaults:    harness.Params{Iterations: 20000, Init: 1},
	run: func(b *harness.Bench) {
		cseFor[int8](b)
		cseFor[uint8](b)
		cseFor[int16](b)
		cseFor[uint16](b)
		cseFor[int32](b)
		cseFor[uint32](b)
		cseFor[int64](b)
		cseFor[uint64](b)
		cseFor[float32](b)
		cseFor[float64](b)
	},
}

func cseFor[T harness.Number](b *harness.Bench) {
	data := make([]T, cseSize)
	init := T(b.Init())
	harness.Fill(data, init)
	v1, v2, v3 := init+1, init+2, init+3

	sumOfProducts := harness.RepeatSum((init+v1)*v2+(init+v1)*v3, cseSize)
	measureScalar(b, label[T]("sum of products repeated"), sumOfProducts, cseSize*2, func() T {
		var result T
		for j := 0; j < len(data); j++ {
			result += (data[j]+v1)*v2 + (data[j]+v1)*v3
		}
		return result
	})
	measureScalar(b, label[T]("sum of products temporary"), sumOfProducts, cseSize*2, func() T {
		var result T
		for j := 0; j < len(data); j++ {
			t := data[j] + v1
			result += t*v2 + t*v3
		}
		return result
	})
	measureScalar(b, label[T]("sum of products factored"), sumOfProducts, cseSize*2, func() T {
		var result T
		w := v2 + v3
		for j := 0; j < len(data); j++ {
			result += (data[j] + v1) * w
		}
		return result
	})

	square := harness.RepeatSum((init*v1-v2)*(init*v1-v2), cseSize)
	measureScalar(b, label[T]("square repeated"), square, cseSize*2, func() T {
		var result T
		for j := 0; j < len(data); j++ {
			result += (data[j]*v1 - v2) * (data[j]*v1 - v2)
		}
		return result
	})
	measureScalar(b, label[T]("square temporary"), square, cseSize*2, func() T {
		var result T
		for j := 0; j < len(data); j++ {
			t := data[j]*v1 - v2
			result += t * t
		}
		return result
	})

	shared := harness.RepeatSum((init+v1)*(init+v1)+(init+v1)*v2+v3*(init+v1), cseSize)
	measureScalar(b, label[T]("three uses repeated"), shared, cseSize*3, func() T {
		var result T
		for j := 0; j < len(data); j++ {
			result += (data[j]+v1)*(data[j]+v1) + (data[j]+v1)*v2 + v3*(data[j]+v1)
		}
		return result
	})
	measureScalar(b, label[T]("three uses temporary"), shared, cseSize*3, func() T {
		var result T
		for j := 0; j < len(data); j++ {
			t := data[j] + v1
			result += t*t + t*v2 + v3*t
		}
		return result
	})

	b.Summarize(harness.SummaryOptions{
		Name:  harness.TypeName[T]() + " common subexpression",
		Items: cseSize,
	})
}
