package suites

import "optbench/internal/harness"

const abstractionSize = 2000

var abstractionPenalty = Suite{
	Name:        "abstraction_penalty",
	Description: "summing through wrappers, iterators, interfaces and closures instead of a bare slice",
	Defaults:    harness.Params{Iterations: 25000, Init: 3},
	run: func(b *harness.Bench) {
		abstractionFor[float64](b)
		abstractionFor[int32](b)
	},
}

type wrapped[T harness.Number] struct {
	v T
}

type sliceIter[T harness.Number] struct {
	data []T
	pos  int
}

func (it *sliceIter[T]) Next() bool {
	it.pos++
	return it.pos <= len(it.data)
}

func (it *sliceIter[T]) Value() T {
	return it.data[it.pos-1]
}

type wrappedIter[T harness.Number] struct {
	data []wrapped[T]
	pos  int
}

func (it *wrappedIter[T]) Next() bool {
	it.pos++
	return it.pos <= len(it.data)
}

func (it *wrappedIter[T]) Value() wrapped[T] {
	return it.data[it.pos-1]
}

// Indexer is the accessor shape shared by the interface and generic variants.
type Indexer[T harness.Number] interface {
	At(i int) T
	Len() int
}

type sliceIndexer[T harness.Number] []T

func (s sliceIndexer[T]) At(i int) T { return s[i] }
func (s sliceIndexer[T]) Len() int   { return len(s) }

func abstractionFor[T harness.Number](b *harness.Bench) {
	init := T(b.Init())
	data := make([]T, abstractionSize)
	harness.Fill(data, init)
	boxed := make([]wrapped[T], abstractionSize)
	for i := range boxed {
		boxed[i] = wrapped[T]{v: init}
	}
	expected := harness.RepeatSum(init, abstractionSize)

	measureScalar(b, label[T]("index loop"), expected, abstractionSize, func() T {
		var sum T
		for i := 0; i < len(data); i++ {
			sum += data[i]
		}
		return sum
	})
	measureScalar(b, label[T]("range loop"), expected, abstractionSize, func() T {
		var sum T
		for _, v := range data {
			sum += v
		}
		return sum
	})
	measureScalar(b, label[T]("wrapped values"), expected, abstractionSize, func() T {
		var sum wrapped[T]
		for i := 0; i < len(boxed); i++ {
			sum = wrapped[T]{v: sum.v + boxed[i].v}
		}
		return sum.v
	})
	measureScalar(b, label[T]("iterator"), expected, abstractionSize, func() T {
		var sum T
		it := sliceIter[T]{data: data}
		for it.Next() {
			sum += it.Value()
		}
		return sum
	})
	measureScalar(b, label[T]("iterator over wrapped values"), expected, abstractionSize, func() T {
		var sum wrapped[T]
		it := wrappedIter[T]{data: boxed}
		for it.Next() {
			sum = wrapped[T]{v: sum.v + it.Value().v}
		}
		return sum.v
	})
	measureScalar(b, label[T]("reverse index loop"), expected, abstractionSize, func() T {
		var sum T
		for i := len(data) - 1; i >= 0; i-- {
			sum += data[i]
		}
		return sum
	})
	measureScalar(b, label[T]("reverse wrapped values"), expected, abstractionSize, func() T {
		var sum wrapped[T]
		for i := len(boxed) - 1; i >= 0; i-- {
			sum = wrapped[T]{v: sum.v + boxed[i].v}
		}
		return sum.v
	})
	var dynamic Indexer[T] = sliceIndexer[T](data)
	measureScalar(b, label[T]("interface accessor"), expected, abstractionSize, func() T {
		return sumInterface(dynamic)
	})
	measureScalar(b, label[T]("generic accessor"), expected, abstractionSize, func() T {
		return sumGeneric[T](sliceIndexer[T](data))
	})
	at := func(i int) T { return data[i] }
	measureScalar(b, label[T]("closure accessor"), expected, abstractionSize, func() T {
		var sum T
		for i := 0; i < len(data); i++ {
			sum += at(i)
		}
		return sum
	})

	b.Summarize(harness.SummaryOptions{
		Name:          harness.TypeName[T]() + " abstraction",
		Items:         abstractionSize,
		GeometricMean: true,
		Penalty:       true,
	})
}

func sumInterface[T harness.Number](ix Indexer[T]) T {
	var sum T
	for i := 0; i < ix.Len(); i++ {
		sum += ix.At(i)
	}
	return sum
}

func sumGeneric[T harness.Number, I Indexer[T]](ix I) T {
	var sum T
	for i := 0; i < ix.Len(); i++ {
		sum += ix.At(i)
	}
	return sum
}
