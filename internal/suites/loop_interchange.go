package suites

import "optbench/internal/harness"

const (
	interchangeRows = 256
	interchangeCols = 250
)

var loopInterchange = Suite{
	Name:        "loop_interchange",
	Description: "two-dimensional traversal in row order vs column order",
	Defaults:    harness.Params{Iterations: 2000, Init: 1},
	run: func(b *harness.Bench) {
		loopInterchangeFor[uint8](b)
		loopInterchangeFor[int16](b)
		loopInterchangeFor[int32](b)
		loopInterchangeFor[int64](b)
		loopInterchangeFor[float32](b)
		loopInterchangeFor[float64](b)
	},
}

type loopOrder int

const (
	rowOrder loopOrder = iota
	columnOrder
)

func (o loopOrder) String() string {
	if o == rowOrder {
		return "row order"
	}
	return "column order"
}

func loopInterchangeFor[T harness.Number](b *harness.Bench) {
	const items = interchangeRows * interchangeCols
	init := T(b.Init())

	flat := make([]T, items)
	harness.Fill(flat, init)
	nested := make([][]T, interchangeRows)
	for i := range nested {
		nested[i] = make([]T, interchangeCols)
		harness.Fill(nested[i], init)
	}
	expected := harness.RepeatSum(init, items)

	for _, order := range []loopOrder{rowOrder, columnOrder} {
		measureScalar(b, label[T]("sum flat %s", order), expected, items, func() T {
			return sumFlat(flat, interchangeRows, interchangeCols, order)
		})
		measureScalar(b, label[T]("sum nested %s", order), expected, items, func() T {
			return sumNested(nested, order)
		})
	}

	src := make([]T, items)
	harness.Fill(src, init)
	dst := make([]T, items)
	for _, order := range []loopOrder{rowOrder, columnOrder} {
		clear(dst)
		measureBuffer(b, label[T]("copy flat %s", order), dst, init, 1, func() {
			copyFlat(dst, src, interchangeRows, interchangeCols, order)
		})
	}

	b.Summarize(harness.SummaryOptions{
		Name:  harness.TypeName[T]() + " loop interchange",
		Items: items,
	})
}

func sumFlat[T harness.Number](m []T, rows, cols int, order loopOrder) T {
	var result T
	if order == rowOrder {
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				result += m[i*cols+j]
			}
		}
		return result
	}
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			result += m[i*cols+j]
		}
	}
	return result
}

func sumNested[T harness.Number](m [][]T, order loopOrder) T {
	var result T
	if order == rowOrder {
		for i := range m {
			for j := range m[i] {
				result += m[i][j]
			}
		}
		return result
	}
	if len(m) == 0 {
		return result
	}
	for j := range m[0] {
		for i := range m {
			result += m[i][j]
		}
	}
	return result
}

func copyFlat[T harness.Number](dst, src []T, rows, cols int, order loopOrder) {
	if order == rowOrder {
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				dst[i*cols+j] = src[i*cols+j]
			}
		}
		return
	}
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			dst[i*cols+j] = src[i*cols+j]
		}
	}
}
