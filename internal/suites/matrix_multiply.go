package suites

import (
	"fmt"

	"optbench/internal/harness"
)

const matrixSize = 64

var tileSizes = []int{8, 16, 32}

var matrixMultiply = Suite{
	Name:        "matrix_multiply",
	Description: "square matrix product in every loop order and tiled",
	Defaults:    harness.Params{Iterations: 200, Init: 1},
	run: func(b *harness.Bench) {
		matrixMultiplyFor[int32](b)
		matrixMultiplyFor[int64](b)
		matrixMultiplyFor[float32](b)
		matrixMultiplyFor[float64](b)
	},
}

type matMulOrder int

const (
	orderIJK matMulOrder = iota
	orderIKJ
	orderJIK
	orderJKI
	orderKIJ
	orderKJI
	orderIJKLocalSum
)

func (o matMulOrder) String() string {
	switch o {
	case orderIJK:
		return "ijk"
	case orderIKJ:
		return "ikj"
	case orderJIK:
		return "jik"
	case orderJKI:
		return "jki"
	case orderKIJ:
		return "kij"
	case orderKJI:
		return "kji"
	default:
		return "ijk local sum"
	}
}

func matrixMultiplyFor[T harness.Number](b *harness.Bench) {
	const n = matrixSize
	init := T(b.Init())
	a := make([]T, n*n)
	bm := make([]T, n*n)
	c := make([]T, n*n)
	harness.Fill(a, init)
	harness.Fill(bm, init)
	expected := harness.RepeatSum(init*init, n)

	for order := orderIJK; order <= orderIJKLocalSum; order++ {
		clear(c)
		measureBuffer(b, label[T]("order %s", order), c, expected, n, func() {
			matMul(c, a, bm, n, order)
		})
	}
	for _, tile := range tileSizes {
		clear(c)
		measureBuffer(b, label[T]("tiled %d", tile), c, expected, n, func() {
			matMulTiled(c, a, bm, n, tile)
		})
	}

	b.Summarize(harness.SummaryOptions{
		Name:  fmt.Sprintf("%s matrix multiply %dx%d", harness.TypeName[T](), n, n),
		Items: n * n * n,
	})
}

// matMul computes c = a*b for n x n row-major matrices using the given loop
// nest. Every order accumulates over k in ascending order.
func matMul[T harness.Number](c, a, b []T, n int, order matMulOrder) {
	if order != orderIJKLocalSum {
		clear(c)
	}
	switch order {
	case orderIJK:
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				for k := 0; k < n; k++ {
					c[i*n+j] += a[i*n+k] * b[k*n+j]
				}
			}
		}
	case orderIKJ:
		for i := 0; i < n; i++ {
			for k := 0; k < n; k++ {
				aik := a[i*n+k]
				row := b[k*n : (k+1)*n]
				dst := c[i*n : (i+1)*n]
				for j := range dst {
					dst[j] += aik * row[j]
				}
			}
		}
	case orderJIK:
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				for k := 0; k < n; k++ {
					c[i*n+j] += a[i*n+k] * b[k*n+j]
				}
			}
		}
	case orderJKI:
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				bkj := b[k*n+j]
				for i := 0; i < n; i++ {
					c[i*n+j] += a[i*n+k] * bkj
				}
			}
		}
	case orderKIJ:
		for k := 0; k < n; k++ {
			for i := 0; i < n; i++ {
				aik := a[i*n+k]
				row := b[k*n : (k+1)*n]
				dst := c[i*n : (i+1)*n]
				for j := range dst {
					dst[j] += aik * row[j]
				}
			}
		}
	case orderKJI:
		for k := 0; k < n; k++ {
			for j := 0; j < n; j++ {
				bkj := b[k*n+j]
				for i := 0; i < n; i++ {
					c[i*n+j] += a[i*n+k] * bkj
				}
			}
		}
	default:
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				var sum T
				for k := 0; k < n; k++ {
					sum += a[i*n+k] * b[k*n+j]
				}
				c[i*n+j] = sum
			}
		}
	}
}

// matMulTiled is the ikj order restricted to tile x tile blocks so the working
// set of b and c stays cache resident.
func matMulTiled[T harness.Number](c, a, b []T, n, tile int) {
	clear(c)
	for ii := 0; ii < n; ii += tile {
		iEnd := min(ii+tile, n)
		for kk := 0; kk < n; kk += tile {
			kEnd := min(kk+tile, n)
			for jj := 0; jj < n; jj += tile {
				jEnd := min(jj+tile, n)
				for i := ii; i < iEnd; i++ {
					dst := c[i*n+jj : i*n+jEnd]
					for k := kk; k < kEnd; k++ {
						aik := a[i*n+k]
						row := b[k*n+jj : k*n+jEnd]
						for j := range dst {
							dst[j] += aik * row[j]
						}
					}
				}
			}
		}
	}
}
