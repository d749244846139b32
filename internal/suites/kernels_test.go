package suites

import (
	"testing"

	"optbench/internal/harness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp[T harness.Number](n int, period int) []T {
	out := make([]T, n)
	harness.FillRamp(out, 1, period)
	return out
}

func TestUnrolledSumsAgreeOnOddLengths(t *testing.T) {
	for _, n := range []int{1, 7, 33, 1001} {
		data := ramp[int64](n, 13)
		want := sumRange(data)
		for _, f := range unrollFactors {
			assert.Equal(t, want, sumUnrolled(data, f), "unroll %d n=%d", f, n)
			assert.Equal(t, want, sumSplit(data, f), "split %d n=%d", f, n)
		}
		assert.Equal(t, want, sumHand4(data))
		assert.Equal(t, want, sumHand8(data))
	}
}

func TestLoopInvariantVariantsAgree(t *testing.T) {
	data := ramp[int32](1000, 11)
	for _, op := range []arithOp{opAdd, opSub, opMul} {
		want := invariantInLoop(data, op, 2, 3, 4)
		assert.Equal(t, want, invariantHoisted(data, op, 2, 3, 4), op.String())
		assert.Equal(t, want, invariantFolded(data, op, 2, 3, 4), op.String())
	}
}

func TestFoldedExpressionsMatchChains(t *testing.T) {
	data := ramp[uint16](500, 17)
	pairs := [][2]foldExpr{
		{foldAddChain, foldAddFolded},
		{foldSubChain, foldSubFolded},
		{foldMulChain, foldMulFolded},
		{foldMixedChain, foldMixedFolded},
		{foldIdentityChain, foldIdentityFolded},
	}
	for _, p := range pairs {
		assert.Equal(t, foldSum(data, p[0]), foldSum(data, p[1]), foldNames[p[0]])
	}
}

func TestLoopOrdersAgree(t *testing.T) {
	const rows, cols = 9, 13
	m := ramp[int32](rows*cols, 5)
	assert.Equal(t, sumFlat(m, rows, cols, rowOrder), sumFlat(m, rows, cols, columnOrder))

	nested := make([][]int32, rows)
	for i := range nested {
		nested[i] = m[i*cols : (i+1)*cols]
	}
	assert.Equal(t, sumFlat(m, rows, cols, rowOrder), sumNested(nested, columnOrder))

	dst := make([]int32, rows*cols)
	copyFlat(dst, m, rows, cols, columnOrder)
	assert.Equal(t, m, dst)
}

func TestVectorKernelsAgree(t *testing.T) {
	x := ramp[int32](103, 7)
	y := ramp[int32](103, 5)
	want := make([]int32, len(x))
	axpyIndex(want, 3, x, y)

	for _, fn := range []func([]int32, int32, []int32, []int32){axpyRange[int32], axpyBounds[int32], axpyUnrolled[int32]} {
		got := make([]int32, len(x))
		fn(got, 3, x, y)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, dotIndex(x, y), dotBounds(x, y))
	assert.Equal(t, dotIndex(x, y), dotUnrolled(x, y))
}

func TestConvolutionVariantsAgree(t *testing.T) {
	in := ramp[int32](200, 9)
	for _, width := range convolutionWidths {
		coef := coefficients[int32](width)
		want := make([]int32, len(in)-width+1)
		convolve1D(want, in, coef, convNaive)
		for v := convTapMajor; v <= convSlidingWindow; v++ {
			got := make([]int32, len(want))
			convolve1D(got, in, coef, v)
			assert.Equal(t, want, got, "width %d %s", width, v)
		}
	}

	const w, h = 20, 15
	image := ramp[int32](w*h, 7)
	for _, width := range []int{3, 5} {
		coef := coefficients[int32](width)
		coef2 := outer(coef)
		outW, outH := w-width+1, h-width+1
		scratch := make([]int32, outW*h)
		want := make([]int32, outW*outH)
		convolve2D(want, scratch, image, w, h, coef, coef2, conv2DNaive)
		for v := conv2DRowSlices; v <= conv2DSeparable; v++ {
			got := make([]int32, len(want))
			convolve2D(got, scratch, image, w, h, coef, coef2, v)
			assert.Equal(t, want, got, "width %d %s", width, v)
		}
	}
}

func TestBoxFiltersAgree(t *testing.T) {
	in := ramp[int32](300, 23)
	for _, r := range boxRadii {
		want := make([]int32, len(in)-2*r)
		got := make([]int32, len(want))
		boxHorizontalNaive(want, in, r)
		boxHorizontalRunning(got, in, r)
		assert.Equal(t, want, got, "radius %d", r)
	}

	const w, h = 17, 30
	image := ramp[uint16](w*h, 19)
	for _, r := range boxRadii {
		want := make([]uint16, w*(h-2*r))
		got := make([]uint16, len(want))
		sums := make([]uint16, w)
		boxVerticalNaive(want, image, w, h, r)
		boxVerticalRunning(got, sums, image, w, h, r)
		assert.Equal(t, want, got, "radius %d", r)
	}
}

func TestMatrixOrdersAgree(t *testing.T) {
	const n = 12
	a := ramp[int64](n*n, 7)
	b := ramp[int64](n*n, 5)
	want := make([]int64, n*n)
	matMul(want, a, b, n, orderIJK)
	for o := orderIKJ; o <= orderIJKLocalSum; o++ {
		got := make([]int64, n*n)
		matMul(got, a, b, n, o)
		assert.Equal(t, want, got, o.String())
	}
	for _, tile := range []int{1, 5, 8, 16} {
		got := make([]int64, n*n)
		matMulTiled(got, a, b, n, tile)
		assert.Equal(t, want, got, "tile %d", tile)
	}
}

func TestMinMaxVariantsAgree(t *testing.T) {
	data := ramp[int16](1001, 97)
	harness.Shuffle(data, harness.DefaultSeed)
	assert.Equal(t, int16(97), maxBranch(data))
	assert.Equal(t, maxBranch(data), maxBuiltin(data))
	assert.Equal(t, maxBranch(data), max4(data))
	assert.Equal(t, int16(1), minBranch(data))
	assert.Equal(t, minBranch(data), minBuiltin(data))
	assert.Equal(t, minBranch(data), min4(data))
}

func TestWrappedCallModes(t *testing.T) {
	for mode := callValue; mode <= callPanic; mode++ {
		for depth := 0; depth <= maxCallDepth; depth++ {
			assert.Equal(t, int32(42), wrappedCall(mode, depth, int32(41)), "%s depth %d", mode, depth)
		}
	}

	_, err := callByError(-1, 1.0)
	require.ErrorIs(t, err, errNegativeDepth)
	var out float64
	assert.Equal(t, -1, callByStatus(-1, 1.0, &out))
}

func TestAbstractionAccessors(t *testing.T) {
	data := ramp[float64](100, 10)
	want := sumRange(data)
	assert.Equal(t, want, sumInterface[float64](sliceIndexer[float64](data)))
	assert.Equal(t, want, sumGeneric[float64](sliceIndexer[float64](data)))

	it := sliceIter[float64]{data: data}
	var got float64
	for it.Next() {
		got += it.Value()
	}
	assert.Equal(t, want, got)
}

func TestSharedHandleRefcount(t *testing.T) {
	h := newShared(int32(5))
	c := h.acquire()
	assert.Equal(t, int32(2), h.refs.Load())
	c.release()
	assert.Equal(t, int32(1), h.refs.Load())
	assert.Equal(t, int32(5), box[int32]{p: h.p}.Get())
}
