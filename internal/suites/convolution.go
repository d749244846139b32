package suites

import "optbench/internal/harness"

const (
	convolutionSize = 8000
	imageWidth      = 128
	imageHeight     = 128
	maxTaps         = 8
)

var convolutionKernels = map[int][]int{
	3: {1, 2, 1},
	5: {1, 2, 3, 2, 1},
	7: {1, 2, 3, 4, 3, 2, 1},
}

var convolutionWidths = []int{3, 5, 7}

var convolution = Suite{
	Name:        "convolution",
	Description: "one and two dimensional convolution with loop order and register rotation hints",
	Defaults:    harness.Params{Iterations: 5000, Init: 1},
	run: func(b *harness.Bench) {
		convolutionFor[uint8](b)
		convolutionFor[int16](b)
		convolutionFor[int32](b)
		convolutionFor[float32](b)
		convolutionFor[float64](b)
	},
}

type convolution1D int

const (
	convNaive convolution1D = iota
	convTapMajor
	convLocalCoefficients
	convSlidingWindow
)

func (c convolution1D) String() string {
	switch c {
	case convNaive:
		return "naive"
	case convTapMajor:
		return "tap major"
	case convLocalCoefficients:
		return "local coefficients"
	default:
		return "sliding window"
	}
}

type convolution2D int

const (
	conv2DNaive convolution2D = iota
	conv2DRowSlices
	conv2DSeparable
)

func (c convolution2D) String() string {
	switch c {
	case conv2DNaive:
		return "naive"
	case conv2DRowSlices:
		return "row slices"
	default:
		return "separable"
	}
}

func coefficients[T harness.Number](width int) []T {
	src := convolutionKernels[width]
	out := make([]T, len(src))
	for i, c := range src {
		out[i] = T(c)
	}
	return out
}

// convolvedValue is what every output element equals for a constant input:
// sum of v*c[k] accumulated in tap order.
func convolvedValue[T harness.Number](v T, coef []T) T {
	var sum T
	for _, c := range coef {
		sum += v * c
	}
	return sum
}

func convolutionFor[T harness.Number](b *harness.Bench) {
	init := T(b.Init())

	in := make([]T, convolutionSize)
	harness.Fill(in, init)
	for _, width := range convolutionWidths {
		coef := coefficients[T](width)
		out := make([]T, convolutionSize-width+1)
		expected := convolvedValue(init, coef)
		for v := convNaive; v <= convSlidingWindow; v++ {
			clear(out)
			measureBuffer(b, label[T]("1D width %d %s", width, v), out, expected, width, func() {
				convolve1D(out, in, coef, v)
			})
		}
	}
	b.Summarize(harness.SummaryOptions{
		Name:  harness.TypeName[T]() + " convolution 1D",
		Items: convolutionSize,
	})

	image := make([]T, imageWidth*imageHeight)
	harness.Fill(image, init)
	for _, width := range []int{3, 5} {
		coef := coefficients[T](width)
		coef2 := outer(coef)
		outW, outH := imageWidth-width+1, imageHeight-width+1
		out := make([]T, outW*outH)
		scratch := make([]T, outW*imageHeight)
		expected := convolvedValue(init, coef2)
		for v := conv2DNaive; v <= conv2DSeparable; v++ {
			clear(out)
			measureBuffer(b, label[T]("2D width %d %s", width, v), out, expected, width*width, func() {
				convolve2D(out, scratch, image, imageWidth, imageHeight, coef, coef2, v)
			})
		}
	}
	b.Summarize(harness.SummaryOptions{
		Name:  harness.TypeName[T]() + " convolution 2D",
		Items: imageWidth * imageHeight,
	})
}

func outer[T harness.Number](coef []T) []T {
	k := len(coef)
	out := make([]T, k*k)
	for y := 0; y < k; y++ {
		for x := 0; x < k; x++ {
			out[y*k+x] = coef[y] * coef[x]
		}
	}
	return out
}

func convolve1D[T harness.Number](out, in, coef []T, variant convolution1D) {
	k := len(coef)
	n := len(out)
	switch variant {
	case convNaive:
		for i := 0; i < n; i++ {
			var sum T
			for j := 0; j < k; j++ {
				sum += in[i+j] * coef[j]
			}
			out[i] = sum
		}
	case convTapMajor:
		clear(out)
		for j := 0; j < k; j++ {
			c := coef[j]
			src := in[j : j+n]
			for i := range out {
				out[i] += src[i] * c
			}
		}
	case convLocalCoefficients:
		var local [maxTaps]T
		copy(local[:], coef)
		for i := 0; i < n; i++ {
			window := in[i : i+k]
			var sum T
			for j := range window {
				sum += window[j] * local[j]
			}
			out[i] = sum
		}
	default:
		// Rotate the input through a fixed window so each element is loaded once.
		var window [maxTaps]T
		copy(window[:k-1], in[:k-1])
		for i := 0; i < n; i++ {
			window[k-1] = in[i+k-1]
			var sum T
			for j := 0; j < k; j++ {
				sum += window[j] * coef[j]
			}
			out[i] = sum
			copy(window[:k-1], window[1:k])
		}
	}
}

func convolve2D[T harness.Number](out, scratch, in []T, width, height int, coef, coef2 []T, variant convolution2D) {
	k := len(coef)
	outW, outH := width-k+1, height-k+1
	switch variant {
	case conv2DNaive:
		for y := 0; y < outH; y++ {
			for x := 0; x < outW; x++ {
				var sum T
				for ky := 0; ky < k; ky++ {
					for kx := 0; kx < k; kx++ {
						sum += in[(y+ky)*width+x+kx] * coef2[ky*k+kx]
					}
				}
				out[y*outW+x] = sum
			}
		}
	case conv2DRowSlices:
		for y := 0; y < outH; y++ {
			dst := out[y*outW : (y+1)*outW]
			for x := range dst {
				var sum T
				for ky := 0; ky < k; ky++ {
					row := in[(y+ky)*width+x : (y+ky)*width+x+k]
					taps := coef2[ky*k : ky*k+k]
					for kx := range row {
						sum += row[kx] * taps[kx]
					}
				}
				dst[x] = sum
			}
		}
	default:
		// Horizontal pass into scratch, then vertical pass into out.
		for y := 0; y < height; y++ {
			row := in[y*width : (y+1)*width]
			dst := scratch[y*outW : (y+1)*outW]
			for x := range dst {
				var sum T
				for kx := 0; kx < k; kx++ {
					sum += row[x+kx] * coef[kx]
				}
				dst[x] = sum
			}
		}
		for y := 0; y < outH; y++ {
			dst := out[y*outW : (y+1)*outW]
			for x := range dst {
				var sum T
				for ky := 0; ky < k; ky++ {
					sum += scratch[(y+ky)*outW+x] * coef[ky]
				}
				dst[x] = sum
			}
		}
	}
}
