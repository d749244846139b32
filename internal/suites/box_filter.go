package suites

import "optbench/internal/harness"

const (
	boxSize   = 8000
	boxWidth  = 256
	boxHeight = 64
)

var boxRadii = []int{1, 2, 4}

var boxFilter = Suite{
	Name:        "box_filter",
	Description: "box filters summing the whole window vs a running sum",
	Defaults:    harness.Params{Iterations: 5000, Init: 1},
	run: func(b *harness.Bench) {
		boxFilterFor[uint8](b)
		boxFilterFor[uint16](b)
		boxFilterFor[int32](b)
		boxFilterFor[float32](b)
		boxFilterFor[float64](b)
	},
}

// boxValue is the filtered value of a constant input, summed in T arithmetic
// so wrapped integer sums divide the same way the kernels do.
func boxValue[T harness.Number](v T, radius int) T {
	width := 2*radius + 1
	var sum T
	for i := 0; i < width; i++ {
		sum += v
	}
	return sum / T(width)
}

func boxFilterFor[T harness.Number](b *harness.Bench) {
	init := T(b.Init())

	in := make([]T, boxSize)
	harness.Fill(in, init)
	for _, r := range boxRadii {
		out := make([]T, boxSize-2*r)
		expected := boxValue(init, r)
		clear(out)
		measureBuffer(b, label[T]("horizontal radius %d window", r), out, expected, 2*r+1, func() {
			boxHorizontalNaive(out, in, r)
		})
		clear(out)
		measureBuffer(b, label[T]("horizontal radius %d running sum", r), out, expected, 2*r+1, func() {
			boxHorizontalRunning(out, in, r)
		})
	}
	b.Summarize(harness.SummaryOptions{
		Name:  harness.TypeName[T]() + " box filter horizontal",
		Items: boxSize,
	})

	image := make([]T, boxWidth*boxHeight)
	harness.Fill(image, init)
	for _, r := range boxRadii {
		out := make([]T, boxWidth*(boxHeight-2*r))
		sums := make([]T, boxWidth)
		expected := boxValue(init, r)
		clear(out)
		measureBuffer(b, label[T]("vertical radius %d window", r), out, expected, 2*r+1, func() {
			boxVerticalNaive(out, image, boxWidth, boxHeight, r)
		})
		clear(out)
		measureBuffer(b, label[T]("vertical radius %d column sums", r), out, expected, 2*r+1, func() {
			boxVerticalRunning(out, sums, image, boxWidth, boxHeight, r)
		})
	}
	b.Summarize(harness.SummaryOptions{
		Name:  harness.TypeName[T]() + " box filter vertical",
		Items: boxWidth * boxHeight,
	})
}

// boxHorizontalNaive writes out[i] = mean(in[i .. i+2r]).
func boxHorizontalNaive[T harness.Number](out, in []T, radius int) {
	width := 2*radius + 1
	div := T(width)
	for i := range out {
		var sum T
		for j := 0; j < width; j++ {
			sum += in[i+j]
		}
		out[i] = sum / div
	}
}

func boxHorizontalRunning[T harness.Number](out, in []T, radius int) {
	width := 2*radius + 1
	div := T(width)
	var sum T
	for j := 0; j < width; j++ {
		sum += in[j]
	}
	out[0] = sum / div
	for i := 1; i < len(out); i++ {
		sum += in[i+width-1] - in[i-1]
		out[i] = sum / div
	}
}

// boxVerticalNaive walks each column and sums the window for every row.
func boxVerticalNaive[T harness.Number](out, in []T, width, height, radius int) {
	window := 2*radius + 1
	div := T(window)
	outH := height - 2*radius
	for x := 0; x < width; x++ {
		for y := 0; y < outH; y++ {
			var sum T
			for k := 0; k < window; k++ {
				sum += in[(y+k)*width+x]
			}
			out[y*width+x] = sum / div
		}
	}
}

// boxVerticalRunning keeps one running sum per column and advances a row at a
// time, adding the entering row and subtracting the leaving one.
func boxVerticalRunning[T harness.Number](out, sums, in []T, width, height, radius int) {
	window := 2*radius + 1
	div := T(window)
	outH := height - 2*radius
	clear(sums)
	for k := 0; k < window; k++ {
		row := in[k*width : (k+1)*width]
		for x, v := range row {
			sums[x] += v
		}
	}
	dst := out[:width]
	for x := range dst {
		dst[x] = sums[x] / div
	}
	for y := 1; y < outH; y++ {
		enter := in[(y+window-1)*width : (y+window)*width]
		leave := in[(y-1)*width : y*width]
		dst := out[y*width : (y+1)*width]
		for x := range dst {
			sums[x] += enter[x] - leave[x]
			dst[x] = sums[x] / div
		}
	}
}
