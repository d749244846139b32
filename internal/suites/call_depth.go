package suites

import (
	"errors"

	"optbench/internal/harness"
)

const (
	callDepthSize = 1000
	maxCallDepth  = 6
)

var callDepth = Suite{
	Name:        "call_depth",
	Description: "nested calls returning values, status codes and errors, with and without recover",
	Defaults:    harness.Params{Iterations: 2000, Init: 1},
	run: func(b *harness.Bench) {
		callDepthFor[int32](b)
		callDepthFor[float64](b)
	},
}

type callMode int

const (
	callValue callMode = iota
	callStatus
	callError
	callRecover
	callPanic
)

func (m callMode) String() string {
	switch m {
	case callValue:
		return "value"
	case callStatus:
		return "status code"
	case callError:
		return "error"
	case callRecover:
		return "deferred recover"
	default:
		return "panic"
	}
}

var errNegativeDepth = errors.New("negative depth")

type leafPanic[T harness.Number] struct {
	v T
}

func callDepthFor[T harness.Number](b *harness.Bench) {
	init := T(b.Init())
	data := make([]T, callDepthSize)
	harness.Fill(data, init)
	expected := harness.RepeatSum(init+1, callDepthSize)

	for mode := callValue; mode <= callPanic; mode++ {
		for depth := 1; depth <= maxCallDepth; depth++ {
			measureScalar(b, label[T]("%s depth %d", mode, depth), expected, callDepthSize, func() T {
				var sum T
				for _, x := range data {
					sum += wrappedCall(mode, depth, x)
				}
				return sum
			})
		}
	}

	b.Summarize(harness.SummaryOptions{
		Name:  harness.TypeName[T]() + " call depth",
		Items: callDepthSize,
	})
}

// wrappedCall returns x+1 after descending depth levels of calls in the given
// mode. Only callPanic unwinds through panic.
func wrappedCall[T harness.Number](mode callMode, depth int, x T) T {
	switch mode {
	case callValue:
		return callByValue(depth, x)
	case callStatus:
		var out T
		if callByStatus(depth, x, &out) != 0 {
			return 0
		}
		return out
	case callError:
		v, err := callByError(depth, x)
		if err != nil {
			return 0
		}
		return v
	case callRecover:
		return callGuarded(depth, x)
	default:
		return callUnwinding(depth, x)
	}
}

//go:noinline
func callByValue[T harness.Number](depth int, x T) T {
	if depth <= 0 {
		return x + 1
	}
	return callByValue(depth-1, x)
}

//go:noinline
func callByStatus[T harness.Number](depth int, x T, out *T) int {
	if depth < 0 {
		return -1
	}
	if depth == 0 {
		*out = x + 1
		return 0
	}
	if status := callByStatus(depth-1, x, out); status != 0 {
		return status
	}
	return 0
}

//go:noinline
func callByError[T harness.Number](depth int, x T) (T, error) {
	if depth < 0 {
		return 0, errNegativeDepth
	}
	if depth == 0 {
		return x + 1, nil
	}
	v, err := callByError(depth-1, x)
	if err != nil {
		return 0, err
	}
	return v, nil
}

// callGuarded installs a recover that never fires.
func callGuarded[T harness.Number](depth int, x T) (result T) {
	defer func() {
		if r := recover(); r != nil {
			result = 0
		}
	}()
	return callByValue(depth, x)
}

func callUnwinding[T harness.Number](depth int, x T) (result T) {
	defer func() {
		if r := recover(); r != nil {
			if p, ok := r.(leafPanic[T]); ok {
				result = p.v
			}
		}
	}()
	throwAt(depth, x)
	return 0
}

//go:noinline
func throwAt[T harness.Number](depth int, x T) {
	if depth <= 0 {
		panic(leafPanic[T]{v: x + 1})
	}
	throwAt(depth-1, x)
}
