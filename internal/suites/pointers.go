package suites

import (
	"runtime"
	"sync/atomic"
	"weak"

	"optbench/internal/harness"
)

const pointerSize = 2000

var pointers = Suite{
	Name:        "pointers",
	Description: "reading values through raw, boxed, shared, interface and weak pointers",
	Defaults:    harness.Params{Iterations: 20000, Init: 3},
	run: func(b *harness.Bench) {
		pointersFor[int32](b)
		pointersFor[int64](b)
		pointersFor[float64](b)
	},
}

type box[T harness.Number] struct {
	p *T
}

func (b box[T]) Get() T { return *b.p }

// Getter is implemented by every holder the interface variant reads through.
type Getter[T harness.Number] interface {
	Get() T
}

// shared is a reference-counted handle. Copying it for a read costs an atomic
// increment and decrement, the same as copying a shared_ptr.
type shared[T harness.Number] struct {
	p    *T
	refs *atomic.Int32
}

func newShared[T harness.Number](v T) shared[T] {
	p := new(T)
	*p = v
	refs := new(atomic.Int32)
	refs.Store(1)
	return shared[T]{p: p, refs: refs}
}

func (s shared[T]) acquire() shared[T] {
	s.refs.Add(1)
	return s
}

func (s shared[T]) release() {
	s.refs.Add(-1)
}

func pointersFor[T harness.Number](b *harness.Bench) {
	init := T(b.Init())
	values := make([]T, pointerSize)
	harness.Fill(values, init)

	inner := make([]*T, pointerSize)
	scattered := make([]*T, pointerSize)
	boxes := make([]box[T], pointerSize)
	getters := make([]Getter[T], pointerSize)
	handles := make([]shared[T], pointerSize)
	weaks := make([]weak.Pointer[T], pointerSize)
	for i := range values {
		inner[i] = &values[i]
		p := new(T)
		*p = init
		scattered[i] = p
		boxes[i] = box[T]{p: &values[i]}
		getters[i] = box[T]{p: p}
		handles[i] = newShared(init)
		weaks[i] = weak.Make(p)
	}
	expected := harness.RepeatSum(init, pointerSize)

	measureScalar(b, label[T]("values"), expected, pointerSize, func() T {
		var sum T
		for _, v := range values {
			sum += v
		}
		return sum
	})
	measureScalar(b, label[T]("pointers into slice"), expected, pointerSize, func() T {
		var sum T
		for _, p := range inner {
			sum += *p
		}
		return sum
	})
	measureScalar(b, label[T]("pointers to heap values"), expected, pointerSize, func() T {
		var sum T
		for _, p := range scattered {
			sum += *p
		}
		return sum
	})
	measureScalar(b, label[T]("boxed pointers"), expected, pointerSize, func() T {
		var sum T
		for _, bx := range boxes {
			sum += bx.Get()
		}
		return sum
	})
	measureScalar(b, label[T]("interface holders"), expected, pointerSize, func() T {
		var sum T
		for _, g := range getters {
			sum += g.Get()
		}
		return sum
	})
	measureScalar(b, label[T]("shared handles"), expected, pointerSize, func() T {
		var sum T
		for _, h := range handles {
			c := h.acquire()
			sum += *c.p
			c.release()
		}
		return sum
	})
	measureScalar(b, label[T]("weak pointers"), expected, pointerSize, func() T {
		var sum T
		for _, w := range weaks {
			if p := w.Value(); p != nil {
				sum += *p
			}
		}
		return sum
	})
	runtime.KeepAlive(scattered)

	b.Summarize(harness.SummaryOptions{
		Name:          harness.TypeName[T]() + " pointers",
		Items:         pointerSize,
		GeometricMean: true,
		Penalty:       true,
	})
}
