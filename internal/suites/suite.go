package suites

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"optbench/internal/harness"
)

// ErrUnknownSuite is returned by Lookup for names not in the registry.
var ErrUnknownSuite = errors.New("unknown suite")

// Suite is one optimization category: a driver that times every variant of
// its kernels for every element type and summarizes at group boundaries.
type Suite struct {
	Name        string
	Description string
	Defaults    harness.Params
	run         func(b *harness.Bench)
}

// Run executes the suite against b and returns the number of failed checks.
func (s Suite) Run(b *harness.Bench) int {
	slog.Debug("suite started", "suite", s.Name, "iterations", b.Iterations(), "init", b.Init())
	start := time.Now()
	before := b.Failures()
	s.run(b)
	failed := b.Failures() - before
	slog.Debug("suite finished", "suite", s.Name, "duration", time.Since(start), "failures", failed)
	return failed
}

// WithDefaults returns a copy of s that runs with p when no arguments are
// given.
func (s Suite) WithDefaults(p harness.Params) Suite {
	s.Defaults = p
	return s
}

// All returns every registered suite in execution order.
func All() []Suite {
	return []Suite{
		loopInvariant,
		commonSubexpression,
		constantFolding,
		loopUnroll,
		loopInterchange,
		vectorize,
		convolution,
		boxFilter,
		matrixMultiply,
		minMax,
		abstractionPenalty,
		pointers,
		callDepth,
	}
}

// Lookup finds a suite by name.
func Lookup(name string) (Suite, error) {
	for _, s := range All() {
		if s.Name == name {
			return s, nil
		}
	}
	return Suite{}, fmt.Errorf("%w: %s", ErrUnknownSuite, name)
}

// measureScalar times a kernel that returns one value per iteration and checks
// every result against expected.
func measureScalar[T harness.Number](b *harness.Bench, label string, expected T, terms int, kernel func() T) {
	b.Measure(label, func() {
		for i := 0; i < b.Iterations(); i++ {
			harness.Check(b.Checker(), label, kernel(), expected, terms)
		}
	})
}

// measureBuffer times a kernel that writes out, then checks every element of
// out against expected once. Only the first mismatching element is reported.
func measureBuffer[T harness.Number](b *harness.Bench, label string, out []T, expected T, terms int, kernel func()) {
	b.Measure(label, func() {
		for i := 0; i < b.Iterations(); i++ {
			kernel()
		}
	})
	checkAll(b.Checker(), label, out, expected, terms)
}

func checkAll[T harness.Number](c *harness.Checker, label string, out []T, expected T, terms int) {
	for _, v := range out {
		if !harness.TolerantEqual(v, expected, terms) {
			harness.Check(c, label, v, expected, terms)
			return
		}
	}
}

func label[T harness.Number](format string, args ...any) string {
	return harness.TypeName[T]() + " " + fmt.Sprintf(format, args...)
}
