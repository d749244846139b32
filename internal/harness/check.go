package harness

import (
	"fmt"
	"io"
	"math"
)

// toleranceSlack widens the floating point bound beyond one ulp per term to
// absorb reassociation in unrolled and tiled variants.
const toleranceSlack = 4

// Largest relative error accepted for any number of terms.
const (
	maxRelativeError32 = 1e-5
	maxRelativeError64 = 1e-6
)

// Checker reports variants whose result differs from the expected value.
// Failures are printed and counted; they never abort a run.
type Checker struct {
	out      io.Writer
	failures int
	onFail   func(label string)
}

// NewChecker returns a Checker printing failures to out.
func NewChecker(out io.Writer) *Checker {
	return &Checker{out: out}
}

// OnFail registers a hook invoked after every reported failure.
func (c *Checker) OnFail(fn func(label string)) {
	c.onFail = fn
}

// Failures returns the number of failures reported since the last Reset.
func (c *Checker) Failures() int {
	return c.failures
}

// Reset zeroes the failure count.
func (c *Checker) Reset() {
	c.failures = 0
}

func (c *Checker) fail(label string) {
	c.failures++
	fmt.Fprintf(c.out, "test %s failed\n", label)
	if c.onFail != nil {
		c.onFail(label)
	}
}

// Check compares actual against expected and reports a failure for label when
// they differ. terms is the number of values folded into expected and scales
// the floating point tolerance up to a fixed relative cap; integer types
// require exact equality.
func Check[T Number](c *Checker, label string, actual, expected T, terms int) bool {
	if TolerantEqual(actual, expected, terms) {
		return true
	}
	c.fail(label)
	return false
}

// TolerantEqual is the comparison used by Check.
func TolerantEqual[T Number](actual, expected T, terms int) bool {
	if actual == expected {
		return true
	}
	eps := Epsilon[T]()
	if eps == 0 {
		return false
	}
	a, e := float64(actual), float64(expected)
	if math.IsNaN(a) || math.IsNaN(e) || math.IsInf(a, 0) || math.IsInf(e, 0) {
		return false
	}
	scale := math.Max(math.Abs(e), 1)
	n := float64(max(terms, 1))
	return math.Abs(a-e) <= scale*math.Min(eps*n*toleranceSlack, maxRelativeError[T]())
}

func maxRelativeError[T Number]() float64 {
	if Epsilon[T]() == Epsilon[float32]() {
		return maxRelativeError32
	}
	return maxRelativeError64
}
