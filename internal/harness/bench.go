package harness

import (
	"io"
	"log/slog"
)

// Observer receives every group summary and check failure of a suite run.
type Observer interface {
	ObserveGroup(suite string, s GroupSummary)
	ObserveFailure(suite, label string)
}

// Bench is the state one suite run carries: output, timer, recorder and
// checker. It replaces process-wide result lists with an explicit object.
type Bench struct {
	Suite  string
	Params Params

	out       io.Writer
	timer     *Timer
	recorder  *Recorder
	checker   *Checker
	observers []Observer
}

// NewBench prepares a run of suite writing its report to out.
func NewBench(out io.Writer, suite string, params Params, observers ...Observer) *Bench {
	b := &Bench{
		Suite:     suite,
		Params:    params,
		out:       out,
		timer:     NewTimer(),
		recorder:  NewRecorder(),
		checker:   NewChecker(out),
		observers: observers,
	}
	b.checker.OnFail(func(label string) {
		for _, o := range b.observers {
			o.ObserveFailure(b.Suite, label)
		}
	})
	return b
}

// Out returns the writer the report goes to.
func (b *Bench) Out() io.Writer { return b.out }

// Checker returns the checker shared by every variant of the run.
func (b *Bench) Checker() *Checker { return b.checker }

// Recorder returns the recorder holding the current group.
func (b *Bench) Recorder() *Recorder { return b.recorder }

// Iterations returns how many times each kernel runs per variant.
func (b *Bench) Iterations() int { return b.Params.Iterations }

// Init returns the fill value of the input buffers.
func (b *Bench) Init() float64 { return b.Params.Init }

// Failures returns the number of failed checks so far.
func (b *Bench) Failures() int { return b.checker.Failures() }

// SetTimer replaces the timer, mainly to inject a fake clock.
func (b *Bench) SetTimer(t *Timer) { b.timer = t }

// AddObserver registers o for the remaining groups and failures.
func (b *Bench) AddObserver(o Observer) { b.observers = append(b.observers, o) }

// Measure times fn and records the elapsed seconds under label.
func (b *Bench) Measure(label string, fn func()) {
	b.timer.Start()
	fn()
	elapsed := b.timer.Elapsed()
	b.recorder.Record(elapsed, label)
	slog.Debug("variant timed", "suite", b.Suite, "label", label, "seconds", elapsed)
}

// Summarize closes the current group and forwards it to the observers.
func (b *Bench) Summarize(opts SummaryOptions) GroupSummary {
	if opts.Iterations == 0 {
		opts.Iterations = b.Params.Iterations
	}
	s := Summarize(b.out, b.recorder, opts)
	if len(s.Rows) == 0 {
		return s
	}
	for _, o := range b.observers {
		o.ObserveGroup(b.Suite, s)
	}
	return s
}
