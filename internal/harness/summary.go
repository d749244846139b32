package harness

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
)

// MinimumTime is the shortest elapsed time that yields a finite throughput.
const MinimumTime = 1.0e-6

// SummaryOptions describes one benchmark group.
type SummaryOptions struct {
	Name          string
	Items         int
	Iterations    int
	GeometricMean bool
	Penalty       bool
}

// Row is one summarized record.
type Row struct {
	Index   int
	Label   string
	Seconds float64
	// MOPS is millions of operations per second, +Inf for sub-threshold timings.
	MOPS  float64
	Ratio float64
}

// GroupSummary is the result of summarizing a group.
type GroupSummary struct {
	Name          string
	Items         int
	Iterations    int
	Rows          []Row
	TotalSeconds  float64
	GeometricMean float64
	Penalty       float64
}

// Throughput returns millions of operations per second for a timing.
func Throughput(items, iterations int, seconds float64) float64 {
	if seconds < MinimumTime {
		return math.Inf(1)
	}
	return float64(items) * float64(iterations) / seconds / 1.0e6
}

// Summarize prints the accumulated records of rec as a table and resets rec.
// An empty recorder prints nothing.
func Summarize(w io.Writer, rec *Recorder, opts SummaryOptions) GroupSummary {
	records := rec.Records()
	rec.Reset()

	s := GroupSummary{Name: opts.Name, Items: opts.Items, Iterations: opts.Iterations}
	if len(records) == 0 {
		return s
	}

	best := math.Inf(1)
	for _, r := range records {
		best = math.Min(best, clampTime(r.Seconds))
	}

	logRate, logRatio := 0.0, 0.0
	finite := 0
	zero := false
	for i, r := range records {
		row := Row{
			Index:   i,
			Label:   r.Label,
			Seconds: r.Seconds,
			MOPS:    Throughput(opts.Items, opts.Iterations, r.Seconds),
			Ratio:   clampTime(r.Seconds) / best,
		}
		s.Rows = append(s.Rows, row)
		s.TotalSeconds += r.Seconds
		if !math.IsInf(row.MOPS, 1) {
			if row.MOPS > 0 {
				logRate += math.Log(row.MOPS)
			} else {
				zero = true
			}
			finite++
		}
		logRatio += math.Log(row.Ratio)
	}

	switch {
	case finite < len(records):
		s.GeometricMean = math.Inf(1)
	case zero:
		s.GeometricMean = 0
	default:
		s.GeometricMean = math.Exp(logRate / float64(finite))
	}
	s.Penalty = math.Exp(logRatio / float64(len(records)))

	writeSummary(w, s, opts)
	return s
}

func writeSummary(w io.Writer, s GroupSummary, opts SummaryOptions) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw)
	if opts.Penalty {
		fmt.Fprintln(tw, "test\tdescription\tabsolute\toperations\tratio with")
		fmt.Fprintln(tw, "number\t\ttime\tper second\tbest")
	} else {
		fmt.Fprintln(tw, "test\tdescription\tabsolute\toperations")
		fmt.Fprintln(tw, "number\t\ttime\tper second")
	}
	fmt.Fprintln(tw)
	for _, r := range s.Rows {
		if opts.Penalty {
			fmt.Fprintf(tw, "%2d\t%q\t%.2f sec\t%s\t%.2f\n", r.Index, r.Label, r.Seconds, FormatMOPS(r.MOPS), r.Ratio)
		} else {
			fmt.Fprintf(tw, "%2d\t%q\t%.2f sec\t%s\n", r.Index, r.Label, r.Seconds, FormatMOPS(r.MOPS))
		}
	}
	tw.Flush()

	fmt.Fprintf(w, "\nTotal absolute time for %s: %.2f sec\n", s.Name, s.TotalSeconds)
	if opts.GeometricMean {
		fmt.Fprintf(w, "%s Geometric mean: %s ops/sec\n", s.Name, FormatMOPS(s.GeometricMean))
	}
	if opts.Penalty {
		fmt.Fprintf(w, "%s Penalty: %.2f\n", s.Name, s.Penalty)
	}
}

// FormatMOPS renders a throughput in millions of operations per second.
func FormatMOPS(mops float64) string {
	if math.IsInf(mops, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f M", mops)
}

func clampTime(seconds float64) float64 {
	return math.Max(seconds, MinimumTime)
}
