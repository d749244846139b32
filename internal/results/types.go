package results

import (
	"time"

	"optbench/internal/harness"
)

// Row is one timed variant inside a group.
type Row struct {
	Label   string  `json:"label" yaml:"label"`
	Seconds float64 `json:"seconds" yaml:"seconds"`
}

// Group mirrors one summarizer call.
type Group struct {
	Name       string `json:"name" yaml:"name"`
	Items      int    `json:"items" yaml:"items"`
	Iterations int    `json:"iterations" yaml:"iterations"`
	Rows       []Row  `json:"rows" yaml:"rows"`
}

// Throughput returns the millions of operations per second of r in g.
func (g Group) Throughput(r Row) float64 {
	return harness.Throughput(g.Items, g.Iterations, r.Seconds)
}

// Run represents one saved execution of a suite.
type Run struct {
	ID          string    `json:"id" yaml:"id"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	Suite       string    `json:"suite" yaml:"suite"`
	Iterations  int       `json:"iterations" yaml:"iterations"`
	Init        float64   `json:"init" yaml:"init"`
	CommandLine string    `json:"command_line,omitempty" yaml:"command_line,omitempty"`
	Failures    int       `json:"failures" yaml:"failures"`
	Groups      []Group   `json:"groups" yaml:"groups"`
}

// TotalSeconds sums every row of every group.
func (r Run) TotalSeconds() float64 {
	total := 0.0
	for _, g := range r.Groups {
		for _, row := range g.Rows {
			total += row.Seconds
		}
	}
	return total
}
