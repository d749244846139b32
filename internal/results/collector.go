package results

import (
	"time"

	"github.com/google/uuid"

	"optbench/internal/harness"
)

// Collector observes a suite run and assembles it into a Run.
type Collector struct {
	suite       string
	params      harness.Params
	commandLine string
	started     time.Time
	groups      []Group
	failures    int
}

// NewCollector starts collecting a run of suite.
func NewCollector(suite string, params harness.Params, commandLine string) *Collector {
	return &Collector{
		suite:       suite,
		params:      params,
		commandLine: commandLine,
		started:     time.Now(),
	}
}

func (c *Collector) ObserveGroup(suite string, s harness.GroupSummary) {
	g := Group{Name: s.Name, Items: s.Items, Iterations: s.Iterations}
	for _, r := range s.Rows {
		g.Rows = append(g.Rows, Row{Label: r.Label, Seconds: r.Seconds})
	}
	c.groups = append(c.groups, g)
}

func (c *Collector) ObserveFailure(suite, label string) {
	c.failures++
}

// Run returns the collected run with a fresh identifier.
func (c *Collector) Run() Run {
	return Run{
		ID:          uuid.NewString(),
		Timestamp:   c.started,
		Suite:       c.suite,
		Iterations:  c.params.Iterations,
		Init:        c.params.Init,
		CommandLine: c.commandLine,
		Failures:    c.failures,
		Groups:      c.groups,
	}
}
