package report

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optbench/internal/results"
	"optbench/internal/suites"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func sampleRun() results.Run {
	return results.Run{
		ID:          "0123456789abcdef",
		Timestamp:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Suite:       "loop_invariant",
		Iterations:  100,
		Init:        1,
		CommandLine: "optbench loop_invariant 100",
		Groups: []results.Group{{
			Name: "int32 loop invariant", Items: 1000, Iterations: 100,
			Rows: []results.Row{
				{Label: "int32 in loop", Seconds: 0.4},
				{Label: "int32 hoisted", Seconds: 0.2},
			},
		}},
	}
}

func TestSuiteTable(t *testing.T) {
	out := SuiteTable(suites.All())
	for _, s := range suites.All() {
		assert.Contains(t, out, s.Name)
	}
	assert.Contains(t, out, "20,000")
	assert.Contains(t, out, "Description")
}

func TestHistoryTable(t *testing.T) {
	run := sampleRun()
	run.Failures = 2
	out := HistoryTable([]results.Run{run}, run.Timestamp.Add(3*time.Hour))

	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789")
	assert.Contains(t, out, "3 hours ago")
	assert.Contains(t, out, "0.60 sec")
	assert.Contains(t, out, "2")
}

func TestComparisonTable(t *testing.T) {
	comps := []results.Comparison{
		{Group: "g", Label: "slow", Prev: results.Row{Seconds: 1}, Curr: results.Row{Seconds: 1.5}, SecondsDiff: 50, ThroughputDiff: -33.3},
		{Group: "g", Label: "fast", Prev: results.Row{Seconds: 1}, Curr: results.Row{Seconds: 0.5}, SecondsDiff: -50, ThroughputDiff: 100},
		{Group: "g", Label: "same", Prev: results.Row{Seconds: 1}, Curr: results.Row{Seconds: 1.01}, SecondsDiff: 1, ThroughputDiff: -1},
	}
	out := ComparisonTable(comps, 10)

	assert.Contains(t, out, "regressed")
	assert.Contains(t, out, "improved")
	assert.Contains(t, out, "+50.00%")
	assert.Contains(t, out, "-50.00%")
	assert.Equal(t, 1, strings.Count(out, "regressed"))
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleRun())

	assert.True(t, strings.HasPrefix(md, "# loop_invariant\n"))
	assert.Contains(t, md, "## int32 loop invariant")
	assert.Contains(t, md, "| 0 | int32 in loop | 0.400 sec | 0.25 M | 2.00 |")
	assert.Contains(t, md, "| 1 | int32 hoisted | 0.200 sec | 0.50 M | 1.00 |")
	assert.Contains(t, md, "Command: `optbench loop_invariant 100`")
	assert.Contains(t, md, "**Total absolute time:** 0.60 sec")
	assert.NotContains(t, md, "checks failed")
}

func TestMarkdown_InfiniteRate(t *testing.T) {
	run := sampleRun()
	run.Groups[0].Rows = []results.Row{{Label: "a|b", Seconds: 0}}
	run.Failures = 1

	md := Markdown(run)
	assert.Contains(t, md, `| 0 | a\|b | 0.000 sec | inf | 1.00 |`)
	assert.Contains(t, md, "**1 checks failed.**")
	assert.True(t, math.IsInf(run.Groups[0].Throughput(run.Groups[0].Rows[0]), 1))
}

func TestRender(t *testing.T) {
	out, err := Render(Markdown(sampleRun()), glamour.WithStandardStyle("notty"), glamour.WithWordWrap(120))
	require.NoError(t, err)
	assert.Contains(t, out, "loop_invariant")
	assert.Contains(t, out, "Total absolute time")
}

func TestConfigureColor(t *testing.T) {
	defer lipgloss.SetColorProfile(termenv.Ascii)

	t.Setenv("CLICOLOR_FORCE", "0")

	var sb strings.Builder
	ConfigureColor(&sb)
	assert.Equal(t, termenv.Ascii, lipgloss.ColorProfile())
}
