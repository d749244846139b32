package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/glamour"

	"optbench/internal/harness"
	"optbench/internal/results"
)

// Markdown formats a saved run as a markdown document with one table per group.
func Markdown(run results.Run) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", run.Suite)
	fmt.Fprintf(&sb, "Run `%s` at %s with %d iterations, init %g.\n\n",
		shortID(run.ID), run.Timestamp.Format("2006-01-02 15:04:05"), run.Iterations, run.Init)
	if run.CommandLine != "" {
		fmt.Fprintf(&sb, "Command: `%s`\n\n", run.CommandLine)
	}
	if run.Failures > 0 {
		fmt.Fprintf(&sb, "**%d checks failed.**\n\n", run.Failures)
	}

	for _, g := range run.Groups {
		fmt.Fprintf(&sb, "## %s\n\n", g.Name)
		sb.WriteString("| # | variant | time | ops/sec | ratio |\n")
		sb.WriteString("|---:|---|---:|---:|---:|\n")

		best := math.Inf(1)
		total := 0.0
		for _, r := range g.Rows {
			best = math.Min(best, math.Max(r.Seconds, harness.MinimumTime))
			total += r.Seconds
		}
		for i, r := range g.Rows {
			ratio := math.Max(r.Seconds, harness.MinimumTime) / best
			fmt.Fprintf(&sb, "| %d | %s | %.3f sec | %s | %.2f |\n",
				i, escapeCell(r.Label), r.Seconds, harness.FormatMOPS(g.Throughput(r)), ratio)
		}
		fmt.Fprintf(&sb, "\nTotal: %.2f sec\n\n", total)
	}

	fmt.Fprintf(&sb, "**Total absolute time:** %.2f sec\n", run.TotalSeconds())
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// Render renders markdown for the terminal. Without options it uses the
// detected terminal style wrapped at 80 columns.
func Render(md string, opts ...glamour.TermRendererOption) (string, error) {
	if len(opts) == 0 {
		opts = []glamour.TermRendererOption{
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		}
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	return renderer.Render(md)
}
