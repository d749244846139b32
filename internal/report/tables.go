package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"optbench/internal/results"
	"optbench/internal/suites"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// SuiteTable lists the registered suites with their default parameters.
func SuiteTable(all []suites.Suite) string {
	t := newTable("Suite", "Iterations", "Init", "Description")
	for _, s := range all {
		t.Row(s.Name,
			humanize.Comma(int64(s.Defaults.Iterations)),
			strconv.FormatFloat(s.Defaults.Init, 'g', -1, 64),
			s.Description)
	}
	return t.String()
}

// HistoryTable lists saved runs, newest last, with times relative to now.
func HistoryTable(runs []results.Run, now time.Time) string {
	t := newTable("ID", "Suite", "When", "Iterations", "Groups", "Total", "Failures")
	for _, r := range runs {
		failures := strconv.Itoa(r.Failures)
		if r.Failures > 0 {
			failures = regressedStyle.Render(failures)
		}
		t.Row(shortID(r.ID),
			r.Suite,
			humanize.RelTime(r.Timestamp, now, "ago", "from now"),
			humanize.Comma(int64(r.Iterations)),
			strconv.Itoa(len(r.Groups)),
			fmt.Sprintf("%.2f sec", r.TotalSeconds()),
			failures)
	}
	return t.String()
}

// ComparisonTable shows per-variant changes, marking those beyond threshold percent.
func ComparisonTable(comps []results.Comparison, threshold float64) string {
	t := newTable("Group", "Variant", "Prev", "Curr", "Time", "Throughput", "")
	for _, c := range comps {
		status := ""
		switch {
		case c.Regressed(threshold):
			status = regressedStyle.Render("regressed")
		case c.Improved(threshold):
			status = improvedStyle.Render("improved")
		default:
			status = dimStyle.Render("~")
		}
		t.Row(c.Group,
			c.Label,
			fmt.Sprintf("%.3f sec", c.Prev.Seconds),
			fmt.Sprintf("%.3f sec", c.Curr.Seconds),
			fmt.Sprintf("%+.2f%%", c.SecondsDiff),
			fmt.Sprintf("%+.2f%%", c.ThroughputDiff),
			status)
	}
	return t.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
