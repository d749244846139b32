package results

import (
	"fmt"
	"math"
)

// Comparison is the change of one variant between two runs.
type Comparison struct {
	Group          string
	Label          string
	Prev           Row
	Curr           Row
	SecondsDiff    float64 // Percentage change
	ThroughputDiff float64 // Percentage change
}

// Compare matches rows present in both runs by group and label.
// Rows only present in one run are skipped.
func Compare(prev, curr Run) []Comparison {
	type key struct{ group, label string }
	type entry struct {
		group Group
		row   Row
	}
	prevMap := make(map[key]entry)
	for _, g := range prev.Groups {
		for _, r := range g.Rows {
			prevMap[key{g.Name, r.Label}] = entry{g, r}
		}
	}

	var comparisons []Comparison
	for _, g := range curr.Groups {
		for _, r := range g.Rows {
			p, ok := prevMap[key{g.Name, r.Label}]
			if !ok {
				continue
			}
			comp := Comparison{Group: g.Name, Label: r.Label, Prev: p.row, Curr: r}
			if p.row.Seconds > 0 {
				comp.SecondsDiff = (r.Seconds - p.row.Seconds) / p.row.Seconds * 100
			}
			prevRate, currRate := p.group.Throughput(p.row), g.Throughput(r)
			if !math.IsInf(prevRate, 0) && !math.IsInf(currRate, 0) && prevRate > 0 {
				comp.ThroughputDiff = (currRate - prevRate) / prevRate * 100
			}
			comparisons = append(comparisons, comp)
		}
	}
	return comparisons
}

// Regressed reports whether the variant got slower by more than threshold percent.
func (c Comparison) Regressed(threshold float64) bool {
	return c.SecondsDiff > threshold
}

// Improved reports whether the variant got faster by more than threshold percent.
func (c Comparison) Improved(threshold float64) bool {
	return c.SecondsDiff < -threshold
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s/%s: %+.2f%% sec", c.Group, c.Label, c.SecondsDiff)
}
