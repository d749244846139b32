package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optbench/internal/harness"
)

func sampleSummary() harness.GroupSummary {
	return harness.GroupSummary{
		Name:         "int32 sum",
		Items:        1000,
		Iterations:   10,
		TotalSeconds: 0.75,
		Rows: []harness.Row{
			{Index: 0, Label: "range", Seconds: 0.5, MOPS: 0.02},
			{Index: 1, Label: "unrolled", Seconds: 0.25, MOPS: 0.04},
		},
	}
}

func TestMetrics_ObserveGroup(t *testing.T) {
	m := NewMetrics()
	m.ObserveGroup("loop_unroll", sampleSummary())

	assert.Equal(t, 0.5, testutil.ToFloat64(m.VariantSeconds.WithLabelValues("loop_unroll", "int32 sum", "range")))
	assert.Equal(t, 0.04, testutil.ToFloat64(m.VariantMOPS.WithLabelValues("loop_unroll", "int32 sum", "unrolled")))
	assert.Equal(t, 0.75, testutil.ToFloat64(m.GroupSecondsTotal.WithLabelValues("loop_unroll", "int32 sum")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.VariantSeconds))
}

func TestMetrics_InfiniteThroughput(t *testing.T) {
	m := NewMetrics()
	s := sampleSummary()
	s.Rows[0].MOPS = math.Inf(1)
	m.ObserveGroup("loop_unroll", s)

	assert.True(t, math.IsInf(testutil.ToFloat64(m.VariantMOPS.WithLabelValues("loop_unroll", "int32 sum", "range")), 1))
}

func TestMetrics_ObserveFailure(t *testing.T) {
	m := NewMetrics()
	m.ObserveFailure("minmax", "uint8 max branch")
	m.ObserveFailure("minmax", "uint8 max builtin")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CheckFailures.WithLabelValues("minmax")))
}

func TestMetrics_Bench(t *testing.T) {
	m := NewMetrics()
	var out strings.Builder
	b := harness.NewBench(&out, "pointers", harness.Params{Iterations: 1, Init: 3}, m)

	b.Measure("direct", func() {})
	b.Summarize(harness.SummaryOptions{Name: "float64 deref", Items: 10})
	harness.Check(b.Checker(), "direct", int32(1), int32(2), 1)

	assert.Equal(t, 1, testutil.CollectAndCount(m.VariantSeconds))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckFailures.WithLabelValues("pointers")))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.ObserveGroup("loop_unroll", sampleSummary())

	path := filepath.Join(t.TempDir(), "optbench.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `optbench_variant_seconds{group="int32 sum",suite="loop_unroll",variant="range"} 0.5`)

	err = m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	assert.Error(t, err)
}
