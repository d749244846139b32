package harness

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestTimer(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	timer := NewTimerWithClock(clock.now)

	t.Run("never started", func(t *testing.T) {
		assert.Equal(t, 0.0, timer.Elapsed())
	})

	t.Run("elapsed since start", func(t *testing.T) {
		timer.Start()
		clock.advance(1500 * time.Millisecond)
		assert.InDelta(t, 1.5, timer.Elapsed(), 1e-9)
	})

	t.Run("restart overwrites", func(t *testing.T) {
		timer.Start()
		clock.advance(250 * time.Millisecond)
		assert.InDelta(t, 0.25, timer.Elapsed(), 1e-9)
	})
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	label := []byte("first")
	rec.Record(1.0, string(label))
	label[0] = 'X'
	rec.Record(2.0, "second")

	records := rec.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "first", records[0].Label)
	assert.Equal(t, "second", records[1].Label)

	records[0].Label = "mutated"
	assert.Equal(t, "first", rec.Records()[0].Label)

	rec.Reset()
	assert.Equal(t, 0, rec.Len())
}

func TestSummarize_RowsInOrderAndReset(t *testing.T) {
	rec := NewRecorder()
	labels := []string{"int32 naive", "int32 hoisted", "int32 folded"}
	for i, l := range labels {
		rec.Record(float64(i+1), l)
	}

	var out bytes.Buffer
	s := Summarize(&out, rec, SummaryOptions{Name: "int32 loop invariant", Items: 1000, Iterations: 2000})

	require.Len(t, s.Rows, 3)
	for i, l := range labels {
		assert.Equal(t, i, s.Rows[i].Index)
		assert.Equal(t, l, s.Rows[i].Label)
	}
	assert.Equal(t, 0, rec.Len())
	assert.InDelta(t, 6.0, s.TotalSeconds, 1e-12)
	assert.InDelta(t, 2.0, s.Rows[0].MOPS, 1e-12)

	text := out.String()
	first := strings.Index(text, `"int32 naive"`)
	second := strings.Index(text, `"int32 hoisted"`)
	third := strings.Index(text, `"int32 folded"`)
	assert.True(t, first >= 0 && first < second && second < third)
	assert.Contains(t, text, "Total absolute time for int32 loop invariant: 6.00 sec")

	again := Summarize(&out, rec, SummaryOptions{Name: "empty"})
	assert.Empty(t, again.Rows)
}

func TestSummarize_SubThresholdIsInfinite(t *testing.T) {
	rec := NewRecorder()
	rec.Record(0, "instant")
	rec.Record(MinimumTime/2, "almost instant")

	var out bytes.Buffer
	s := Summarize(&out, rec, SummaryOptions{Name: "fast", Items: 10, Iterations: 10, GeometricMean: true})

	require.Len(t, s.Rows, 2)
	assert.True(t, math.IsInf(s.Rows[0].MOPS, 1))
	assert.True(t, math.IsInf(s.Rows[1].MOPS, 1))
	assert.True(t, math.IsInf(s.GeometricMean, 1))
	assert.Contains(t, out.String(), "inf")
	assert.NotContains(t, out.String(), "NaN")
}

func TestSummarize_ZeroItemsGeometricMean(t *testing.T) {
	rec := NewRecorder()
	rec.Record(1.0, "a")
	rec.Record(2.0, "b")

	var out bytes.Buffer
	s := Summarize(&out, rec, SummaryOptions{Name: "empty", Items: 0, Iterations: 10, GeometricMean: true})

	assert.Equal(t, 0.0, s.GeometricMean)
	assert.NotContains(t, out.String(), "inf")
}

func TestSummarize_EmptyPrintsNothing(t *testing.T) {
	var out bytes.Buffer
	s := Summarize(&out, NewRecorder(), SummaryOptions{Name: "nothing", Items: 1, Iterations: 1})
	assert.Empty(t, out.String())
	assert.Empty(t, s.Rows)
}

func TestSummarize_PenaltyAndGeometricMean(t *testing.T) {
	rec := NewRecorder()
	rec.Record(1.0, "baseline")
	rec.Record(4.0, "wrapped")

	var out bytes.Buffer
	s := Summarize(&out, rec, SummaryOptions{
		Name: "abstraction", Items: 100, Iterations: 10000,
		GeometricMean: true, Penalty: true,
	})

	assert.InDelta(t, 1.0, s.Rows[0].Ratio, 1e-12)
	assert.InDelta(t, 4.0, s.Rows[1].Ratio, 1e-12)
	assert.InDelta(t, 2.0, s.Penalty, 1e-12)
	assert.InDelta(t, 0.5, s.GeometricMean, 1e-12)
	assert.Contains(t, out.String(), "abstraction Penalty: 2.00")
	assert.Contains(t, out.String(), "abstraction Geometric mean: 0.50 M ops/sec")
	assert.Contains(t, out.String(), "ratio with")
}

func TestCheck(t *testing.T) {
	var out bytes.Buffer
	c := NewChecker(&out)

	var failed []string
	c.OnFail(func(label string) { failed = append(failed, label) })

	assert.True(t, Check(c, "int32 exact", int32(8000), int32(8000), 8000))
	assert.True(t, Check(c, "float64 exact", 3.25, 3.25, 1))
	assert.Empty(t, out.String())

	assert.False(t, Check(c, "int32 off by one", int32(8001), int32(8000), 8000))
	assert.False(t, Check(c, "uint8 wrap", uint8(1), uint8(0), 1))
	assert.Equal(t, 2, c.Failures())
	assert.Contains(t, out.String(), "test int32 off by one failed")
	assert.Equal(t, []string{"int32 off by one", "uint8 wrap"}, failed)

	c.Reset()
	assert.Equal(t, 0, c.Failures())
}

func TestTolerantEqual(t *testing.T) {
	t.Run("integers require exact equality", func(t *testing.T) {
		expected := int64(1 << 40)
		margin := int64(float64(expected) * (1 + 2*Epsilon[float64]()))
		assert.True(t, TolerantEqual(expected, expected, 1))
		assert.False(t, TolerantEqual(expected+1, expected, 1000000))
		assert.False(t, TolerantEqual(margin+1, expected, 1))
	})

	t.Run("floats absorb reassociation", func(t *testing.T) {
		var serial float32
		var lanes [4]float32
		for i := 0; i < 100; i++ {
			serial += 0.1
			lanes[i%4] += 0.1
		}
		unrolled := (lanes[0] + lanes[1]) + (lanes[2] + lanes[3])
		assert.True(t, TolerantEqual(unrolled, serial, 100))
		assert.False(t, TolerantEqual(float32(8000*1.01), float32(8000), 8000))
	})

	t.Run("relative error is capped for long sums", func(t *testing.T) {
		assert.False(t, TolerantEqual(float32(7999), float32(8000), 8000))
		assert.False(t, TolerantEqual(float32(7970), float32(8000), 8000))
		assert.False(t, TolerantEqual(float32(32000*0.99), float32(32000), 32000))
		assert.False(t, TolerantEqual(7999.0, 8000.0, 8000))
		assert.True(t, TolerantEqual(float32(8000.0625), float32(8000), 8000))

		var out bytes.Buffer
		c := NewChecker(&out)
		assert.False(t, Check(c, "float32 dropped element", float32(7999), float32(8000), 8000))
		assert.Equal(t, 1, c.Failures())
	})

	t.Run("nan never matches", func(t *testing.T) {
		assert.False(t, TolerantEqual(math.NaN(), 1.0, 1))
	})
}

func TestParseArgs(t *testing.T) {
	defaults := Params{Iterations: 200, Init: 2}

	assert.Equal(t, defaults, ParseArgs(nil, defaults))
	assert.Equal(t, Params{Iterations: 1, Init: 2}, ParseArgs([]string{"1"}, defaults))
	assert.Equal(t, Params{Iterations: 7, Init: 3.5}, ParseArgs([]string{"7", "3.5"}, defaults))
	assert.Equal(t, Params{Iterations: 200, Init: 9}, ParseArgs([]string{"abc", "9"}, defaults))
	assert.Equal(t, defaults, ParseArgs([]string{"0", "x"}, defaults))
	assert.Equal(t, defaults, ParseArgs([]string{"-5"}, defaults))
}

func TestFillAndSum(t *testing.T) {
	const n = 8000

	t.Run("int32", func(t *testing.T) {
		buf := make([]int32, n)
		Fill(buf, 3)
		var sum int32
		for _, v := range buf {
			sum += v
		}
		assert.Equal(t, int32(n*3), sum)
		assert.Equal(t, sum, RepeatSum(int32(3), n))
	})

	t.Run("int8 wraps like the kernels", func(t *testing.T) {
		buf := make([]int8, n)
		Fill(buf, 3)
		var sum int8
		for _, v := range buf {
			sum += v
		}
		assert.Equal(t, sum, RepeatSum(int8(3), n))
	})

	t.Run("float32", func(t *testing.T) {
		buf := make([]float32, n)
		Fill(buf, 2.5)
		var sum float32
		for _, v := range buf {
			sum += v
		}
		assert.True(t, TolerantEqual(sum, float32(n*2.5), n))
	})

	t.Run("ramp and shuffle keep the multiset", func(t *testing.T) {
		buf := make([]uint16, 100)
		FillRamp(buf, 10, 7)
		assert.Equal(t, uint16(10), buf[0])
		assert.Equal(t, uint16(16), buf[6])
		assert.Equal(t, uint16(10), buf[7])

		before := make(map[uint16]int)
		for _, v := range buf {
			before[v]++
		}
		Shuffle(buf, DefaultSeed)
		after := make(map[uint16]int)
		for _, v := range buf {
			after[v]++
		}
		assert.Equal(t, before, after)

		again := make([]uint16, 100)
		FillRamp(again, 10, 7)
		Shuffle(again, DefaultSeed)
		assert.Equal(t, buf, again)
	})
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "int8", TypeName[int8]())
	assert.Equal(t, "uint64", TypeName[uint64]())
	assert.Equal(t, "float32", TypeName[float32]())
	assert.True(t, IsFloat[float64]())
	assert.False(t, IsFloat[uint32]())
}

type recordingObserver struct {
	groups   []GroupSummary
	failures []string
}

func (o *recordingObserver) ObserveGroup(suite string, s GroupSummary) {
	o.groups = append(o.groups, s)
}

func (o *recordingObserver) ObserveFailure(suite, label string) {
	o.failures = append(o.failures, suite+"/"+label)
}

func TestBench(t *testing.T) {
	var out bytes.Buffer
	obs := &recordingObserver{}
	b := NewBench(&out, "demo", Params{Iterations: 3, Init: 1}, obs)

	clock := &fakeClock{t: time.Unix(0, 0)}
	b.SetTimer(NewTimerWithClock(clock.now))

	calls := 0
	b.Measure("int32 demo", func() {
		for i := 0; i < b.Iterations(); i++ {
			calls++
		}
		clock.advance(time.Second)
	})
	Check(b.Checker(), "int32 demo", int32(1), int32(2), 1)

	s := b.Summarize(SummaryOptions{Name: "int32 demo", Items: 10})

	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, s.Iterations)
	require.Len(t, obs.groups, 1)
	assert.Equal(t, "int32 demo", obs.groups[0].Rows[0].Label)
	assert.InDelta(t, 1.0, obs.groups[0].Rows[0].Seconds, 1e-9)
	assert.Equal(t, []string{"demo/int32 demo"}, obs.failures)
	assert.Equal(t, 1, b.Failures())

	b.Summarize(SummaryOptions{Name: "empty"})
	assert.Len(t, obs.groups, 1)
}
