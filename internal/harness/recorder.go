package harness

// Record is one timed observation.
type Record struct {
	Label   string
	Seconds float64
}

// Recorder accumulates records in arrival order until the next Summarize.
type Recorder struct {
	records []Record
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends an observation. The label is stored by value.
func (r *Recorder) Record(seconds float64, label string) {
	r.records = append(r.records, Record{Label: label, Seconds: seconds})
}

// Records returns a copy of the accumulated observations.
func (r *Recorder) Records() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Len returns the number of records since the last Reset.
func (r *Recorder) Len() int {
	return len(r.records)
}

// Reset drops every accumulated record.
func (r *Recorder) Reset() {
	r.records = r.records[:0]
}
