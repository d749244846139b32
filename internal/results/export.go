package results

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/sugawarayuuta/sonnet"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned by Export for unknown formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Formats lists the export formats accepted by Export.
var Formats = []string{"json", "yaml", "parquet"}

// MeasurementRecord is one row of a run flattened for columnar export.
type MeasurementRecord struct {
	RunID      string  `parquet:"run_id"`
	Timestamp  int64   `parquet:"timestamp"`
	Suite      string  `parquet:"suite,dict"`
	Group      string  `parquet:"group,dict"`
	Label      string  `parquet:"label"`
	Items      int64   `parquet:"items"`
	Iterations int64   `parquet:"iterations"`
	Seconds    float64 `parquet:"seconds"`
	MOPS       float64 `parquet:"mops"`
}

// Flatten returns one record per row of every run.
func Flatten(runs []Run) []MeasurementRecord {
	var records []MeasurementRecord
	for _, run := range runs {
		for _, g := range run.Groups {
			for _, r := range g.Rows {
				records = append(records, MeasurementRecord{
					RunID:      run.ID,
					Timestamp:  run.Timestamp.UnixNano(),
					Suite:      run.Suite,
					Group:      g.Name,
					Label:      r.Label,
					Items:      int64(g.Items),
					Iterations: int64(g.Iterations),
					Seconds:    r.Seconds,
					MOPS:       g.Throughput(r),
				})
			}
		}
	}
	return records
}

// Export writes runs to w in the given format.
func Export(w io.Writer, format string, runs []Run) error {
	switch strings.ToLower(format) {
	case "json":
		data, err := sonnet.Marshal(runs)
		if err != nil {
			return fmt.Errorf("failed to marshal runs: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(runs); err != nil {
			return fmt.Errorf("failed to encode runs: %w", err)
		}
		return enc.Close()
	case "parquet":
		writer := parquet.NewGenericWriter[MeasurementRecord](w, parquet.Compression(&parquet.Snappy))
		if _, err := writer.Write(Flatten(runs)); err != nil {
			writer.Close()
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
		return writer.Close()
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
