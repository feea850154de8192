// Package report produces the user-facing outputs of a comparison run:
// CSV recordings, HTML chart overlays and PNG plots.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/formsight/formsight/internal/angles"
	"github.com/formsight/formsight/internal/series"
)

// csvHeader is the fixed export layout. dKnee and dHip are left/right
// differences derived at export time, not recorded channels.
var csvHeader = []string{"t(s)", "kneeL", "kneeR", "hipL", "hipR", "trunk", "dKnee", "dHip"}

// WriteCSV writes one series in the row-oriented export format: one row per
// sample, numeric fields to 3 decimal places, empty string for null.
func WriteCSV(w io.Writer, s *series.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, sm := range s.Samples {
		row := []string{fmt.Sprintf("%.3f", sm.T)}
		for _, ch := range angles.All() {
			row = append(row, formatValue(sm.Values[ch]))
		}
		row = append(row,
			formatDiff(sm.Values[angles.KneeL], sm.Values[angles.KneeR]),
			formatDiff(sm.Values[angles.HipL], sm.Values[angles.HipR]),
		)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.3f", *v)
}

func formatDiff(a, b *float64) string {
	if a == nil || b == nil {
		return ""
	}
	return fmt.Sprintf("%.3f", *a-*b)
}

// ReadCSV parses an exported recording back into a series tagged with the
// given role. The derived dKnee/dHip columns are ignored; they are
// recomputed on the next export.
func ReadCSV(r io.Reader, role series.Role) (*series.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, want := range csvHeader {
		if header[i] != want {
			return nil, fmt.Errorf("unexpected CSV header column %d: got %q, want %q", i, header[i], want)
		}
	}

	var samples []series.Sample
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", line, err)
		}

		t, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid timestamp %q: %w", line, row[0], err)
		}

		values := make(map[angles.Channel]*float64, len(angles.All()))
		for i, ch := range angles.All() {
			cell := row[i+1]
			if cell == "" {
				values[ch] = nil
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid %s value %q: %w", line, ch, cell, err)
			}
			values[ch] = &v
		}
		samples = append(samples, series.Sample{T: t, Values: values})
	}

	return series.New(role, samples)
}
