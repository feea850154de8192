package cycles

import (
	"math"
	"testing"
)

// oscillation builds a sampled waveform with minima of 150° at whole
// seconds and maxima of 180° at half seconds.
func oscillation(from, to, step float64) (times, values []float64) {
	for t := from; t <= to+1e-9; t += step {
		times = append(times, t)
		values = append(values, 150+15*(1-math.Cos(2*math.Pi*t)))
	}
	return times, values
}

func TestDetectorFindsPeriodicMinima(t *testing.T) {
	times, values := oscillation(0, 3.2, 0.05)
	d := NewDetector(6.0, 0.30)

	minima := d.Minima(times, values)
	if len(minima) != 3 {
		t.Fatalf("expected 3 minima, got %d (%v)", len(minima), minima)
	}
	wantTimes := []float64{1.0, 2.0, 3.0}
	for i, idx := range minima {
		if math.Abs(times[idx]-wantTimes[i]) > 0.051 {
			t.Errorf("minimum %d at t=%v, want ~%v", i, times[idx], wantTimes[i])
		}
	}

	detected := d.Detect(times, values)
	if len(detected) != 2 {
		t.Fatalf("expected 2 cycles, got %d", len(detected))
	}
	for _, c := range detected {
		if c.Duration() <= 0 {
			t.Errorf("cycle duration must be positive, got %v", c.Duration())
		}
		if math.Abs(c.Duration()-1.0) > 0.11 {
			t.Errorf("cycle duration %v, want ~1.0", c.Duration())
		}
	}
}

func TestDetectorMinGapIsGreedy(t *testing.T) {
	// Two prominent dips 0.2s apart: the first is kept, the second is
	// inside the gap and dropped even though it is equally prominent.
	n := 41
	times := make([]float64, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		times[i] = float64(i) * 0.05
		values[i] = 50
	}
	values[20] = 0 // t=1.0
	values[24] = 0 // t=1.2

	d := NewDetector(10.0, 0.30)
	minima := d.Minima(times, values)
	if len(minima) != 1 || minima[0] != 20 {
		t.Fatalf("expected only the first dip kept, got %v", minima)
	}
}

func TestDetectorMinGapProperty(t *testing.T) {
	// Kept minima are never closer than MinGap, whatever the input.
	times, values := oscillation(0, 6, 0.02)
	d := NewDetector(5.0, 0.35)

	minima := d.Minima(times, values)
	for i := 1; i < len(minima); i++ {
		gap := times[minima[i]] - times[minima[i-1]]
		if gap < d.MinGap {
			t.Errorf("kept minima %d and %d only %vs apart (min %vs)", i-1, i, gap, d.MinGap)
		}
	}
}

func TestDetectorProminenceFilter(t *testing.T) {
	// A shallow 2° dip never passes a 6° prominence threshold.
	n := 41
	times := make([]float64, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		times[i] = float64(i) * 0.05
		values[i] = 100
	}
	values[20] = 98

	d := NewDetector(6.0, 0.30)
	if minima := d.Minima(times, values); len(minima) != 0 {
		t.Errorf("expected shallow dip rejected, got %v", minima)
	}
}

func TestDetectorInsufficientData(t *testing.T) {
	d := NewDetector(6.0, 0.30)

	if got := d.Detect(nil, nil); got != nil {
		t.Errorf("empty input: expected nil, got %v", got)
	}
	if got := d.Detect([]float64{0, 1}, []float64{5, 5}); got != nil {
		t.Errorf("two samples: expected nil, got %v", got)
	}

	// One minimum is not enough for a cycle.
	times := []float64{0, 0.5, 1.0}
	values := []float64{50, 0, 50}
	if got := d.Detect(times, values); got != nil {
		t.Errorf("single minimum: expected zero cycles, got %v", got)
	}
}
