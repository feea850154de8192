// Package cycles finds repeating-motion cycle boundaries in an angle
// channel and normalizes detected cycles onto a common phase grid.
package cycles

import (
	"gonum.org/v1/gonum/floats"
)

// Detector defaults. Prominence is in channel units (degrees); the gap is
// in seconds. Both vary between deployments, so they stay tunable.
const (
	DefaultProminence       = 6.0
	DefaultMinGapSec        = 0.30
	DefaultProminenceWindow = 10
)

// Cycle is a half-open interval [T0, T1) bounded by two consecutive kept
// local minima. Duration is always positive by construction.
type Cycle struct {
	StartIdx int
	EndIdx   int
	T0       float64
	T1       float64
}

// Duration returns the cycle length in seconds.
func (c Cycle) Duration() float64 {
	return c.T1 - c.T0
}

// Detector locates cycle boundaries as prominence- and gap-filtered local
// minima of a scalar series.
type Detector struct {
	// Prominence a minimum must stand out from its neighbourhood maxima
	// to count as a cycle boundary rather than a noise dip.
	Prominence float64

	// MinGap is the minimum time between two kept minima. Selection is
	// greedy left to right: a later, more prominent minimum inside the
	// gap is simply dropped.
	MinGap float64

	// Window is the half-width, in samples, of the neighbourhood used to
	// compute prominence.
	Window int
}

// NewDetector returns a detector with the given thresholds, substituting
// defaults for non-positive inputs.
func NewDetector(prominence, minGapSec float64) *Detector {
	if prominence <= 0 {
		prominence = DefaultProminence
	}
	if minGapSec <= 0 {
		minGapSec = DefaultMinGapSec
	}
	return &Detector{Prominence: prominence, MinGap: minGapSec, Window: DefaultProminenceWindow}
}

// Minima returns the indices of kept local minima. The input must already
// have nil samples removed; times must be strictly increasing.
func (d *Detector) Minima(times, values []float64) []int {
	n := len(values)
	if n < 3 {
		return nil
	}
	w := d.Window
	if w <= 0 {
		w = DefaultProminenceWindow
	}

	var kept []int
	lastKeptTime := 0.0
	for i := 1; i < n-1; i++ {
		if values[i] > values[i-1] || values[i] > values[i+1] {
			continue
		}

		lo := i - w
		if lo < 0 {
			lo = 0
		}
		hi := i + 1 + w
		if hi > n {
			hi = n
		}
		before := floats.Max(values[lo:i])
		after := floats.Max(values[i+1 : hi])
		prominence := min(before, after) - values[i]
		if prominence < d.Prominence {
			continue
		}

		if len(kept) > 0 && times[i]-lastKeptTime < d.MinGap {
			continue
		}
		kept = append(kept, i)
		lastKeptTime = times[i]
	}
	return kept
}

// Detect returns the cycles bounded by consecutive kept minima. Fewer than
// two kept minima yields zero cycles; that is insufficient data, not an
// error.
func (d *Detector) Detect(times, values []float64) []Cycle {
	minima := d.Minima(times, values)
	if len(minima) < 2 {
		return nil
	}
	out := make([]Cycle, 0, len(minima)-1)
	for i := 1; i < len(minima); i++ {
		out = append(out, Cycle{
			StartIdx: minima[i-1],
			EndIdx:   minima[i],
			T0:       times[minima[i-1]],
			T1:       times[minima[i]],
		})
	}
	return out
}
