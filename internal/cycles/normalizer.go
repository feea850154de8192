package cycles

import (
	"gonum.org/v1/gonum/stat"

	"github.com/formsight/formsight/internal/resample"
)

// DefaultPhasePoints is the length of the normalized phase grid.
const DefaultPhasePoints = 100

// NormalizedCycle is a cycle resampled onto evenly spaced phase points in
// [0,1], keeping its raw duration for cadence statistics.
type NormalizedCycle struct {
	Phase    []float64
	Values   []float64
	Duration float64
}

// Normalizer maps cycles onto a fixed-length phase grid and averages
// phase-aligned cycles into a mean waveform.
type Normalizer struct {
	Points int
}

// NewNormalizer returns a normalizer with the given grid size, falling back
// to the default for non-positive values.
func NewNormalizer(points int) *Normalizer {
	if points <= 0 {
		points = DefaultPhasePoints
	}
	return &Normalizer{Points: points}
}

// Normalize resamples one cycle onto the phase grid. The time/value arrays
// must cover the full recorded grid (nils already filled), since phase
// query times fall between recorded samples.
func (n *Normalizer) Normalize(c Cycle, times, values []float64) NormalizedCycle {
	pts := n.Points
	phase := make([]float64, pts)
	out := make([]float64, pts)
	for i := 0; i < pts; i++ {
		frac := float64(i) / float64(pts-1)
		phase[i] = frac
		out[i] = resample.LinInterp(c.T0+frac*(c.T1-c.T0), times, values)
	}
	return NormalizedCycle{Phase: phase, Values: out, Duration: c.Duration()}
}

// MeanWaveform averages phase-aligned cycles pointwise. The mean is
// unweighted: a slow cycle counts the same as a fast one. Returns nil when
// given no cycles.
func (n *Normalizer) MeanWaveform(cs []NormalizedCycle) []float64 {
	if len(cs) == 0 {
		return nil
	}
	pts := n.Points
	mean := make([]float64, pts)
	for _, c := range cs {
		for i := 0; i < pts; i++ {
			mean[i] += c.Values[i]
		}
	}
	for i := range mean {
		mean[i] /= float64(len(cs))
	}
	return mean
}

// Stats summarises cycle durations for one series. Cadence is cycles per
// minute, derived from the mean duration.
type Stats struct {
	Count         int     `json:"count"`
	MeanDuration  float64 `json:"mean_duration_s"`
	StdevDuration float64 `json:"stdev_duration_s"`
	MinDuration   float64 `json:"min_duration_s"`
	MaxDuration   float64 `json:"max_duration_s"`
	Cadence       float64 `json:"cadence_per_min"`
}

// ComputeStats derives duration statistics over the raw cycle durations in
// seconds, independent of phase averaging. Zero cycles yields zero stats.
func ComputeStats(cs []Cycle) Stats {
	if len(cs) == 0 {
		return Stats{}
	}
	durations := make([]float64, len(cs))
	for i, c := range cs {
		durations[i] = c.Duration()
	}

	s := Stats{
		Count:        len(cs),
		MeanDuration: stat.Mean(durations, nil),
		MinDuration:  durations[0],
		MaxDuration:  durations[0],
	}
	for _, d := range durations[1:] {
		if d < s.MinDuration {
			s.MinDuration = d
		}
		if d > s.MaxDuration {
			s.MaxDuration = d
		}
	}
	if len(durations) > 1 {
		s.StdevDuration = stat.StdDev(durations, nil)
	}
	if s.MeanDuration > 0 {
		s.Cadence = 60 / s.MeanDuration
	}
	return s
}
