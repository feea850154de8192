package cycles

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeGridShape(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4}
	values := []float64{0, 10, 20, 30, 40}
	n := NewNormalizer(100)

	nc := n.Normalize(Cycle{T0: 1, T1: 3}, times, values)

	require.Len(t, nc.Phase, 100)
	require.Len(t, nc.Values, 100)
	assert.Equal(t, 0.0, nc.Phase[0])
	assert.Equal(t, 1.0, nc.Phase[99])
	assert.InDelta(t, 2.0, nc.Duration, 1e-12)

	// Linear source: phase endpoints hit the cycle boundary values and
	// the interior stays linear in phase.
	assert.InDelta(t, 10.0, nc.Values[0], 1e-9)
	assert.InDelta(t, 30.0, nc.Values[99], 1e-9)
	for i, frac := range nc.Phase {
		assert.InDelta(t, 10+20*frac, nc.Values[i], 1e-9, "phase index %d", i)
	}
}

func TestMeanWaveformUnweighted(t *testing.T) {
	n := NewNormalizer(4)
	cs := []NormalizedCycle{
		{Values: []float64{0, 2, 4, 6}, Duration: 0.5},
		{Values: []float64{2, 4, 6, 8}, Duration: 2.0},
	}

	mean := n.MeanWaveform(cs)
	require.Len(t, mean, 4)
	// Simple arithmetic mean: the slow cycle gets no extra weight.
	assert.Equal(t, []float64{1, 3, 5, 7}, mean)

	assert.Nil(t, n.MeanWaveform(nil))
}

func TestComputeStats(t *testing.T) {
	mk := func(durations ...float64) []Cycle {
		out := make([]Cycle, len(durations))
		t0 := 0.0
		for i, d := range durations {
			out[i] = Cycle{T0: t0, T1: t0 + d}
			t0 += d
		}
		return out
	}

	t.Run("cadence_from_mean_duration", func(t *testing.T) {
		st := ComputeStats(mk(0.8, 0.8, 0.8))
		assert.Equal(t, 3, st.Count)
		assert.InDelta(t, 0.8, st.MeanDuration, 1e-12)
		assert.InDelta(t, 75.0, st.Cadence, 1e-9)
		assert.InDelta(t, 0.0, st.StdevDuration, 1e-12)
	})

	t.Run("min_max_sd", func(t *testing.T) {
		st := ComputeStats(mk(0.6, 1.0, 0.8))
		assert.InDelta(t, 0.6, st.MinDuration, 1e-12)
		assert.InDelta(t, 1.0, st.MaxDuration, 1e-12)
		assert.InDelta(t, 0.8, st.MeanDuration, 1e-12)
		assert.InDelta(t, 0.2, st.StdevDuration, 1e-9)
	})

	t.Run("single_cycle_sd_zero", func(t *testing.T) {
		st := ComputeStats(mk(1.5))
		assert.Equal(t, 1, st.Count)
		assert.Equal(t, 0.0, st.StdevDuration)
		assert.False(t, math.IsNaN(st.StdevDuration))
	})

	t.Run("zero_cycles", func(t *testing.T) {
		st := ComputeStats(nil)
		assert.Equal(t, Stats{}, st)
	})
}
