// Package resample provides piecewise-linear interpolation over irregular
// time grids and missing-value filling for recorded angle channels.
package resample

// LinInterp evaluates a piecewise-linear series at query time x.
// Queries outside [times[0], times[len-1]] clamp to the nearest endpoint
// value; there is no extrapolation. A degenerate zero-width bracketing
// interval returns its left value. times must be sorted ascending and
// non-empty, and len(times) == len(values).
func LinInterp(x float64, times, values []float64) float64 {
	n := len(times)
	if n == 1 || x <= times[0] {
		return values[0]
	}
	if x >= times[n-1] {
		return values[n-1]
	}
	for i := 1; i < n; i++ {
		if x <= times[i] {
			x0, x1 := times[i-1], times[i]
			y0, y1 := values[i-1], values[i]
			if x1 == x0 {
				return y0
			}
			return y0 + (y1-y0)*(x-x0)/(x1-x0)
		}
	}
	return values[n-1]
}

// FillNaLinear replaces nil entries in values. Leading and trailing nil runs
// take the nearest valid value (constant extrapolation); interior runs are
// linearly interpolated between the bounding valid values using their time
// coordinates, not index positions, which matters when sampling is
// irregular. Returns ok=false when the channel has no valid values at all.
// Applying FillNaLinear to an already-filled series is a no-op.
func FillNaLinear(times []float64, values []*float64) (out []float64, ok bool) {
	n := len(values)
	var validTimes, validValues []float64
	for i, v := range values {
		if v != nil {
			validTimes = append(validTimes, times[i])
			validValues = append(validValues, *v)
		}
	}
	if len(validValues) == 0 {
		return nil, false
	}

	out = make([]float64, n)
	for i := 0; i < n; i++ {
		if values[i] != nil {
			out[i] = *values[i]
			continue
		}
		out[i] = LinInterp(times[i], validTimes, validValues)
	}
	return out, true
}
