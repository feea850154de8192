// Package filter provides per-channel smoothing of joint-angle values to
// suppress landmark jitter. Each smoother instance serves exactly one
// (series role, channel) pair and is never shared.
package filter

// Default tuning for the two smoothing policies.
const (
	DefaultWindowSize = 5
	DefaultEMAAlpha   = 0.3
)

// Smoother consumes one value per frame and returns the smoothed value.
// A nil input marks a frame where the channel could not be computed; the
// smoother holds its state rather than resetting, and returns the last
// known smoothed value (nil until the first valid input).
type Smoother interface {
	Push(v *float64) *float64
	Reset()
}

// Kind selects a smoothing policy.
type Kind string

const (
	KindEMA    Kind = "ema"
	KindWindow Kind = "window"
)

// MovingAverage is a fixed-size trailing moving average. When the window is
// full the oldest sample is dropped. Nil inputs are skipped without
// resetting the window.
type MovingAverage struct {
	size   int
	window []float64
}

// NewMovingAverage returns a moving-average smoother with the given window
// length. Non-positive sizes fall back to the default.
func NewMovingAverage(size int) *MovingAverage {
	if size <= 0 {
		size = DefaultWindowSize
	}
	return &MovingAverage{size: size}
}

// Push adds v to the window and returns the current average.
func (m *MovingAverage) Push(v *float64) *float64 {
	if v != nil {
		if len(m.window) == m.size {
			m.window = m.window[1:]
		}
		m.window = append(m.window, *v)
	}
	if len(m.window) == 0 {
		return nil
	}
	var sum float64
	for _, x := range m.window {
		sum += x
	}
	avg := sum / float64(len(m.window))
	return &avg
}

// Reset clears the window.
func (m *MovingAverage) Reset() {
	m.window = nil
}

// EMA is an exponential moving average. The first valid value seeds the
// state; subsequent values blend via state += alpha * (value - state).
type EMA struct {
	alpha  float64
	state  float64
	seeded bool
}

// NewEMA returns an EMA smoother with the given decay coefficient.
// Coefficients outside (0,1] fall back to the default.
func NewEMA(alpha float64) *EMA {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultEMAAlpha
	}
	return &EMA{alpha: alpha}
}

// Push blends v into the state and returns the smoothed value.
func (e *EMA) Push(v *float64) *float64 {
	if v != nil {
		if !e.seeded {
			e.state = *v
			e.seeded = true
		} else {
			e.state += e.alpha * (*v - e.state)
		}
	}
	if !e.seeded {
		return nil
	}
	out := e.state
	return &out
}

// Reset clears the state so the next valid value reseeds it.
func (e *EMA) Reset() {
	e.state = 0
	e.seeded = false
}

// New constructs a smoother of the given kind. Unknown kinds yield an EMA.
func New(kind Kind, windowSize int, alpha float64) Smoother {
	switch kind {
	case KindWindow:
		return NewMovingAverage(windowSize)
	default:
		return NewEMA(alpha)
	}
}
