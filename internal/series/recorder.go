package series

import (
	"math"
	"time"

	"github.com/formsight/formsight/internal/angles"
	"github.com/formsight/formsight/internal/timeutil"
)

// DefaultSampleInterval decouples the recorded sample rate from the uneven
// per-frame inference rate (100ms -> 10Hz).
const DefaultSampleInterval = 100 * time.Millisecond

// Recorder accumulates timestamped angle vectors at a fixed sampling
// interval while recording is active. Starting a recording always clears
// the buffer and resets the time anchors: sessions start fresh, they never
// resume. Stopping preserves the buffer so it can still be saved.
type Recorder struct {
	clock    timeutil.Clock
	interval time.Duration

	active     bool
	started    time.Time
	lastSample time.Time
	haveSample bool
	buf        []Sample
}

// NewRecorder returns a recorder sampling at the given interval.
func NewRecorder(clock timeutil.Clock, interval time.Duration) *Recorder {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	return &Recorder{clock: clock, interval: interval}
}

// Start begins a fresh recording, discarding any previous buffer.
func (r *Recorder) Start() {
	r.active = true
	r.started = r.clock.Now()
	r.haveSample = false
	r.buf = nil
}

// Stop deactivates sampling. The buffer is preserved for saving.
func (r *Recorder) Stop() {
	r.active = false
}

// Active reports whether samples are currently being accepted.
func (r *Recorder) Active() bool {
	return r.active
}

// Len returns the number of buffered samples.
func (r *Recorder) Len() int {
	return len(r.buf)
}

// Offer presents one frame's smoothed angle vector. A sample is emitted only
// when at least one sampling interval has elapsed since the previous one.
// Returns whether the frame was recorded.
func (r *Recorder) Offer(values map[angles.Channel]*float64) bool {
	if !r.active {
		return false
	}
	now := r.clock.Now()
	if r.haveSample && now.Sub(r.lastSample) < r.interval {
		return false
	}
	r.lastSample = now
	r.haveSample = true

	t := now.Sub(r.started).Seconds()
	t = math.Round(t*100) / 100

	copied := make(map[angles.Channel]*float64, len(values))
	for ch, v := range values {
		if v == nil {
			copied[ch] = nil
			continue
		}
		cp := *v
		copied[ch] = &cp
	}
	r.buf = append(r.buf, Sample{T: t, Values: copied})
	return true
}

// Snapshot freezes the current buffer into a new immutable series tagged
// with the given role. The buffer itself is left untouched, so a recording
// can be saved under both roles or re-saved after more samples arrive.
func (r *Recorder) Snapshot(role Role) (*Series, error) {
	return New(role, r.buf)
}
