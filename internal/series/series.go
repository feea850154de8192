// Package series holds recorded angle time series and the interval-gated
// recorder that produces them.
package series

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/formsight/formsight/internal/angles"
)

// Role tags a series as the reference performance or the candidate being
// measured against it.
type Role string

const (
	Reference Role = "reference"
	Candidate Role = "candidate"
)

// Roles returns both roles in deterministic order.
func Roles() []Role {
	return []Role{Reference, Candidate}
}

// ParseRole parses a role string from the API surface.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case Reference, Candidate:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q (valid: reference, candidate)", s)
}

// ErrEmptySeries is returned when freezing a recording that has no samples.
var ErrEmptySeries = errors.New("no samples recorded")

// ErrUnorderedSamples is returned when sample timestamps are not strictly
// increasing. Interpolation and cycle durations both assume ordered time.
var ErrUnorderedSamples = errors.New("sample timestamps must be strictly increasing")

// Sample is one timestamped angle vector. T is seconds since the recording
// started, strictly increasing within a series. A nil value means the
// channel could not be computed that frame.
type Sample struct {
	T      float64
	Values map[angles.Channel]*float64
}

// Series is an ordered, non-empty sequence of samples frozen at save time.
// A series is immutable once created; a new recording always produces a new
// series.
type Series struct {
	ID      string
	Role    Role
	Samples []Sample
}

// New freezes the given samples into a tagged series. The samples are deep
// copied so later recordings cannot mutate a saved series, and timestamps
// must be strictly increasing; external inputs (CSV uploads) hit this check
// too, not just the recorder.
func New(role Role, samples []Sample) (*Series, error) {
	if len(samples) == 0 {
		return nil, ErrEmptySeries
	}
	out := make([]Sample, len(samples))
	for i, s := range samples {
		if i > 0 && s.T <= samples[i-1].T {
			return nil, fmt.Errorf("sample %d (t=%.3f after t=%.3f): %w", i, s.T, samples[i-1].T, ErrUnorderedSamples)
		}
		values := make(map[angles.Channel]*float64, len(s.Values))
		for ch, v := range s.Values {
			if v == nil {
				values[ch] = nil
				continue
			}
			cp := *v
			values[ch] = &cp
		}
		out[i] = Sample{T: s.T, Values: values}
	}
	return &Series{ID: uuid.NewString(), Role: role, Samples: out}, nil
}

// Channel returns the full time grid and the channel's values, with nil
// entries preserved.
func (s *Series) Channel(ch angles.Channel) (times []float64, values []*float64) {
	times = make([]float64, len(s.Samples))
	values = make([]*float64, len(s.Samples))
	for i, sm := range s.Samples {
		times[i] = sm.T
		values[i] = sm.Values[ch]
	}
	return times, values
}

// ChannelValid returns the channel's time/value pairs with nil entries
// removed, as required by cycle detection.
func (s *Series) ChannelValid(ch angles.Channel) (times []float64, values []float64) {
	for _, sm := range s.Samples {
		if v := sm.Values[ch]; v != nil {
			times = append(times, sm.T)
			values = append(values, *v)
		}
	}
	return times, values
}
