// Package pose defines the landmark data model and the pose-source
// abstraction the rest of the pipeline consumes. Pose estimation itself is
// an external capability; this package only describes its output shape and
// provides a fixture-driven replay implementation for development and tests.
package pose

import "context"

// Landmark names produced by the external pose estimator.
const (
	LeftShoulder  = "left_shoulder"
	RightShoulder = "right_shoulder"
	LeftHip       = "left_hip"
	RightHip      = "right_hip"
	LeftKnee      = "left_knee"
	RightKnee     = "right_knee"
	LeftAnkle     = "left_ankle"
	RightAnkle    = "right_ankle"
)

// Landmark is one named 2D point with detector confidence in [0,1].
// Landmarks are immutable per-frame snapshots.
type Landmark struct {
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Score float64 `json:"score"`
}

// Frame is the landmark set estimated for one video frame.
type Frame struct {
	Landmarks []Landmark `json:"landmarks"`
}

// Lookup returns the named landmark and whether it is present.
func (f *Frame) Lookup(name string) (Landmark, bool) {
	for _, lm := range f.Landmarks {
		if lm.Name == name {
			return lm, true
		}
	}
	return Landmark{}, false
}

// Source yields pose estimates for successive frames of one video source.
// Estimate may fail transiently (inference rejection, dropped frame); callers
// skip that frame and continue. Implementations must be safe to Close while
// an Estimate call is in flight.
type Source interface {
	Estimate(ctx context.Context) (*Frame, error)
	Close() error
}
