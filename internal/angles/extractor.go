package angles

import (
	"math"

	"github.com/formsight/formsight/internal/pose"
)

// DefaultMinScore is the minimum landmark confidence required before a
// channel is computed for a frame.
const DefaultMinScore = 0.3

// vertexDef names the three landmarks of a vertex-angle channel: the angle
// is measured at Vertex between the Vertex->A and Vertex->B vectors.
type vertexDef struct {
	A, Vertex, B string
}

var vertexDefs = map[Channel]vertexDef{
	KneeL: {A: pose.LeftHip, Vertex: pose.LeftKnee, B: pose.LeftAnkle},
	KneeR: {A: pose.RightHip, Vertex: pose.RightKnee, B: pose.RightAnkle},
	HipL:  {A: pose.LeftShoulder, Vertex: pose.LeftHip, B: pose.LeftKnee},
	HipR:  {A: pose.RightShoulder, Vertex: pose.RightHip, B: pose.RightKnee},
}

// Extractor converts one frame's landmarks into joint angles in degrees.
// It is a pure function of the frame; a nil entry means the channel could
// not be computed this frame (missing or low-confidence landmark).
type Extractor struct {
	MinScore float64
}

// NewExtractor returns an Extractor with the given confidence threshold.
func NewExtractor(minScore float64) *Extractor {
	return &Extractor{MinScore: minScore}
}

// Extract computes every channel for the frame. The returned map always has
// one entry per channel in All().
func (e *Extractor) Extract(f *pose.Frame) map[Channel]*float64 {
	out := make(map[Channel]*float64, len(All()))
	for _, ch := range All() {
		out[ch] = e.extractChannel(f, ch)
	}
	return out
}

func (e *Extractor) extractChannel(f *pose.Frame, ch Channel) *float64 {
	if ch == Trunk {
		return e.trunkLean(f)
	}
	def, ok := vertexDefs[ch]
	if !ok {
		return nil
	}
	a, okA := e.usable(f, def.A)
	v, okV := e.usable(f, def.Vertex)
	b, okB := e.usable(f, def.B)
	if !okA || !okV || !okB {
		return nil
	}
	return vectorAngle(a.X-v.X, a.Y-v.Y, b.X-v.X, b.Y-v.Y)
}

// trunkLean measures the unsigned angle between the shoulder-midpoint to
// hip-midpoint vector and the vertical reference.
func (e *Extractor) trunkLean(f *pose.Frame) *float64 {
	ls, ok1 := e.usable(f, pose.LeftShoulder)
	rs, ok2 := e.usable(f, pose.RightShoulder)
	lh, ok3 := e.usable(f, pose.LeftHip)
	rh, ok4 := e.usable(f, pose.RightHip)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil
	}
	// Image coordinates grow downward, so the shoulder->hip vector of an
	// upright body points along +Y.
	dx := (lh.X+rh.X)/2 - (ls.X+rs.X)/2
	dy := (lh.Y+rh.Y)/2 - (ls.Y+rs.Y)/2
	return vectorAngle(dx, dy, 0, 1)
}

func (e *Extractor) usable(f *pose.Frame, name string) (pose.Landmark, bool) {
	lm, ok := f.Lookup(name)
	if !ok || lm.Score < e.MinScore {
		return pose.Landmark{}, false
	}
	return lm, true
}

// vectorAngle returns the angle in degrees between vectors (ax,ay) and
// (bx,by), or nil when either vector is degenerate. The cosine is clamped to
// [-1,1] before acos to guard against floating-point overshoot.
func vectorAngle(ax, ay, bx, by float64) *float64 {
	magA := math.Hypot(ax, ay)
	magB := math.Hypot(bx, by)
	if magA == 0 || magB == 0 {
		return nil
	}
	cos := (ax*bx + ay*by) / (magA * magB)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	deg := math.Acos(cos) * 180 / math.Pi
	return &deg
}
