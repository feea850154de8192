package compare

import (
	"encoding/json"
	"math"
)

// MarshalJSON emits non-finite samples as null so aligned waveforms with
// gaps survive JSON encoding.
func (p AlignedPair) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		X    []*float64 `json:"x"`
		Ref  []*float64 `json:"ref"`
		Cand []*float64 `json:"cand"`
	}{
		X:    nullable(p.X),
		Ref:  nullable(p.Ref),
		Cand: nullable(p.Cand),
	})
}

func nullable(xs []float64) []*float64 {
	out := make([]*float64, len(xs))
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		v := x
		out[i] = &v
	}
	return out
}
