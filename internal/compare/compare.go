// Package compare aligns a reference and a candidate angle series and
// scores their dissimilarity per channel.
package compare

import (
	"errors"
	"fmt"
	"math"

	"github.com/formsight/formsight/internal/angles"
	"github.com/formsight/formsight/internal/cycles"
	"github.com/formsight/formsight/internal/resample"
	"github.com/formsight/formsight/internal/series"
)

// Mode selects the alignment strategy.
type Mode string

const (
	// ModeTime resamples the candidate onto the reference's own
	// timestamps and compares in the time domain.
	ModeTime Mode = "time"

	// ModeCycle compares mean phase-normalized cycle waveforms, so the
	// two performances need not be temporally aligned at all.
	ModeCycle Mode = "cycle"
)

// ParseMode parses a mode string from the API surface.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTime, ModeCycle:
		return Mode(s), nil
	case "":
		return ModeTime, nil
	}
	return "", fmt.Errorf("unknown mode %q (valid: time, cycle)", s)
}

// ErrNoComparableData reports that every requested channel was skipped:
// there is nothing to score. Individual unusable channels are skipped
// silently; only the all-skipped case is an error.
var ErrNoComparableData = errors.New("no comparable data between series")

// AlignedPair carries the plot-ready aligned waveforms. X is seconds in
// time mode and phase percent in cycle mode. NaN marks a gap; it is
// marshalled as JSON null.
type AlignedPair struct {
	X    []float64 `json:"x"`
	Ref  []float64 `json:"ref"`
	Cand []float64 `json:"cand"`
}

// ChannelResult is the per-channel comparison outcome. RMSE is nil when no
// index pair had two finite values.
type ChannelResult struct {
	Channel angles.Channel `json:"channel"`
	RMSE    *float64       `json:"rmse"`
	Aligned AlignedPair    `json:"aligned"`
}

// Result packages one comparison run. Stats is populated in cycle mode
// only, one entry per role.
type Result struct {
	Mode     Mode                         `json:"mode"`
	Channels []ChannelResult              `json:"channels"`
	Stats    map[series.Role]cycles.Stats `json:"stats,omitempty"`
}

// Comparator orchestrates alignment and scoring. It never mutates its
// input series.
type Comparator struct {
	detector   *cycles.Detector
	normalizer *cycles.Normalizer
}

// New returns a comparator using the given detector and normalizer.
func New(det *cycles.Detector, norm *cycles.Normalizer) *Comparator {
	return &Comparator{detector: det, normalizer: norm}
}

// Compare scores the candidate against the reference over the requested
// channels. Channels with no usable data on either side are skipped; if
// every channel is skipped the result is ErrNoComparableData.
func (c *Comparator) Compare(ref, cand *series.Series, chans []angles.Channel, mode Mode) (*Result, error) {
	if ref == nil || len(ref.Samples) == 0 {
		return nil, fmt.Errorf("reference series is empty")
	}
	if cand == nil || len(cand.Samples) == 0 {
		return nil, fmt.Errorf("candidate series is empty")
	}
	if len(chans) == 0 {
		chans = angles.All()
	}

	res := &Result{Mode: mode}
	if mode == ModeCycle {
		res.Stats = make(map[series.Role]cycles.Stats)
	}

	for _, ch := range chans {
		var cr *ChannelResult
		switch mode {
		case ModeCycle:
			cr = c.compareCycle(ref, cand, ch, res.Stats)
		default:
			cr = c.compareTime(ref, cand, ch)
		}
		if cr != nil {
			res.Channels = append(res.Channels, *cr)
		}
	}

	if len(res.Channels) == 0 {
		return nil, ErrNoComparableData
	}
	return res, nil
}

// compareTime aligns the candidate onto the reference's timestamps and
// scores over positions where both sides are non-null.
func (c *Comparator) compareTime(ref, cand *series.Series, ch angles.Channel) *ChannelResult {
	refTimes, refValues := ref.Channel(ch)
	candTimes, candValues := cand.Channel(ch)

	candFilled, ok := resample.FillNaLinear(candTimes, candValues)
	if !ok {
		return nil
	}

	refAligned := make([]float64, len(refTimes))
	candAligned := make([]float64, len(refTimes))
	anyRef := false
	for i, t := range refTimes {
		if refValues[i] != nil {
			refAligned[i] = *refValues[i]
			anyRef = true
		} else {
			refAligned[i] = math.NaN()
		}
		candAligned[i] = resample.LinInterp(t, candTimes, candFilled)
	}
	if !anyRef {
		return nil
	}

	return &ChannelResult{
		Channel: ch,
		RMSE:    RMSE(refAligned, candAligned),
		Aligned: AlignedPair{X: refTimes, Ref: refAligned, Cand: candAligned},
	}
}

// compareCycle reduces each side to its mean phase waveform and scores the
// waveforms directly; phase alignment holds by construction.
func (c *Comparator) compareCycle(ref, cand *series.Series, ch angles.Channel, stats map[series.Role]cycles.Stats) *ChannelResult {
	refMean, refCycles := c.meanWaveform(ref, ch)
	if refMean == nil {
		return nil
	}
	candMean, candCycles := c.meanWaveform(cand, ch)
	if candMean == nil {
		return nil
	}

	// Duration stats come from the first channel that produced cycles.
	if _, done := stats[series.Reference]; !done {
		stats[series.Reference] = cycles.ComputeStats(refCycles)
		stats[series.Candidate] = cycles.ComputeStats(candCycles)
	}

	phase := make([]float64, c.normalizer.Points)
	for i := range phase {
		phase[i] = 100 * float64(i) / float64(c.normalizer.Points-1)
	}

	return &ChannelResult{
		Channel: ch,
		RMSE:    RMSE(refMean, candMean),
		Aligned: AlignedPair{X: phase, Ref: refMean, Cand: candMean},
	}
}

// meanWaveform detects cycles on the null-stripped channel and averages
// them on the phase grid, resampling from the null-filled full grid so
// query times between recorded samples interpolate correctly.
func (c *Comparator) meanWaveform(s *series.Series, ch angles.Channel) ([]float64, []cycles.Cycle) {
	validTimes, validValues := s.ChannelValid(ch)
	if len(validTimes) == 0 {
		return nil, nil
	}
	fullTimes, fullValues := s.Channel(ch)
	filled, ok := resample.FillNaLinear(fullTimes, fullValues)
	if !ok {
		return nil, nil
	}

	detected := c.detector.Detect(validTimes, validValues)
	if len(detected) == 0 {
		return nil, nil
	}

	normalized := make([]cycles.NormalizedCycle, 0, len(detected))
	for _, cyc := range detected {
		normalized = append(normalized, c.normalizer.Normalize(cyc, fullTimes, filled))
	}
	return c.normalizer.MeanWaveform(normalized), detected
}

// RMSE returns sqrt(mean((a_i-b_i)^2)) over index pairs where both values
// are finite, or nil when no such pair exists. It is symmetric and zero
// for self-comparison.
func RMSE(a, b []float64) *float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	count := 0
	for i := 0; i < n; i++ {
		if math.IsNaN(a[i]) || math.IsInf(a[i], 0) || math.IsNaN(b[i]) || math.IsInf(b[i], 0) {
			continue
		}
		d := a[i] - b[i]
		sum += d * d
		count++
	}
	if count == 0 {
		return nil
	}
	out := math.Sqrt(sum / float64(count))
	return &out
}
