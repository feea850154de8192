// Package coach turns comparison results into short natural-language
// pointers. Purely heuristic: fixed thresholds over per-channel RMSE and
// cycle statistics, no model behind it.
package coach

import (
	"fmt"
	"math"

	"github.com/formsight/formsight/internal/angles"
	"github.com/formsight/formsight/internal/compare"
	"github.com/formsight/formsight/internal/series"
)

// RMSE bands in degrees.
const (
	closeMatchRMSE = 5.0
	largeGapRMSE   = 15.0
)

// cadenceTolerance is the relative cadence difference tolerated before a
// tempo tip is emitted.
const cadenceTolerance = 0.10

var channelLabels = map[angles.Channel]string{
	angles.KneeL: "left knee",
	angles.KneeR: "right knee",
	angles.HipL:  "left hip",
	angles.HipR:  "right hip",
	angles.Trunk: "trunk",
}

// Tips renders coaching hints for a comparison result. Always returns at
// least one line.
func Tips(res *compare.Result) []string {
	var tips []string

	worst := ""
	worstRMSE := 0.0
	for _, cr := range res.Channels {
		if cr.RMSE == nil {
			continue
		}
		label := channelLabels[cr.Channel]
		if label == "" {
			label = string(cr.Channel)
		}
		switch {
		case *cr.RMSE <= closeMatchRMSE:
			tips = append(tips, fmt.Sprintf("%s tracks the reference closely (%.1f° RMSE) - keep it up.", label, *cr.RMSE))
		case *cr.RMSE <= largeGapRMSE:
			tips = append(tips, fmt.Sprintf("%s drifts from the reference (%.1f° RMSE) - watch its range of motion.", label, *cr.RMSE))
		default:
			tips = append(tips, fmt.Sprintf("%s deviates strongly (%.1f° RMSE) - slow down and rebuild this movement.", label, *cr.RMSE))
		}
		if *cr.RMSE > worstRMSE {
			worstRMSE = *cr.RMSE
			worst = label
		}
	}

	if worst != "" && worstRMSE > largeGapRMSE {
		tips = append(tips, fmt.Sprintf("Biggest gap: %s. Start your next session there.", worst))
	}

	if tip := cadenceTip(res); tip != "" {
		tips = append(tips, tip)
	}

	if len(tips) == 0 {
		tips = append(tips, "Not enough overlapping data to coach on - record longer takes of both performances.")
	}
	return tips
}

func cadenceTip(res *compare.Result) string {
	refStats, okRef := res.Stats[series.Reference]
	candStats, okCand := res.Stats[series.Candidate]
	if !okRef || !okCand || refStats.Cadence == 0 || candStats.Cadence == 0 {
		return ""
	}
	rel := (candStats.Cadence - refStats.Cadence) / refStats.Cadence
	if math.Abs(rel) <= cadenceTolerance {
		return ""
	}
	if rel > 0 {
		return fmt.Sprintf("You are moving %.0f%% faster than the reference (%.1f vs %.1f cycles/min) - ease off the tempo.",
			rel*100, candStats.Cadence, refStats.Cadence)
	}
	return fmt.Sprintf("You are moving %.0f%% slower than the reference (%.1f vs %.1f cycles/min) - pick up the tempo.",
		-rel*100, candStats.Cadence, refStats.Cadence)
}
