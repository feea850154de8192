package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/formsight/formsight/internal/angles"
	"github.com/formsight/formsight/internal/compare"
)

// SaveOverlayPNG writes a PNG overlay plot of the aligned waveforms for one
// channel. Gap samples (NaN) are dropped rather than drawn at zero.
func SaveOverlayPNG(path string, res *compare.Result, channel angles.Channel) error {
	cr, err := channelResult(res, channel)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Reference vs Candidate: %s", channel)
	if res.Mode == compare.ModeCycle {
		p.X.Label.Text = "phase (%)"
	} else {
		p.X.Label.Text = "time (s)"
	}
	p.Y.Label.Text = "angle (deg)"
	p.Add(plotter.NewGrid())

	refLine, err := plotter.NewLine(finiteXYs(cr.Aligned.X, cr.Aligned.Ref))
	if err != nil {
		return fmt.Errorf("failed to build reference line: %w", err)
	}
	refLine.Color = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

	candLine, err := plotter.NewLine(finiteXYs(cr.Aligned.X, cr.Aligned.Cand))
	if err != nil {
		return fmt.Errorf("failed to build candidate line: %w", err)
	}
	candLine.Color = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	candLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(refLine, candLine)
	p.Legend.Add("reference", refLine)
	p.Legend.Add("candidate", candLine)
	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save overlay plot: %w", err)
	}
	return nil
}

func finiteXYs(xs, ys []float64) plotter.XYs {
	out := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			continue
		}
		out = append(out, plotter.XY{X: xs[i], Y: ys[i]})
	}
	return out
}
