package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/formsight/formsight/internal/angles"
	"github.com/formsight/formsight/internal/compare"
)

// RenderOverlayHTML renders an ECharts line overlay of the aligned
// reference and candidate waveforms for one channel of a comparison result.
func RenderOverlayHTML(w io.Writer, res *compare.Result, channel angles.Channel) error {
	cr, err := channelResult(res, channel)
	if err != nil {
		return err
	}

	xLabels := make([]string, len(cr.Aligned.X))
	refData := make([]opts.LineData, len(cr.Aligned.X))
	candData := make([]opts.LineData, len(cr.Aligned.X))
	for i, x := range cr.Aligned.X {
		xLabels[i] = fmt.Sprintf("%.2f", x)
		refData[i] = lineDatum(cr.Aligned.Ref[i])
		candData[i] = lineDatum(cr.Aligned.Cand[i])
	}

	xName := "time (s)"
	if res.Mode == compare.ModeCycle {
		xName = "phase (%)"
	}
	subtitle := fmt.Sprintf("mode=%s channel=%s", res.Mode, channel)
	if cr.RMSE != nil {
		subtitle += fmt.Sprintf(" rmse=%.2f°", *cr.RMSE)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Motion Overlay", Theme: "dark", Width: "1100px", Height: "560px"}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Reference vs Candidate: %s", channel), Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName, NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: "angle (deg)", NameLocation: "middle", NameGap: 40}),
	)
	line.SetXAxis(xLabels).
		AddSeries("reference", refData).
		AddSeries("candidate", candData).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render overlay chart: %w", err)
	}
	return nil
}

func channelResult(res *compare.Result, channel angles.Channel) (*compare.ChannelResult, error) {
	for i := range res.Channels {
		if res.Channels[i].Channel == channel {
			return &res.Channels[i], nil
		}
	}
	return nil, fmt.Errorf("channel %s not present in comparison result", channel)
}

// lineDatum maps a gap (NaN) to a null ECharts point so the line breaks
// instead of plotting zero.
func lineDatum(v float64) opts.LineData {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return opts.LineData{Value: nil}
	}
	return opts.LineData{Value: v}
}
