// Command compare-csv compares two exported recordings offline and prints
// a comparison summary, optionally writing chart overlays.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/formsight/formsight/internal/angles"
	"github.com/formsight/formsight/internal/coach"
	"github.com/formsight/formsight/internal/compare"
	"github.com/formsight/formsight/internal/cycles"
	"github.com/formsight/formsight/internal/report"
	"github.com/formsight/formsight/internal/series"
)

var (
	refPath    = flag.String("ref", "", "Reference recording CSV (required)")
	candPath   = flag.String("cand", "", "Candidate recording CSV (required)")
	mode       = flag.String("mode", "cycle", "Alignment mode: time or cycle")
	channels   = flag.String("channels", "", "Comma-separated channels (default all)")
	prominence = flag.Float64("prominence", cycles.DefaultProminence, "Cycle-boundary prominence threshold (degrees)")
	minGap     = flag.Float64("min-gap", cycles.DefaultMinGapSec, "Minimum gap between cycle boundaries (seconds)")
	htmlOut    = flag.String("html", "", "Write an HTML overlay chart to this path")
	pngOut     = flag.String("png", "", "Write a PNG overlay plot to this path")
	chartChan  = flag.String("chart-channel", string(angles.KneeL), "Channel for chart output")
)

func loadSeries(path string, role series.Role) (*series.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s recording: %w", role, err)
	}
	defer f.Close()
	return report.ReadCSV(f, role)
}

func main() {
	flag.Parse()

	if *refPath == "" || *candPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	ref, err := loadSeries(*refPath, series.Reference)
	if err != nil {
		log.Fatal(err)
	}
	cand, err := loadSeries(*candPath, series.Candidate)
	if err != nil {
		log.Fatal(err)
	}

	parsedMode, err := compare.ParseMode(*mode)
	if err != nil {
		log.Fatal(err)
	}
	parsedChannels, err := angles.ParseChannels(*channels)
	if err != nil {
		log.Fatal(err)
	}

	comparator := compare.New(cycles.NewDetector(*prominence, *minGap), cycles.NewNormalizer(cycles.DefaultPhasePoints))
	res, err := comparator.Compare(ref, cand, parsedChannels, parsedMode)
	if err != nil {
		log.Fatal(err)
	}

	printSummary(res)

	for _, tip := range coach.Tips(res) {
		fmt.Printf("  * %s\n", tip)
	}

	overlay := angles.Channel(*chartChan)
	if *htmlOut != "" {
		f, err := os.Create(*htmlOut)
		if err != nil {
			log.Fatalf("failed to create HTML output: %v", err)
		}
		if err := report.RenderOverlayHTML(f, res, overlay); err != nil {
			log.Fatalf("failed to write HTML overlay: %v", err)
		}
		f.Close()
		fmt.Printf("wrote %s\n", *htmlOut)
	}
	if *pngOut != "" {
		if err := report.SaveOverlayPNG(*pngOut, res, overlay); err != nil {
			log.Fatalf("failed to write PNG overlay: %v", err)
		}
		fmt.Printf("wrote %s\n", *pngOut)
	}
}

func printSummary(res *compare.Result) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "channel\trmse (deg)\n")
	for _, cr := range res.Channels {
		if cr.RMSE == nil {
			fmt.Fprintf(tw, "%s\t-\n", cr.Channel)
			continue
		}
		fmt.Fprintf(tw, "%s\t%.2f\n", cr.Channel, *cr.RMSE)
	}
	tw.Flush()

	if len(res.Stats) == 0 {
		return
	}
	fmt.Println()
	tw = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "role\tcycles\tmean (s)\tsd (s)\tmin (s)\tmax (s)\tcadence (/min)\n")
	for _, role := range series.Roles() {
		st, ok := res.Stats[role]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.1f\n",
			role, st.Count, st.MeanDuration, st.StdevDuration, st.MinDuration, st.MaxDuration, st.Cadence)
	}
	tw.Flush()
}
