package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/banshee-data/facescore/internal/metrics"
	"github.com/banshee-data/facescore/internal/regions"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// AssetsHost is where rendered pages load the echarts scripts from.
var AssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// WriteRegionChartHTML renders a grouped bar chart of region scores for
// current and, when non-nil, previous. Regions missing from both snapshots
// are left out; a region present in only one is drawn with an empty bar on
// the other side.
func WriteRegionChartHTML(current, previous *metrics.Snapshot, w io.Writer) error {
	if current == nil {
		return errors.New("report: no current analysis")
	}

	var x []string
	var cur, prev []opts.BarData
	for _, r := range regions.Order {
		c, cok := regionScore(current, r)
		p, pok := regionScore(previous, r)
		if !cok && !pok {
			continue
		}
		x = append(x, string(r))
		cur = append(cur, barValue(c, cok))
		prev = append(prev, barValue(p, pok))
	}
	if len(x) == 0 {
		return errors.New("report: no region scores to chart")
	}

	subtitle := fmt.Sprintf("overall %.1f", current.OverallScore)
	if previous != nil {
		subtitle += fmt.Sprintf(" (previous %.1f)", previous.OverallScore)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Region scores", Width: "100%", Height: "560px", AssetsHost: AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: "Region scores", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "score", Min: 0, Max: 10}),
	)
	label := charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"})
	bar.SetXAxis(x).AddSeries(seriesName("current", current), cur, label)
	if previous != nil {
		bar.AddSeries(seriesName("previous", previous), prev, label)
	}

	page := components.NewPage()
	page.SetAssetsHost(AssetsHost)
	page.AddCharts(bar)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render region chart: %w", err)
	}
	return nil
}

func regionScore(s *metrics.Snapshot, r regions.Region) (float64, bool) {
	if s == nil {
		return 0, false
	}
	m, ok := s.Regions[r]
	if !ok || m.OverallScore == nil {
		return 0, false
	}
	return *m.OverallScore, true
}

func barValue(v float64, ok bool) opts.BarData {
	if !ok {
		return opts.BarData{Value: "-"}
	}
	return opts.BarData{Value: v}
}

func seriesName(prefix string, s *metrics.Snapshot) string {
	if s.CreatedAt.IsZero() {
		return prefix
	}
	return prefix + " " + s.CreatedAt.Format("2006-01-02")
}
