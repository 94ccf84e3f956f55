package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"sort"

	"github.com/banshee-data/facescore/internal/db"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoRecords is returned when there is nothing to plot.
var ErrNoRecords = errors.New("report: no analyses to plot")

// Rendered size of the trend chart.
var (
	TrendWidth  = 8 * vg.Inch
	TrendHeight = 4 * vg.Inch
)

// WriteTrendPNG plots the overall score of each record against its
// creation time and writes the chart to w as PNG. Records may arrive in
// any order.
func WriteTrendPNG(records []*db.AnalysisRecord, w io.Writer) error {
	pts := trendPoints(records)
	if len(pts) == 0 {
		return ErrNoRecords
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Overall score (%d analyses)", len(pts))
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Score"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Y.Min = 0
	p.Y.Max = 10
	p.Add(plotter.NewGrid())

	line, scatter, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("trend line: %w", err)
	}
	line.Width = vg.Points(1.5)
	line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	scatter.Color = line.Color
	scatter.Radius = vg.Points(2.5)
	p.Add(line, scatter)

	// A single analysis has no time span; widen it so the axis is drawable.
	if len(pts) == 1 {
		p.X.Min = pts[0].X - 86400
		p.X.Max = pts[0].X + 86400
	}

	wt, err := p.WriterTo(TrendWidth, TrendHeight, "png")
	if err != nil {
		return fmt.Errorf("render trend: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write trend: %w", err)
	}
	return nil
}

// trendPoints converts records into (unix seconds, score) points in
// chronological order, skipping nil entries.
func trendPoints(records []*db.AnalysisRecord) plotter.XYs {
	sorted := make([]*db.AnalysisRecord, 0, len(records))
	for _, r := range records {
		if r != nil {
			sorted = append(sorted, r)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	pts := make(plotter.XYs, len(sorted))
	for i, r := range sorted {
		pts[i] = plotter.XY{
			X: float64(r.CreatedAt.Unix()),
			Y: r.OverallScore,
		}
	}
	return pts
}
