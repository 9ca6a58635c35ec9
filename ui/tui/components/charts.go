// Package components draws the statistics charts with ntcharts.
package components

import (
	"fmt"
	"math"
	"strings"
	"time"

	"covidboard/internal/chart"
	"covidboard/internal/data"
	"covidboard/internal/engine"
	"covidboard/internal/output"
	"covidboard/ui/tui/styles"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"
)

const (
	minWidth  = 20
	minHeight = 6
)

var (
	axisStyle  = lipgloss.NewStyle().Foreground(styles.BaseColor)
	labelStyle = lipgloss.NewStyle().Foreground(styles.Muted)
)

// Chart renders the history of a report into a w x h block.
type Chart interface {
	Render(history []data.Snapshot, opts chart.Options, w, h int) string
}

// ChartSet holds one component per renderer.
type ChartSet struct {
	Mixed      Chart
	Cumulative Chart
	Variation  Chart
}

// NewChartSet builds the components for reg.
func NewChartSet(reg *chart.Registry) ChartSet {
	return ChartSet{
		Mixed:      MixedChart{Series: reg.MixedSeries()},
		Cumulative: CumulativeChart{},
		Variation:  VariationChart{},
	}
}

// For returns the component for r, or nil for RendererNone.
func (s ChartSet) For(r chart.Renderer) Chart {
	switch r {
	case chart.RendererMixed:
		return s.Mixed
	case chart.RendererCumulative:
		return s.Cumulative
	case chart.RendererVariation:
		return s.Variation
	default:
		return nil
	}
}

// MixedChart draws several indicators on one time axis.
type MixedChart struct {
	Series []chart.Options
}

func (c MixedChart) Render(history []data.Snapshot, _ chart.Options, w, h int) string {
	w, h = clamp(w, h)

	points := make([][]engine.Point, len(c.Series))
	for i, opt := range c.Series {
		points[i] = engine.Series(history, opt.MetricName)
	}
	if empty(points...) {
		return noData(w)
	}

	var opts []timeserieslinechart.Option
	for _, opt := range c.Series {
		opts = append(opts, timeserieslinechart.WithDataSetStyle(opt.Label, lipgloss.NewStyle().Foreground(styles.Color(opt.Color))))
	}
	lc := newTimeChart(w, h-1, points, opts...)
	for i, opt := range c.Series {
		for _, p := range points[i] {
			lc.PushDataSet(opt.Label, timeserieslinechart.TimePoint{Time: p.Date, Value: p.Value})
		}
	}
	lc.DrawBrailleAll()

	return lipgloss.JoinVertical(lipgloss.Left, lc.View(), Legend(c.Series))
}

// CumulativeChart draws the running total of one indicator.
type CumulativeChart struct{}

func (CumulativeChart) Render(history []data.Snapshot, opts chart.Options, w, h int) string {
	w, h = clamp(w, h)

	points := engine.Series(history, opts.MetricName)
	if len(points) == 0 {
		return noData(w)
	}

	style := lipgloss.NewStyle().Foreground(styles.Color(opts.Color))
	lc := newTimeChart(w, h-1, [][]engine.Point{points}, timeserieslinechart.WithStyle(style))
	for _, p := range points {
		lc.Push(timeserieslinechart.TimePoint{Time: p.Date, Value: p.Value})
	}
	lc.DrawBraille()

	return lipgloss.JoinVertical(lipgloss.Left, lc.View(), Legend([]chart.Options{opts}))
}

// VariationChart draws day-over-day changes as bars, the most recent days
// that fit the width. Decreases are drawn in their own color.
type VariationChart struct{}

func (VariationChart) Render(history []data.Snapshot, opts chart.Options, w, h int) string {
	w, h = clamp(w, h)

	points := engine.Variations(history, opts.MetricName)
	if len(points) == 0 {
		return noData(w)
	}
	if len(points) > w {
		points = points[len(points)-w:]
	}

	up := lipgloss.NewStyle().Foreground(styles.Color(opts.Color))
	down := styles.DeltaDownStyle

	bars := make([]barchart.BarData, 0, len(points))
	for _, p := range points {
		style := up
		if p.Value < 0 {
			style = down
		}
		bars = append(bars, barchart.BarData{
			Label: p.Date.Format("02/01"),
			Values: []barchart.BarValue{
				{Name: opts.Label, Value: math.Abs(p.Value), Style: style},
			},
		})
	}

	bc := barchart.New(w, h-1,
		barchart.WithDataSet(bars),
		barchart.WithBarGap(0),
		barchart.WithNoAxis(),
		barchart.WithStyles(axisStyle, labelStyle),
	)
	bc.Draw()

	last := points[len(points)-1]
	caption := fmt.Sprintf("%s → %s  dernier: %s",
		points[0].Date.Format("02/01"),
		last.Date.Format("02/01"),
		output.FormatDelta(last.Value),
	)
	return lipgloss.JoinVertical(lipgloss.Left, bc.View(), labelStyle.Render(caption))
}

// Legend lists the series of a chart in their colors.
func Legend(series []chart.Options) string {
	parts := make([]string, 0, len(series))
	for _, opt := range series {
		dot := lipgloss.NewStyle().Foreground(styles.Color(opt.Color)).Render("●")
		parts = append(parts, dot+" "+labelStyle.Render(opt.Label))
	}
	return strings.Join(parts, "  ")
}

func newTimeChart(w, h int, points [][]engine.Point, extra ...timeserieslinechart.Option) timeserieslinechart.Model {
	start, end := timeBounds(points...)
	lo, hi := engine.Bounds(points...)
	if lo > 0 {
		lo = 0
	}
	if hi <= lo {
		hi = lo + 1
	}

	opts := []timeserieslinechart.Option{
		timeserieslinechart.WithTimeRange(start, end),
		timeserieslinechart.WithYRange(lo, hi),
		timeserieslinechart.WithAxesStyles(axisStyle, labelStyle),
		timeserieslinechart.WithXLabelFormatter(func(_ int, v float64) string {
			return time.Unix(int64(v), 0).UTC().Format("02/01")
		}),
		timeserieslinechart.WithYLabelFormatter(func(_ int, v float64) string {
			return compact(v)
		}),
		timeserieslinechart.WithXYSteps(4, 2),
	}
	return timeserieslinechart.New(w, h, append(opts, extra...)...)
}

func timeBounds(points ...[]engine.Point) (start, end time.Time) {
	for _, ps := range points {
		for _, p := range ps {
			if start.IsZero() || p.Date.Before(start) {
				start = p.Date
			}
			if p.Date.After(end) {
				end = p.Date
			}
		}
	}
	if !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}
	return start, end
}

// compact shortens axis labels: 12500 -> 12.5k.
func compact(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.1fk", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func empty(points ...[]engine.Point) bool {
	for _, ps := range points {
		if len(ps) > 0 {
			return false
		}
	}
	return true
}

func noData(w int) string {
	return lipgloss.NewStyle().Width(w).Render(styles.SubtleStyle.Render("Aucune donnée à afficher."))
}

func clamp(w, h int) (int, int) {
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}
	return w, h
}
