package engine

import (
	"time"

	"covidboard/internal/data"
)

const (
	TrendUp   = "UP"
	TrendDown = "DOWN"
	TrendFlat = "FLAT"
)

// Point is one dated value of a metric series.
type Point struct {
	Date  time.Time
	Value float64
}

// Series extracts the published values of metric, skipping days without one.
func Series(history []data.Snapshot, metric string) []Point {
	out := make([]Point, 0, len(history))
	for _, s := range history {
		if v, ok := s.Value(metric); ok {
			out = append(out, Point{Date: s.Date, Value: v})
		}
	}
	return out
}

// Variations returns the day-over-day deltas of metric. Each point is dated
// with the later day; the first published day has no delta.
func Variations(history []data.Snapshot, metric string) []Point {
	series := Series(history, metric)
	if len(series) < 2 {
		return nil
	}
	out := make([]Point, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		out = append(out, Point{
			Date:  series[i].Date,
			Value: series[i].Value - series[i-1].Value,
		})
	}
	return out
}

// Delta compares metric between two reports.
func Delta(current, previous *data.Report, metric string) (float64, bool) {
	if current == nil || previous == nil {
		return 0, false
	}
	cur, ok := current.Value(metric)
	if !ok {
		return 0, false
	}
	prev, ok := previous.Value(metric)
	if !ok {
		return 0, false
	}
	return cur - prev, true
}

// Trend classifies a delta.
func Trend(delta float64) string {
	switch {
	case delta > 0:
		return TrendUp
	case delta < 0:
		return TrendDown
	default:
		return TrendFlat
	}
}

// Bounds returns the min and max values of points, or 0,0 when empty.
func Bounds(points ...[]Point) (lo, hi float64) {
	first := true
	for _, ps := range points {
		for _, p := range ps {
			if first {
				lo, hi = p.Value, p.Value
				first = false
				continue
			}
			if p.Value < lo {
				lo = p.Value
			}
			if p.Value > hi {
				hi = p.Value
			}
		}
	}
	return lo, hi
}
