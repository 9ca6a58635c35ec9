package components

import (
	"fmt"
	"strings"
	"testing"

	"covidboard/internal/chart"
	"covidboard/internal/data"
	"covidboard/internal/engine"
)

func history() []data.Snapshot {
	var out []data.Snapshot
	for i, day := range []string{"2020-04-01", "2020-04-02", "2020-04-03", "2020-04-04"} {
		d, _ := data.ParseDate(day)
		out = append(out, data.Snapshot{
			Date: d,
			Code: data.NationalCode,
			Metrics: map[string]float64{
				data.MetricDeces:        float64(100 + i*20),
				data.MetricGueris:       float64(300 - i*10),
				data.MetricHospitalises: float64(1000 + i),
				data.MetricReanimation:  float64(400),
			},
		})
	}
	return out
}

func TestChartSetFor(t *testing.T) {
	set := NewChartSet(chart.Default())

	tests := []struct {
		renderer chart.Renderer
		want     Chart
	}{
		{chart.RendererMixed, set.Mixed},
		{chart.RendererCumulative, set.Cumulative},
		{chart.RendererVariation, set.Variation},
		{chart.RendererNone, nil},
	}

	for _, tt := range tests {
		if got := set.For(tt.renderer); fmt.Sprintf("%T", got) != fmt.Sprintf("%T", tt.want) {
			t.Errorf("For(%s) = %T, want %T", tt.renderer, got, tt.want)
		}
	}

	mixed := set.Mixed.(MixedChart)
	if len(mixed.Series) != 4 {
		t.Errorf("expected 4 mixed series, got %d", len(mixed.Series))
	}
}

func TestChartsRender(t *testing.T) {
	reg := chart.Default()
	set := NewChartSet(reg)
	deces := reg.MustLookup(chart.StatDeces).Options()

	tests := []struct {
		name string
		c    Chart
		want string
	}{
		{"mixed", set.Mixed, "Retours à domicile"},
		{"cumulative", set.Cumulative, "Décès à l’hôpital"},
		{"variation", set.Variation, "+20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.c.Render(history(), deces, 60, 12)
			if out == "" {
				t.Fatal("empty render")
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("render missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestChartsWithoutData(t *testing.T) {
	set := NewChartSet(chart.Default())
	opts := chart.Options{Label: "x", MetricName: "unknown", Color: "red"}

	for _, c := range []Chart{set.Mixed, set.Cumulative, set.Variation} {
		if out := c.Render(nil, opts, 40, 10); !strings.Contains(out, "Aucune donnée") {
			t.Errorf("%T: expected no-data notice, got %q", c, out)
		}
	}
}

func TestTimeBoundsSinglePoint(t *testing.T) {
	d, _ := data.ParseDate("2020-04-01")
	start, end := timeBounds([]engine.Point{{Date: d, Value: 1}})
	if !start.Equal(d) || !end.After(start) {
		t.Errorf("timeBounds = %v..%v", start, end)
	}
}

func TestCompact(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12, "12"},
		{12500, "12.5k"},
		{2300000, "2.3M"},
	}
	for _, tt := range tests {
		if got := compact(tt.in); got != tt.want {
			t.Errorf("compact(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
