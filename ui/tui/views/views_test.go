package views

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"covidboard/internal/chart"
	"covidboard/internal/data"
	"covidboard/internal/engine"
	"covidboard/internal/output"
	"covidboard/internal/view"
	"covidboard/ui/tui/state"
	"covidboard/ui/tui/styles"

	zone "github.com/lrstanley/bubblezone"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func report(code, name, date string, deces float64) *data.Report {
	d, _ := data.ParseDate(date)
	s := data.Snapshot{Date: d, Code: code, Name: name, Metrics: map[string]float64{data.MetricDeces: deces}}
	return &data.Report{Snapshot: s, History: []data.Snapshot{s}}
}

func appState(vs view.ViewState) state.AppState {
	reg := chart.Default()
	return state.AppState{
		View:    vs,
		Summary: output.BuildSummary(reg, vs.Current, vs.Previous),
		Stats:   reg.Descriptors(),
	}
}

func TestBigPictureHeaderAndBack(t *testing.T) {
	cur := report("DEP-75", "Paris", "2020-04-02", 120)

	tests := []struct {
		name     string
		location string
		mobile   bool
		title    string
		wantBack bool
	}{
		{"nationwide", "", false, "COVID-19 - France", false},
		{"location on desktop", "DEP-75", false, "COVID-19 - Paris", true},
		{"location on mobile", "DEP-75", true, "COVID-19 - Paris", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := view.ViewState{SelectedStat: chart.StatMixed, Location: tt.location, IsMobileDevice: tt.mobile}
			if tt.location != "" {
				vs.Current = cur
			}
			out := BigPictureView{}.Render(appState(vs), ViewProps{Width: 120})

			if !strings.Contains(out, tt.title) {
				t.Errorf("missing title %q:\n%s", tt.title, out)
			}
			if got := strings.Contains(out, BackLabel); got != tt.wantBack {
				t.Errorf("back control shown = %v, want %v", got, tt.wantBack)
			}
		})
	}
}

func TestBigPictureControls(t *testing.T) {
	cur := report(data.NationalCode, "France", "2020-04-02", 120)

	tests := []struct {
		name          string
		stat          chart.StatID
		toggleable    bool
		variations    bool
		loaded        bool
		wantToggle    string
		wantShowMixed bool
	}{
		{"mixed", chart.StatMixed, false, false, true, "", false},
		{"indicator cumulative", chart.StatDeces, true, false, true, ToggleToVariations, true},
		{"indicator variations", chart.StatDeces, true, true, true, ToggleToCumulative, true},
		{"indicator without report", chart.StatDeces, true, false, false, "", false},
		{"no selection without report", "", false, false, false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := view.ViewState{
				SelectedStat:   tt.stat,
				IsToggleable:   tt.toggleable,
				ShowVariations: tt.variations,
			}
			if tt.loaded {
				vs.Current = cur
				vs.ShowsChart = true
			}
			out := BigPictureView{}.Render(appState(vs), ViewProps{Width: 120})

			for _, label := range []string{ToggleToCumulative, ToggleToVariations} {
				if got := strings.Contains(out, label); got != (label == tt.wantToggle) {
					t.Errorf("label %q shown = %v", label, got)
				}
			}
			if got := strings.Contains(out, ShowMixedLabel); got != tt.wantShowMixed {
				t.Errorf("show-cumulative shortcut shown = %v, want %v", got, tt.wantShowMixed)
			}
		})
	}
}

func TestChartControlsFollowTheReport(t *testing.T) {
	sel := view.NewSharedSelection("")
	ctrl := view.NewController(chart.Default(), &view.AppContext{Date: aprilSecond()}, sel)

	render := func() string {
		return BigPictureView{}.Render(appState(ctrl.State()), ViewProps{Width: 120})
	}
	hasControls := func(out string) bool {
		return strings.Contains(out, ShowMixedLabel) || strings.Contains(out, ToggleToVariations)
	}

	if hasControls(render()) {
		t.Error("controls drawn before the view is mounted")
	}

	req := ctrl.Initialize()
	if err := ctrl.SelectStat(chart.StatDeces); err != nil {
		t.Fatal(err)
	}
	if hasControls(render()) {
		t.Error("controls drawn while the first report is loading")
	}

	ctrl.ApplyReport(view.FetchResult{Kind: req.Kind, Seq: req.Seq, Err: errors.New("boom")})
	if out := render(); hasControls(out) || !strings.Contains(out, "boom") {
		t.Errorf("failed first load should show the error panel only:\n%s", out)
	}

	req = ctrl.SetDate(aprilSecond())
	ctrl.ApplyReport(view.FetchResult{Kind: req.Kind, Seq: req.Seq, Report: report(data.NationalCode, "France", "2020-04-02", 120)})
	out := render()
	if !strings.Contains(out, ShowMixedLabel) || !strings.Contains(out, ToggleToVariations) {
		t.Errorf("controls missing once the report is loaded:\n%s", out)
	}
}

func aprilSecond() time.Time {
	d, _ := data.ParseDate("2020-04-02")
	return d
}

func TestBigPictureChartArea(t *testing.T) {
	cur := report(data.NationalCode, "France", "2020-04-02", 120)
	vs := view.ViewState{SelectedStat: chart.StatMixed, Current: cur, Renderer: chart.RendererMixed}

	out := BigPictureView{}.Render(appState(vs), ViewProps{Width: 120, ChartView: "CHART"})
	if strings.Contains(out, "CHART") {
		t.Error("chart drawn while ShowsChart is false")
	}

	vs.ShowsChart = true
	out = BigPictureView{}.Render(appState(vs), ViewProps{Width: 120, ChartView: "CHART"})
	if !strings.Contains(out, "CHART") || !strings.Contains(out, "Vue d’ensemble") {
		t.Errorf("chart area missing:\n%s", out)
	}
}

func TestBigPictureErrorAndLoading(t *testing.T) {
	tests := []struct {
		name string
		vs   view.ViewState
		want string
	}{
		{"loading", view.ViewState{Loading: true}, "Chargement"},
		{"no report", view.ViewState{Err: fmt.Errorf("FRA: %w", data.ErrNoReport)}, "Aucune donnée publiée"},
		{"fetch failure", view.ViewState{Err: errors.New("boom")}, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := BigPictureView{}.Render(appState(tt.vs), ViewProps{Width: 120, SpinnerView: "*"})
			if !strings.Contains(out, tt.want) {
				t.Errorf("missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestCountersShowValuesAndDeltas(t *testing.T) {
	cur := report(data.NationalCode, "France", "2020-04-02", 1250)
	prev := report(data.NationalCode, "France", "2020-04-01", 1200)

	out := CountersView{}.Render(appState(view.ViewState{Current: cur, Previous: prev}), ViewProps{Width: 200})
	for _, want := range []string{"Données hospitalières", "Données EHPAD", "1 250", "+50"} {
		if !strings.Contains(out, want) {
			t.Errorf("counters missing %q:\n%s", want, out)
		}
	}

	if (CountersView{}).Render(appState(view.ViewState{}), ViewProps{}) != "" {
		t.Error("counters drawn without a report")
	}
}

func TestDeltaStyleSwapsForRecoveries(t *testing.T) {
	tests := []struct {
		trend      string
		goodWhenUp bool
		want       string
	}{
		{engine.TrendUp, false, "up"},
		{engine.TrendDown, false, "down"},
		{engine.TrendUp, true, "down"},
		{engine.TrendDown, true, "up"},
		{engine.TrendFlat, true, "flat"},
	}
	colors := map[string]any{
		"up":   styles.DeltaUpStyle.GetForeground(),
		"down": styles.DeltaDownStyle.GetForeground(),
		"flat": styles.DeltaFlatStyle.GetForeground(),
	}
	for _, tt := range tests {
		got := DeltaStyle(tt.trend, tt.goodWhenUp).GetForeground()
		if got != colors[tt.want] {
			t.Errorf("DeltaStyle(%q, %v) = %v; want %s color", tt.trend, tt.goodWhenUp, got, tt.want)
		}
	}
}

func TestStatPickerListsGroups(t *testing.T) {
	s := appState(view.ViewState{SelectedStat: chart.StatDeces})
	out := StatPickerView{}.Render(s, ViewProps{PickerCursor: 4, AnimCursor: 4})

	for _, want := range []string{chart.GroupOverview, chart.GroupHospital, chart.GroupEhpad, "Tout afficher", "Décès à l’hôpital"} {
		if !strings.Contains(out, want) {
			t.Errorf("picker missing %q", want)
		}
	}
}

func TestRenderAppLayouts(t *testing.T) {
	cur := report(data.NationalCode, "France", "2020-04-02", 120)
	for _, mobile := range []bool{false, true} {
		vs := view.ViewState{SelectedStat: chart.StatMixed, Current: cur, IsMobileDevice: mobile}
		out := RenderApp(appState(vs), ViewProps{Width: 80, Height: 40, HelpView: "? aide"})
		if !strings.Contains(out, "Tout afficher") || !strings.Contains(out, "? aide") {
			t.Errorf("mobile=%v: layout incomplete:\n%s", mobile, out)
		}
	}
}

func TestZoneIDs(t *testing.T) {
	if StatZone(chart.StatDeces) != "stat_deces" || PickZone(3) != "pick_3" {
		t.Error("unexpected zone ids")
	}
}
