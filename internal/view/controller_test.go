package view

import (
	"errors"
	"testing"
	"time"

	"covidboard/internal/chart"
	"covidboard/internal/data"
)

func mustDay(s string) time.Time {
	t, err := data.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func report(date string, history ...string) *data.Report {
	r := &data.Report{Snapshot: data.Snapshot{Date: mustDay(date), Code: data.NationalCode, Name: data.NationalName}}
	for _, h := range history {
		r.History = append(r.History, data.Snapshot{Date: mustDay(h), Code: data.NationalCode})
	}
	return r
}

func newTestController(initial chart.StatID) (*Controller, *SharedSelection, *AppContext) {
	sel := NewSharedSelection(initial)
	app := &AppContext{Date: mustDay("2020-04-02")}
	return NewController(chart.Default(), app, sel), sel, app
}

func TestInitializeSelectsMixedExactlyOnce(t *testing.T) {
	c, sel, _ := newTestController(chart.StatDeces)

	calls := 0
	sel.OnChange(func(chart.StatID) { calls++ })

	req := c.Initialize()
	if sel.SelectedStat() != chart.StatMixed {
		t.Fatalf("expected mixed after mount, got %s", sel.SelectedStat())
	}
	if req.Kind != FetchCurrent || req.Seq != 1 {
		t.Errorf("unexpected initial request %+v", req)
	}

	if err := c.SelectStat(chart.StatGueris); err != nil {
		t.Fatal(err)
	}
	c.Initialize()
	if sel.SelectedStat() != chart.StatGueris {
		t.Errorf("second Initialize must not reset the selection, got %s", sel.SelectedStat())
	}
	if calls != 2 {
		t.Errorf("expected 2 selection changes (mount + select), got %d", calls)
	}
}

func TestToggleScenario(t *testing.T) {
	c, _, _ := newTestController("")
	c.Initialize()
	_ = c.SelectStat(chart.StatHospitalises)

	if !c.IsToggleable() {
		t.Fatal("hospitalises should be toggleable")
	}
	before := c.ShowVariations()
	if !c.ToggleVariations() {
		t.Fatal("toggle should apply")
	}
	if c.ShowVariations() == before {
		t.Error("showVariations should flip")
	}
	if !c.IsToggleable() {
		t.Error("still toggleable after toggle")
	}
	if c.Renderer() != chart.RendererVariation {
		t.Errorf("expected variation renderer, got %v", c.Renderer())
	}

	c.ToggleVariations()
	if c.ShowVariations() != before {
		t.Error("second toggle should flip back")
	}
}

func TestToggleIgnoredOnMixed(t *testing.T) {
	c, _, _ := newTestController("")
	c.Initialize()
	if c.ToggleVariations() {
		t.Error("mixed is not toggleable")
	}
	if c.ShowVariations() {
		t.Error("flag must stay false")
	}
	if c.ChartOptions() != (chart.Options{}) {
		t.Errorf("mixed has no options, got %+v", c.ChartOptions())
	}
}

func TestShowCumulativeKeepsVariations(t *testing.T) {
	c, sel, _ := newTestController("")
	c.Initialize()
	_ = c.SelectStat(chart.StatGueris)
	c.ToggleVariations()

	c.ShowCumulative()
	if sel.SelectedStat() != chart.StatMixed {
		t.Errorf("expected mixed, got %s", sel.SelectedStat())
	}
	if !c.ShowVariations() {
		t.Error("show cumulative must not change the variations flag")
	}
	if c.Renderer() != chart.RendererMixed {
		t.Errorf("expected mixed renderer, got %v", c.Renderer())
	}
}

func TestSelectStatKeepsVariationsAndRejectsUnknown(t *testing.T) {
	c, _, _ := newTestController("")
	c.Initialize()
	_ = c.SelectStat(chart.StatDeces)
	c.ToggleVariations()

	_ = c.SelectStat(chart.StatReanimation)
	if !c.ShowVariations() {
		t.Error("switching stat must not reset the flag")
	}

	err := c.SelectStat("bogus")
	if !errors.Is(err, chart.ErrUnknownStat) {
		t.Errorf("expected ErrUnknownStat, got %v", err)
	}
	if c.SelectedStat() != chart.StatReanimation {
		t.Errorf("selection changed after rejected id: %s", c.SelectedStat())
	}
}

func TestDecesScenarioOptions(t *testing.T) {
	c, _, _ := newTestController("")
	c.Initialize()
	_ = c.SelectStat(chart.StatDeces)

	want := chart.Options{Label: "Décès à l’hôpital", MetricName: "deces", Color: "red"}
	if c.Renderer() != chart.RendererCumulative {
		t.Errorf("expected cumulative renderer, got %v", c.Renderer())
	}
	if c.ChartOptions() != want {
		t.Errorf("options = %+v, want %+v", c.ChartOptions(), want)
	}
}

func TestReportFlowAndHistoryFilter(t *testing.T) {
	c, _, _ := newTestController("")
	req := c.Initialize()

	r := report("2020-04-02", "2020-04-01", "2020-04-02", "2020-04-03")
	next, applied := c.ApplyReport(FetchResult{Kind: FetchCurrent, Seq: req.Seq, Report: r})
	if !applied || next == nil {
		t.Fatalf("report should apply and chain a previous fetch")
	}
	if next.Kind != FetchPrevious || next.Report != r {
		t.Errorf("unexpected previous request %+v", next)
	}

	hist := c.VisibleHistory()
	if len(hist) != 2 || hist[0].DateString() != "2020-04-01" || hist[1].DateString() != "2020-04-02" {
		t.Errorf("expected [d1 d2], got %v", hist)
	}
	if !c.ShowsChart() {
		t.Error("chart should show once a report with history is loaded")
	}

	prev := report("2020-04-01")
	if !c.ApplyPreviousReport(FetchResult{Kind: FetchPrevious, Seq: next.Seq, Report: prev}) {
		t.Fatal("previous report should apply")
	}
	if c.Previous() != prev {
		t.Error("previous report not stored")
	}
}

func TestStaleResponsesAreDiscarded(t *testing.T) {
	c, _, _ := newTestController("")
	first := c.Initialize()
	second := c.SetDate(mustDay("2020-04-03"))

	newer := report("2020-04-03", "2020-04-03")
	if _, applied := c.ApplyReport(FetchResult{Kind: FetchCurrent, Seq: second.Seq, Report: newer}); !applied {
		t.Fatal("latest response must apply")
	}

	older := report("2020-04-02", "2020-04-02")
	if _, applied := c.ApplyReport(FetchResult{Kind: FetchCurrent, Seq: first.Seq, Report: older}); applied {
		t.Error("stale response must be discarded")
	}
	if c.Current() != newer {
		t.Error("stale response overwrote newer state")
	}
}

func TestStalePreviousDiscarded(t *testing.T) {
	c, _, _ := newTestController("")
	req := c.Initialize()
	p1, _ := c.ApplyReport(FetchResult{Kind: FetchCurrent, Seq: req.Seq, Report: report("2020-04-02")})

	req2 := c.SetLocation("DEP-75")
	p2, _ := c.ApplyReport(FetchResult{Kind: FetchCurrent, Seq: req2.Seq, Report: report("2020-04-02")})

	if c.ApplyPreviousReport(FetchResult{Kind: FetchPrevious, Seq: p1.Seq, Report: report("2020-03-01")}) {
		t.Error("previous answer for a superseded report must be dropped")
	}
	if !c.ApplyPreviousReport(FetchResult{Kind: FetchPrevious, Seq: p2.Seq, Report: report("2020-04-01")}) {
		t.Error("latest previous answer must apply")
	}
}

func TestFetchErrors(t *testing.T) {
	c, _, _ := newTestController("")
	req := c.Initialize()
	good := report("2020-04-02", "2020-04-02")
	c.ApplyReport(FetchResult{Kind: FetchCurrent, Seq: req.Seq, Report: good})

	req = c.SetDate(mustDay("2020-04-05"))
	boom := errors.New("boom")
	c.ApplyReport(FetchResult{Kind: FetchCurrent, Seq: req.Seq, Err: boom})

	if !errors.Is(c.Err(), boom) {
		t.Errorf("expected wrapped fetch error, got %v", c.Err())
	}
	if c.Current() != good {
		t.Error("last good report should be kept on failure")
	}
	if c.State().Loading {
		t.Error("loading should clear once the answer arrives")
	}

	req = c.SetDate(mustDay("2020-04-02"))
	next, _ := c.ApplyReport(FetchResult{Kind: FetchCurrent, Seq: req.Seq, Report: good})
	if c.Err() != nil {
		t.Errorf("success should clear the error, got %v", c.Err())
	}

	c.ApplyPreviousReport(FetchResult{Kind: FetchPrevious, Seq: next.Seq, Err: data.ErrNoReport})
	if c.Err() != nil || c.Previous() != nil {
		t.Error("a missing previous report is not an error")
	}
}

func TestSetLocationNormalizesNational(t *testing.T) {
	c, _, app := newTestController("")
	c.SetLocation("DEP-75")
	if app.Location != "DEP-75" {
		t.Fatalf("location not stored: %q", app.Location)
	}
	req := c.SetLocation(data.NationalCode)
	if app.Location != "" || req.Location != "" {
		t.Errorf("nationwide should be stored as empty, got %q", app.Location)
	}
}

func TestUnregisteredSharedSelection(t *testing.T) {
	c, sel, _ := newTestController("")
	sel.SetSelectedStat("bogus")
	if c.SelectedStat() != "" || c.Renderer() != chart.RendererNone || c.IsToggleable() {
		t.Error("an unregistered shared selection renders nothing")
	}
}
