package view

import (
	"errors"
	"fmt"
	"time"

	"covidboard/internal/chart"
	"covidboard/internal/data"
)

// FetchKind distinguishes the two reports the view loads.
type FetchKind int

const (
	FetchCurrent FetchKind = iota
	FetchPrevious
)

// FetchRequest asks the caller to load a report. Seq tags the answer.
type FetchRequest struct {
	Kind     FetchKind
	Seq      uint64
	Date     time.Time
	Location string
	Report   *data.Report // base report for FetchPrevious
}

// FetchResult is the answer to a FetchRequest.
type FetchResult struct {
	Kind   FetchKind
	Seq    uint64
	Report *data.Report
	Err    error
}

// ViewState is a read-only snapshot of the controller for rendering.
type ViewState struct {
	SelectedStat   chart.StatID
	ShowVariations bool
	Current        *data.Report
	Previous       *data.Report
	Err            error
	Loading        bool

	Date           time.Time
	Location       string
	IsMobileDevice bool

	IsToggleable bool
	ChartOptions chart.Options
	Renderer     chart.Renderer
	ShowsChart   bool
	History      []data.Snapshot
}

// Controller drives which report, statistic and chart mode the view shows.
// It is not safe for concurrent use; call it from the UI loop only.
type Controller struct {
	registry  *chart.Registry
	app       *AppContext
	selection StatSelection

	showVariations bool
	current        *data.Report
	previous       *data.Report
	err            error

	currentSeq  uint64
	previousSeq uint64
	pending     bool
	mounted     bool
}

// NewController wires a controller to its shared contexts.
func NewController(reg *chart.Registry, app *AppContext, sel StatSelection) *Controller {
	if reg == nil {
		reg = chart.Default()
	}
	if app == nil {
		app = &AppContext{}
	}
	if sel == nil {
		sel = NewSharedSelection("")
	}
	return &Controller{registry: reg, app: app, selection: sel}
}

// Initialize mounts the view: the selection is reset to the default stat, once
// per controller, and the first report fetch is returned.
func (c *Controller) Initialize() FetchRequest {
	if !c.mounted {
		c.mounted = true
		c.selection.SetSelectedStat(chart.DefaultStat)
	}
	return c.nextCurrent()
}

// Mounted reports whether Initialize ran.
func (c *Controller) Mounted() bool {
	return c.mounted
}

// SetDate changes the selected date and returns the fetch for it.
func (c *Controller) SetDate(d time.Time) FetchRequest {
	c.app.Date = data.Day(d)
	return c.nextCurrent()
}

// SetLocation changes the selected location and returns the fetch for it.
func (c *Controller) SetLocation(code string) FetchRequest {
	if code == data.NationalCode {
		code = ""
	}
	c.app.Location = code
	return c.nextCurrent()
}

// SetMobile updates the layout hint.
func (c *Controller) SetMobile(mobile bool) {
	c.app.IsMobileDevice = mobile
}

func (c *Controller) nextCurrent() FetchRequest {
	c.currentSeq++
	c.pending = true
	return FetchRequest{
		Kind:     FetchCurrent,
		Seq:      c.currentSeq,
		Date:     c.app.Date,
		Location: c.app.Location,
	}
}

// ApplyReport stores a current-report answer. Answers to superseded requests
// are dropped and applied is false. A successful answer returns the fetch
// for its previous report.
func (c *Controller) ApplyReport(res FetchResult) (next *FetchRequest, applied bool) {
	if res.Kind != FetchCurrent || res.Seq != c.currentSeq {
		return nil, false
	}
	c.pending = false

	if res.Err != nil {
		c.err = fmt.Errorf("load report: %w", res.Err)
		return nil, true
	}
	if res.Report == nil {
		c.err = fmt.Errorf("load report: %w", data.ErrNoReport)
		return nil, true
	}

	c.err = nil
	c.current = res.Report
	c.previousSeq++
	return &FetchRequest{
		Kind:     FetchPrevious,
		Seq:      c.previousSeq,
		Date:     res.Report.Date,
		Location: res.Report.Code,
		Report:   res.Report,
	}, true
}

// ApplyPreviousReport stores a previous-report answer, with the same
// sequencing rule as ApplyReport. A missing previous report is not an error.
func (c *Controller) ApplyPreviousReport(res FetchResult) bool {
	if res.Kind != FetchPrevious || res.Seq != c.previousSeq {
		return false
	}
	switch {
	case errors.Is(res.Err, data.ErrNoReport):
		c.previous = nil
	case res.Err != nil:
		c.err = fmt.Errorf("load previous report: %w", res.Err)
	default:
		c.previous = res.Report
	}
	return true
}

// SelectStat changes the selected statistic. The variations flag is kept.
func (c *Controller) SelectStat(id chart.StatID) error {
	if !c.registry.Has(id) {
		return fmt.Errorf("select %q: %w", id, chart.ErrUnknownStat)
	}
	c.selection.SetSelectedStat(id)
	return nil
}

// ToggleVariations flips between cumulative and daily variation views.
// It does nothing and returns false when the statistic is not toggleable.
func (c *Controller) ToggleVariations() bool {
	if !c.IsToggleable() {
		return false
	}
	c.showVariations = !c.showVariations
	return true
}

// ShowCumulative returns to the mixed chart. The variations flag is kept.
func (c *Controller) ShowCumulative() {
	c.selection.SetSelectedStat(chart.StatMixed)
}

// SelectedStat returns the shared selection, or "" when it is not registered.
func (c *Controller) SelectedStat() chart.StatID {
	id := c.selection.SelectedStat()
	if id != "" && !c.registry.Has(id) {
		return ""
	}
	return id
}

// ShowVariations reports the variations flag.
func (c *Controller) ShowVariations() bool {
	return c.showVariations
}

// IsToggleable reports whether the selected stat is an indicator.
func (c *Controller) IsToggleable() bool {
	id := c.SelectedStat()
	if id == "" {
		return false
	}
	return c.registry.MustLookup(id).IsIndicator()
}

// ChartOptions returns the selected indicator's options, or the zero value.
func (c *Controller) ChartOptions() chart.Options {
	id := c.SelectedStat()
	if id == "" {
		return chart.Options{}
	}
	return c.registry.MustLookup(id).Options()
}

// Renderer resolves the chart for the current selection and flag.
func (c *Controller) Renderer() chart.Renderer {
	return c.registry.Resolve(c.SelectedStat(), c.showVariations)
}

// VisibleHistory returns the current report's history up to the selected date.
func (c *Controller) VisibleHistory() []data.Snapshot {
	if c.current == nil {
		return nil
	}
	return c.current.HistoryUntil(c.app.Date)
}

// ShowsChart reports whether the chart area should be drawn.
func (c *Controller) ShowsChart() bool {
	return c.current != nil && len(c.current.History) > 0 && c.SelectedStat() != ""
}

// Current returns the current report, if loaded.
func (c *Controller) Current() *data.Report { return c.current }

// Previous returns the previous report, if loaded.
func (c *Controller) Previous() *data.Report { return c.previous }

// Err returns the last fetch error.
func (c *Controller) Err() error { return c.err }

// App returns the shared app context.
func (c *Controller) App() AppContext { return *c.app }

// Registry returns the registry the controller resolves against.
func (c *Controller) Registry() *chart.Registry { return c.registry }

// State snapshots every value the composer needs.
func (c *Controller) State() ViewState {
	return ViewState{
		SelectedStat:   c.SelectedStat(),
		ShowVariations: c.showVariations,
		Current:        c.current,
		Previous:       c.previous,
		Err:            c.err,
		Loading:        c.pending,
		Date:           c.app.Date,
		Location:       c.app.Location,
		IsMobileDevice: c.app.IsMobileDevice,
		IsToggleable:   c.IsToggleable(),
		ChartOptions:   c.ChartOptions(),
		Renderer:       c.Renderer(),
		ShowsChart:     c.ShowsChart(),
		History:        c.VisibleHistory(),
	}
}
