package tui

import (
	"context"
	"time"

	"covidboard/internal/chart"
	"covidboard/internal/config"
	"covidboard/internal/data"
	"covidboard/internal/logging"
	"covidboard/internal/output"
	"covidboard/internal/view"
	"covidboard/ui/tui/components"
	"covidboard/ui/tui/state"
	"covidboard/ui/tui/views"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

const (
	defaultFetchTimeout = 30 * time.Second
	chartHeight         = 12
)

// MainModel is the Bubble Tea Model acting as the Controller
type MainModel struct {
	source       data.Source
	config       config.Config
	registry     *chart.Registry
	selection    *view.SharedSelection
	controller   *view.Controller
	charts       components.ChartSet
	state        state.AppState
	spinner      spinner.Model
	keys         keyMap
	help         help.Model
	needsLatest  bool
	pickerCursor int
	animCursor   float64
	velocity     float64 // Physics velocity
	spring       harmonica.Spring
	chartView    string
	mouseX       int
	mouseY       int
	quitting     bool
	width        int
	height       int
}

// Messages
type AnimateMsg time.Time

type ReportLoadedMsg struct {
	Result view.FetchResult
}

type PreviousReportLoadedMsg struct {
	Result view.FetchResult
}

type LatestDateMsg struct {
	Date time.Time
	Err  error
}

func InitialModel(source data.Source, cfg config.Config) MainModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	// Increased frequency (12.0) for faster response and damping (0.9) to prevent overshoot
	spring := harmonica.NewSpring(harmonica.FPS(60), 12.0, 0.9)

	reg := chart.Default()
	start, _ := cfg.StartDate()
	_, canLookup := source.(data.LatestDater)
	needsLatest := start.IsZero() && canLookup
	if start.IsZero() && !canLookup {
		start = data.Day(time.Now())
	}

	app := &view.AppContext{
		Date:     start,
		Location: data.NormalizeLocation(cfg.Location),
	}
	if app.Location == data.NationalCode {
		app.Location = ""
	}

	sel := view.NewSharedSelection("")
	sel.OnChange(func(id chart.StatID) {
		logging.Log.WithField("stat", id).Debug("statistic selected")
	})

	return MainModel{
		source:      source,
		config:      cfg,
		registry:    reg,
		selection:   sel,
		controller:  view.NewController(reg, app, sel),
		charts:      components.NewChartSet(reg),
		spinner:     s,
		keys:        defaultKeys,
		help:        help.New(),
		needsLatest: needsLatest,
		spring:      spring,
		state: state.AppState{
			Stats: reg.Descriptors(),
		},
	}
}

func (m *MainModel) Init() tea.Cmd {
	zone.NewGlobal()

	req := m.controller.Initialize()
	m.refresh()

	load := m.fetchCmd(req)
	if m.needsLatest {
		load = latestDateCmd(m.source.(data.LatestDater), m.fetchTimeout())
	}
	return tea.Batch(
		m.spinner.Tick,
		animateCmd(),
		load,
	)
}

// Commands
func animateCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*16, func(t time.Time) tea.Msg {
		return AnimateMsg(t)
	})
}

func latestDateCmd(src data.LatestDater, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		d, err := src.LatestDate(ctx)
		return LatestDateMsg{Date: d, Err: err}
	}
}

func (m *MainModel) fetchCmd(req view.FetchRequest) tea.Cmd {
	src, timeout := m.source, m.fetchTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		res := view.FetchResult{Kind: req.Kind, Seq: req.Seq}
		if req.Kind == view.FetchPrevious {
			res.Report, res.Err = src.GetPreviousReport(ctx, req.Report)
			return PreviousReportLoadedMsg{Result: res}
		}
		res.Report, res.Err = src.GetReport(ctx, req.Date, req.Location)
		return ReportLoadedMsg{Result: res}
	}
}

func (m *MainModel) fetchTimeout() time.Duration {
	if m.config.HTTPTimeout <= 0 {
		return defaultFetchTimeout
	}
	return m.config.HTTPTimeout * time.Duration(m.config.HTTPRetries+1)
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case AnimateMsg:
		return m.handleAnimateMsg(msg)

	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)

	case LatestDateMsg:
		return m.handleLatestDateMsg(msg)

	case ReportLoadedMsg:
		return m.handleReportLoadedMsg(msg)

	case PreviousReportLoadedMsg:
		if m.controller.ApplyPreviousReport(msg.Result) {
			m.refresh()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	}

	return m, nil
}

func (m *MainModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.pickerCursor < len(m.state.Stats)-1 {
			m.pickerCursor++
		}

	case key.Matches(msg, m.keys.Select):
		m.selectStat(m.state.Stats[m.pickerCursor].ID)

	case key.Matches(msg, m.keys.Toggle):
		if m.controller.ToggleVariations() {
			m.refresh()
		}

	case key.Matches(msg, m.keys.Cumulative):
		m.showCumulative()

	case key.Matches(msg, m.keys.PrevDay):
		return m, m.shiftDate(-1)

	case key.Matches(msg, m.keys.NextDay):
		return m, m.shiftDate(1)

	case key.Matches(msg, m.keys.Back):
		return m, m.backToNation()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m *MainModel) selectStat(id chart.StatID) {
	if err := m.controller.SelectStat(id); err != nil {
		logging.Log.WithError(err).Warn("select statistic")
		return
	}
	m.syncCursor()
	m.refresh()
}

func (m *MainModel) showCumulative() {
	if m.controller.SelectedStat() == chart.StatMixed {
		return
	}
	m.controller.ShowCumulative()
	m.syncCursor()
	m.refresh()
}

func (m *MainModel) shiftDate(days int) tea.Cmd {
	d := m.controller.App().Date
	if d.IsZero() {
		return nil
	}
	req := m.controller.SetDate(d.AddDate(0, 0, days))
	m.refresh()
	return m.fetchCmd(req)
}

func (m *MainModel) backToNation() tea.Cmd {
	if m.controller.App().Location == "" {
		return nil
	}
	req := m.controller.SetLocation("")
	m.refresh()
	return m.fetchCmd(req)
}

// syncCursor moves the picker cursor onto the selected statistic.
func (m *MainModel) syncCursor() {
	id := m.controller.SelectedStat()
	for i, d := range m.state.Stats {
		if d.ID == id {
			m.pickerCursor = i
			return
		}
	}
}

func (m *MainModel) handleAnimateMsg(msg AnimateMsg) (tea.Model, tea.Cmd) {
	var v float64 = m.velocity
	m.animCursor, v = m.spring.Update(m.animCursor, float64(m.pickerCursor), v)
	m.velocity = v
	return m, animateCmd()
}

func (m *MainModel) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.controller.SetMobile(msg.Width < m.config.MobileWidth)
	m.refresh()
	return m, nil
}

func (m *MainModel) handleLatestDateMsg(msg LatestDateMsg) (tea.Model, tea.Cmd) {
	d := msg.Date
	if msg.Err != nil || d.IsZero() {
		logging.Log.WithError(msg.Err).Warn("latest date unavailable, using today")
		d = time.Now()
	}
	req := m.controller.SetDate(d)
	m.refresh()
	return m, m.fetchCmd(req)
}

func (m *MainModel) handleReportLoadedMsg(msg ReportLoadedMsg) (tea.Model, tea.Cmd) {
	next, applied := m.controller.ApplyReport(msg.Result)
	if !applied {
		logging.Log.WithField("seq", msg.Result.Seq).Debug("stale report discarded")
		return m, nil
	}
	if err := m.controller.Err(); err != nil {
		logging.Log.WithError(err).Warn("report fetch failed")
	}
	m.state.LastUpdate = time.Now()
	m.refresh()

	if next == nil {
		return m, nil
	}
	return m, m.fetchCmd(*next)
}

func (m *MainModel) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.mouseX = msg.X
	m.mouseY = msg.Y

	if msg.Action != tea.MouseActionRelease {
		return m, nil
	}

	switch {
	case zone.Get(views.ZoneBack).InBounds(msg):
		return m, m.backToNation()
	case zone.Get(views.ZoneToggle).InBounds(msg):
		if m.controller.ToggleVariations() {
			m.refresh()
		}
		return m, nil
	case zone.Get(views.ZoneShowMixed).InBounds(msg):
		m.showCumulative()
		return m, nil
	}

	for i, d := range m.state.Stats {
		if zone.Get(views.PickZone(i)).InBounds(msg) || zone.Get(views.StatZone(d.ID)).InBounds(msg) {
			m.selectStat(d.ID)
			return m, nil
		}
	}
	return m, nil
}

// refresh snapshots the controller and redraws the chart.
func (m *MainModel) refresh() {
	vs := m.controller.State()
	m.state.View = vs
	m.state.Summary = output.BuildSummary(m.registry, vs.Current, vs.Previous)

	m.chartView = ""
	if !vs.ShowsChart {
		return
	}
	if c := m.charts.For(vs.Renderer); c != nil {
		w, h := m.chartSize()
		m.chartView = c.Render(vs.History, vs.ChartOptions, w, h)
	}
}

func (m *MainModel) chartSize() (int, int) {
	w := m.width - views.PickerWidth - 14
	if m.state.View.IsMobileDevice {
		w = m.width - 6
	}
	h := chartHeight
	if m.height > 0 && m.height/3 > h {
		h = m.height / 3
	}
	return w, h
}

func (m *MainModel) View() string {
	if m.quitting {
		return "Au revoir !\n"
	}

	return views.RenderApp(m.state, views.ViewProps{
		Width:        m.width,
		Height:       m.height,
		MouseX:       m.mouseX,
		MouseY:       m.mouseY,
		PickerCursor: m.pickerCursor,
		AnimCursor:   m.animCursor,
		SpinnerView:  m.spinner.View(),
		ChartView:    m.chartView,
		HelpView:     m.help.View(m.keys),
	})
}

func Start(source data.Source, cfg config.Config) error {
	m := InitialModel(source, cfg)
	p := tea.NewProgram(
		&m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
