package views

import (
	"errors"

	"covidboard/internal/chart"
	"covidboard/internal/data"
	"covidboard/ui/tui/state"
	"covidboard/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

// Toggle labels name the action, not the current mode.
const (
	ToggleToCumulative = "Afficher les valeurs cumulées"
	ToggleToVariations = "Afficher les variations quotidiennes"
	ShowMixedLabel     = "Afficher le cumul"
	BackLabel          = "◂ " + data.NationalName
)

// BigPictureView is the statistics panel: header, counters, chart and its controls.
type BigPictureView struct{}

func (v BigPictureView) Render(s state.AppState, props ViewProps) string {
	vs := s.View
	parts := []string{v.header(s, props)}

	if vs.Err != nil {
		parts = append(parts, errorPanel(vs.Err))
	}

	if vs.Loading && vs.Current == nil && vs.Err == nil {
		parts = append(parts, props.SpinnerView+" Chargement des données…")
	}

	if counters := (CountersView{}).Render(s, props); counters != "" {
		parts = append(parts, counters)
	}

	// The controls act on the chart, so they only exist alongside it.
	if vs.ShowsChart {
		var controls []string
		if vs.IsToggleable {
			label := ToggleToVariations
			if vs.ShowVariations {
				label = ToggleToCumulative
			}
			controls = append(controls, zone.Mark(ZoneToggle, styles.ButtonStyle.Render(label)))
		}
		if vs.SelectedStat != chart.StatMixed {
			controls = append(controls, zone.Mark(ZoneShowMixed, styles.ActiveButtonStyle.Render(ShowMixedLabel)))
		}
		if len(controls) > 0 {
			parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top, controls...))
		}
	}

	if vs.ShowsChart && props.ChartView != "" {
		parts = append(parts, styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.SectionStyle.Render(chartTitle(vs.Renderer, vs.ChartOptions)),
			props.ChartView,
		)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (v BigPictureView) header(s state.AppState, props ViewProps) string {
	title := "COVID-19 - " + s.LocationName()
	if !s.View.Date.IsZero() {
		title += "  " + s.View.Date.Format("02/01/2006")
	}

	width := props.Width
	if !s.View.IsMobileDevice {
		width -= PickerWidth + 6
	}
	if width < lipgloss.Width(title)+4 {
		width = lipgloss.Width(title) + 4
	}

	header := styles.TitleStyle.Width(width).Render(title)
	if s.View.Loading && s.View.Current != nil {
		header = lipgloss.JoinHorizontal(lipgloss.Center, header, " ", props.SpinnerView)
	}

	if s.Nationwide() || s.View.IsMobileDevice {
		return header
	}
	back := zone.Mark(ZoneBack, styles.ButtonStyle.Render(BackLabel))
	return lipgloss.JoinVertical(lipgloss.Left, header, back)
}

func chartTitle(r chart.Renderer, opts chart.Options) string {
	switch r {
	case chart.RendererMixed:
		return "Vue d’ensemble"
	case chart.RendererVariation:
		return opts.Label + " · variations quotidiennes"
	default:
		return opts.Label + " · valeurs cumulées"
	}
}

func errorPanel(err error) string {
	msg := "Impossible de charger les données : " + err.Error()
	if errors.Is(err, data.ErrNoReport) {
		msg = "Aucune donnée publiée pour cette date."
	}
	return styles.ErrorStyle.Render(msg)
}
