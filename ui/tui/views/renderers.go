package views

import (
	"covidboard/ui/tui/state"
	"covidboard/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

// RenderApp lays out the statistics panel and the picker: side by side on
// wide terminals, stacked on mobile. Zones are scanned once here.
func RenderApp(s state.AppState, props ViewProps) string {
	panel := BigPictureView{}.Render(s, props)
	picker := StatPickerView{}.Render(s, props)

	var body string
	if s.View.IsMobileDevice {
		body = lipgloss.JoinVertical(lipgloss.Left, panel, "", picker)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().MarginRight(2).Render(panel),
			picker,
		)
	}

	footer := props.HelpView
	if !s.LastUpdate.IsZero() {
		footer = lipgloss.JoinVertical(lipgloss.Left,
			styles.SubtleStyle.Render("Mis à jour "+s.LastUpdate.Format("15:04:05")),
			footer,
		)
	}

	margin := 1
	if s.View.IsMobileDevice {
		margin = 0
	}
	return zone.Scan(lipgloss.NewStyle().Margin(0, margin).Render(
		lipgloss.JoinVertical(lipgloss.Left, body, footer),
	))
}
