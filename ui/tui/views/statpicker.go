package views

import (
	"fmt"
	"math"

	"covidboard/ui/tui/state"
	"covidboard/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

// PickerWidth is the width of one picker entry.
const PickerWidth = 30

// StatPickerView lists the selectable statistics by group. The entry under
// the animated cursor pops out.
type StatPickerView struct{}

func (v StatPickerView) Render(s state.AppState, props ViewProps) string {
	width := PickerWidth
	if s.View.IsMobileDevice {
		width = props.Width - 4
		if width < 20 {
			width = 20
		}
	}

	var rows []string
	group := ""
	for i, d := range s.Stats {
		if d.Group != group {
			group = d.Group
			rows = append(rows, styles.SectionStyle.PaddingLeft(2).Render(group))
		}

		// Animation Logic
		dist := math.Abs(float64(i) - props.AnimCursor)
		selectionStrength := 0.0
		if dist < 1.0 {
			selectionStrength = 1.0 - dist
		}

		borderColor := styles.BaseColor
		if selectionStrength > 0.1 || i == props.PickerCursor {
			borderColor = styles.BrandColor
		}

		popOut := int(selectionStrength * 2)
		if s.View.IsMobileDevice {
			popOut = 0
		}

		boxStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1).
			MarginLeft(2 + popOut).
			Width(width)

		if i == props.PickerCursor {
			boxStyle = boxStyle.Bold(true).Foreground(lipgloss.Color("#FFF"))
		} else {
			boxStyle = boxStyle.Foreground(lipgloss.Color("#AAA"))
		}

		marker := "○"
		if d.ID == s.View.SelectedStat {
			marker = lipgloss.NewStyle().Foreground(styles.Color(d.Options().Color)).Render("●")
		}

		text := fmt.Sprintf("%s %s", marker, d.Name)
		rows = append(rows, zone.Mark(PickZone(i), boxStyle.Render(text)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
