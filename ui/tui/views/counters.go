package views

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"covidboard/internal/engine"
	"covidboard/internal/output"
	"covidboard/ui/tui/state"
	"covidboard/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

type CountersView struct{}

func (v CountersView) Render(s state.AppState, props ViewProps) string {
	if s.View.Current == nil {
		return ""
	}

	labelWidth := 0
	for _, sec := range s.Summary.Sections {
		for _, it := range sec.Items {
			if n := utf8.RuneCountInString(it.Label); n > labelWidth {
				labelWidth = n
			}
		}
	}

	var cards []string
	for _, sec := range s.Summary.Sections {
		lines := []string{styles.SectionStyle.Render(sec.Title)}
		for _, it := range sec.Items {
			line := counterLine(it, labelWidth, it.Stat == s.View.SelectedStat)
			lines = append(lines, zone.Mark(StatZone(it.Stat), line))
		}
		cards = append(cards, styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	}

	if len(cards) == 0 {
		return ""
	}
	if s.View.IsMobileDevice || props.Width < 2*lipgloss.Width(cards[0]) {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func counterLine(it output.Item, labelWidth int, selected bool) string {
	marker := "  "
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("#AAA"))
	if selected {
		marker = lipgloss.NewStyle().Foreground(styles.Color(it.Color)).Render("● ")
		label = label.Foreground(lipgloss.Color("#FFF")).Bold(true)
	}

	pad := strings.Repeat(" ", labelWidth-utf8.RuneCountInString(it.Label))
	value := styles.StatusStyle.Foreground(styles.Color(it.Color)).Render(fmt.Sprintf("%10s", output.ItemValue(it)))

	delta := ""
	if it.HasDelta {
		delta = " " + DeltaStyle(it.Trend, it.GoodWhenUp).Render(arrow(it.Trend)+" "+output.FormatDelta(it.Delta))
	}
	return marker + label.Render(it.Label) + pad + " " + value + delta
}

// DeltaStyle colors a change by its direction. Rises are red unless
// goodWhenUp is set.
func DeltaStyle(trend string, goodWhenUp bool) lipgloss.Style {
	if goodWhenUp {
		switch trend {
		case engine.TrendUp:
			return styles.DeltaDownStyle
		case engine.TrendDown:
			return styles.DeltaUpStyle
		}
	}
	switch trend {
	case engine.TrendUp:
		return styles.DeltaUpStyle
	case engine.TrendDown:
		return styles.DeltaDownStyle
	}
	return styles.DeltaFlatStyle
}

func arrow(trend string) string {
	switch trend {
	case engine.TrendUp:
		return "▲"
	case engine.TrendDown:
		return "▼"
	}
	return "="
}
