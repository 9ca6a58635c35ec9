package console

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"covidboard/internal/engine"
	"covidboard/internal/output"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

const labelWidth = 22

// Print renders the report counters to the writer in a compact format.
func Print(w io.Writer, sum output.Summary) {
	title := "COVID-19 - " + sum.Title
	if sum.Date != "" {
		title += " (" + sum.Date + ")"
	}
	fmt.Fprintf(w, "%s%s %s%s\n", colorCyan, "■", title, colorReset)

	if len(sum.Sections) == 0 {
		fmt.Fprintln(w, "  Aucune donnée pour cette date.")
		return
	}

	for _, sec := range sum.Sections {
		fmt.Fprintf(w, "%s%s%s\n", colorCyan, "─ "+sec.Title, colorReset)

		for _, it := range sec.Items {
			label := it.Label
			if utf8.RuneCountInString(label) > labelWidth-2 {
				label = string([]rune(label)[:labelWidth-5]) + "..."
			}

			delta := ""
			if it.HasDelta {
				delta = fmt.Sprintf(" %s%s %s%s", colorFor(it.Trend, it.GoodWhenUp), arrowFor(it.Trend), output.FormatDelta(it.Delta), colorReset)
			}

			dots := strings.Repeat("·", labelWidth-utf8.RuneCountInString(label))

			// Format: "  Label............... Value ▲ +Delta"
			fmt.Fprintf(w, "  %s%s %12s%s\n", label, colorCyan+dots+colorReset, output.ItemValue(it), delta)
		}
	}
	fmt.Fprintln(w)
}

func colorFor(trend string, goodWhenUp bool) string {
	if goodWhenUp && trend == engine.TrendUp {
		return colorGreen
	}
	if goodWhenUp && trend == engine.TrendDown {
		return colorRed
	}
	switch trend {
	case engine.TrendUp:
		return colorRed
	case engine.TrendDown:
		return colorGreen
	default:
		return colorYellow
	}
}

func arrowFor(trend string) string {
	switch trend {
	case engine.TrendUp:
		return "▲"
	case engine.TrendDown:
		return "▼"
	default:
		return "="
	}
}
