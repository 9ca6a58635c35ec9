package output

import (
	"math"

	"github.com/dustin/go-humanize"
)

// frenchGrouping puts a space between thousands and shows no decimals.
const frenchGrouping = "# ###,"

// FormatCount renders a figure the French way, grouping thousands with spaces.
func FormatCount(v float64) string {
	return humanize.FormatInteger(frenchGrouping, int(math.Round(v)))
}

// FormatDelta renders a signed change; zero has no sign.
func FormatDelta(d float64) string {
	if math.Round(d) > 0 {
		return "+" + FormatCount(d)
	}
	return FormatCount(d)
}

// ItemValue renders an item's value, or "-" when the metric is not published.
func ItemValue(it Item) string {
	if !it.HasValue {
		return "-"
	}
	return FormatCount(it.Value)
}
