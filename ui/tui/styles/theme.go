package styles

import "github.com/charmbracelet/lipgloss"

var (
	Subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	Highlight = lipgloss.AdaptiveColor{Light: "#c2570c", Dark: "#f27b24"}
	Muted     = lipgloss.Color("#888")

	BrandColor = lipgloss.Color("#f27b24")
	BaseColor  = lipgloss.Color("#444")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(BrandColor).
			Padding(0, 2)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Highlight).
			Padding(0, 1)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(BrandColor)

	ButtonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BaseColor).
			Foreground(lipgloss.Color("#AAA")).
			Padding(0, 1)

	ActiveButtonStyle = ButtonStyle.
				BorderForeground(BrandColor).
				Foreground(lipgloss.Color("#FFF")).
				Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette["red"]).
			Foreground(palette["red"]).
			Padding(0, 1)

	SubtleStyle = lipgloss.NewStyle().Foreground(Muted).Italic(true)

	StatusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFF"))

	// Increases are bad news for every indicator but recoveries,
	// which swap the two.
	DeltaUpStyle   = lipgloss.NewStyle().Foreground(palette["red"])
	DeltaDownStyle = lipgloss.NewStyle().Foreground(palette["green"])
	DeltaFlatStyle = lipgloss.NewStyle().Foreground(Muted)
)

var palette = map[string]lipgloss.Color{
	"orange":      "#f27b24",
	"darkOrange":  "#c2570c",
	"red":         "#e63946",
	"darkRed":     "#9d0208",
	"green":       "#2a9d8f",
	"darkBlue":    "#1d3557",
	"white":       "#ffffff",
	"lightGrey":   "#d3d3d3",
	"lighterGrey": "#eeeeee",
	"darkGrey":    "#8d99ae",
	"darkerGrey":  "#5c677d",
}

// Color maps a palette name to a terminal color. Unknown names fall back to the brand color.
func Color(name string) lipgloss.Color {
	if c, ok := palette[name]; ok {
		return c
	}
	return BrandColor
}
