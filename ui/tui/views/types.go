package views

import (
	"fmt"

	"covidboard/internal/chart"
	"covidboard/ui/tui/state"
)

// ViewProps contains UI-specific properties provided by the Controller.
type ViewProps struct {
	Width, Height  int
	MouseX, MouseY int

	// Component States
	PickerCursor int
	AnimCursor   float64
	SpinnerView  string
	ChartView    string
	HelpView     string
}

// View defines the contract for any renderable panel in the TUI.
type View interface {
	Render(s state.AppState, props ViewProps) string
}

// Clickable zones.
const (
	ZoneBack      = "back"
	ZoneToggle    = "toggle"
	ZoneShowMixed = "show_mixed"
)

// StatZone is the zone of the counter for id.
func StatZone(id chart.StatID) string {
	return "stat_" + string(id)
}

// PickZone is the zone of the i-th picker entry.
func PickZone(i int) string {
	return fmt.Sprintf("pick_%d", i)
}
