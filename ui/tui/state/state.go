package state

import (
	"time"

	"covidboard/internal/chart"
	"covidboard/internal/output"
	"covidboard/internal/view"
)

// AppState holds everything the views need to draw one frame.
type AppState struct {
	View       view.ViewState
	Summary    output.Summary
	Stats      []chart.StatDescriptor
	LastUpdate time.Time
}

// LocationName returns the display name of the shown location.
func (s AppState) LocationName() string {
	return s.Summary.Title
}

// Nationwide reports whether the nationwide figures are shown.
func (s AppState) Nationwide() bool {
	return s.View.Location == ""
}
