// Package view holds the state machine behind the big-picture statistics panel.
package view

import (
	"time"

	"covidboard/internal/chart"
)

// AppContext is the app-wide selection shared by every panel.
type AppContext struct {
	Date           time.Time
	Location       string // empty means nationwide
	IsMobileDevice bool
}

// StatSelection is the stat choice shared with sibling widgets such as the picker.
type StatSelection interface {
	SelectedStat() chart.StatID
	SetSelectedStat(chart.StatID)
}

// SharedSelection is a plain StatSelection. It is only touched from the UI loop.
type SharedSelection struct {
	selected  chart.StatID
	listeners []func(chart.StatID)
}

// NewSharedSelection returns a selection preset to initial.
func NewSharedSelection(initial chart.StatID) *SharedSelection {
	return &SharedSelection{selected: initial}
}

func (s *SharedSelection) SelectedStat() chart.StatID {
	return s.selected
}

func (s *SharedSelection) SetSelectedStat(id chart.StatID) {
	s.selected = id
	for _, fn := range s.listeners {
		fn(id)
	}
}

// OnChange registers fn to run after every SetSelectedStat.
func (s *SharedSelection) OnChange(fn func(chart.StatID)) {
	s.listeners = append(s.listeners, fn)
}
