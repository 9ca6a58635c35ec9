// Package data holds the COVID-19 report model and the sources that produce it.
package data

import (
	"errors"
	"time"
)

// DateLayout is the wire and display format of report dates.
const DateLayout = "2006-01-02"

// NationalCode is the location code of the nationwide aggregate.
const (
	NationalCode = "FRA"
	NationalName = "France"
)

// Metric names, as used by chart options and counters.
const (
	MetricCasConfirmes      = "casConfirmes"
	MetricHospitalises      = "hospitalises"
	MetricReanimation       = "reanimation"
	MetricDeces             = "deces"
	MetricGueris            = "gueris"
	MetricCasEhpad          = "casEhpad"
	MetricCasConfirmesEhpad = "casConfirmesEhpad"
	MetricDecesEhpad        = "decesEhpad"
)

var (
	// ErrNoReport is returned when no snapshot exists for a date/location.
	ErrNoReport = errors.New("no report for date and location")
	// ErrBadStatus is returned when the remote dataset answers with a non-2xx status.
	ErrBadStatus = errors.New("unexpected http status")
)

// Snapshot is the set of figures published for one location on one day.
type Snapshot struct {
	Date    time.Time          `json:"date"`
	Code    string             `json:"code"`
	Name    string             `json:"nom"`
	Metrics map[string]float64 `json:"metrics"`
}

// Value returns the figure for metric, if published.
func (s Snapshot) Value(metric string) (float64, bool) {
	v, ok := s.Metrics[metric]
	return v, ok
}

// DateString formats the snapshot date.
func (s Snapshot) DateString() string {
	return s.Date.Format(DateLayout)
}

// Report is the snapshot for the requested date plus the location's full history.
// History is sorted by ascending date and may contain dates after Date.
type Report struct {
	Snapshot
	History []Snapshot `json:"history"`
}

// HistoryUntil returns the history entries dated on or before day.
func (r *Report) HistoryUntil(day time.Time) []Snapshot {
	if r == nil {
		return nil
	}
	day = Day(day)
	out := make([]Snapshot, 0, len(r.History))
	for _, s := range r.History {
		if !s.Date.After(day) {
			out = append(out, s)
		}
	}
	return out
}

// Location identifies a place reports are published for.
type Location struct {
	Code string `json:"code"`
	Name string `json:"nom"`
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// NormalizeLocation maps the empty location to the nationwide code.
func NormalizeLocation(code string) string {
	if code == "" {
		return NationalCode
	}
	return code
}
