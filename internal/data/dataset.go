package data

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Source produces reports for the statistics view.
type Source interface {
	// GetReport returns the report for date at location ("" means nationwide).
	GetReport(ctx context.Context, date time.Time, location string) (*Report, error)
	// GetPreviousReport returns the comparison point published before r.
	GetPreviousReport(ctx context.Context, r *Report) (*Report, error)
}

// LatestDater is implemented by sources that know their most recent date.
type LatestDater interface {
	LatestDate(ctx context.Context) (time.Time, error)
}

// Dataset indexes snapshots by location, each series sorted by date.
type Dataset struct {
	byCode map[string][]Snapshot
	names  map[string]string
	latest time.Time
}

// NewDataset builds an index from records. Records sharing a (date, code)
// pair are merged, the first published value of each metric wins.
func NewDataset(records []Snapshot) *Dataset {
	d := &Dataset{
		byCode: make(map[string][]Snapshot),
		names:  make(map[string]string),
	}

	type key struct {
		code string
		date time.Time
	}
	merged := make(map[key]int)

	for _, rec := range records {
		rec.Date = Day(rec.Date)
		k := key{rec.Code, rec.Date}
		if idx, ok := merged[k]; ok {
			existing := d.byCode[rec.Code][idx]
			for m, v := range rec.Metrics {
				if _, has := existing.Metrics[m]; !has {
					existing.Metrics[m] = v
				}
			}
			if existing.Name == "" && rec.Name != "" {
				existing.Name = rec.Name
				d.byCode[rec.Code][idx] = existing
				if d.names[rec.Code] == "" {
					d.names[rec.Code] = rec.Name
				}
			}
			continue
		}

		metrics := make(map[string]float64, len(rec.Metrics))
		for m, v := range rec.Metrics {
			metrics[m] = v
		}
		rec.Metrics = metrics

		merged[k] = len(d.byCode[rec.Code])
		d.byCode[rec.Code] = append(d.byCode[rec.Code], rec)
		if rec.Name != "" {
			d.names[rec.Code] = rec.Name
		}
		if rec.Date.After(d.latest) {
			d.latest = rec.Date
		}
	}

	for code := range d.byCode {
		series := d.byCode[code]
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].Date.Before(series[j].Date)
		})
	}
	return d
}

// Len returns the number of distinct snapshots.
func (d *Dataset) Len() int {
	n := 0
	for _, s := range d.byCode {
		n += len(s)
	}
	return n
}

// LatestDate returns the most recent date present in the dataset.
func (d *Dataset) LatestDate() time.Time {
	return d.latest
}

// Locations lists the known locations, nationwide first then by code.
func (d *Dataset) Locations() []Location {
	out := make([]Location, 0, len(d.byCode))
	for code := range d.byCode {
		out = append(out, Location{Code: code, Name: d.names[code]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code == NationalCode {
			return true
		}
		if out[j].Code == NationalCode {
			return false
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// History returns a copy of every snapshot of location, oldest first.
func (d *Dataset) History(location string) []Snapshot {
	series := d.byCode[NormalizeLocation(location)]
	out := make([]Snapshot, len(series))
	copy(out, series)
	return out
}

// Report returns the snapshot for date at location with the location's full history.
func (d *Dataset) Report(date time.Time, location string) (*Report, error) {
	code := NormalizeLocation(location)
	day := Day(date)
	series := d.byCode[code]
	for _, s := range series {
		if s.Date.Equal(day) {
			return newReport(s, series), nil
		}
	}
	return nil, fmt.Errorf("%s %s: %w", code, day.Format(DateLayout), ErrNoReport)
}

// Previous returns the latest snapshot strictly before r's date at the same location.
func (d *Dataset) Previous(r *Report) (*Report, error) {
	if r == nil {
		return nil, fmt.Errorf("previous of nil report: %w", ErrNoReport)
	}
	series := d.byCode[r.Code]
	for i := len(series) - 1; i >= 0; i-- {
		if series[i].Date.Before(r.Date) {
			return newReport(series[i], series), nil
		}
	}
	return nil, fmt.Errorf("%s before %s: %w", r.Code, r.DateString(), ErrNoReport)
}

func newReport(s Snapshot, series []Snapshot) *Report {
	history := make([]Snapshot, len(series))
	copy(history, series)
	return &Report{Snapshot: s, History: history}
}

// MemorySource serves reports from an in-memory Dataset.
type MemorySource struct {
	Dataset *Dataset
}

// NewMemorySource indexes records into a MemorySource.
func NewMemorySource(records []Snapshot) *MemorySource {
	return &MemorySource{Dataset: NewDataset(records)}
}

func (m *MemorySource) GetReport(ctx context.Context, date time.Time, location string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.Dataset.Report(date, location)
}

func (m *MemorySource) GetPreviousReport(ctx context.Context, r *Report) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.Dataset.Previous(r)
}

func (m *MemorySource) LatestDate(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	if m.Dataset.Len() == 0 {
		return time.Time{}, fmt.Errorf("empty dataset: %w", ErrNoReport)
	}
	return m.Dataset.LatestDate(), nil
}
