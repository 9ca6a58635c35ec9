package data

import (
	"context"
	"errors"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func testRecords() []Snapshot {
	return []Snapshot{
		{Date: day("2020-04-03"), Code: "FRA", Name: "France", Metrics: map[string]float64{MetricDeces: 30}},
		{Date: day("2020-04-01"), Code: "FRA", Name: "France", Metrics: map[string]float64{MetricDeces: 10, MetricHospitalises: 100}},
		{Date: day("2020-04-02"), Code: "FRA", Name: "France", Metrics: map[string]float64{MetricDeces: 20}},
		// second source for the same day fills the gap only
		{Date: day("2020-04-02"), Code: "FRA", Name: "France", Metrics: map[string]float64{MetricDeces: 99, MetricHospitalises: 150}},
		{Date: day("2020-04-02"), Code: "DEP-75", Name: "Paris", Metrics: map[string]float64{MetricDeces: 5}},
	}
}

func TestDatasetMergesAndSorts(t *testing.T) {
	ds := NewDataset(testRecords())

	if ds.Len() != 4 {
		t.Fatalf("expected 4 distinct snapshots, got %d", ds.Len())
	}
	if !ds.LatestDate().Equal(day("2020-04-03")) {
		t.Errorf("latest date = %v", ds.LatestDate())
	}

	r, err := ds.Report(day("2020-04-02"), "")
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if r.Code != NationalCode {
		t.Errorf("expected nationwide report, got %s", r.Code)
	}
	if v, _ := r.Value(MetricDeces); v != 20 {
		t.Errorf("first published deces should win, got %v", v)
	}
	if v, ok := r.Value(MetricHospitalises); !ok || v != 150 {
		t.Errorf("missing metric should be filled from second source, got %v %v", v, ok)
	}

	if len(r.History) != 3 {
		t.Fatalf("expected full history of 3, got %d", len(r.History))
	}
	for i := 1; i < len(r.History); i++ {
		if !r.History[i-1].Date.Before(r.History[i].Date) {
			t.Errorf("history not sorted at %d", i)
		}
	}
}

func TestDatasetReportMissing(t *testing.T) {
	ds := NewDataset(testRecords())
	_, err := ds.Report(day("2021-01-01"), "DEP-75")
	if !errors.Is(err, ErrNoReport) {
		t.Errorf("expected ErrNoReport, got %v", err)
	}
}

func TestDatasetPrevious(t *testing.T) {
	ds := NewDataset(testRecords())

	r, _ := ds.Report(day("2020-04-03"), "FRA")
	prev, err := ds.Previous(r)
	if err != nil {
		t.Fatalf("Previous: %v", err)
	}
	if prev.DateString() != "2020-04-02" {
		t.Errorf("expected previous 2020-04-02, got %s", prev.DateString())
	}

	first, _ := ds.Report(day("2020-04-01"), "FRA")
	if _, err := ds.Previous(first); !errors.Is(err, ErrNoReport) {
		t.Errorf("expected ErrNoReport before first date, got %v", err)
	}
}

func TestDatasetLocations(t *testing.T) {
	locs := NewDataset(testRecords()).Locations()
	if len(locs) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(locs))
	}
	if locs[0].Code != NationalCode {
		t.Errorf("nationwide should be listed first, got %s", locs[0].Code)
	}
	if locs[1].Name != "Paris" {
		t.Errorf("expected Paris, got %q", locs[1].Name)
	}
}

func TestDatasetLocationNameFromMergedRow(t *testing.T) {
	ds := NewDataset([]Snapshot{
		{Date: day("2020-04-02"), Code: "DEP-13", Metrics: map[string]float64{MetricDeces: 5}},
		{Date: day("2020-04-02"), Code: "DEP-13", Name: "Bouches-du-Rhône", Metrics: map[string]float64{MetricGueris: 2}},
	})

	locs := ds.Locations()
	if len(locs) != 1 || locs[0].Name != "Bouches-du-Rhône" {
		t.Fatalf("expected the merged name, got %+v", locs)
	}
	if h := ds.History("DEP-13"); h[0].Name != "Bouches-du-Rhône" {
		t.Errorf("snapshot name not backfilled: %q", h[0].Name)
	}
}

func TestHistoryUntil(t *testing.T) {
	r, _ := NewDataset(testRecords()).Report(day("2020-04-02"), "FRA")
	got := r.HistoryUntil(day("2020-04-02"))
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[1].DateString() != "2020-04-02" {
		t.Errorf("unexpected last entry %s", got[1].DateString())
	}

	var nilReport *Report
	if nilReport.HistoryUntil(day("2020-04-02")) != nil {
		t.Error("nil report should yield nil history")
	}
}

func TestMemorySourceHonoursContext(t *testing.T) {
	src := NewMemorySource(testRecords())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.GetReport(ctx, day("2020-04-02"), ""); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMemorySourceLatestDate(t *testing.T) {
	src := NewMemorySource(testRecords())
	latest, err := src.LatestDate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !latest.Equal(src.Dataset.LatestDate()) {
		t.Errorf("LatestDate = %v", latest)
	}

	empty := NewMemorySource(nil)
	if _, err := empty.LatestDate(context.Background()); !errors.Is(err, ErrNoReport) {
		t.Errorf("expected ErrNoReport, got %v", err)
	}
}
