package output

import (
	"context"
	"errors"
	"fmt"
	"time"

	"covidboard/internal/data"
)

// PipelinePayload represents the final data object ready for persistence.
// The sync worker pulls this from the Output layer to push to DuckDB.
type PipelinePayload struct {
	Records    []data.Snapshot
	Locations  []data.Location
	LatestDate time.Time
	FetchedAt  time.Time
}

// RecordFetcher defines the interface for downloading raw records.
type RecordFetcher interface {
	Fetch(ctx context.Context) ([]data.Snapshot, error)
}

// RunPipeline executes the full data pipeline: Fetch -> Merge -> Bundle.
// Records in the payload are deduplicated per (date, code).
func RunPipeline(ctx context.Context, f RecordFetcher) (*PipelinePayload, error) {
	if f == nil {
		return nil, errors.New("pipeline: no fetcher")
	}

	// 1. Fetch
	raw, err := f.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("fetch records: empty dataset")
	}

	// 2. Merge duplicate sources
	ds := data.NewDataset(raw)
	locations := ds.Locations()

	records := make([]data.Snapshot, 0, ds.Len())
	for _, loc := range locations {
		records = append(records, ds.History(loc.Code)...)
	}

	// 3. Bundle
	return &PipelinePayload{
		Records:    records,
		Locations:  locations,
		LatestDate: ds.LatestDate(),
		FetchedAt:  time.Now().UTC(),
	}, nil
}
