package relational

import (
	"context"
	"time"

	"covidboard/internal/data"
)

// ReportRepository persists published snapshots and serves them back as reports.
type ReportRepository interface {
	data.Source

	// Migrate creates or updates the database schema.
	Migrate(ctx context.Context) error
	// UpsertSnapshots stores records, refreshing rows already present.
	UpsertSnapshots(ctx context.Context, records []data.Snapshot) (UpsertResult, error)
	// Locations lists the stored locations, nationwide first.
	Locations(ctx context.Context) ([]data.Location, error)
	// LatestDate returns the most recent stored date.
	LatestDate(ctx context.Context) (time.Time, error)
	// Close releases database resources.
	Close() error
}

// SyncService keeps the repository in step with the remote dataset.
type SyncService interface {
	// Start begins periodic pulls.
	Start(ctx context.Context) error
	// Stop gracefully stops the worker.
	Stop()
	// PullOnce executes a single sync cycle.
	PullOnce(ctx context.Context) error
}

// UpsertResult reports what a batch write touched.
type UpsertResult struct {
	Rows      int
	Locations int
}
