package relational

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"covidboard/internal/data"
)

// Locations lists the stored locations, nationwide first then by code.
func (r *Repo) Locations(ctx context.Context) ([]data.Location, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT code, COALESCE(name, '')
		FROM locations
		ORDER BY CASE WHEN code = ? THEN 0 ELSE 1 END, code
	`, data.NationalCode)
	if err != nil {
		return nil, fmt.Errorf("query locations failed: %w", err)
	}
	defer rows.Close()

	locations := []data.Location{}
	for rows.Next() {
		var l data.Location
		if err := rows.Scan(&l.Code, &l.Name); err != nil {
			return nil, fmt.Errorf("scan location failed: %w", err)
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return locations, nil
}

// LatestDate returns the most recent stored date, or ErrNoReport when empty.
func (r *Repo) LatestDate(ctx context.Context) (time.Time, error) {
	var latest sql.NullTime
	if err := r.db.QueryRowContext(ctx, `SELECT max(date) FROM reports`).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("query latest date: %w", err)
	}
	if !latest.Valid {
		return time.Time{}, fmt.Errorf("empty store: %w", data.ErrNoReport)
	}
	return data.Day(latest.Time), nil
}

// QuerySnapshots returns the most recent snapshots of location, newest first.
func (r *Repo) QuerySnapshots(ctx context.Context, location string, limit int) ([]data.Snapshot, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100 // Safety limit
	}
	code := data.NormalizeLocation(location)

	query := `
		SELECT r.date, COALESCE(l.name, ''), ` + prefixed("r.") + `
		FROM reports r
		LEFT JOIN locations l ON l.code = r.code
		WHERE r.code = ?
		ORDER BY r.date DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, code, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots failed: %w", err)
	}
	defer rows.Close()

	snapshots := []data.Snapshot{} // Initialize as empty slice, not nil
	for rows.Next() {
		s, err := scanSnapshot(rows, code)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return snapshots, nil
}
