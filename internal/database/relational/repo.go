package relational

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"covidboard/internal/data"
)

// metricColumns maps metric names to report columns, in column order.
var metricColumns = []struct {
	metric string
	column string
}{
	{data.MetricCasConfirmes, "cas_confirmes"},
	{data.MetricHospitalises, "hospitalises"},
	{data.MetricReanimation, "reanimation"},
	{data.MetricDeces, "deces"},
	{data.MetricGueris, "gueris"},
	{data.MetricCasEhpad, "cas_ehpad"},
	{data.MetricCasConfirmesEhpad, "cas_confirmes_ehpad"},
	{data.MetricDecesEhpad, "deces_ehpad"},
}

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS locations (
  code        VARCHAR PRIMARY KEY,
  name        VARCHAR,
  created_at  TIMESTAMP NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reports (
  code                 VARCHAR NOT NULL,
  date                 DATE NOT NULL,

  cas_confirmes        DOUBLE,
  hospitalises         DOUBLE,
  reanimation          DOUBLE,
  deces                DOUBLE,
  gueris               DOUBLE,
  cas_ehpad            DOUBLE,
  cas_confirmes_ehpad  DOUBLE,
  deces_ehpad          DOUBLE,

  synced_at            TIMESTAMP NOT NULL DEFAULT now(),
  PRIMARY KEY(code, date)
);
`

// Repo stores snapshots in DuckDB and implements data.Source on top of them.
type Repo struct {
	db *sql.DB
	mu sync.RWMutex
	// Location names already written, to skip redundant upserts.
	names map[string]string
}

var _ ReportRepository = (*Repo)(nil)

func NewRepo(db *sql.DB) *Repo {
	return &Repo{
		db:    db,
		names: make(map[string]string),
	}
}

func (r *Repo) Close() error {
	return r.db.Close()
}

func (r *Repo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, SchemaSQL)
	return err
}

func columnList() string {
	cols := make([]string, len(metricColumns))
	for i, mc := range metricColumns {
		cols[i] = mc.column
	}
	return strings.Join(cols, ", ")
}

func upsertReportSQL() string {
	var b strings.Builder
	b.WriteString("INSERT INTO reports(code, date, ")
	b.WriteString(columnList())
	b.WriteString(", synced_at) VALUES (?, ?")
	for range metricColumns {
		b.WriteString(", ?")
	}
	b.WriteString(", now()) ON CONFLICT(code, date) DO UPDATE SET ")
	for i, mc := range metricColumns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%[1]s = COALESCE(excluded.%[1]s, %[1]s)", mc.column)
	}
	b.WriteString(", synced_at = now()")
	return b.String()
}

// UpsertSnapshots writes records in one transaction. A metric missing from a
// record keeps the stored value.
func (r *Repo) UpsertSnapshots(ctx context.Context, records []data.Snapshot) (UpsertResult, error) {
	var res UpsertResult
	if len(records) == 0 {
		return res, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertReportSQL())
	if err != nil {
		return res, fmt.Errorf("prepare report upsert: %w", err)
	}
	defer stmt.Close()

	touched := make(map[string]string)
	for _, s := range records {
		if s.Code == "" {
			continue
		}
		args := make([]any, 0, 2+len(metricColumns))
		args = append(args, s.Code, data.Day(s.Date))
		for _, mc := range metricColumns {
			v, ok := s.Value(mc.metric)
			if !ok {
				args = append(args, sql.NullFloat64{})
				continue
			}
			args = append(args, nullFloat(v))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return res, fmt.Errorf("upsert report %s %s: %w", s.Code, s.DateString(), err)
		}
		res.Rows++
		if name, seen := touched[s.Code]; !seen || name == "" {
			touched[s.Code] = s.Name
		}
	}

	for code, name := range touched {
		if err := r.upsertLocationTx(ctx, tx, code, name); err != nil {
			return res, err
		}
	}
	res.Locations = len(touched)

	if err := tx.Commit(); err != nil {
		return res, err
	}

	r.mu.Lock()
	for code, name := range touched {
		if name != "" {
			r.names[code] = name
		}
	}
	r.mu.Unlock()
	return res, nil
}

func (r *Repo) upsertLocationTx(ctx context.Context, tx *sql.Tx, code, name string) error {
	r.mu.RLock()
	cached, ok := r.names[code]
	r.mu.RUnlock()
	if ok && (name == "" || cached == name) {
		return nil
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO locations(code, name) VALUES(?, ?)
		ON CONFLICT(code) DO UPDATE SET name = COALESCE(NULLIF(excluded.name, ''), name)
	`, code, nullEmpty(name))
	if err != nil {
		return fmt.Errorf("upsert location %s: %w", code, err)
	}
	return nil
}

// history loads every snapshot of code, oldest first.
func (r *Repo) history(ctx context.Context, code string) ([]data.Snapshot, error) {
	query := `
		SELECT r.date, COALESCE(l.name, ''), ` + prefixed("r.") + `
		FROM reports r
		LEFT JOIN locations l ON l.code = r.code
		WHERE r.code = ?
		ORDER BY r.date ASC
	`
	rows, err := r.db.QueryContext(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("query history %s: %w", code, err)
	}
	defer rows.Close()

	var out []data.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows, code)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return out, nil
}

func prefixed(p string) string {
	cols := make([]string, len(metricColumns))
	for i, mc := range metricColumns {
		cols[i] = p + mc.column
	}
	return strings.Join(cols, ", ")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner, code string) (data.Snapshot, error) {
	var (
		date time.Time
		name string
		vals = make([]sql.NullFloat64, len(metricColumns))
	)
	dest := []any{&date, &name}
	for i := range vals {
		dest = append(dest, &vals[i])
	}
	if err := row.Scan(dest...); err != nil {
		return data.Snapshot{}, fmt.Errorf("scan report failed: %w", err)
	}

	s := data.Snapshot{
		Date:    data.Day(date),
		Code:    code,
		Name:    name,
		Metrics: make(map[string]float64, len(metricColumns)),
	}
	for i, mc := range metricColumns {
		if vals[i].Valid {
			s.Metrics[mc.metric] = vals[i].Float64
		}
	}
	return s, nil
}

// GetReport returns the stored snapshot for date at location, with its history.
func (r *Repo) GetReport(ctx context.Context, date time.Time, location string) (*data.Report, error) {
	code := data.NormalizeLocation(location)
	day := data.Day(date)

	history, err := r.history(ctx, code)
	if err != nil {
		return nil, err
	}
	for _, s := range history {
		if s.Date.Equal(day) {
			return &data.Report{Snapshot: s, History: history}, nil
		}
	}
	return nil, fmt.Errorf("%s %s: %w", code, day.Format(data.DateLayout), data.ErrNoReport)
}

// GetPreviousReport returns the latest stored snapshot strictly before rep.
func (r *Repo) GetPreviousReport(ctx context.Context, rep *data.Report) (*data.Report, error) {
	if rep == nil {
		return nil, fmt.Errorf("previous of nil report: %w", data.ErrNoReport)
	}

	var prev time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT date FROM reports WHERE code = ? AND date < ? ORDER BY date DESC LIMIT 1`,
		rep.Code, data.Day(rep.Date),
	).Scan(&prev)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s before %s: %w", rep.Code, rep.DateString(), data.ErrNoReport)
	}
	if err != nil {
		return nil, fmt.Errorf("query previous report: %w", err)
	}
	return r.GetReport(ctx, prev, rep.Code)
}

// Null helpers
func nullEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
