// Package relational provides DuckDB-backed persistence for published reports.
package relational

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/marcboeker/go-duckdb" // Register DuckDB driver
)

// DatabaseConfig holds configuration options for the database.
type DatabaseConfig struct {
	Threads       int           // Number of threads for DuckDB (0 = default)
	MemoryLimitGB int           // Memory limit in GB (0 = default)
	Timeout       time.Duration // Connect timeout (0 = none)
	ReadOnly      bool          // Open the file with access_mode=READ_ONLY
}

// DuckDBClient manages the physical connection to a DuckDB database.
type DuckDBClient struct {
	db     *sql.DB
	config DatabaseConfig
}

// DuckDBOption configures the DuckDB client.
type DuckDBOption func(*DatabaseConfig)

// WithThreads sets the number of DuckDB threads.
func WithThreads(n int) DuckDBOption {
	return func(c *DatabaseConfig) { c.Threads = n }
}

// WithMemoryLimit sets the DuckDB memory limit in GB.
func WithMemoryLimit(gb int) DuckDBOption {
	return func(c *DatabaseConfig) { c.MemoryLimitGB = gb }
}

// WithTimeout bounds the initial ping.
func WithTimeout(d time.Duration) DuckDBOption {
	return func(c *DatabaseConfig) { c.Timeout = d }
}

// WithReadOnly opens a file database without taking the write lock, so the
// dashboard can read while `sync --watch` owns the file.
func WithReadOnly() DuckDBOption {
	return func(c *DatabaseConfig) { c.ReadOnly = true }
}

// NewDuckDBClient opens dsn. An empty dsn or ":memory:" is an in-memory database.
func NewDuckDBClient(dsn string, opts ...DuckDBOption) (*DuckDBClient, error) {
	var cfg DatabaseConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if dsn == "" {
		dsn = ":memory:"
	}
	if cfg.ReadOnly && dsn != ":memory:" {
		dsn += "?access_mode=READ_ONLY"
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}

	// DuckDB is embedded; a single connection keeps an in-memory database
	// shared across queries.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	client := &DuckDBClient{db: db}
	if err := client.Configure(cfg); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure duckdb: %w", err)
	}
	return client, nil
}

// DB returns the underlying sql.DB instance.
func (c *DuckDBClient) DB() *sql.DB {
	return c.db
}

// Close releases database resources.
func (c *DuckDBClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Configure applies database configuration options.
func (c *DuckDBClient) Configure(cfg DatabaseConfig) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}
	if cfg.Threads > 0 {
		if _, err := c.db.Exec(fmt.Sprintf("PRAGMA threads=%d", cfg.Threads)); err != nil {
			return fmt.Errorf("setting threads: %w", err)
		}
	}
	if cfg.MemoryLimitGB > 0 {
		if _, err := c.db.Exec(fmt.Sprintf("PRAGMA memory_limit='%dGB'", cfg.MemoryLimitGB)); err != nil {
			return fmt.Errorf("setting memory limit: %w", err)
		}
	}
	c.config = cfg
	return nil
}

// Ping verifies database connectivity.
func (c *DuckDBClient) Ping(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return c.db.PingContext(ctx)
}

// NewInMemoryDB creates a new in-memory DuckDB database.
func NewInMemoryDB(opts ...DuckDBOption) (*DuckDBClient, error) {
	return NewDuckDBClient(":memory:", opts...)
}

// NewFileDB creates a new file-based DuckDB database.
func NewFileDB(path string, opts ...DuckDBOption) (*DuckDBClient, error) {
	if path == "" {
		return nil, fmt.Errorf("database path required")
	}
	return NewDuckDBClient(path, opts...)
}
