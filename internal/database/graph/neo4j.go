package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"covidboard/internal/data"
	"covidboard/internal/output"
)

// ingestBatch is the number of reports sent per UNWIND statement.
const ingestBatch = 500

// GraphClient defines the interface for graph database operations.
type GraphClient interface {
	Close(ctx context.Context) error
	Reset(ctx context.Context) error
	IngestPayload(ctx context.Context, payload *output.PipelinePayload) error
	ExecuteCypher(ctx context.Context, query string) ([]map[string]any, error)
}

// Neo4jClient implements GraphClient for Neo4j.
type Neo4jClient struct {
	driver neo4j.DriverWithContext
	dbName string
}

// NewNeo4jClient creates a new Neo4j client.
func NewNeo4jClient(uri, username, password, dbName string) (*Neo4jClient, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	return &Neo4jClient{
		driver: driver,
		dbName: dbName,
	}, nil
}

func (c *Neo4jClient) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Reset deletes every Location and DailyReport node.
func (c *Neo4jClient) Reset(ctx context.Context) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.dbName})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, "MATCH (n) WHERE n:Location OR n:DailyReport DETACH DELETE n", nil)
	})
	return err
}

// IngestPayload mirrors the payload into the graph:
//
//	(:Location {code, name})-[:HAS_REPORT]->(:DailyReport {code, date, ...metrics})
//	(:DailyReport)-[:NEXT]->(:DailyReport)   consecutive published days of one location
func (c *Neo4jClient) IngestPayload(ctx context.Context, payload *output.PipelinePayload) error {
	if payload == nil {
		return nil
	}
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.dbName})
	defer session.Close(ctx)

	if _, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, mergeLocations(ctx, tx, payload.Locations)
	}); err != nil {
		return fmt.Errorf("merge locations: %w", err)
	}

	rows := reportRows(payload.Records)
	for start := 0; start < len(rows); start += ingestBatch {
		end := min(start+ingestBatch, len(rows))
		batch := rows[start:end]
		if _, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			return nil, mergeReports(ctx, tx, batch)
		}); err != nil {
			return fmt.Errorf("merge reports %d-%d: %w", start, end, err)
		}
	}
	return nil
}

func mergeLocations(ctx context.Context, tx neo4j.ManagedTransaction, locations []data.Location) error {
	rows := make([]map[string]any, 0, len(locations))
	for _, l := range locations {
		rows = append(rows, map[string]any{
			"code":     l.Code,
			"name":     l.Name,
			"national": l.Code == data.NationalCode,
		})
	}
	query := `
		UNWIND $rows AS row
		MERGE (l:Location {code: row.code})
		SET l.name = row.name,
			l.national = row.national
	`
	_, err := tx.Run(ctx, query, map[string]any{"rows": rows})
	return err
}

func mergeReports(ctx context.Context, tx neo4j.ManagedTransaction, rows []map[string]any) error {
	query := `
		UNWIND $rows AS row
		MATCH (l:Location {code: row.code})
		MERGE (r:DailyReport {code: row.code, date: row.date})
		SET r += row.metrics
		MERGE (l)-[:HAS_REPORT]->(r)
		WITH r, row
		WHERE row.prev IS NOT NULL
		MATCH (p:DailyReport {code: row.code, date: row.prev})
		MERGE (p)-[:NEXT]->(r)
	`
	_, err := tx.Run(ctx, query, map[string]any{"rows": rows})
	return err
}

// reportRows flattens records into UNWIND parameters. Records are expected
// grouped by location and sorted by date, as RunPipeline returns them.
func reportRows(records []data.Snapshot) []map[string]any {
	rows := make([]map[string]any, 0, len(records))
	var prevCode, prevDate string
	for _, s := range records {
		metrics := make(map[string]any, len(s.Metrics))
		for k, v := range s.Metrics {
			metrics[k] = v
		}
		row := map[string]any{
			"code":    s.Code,
			"date":    s.DateString(),
			"metrics": metrics,
			"prev":    nil,
		}
		if s.Code == prevCode {
			row["prev"] = prevDate
		}
		rows = append(rows, row)
		prevCode, prevDate = s.Code, s.DateString()
	}
	return rows
}
