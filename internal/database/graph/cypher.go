package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"covidboard/internal/data"
)

// MaxCypherRows caps the rows ExecuteCypher returns.
const MaxCypherRows = 200

// ExecuteCypher runs query in a read transaction and returns at most
// MaxCypherRows rows. Location and DailyReport nodes come back in the same
// shape as the report tools; dates are YYYY-MM-DD.
func (c *Neo4jClient) ExecuteCypher(ctx context.Context, query string) ([]map[string]any, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.dbName})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		return recordRows(records), nil
	})
	if err != nil {
		return nil, fmt.Errorf("cypher execution failed: %w", err)
	}

	return result.([]map[string]any), nil
}

func recordRows(records []*neo4j.Record) []map[string]any {
	if len(records) > MaxCypherRows {
		records = records[:MaxCypherRows]
	}
	rows := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		row := make(map[string]any, len(rec.Keys))
		for i, key := range rec.Keys {
			row[key] = graphValue(rec.Values[i])
		}
		rows = append(rows, row)
	}
	return rows
}

// graphValue maps driver values onto the report vocabulary.
func graphValue(val any) any {
	switch v := val.(type) {
	case neo4j.Node:
		return nodeValue(v)
	case neo4j.Relationship:
		return map[string]any{"relation": v.Type, "properties": v.Props}
	case neo4j.Path:
		steps := make([]any, 0, len(v.Nodes))
		for _, n := range v.Nodes {
			steps = append(steps, nodeValue(n))
		}
		return steps
	case neo4j.Date:
		return v.Time().Format(data.DateLayout)
	case time.Time:
		return v.Format(data.DateLayout)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = graphValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = graphValue(item)
		}
		return out
	default:
		return v
	}
}

func nodeValue(n neo4j.Node) map[string]any {
	switch {
	case hasLabel(n, "DailyReport"):
		metrics := make(map[string]any, len(n.Props))
		for k, v := range n.Props {
			if k != "code" && k != "date" {
				metrics[k] = v
			}
		}
		return map[string]any{
			"report":  true,
			"code":    n.Props["code"],
			"date":    graphValue(n.Props["date"]),
			"metrics": metrics,
		}
	case hasLabel(n, "Location"):
		return map[string]any{
			"location": true,
			"code":     n.Props["code"],
			"name":     n.Props["name"],
			"national": n.Props["national"],
		}
	}
	return map[string]any{"labels": n.Labels, "properties": n.Props}
}

func hasLabel(n neo4j.Node, label string) bool {
	for _, l := range n.Labels {
		if l == label {
			return true
		}
	}
	return false
}
