package cli

import (
	"fmt"

	"covidboard/internal/config"
	"covidboard/internal/data"
	"covidboard/internal/database/graph"
	"covidboard/internal/database/relational"
	"covidboard/internal/logging"
)

// sources bundles what the commands read reports from.
type sources struct {
	Source data.Source
	// Repo is set when reports come from a DuckDB file.
	Repo   *relational.Repo
	closer func() error
}

func (s *sources) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// openSources reads from the DuckDB file when db_path is set, otherwise from
// the remote dataset.
func openSources(c config.Config) (*sources, error) {
	if c.DBPath == "" {
		return &sources{Source: newHTTPSource(c)}, nil
	}

	client, err := relational.NewFileDB(c.DBPath, relational.WithReadOnly())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.DBPath, err)
	}
	repo := relational.NewRepo(client.DB())
	return &sources{Source: repo, Repo: repo, closer: client.Close}, nil
}

func newHTTPSource(c config.Config) *data.HTTPSource {
	return data.NewHTTPSource(data.HTTPOptions{
		URL:     c.DataURL,
		Timeout: c.HTTPTimeout,
		Retries: c.HTTPRetries,
		Logger:  logging.NewHTTPLogger("http"),
	})
}

// openGraph connects to Neo4j when it is configured. A nil client means no mirror.
func openGraph(c config.Config) (graph.GraphClient, error) {
	if !c.Neo4j.Enabled() {
		return nil, nil
	}
	client, err := graph.NewNeo4jClient(c.Neo4j.URI, c.Neo4j.User, c.Neo4j.Password, c.Neo4j.Database)
	if err != nil {
		return nil, fmt.Errorf("connect neo4j: %w", err)
	}
	return client, nil
}
