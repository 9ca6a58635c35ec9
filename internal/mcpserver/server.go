package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"covidboard/internal/chart"
	"covidboard/internal/data"
	"covidboard/internal/database/graph"
	"covidboard/internal/logging"
	"covidboard/internal/output"
)

// HistoryQuerier lists the most recent snapshots of a location.
type HistoryQuerier interface {
	QuerySnapshots(ctx context.Context, location string, limit int) ([]data.Snapshot, error)
}

// Server exposes the report sources and the chart registry as MCP tools.
type Server struct {
	mcpServer   *mcp.Server
	registry    *chart.Registry
	source      data.Source
	history     HistoryQuerier    // optional, set when backed by DuckDB
	neo4jClient graph.GraphClient // optional
	log         *logrus.Entry
}

// Config holds configuration for the MCP server.
type Config struct {
	ServerName    string
	ServerVersion string
}

// Deps are the collaborators the tools read from. Only Source is required.
type Deps struct {
	Registry *chart.Registry
	Source   data.Source
	History  HistoryQuerier
	Graph    graph.GraphClient
}

// NewServer creates a new MCP server instance.
func NewServer(cfg Config, deps Deps) (*Server, error) {
	if deps.Source == nil {
		return nil, errors.New("mcp server: a report source is required")
	}
	if deps.Registry == nil {
		deps.Registry = chart.Default()
	}
	if cfg.ServerName == "" {
		cfg.ServerName = "covidboard"
	}

	impl := &mcp.Implementation{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}

	s := &Server{
		mcpServer:   mcp.NewServer(impl, nil),
		registry:    deps.Registry,
		source:      deps.Source,
		history:     deps.History,
		neo4jClient: deps.Graph,
		log:         logging.Log.WithField("component", "mcp"),
	}
	s.registerTools()
	return s, nil
}

// ListStatsArgs takes no input.
type ListStatsArgs struct{}

// StatInfo describes one selectable statistic.
type StatInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Group     string `json:"group"`
	Indicator bool   `json:"indicator" jsonschema:"whether the stat can switch to daily variations"`
	Label     string `json:"label,omitempty"`
	Metric    string `json:"metric,omitempty"`
	Color     string `json:"color,omitempty"`
}

// ListStatsResult wraps the registry listing.
type ListStatsResult struct {
	Stats []StatInfo `json:"stats"`
}

// ResolveChartArgs defines the input for resolve_chart tool.
type ResolveChartArgs struct {
	Stat           string `json:"stat" jsonschema:"statistic id, see list_stats"`
	ShowVariations bool   `json:"show_variations,omitempty" jsonschema:"request the daily variations chart"`
}

// ResolveChartResult names the chart the dashboard would draw.
type ResolveChartResult struct {
	Renderer   string        `json:"renderer"`
	Toggleable bool          `json:"toggleable"`
	Options    chart.Options `json:"options"`
}

// ReportArgs selects a report. Empty values mean latest date and nationwide.
type ReportArgs struct {
	Date     string `json:"date,omitempty" jsonschema:"day as YYYY-MM-DD, latest when empty"`
	Location string `json:"location,omitempty" jsonschema:"maille code such as DEP-75, nationwide when empty"`
}

// ReportResult is a report without its history, plus the counters.
type ReportResult struct {
	Date     string             `json:"date"`
	Code     string             `json:"code"`
	Name     string             `json:"name"`
	Metrics  map[string]float64 `json:"metrics"`
	Counters []output.Section   `json:"counters,omitempty"`
}

// HistoryArgs defines the input for get_history tool.
type HistoryArgs struct {
	Location string `json:"location,omitempty" jsonschema:"maille code, nationwide when empty"`
	Limit    int    `json:"limit,omitempty" jsonschema:"number of days to return"`
}

// HistoryResult wraps snapshot results.
type HistoryResult struct {
	Reports []ReportResult `json:"reports"`
}

// QueryGraphArgs defines the input for query_graph tool.
type QueryGraphArgs struct {
	Cypher string `json:"cypher" jsonschema:"Cypher query to execute"`
}

// QueryGraphResult wraps graph query results.
type QueryGraphResult struct {
	Data []map[string]any `json:"data" jsonschema:"query results"`
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_stats",
		Description: "List the statistics the dashboard can chart, in display order, with their group, metric name and color.",
	}, s.handleListStats)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "resolve_chart",
		Description: "Resolve which chart renders a statistic: mixed, cumulative or variation. Indicators switch to the variation chart when show_variations is set.",
	}, s.handleResolveChart)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_report",
		Description: "Get the COVID-19 key figures published for a day and location in France, with the change since the previous published day.",
	}, s.handleGetReport)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_previous_report",
		Description: "Get the report published for the same location on the latest day strictly before the given date.",
	}, s.handleGetPreviousReport)

	if s.history != nil {
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        "get_history",
			Description: "Query the most recent stored reports of a location from DuckDB, newest first. Use for trend questions.",
		}, s.handleGetHistory)
	}

	if s.neo4jClient != nil {
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        "query_graph",
			Description: "Execute read-only Cypher on the Neo4j mirror. Nodes: Location {code, name, national}, DailyReport {code, date, casConfirmes, hospitalises, reanimation, deces, gueris, casEhpad, casConfirmesEhpad, decesEhpad}. Relationships: (Location)-[:HAS_REPORT]->(DailyReport), (DailyReport)-[:NEXT]->(DailyReport).",
		}, s.handleQueryGraph)
	}
}

func (s *Server) handleListStats(ctx context.Context, _ *mcp.CallToolRequest, _ ListStatsArgs) (*mcp.CallToolResult, ListStatsResult, error) {
	var res ListStatsResult
	for _, d := range s.registry.Descriptors() {
		opts := d.Options()
		res.Stats = append(res.Stats, StatInfo{
			ID:        string(d.ID),
			Name:      d.Name,
			Group:     d.Group,
			Indicator: d.IsIndicator(),
			Label:     opts.Label,
			Metric:    opts.MetricName,
			Color:     opts.Color,
		})
	}
	return nil, res, nil
}

func (s *Server) handleResolveChart(ctx context.Context, _ *mcp.CallToolRequest, args ResolveChartArgs) (*mcp.CallToolResult, ResolveChartResult, error) {
	id := chart.StatID(args.Stat)
	if id != "" && !s.registry.Has(id) {
		return nil, ResolveChartResult{}, fmt.Errorf("resolve %q: %w", args.Stat, chart.ErrUnknownStat)
	}

	res := ResolveChartResult{Renderer: s.registry.Resolve(id, args.ShowVariations).String()}
	if id != "" {
		d := s.registry.MustLookup(id)
		res.Toggleable = d.IsIndicator()
		res.Options = d.Options()
	}
	return nil, res, nil
}

func (s *Server) handleGetReport(ctx context.Context, _ *mcp.CallToolRequest, args ReportArgs) (*mcp.CallToolResult, ReportResult, error) {
	rep, err := s.loadReport(ctx, args)
	if err != nil {
		return nil, ReportResult{}, err
	}

	prev, err := s.source.GetPreviousReport(ctx, rep)
	if err != nil && !errors.Is(err, data.ErrNoReport) {
		return nil, ReportResult{}, fmt.Errorf("load previous report: %w", err)
	}

	res := toResult(rep.Snapshot)
	res.Counters = output.BuildSummary(s.registry, rep, prev).Sections
	return nil, res, nil
}

func (s *Server) handleGetPreviousReport(ctx context.Context, _ *mcp.CallToolRequest, args ReportArgs) (*mcp.CallToolResult, ReportResult, error) {
	rep, err := s.loadReport(ctx, args)
	if err != nil {
		return nil, ReportResult{}, err
	}
	prev, err := s.source.GetPreviousReport(ctx, rep)
	if err != nil {
		return nil, ReportResult{}, fmt.Errorf("load previous report: %w", err)
	}
	return nil, toResult(prev.Snapshot), nil
}

func (s *Server) handleGetHistory(ctx context.Context, _ *mcp.CallToolRequest, args HistoryArgs) (*mcp.CallToolResult, HistoryResult, error) {
	snaps, err := s.history.QuerySnapshots(ctx, args.Location, args.Limit)
	if err != nil {
		return nil, HistoryResult{}, fmt.Errorf("failed to query history: %w", err)
	}
	res := HistoryResult{Reports: make([]ReportResult, 0, len(snaps))}
	for _, snap := range snaps {
		res.Reports = append(res.Reports, toResult(snap))
	}
	return nil, res, nil
}

func (s *Server) handleQueryGraph(ctx context.Context, _ *mcp.CallToolRequest, args QueryGraphArgs) (*mcp.CallToolResult, QueryGraphResult, error) {
	if args.Cypher == "" {
		return nil, QueryGraphResult{}, errors.New("cypher must not be empty")
	}
	result, err := s.neo4jClient.ExecuteCypher(ctx, args.Cypher)
	if err != nil {
		return nil, QueryGraphResult{}, fmt.Errorf("cypher query failed: %w", err)
	}
	return nil, QueryGraphResult{Data: result}, nil
}

func (s *Server) loadReport(ctx context.Context, args ReportArgs) (*data.Report, error) {
	date, err := s.resolveDate(ctx, args.Date)
	if err != nil {
		return nil, err
	}
	rep, err := s.source.GetReport(ctx, date, args.Location)
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	return rep, nil
}

func (s *Server) resolveDate(ctx context.Context, raw string) (time.Time, error) {
	if raw != "" {
		d, err := data.ParseDate(raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", raw)
		}
		return d, nil
	}
	ld, ok := s.source.(data.LatestDater)
	if !ok {
		return time.Time{}, errors.New("date is required for this source")
	}
	return ld.LatestDate(ctx)
}

func toResult(snap data.Snapshot) ReportResult {
	metrics := make(map[string]float64, len(snap.Metrics))
	for k, v := range snap.Metrics {
		metrics[k] = v
	}
	return ReportResult{
		Date:    snap.DateString(),
		Code:    snap.Code,
		Name:    snap.Name,
		Metrics: metrics,
	}
}

// Start starts the MCP server using stdio transport.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("starting covidboard MCP server on stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// Close cleans up resources.
func (s *Server) Close(ctx context.Context) error {
	if s.neo4jClient != nil {
		return s.neo4jClient.Close(ctx)
	}
	return nil
}
