package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"covidboard/internal/chart"
	"covidboard/internal/config"
	"covidboard/internal/data"
	"covidboard/internal/logging"
)

const dataset = `[
  {"date": "2020-04-01", "maille_code": "FRA", "maille_nom": "France", "deces": 100, "hospitalises": 1000},
  {"date": "2020-04-02", "maille_code": "FRA", "maille_nom": "France", "deces": 130, "hospitalises": 1100},
  {"date": "2020-04-02", "maille_code": "DEP-75", "maille_nom": "Paris", "deces": 40}
]`

func TestMain(m *testing.M) {
	logging.Discard()
	os.Exit(m.Run())
}

func serveDataset(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(dataset))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func day(s string) time.Time {
	d, _ := data.ParseDate(s)
	return d
}

func TestReportDate(t *testing.T) {
	ctx := context.Background()
	mem := data.NewMemorySource([]data.Snapshot{
		{Date: day("2020-04-03"), Code: data.NationalCode, Metrics: map[string]float64{}},
	})

	tests := []struct {
		name    string
		src     data.Source
		raw     string
		want    time.Time
		wantErr bool
	}{
		{"explicit date", mem, "2020-04-01", day("2020-04-01"), false},
		{"latest published", mem, "", day("2020-04-03"), false},
		{"bad date", mem, "01/04/2020", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reportDate(ctx, tt.src, tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("reportDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("reportDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOpenSourcesHTTP(t *testing.T) {
	src, err := openSources(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	if _, ok := src.Source.(*data.HTTPSource); !ok {
		t.Errorf("expected an HTTP source, got %T", src.Source)
	}
	if src.Repo != nil {
		t.Error("no repo without a db path")
	}
}

func TestSyncThenReport(t *testing.T) {
	srv := serveDataset(t)
	path := filepath.Join(t.TempDir(), "covid.duckdb")

	cfg = config.Default().WithDBPath(path).WithDataURL(srv.URL)
	if err := runSync(context.Background(), false); err != nil {
		t.Fatalf("sync: %v", err)
	}

	src, err := openSources(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	if src.Repo == nil {
		t.Fatal("expected a DuckDB repo")
	}

	sum, err := loadSummary(context.Background(), src.Source, "", "")
	if err != nil {
		t.Fatalf("loadSummary: %v", err)
	}
	if sum.Date != "2020-04-02" || sum.Title != data.NationalName {
		t.Fatalf("unexpected summary %s/%s", sum.Title, sum.Date)
	}

	sec := sum.SectionByID(chart.GroupHospital)
	if sec == nil {
		t.Fatal("hospital section missing")
	}
	it := sec.ItemByStat(chart.StatDeces)
	if it == nil || it.Value != 130 || !it.HasDelta || it.Delta != 30 {
		t.Errorf("unexpected deces counter %+v", it)
	}

	paris, err := loadSummary(context.Background(), src.Source, "2020-04-02", "DEP-75")
	if err != nil {
		t.Fatalf("loadSummary(Paris): %v", err)
	}
	if paris.Title != "Paris" {
		t.Errorf("expected Paris, got %q", paris.Title)
	}
}

func TestSyncRequiresDBPath(t *testing.T) {
	cfg = config.Default()
	if err := runSync(context.Background(), false); err == nil {
		t.Error("expected an error without db path")
	}
}

func TestReportCommand(t *testing.T) {
	srv := serveDataset(t)
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"report", "--data-url", srv.URL, "--date", "2020-04-02", "--loglevel", "error"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("report: %v", err)
	}
	for _, want := range []string{"COVID-19 - France (2020-04-02)", "130", "+30"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}
