package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"covidboard/internal/chart"
	"covidboard/internal/data"
	"covidboard/internal/output"
	"covidboard/ui/console"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the key figures of a day",
	Example: `  covidboard report
  covidboard report --date 2020-04-02 --location DEP-75`,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openSources(cfg)
		if err != nil {
			return err
		}
		defer src.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		sum, err := loadSummary(ctx, src.Source, cfg.Date, cfg.Location)
		if err != nil {
			return err
		}
		console.Print(cmd.OutOrStdout(), sum)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

// loadSummary fetches the report of date (latest when empty) and its comparison point.
func loadSummary(ctx context.Context, src data.Source, date, location string) (output.Summary, error) {
	day, err := reportDate(ctx, src, date)
	if err != nil {
		return output.Summary{}, err
	}

	cur, err := src.GetReport(ctx, day, location)
	if err != nil {
		return output.Summary{}, fmt.Errorf("load report: %w", err)
	}
	prev, err := src.GetPreviousReport(ctx, cur)
	if err != nil && !errors.Is(err, data.ErrNoReport) {
		return output.Summary{}, fmt.Errorf("load previous report: %w", err)
	}
	return output.BuildSummary(chart.Default(), cur, prev), nil
}

func reportDate(ctx context.Context, src data.Source, raw string) (time.Time, error) {
	if raw != "" {
		return data.ParseDate(raw)
	}
	if ld, ok := src.(data.LatestDater); ok {
		return ld.LatestDate(ctx)
	}
	return data.Day(time.Now()), nil
}
