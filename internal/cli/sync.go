package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"covidboard/internal/database"
	"covidboard/internal/database/relational"
	"covidboard/internal/logging"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download the dataset into a DuckDB file",
	Long: `sync downloads the key figures and upserts them into the DuckDB file given
by --db. When Neo4j is configured the reports are mirrored into the graph too.

With --watch it keeps running and pulls again every sync_interval.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")
		return runSync(cmd.Context(), watch)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().BoolP("watch", "w", false, "Keep syncing every sync_interval until interrupted")
}

func runSync(ctx context.Context, watch bool) error {
	if cfg.DBPath == "" {
		return errors.New("sync: --db (db_path) is required")
	}

	client, err := relational.NewFileDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}
	defer client.Close()

	repo := relational.NewRepo(client.DB())
	if err := repo.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	g, err := openGraph(cfg)
	if err != nil {
		// The mirror is optional, DuckDB alone is still useful.
		logging.Log.WithError(err).Warn("graph mirror disabled")
	}

	worker, err := database.NewSyncWorker(newHTTPSource(cfg), repo, g)
	if err != nil {
		return err
	}
	worker.WithInterval(cfg.SyncInterval)

	if !watch {
		defer worker.Stop()
		return worker.PullOnce(ctx)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := worker.Start(ctx); err != nil {
		return err
	}
	logging.Log.WithField("interval", cfg.SyncInterval).Info("sync worker started")
	<-ctx.Done()
	worker.Stop()
	return nil
}
