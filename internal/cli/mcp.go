package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"covidboard/internal/logging"
	"covidboard/internal/mcpserver"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the reports as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openSources(cfg)
		if err != nil {
			return err
		}
		defer src.Close()

		deps := mcpserver.Deps{Source: src.Source}
		if src.Repo != nil {
			deps.History = src.Repo
		}
		g, err := openGraph(cfg)
		if err != nil {
			logging.Log.WithError(err).Warn("query_graph disabled")
		}
		deps.Graph = g

		srv, err := mcpserver.NewServer(mcpserver.Config{
			ServerName:    "covidboard",
			ServerVersion: version,
		}, deps)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Close(ctx); err != nil {
				logging.Log.WithError(err).Warn("closing mcp server")
			}
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
