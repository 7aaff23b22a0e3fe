package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/talgya/colonysim/internal/api"
	"github.com/talgya/colonysim/internal/persistence"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve projections over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			port := cfg.Server.Port
			if p, _ := cmd.Flags().GetInt("port"); p > 0 {
				port = p
			}

			srv := &api.Server{
				Port:        port,
				CORSOrigins: cfg.Server.CORSOrigins,
				RateLimit:   cfg.Server.RateLimit,
				Workers:     cfg.MonteCarlo.Workers,
				Timeout:     cfg.MonteCarlo.Timeout,
			}

			if noStore, _ := cmd.Flags().GetBool("no-store"); !noStore {
				path := storePath(cmd)
				if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
					return fmt.Errorf("create store dir: %w", err)
				}
				db, err := persistence.Open(path)
				if err != nil {
					return err
				}
				defer db.Close()
				srv.DB = db
				slog.Info("database opened", "path", path)
			}

			srv.Start()

			<-cmd.Context().Done()
			slog.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
	cmd.Flags().Int("port", 0, "Listen port (overrides config)")
	cmd.Flags().Bool("no-store", false, "Do not store runs")
	return cmd
}
