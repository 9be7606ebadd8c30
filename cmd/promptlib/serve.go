package main

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/promptlib/internal/app"
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the library over HTTP",
		Long: `Serve the library over HTTP until interrupted.

The server exposes the JSON API under /api, plus /healthz, /readyz, /infra
and /metrics. It re-reads the store every PROMPTLIB_SYNC_INTERVAL so that
edits made with the CLI show up, and writes daily export snapshots when
PROMPTLIB_SNAPSHOT_DIR is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := c.setup(true)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			return a.Run()
		},
	}
}
