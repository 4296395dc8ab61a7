package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"bcms/internal/config"
	"bcms/internal/server"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "srv",
		Short: "Serve published posts over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), cfg, func(deps *appDeps) error {
				logger := slog.Default().With("component", "server")
				srv := server.New(addr, deps.manager, deps.blobs, logger)
				return srv.ListenAndServe()
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", cfg.ListenAddr, "listen address")

	return cmd
}
