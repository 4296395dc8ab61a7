package main

import (
	"github.com/spf13/cobra"

	"bcms/internal/config"
	"bcms/internal/models"
)

func newExportCmd(cfg *config.Config) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a post as a self-contained JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), cfg, func(deps *appDeps) error {
				post, ok := deps.manager.Get(args[0])
				if !ok {
					return models.ErrPostNotFound
				}

				artifact, err := deps.exporter.Build(cmd.Context(), post)
				if err != nil {
					return err
				}
				path, err := deps.exporter.WriteFile(artifact, outDir)
				if err != nil {
					return err
				}
				return writePlain("%s\n", path)
			})
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", cfg.ExportDir, "directory to write the export into")

	return cmd
}
