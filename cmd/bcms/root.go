package main

import (
	"github.com/spf13/cobra"

	"bcms/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "bcms",
		Short: "Bcms is a local-first block-content post editor and publisher",
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")

	cmd.AddCommand(
		newCreateCmd(cfg, &jsonOutput),
		newListCmd(cfg, &jsonOutput),
		newShowCmd(cfg, &jsonOutput),
		newUpdateCmd(cfg, &jsonOutput),
		newPublishCmd(cfg, &jsonOutput),
		newEditCmd(cfg, &jsonOutput),
		newDeleteCmd(cfg),
		newExportCmd(cfg),
		newImageCmd(cfg, &jsonOutput),
		newSrvCmd(cfg),
		newConfigCmd(cfg),
	)

	return cmd
}
