package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bcms/internal/config"
)

func newUpdateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update post metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("title") {
				return fmt.Errorf("nothing to update; pass --title")
			}
			return withDeps(cmd.Context(), cfg, func(deps *appDeps) error {
				post, err := deps.manager.SetTitle(cmd.Context(), args[0], title)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(post)
				}
				return writePlain("%s\n", post.ID)
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")

	return cmd
}
