package main

import (
	"github.com/spf13/cobra"

	"bcms/internal/config"
)

func newPublishCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id>",
		Short: "Toggle the published flag on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), cfg, func(deps *appDeps) error {
				post, err := deps.manager.TogglePublish(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(post)
				}
				state := "unpublished"
				if post.Published {
					state = "published"
				}
				return writePlain("%s %s\n", post.ID, state)
			})
		},
	}
}
