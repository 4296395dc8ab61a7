package main

import (
	"github.com/spf13/cobra"

	"bcms/internal/config"
	"bcms/internal/models"
)

func newShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), cfg, func(deps *appDeps) error {
				post, ok := deps.manager.Get(args[0])
				if !ok {
					return models.ErrPostNotFound
				}
				if *jsonOutput {
					return writeJSON(post)
				}
				return writePostDetail(post)
			})
		},
	}
}
