package main

import (
	"github.com/spf13/cobra"

	"bcms/internal/config"
	"bcms/internal/models"
)

func newListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var publishedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), cfg, func(deps *appDeps) error {
				posts := deps.manager.List()
				if publishedOnly {
					filtered := make([]models.Post, 0, len(posts))
					for _, p := range posts {
						if p.Published {
							filtered = append(filtered, p)
						}
					}
					posts = filtered
				}

				if *jsonOutput {
					return writeJSON(posts)
				}
				return writePostList(posts)
			})
		},
	}

	cmd.Flags().BoolVar(&publishedOnly, "published", false, "only published posts")

	return cmd
}
