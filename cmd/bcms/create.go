package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bcms/internal/config"
)

func newCreateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a new post",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), cfg, func(deps *appDeps) error {
				ctx := cmd.Context()

				post, err := deps.manager.Create(ctx)
				if err != nil {
					return err
				}

				if filePath != "" {
					raw, err := os.ReadFile(filePath)
					if err != nil {
						return err
					}
					front, doc, err := parseMarkdownPost(string(raw))
					if err != nil {
						return err
					}
					if front.Title != "" {
						if post, err = deps.manager.SetTitle(ctx, post.ID, front.Title); err != nil {
							return err
						}
					}
					if doc != nil {
						if post, _, err = deps.manager.EditContent(post.ID, doc); err != nil {
							return err
						}
					}
					if front.Published {
						if post, err = deps.manager.TogglePublish(ctx, post.ID); err != nil {
							return err
						}
					}
				} else if len(args) > 0 {
					if post, err = deps.manager.SetTitle(ctx, post.ID, strings.Join(args, " ")); err != nil {
						return err
					}
				}

				if *jsonOutput {
					return writeJSON(post)
				}
				return writePlain("%s\n", post.ID)
			})
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "create from a markdown file with YAML front matter")

	return cmd
}
