package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bcms/internal/config"
)

func newEditCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace post content from a markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if filePath == "" {
				return fmt.Errorf("pass --file with the markdown source")
			}
			return withDeps(cmd.Context(), cfg, func(deps *appDeps) error {
				raw, err := os.ReadFile(filePath)
				if err != nil {
					return err
				}
				front, doc, err := parseMarkdownPost(string(raw))
				if err != nil {
					return err
				}

				id := args[0]
				if front.Title != "" {
					if _, err := deps.manager.SetTitle(cmd.Context(), id, front.Title); err != nil {
						return err
					}
				}
				post, _, err := deps.manager.EditContent(id, doc)
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

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "markdown file with optional YAML front matter")

	return cmd
}
