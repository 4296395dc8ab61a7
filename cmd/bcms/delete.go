package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bcms/internal/config"
	"bcms/internal/models"
)

func newDeleteCmd(cfg *config.Config) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post",
		Long: `Delete a post from the collection. Images referenced by the post are
kept in the asset store; remove them with "image rm" when no longer needed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), cfg, func(deps *appDeps) error {
				id := args[0]
				post, ok := deps.manager.Get(id)
				if !ok {
					return models.ErrPostNotFound
				}

				if !yes {
					if err := writePlain("delete %q (%s)? [y/N] ", post.Title, post.ID); err != nil {
						return err
					}
					line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
					answer := strings.ToLower(strings.TrimSpace(line))
					if answer != "y" && answer != "yes" {
						return writePlain("aborted\n")
					}
				}

				if err := deps.manager.Delete(cmd.Context(), id); err != nil {
					return err
				}
				return writePlain("deleted %s\n", id)
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
