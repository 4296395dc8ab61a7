package main

import (
	"os"

	"github.com/spf13/cobra"

	"bcms/internal/config"
	"bcms/internal/models"
)

func newImageCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Manage stored images",
	}
	cmd.AddCommand(
		newImageAddCmd(cfg, jsonOutput),
		newImageLsCmd(cfg, jsonOutput),
		newImageRmCmd(cfg),
	)
	return cmd
}

func newImageAddCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file>",
		Short: "Store an image and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), cfg, func(deps *appDeps) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()

				id, err := deps.blobs.Save(cmd.Context(), f)
				if err != nil {
					return err
				}

				if *jsonOutput {
					asset, err := deps.blobs.Stat(cmd.Context(), id)
					if err != nil {
						return err
					}
					return writeJSON(asset)
				}
				return writePlain("%s\n", id)
			})
		},
	}
}

func newImageLsCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List stored images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), cfg, func(deps *appDeps) error {
				assets, err := deps.blobs.List(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					if assets == nil {
						assets = []models.BlobAsset{}
					}
					return writeJSON(assets)
				}
				for _, asset := range assets {
					if err := writePlain("%s  %s  %d\n", asset.ID, asset.ContentType, asset.SizeBytes); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newImageRmCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a stored image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), cfg, func(deps *appDeps) error {
				if err := deps.blobs.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				return writePlain("removed %s\n", args[0])
			})
		},
	}
}
