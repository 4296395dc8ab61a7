package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"bcms/internal/models"
)

func writeJSON(payload any) error {
	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writePostList(posts []models.Post) error {
	for _, post := range posts {
		if err := writePlain("%s\n", formatPostLine(post)); err != nil {
			return err
		}
	}
	return nil
}

func writePostDetail(post models.Post) error {
	blocks := 0
	if post.Content != nil {
		blocks = len(post.Content.Blocks)
	}
	lines := fmt.Sprintf(
		"id: %s\ntitle: %s\npublished: %t\nblocks: %d\ncreated_at: %s\nupdated_at: %s",
		post.ID, post.Title, post.Published, blocks,
		formatMillis(post.CreatedAt), formatMillis(post.UpdatedAt),
	)
	return writePlain("%s\n", lines)
}

func formatPostLine(post models.Post) string {
	marker := "draft"
	if post.Published {
		marker = "published"
	}
	return fmt.Sprintf("%s [%s] - %s", post.ID, marker, post.Title)
}

func formatMillis(millis int64) string {
	return time.UnixMilli(millis).UTC().Format(time.RFC3339)
}
