package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bcms/internal/models"
)

// postsKey is the single named key holding the JSON-serialized ordered post
// collection, most-recent-first.
const postsKey = "posts"

// LoadAll returns every stored post in collection order. A malformed stored
// value degrades to an empty collection with a logged diagnostic instead of
// failing the caller.
func (s *Store) LoadAll(ctx context.Context) ([]models.Post, error) {
	raw, found, err := s.readValue(ctx, postsKey)
	if err != nil {
		return nil, fmt.Errorf("%w: load posts: %v", models.ErrStorageUnavailable, err)
	}
	if !found {
		return []models.Post{}, nil
	}

	var posts []models.Post
	if err := json.Unmarshal([]byte(raw), &posts); err != nil {
		slog.Warn("post collection is malformed, starting from an empty collection", "error", err)
		return []models.Post{}, nil
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// Save upserts one post by id: an existing post is replaced in place, a new
// post is inserted at the front. Saving an identical post twice leaves the
// stored collection unchanged.
func (s *Store) Save(ctx context.Context, post models.Post) error {
	if post.ID == "" {
		return fmt.Errorf("post id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range posts {
		if posts[i].ID == post.ID {
			posts[i] = post
			replaced = true
			break
		}
	}
	if !replaced {
		posts = append([]models.Post{post}, posts...)
	}

	return s.writePosts(ctx, posts)
}

// Delete removes the post with the given id. Deleting an unknown id is a
// no-op. Referenced blobs are left untouched.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}

	kept := posts[:0]
	for _, p := range posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}

	return s.writePosts(ctx, kept)
}

func (s *Store) writePosts(ctx context.Context, posts []models.Post) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("encode posts: %w", err)
	}
	if err := s.writeValue(ctx, postsKey, string(raw)); err != nil {
		return fmt.Errorf("%w: write posts: %v", models.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) readValue(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) writeValue(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}
