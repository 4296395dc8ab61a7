package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"bcms/internal/models"
)

// testStore creates a temporary store for testing.
func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testPost(id, title string) models.Post {
	now := models.NowMillis()
	return models.Post{
		ID:        id,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSaveAndLoadAll(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if err := st.Save(ctx, testPost("p1", "First")); err != nil {
		t.Fatalf("save: %v", err)
	}

	posts, err := st.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	if posts[0].ID != "p1" || posts[0].Title != "First" {
		t.Fatalf("unexpected post: %+v", posts[0])
	}
}

func TestSaveInsertsAtFront(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if err := st.Save(ctx, testPost("p1", "First")); err != nil {
		t.Fatalf("save p1: %v", err)
	}
	if err := st.Save(ctx, testPost("p2", "Second")); err != nil {
		t.Fatalf("save p2: %v", err)
	}

	posts, err := st.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].ID != "p2" || posts[1].ID != "p1" {
		t.Fatalf("expected most-recent-first order, got %s, %s", posts[0].ID, posts[1].ID)
	}
}

func TestSaveReplacesInPlace(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if err := st.Save(ctx, testPost("p1", "First")); err != nil {
		t.Fatalf("save p1: %v", err)
	}
	if err := st.Save(ctx, testPost("p2", "Second")); err != nil {
		t.Fatalf("save p2: %v", err)
	}

	updated := testPost("p1", "Renamed")
	if err := st.Save(ctx, updated); err != nil {
		t.Fatalf("save updated: %v", err)
	}

	posts, err := st.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected length unchanged at 2, got %d", len(posts))
	}
	if posts[0].ID != "p2" {
		t.Fatalf("expected p2 to stay at front, got %s", posts[0].ID)
	}
	if posts[1].ID != "p1" || posts[1].Title != "Renamed" {
		t.Fatalf("expected p1 replaced in place, got %+v", posts[1])
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	post := testPost("p1", "First")
	post.Content = &models.Document{Blocks: []models.Block{
		{Type: "paragraph", Data: json.RawMessage(`{"text":"hello"}`)},
	}}

	if err := st.Save(ctx, post); err != nil {
		t.Fatalf("first save: %v", err)
	}
	first, _, err := st.readValue(ctx, postsKey)
	if err != nil {
		t.Fatalf("read after first save: %v", err)
	}

	if err := st.Save(ctx, post); err != nil {
		t.Fatalf("second save: %v", err)
	}
	second, _, err := st.readValue(ctx, postsKey)
	if err != nil {
		t.Fatalf("read after second save: %v", err)
	}

	if first != second {
		t.Fatalf("saving the same post twice changed stored state:\n%s\n%s", first, second)
	}
}

func TestDelete(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if err := st.Save(ctx, testPost("p1", "First")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.Delete(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	posts, err := st.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected empty collection, got %d posts", len(posts))
	}

	// Deleting an unknown id is a no-op.
	if err := st.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
}

func TestLoadAllMalformedDegradesToEmpty(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if err := st.writeValue(ctx, postsKey, "{not json"); err != nil {
		t.Fatalf("seed malformed value: %v", err)
	}

	posts, err := st.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load should not fail on malformed data: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected empty collection, got %d", len(posts))
	}

	// A save after recovery replaces the malformed value.
	if err := st.Save(ctx, testPost("p1", "Fresh")); err != nil {
		t.Fatalf("save after recovery: %v", err)
	}
	posts, err = st.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load after recovery: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "p1" {
		t.Fatalf("unexpected collection after recovery: %+v", posts)
	}
}

func TestRoundTripAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.db")
	ctx := context.Background()

	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	post := testPost("p1", "Durable")
	post.Published = true
	post.Content = &models.Document{Blocks: []models.Block{
		{Type: "paragraph", Data: json.RawMessage(`{"text":"still here"}`)},
	}}
	if err := st.Save(ctx, post); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()

	posts, err := st.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post after reopen, got %d", len(posts))
	}
	got := posts[0]
	if got.ID != "p1" || got.Title != "Durable" || !got.Published {
		t.Fatalf("post changed across reopen: %+v", got)
	}
	if got.Content == nil || len(got.Content.Blocks) != 1 {
		t.Fatalf("content lost across reopen: %+v", got.Content)
	}
	if got.CreatedAt != post.CreatedAt || got.UpdatedAt != post.UpdatedAt {
		t.Fatalf("timestamps changed across reopen: %+v", got)
	}
}
