package posts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"bcms/internal/blobstore"
	"bcms/internal/models"
	"bcms/internal/store"
)

func testManager(t *testing.T, opts ...Option) (*Manager, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	m := NewManager(st, opts...)
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return m, st
}

func TestCreateDefaults(t *testing.T) {
	m, st := testManager(t)
	ctx := context.Background()

	post, err := m.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.ID == "" {
		t.Fatal("expected a generated id")
	}
	if post.Title != models.DefaultPostTitle {
		t.Fatalf("expected default title, got %q", post.Title)
	}
	if post.Content != nil {
		t.Fatal("content must be nil until the first edit")
	}
	if post.Published {
		t.Fatal("new posts must be unpublished")
	}
	if post.UpdatedAt < post.CreatedAt {
		t.Fatalf("updatedAt %d older than createdAt %d", post.UpdatedAt, post.CreatedAt)
	}

	stored, err := st.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load stored: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != post.ID {
		t.Fatalf("create not persisted: %+v", stored)
	}
}

func TestCreateInsertsAtFront(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()

	first, _ := m.Create(ctx)
	second, _ := m.Create(ctx)

	list := m.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatal("expected most-recent-first order")
	}
}

func TestUpdateTitle(t *testing.T) {
	m, st := testManager(t)
	ctx := context.Background()

	post, _ := m.Create(ctx)
	post.Title = "Renamed"
	if err := m.Update(ctx, post); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, ok := m.Get(post.ID)
	if !ok || got.Title != "Renamed" {
		t.Fatalf("in-memory title not updated: %+v", got)
	}
	stored, _ := st.LoadAll(ctx)
	if stored[0].Title != "Renamed" {
		t.Fatalf("stored title not updated: %+v", stored[0])
	}

	unknown := post
	unknown.ID = "missing"
	if err := m.Update(ctx, unknown); !errors.Is(err, models.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestTogglePublishTwice(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()

	post, _ := m.Create(ctx)

	once, err := m.TogglePublish(ctx, post.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !once.Published {
		t.Fatal("expected published after first toggle")
	}
	if once.UpdatedAt <= post.UpdatedAt {
		t.Fatalf("updatedAt must strictly increase: %d <= %d", once.UpdatedAt, post.UpdatedAt)
	}

	twice, err := m.TogglePublish(ctx, post.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if twice.Published {
		t.Fatal("expected original unpublished state after second toggle")
	}
	if twice.UpdatedAt <= once.UpdatedAt {
		t.Fatalf("updatedAt must strictly increase again: %d <= %d", twice.UpdatedAt, once.UpdatedAt)
	}
}

func TestEditContentDebounced(t *testing.T) {
	m, st := testManager(t, WithAutosaveDelay(20*time.Millisecond))
	ctx := context.Background()

	post, _ := m.Create(ctx)
	content := &models.Document{Blocks: []models.Block{
		{Type: "paragraph", Data: json.RawMessage(`{"text":"draft"}`)},
	}}

	snapshot, scheduled, err := m.EditContent(post.ID, content)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !scheduled {
		t.Fatal("first content edit must schedule a commit")
	}
	if snapshot.UpdatedAt <= post.UpdatedAt {
		t.Fatal("edit must stamp a newer updatedAt")
	}

	if err := m.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	stored, _ := st.LoadAll(ctx)
	if stored[0].Content == nil || len(stored[0].Content.Blocks) != 1 {
		t.Fatalf("content not persisted: %+v", stored[0].Content)
	}
	got, _ := m.Get(post.ID)
	if got.Content == nil {
		t.Fatal("in-memory collection not reconciled after commit")
	}

	// The same content again is suppressed outright.
	_, scheduled, err = m.EditContent(post.ID, content)
	if err != nil {
		t.Fatalf("second edit: %v", err)
	}
	if scheduled {
		t.Fatal("unchanged content must not schedule a commit")
	}
}

func TestFlushKeepsDirectSavesAfterEdit(t *testing.T) {
	m, st := testManager(t, WithAutosaveDelay(time.Hour))
	ctx := context.Background()

	post, _ := m.Create(ctx)
	content := &models.Document{Blocks: []models.Block{
		{Type: "paragraph", Data: json.RawMessage(`{"text":"draft"}`)},
	}}
	if _, _, err := m.EditContent(post.ID, content); err != nil {
		t.Fatalf("edit: %v", err)
	}

	// A direct save lands while the content commit is still pending. The
	// later flush must not roll it back.
	toggled, err := m.TogglePublish(ctx, post.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.Published {
		t.Fatal("expected published after toggle")
	}

	if err := m.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	stored, _ := st.LoadAll(ctx)
	if len(stored) != 1 {
		t.Fatalf("expected 1 post, got %d", len(stored))
	}
	if !stored[0].Published {
		t.Fatal("flush reverted the publish toggle")
	}
	if stored[0].UpdatedAt < toggled.UpdatedAt {
		t.Fatalf("flush rolled updatedAt backwards: %d < %d", stored[0].UpdatedAt, toggled.UpdatedAt)
	}
	if stored[0].Content == nil || len(stored[0].Content.Blocks) != 1 {
		t.Fatalf("flush lost the pending content: %+v", stored[0].Content)
	}

	got, _ := m.Get(post.ID)
	if !got.Published || got.Content == nil {
		t.Fatalf("in-memory record inconsistent after flush: %+v", got)
	}
}

func TestDeleteDoesNotCascadeToBlobs(t *testing.T) {
	m, st := testManager(t)
	ctx := context.Background()

	blobs, err := blobstore.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new blob store: %v", err)
	}
	blobID, err := blobs.Save(ctx, bytes.NewReader([]byte("image bytes")))
	if err != nil {
		t.Fatalf("save blob: %v", err)
	}

	post, _ := m.Create(ctx)
	raw, _ := json.Marshal(map[string]any{"file": map[string]any{"imageId": blobID}})
	content := &models.Document{Blocks: []models.Block{{Type: models.BlockTypeImage, Data: raw}}}
	if _, _, err := m.EditContent(post.ID, content); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := m.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if err := m.Delete(ctx, post.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, ok := m.Get(post.ID); ok {
		t.Fatal("post still in collection after delete")
	}
	stored, _ := st.LoadAll(ctx)
	if len(stored) != 0 {
		t.Fatalf("post still stored after delete: %+v", stored)
	}

	asset, err := blobs.Get(ctx, blobID)
	if err != nil {
		t.Fatalf("get blob: %v", err)
	}
	if asset == nil {
		t.Fatal("deleting a post must not delete referenced blobs")
	}
}

func TestDeleteCancelsPendingAutosave(t *testing.T) {
	m, st := testManager(t, WithAutosaveDelay(30*time.Millisecond))
	ctx := context.Background()

	post, _ := m.Create(ctx)
	content := &models.Document{Blocks: []models.Block{
		{Type: "paragraph", Data: json.RawMessage(`{"text":"doomed"}`)},
	}}
	if _, _, err := m.EditContent(post.ID, content); err != nil {
		t.Fatalf("edit: %v", err)
	}

	if err := m.Delete(ctx, post.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	stored, _ := st.LoadAll(ctx)
	if len(stored) != 0 {
		t.Fatalf("pending autosave resurrected a deleted post: %+v", stored)
	}
}

func TestLoadAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restart.db")
	ctx := context.Background()

	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	m := NewManager(st)
	post, err := m.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st, err = store.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()
	m = NewManager(st)
	if err := m.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	got, ok := m.Get(post.ID)
	if !ok {
		t.Fatal("post lost across restart")
	}
	if got.Title != models.DefaultPostTitle || got.CreatedAt != post.CreatedAt {
		t.Fatalf("post changed across restart: %+v", got)
	}
}
