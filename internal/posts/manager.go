// Package posts owns the in-memory post collection and drives every
// lifecycle transition against the durable store: create, update,
// publish-toggle and delete, with content edits routed through the autosave
// coordinator.
package posts

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"bcms/internal/autosave"
	"bcms/internal/models"
	"bcms/internal/store"
)

// Manager is the single writer over the post collection. The in-memory
// ordered collection (most-recent-first) is mutated only through its
// methods.
type Manager struct {
	store  store.PostStore
	saver  *autosave.Coordinator
	logger *slog.Logger

	mu    sync.Mutex
	posts []models.Post

	tsMu       sync.Mutex
	lastMillis int64
}

// Option configures a Manager.
type Option func(*Manager) []autosave.Option

// WithAutosaveDelay overrides the debounce quiet window for content edits.
func WithAutosaveDelay(delay time.Duration) Option {
	return func(*Manager) []autosave.Option {
		return []autosave.Option{autosave.WithDelay(delay)}
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) []autosave.Option {
		if logger != nil {
			m.logger = logger
		}
		return nil
	}
}

// NewManager creates a Manager persisting through st.
func NewManager(st store.PostStore, opts ...Option) *Manager {
	m := &Manager{store: st, logger: slog.Default()}

	var saverOpts []autosave.Option
	for _, opt := range opts {
		saverOpts = append(saverOpts, opt(m)...)
	}
	saverOpts = append(saverOpts, autosave.WithLogger(m.logger))
	m.saver = autosave.New(m.commitContent, saverOpts...)
	return m
}

// Load populates the in-memory collection from the store.
func (m *Manager) Load(ctx context.Context) error {
	posts, err := m.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.posts = posts
	m.mu.Unlock()
	return nil
}

// Create allocates a new post with default title, nil content and
// published=false, inserts it at the front and persists it.
func (m *Manager) Create(ctx context.Context) (models.Post, error) {
	now := m.nextMillis()
	post := models.Post{
		ID:        uuid.NewString(),
		Title:     models.DefaultPostTitle,
		Content:   nil,
		CreatedAt: now,
		UpdatedAt: now,
		Published: false,
	}

	m.mu.Lock()
	m.posts = append([]models.Post{post}, m.posts...)
	m.mu.Unlock()

	if err := m.store.Save(ctx, post); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// Update replaces the matching post and persists it directly. Title and
// publish-state changes go through here; content edits go through
// EditContent so they are debounced.
func (m *Manager) Update(ctx context.Context, post models.Post) error {
	m.mu.Lock()
	replaced := m.replaceLocked(post)
	m.mu.Unlock()
	if !replaced {
		return models.ErrPostNotFound
	}
	return m.store.Save(ctx, post)
}

// SetTitle renames the post, stamps UpdatedAt and persists it directly.
func (m *Manager) SetTitle(ctx context.Context, id, title string) (models.Post, error) {
	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return models.Post{}, models.ErrPostNotFound
	}
	m.posts[idx].Title = title
	m.posts[idx].UpdatedAt = m.nextMillis()
	changed := m.posts[idx].Clone()
	m.mu.Unlock()

	if err := m.store.Save(ctx, changed); err != nil {
		return models.Post{}, err
	}
	return changed, nil
}

// EditContent records a content edit for the post. UpdatedAt is stamped now,
// at request time; the commit itself is debounced and may flush later or
// never (when the content is unchanged). Reports whether a commit was
// scheduled.
func (m *Manager) EditContent(id string, content *models.Document) (models.Post, bool, error) {
	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return models.Post{}, false, models.ErrPostNotFound
	}
	snapshot := m.posts[idx].Clone()
	m.mu.Unlock()

	snapshot.Content = content.Clone()
	snapshot.UpdatedAt = m.nextMillis()

	scheduled := m.saver.Enqueue(snapshot)
	return snapshot, scheduled, nil
}

// TogglePublish flips the published flag, refreshes UpdatedAt and persists
// only the changed post.
func (m *Manager) TogglePublish(ctx context.Context, id string) (models.Post, error) {
	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return models.Post{}, models.ErrPostNotFound
	}
	m.posts[idx].Published = !m.posts[idx].Published
	m.posts[idx].UpdatedAt = m.nextMillis()
	changed := m.posts[idx].Clone()
	m.mu.Unlock()

	if err := m.store.Save(ctx, changed); err != nil {
		return models.Post{}, err
	}
	return changed, nil
}

// Delete removes the post from the collection and the store. It is
// unconditional at this layer; any confirmation step belongs to the caller.
// Blobs referenced by the content are deliberately left in place.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.saver.Cancel(id)

	m.mu.Lock()
	kept := m.posts[:0]
	for _, p := range m.posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	m.posts = kept
	m.mu.Unlock()

	return m.store.Delete(ctx, id)
}

// Get returns the post with the given id.
func (m *Manager) Get(id string) (models.Post, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if idx := m.indexLocked(id); idx >= 0 {
		return m.posts[idx].Clone(), true
	}
	return models.Post{}, false
}

// List returns the collection in order, most-recent-first.
func (m *Manager) List() []models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Post, len(m.posts))
	for i, p := range m.posts {
		out[i] = p.Clone()
	}
	return out
}

// Flush commits any pending content edits immediately.
func (m *Manager) Flush(ctx context.Context) error {
	return m.saver.Flush(ctx)
}

// PendingDeadline exposes the autosave deadline for a post, if any.
func (m *Manager) PendingDeadline(id string) (time.Time, bool) {
	return m.saver.PendingDeadline(id)
}

// commitContent is the autosave commit target. The snapshot was captured at
// edit time, so direct saves (title, publish toggle) may have landed since;
// only the content and the newest UpdatedAt are merged into the current
// record, never the snapshot's other fields. A post deleted while the commit
// was pending is left deleted.
func (m *Manager) commitContent(ctx context.Context, post models.Post) error {
	m.mu.Lock()
	idx := m.indexLocked(post.ID)
	if idx < 0 {
		m.mu.Unlock()
		return nil
	}
	merged := m.posts[idx]
	merged.Content = post.Content
	if post.UpdatedAt > merged.UpdatedAt {
		merged.UpdatedAt = post.UpdatedAt
	}
	m.posts[idx] = merged
	snapshot := merged.Clone()
	m.mu.Unlock()

	return m.store.Save(ctx, snapshot)
}

func (m *Manager) indexLocked(id string) int {
	for i := range m.posts {
		if m.posts[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) replaceLocked(post models.Post) bool {
	if idx := m.indexLocked(post.ID); idx >= 0 {
		m.posts[idx] = post
		return true
	}
	return false
}

// nextMillis returns the current time in Unix milliseconds, bumped when
// needed so timestamps handed out by this manager strictly increase.
func (m *Manager) nextMillis() int64 {
	m.tsMu.Lock()
	defer m.tsMu.Unlock()
	now := models.NowMillis()
	if now <= m.lastMillis {
		now = m.lastMillis + 1
	}
	m.lastMillis = now
	return now
}
