// Package autosave bridges high-frequency content edits to the post store.
// It debounces commits so rapid edit bursts collapse into one write, and it
// fingerprints content so semantically unchanged snapshots never reach
// storage at all.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"bcms/internal/models"
)

// DefaultDelay is the quiet window that must elapse after the last
// qualifying edit before a pending snapshot is committed.
const DefaultDelay = 800 * time.Millisecond

// CommitFunc persists one post snapshot.
type CommitFunc func(ctx context.Context, post models.Post) error

// pending is the Pending state of the per-post debounce machine: the newest
// snapshot together with its fingerprint and the commit deadline. A newer
// qualifying edit replaces the snapshot and pushes the deadline out; the
// deadline elapsing commits the snapshot and returns the post to Idle.
type pending struct {
	snapshot    models.Post
	fingerprint string
	deadline    time.Time
	timer       *time.Timer

	// gen identifies the timer armed for this snapshot. A timer that
	// expired just as its snapshot was replaced carries a stale gen and
	// must not commit; only the newest timer may fire the commit.
	gen uint64
}

// Coordinator coalesces edits per post id. At most one commit is pending per
// post at any time; a newer snapshot strictly supersedes an older pending
// one. No ordering is guaranteed across different posts.
type Coordinator struct {
	commit CommitFunc
	delay  time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu        sync.Mutex
	pending   map[string]*pending
	committed map[string]string // last successfully committed fingerprint per post
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDelay overrides the debounce quiet window.
func WithDelay(delay time.Duration) Option {
	return func(c *Coordinator) {
		if delay > 0 {
			c.delay = delay
		}
	}
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Coordinator committing through commit.
func New(commit CommitFunc, opts ...Option) *Coordinator {
	c := &Coordinator{
		commit:    commit,
		delay:     DefaultDelay,
		now:       time.Now,
		logger:    slog.Default(),
		pending:   make(map[string]*pending),
		committed: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enqueue schedules a debounced commit for the post snapshot. The snapshot
// must already carry the UpdatedAt of the edit request; the coordinator
// persists it unchanged regardless of when the commit fires.
//
// Returns false when the call was dropped because the content fingerprint
// matches the last successfully committed content: no timer is started or
// reset, no store write occurs.
func (c *Coordinator) Enqueue(post models.Post) bool {
	fp, err := Fingerprint(post.Content)
	if err != nil {
		// Content that cannot be fingerprinted cannot be serialized for
		// storage either; drop it rather than crash the editing session.
		c.logger.Warn("autosave: unfingerprintable content dropped", "post", post.ID, "error", err)
		return false
	}

	snapshot := post.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.committed[post.ID] == fp {
		return false
	}

	id := post.ID
	if p, ok := c.pending[id]; ok {
		// Replace the pending snapshot and restart the quiet window. The
		// old timer is dropped rather than reset: it may already have
		// expired and be waiting on the mutex, and a reset would let it
		// commit the replacement before the new window elapses.
		p.timer.Stop()
		p.snapshot = snapshot
		p.fingerprint = fp
		p.deadline = c.now().Add(c.delay)
		p.gen++
		gen := p.gen
		p.timer = time.AfterFunc(c.delay, func() { c.fire(id, gen) })
		return true
	}

	p := &pending{
		snapshot:    snapshot,
		fingerprint: fp,
		deadline:    c.now().Add(c.delay),
	}
	gen := p.gen
	p.timer = time.AfterFunc(c.delay, func() { c.fire(id, gen) })
	c.pending[id] = p
	return true
}

// PendingDeadline reports the commit deadline for a post, if one is pending.
func (c *Coordinator) PendingDeadline(id string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pending[id]
	if !ok {
		return time.Time{}, false
	}
	return p.deadline, true
}

// Cancel drops any pending commit for the post without committing it.
func (c *Coordinator) Cancel(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pending[id]; ok {
		p.timer.Stop()
		delete(c.pending, id)
	}
}

// Flush commits every pending snapshot immediately. Used on shutdown so an
// in-flight quiet window cannot lose the last edit.
func (c *Coordinator) Flush(ctx context.Context) error {
	c.mu.Lock()
	var snapshots []*pending
	for id, p := range c.pending {
		p.timer.Stop()
		delete(c.pending, id)
		snapshots = append(snapshots, p)
	}
	c.mu.Unlock()

	var firstErr error
	for _, p := range snapshots {
		if err := c.commitSnapshot(ctx, p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// fire is the deadline-elapsed transition: commit the snapshot and return
// the post to Idle. A gen mismatch means the snapshot was replaced after
// this timer expired; the newer timer owns the commit.
func (c *Coordinator) fire(id string, gen uint64) {
	c.mu.Lock()
	p, ok := c.pending[id]
	if ok && p.gen != gen {
		ok = false
	}
	if ok {
		delete(c.pending, id)
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	if err := c.commitSnapshot(context.Background(), p); err != nil {
		// The session keeps running; the fingerprint stays unchanged so
		// the next qualifying edit re-attempts the write.
		c.logger.Warn("autosave: commit failed, will retry on next edit", "post", p.snapshot.ID, "error", err)
	}
}

func (c *Coordinator) commitSnapshot(ctx context.Context, p *pending) error {
	if err := c.commit(ctx, p.snapshot); err != nil {
		return err
	}
	c.mu.Lock()
	c.committed[p.snapshot.ID] = p.fingerprint
	c.mu.Unlock()
	return nil
}
