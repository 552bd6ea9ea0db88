// Package draftsync implements the optimistic-local-edit, explicit-
// commit workflow every admin editing surface shares. A Controller
// holds the last authoritative collection ("live") and a mutable
// working copy ("draft"); edits touch only the draft, and a single
// commit pushes the whole draft back through an injected persist
// collaborator with replace-all semantics. Nothing partially edited is
// ever visible through Live.
package draftsync

import (
	"context"
	"errors"
	"slices"
	"sync"
)

var (
	// ErrCommitInFlight is returned when a second commit starts while
	// one is still pending on the same controller.
	ErrCommitInFlight = errors.New("commit already in flight")

	// ErrConflict is returned when committing over a draft whose live
	// collection changed externally after the last seed. Callers either
	// discard (adopting the new live) or force the commit, accepting
	// last-write-wins at the store.
	ErrConflict = errors.New("live collection changed since draft was seeded")
)

// PersistFunc writes the entire collection to the backing store.
type PersistFunc[T any] func(ctx context.Context, items []T) error

// Controller is the draft/sync state machine for one collection.
// Items are copied at the slice level only; treat T as an immutable
// value record and replace items through Mutate rather than editing
// them in place.
type Controller[T any] struct {
	mu       sync.Mutex
	live     []T
	draft    []T
	pending  []T
	dirty    bool
	conflict bool
	saving   bool
	gen      uint64
}

// New returns a controller seeded from live.
func New[T any](live []T) *Controller[T] {
	return &Controller[T]{
		live:  slices.Clone(live),
		draft: slices.Clone(live),
	}
}

// Seed installs a fresh authoritative collection. On a clean controller
// the draft is re-seeded from it. On a dirty controller the draft is
// kept, the incoming value is parked for a later Discard, and the
// conflict flag is raised so the caller can warn instead of silently
// editing stale data.
func (c *Controller[T]) Seed(live []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		c.live = slices.Clone(live)
		c.draft = slices.Clone(live)
		c.pending = nil
		c.conflict = false
		return
	}
	c.pending = slices.Clone(live)
	c.conflict = true
}

// Mutate replaces the draft with update(draft) and marks the controller
// dirty unconditionally, even when the updater is a no-op. Dirty is a
// "might have changed" flag, not a structural diff.
func (c *Controller[T]) Mutate(update func(items []T) []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft = update(c.draft)
	c.dirty = true
	c.gen++
}

// Commit pushes the whole draft through persist. On success the draft
// becomes the new live and the controller is clean again; on failure
// the draft and dirty flag are untouched, so nothing is lost and the
// caller may retry. A conflicted controller refuses to commit; use
// ForceCommit to overwrite anyway.
func (c *Controller[T]) Commit(ctx context.Context, persist PersistFunc[T]) error {
	return c.commit(ctx, persist, false)
}

// ForceCommit commits even over a conflict, accepting last-write-wins.
func (c *Controller[T]) ForceCommit(ctx context.Context, persist PersistFunc[T]) error {
	return c.commit(ctx, persist, true)
}

func (c *Controller[T]) commit(ctx context.Context, persist PersistFunc[T], force bool) error {
	c.mu.Lock()
	if c.saving {
		c.mu.Unlock()
		return ErrCommitInFlight
	}
	if c.conflict && !force {
		c.mu.Unlock()
		return ErrConflict
	}
	snapshot := slices.Clone(c.draft)
	startGen := c.gen
	c.saving = true
	c.mu.Unlock()

	err := persist(ctx, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.saving = false
	if err != nil {
		return err
	}
	c.live = snapshot
	c.pending = nil
	c.conflict = false
	// Edits raced the commit only if gen moved; they stay dirty against
	// the new live.
	if c.gen == startGen {
		c.dirty = false
	}
	return nil
}

// Discard throws the draft away. If a conflicting live arrived while
// the draft was dirty, it is adopted now.
func (c *Controller[T]) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil {
		c.live = c.pending
		c.pending = nil
	}
	c.draft = slices.Clone(c.live)
	c.dirty = false
	c.conflict = false
}

// Live returns a copy of the last authoritative collection. Public
// reads always come from here, never from the draft.
func (c *Controller[T]) Live() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.live)
}

// Draft returns a copy of the working collection.
func (c *Controller[T]) Draft() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.draft)
}

// Dirty reports whether the draft may differ from live.
func (c *Controller[T]) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Conflict reports whether live changed externally under a dirty draft.
func (c *Controller[T]) Conflict() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conflict
}

// Saving reports whether a commit is in flight.
func (c *Controller[T]) Saving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saving
}
