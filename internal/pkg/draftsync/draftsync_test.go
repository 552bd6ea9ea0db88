package draftsync_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolboard/core/internal/pkg/draftsync"
)

type item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func okPersist(saved *[]item) draftsync.PersistFunc[item] {
	return func(_ context.Context, items []item) error {
		*saved = items
		return nil
	}
}

func TestSeedThenMutateThenCommit(t *testing.T) {
	c := draftsync.New([]item{{ID: "1", Title: "A"}})

	c.Mutate(func(items []item) []item {
		return append(items, item{ID: "2", Title: "B"})
	})

	assert.True(t, c.Dirty())
	assert.Len(t, c.Draft(), 2)
	assert.Len(t, c.Live(), 1, "public reads must not see the draft")

	var saved []item
	require.NoError(t, c.Commit(context.Background(), okPersist(&saved)))

	assert.False(t, c.Dirty())
	assert.Len(t, c.Live(), 2)
	assert.Equal(t, c.Draft(), c.Live())
	assert.Len(t, saved, 2, "commit pushes the entire draft, not a diff")
}

func TestCommitFailureLosesNothing(t *testing.T) {
	c := draftsync.New([]item{{ID: "1", Title: "A"}})
	c.Mutate(func(items []item) []item {
		return append(items, item{ID: "2", Title: "B"})
	})

	errNetwork := errors.New("network error")
	err := c.Commit(context.Background(), func(context.Context, []item) error {
		return errNetwork
	})
	require.ErrorIs(t, err, errNetwork, "caller receives the rejection reason")

	assert.True(t, c.Dirty(), "failed commit leaves the draft unsaved and editable")
	assert.Len(t, c.Draft(), 2)
	assert.Len(t, c.Live(), 1)
}

func TestMutateMarksDirtyEvenWhenNoop(t *testing.T) {
	c := draftsync.New([]item{{ID: "1"}})
	c.Mutate(func(items []item) []item { return items })
	assert.True(t, c.Dirty())
}

func TestDiscardResetsDraftToLive(t *testing.T) {
	c := draftsync.New([]item{{ID: "1", Title: "A"}})
	c.Mutate(func(items []item) []item { return nil })
	require.True(t, c.Dirty())

	c.Discard()
	assert.False(t, c.Dirty())
	assert.Equal(t, c.Live(), c.Draft())
	assert.Len(t, c.Draft(), 1)
}

func TestSeedWhileCleanReplacesDraft(t *testing.T) {
	c := draftsync.New[item](nil)
	c.Seed([]item{{ID: "1"}, {ID: "2"}})
	assert.Len(t, c.Draft(), 2)
	assert.False(t, c.Dirty())
	assert.False(t, c.Conflict())
}

func TestSeedWhileDirtyRaisesConflict(t *testing.T) {
	c := draftsync.New([]item{{ID: "1", Title: "A"}})
	c.Mutate(func(items []item) []item {
		return append(items, item{ID: "2", Title: "B"})
	})

	// Another session committed under us.
	c.Seed([]item{{ID: "1", Title: "renamed"}})

	assert.True(t, c.Conflict())
	assert.Len(t, c.Draft(), 2, "dirty draft is kept, not clobbered")

	err := c.Commit(context.Background(), func(context.Context, []item) error { return nil })
	assert.ErrorIs(t, err, draftsync.ErrConflict)

	var saved []item
	require.NoError(t, c.ForceCommit(context.Background(), okPersist(&saved)))
	assert.False(t, c.Conflict())
	assert.Len(t, saved, 2, "forced commit is last-write-wins")
}

func TestDiscardAdoptsPendingLiveAfterConflict(t *testing.T) {
	c := draftsync.New([]item{{ID: "1", Title: "A"}})
	c.Mutate(func(items []item) []item { return nil })
	c.Seed([]item{{ID: "1", Title: "renamed"}, {ID: "9", Title: "new"}})
	require.True(t, c.Conflict())

	c.Discard()
	assert.False(t, c.Conflict())
	assert.False(t, c.Dirty())
	require.Len(t, c.Draft(), 2)
	assert.Equal(t, "renamed", c.Draft()[0].Title)
}

func TestCommitInFlightRejected(t *testing.T) {
	c := draftsync.New([]item{{ID: "1"}})
	c.Mutate(func(items []item) []item { return items })

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- c.Commit(context.Background(), func(context.Context, []item) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	assert.True(t, c.Saving())
	err := c.Commit(context.Background(), func(context.Context, []item) error { return nil })
	assert.ErrorIs(t, err, draftsync.ErrCommitInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, c.Saving())
	assert.False(t, c.Dirty())
}

func TestMutateDuringCommitStaysDirty(t *testing.T) {
	c := draftsync.New([]item{{ID: "1"}})
	c.Mutate(func(items []item) []item { return items })

	err := c.Commit(context.Background(), func(context.Context, []item) error {
		// An edit lands while the write is on the wire.
		c.Mutate(func(items []item) []item {
			return append(items, item{ID: "2"})
		})
		return nil
	})
	require.NoError(t, err)
	assert.True(t, c.Dirty(), "racing edit must survive the commit")
	assert.Len(t, c.Draft(), 2)
	assert.Len(t, c.Live(), 1)
}

func TestMoveUpAtTopIsNoop(t *testing.T) {
	in := []item{{ID: "1"}, {ID: "2"}}
	out := draftsync.Move(in, 0, draftsync.Up)
	assert.Equal(t, in, out)
	assert.Same(t, &in[0], &out[0], "no-op returns the input slice")
}

func TestMoveDownAtBottomIsNoop(t *testing.T) {
	in := []item{{ID: "1"}, {ID: "2"}}
	out := draftsync.Move(in, len(in)-1, draftsync.Down)
	assert.Equal(t, in, out)
}

func TestMoveSwapsNeighbours(t *testing.T) {
	in := []item{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	out := draftsync.Move(in, 0, draftsync.Down)
	assert.Equal(t, []string{"2", "1", "3"}, ids(out))
	assert.Equal(t, []string{"1", "2", "3"}, ids(in), "input is untouched")

	back := draftsync.Move(out, 1, draftsync.Up)
	assert.Equal(t, ids(in), ids(back), "swapping twice restores order")
}

func TestMoveOutOfRangeIndex(t *testing.T) {
	in := []item{{ID: "1"}}
	assert.Equal(t, in, draftsync.Move(in, -1, draftsync.Down))
	assert.Equal(t, in, draftsync.Move(in, 5, draftsync.Up))
}

func ids(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
