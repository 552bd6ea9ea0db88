package workspace_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolboard/core/internal/modules/dashboard/workspace"
	"github.com/schoolboard/core/internal/pkg/draftsync"
)

// memStore is an in-memory backing store shared by every editor of one
// collection.
type memStore struct {
	mu    sync.Mutex
	items []json.RawMessage
	fail  error
}

func (m *memStore) fetch(ctx context.Context) ([]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]json.RawMessage, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *memStore) replace(ctx context.Context, items []json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.items = make([]json.RawMessage, len(items))
	copy(m.items, items)
	return nil
}

func doc(id, title string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"id":%q,"title":%q}`, id, title))
}

func newTestService(t *testing.T, store *memStore) *workspace.Service {
	t.Helper()
	registry := workspace.NewRegistry()
	registry.Register(workspace.NewCollection("banners", store.fetch, store.replace))
	return workspace.NewService(registry, zap.NewNop())
}

func TestOpenUnknownCollection(t *testing.T) {
	svc := newTestService(t, &memStore{})
	_, err := svc.Open(context.Background(), "sid", "nope")
	assert.ErrorIs(t, err, workspace.ErrUnknownCollection)
}

func TestStateRequiresOpen(t *testing.T) {
	svc := newTestService(t, &memStore{})
	_, err := svc.State("sid", "banners")
	assert.ErrorIs(t, err, workspace.ErrNotOpen)
}

func TestEditCycle(t *testing.T) {
	store := &memStore{items: []json.RawMessage{doc("a", "first")}}
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Open(ctx, "sid", "banners")
	require.NoError(t, err)

	added, err := svc.AddItem("sid", "banners", json.RawMessage(`{"title":"second"}`))
	require.NoError(t, err)

	var probe struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(added, &probe))
	assert.NotEmpty(t, probe.ID, "server mints ids for new items")

	state, err := svc.State("sid", "banners")
	require.NoError(t, err)
	assert.True(t, state.Dirty)
	assert.Len(t, state.Items, 2)

	// The store is untouched until commit.
	assert.Len(t, store.items, 1)

	require.NoError(t, svc.Commit(ctx, "sid", "banners", false))
	assert.Len(t, store.items, 2)

	state, err = svc.State("sid", "banners")
	require.NoError(t, err)
	assert.False(t, state.Dirty)
}

func TestUpdateKeepsID(t *testing.T) {
	store := &memStore{items: []json.RawMessage{doc("a", "first")}}
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Open(ctx, "sid", "banners")
	require.NoError(t, err)

	updated, err := svc.UpdateItem("sid", "banners", "a", json.RawMessage(`{"id":"forged","title":"renamed"}`))
	require.NoError(t, err)

	var got struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(updated, &got))
	assert.Equal(t, "a", got.ID, "the path id wins over the body id")
	assert.Equal(t, "renamed", got.Title)

	_, err = svc.UpdateItem("sid", "banners", "missing", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, workspace.ErrItemNotFound)
}

func TestRemoveMissingStillDirties(t *testing.T) {
	store := &memStore{items: []json.RawMessage{doc("a", "first")}}
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Open(ctx, "sid", "banners")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem("sid", "banners", "missing"))

	state, err := svc.State("sid", "banners")
	require.NoError(t, err)
	assert.True(t, state.Dirty)
	assert.Len(t, state.Items, 1)
}

func TestMoveSwapsNeighbours(t *testing.T) {
	store := &memStore{items: []json.RawMessage{doc("a", "1"), doc("b", "2"), doc("c", "3")}}
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Open(ctx, "sid", "banners")
	require.NoError(t, err)

	require.NoError(t, svc.MoveItem("sid", "banners", "c", draftsync.Up))

	state, err := svc.State("sid", "banners")
	require.NoError(t, err)
	require.Len(t, state.Items, 3)
	assert.JSONEq(t, string(doc("c", "3")), string(state.Items[1]))
	assert.JSONEq(t, string(doc("b", "2")), string(state.Items[2]))

	// Moving the first item up leaves the order untouched.
	require.NoError(t, svc.MoveItem("sid", "banners", "a", draftsync.Up))
	state, err = svc.State("sid", "banners")
	require.NoError(t, err)
	assert.JSONEq(t, string(doc("a", "1")), string(state.Items[0]))
}

func TestCommitRaisesConflictForOtherSessions(t *testing.T) {
	store := &memStore{items: []json.RawMessage{doc("a", "first")}}
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Open(ctx, "alice", "banners")
	require.NoError(t, err)
	_, err = svc.Open(ctx, "bob", "banners")
	require.NoError(t, err)

	_, err = svc.AddItem("alice", "banners", json.RawMessage(`{"title":"from alice"}`))
	require.NoError(t, err)
	_, err = svc.AddItem("bob", "banners", json.RawMessage(`{"title":"from bob"}`))
	require.NoError(t, err)

	require.NoError(t, svc.Commit(ctx, "alice", "banners", false))

	state, err := svc.State("bob", "banners")
	require.NoError(t, err)
	assert.True(t, state.Conflict, "bob's dirty draft must flag the overlapping commit")
	assert.True(t, state.Dirty)

	err = svc.Commit(ctx, "bob", "banners", false)
	assert.ErrorIs(t, err, draftsync.ErrConflict)

	// Force wins and lands bob's draft wholesale.
	require.NoError(t, svc.Commit(ctx, "bob", "banners", true))
	assert.Len(t, store.items, 2)
}

func TestDiscardAdoptsParkedLive(t *testing.T) {
	store := &memStore{items: []json.RawMessage{doc("a", "first")}}
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Open(ctx, "alice", "banners")
	require.NoError(t, err)
	_, err = svc.Open(ctx, "bob", "banners")
	require.NoError(t, err)

	_, err = svc.AddItem("alice", "banners", json.RawMessage(`{"title":"from alice"}`))
	require.NoError(t, err)
	_, err = svc.AddItem("bob", "banners", json.RawMessage(`{"title":"from bob"}`))
	require.NoError(t, err)
	require.NoError(t, svc.Commit(ctx, "alice", "banners", false))

	require.NoError(t, svc.Discard("bob", "banners"))

	state, err := svc.State("bob", "banners")
	require.NoError(t, err)
	assert.False(t, state.Dirty)
	assert.False(t, state.Conflict)
	assert.Len(t, state.Items, 2, "discard adopts alice's committed set")
}

func TestCommitPersistFailureKeepsDraft(t *testing.T) {
	store := &memStore{items: []json.RawMessage{doc("a", "first")}}
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Open(ctx, "sid", "banners")
	require.NoError(t, err)
	_, err = svc.AddItem("sid", "banners", json.RawMessage(`{"title":"second"}`))
	require.NoError(t, err)

	store.mu.Lock()
	store.fail = errors.New("store down")
	store.mu.Unlock()
	require.Error(t, svc.Commit(ctx, "sid", "banners", false))

	state, err := svc.State("sid", "banners")
	require.NoError(t, err)
	assert.True(t, state.Dirty, "a failed commit must not drop the draft")
	assert.Len(t, state.Items, 2)

	store.mu.Lock()
	store.fail = nil
	store.mu.Unlock()
	require.NoError(t, svc.Commit(ctx, "sid", "banners", false))
	assert.Len(t, store.items, 2)
}

func TestCommitListeners(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store)
	ctx := context.Background()

	var notified []string
	svc.OnCommit(func(collection string) {
		notified = append(notified, collection)
	})

	_, err := svc.Open(ctx, "sid", "banners")
	require.NoError(t, err)
	_, err = svc.AddItem("sid", "banners", json.RawMessage(`{"title":"one"}`))
	require.NoError(t, err)
	require.NoError(t, svc.Commit(ctx, "sid", "banners", false))

	assert.Equal(t, []string{"banners"}, notified)
}

func TestCleanupDropsIdleEditors(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Open(ctx, "sid", "banners")
	require.NoError(t, err)

	assert.Equal(t, 0, svc.Cleanup(time.Hour))
	assert.Equal(t, 1, svc.Cleanup(0))

	_, err = svc.State("sid", "banners")
	assert.ErrorIs(t, err, workspace.ErrNotOpen)
}
