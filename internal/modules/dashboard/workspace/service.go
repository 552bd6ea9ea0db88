package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/schoolboard/core/internal/pkg/draftsync"
	"go.uber.org/zap"
)

var (
	ErrItemNotFound = errors.New("item not found in draft")
	ErrNotOpen      = errors.New("collection not opened in this workspace")
)

// CommitListener is told after a draft commit lands in the store, so
// caches can be purged and connected clients nudged to refetch.
type CommitListener func(collection string)

type editor struct {
	ctl        *draftsync.Controller[json.RawMessage]
	lastAccess time.Time
}

type editorKey struct {
	session    string
	collection string
}

// Service keeps one draft controller per (admin session, collection).
// Two sessions editing the same collection get independent drafts; the
// second committer sees a conflict.
type Service struct {
	registry  *Registry
	logger    *zap.Logger
	mu        sync.Mutex
	editors   map[editorKey]*editor
	listeners []CommitListener
}

func NewService(registry *Registry, logger *zap.Logger) *Service {
	return &Service{
		registry: registry,
		logger:   logger,
		editors:  map[editorKey]*editor{},
	}
}

func (s *Service) Registry() *Registry { return s.registry }

// OnCommit registers a listener called after every successful commit.
func (s *Service) OnCommit(fn CommitListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Open seeds (or re-seeds) the session's draft from the backing store
// and returns the controller. A dirty draft is kept; the fresh live
// set is parked and the conflict flag raised.
func (s *Service) Open(ctx context.Context, sessionID, collection string) (*draftsync.Controller[json.RawMessage], error) {
	col, err := s.registry.Get(collection)
	if err != nil {
		return nil, err
	}
	live, err := col.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := editorKey{session: sessionID, collection: collection}
	ed, ok := s.editors[key]
	if !ok {
		ed = &editor{ctl: draftsync.New(live)}
		s.editors[key] = ed
	} else {
		ed.ctl.Seed(live)
	}
	ed.lastAccess = time.Now()
	return ed.ctl, nil
}

// controller returns the session's open controller for a collection.
func (s *Service) controller(sessionID, collection string) (*draftsync.Controller[json.RawMessage], error) {
	if _, err := s.registry.Get(collection); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.editors[editorKey{session: sessionID, collection: collection}]
	if !ok {
		return nil, ErrNotOpen
	}
	ed.lastAccess = time.Now()
	return ed.ctl, nil
}

// State returns the session's current draft view of a collection.
func (s *Service) State(sessionID, collection string) (*StateDTO, error) {
	ctl, err := s.controller(sessionID, collection)
	if err != nil {
		return nil, err
	}
	return &StateDTO{
		Collection: collection,
		Items:      ctl.Draft(),
		Dirty:      ctl.Dirty(),
		Conflict:   ctl.Conflict(),
		Saving:     ctl.Saving(),
	}, nil
}

// AddItem appends a document to the draft. Missing ids are minted
// server-side.
func (s *Service) AddItem(sessionID, collection string, doc json.RawMessage) (json.RawMessage, error) {
	ctl, err := s.controller(sessionID, collection)
	if err != nil {
		return nil, err
	}
	doc, err = s.normalize(collection, nil, doc)
	if err != nil {
		return nil, err
	}
	doc, err = ensureDocID(doc)
	if err != nil {
		return nil, err
	}
	ctl.Mutate(func(items []json.RawMessage) []json.RawMessage {
		return append(items, doc)
	})
	return doc, nil
}

// UpdateItem replaces the draft document with the given id.
func (s *Service) UpdateItem(sessionID, collection, id string, doc json.RawMessage) (json.RawMessage, error) {
	ctl, err := s.controller(sessionID, collection)
	if err != nil {
		return nil, err
	}

	idx, prev := findDoc(ctl.Draft(), id)
	if idx < 0 {
		return nil, ErrItemNotFound
	}
	doc, err = s.normalize(collection, prev, doc)
	if err != nil {
		return nil, err
	}
	doc, err = setDocID(doc, id)
	if err != nil {
		return nil, err
	}
	ctl.Mutate(func(items []json.RawMessage) []json.RawMessage {
		if i, _ := findDoc(items, id); i >= 0 {
			items[i] = doc
		}
		return items
	})
	return doc, nil
}

// RemoveItem drops the draft document with the given id. Removing an
// id not present is a no-op; the draft still goes dirty.
func (s *Service) RemoveItem(sessionID, collection, id string) error {
	ctl, err := s.controller(sessionID, collection)
	if err != nil {
		return err
	}
	ctl.Mutate(func(items []json.RawMessage) []json.RawMessage {
		i, _ := findDoc(items, id)
		if i < 0 {
			return items
		}
		return append(items[:i], items[i+1:]...)
	})
	return nil
}

// MoveItem swaps the document one position up or down. Moves off
// either end leave the order untouched.
func (s *Service) MoveItem(sessionID, collection, id string, dir draftsync.Direction) error {
	ctl, err := s.controller(sessionID, collection)
	if err != nil {
		return err
	}
	ctl.Mutate(func(items []json.RawMessage) []json.RawMessage {
		i, _ := findDoc(items, id)
		if i < 0 {
			return items
		}
		return draftsync.Move(items, i, dir)
	})
	return nil
}

// Commit pushes the session's draft into the store via ReplaceAll.
// Other sessions editing the same collection are re-seeded from the
// committed set; their dirty drafts go into conflict.
func (s *Service) Commit(ctx context.Context, sessionID, collection string, force bool) error {
	col, err := s.registry.Get(collection)
	if err != nil {
		return err
	}
	ctl, err := s.controller(sessionID, collection)
	if err != nil {
		return err
	}

	persist := func(ctx context.Context, items []json.RawMessage) error {
		return col.ReplaceAll(ctx, items)
	}
	if force {
		err = ctl.ForceCommit(ctx, persist)
	} else {
		err = ctl.Commit(ctx, persist)
	}
	if err != nil {
		return err
	}

	s.reseedOthers(sessionID, collection, ctl.Live())

	s.mu.Lock()
	listeners := make([]CommitListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(collection)
	}

	s.logger.Info("workspace commit",
		zap.String("collection", collection),
		zap.String("session", sessionID),
		zap.Bool("force", force))
	return nil
}

// Discard drops the session's draft, adopting any parked live set.
func (s *Service) Discard(sessionID, collection string) error {
	ctl, err := s.controller(sessionID, collection)
	if err != nil {
		return err
	}
	ctl.Discard()
	return nil
}

// Cleanup drops editors idle longer than maxIdle and returns how many
// went away.
func (s *Service) Cleanup(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, ed := range s.editors {
		if ed.lastAccess.Before(cutoff) {
			delete(s.editors, key)
			removed++
		}
	}
	return removed
}

func (s *Service) reseedOthers(sessionID, collection string, live []json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, ed := range s.editors {
		if key.collection == collection && key.session != sessionID {
			ed.ctl.Seed(live)
		}
	}
}

func (s *Service) normalize(collection string, prev, next json.RawMessage) (json.RawMessage, error) {
	col, err := s.registry.Get(collection)
	if err != nil {
		return nil, err
	}
	if n, ok := col.(Normalizer); ok {
		return n.Normalize(prev, next)
	}
	return next, nil
}

func ensureDocID(doc json.RawMessage) (json.RawMessage, error) {
	id, err := docID(doc)
	if err != nil {
		return nil, err
	}
	if id != "" {
		return doc, nil
	}
	return setDocID(doc, uuid.New().String())
}

func docID(doc json.RawMessage) (string, error) {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(doc, &probe); err != nil {
		return "", err
	}
	return probe.ID, nil
}

func setDocID(doc json.RawMessage, id string) (json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, err
	}
	idRaw, err := json.Marshal(id)
	if err != nil {
		return nil, err
	}
	m["id"] = idRaw
	return json.Marshal(m)
}

func findDoc(items []json.RawMessage, id string) (int, json.RawMessage) {
	for i, doc := range items {
		if docIDQuiet(doc) == id {
			return i, doc
		}
	}
	return -1, nil
}

func docIDQuiet(doc json.RawMessage) string {
	id, _ := docID(doc)
	return id
}
