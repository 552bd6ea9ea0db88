package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
)

// Collection is the persistence seam between the draft editor and a
// backing store. FetchAll seeds a draft; ReplaceAll atomically swaps
// the stored set for the committed draft. Any store that can do both
// can sit behind the dashboard.
type Collection interface {
	Name() string
	FetchAll(ctx context.Context) ([]json.RawMessage, error)
	ReplaceAll(ctx context.Context, items []json.RawMessage) error
}

// Normalizer lets a collection reconcile an edited item against its
// previous version before the edit lands in the draft. The sidebar uses
// this to reset data when an item's type changes.
type Normalizer interface {
	Normalize(prev, next json.RawMessage) (json.RawMessage, error)
}

// ErrUnknownCollection is returned for a collection name nothing
// registered.
var ErrUnknownCollection = errors.New("unknown collection")

// Registry holds the editable collections by name.
type Registry struct {
	mu          sync.RWMutex
	collections map[string]Collection
}

func NewRegistry() *Registry {
	return &Registry{collections: map[string]Collection{}}
}

func (r *Registry) Register(c Collection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collections[c.Name()] = c
}

func (r *Registry) Get(name string) (Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.collections[name]
	if !ok {
		return nil, ErrUnknownCollection
	}
	return c, nil
}

// Names returns the registered collection names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.collections))
	for name := range r.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// funcCollection adapts plain fetch/replace funcs into a Collection.
type funcCollection struct {
	name      string
	fetch     func(ctx context.Context) ([]json.RawMessage, error)
	replace   func(ctx context.Context, items []json.RawMessage) error
	normalize func(prev, next json.RawMessage) (json.RawMessage, error)
}

// NewCollection wraps fetch/replace functions as a Collection.
func NewCollection(
	name string,
	fetch func(ctx context.Context) ([]json.RawMessage, error),
	replace func(ctx context.Context, items []json.RawMessage) error,
) Collection {
	return &funcCollection{name: name, fetch: fetch, replace: replace}
}

// NewNormalizedCollection wraps fetch/replace/normalize functions as a
// Collection with a Normalizer.
func NewNormalizedCollection(
	name string,
	fetch func(ctx context.Context) ([]json.RawMessage, error),
	replace func(ctx context.Context, items []json.RawMessage) error,
	normalize func(prev, next json.RawMessage) (json.RawMessage, error),
) Collection {
	return &funcCollection{name: name, fetch: fetch, replace: replace, normalize: normalize}
}

func (f *funcCollection) Name() string { return f.name }

func (f *funcCollection) FetchAll(ctx context.Context) ([]json.RawMessage, error) {
	return f.fetch(ctx)
}

func (f *funcCollection) ReplaceAll(ctx context.Context, items []json.RawMessage) error {
	return f.replace(ctx, items)
}

func (f *funcCollection) Normalize(prev, next json.RawMessage) (json.RawMessage, error) {
	if f.normalize == nil {
		return next, nil
	}
	return f.normalize(prev, next)
}
