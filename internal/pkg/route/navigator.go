package route

import "sync"

// Hooks are the side effects a route change triggers. Any hook may be
// nil. WriteHash receives the encoded fragment; whatever echoes it back
// (a hash-change event in a browser shell, a test harness here) must
// route the echo through HandleHashChange, which never re-writes.
type Hooks struct {
	OnChange    func(State)
	ResetScroll func()
	WriteHash   func(fragment string)
}

// Navigator holds the process-wide route state. It is written only by
// Navigate and HandleHashChange and lives for the life of the process.
type Navigator struct {
	mu      sync.Mutex
	current State
	hooks   Hooks
}

// NewNavigator returns a Navigator positioned at home.
func NewNavigator(hooks Hooks) *Navigator {
	return &Navigator{current: State{Page: PageHome}, hooks: hooks}
}

// Current returns the active route state.
func (n *Navigator) Current() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Navigate sets the route synchronously, resets scroll, and — only when
// updateHash is set — writes the encoded fragment through the hook.
// The asynchronous echo of that write is harmless: applying an
// equivalent state is a no-op apart from the scroll reset.
func (n *Navigator) Navigate(page PageName, p Params, updateHash bool) {
	next := State{Page: page, ID: p.ID, Title: p.Title, Query: p.Query, Slug: p.Slug}
	n.apply(next)
	if updateHash && n.hooks.WriteHash != nil {
		n.hooks.WriteHash(Encode(next))
	}
}

// HandleHashChange decodes a browser-initiated fragment change and
// applies it without re-writing the hash, so a navigation never loops.
func (n *Navigator) HandleHashChange(fragment string) {
	s := Decode(fragment)
	n.apply(s)
}

func (n *Navigator) apply(next State) {
	n.mu.Lock()
	changed := next != n.current
	n.current = next
	n.mu.Unlock()

	if n.hooks.ResetScroll != nil {
		n.hooks.ResetScroll()
	}
	if changed && n.hooks.OnChange != nil {
		n.hooks.OnChange(next)
	}
}
