package core

import "sync"

// Guarded serializes access to a Session shared between goroutines,
// for example a network connection handler and its ticker.
type Guarded struct {
	mu sync.Mutex
	s  *Session
}

// NewGuarded wraps s. The caller must not use s directly afterwards.
func NewGuarded(s *Session) *Guarded {
	return &Guarded{s: s}
}

// Do runs fn with exclusive access to the session.
func (g *Guarded) Do(fn func(*Session)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.s)
}

// Apply runs fn under the lock and returns its result with a fresh snapshot.
func (g *Guarded) Apply(fn func(*Session) bool) (bool, Snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ok := fn(g.s)
	return ok, g.s.Snapshot()
}

// Snapshot returns a consistent copy of the session state.
func (g *Guarded) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.s.Snapshot()
}
