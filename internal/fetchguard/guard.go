package fetchguard

import "sync"

// Guard ensures at most one in-flight fetch per logical key. The UI can
// trigger the same first-page fetch from several places in a short window
// (mount, identity change, retry button); only the first caller actually runs,
// the rest are folded into its eventual publish.
type Guard struct {
	mu       sync.Mutex
	inFlight map[string]bool
}

// New returns a guard with no fetches in flight.
func New() *Guard {
	return &Guard{inFlight: make(map[string]bool)}
}

// Run invokes fn if no fetch for key is in flight, clearing the in-flight mark
// when fn returns regardless of outcome. It reports whether fn ran: a false
// return means another fetch for key was already outstanding and the call was
// a no-op, not an error.
func (g *Guard) Run(key string, fn func() error) (bool, error) {
	g.mu.Lock()
	if g.inFlight[key] {
		g.mu.Unlock()
		return false, nil
	}
	g.inFlight[key] = true
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.inFlight, key)
		g.mu.Unlock()
	}()

	return true, fn()
}

// InFlight reports whether a fetch for key is currently outstanding.
func (g *Guard) InFlight(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inFlight[key]
}
