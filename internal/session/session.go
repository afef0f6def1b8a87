package session

import (
	"sync"

	"github.com/google/uuid"
)

// Identity is the signed-in signal consumed by the recommendation controller.
// SessionID is opaque: it only identifies one signed-in stretch so state keyed
// to a session can be dropped when the session ends.
type Identity struct {
	SignedIn  bool
	SessionID string
}

// Manager owns the current identity and notifies subscribers on transitions.
// Transitions of this signal are the only external trigger for cache
// invalidation and the initial fetch, besides explicit user actions.
type Manager struct {
	mu      sync.Mutex
	current Identity
	subs    []func(Identity)
}

// NewManager starts in the signed-out state.
func NewManager() *Manager {
	return &Manager{}
}

// SignIn marks the session as signed in under a fresh session id and notifies
// subscribers. Signing in while already signed in starts a new session.
func (m *Manager) SignIn() Identity {
	m.mu.Lock()
	m.current = Identity{SignedIn: true, SessionID: uuid.NewString()}
	id := m.current
	subs := append([]func(Identity){}, m.subs...)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(id)
	}
	return id
}

// SignOut clears the identity and notifies subscribers.
func (m *Manager) SignOut() {
	m.mu.Lock()
	m.current = Identity{}
	id := m.current
	subs := append([]func(Identity){}, m.subs...)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(id)
	}
}

// Current returns the identity as of now.
func (m *Manager) Current() Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Subscribe registers fn to run on every identity transition. fn is called
// outside the manager's lock.
func (m *Manager) Subscribe(fn func(Identity)) {
	m.mu.Lock()
	m.subs = append(m.subs, fn)
	m.mu.Unlock()
}
