package upload

import "sync"

// Manager holds the live upload sessions keyed by draft id.
type Manager struct {
	mu        sync.Mutex
	maxPhotos int
	sessions  map[string]*Session
}

func NewManager(maxPhotos int) *Manager {
	return &Manager{
		maxPhotos: maxPhotos,
		sessions:  make(map[string]*Session),
	}
}

// Session returns the session for a draft, creating it on first use.
func (m *Manager) Session(draftID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[draftID]; ok {
		return s
	}
	s := NewSession(draftID, m.maxPhotos)
	m.sessions[draftID] = s
	return s
}

// Peek returns an existing session without creating one.
func (m *Manager) Peek(draftID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[draftID]
	return s, ok
}

// Drop forgets a draft's session after commit or abandonment.
func (m *Manager) Drop(draftID string) {
	m.mu.Lock()
	delete(m.sessions, draftID)
	m.mu.Unlock()
}
