package quiz

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
)

// Manager holds live sessions in process memory, keyed by random ID.
// Sessions are transient; only their progress effects persist.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	deps     SessionDeps
}

func NewManager(deps SessionDeps) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		deps:     deps,
	}
}

// Create registers a fresh session in ModeSelect for the user.
func (m *Manager) Create(userID int64) (*Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, fmt.Errorf("generating session id: %w", err)
	}

	s := NewSession(id, userID, m.deps)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns the session for an ID, scoped to its owner.
func (m *Manager) Get(id string, userID int64) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok || s.userID != userID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove drops a session once the client is done with it.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
