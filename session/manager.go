package session

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// DefaultName names the session used by callers that do not create their own.
const DefaultName = "default"

var ErrNameTaken = errors.New("session name already in use")
var ErrNotFound = errors.New("session not found")

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

func (m *Manager) Create(name string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLocked(name)
}

func (m *Manager) createLocked(name string) (*Session, error) {
	for _, s := range m.sessions {
		if s.Name == name {
			return nil, ErrNameTaken
		}
	}
	s := newSession(uuid.New().String(), name)
	m.sessions[s.ID] = s
	return s, nil
}

// Default returns the session named DefaultName, creating it on first use.
func (m *Manager) Default() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.Name == DefaultName {
			return s
		}
	}
	s, _ := m.createLocked(DefaultName)
	return s
}

// List returns the sessions ordered by creation time.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Kill removes the session and closes its Done channel, which disconnects
// any streaming client.
func (m *Manager) Kill(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	s.close()
	delete(m.sessions, id)
	return nil
}
