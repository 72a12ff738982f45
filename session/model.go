package session

import (
	"sync"
	"time"

	"preset-selector/preset"
)

// maxRecent caps the recently used source list.
const maxRecent = 10

// Session is one caller's selection context. Its preset.State holds the
// continue cursors, wildcard cursors and document cache, so two sessions
// never influence each other.
type Session struct {
	ID        string
	Name      string
	CreatedAt time.Time

	state *preset.State

	mu           sync.Mutex
	lastActive   time.Time
	recentlyUsed []string
	connected    bool
	kickChan     chan struct{}
	done         chan struct{}
}

// Info is a point-in-time view of a session for listing.
type Info struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	CreatedAt    time.Time         `json:"created_at"`
	LastActive   time.Time         `json:"last_active"`
	Connected    bool              `json:"connected"`
	RecentlyUsed []string          `json:"recently_used"`
	State        preset.StateStats `json:"state"`
}

func newSession(id, name string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Name:         name,
		CreatedAt:    now,
		state:        preset.NewState(),
		lastActive:   now,
		recentlyUsed: []string{},
		done:         make(chan struct{}),
	}
}

// State returns the engine state owned by the session.
func (s *Session) State() *preset.State {
	return s.state
}

// Info returns a snapshot of the session.
func (s *Session) Info() Info {
	s.mu.Lock()
	ru := make([]string, len(s.recentlyUsed))
	copy(ru, s.recentlyUsed)
	info := Info{
		ID:           s.ID,
		Name:         s.Name,
		CreatedAt:    s.CreatedAt,
		LastActive:   s.lastActive,
		Connected:    s.connected,
		RecentlyUsed: ru,
	}
	s.mu.Unlock()
	info.State = s.state.Stats()
	return info
}

// Touch records a selection from source: it becomes the most recently used
// entry (deduplicated, capped at maxRecent). A blank source only refreshes
// the activity time.
func (s *Session) Touch(source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
	if source == "" {
		return
	}
	list := []string{source}
	for _, r := range s.recentlyUsed {
		if r == source {
			continue
		}
		list = append(list, r)
		if len(list) == maxRecent {
			break
		}
	}
	s.recentlyUsed = list
}

// Reset drops all cursors and cached documents of the session.
func (s *Session) Reset() {
	s.state.Reset()
	s.Touch("")
}

// SetClient registers a streaming client. A previously registered client is
// kicked: its channel is closed so its handler can drop the connection.
// The returned channel is closed if this client is displaced in turn.
func (s *Session) SetClient() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kickChan != nil {
		close(s.kickChan)
	}
	kick := make(chan struct{})
	s.kickChan = kick
	s.connected = true
	return kick
}

// ClearClient is called when a streaming client leaves. It only clears the
// session if kick still belongs to the current client.
func (s *Session) ClearClient(kick <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kickChan != nil && s.kickChan == kick {
		s.kickChan = nil
		s.connected = false
	}
}

// Done is closed when the session is killed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}
