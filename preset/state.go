package preset

import (
	"fmt"
	"sync"
)

// StateKey identifies one continue-mode cursor. A different keyword text or
// mode gets its own cursor; the old one is left untouched.
type StateKey struct {
	Source      string
	Keywords    string
	KeywordMode KeywordMode
}

func (k StateKey) String() string {
	return fmt.Sprintf("%s|%s|%s", k.Source, k.Keywords, k.KeywordMode)
}

// State holds everything that survives between selection calls: continue
// cursors, wildcard site cursors and parsed structured documents. Each
// method holds the lock for its whole call, so a State is safe for
// concurrent use but calls on it are serialized.
type State struct {
	mu        sync.Mutex
	cursors   map[StateKey]int
	wildcards map[string]int
	documents map[string]*Document
}

// NewState returns an empty State.
func NewState() *State {
	return &State{
		cursors:   make(map[StateKey]int),
		wildcards: make(map[string]int),
		documents: make(map[string]*Document),
	}
}

// Reset forgets all cursors and cached documents.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors = make(map[StateKey]int)
	s.wildcards = make(map[string]int)
	s.documents = make(map[string]*Document)
}

// StateStats counts the entries held by a State.
type StateStats struct {
	Cursors         int `json:"cursors"`
	WildcardCursors int `json:"wildcard_cursors"`
	Documents       int `json:"documents"`
}

func (s *State) Stats() StateStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StateStats{
		Cursors:         len(s.cursors),
		WildcardCursors: len(s.wildcards),
		Documents:       len(s.documents),
	}
}

// Document returns the parsed document for path, parsing it with parse on
// first use. Cached documents are never re-read.
func (s *State) Document(path string, parse func(string) (*Document, error)) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.documents[path]; ok {
		return doc, nil
	}
	doc, err := parse(path)
	if err != nil {
		return nil, err
	}
	s.documents[path] = doc
	return doc, nil
}
