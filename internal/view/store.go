package view

import (
	"sort"
	"sync"
)

// Store maps element identifiers to their last-known State. It stands in for
// state a browser would keep on the element itself, so it is owned by whoever
// hosts the elements.
type Store struct {
	mu     sync.RWMutex
	states map[string]State
}

func NewStore() *Store {
	return &Store{states: make(map[string]State)}
}

// Get returns a copy of the state recorded for id.
func (s *Store) Get(id string) (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[id]
	if !ok {
		return State{}, false
	}
	return st.Clone(), true
}

// Set records a copy of st for id.
func (s *Store) Set(id string, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[id] = st.Clone()
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, id)
}

// IDs lists the elements with recorded state, sorted.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.states))
	for id := range s.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
