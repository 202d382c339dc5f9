// Package appstate holds the application-wide state: the saving status of
// the diagram model and the currently selected node.
package appstate

import "sync"

// Status is the saving status of the diagram model.
type Status string

const (
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
)

// State is an immutable snapshot of the store.
type State struct {
	Status       Status
	SelectedNode string // "" when nothing is selected
}

// Store is the single owner of State. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners map[int]func(State)
	nextID    int
}

// NewStore returns a store in its initial state: saving, nothing selected.
func NewStore() *Store {
	return &Store{
		state:     State{Status: StatusSaving},
		listeners: map[int]func(State){},
	}
}

// StartSaving marks the model as being saved.
func (s *Store) StartSaving() {
	s.update(func(st *State) { st.Status = StatusSaving })
}

// FinishSaving marks the model as saved.
func (s *Store) FinishSaving() {
	s.update(func(st *State) { st.Status = StatusSaved })
}

// SaveSelectedNode records key as the selected node. An empty key clears
// the selection.
func (s *Store) SaveSelectedNode(key string) {
	s.update(func(st *State) { st.SelectedNode = key })
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LoadingStatus returns the saving status.
func (s *Store) LoadingStatus() Status {
	return s.Snapshot().Status
}

// SelectedNode returns the selected node key, or "".
func (s *Store) SelectedNode() string {
	return s.Snapshot().SelectedNode
}

// Subscribe registers fn to be called after every state change. Listeners
// run synchronously on the goroutine that made the change, outside the
// lock. The returned func removes the listener.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	prev := s.state
	fn(&s.state)
	next := s.state
	if next == prev {
		s.mu.Unlock()
		return
	}
	listeners := make([]func(State), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
}
