package conversation

import "sync"

type memoryStore struct {
	mu     sync.RWMutex
	states map[string]*State
}

// NewMemoryStore constructs the in-memory Store used by both transports.
// Records live for the process lifetime; there is no expiry.
func NewMemoryStore() Store {
	return &memoryStore{
		states: make(map[string]*State),
	}
}

// Get returns the state for a conversation, creating one in phase inicio on
// first contact.
func (m *memoryStore) Get(id string) *State {
	m.mu.RLock()
	st, ok := m.states[id]
	m.mu.RUnlock()
	if ok {
		return st
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.states[id]; ok {
		return st
	}
	st = &State{Phase: PhaseInicio}
	m.states[id] = st
	return st
}

// Put stores the state for a conversation.
func (m *memoryStore) Put(id string, st *State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[id] = st
}

// Reset replaces the record with a blank one in esperando_comando.
func (m *memoryStore) Reset(id string) *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := &State{Phase: PhaseComando}
	m.states[id] = st
	return st
}
