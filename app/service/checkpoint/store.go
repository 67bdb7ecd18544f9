package checkpoint

import (
	"scoutbot/app/service/pipeline"
	"sync"

	"github.com/samber/do"
)

var _ pipeline.Store = (*Store)(nil)

// Store keeps the last conversation state per session in memory. Entries are
// created on first contact and never evicted; only a process restart clears
// them. States are copied on both Load and Save so sessions never alias each
// other's slices.
type Store struct {
	mu     sync.Mutex
	states map[string]pipeline.State
	locks  map[string]*sync.Mutex
}

func New(_ *do.Injector) (*Store, error) {
	return &Store{
		states: make(map[string]pipeline.State),
		locks:  make(map[string]*sync.Mutex),
	}, nil
}

func (s *Store) Load(sessionID string) (pipeline.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[sessionID]
	if !ok {
		return pipeline.State{}, false
	}

	return st.Clone(), true
}

func (s *Store) Save(sessionID string, st pipeline.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[sessionID] = st.Clone()
}

// Acquire takes the per-session run lock, serializing pipeline runs for one
// session so concurrent inbound messages cannot race on the checkpoint.
// The returned function releases the lock.
func (s *Store) Acquire(sessionID string) func() {
	s.mu.Lock()

	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}

	s.mu.Unlock()

	lock.Lock()

	return lock.Unlock
}
