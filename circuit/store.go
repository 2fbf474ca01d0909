package circuit

import (
	"sync"
	"time"
)

// Snapshot is the shared, serializable portion of a breaker's state.
type Snapshot struct {
	State        State     `json:"state"`
	FailureCount int       `json:"failure_count"`
	LastFailure  time.Time `json:"last_failure"`
}

// Store mirrors breaker snapshots into shared storage keyed by breaker
// identity, so multiple processes can observe one logical breaker. Load and
// Save errors are handled according to the breaker's FailurePolicy, never
// propagated as panics.
type Store interface {
	Load(key string) (Snapshot, bool, error)
	Save(key string, snap Snapshot) error
}

// MemoryStore is the in-process Store used by default.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]Snapshot
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]Snapshot)}
}

func (s *MemoryStore) Load(key string) (Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.m[key]
	return snap, ok, nil
}

func (s *MemoryStore) Save(key string, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = make(map[string]Snapshot)
	}
	s.m[key] = snap
	return nil
}
