package deadletter

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is returned when a record id is unknown to the store.
var ErrNotFound = errors.New("deadletter: record not found")

// Filter narrows List and Count. Zero fields match everything.
type Filter struct {
	Status      Status
	OperationID string
	// From and To bound CreatedAt, inclusive on From and exclusive on To.
	From time.Time
	To   time.Time
}

func (f Filter) matches(r Record) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.OperationID != "" && r.OperationID != f.OperationID {
		return false
	}
	if !f.From.IsZero() && r.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !r.CreatedAt.Before(f.To) {
		return false
	}
	return true
}

// Store persists dead letters. Implementations must be safe for concurrent
// use.
type Store interface {
	Save(ctx context.Context, r Record) error
	List(ctx context.Context, f Filter) ([]Record, error)
	MarkProcessed(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, f Filter) (int, error)
}

// MemoryStore is an in-process Store for tests and small tools.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Save(ctx context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.ID] = r
	return nil
}

// List returns matching records ordered by CreatedAt, oldest first.
func (s *MemoryStore) List(ctx context.Context, f Filter) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, r := range s.records {
		if f.matches(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) MarkProcessed(ctx context.Context, id string) error {
	return s.setStatus(id, StatusProcessed)
}

func (s *MemoryStore) MarkFailed(ctx context.Context, id string) error {
	return s.setStatus(id, StatusFailed)
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) Count(ctx context.Context, f Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.records {
		if f.matches(r) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) setStatus(id string, st Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = st
	s.records[id] = r
	return nil
}
