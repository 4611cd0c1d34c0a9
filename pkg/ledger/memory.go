package ledger

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-process Store. A single writer mutex serializes
// appends, so the duplicate check and the write behave as one atomic step.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	byEvent map[string]int // EventID -> index into records
}

// NewMemoryStore creates an empty in-memory ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byEvent: make(map[string]int),
	}
}

func (s *MemoryStore) Append(ctx context.Context, record Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEvent[record.EventID]; exists {
		return ErrDuplicateEvent
	}

	s.byEvent[record.EventID] = len(s.records)
	s.records = append(s.records, record)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records), nil
}

func (s *MemoryStore) FindByEventID(ctx context.Context, eventID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, exists := s.byEvent[eventID]
	if !exists {
		return nil, ErrRecordNotFound
	}

	record := s.records[idx]
	return &record, nil
}

func (s *MemoryStore) Emails(ctx context.Context) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emails := make(map[string]struct{}, len(s.records))
	for _, record := range s.records {
		emails[record.Email] = struct{}{}
	}
	return emails, nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
