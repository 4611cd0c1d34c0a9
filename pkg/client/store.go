package client

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/entitlekit/pkg/entitlement"
)

// Entry is the locally persisted last-known decision. It is only ever
// trusted under the compound gate in StatusClient: matching email, PAID
// status, age under the TTL, and no pending payment.
type Entry struct {
	Email    string             `json:"email"`
	Status   entitlement.Status `json:"status"`
	CachedAt time.Time          `json:"cachedAt"`
}

// PendingState marks a checkout that was initiated but not yet confirmed.
// While pending, the local entry is distrusted even if otherwise fresh.
type PendingState string

const (
	PendingNone      PendingState = "none"
	PendingPayment   PendingState = "pending"
	PendingCompleted PendingState = "completed"
)

// Store persists the local entry and the pending-payment flag. The browser
// extension backs this with extension storage; tests and CLIs use the
// in-memory implementation.
type Store interface {
	LoadEntry(ctx context.Context) (Entry, bool, error)
	SaveEntry(ctx context.Context, entry Entry) error
	PendingPayment(ctx context.Context) (PendingState, error)
	SetPendingPayment(ctx context.Context, state PendingState) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.RWMutex
	entry   Entry
	hasOne  bool
	pending PendingState
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pending: PendingNone}
}

func (s *MemoryStore) LoadEntry(_ context.Context) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entry, s.hasOne, nil
}

func (s *MemoryStore) SaveEntry(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = entry
	s.hasOne = true
	return nil
}

func (s *MemoryStore) PendingPayment(_ context.Context) (PendingState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending, nil
}

func (s *MemoryStore) SetPendingPayment(_ context.Context, state PendingState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = state
	return nil
}
