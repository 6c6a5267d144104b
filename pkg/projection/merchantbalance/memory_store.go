package merchantbalance

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/settleflow/processor/pkg/domain"
)

type stateKey struct {
	estateID   uuid.UUID
	merchantID uuid.UUID
}

// MemoryStateStore is an in-memory StateRepository for the balance
// projection. It enforces the same optimistic concurrency contract as the
// SQLite store: a save against a stale version fails.
type MemoryStateStore struct {
	mu     sync.RWMutex
	states map[stateKey]State
}

// NewMemoryStateStore creates an empty in-memory store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[stateKey]State)}
}

// Load implements projection.StateRepository. An unknown key yields a fresh
// default state at version zero.
func (s *MemoryStateStore) Load(ctx context.Context, event domain.DomainEvent) (State, error) {
	estateID, merchantID, ok := StateKey(event)
	if !ok {
		return State{}, fmt.Errorf("event %s carries no merchant balance key", event.EventType())
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if state, exists := s.states[stateKey{estateID, merchantID}]; exists {
		return state, nil
	}
	return State{}, nil
}

// Save implements projection.StateRepository.
func (s *MemoryStateStore) Save(ctx context.Context, state State, event domain.DomainEvent) error {
	estateID, merchantID, ok := StateKey(event)
	if !ok {
		return fmt.Errorf("event %s carries no merchant balance key", event.EventType())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := stateKey{estateID, merchantID}
	if stored, exists := s.states[key]; exists && stored.Version != state.Version {
		return fmt.Errorf("%w: stored version %d, loaded version %d",
			domain.ErrConcurrencyConflict, stored.Version, state.Version)
	}

	state.Version++
	s.states[key] = state
	return nil
}
