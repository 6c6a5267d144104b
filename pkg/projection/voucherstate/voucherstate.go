// Package voucherstate maintains the lifecycle snapshot for each voucher.
package voucherstate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/settleflow/processor/pkg/domain"
)

// ProjectionName identifies this projection in metrics and checkpoints.
const ProjectionName = "voucher_state"

// State is the per-voucher lifecycle snapshot.
type State struct {
	EstateID           uuid.UUID
	VoucherID          uuid.UUID
	TransactionID      uuid.UUID
	OperatorIdentifier string
	Value              decimal.Decimal
	VoucherCode        string
	Barcode            string
	IsGenerated        bool
	IsIssued           bool
	IsRedeemed         bool
	GeneratedDateTime  time.Time
	IssuedDateTime     time.Time
	RedeemedDateTime   time.Time
	ExpiryDate         time.Time

	// Version is managed by the state repository.
	Version int64
}

// Equal compares the business fields of two snapshots.
func (s State) Equal(other State) bool {
	return s.EstateID == other.EstateID &&
		s.VoucherID == other.VoucherID &&
		s.TransactionID == other.TransactionID &&
		s.OperatorIdentifier == other.OperatorIdentifier &&
		s.Value.Equal(other.Value) &&
		s.VoucherCode == other.VoucherCode &&
		s.Barcode == other.Barcode &&
		s.IsGenerated == other.IsGenerated &&
		s.IsIssued == other.IsIssued &&
		s.IsRedeemed == other.IsRedeemed &&
		s.GeneratedDateTime.Equal(other.GeneratedDateTime) &&
		s.IssuedDateTime.Equal(other.IssuedDateTime) &&
		s.RedeemedDateTime.Equal(other.RedeemedDateTime) &&
		s.ExpiryDate.Equal(other.ExpiryDate)
}

// Projection folds voucher events into the lifecycle snapshot.
type Projection struct{}

// NewProjection creates the voucher state projection.
func NewProjection() Projection {
	return Projection{}
}

// Name implements projection.Projection.
func (Projection) Name() string { return ProjectionName }

// ShouldHandleEvent implements projection.Projection.
func (Projection) ShouldHandleEvent(event domain.DomainEvent) bool {
	switch event.(type) {
	case *domain.VoucherGeneratedEvent,
		*domain.BarcodeAddedEvent,
		*domain.VoucherIssuedEvent,
		*domain.VoucherFullyRedeemedEvent:
		return true
	}
	return false
}

// Apply implements projection.Projection.
func (Projection) Apply(ctx context.Context, state State, event domain.DomainEvent) (State, error) {
	switch e := event.(type) {
	case *domain.VoucherGeneratedEvent:
		state.EstateID = e.EstateID
		state.VoucherID = e.AggregateID
		state.TransactionID = e.TransactionID
		state.OperatorIdentifier = e.OperatorIdentifier
		state.Value = e.Value
		state.VoucherCode = e.VoucherCode
		state.IsGenerated = true
		state.GeneratedDateTime = e.GeneratedDateTime
		state.ExpiryDate = e.ExpiryDate
		return state, nil

	case *domain.BarcodeAddedEvent:
		state.Barcode = e.Barcode
		return state, nil

	case *domain.VoucherIssuedEvent:
		state.IsIssued = true
		state.IssuedDateTime = e.IssuedDateTime
		return state, nil

	case *domain.VoucherFullyRedeemedEvent:
		state.IsRedeemed = true
		state.RedeemedDateTime = e.RedeemedDateTime
		return state, nil

	default:
		return state, nil
	}
}

// MemoryStateStore is an in-memory StateRepository for voucher snapshots,
// keyed by voucher aggregate id.
type MemoryStateStore struct {
	mu     sync.RWMutex
	states map[uuid.UUID]State
}

// NewMemoryStateStore creates an empty in-memory store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[uuid.UUID]State)}
}

// Load implements projection.StateRepository.
func (s *MemoryStateStore) Load(ctx context.Context, event domain.DomainEvent) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if state, exists := s.states[event.Aggregate()]; exists {
		return state, nil
	}
	return State{}, nil
}

// Save implements projection.StateRepository.
func (s *MemoryStateStore) Save(ctx context.Context, state State, event domain.DomainEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := event.Aggregate()
	if stored, exists := s.states[key]; exists && stored.Version != state.Version {
		return fmt.Errorf("%w: stored version %d, loaded version %d",
			domain.ErrConcurrencyConflict, stored.Version, state.Version)
	}

	state.Version++
	s.states[key] = state
	return nil
}
