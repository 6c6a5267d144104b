// Package projection provides the generic engine that folds domain events
// into persisted read-side state snapshots.
package projection

import (
	"context"

	"github.com/settleflow/processor/pkg/domain"
)

// State is the constraint every projection state type satisfies. States are
// immutable value snapshots; Equal is used by the engine to detect that an
// event produced no change and skip the write.
type State[S any] interface {
	Equal(other S) bool
}

// Projection folds domain events into a state of type S.
type Projection[S State[S]] interface {
	// Name returns the unique name of this projection.
	Name() string

	// ShouldHandleEvent reports whether this projection claims the event's
	// concrete type. Pure; no I/O.
	ShouldHandleEvent(event domain.DomainEvent) bool

	// Apply produces the new state for an event. Must be pure and return the
	// input state unchanged when the event is not relevant, so applying the
	// same event to the same state is deterministic and idempotent.
	Apply(ctx context.Context, state S, event domain.DomainEvent) (S, error)
}

// StateRepository loads and persists state snapshots keyed by identifiers
// extracted from the event.
//
// Save must fail with domain.ErrConcurrencyConflict when the stored state has
// advanced past the snapshot the caller loaded, forcing a reload-and-retry.
type StateRepository[S State[S]] interface {
	Load(ctx context.Context, event domain.DomainEvent) (S, error)
	Save(ctx context.Context, state S, event domain.DomainEvent) error
}

// StateDispatcher fires side effects after a state change. It runs only when
// the projection actually changed state.
type StateDispatcher[S State[S]] interface {
	Dispatch(ctx context.Context, state S, event domain.DomainEvent) error
}

// NoopDispatcher is a StateDispatcher with no side effects.
type NoopDispatcher[S State[S]] struct{}

// Dispatch implements StateDispatcher.
func (NoopDispatcher[S]) Dispatch(ctx context.Context, state S, event domain.DomainEvent) error {
	return nil
}
