// Package eventhandling routes persisted domain events to the handlers
// configured for their type.
package eventhandling

import (
	"context"

	"github.com/settleflow/processor/pkg/domain"
)

// DomainEventHandler processes a single delivered domain event. Expected
// failures are carried on the Result; implementations must be safe to
// re-invoke with the same event (the upstream retries on transient failure).
type DomainEventHandler interface {
	Handle(ctx context.Context, event domain.DomainEvent) domain.Result
}

// DomainEventHandlerFunc is a function adapter for DomainEventHandler.
type DomainEventHandlerFunc func(ctx context.Context, event domain.DomainEvent) domain.Result

// Handle implements DomainEventHandler.
func (f DomainEventHandlerFunc) Handle(ctx context.Context, event domain.DomainEvent) domain.Result {
	return f(ctx, event)
}
