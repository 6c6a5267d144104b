// Package mediator provides the in-process command bus the domain event
// handlers dispatch follow-up commands through.
package mediator

import (
	"context"
	"sync"

	"github.com/settleflow/processor/pkg/domain"
	"github.com/settleflow/processor/pkg/observability"
)

// CommandSender is the narrow interface the event handlers depend on. The
// handler core has no knowledge of the transport behind it.
type CommandSender interface {
	Send(ctx context.Context, cmd domain.Command) domain.Result
}

// CommandHandler processes a command and returns a Result.
type CommandHandler interface {
	Handle(ctx context.Context, cmd domain.Command) domain.Result
}

// CommandHandlerFunc is a function adapter for CommandHandler.
type CommandHandlerFunc func(ctx context.Context, cmd domain.Command) domain.Result

// Handle implements CommandHandler.
func (f CommandHandlerFunc) Handle(ctx context.Context, cmd domain.Command) domain.Result {
	return f(ctx, cmd)
}

// Middleware wraps command handlers with cross-cutting concerns.
type Middleware func(CommandHandler) CommandHandler

// Mediator is a simple in-memory CommandSender that routes commands to their
// registered handlers through a middleware chain.
type Mediator struct {
	handlers   map[string]CommandHandler
	middleware []Middleware
	metrics    *observability.Metrics
	mu         sync.RWMutex
}

// Option configures a Mediator.
type Option func(*Mediator)

// WithMetrics records per-command dispatch metrics.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Mediator) {
		m.metrics = metrics
	}
}

// New creates a mediator.
func New(opts ...Option) *Mediator {
	m := &Mediator{
		handlers: make(map[string]CommandHandler),
		metrics:  observability.NewNoopMetrics(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register registers a handler for a command type. Registering the same type
// twice panics; that is a wiring error.
func (m *Mediator) Register(commandType string, handler CommandHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.handlers[commandType]; exists {
		panic("handler already registered for command type: " + commandType)
	}
	m.handlers[commandType] = handler
}

// Use adds middleware to the dispatch pipeline. Middleware runs in the order
// it was added (first added = outermost).
func (m *Mediator) Use(middleware Middleware) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.middleware = append(m.middleware, middleware)
}

// Send routes a command to its registered handler. An unregistered command
// type is an expected failure and comes back as a failed Result.
func (m *Mediator) Send(ctx context.Context, cmd domain.Command) domain.Result {
	if cmd == nil {
		return domain.Failure(domain.CodeInvalid, "command is nil")
	}

	m.mu.RLock()
	handler, exists := m.handlers[cmd.CommandType()]
	middleware := m.middleware
	m.mu.RUnlock()

	if !exists {
		m.metrics.RecordCommand(ctx, cmd.CommandType(), true)
		return domain.Failuref(domain.CodeNotFound, "%v: %s", domain.ErrCommandNotFound, cmd.CommandType())
	}

	// Build the chain in reverse so the first added middleware is outermost.
	final := handler
	for i := len(middleware) - 1; i >= 0; i-- {
		final = middleware[i](final)
	}

	result := final.Handle(ctx, cmd)
	m.metrics.RecordCommand(ctx, cmd.CommandType(), result.IsFailed())
	return result
}

// RegisteredTypes returns the registered command types, for diagnostics.
func (m *Mediator) RegisteredTypes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	types := make([]string, 0, len(m.handlers))
	for t := range m.handlers {
		types = append(types, t)
	}
	return types
}
