// Package subscription consumes domain events from the event bus and drives
// them through the handler resolver. It is the delivery edge of the read
// side: deserialization, handler fan-out, bounded retry of transient
// failures, and ack/nack decisions all live here.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/settleflow/processor/pkg/domain"
	"github.com/settleflow/processor/pkg/eventbus"
	"github.com/settleflow/processor/pkg/eventhandling"
	"github.com/settleflow/processor/pkg/observability"
)

// Config holds configuration for the subscription service.
type Config struct {
	// ConsumerName is the durable consumer name. Must stay stable across
	// restarts so delivery resumes from the last acknowledged event.
	ConsumerName string `yaml:"consumerName"`

	// MaxAttempts bounds in-process retries of a transient handler failure
	// before the message is nacked back to the broker.
	MaxAttempts int `yaml:"maxAttempts"`

	// RetryDelay is the pause between in-process retry attempts.
	RetryDelay time.Duration `yaml:"retryDelay"`
}

// DefaultConfig returns sensible defaults for the subscription service.
func DefaultConfig() Config {
	return Config{
		ConsumerName: "processor",
		MaxAttempts:  3,
		RetryDelay:   100 * time.Millisecond,
	}
}

// Service subscribes to the event bus and dispatches each event to the
// handlers the resolver selects for it. Implements runner.Service.
type Service struct {
	bus      *eventbus.Bus
	registry *domain.EventTypeRegistry
	resolver *eventhandling.DomainEventHandlerResolver
	config   Config
	logger   *slog.Logger
	metrics  *observability.Metrics

	sub *eventbus.Subscription
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(s *Service) {
		s.metrics = metrics
	}
}

// New creates a subscription service over bus. Events are rehydrated through
// registry and dispatched to the handlers resolver selects.
func New(bus *eventbus.Bus, registry *domain.EventTypeRegistry, resolver *eventhandling.DomainEventHandlerResolver, config Config, opts ...Option) *Service {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}

	s := &Service{
		bus:      bus,
		registry: registry,
		resolver: resolver,
		config:   config,
		logger:   slog.Default(),
		metrics:  observability.NewNoopMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements runner.Service.
func (s *Service) Name() string {
	return "event-subscription"
}

// Start implements runner.Service.
func (s *Service) Start(ctx context.Context) error {
	sub, err := s.bus.Subscribe(s.config.ConsumerName, s.handleEnvelope)
	if err != nil {
		return fmt.Errorf("failed to start subscription: %w", err)
	}
	s.sub = sub

	s.logger.Info("event subscription started", "consumer", s.config.ConsumerName)
	return nil
}

// Stop implements runner.Service.
func (s *Service) Stop(ctx context.Context) error {
	if s.sub == nil {
		return nil
	}
	if err := s.sub.Unsubscribe(); err != nil {
		return fmt.Errorf("failed to stop subscription: %w", err)
	}
	s.sub = nil

	s.logger.Info("event subscription stopped", "consumer", s.config.ConsumerName)
	return nil
}

// handleEnvelope processes one delivery. A nil return acks the message.
// Unknown event types and non-transient handler failures are acked after
// logging, since redelivering the same event cannot change the outcome.
// Transient failures are retried in process and then nacked.
func (s *Service) handleEnvelope(ctx context.Context, envelope *eventbus.Envelope) error {
	event, err := s.registry.Resolve(envelope.EventType, envelope.Payload)
	if err != nil {
		s.logger.Error("failed to resolve event type",
			"eventType", envelope.EventType,
			"eventId", envelope.EventID,
			"error", err)
		return nil
	}

	s.metrics.RecordEventReceived(ctx, envelope.EventType)

	handlers := s.resolver.GetHandlersFor(event)
	if handlers == nil {
		s.logger.Warn("no handlers configured for event type",
			"eventType", envelope.EventType,
			"eventId", envelope.EventID)
		return nil
	}

	for _, handler := range handlers {
		if err := s.invokeWithRetry(ctx, handler, event); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) invokeWithRetry(ctx context.Context, handler eventhandling.DomainEventHandler, event domain.DomainEvent) error {
	var result domain.Result

	for attempt := 1; attempt <= s.config.MaxAttempts; attempt++ {
		result = handler.Handle(ctx, event)
		if result.Success {
			return nil
		}

		if !result.IsTransient() {
			// Deterministic failure. Redelivery would reproduce it.
			s.logger.Error("event handler failed",
				"eventType", event.EventType(),
				"eventId", event.ID(),
				"code", result.Error.Code,
				"message", result.Error.Message)
			return nil
		}

		s.logger.Warn("transient handler failure, retrying",
			"eventType", event.EventType(),
			"eventId", event.ID(),
			"attempt", attempt,
			"code", result.Error.Code,
			"message", result.Error.Message)

		if attempt < s.config.MaxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.config.RetryDelay):
			}
		}
	}

	// Out of in-process attempts, hand back to the broker.
	return fmt.Errorf("handler failed after %d attempts: %s", s.config.MaxAttempts, result.Error.Message)
}
