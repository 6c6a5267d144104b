package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metrics holds all metric instruments for the event processing engine.
// Instruments are created once and injected; there is no process-wide
// registry keyed by string name.
type Metrics struct {
	// Delivery edge metrics
	EventsReceived metric.Int64Counter

	// Domain event handler metrics
	EventsProcessed metric.Int64Counter
	HandlerDuration metric.Float64Histogram
	HandlerFailures metric.Int64Counter

	// Projection metrics
	ProjectionApplied  metric.Int64Counter
	ProjectionSkipped  metric.Int64Counter
	ProjectionFailures metric.Int64Counter
	StateSaves         metric.Int64Counter

	// Mediator metrics
	CommandsSent  metric.Int64Counter
	CommandErrors metric.Int64Counter
}

// NewMetrics creates all metric instruments from the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.EventsReceived, err = meter.Int64Counter(
		"processor.events.received",
		metric.WithDescription("Total domain events delivered by the event bus"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events.received: %w", err)
	}

	m.EventsProcessed, err = meter.Int64Counter(
		"processor.events.processed",
		metric.WithDescription("Total domain events processed per handler"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events.processed: %w", err)
	}

	m.HandlerDuration, err = meter.Float64Histogram(
		"processor.handler.duration",
		metric.WithDescription("Domain event handler duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating handler.duration: %w", err)
	}

	m.HandlerFailures, err = meter.Int64Counter(
		"processor.handler.failures",
		metric.WithDescription("Total failed domain event handler invocations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating handler.failures: %w", err)
	}

	m.ProjectionApplied, err = meter.Int64Counter(
		"processor.projection.applied",
		metric.WithDescription("Total events applied to projection state"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating projection.applied: %w", err)
	}

	m.ProjectionSkipped, err = meter.Int64Counter(
		"processor.projection.skipped",
		metric.WithDescription("Total events skipped by projections (not claimed or no state change)"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating projection.skipped: %w", err)
	}

	m.ProjectionFailures, err = meter.Int64Counter(
		"processor.projection.failures",
		metric.WithDescription("Total projection processing failures"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating projection.failures: %w", err)
	}

	m.StateSaves, err = meter.Int64Counter(
		"processor.projection.state.saves",
		metric.WithDescription("Total projection state snapshots persisted"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating projection.state.saves: %w", err)
	}

	m.CommandsSent, err = meter.Int64Counter(
		"processor.commands.sent",
		metric.WithDescription("Total commands sent through the mediator"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating commands.sent: %w", err)
	}

	m.CommandErrors, err = meter.Int64Counter(
		"processor.commands.errors",
		metric.WithDescription("Total failed command dispatches"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating commands.errors: %w", err)
	}

	return m, nil
}

// NewNoopMetrics returns metrics backed by a no-op meter, for tests and
// callers that do not care about instrumentation.
func NewNoopMetrics() *Metrics {
	m, err := NewMetrics(noop.NewMeterProvider().Meter("processor"))
	if err != nil {
		panic(err) // noop instruments cannot fail to create
	}
	return m
}

// RecordEventReceived records one delivery from the event bus.
func (m *Metrics) RecordEventReceived(ctx context.Context, eventType string) {
	m.EventsReceived.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", eventType),
	))
}

// RecordHandlerInvocation records one handler call for a (handler, event) pair.
func (m *Metrics) RecordHandlerInvocation(ctx context.Context, handlerType, eventType string, duration time.Duration, failed bool) {
	attrs := []attribute.KeyValue{
		attribute.String("handler_type", handlerType),
		attribute.String("event_type", eventType),
	}

	m.EventsProcessed.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HandlerDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))

	if failed {
		m.HandlerFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordProjection records the outcome of one projection pass.
func (m *Metrics) RecordProjection(ctx context.Context, projectionName, eventType string, applied bool, failed bool) {
	attrs := []attribute.KeyValue{
		attribute.String("projection", projectionName),
		attribute.String("event_type", eventType),
	}

	switch {
	case failed:
		m.ProjectionFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
	case applied:
		m.ProjectionApplied.Add(ctx, 1, metric.WithAttributes(attrs...))
		m.StateSaves.Add(ctx, 1, metric.WithAttributes(attrs...))
	default:
		m.ProjectionSkipped.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordCommand records one mediator dispatch.
func (m *Metrics) RecordCommand(ctx context.Context, commandType string, failed bool) {
	attrs := []attribute.KeyValue{
		attribute.String("command_type", commandType),
	}

	m.CommandsSent.Add(ctx, 1, metric.WithAttributes(attrs...))
	if failed {
		m.CommandErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
