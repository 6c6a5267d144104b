package eventhandling

import (
	"context"
	"time"

	"github.com/settleflow/processor/pkg/domain"
	"github.com/settleflow/processor/pkg/observability"
)

// InstrumentedHandler wraps a DomainEventHandler with per (handler type,
// event type) invocation count and duration metrics. Instrumentation is a
// decorator so individual handlers stay free of the concern.
type InstrumentedHandler struct {
	handlerType string
	inner       DomainEventHandler
	metrics     *observability.Metrics
}

// NewInstrumentedHandler decorates inner with metrics recording.
func NewInstrumentedHandler(handlerType string, inner DomainEventHandler, metrics *observability.Metrics) *InstrumentedHandler {
	if metrics == nil {
		metrics = observability.NewNoopMetrics()
	}
	return &InstrumentedHandler{
		handlerType: handlerType,
		inner:       inner,
		metrics:     metrics,
	}
}

// Handle implements DomainEventHandler.
func (h *InstrumentedHandler) Handle(ctx context.Context, event domain.DomainEvent) domain.Result {
	start := time.Now()
	result := h.inner.Handle(ctx, event)

	eventType := ""
	if event != nil {
		eventType = event.EventType()
	}
	h.metrics.RecordHandlerInvocation(ctx, h.handlerType, eventType, time.Since(start), result.IsFailed())

	return result
}
