package projection

import (
	"context"
	"log/slog"

	"github.com/settleflow/processor/pkg/domain"
	"github.com/settleflow/processor/pkg/observability"
)

// Handler orchestrates one projection: load prior state, apply the event,
// persist if changed, fan out side effects. It implements the same
// Handle(ctx, event) Result contract as every other domain event handler, so
// projections plug into the resolver without bespoke filtering upstream.
type Handler[S State[S]] struct {
	projection Projection[S]
	repository StateRepository[S]
	dispatcher StateDispatcher[S]
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// HandlerOption configures a projection Handler.
type HandlerOption[S State[S]] func(*Handler[S])

// WithMetrics records per-projection outcome metrics.
func WithMetrics[S State[S]](metrics *observability.Metrics) HandlerOption[S] {
	return func(h *Handler[S]) {
		h.metrics = metrics
	}
}

// WithLogger sets the handler's logger.
func WithLogger[S State[S]](logger *slog.Logger) HandlerOption[S] {
	return func(h *Handler[S]) {
		h.logger = logger
	}
}

// NewHandler creates a projection handler. A nil dispatcher means no side
// effects are fired on state change.
func NewHandler[S State[S]](projection Projection[S], repository StateRepository[S], dispatcher StateDispatcher[S], opts ...HandlerOption[S]) *Handler[S] {
	h := &Handler[S]{
		projection: projection,
		repository: repository,
		dispatcher: dispatcher,
		metrics:    observability.NewNoopMetrics(),
		logger:     slog.Default(),
	}
	if h.dispatcher == nil {
		h.dispatcher = NoopDispatcher[S]{}
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle processes one delivered event through the projection.
func (h *Handler[S]) Handle(ctx context.Context, event domain.DomainEvent) domain.Result {
	if event == nil {
		return domain.Ok()
	}

	if !h.projection.ShouldHandleEvent(event) {
		h.metrics.RecordProjection(ctx, h.projection.Name(), event.EventType(), false, false)
		return domain.Ok()
	}

	if err := ctx.Err(); err != nil {
		return domain.FromError(err)
	}

	priorState, err := h.repository.Load(ctx, event)
	if err != nil {
		h.metrics.RecordProjection(ctx, h.projection.Name(), event.EventType(), false, true)
		return domain.FromError(err)
	}

	newState, err := h.projection.Apply(ctx, priorState, event)
	if err != nil {
		h.metrics.RecordProjection(ctx, h.projection.Name(), event.EventType(), false, true)
		return domain.FromError(err)
	}

	if newState.Equal(priorState) {
		h.metrics.RecordProjection(ctx, h.projection.Name(), event.EventType(), false, false)
		return domain.Ok()
	}

	if err := ctx.Err(); err != nil {
		return domain.FromError(err)
	}

	if err := h.repository.Save(ctx, newState, event); err != nil {
		h.logger.ErrorContext(ctx, "projection state save failed",
			slog.String("projection", h.projection.Name()),
			slog.String("event_type", event.EventType()),
			slog.String("event_id", event.ID().String()),
			slog.String("error", err.Error()),
		)
		h.metrics.RecordProjection(ctx, h.projection.Name(), event.EventType(), false, true)
		return domain.FromError(err)
	}

	if err := h.dispatcher.Dispatch(ctx, newState, event); err != nil {
		h.metrics.RecordProjection(ctx, h.projection.Name(), event.EventType(), false, true)
		return domain.FromError(err)
	}

	h.metrics.RecordProjection(ctx, h.projection.Name(), event.EventType(), true, false)
	return domain.Ok()
}
