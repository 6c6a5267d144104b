package handlers

import (
	"context"

	"github.com/settleflow/processor/pkg/domain"
	"github.com/settleflow/processor/pkg/readmodel"
)

// OperatorDomainEventHandler projects operator events into the read model.
type OperatorDomainEventHandler struct {
	repository readmodel.Repository
}

// NewOperatorDomainEventHandler creates the handler.
func NewOperatorDomainEventHandler(repository readmodel.Repository) *OperatorDomainEventHandler {
	return &OperatorDomainEventHandler{repository: repository}
}

// Handle implements eventhandling.DomainEventHandler.
func (h *OperatorDomainEventHandler) Handle(ctx context.Context, event domain.DomainEvent) domain.Result {
	if err := ctx.Err(); err != nil {
		return domain.FromError(err)
	}

	switch e := event.(type) {
	case *domain.OperatorCreatedEvent:
		return domain.FromError(h.repository.AddOperator(ctx, readmodel.Operator{
			EstateID:                    e.EstateID,
			OperatorID:                  e.AggregateID,
			Name:                        e.Name,
			RequireCustomMerchantNumber: e.RequireCustomMerchantNumber,
			RequireCustomTerminalNumber: e.RequireCustomTerminalNumber,
		}))

	case *domain.OperatorNameUpdatedEvent:
		return domain.FromError(h.repository.UpdateOperatorName(ctx, e.AggregateID, e.Name))

	default:
		return domain.Ok()
	}
}
