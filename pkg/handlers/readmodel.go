package handlers

import (
	"context"

	"github.com/settleflow/processor/pkg/domain"
	"github.com/settleflow/processor/pkg/readmodel"
)

// ReadModelDomainEventHandler is the generic catch-all handler for events
// that map straight onto a read-model row without aggregate-specific logic.
// Currently this covers the float family.
type ReadModelDomainEventHandler struct {
	repository readmodel.Repository
}

// NewReadModelDomainEventHandler creates the handler.
func NewReadModelDomainEventHandler(repository readmodel.Repository) *ReadModelDomainEventHandler {
	return &ReadModelDomainEventHandler{repository: repository}
}

// Handle implements eventhandling.DomainEventHandler.
func (h *ReadModelDomainEventHandler) Handle(ctx context.Context, event domain.DomainEvent) domain.Result {
	if err := ctx.Err(); err != nil {
		return domain.FromError(err)
	}

	switch e := event.(type) {
	case *domain.FloatCreatedForContractProductEvent:
		return domain.FromError(h.repository.AddFloat(ctx, readmodel.Float{
			EstateID:        e.EstateID,
			FloatID:         e.AggregateID,
			ContractID:      e.ContractID,
			ProductID:       e.ProductID,
			CreatedDateTime: e.CreatedDateTime,
		}))

	case *domain.FloatCreditPurchasedEvent:
		return domain.FromError(h.repository.RecordFloatActivity(ctx, readmodel.FloatActivity{
			FloatID:      e.AggregateID,
			ActivityID:   e.EventID,
			ActivityType: "Purchase",
			DateTime:     e.CreditPurchasedDateTime,
			Amount:       e.Amount,
			CostPrice:    e.CostPrice,
		}))

	case *domain.FloatDecreasedByTransactionEvent:
		return domain.FromError(h.repository.RecordFloatActivity(ctx, readmodel.FloatActivity{
			FloatID:      e.AggregateID,
			ActivityID:   e.TransactionID,
			ActivityType: "Transaction",
			DateTime:     e.Timestamp,
			Amount:       e.Amount,
		}))

	default:
		return domain.Ok()
	}
}
