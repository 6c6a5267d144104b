package handlers

import (
	"context"

	"github.com/settleflow/processor/pkg/domain"
	"github.com/settleflow/processor/pkg/readmodel"
)

// MerchantStatementDomainEventHandler projects statement events into the
// read model.
type MerchantStatementDomainEventHandler struct {
	repository readmodel.Repository
}

// NewMerchantStatementDomainEventHandler creates the handler.
func NewMerchantStatementDomainEventHandler(repository readmodel.Repository) *MerchantStatementDomainEventHandler {
	return &MerchantStatementDomainEventHandler{repository: repository}
}

// Handle implements eventhandling.DomainEventHandler.
func (h *MerchantStatementDomainEventHandler) Handle(ctx context.Context, event domain.DomainEvent) domain.Result {
	if err := ctx.Err(); err != nil {
		return domain.FromError(err)
	}

	switch e := event.(type) {
	case *domain.StatementCreatedEvent:
		return domain.FromError(h.repository.AddStatement(ctx, readmodel.StatementHeader{
			EstateID:      e.EstateID,
			MerchantID:    e.MerchantID,
			StatementID:   e.AggregateID,
			StatementDate: e.StatementDate,
		}))

	case *domain.TransactionAddedToStatementEvent:
		return domain.FromError(h.repository.AddStatementLine(ctx, readmodel.StatementLine{
			StatementID:  e.AggregateID,
			ActivityID:   e.TransactionID,
			ActivityType: "Transaction",
			DateTime:     e.TransactionDateTime,
			Amount:       e.TransactionValue,
		}))

	case *domain.SettledFeeAddedToStatementEvent:
		return domain.FromError(h.repository.AddStatementLine(ctx, readmodel.StatementLine{
			StatementID:  e.AggregateID,
			ActivityID:   e.SettledFeeID,
			ActivityType: "Fee",
			DateTime:     e.SettledDateTime,
			Amount:       e.SettledValue,
		}))

	case *domain.StatementGeneratedEvent:
		return domain.FromError(h.repository.MarkStatementGenerated(ctx, e.AggregateID, e.DateGenerated))

	default:
		return domain.Ok()
	}
}
