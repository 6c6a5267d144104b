package handlers

import (
	"context"

	"github.com/settleflow/processor/pkg/domain"
	"github.com/settleflow/processor/pkg/mediator"
	"github.com/settleflow/processor/pkg/readmodel"
)

// MerchantSettlementDomainEventHandler projects settlement events into the
// read model and posts settled fees onto the merchant statement.
type MerchantSettlementDomainEventHandler struct {
	repository readmodel.Repository
	sender     mediator.CommandSender
}

// NewMerchantSettlementDomainEventHandler creates the handler.
func NewMerchantSettlementDomainEventHandler(repository readmodel.Repository, sender mediator.CommandSender) *MerchantSettlementDomainEventHandler {
	return &MerchantSettlementDomainEventHandler{repository: repository, sender: sender}
}

// Handle implements eventhandling.DomainEventHandler.
func (h *MerchantSettlementDomainEventHandler) Handle(ctx context.Context, event domain.DomainEvent) domain.Result {
	if err := ctx.Err(); err != nil {
		return domain.FromError(err)
	}

	switch e := event.(type) {
	case *domain.SettlementCreatedForDateEvent:
		return domain.FromError(h.repository.AddSettlement(ctx, readmodel.Settlement{
			EstateID:       e.EstateID,
			MerchantID:     e.MerchantID,
			SettlementID:   e.AggregateID,
			SettlementDate: e.SettlementDate,
		}))

	case *domain.MerchantFeeAddedPendingSettlementEvent:
		return domain.FromError(h.repository.AddSettlementFee(ctx, readmodel.SettlementFee{
			SettlementID:    e.AggregateID,
			TransactionID:   e.TransactionID,
			FeeID:           e.FeeID,
			CalculatedValue: e.CalculatedValue,
		}))

	case *domain.SettlementProcessingStartedEvent:
		return domain.FromError(h.repository.MarkSettlementProcessingStarted(ctx, e.AggregateID, e.ProcessingStartedDateTime))

	case *domain.MerchantFeeSettledEvent:
		return h.handleFeeSettled(ctx, e)

	case *domain.SettlementCompletedEvent:
		return domain.FromError(h.repository.MarkSettlementCompleted(ctx, e.AggregateID))

	default:
		return domain.Ok()
	}
}

func (h *MerchantSettlementDomainEventHandler) handleFeeSettled(ctx context.Context, e *domain.MerchantFeeSettledEvent) domain.Result {
	if err := h.repository.MarkSettlementFeeSettled(ctx, e.AggregateID, e.FeeID, e.SettledDateTime); err != nil {
		return domain.FromError(err)
	}

	return h.sender.Send(ctx, domain.AddSettledFeeToMerchantStatementCommand{
		CommandRecord:   domain.NewCommandRecord(e.MerchantID),
		EstateID:        e.EstateID,
		MerchantID:      e.MerchantID,
		TransactionID:   e.TransactionID,
		FeeID:           e.FeeID,
		SettledDateTime: e.SettledDateTime,
		SettledValue:    e.CalculatedValue,
	})
}
