package handlers

import (
	"context"

	"github.com/settleflow/processor/pkg/domain"
	"github.com/settleflow/processor/pkg/mediator"
	"github.com/settleflow/processor/pkg/readmodel"
)

// TransactionDomainEventHandler projects transaction events into the read
// model and triggers fee calculation and statement posting on completion.
type TransactionDomainEventHandler struct {
	repository readmodel.Repository
	sender     mediator.CommandSender
}

// NewTransactionDomainEventHandler creates the handler.
func NewTransactionDomainEventHandler(repository readmodel.Repository, sender mediator.CommandSender) *TransactionDomainEventHandler {
	return &TransactionDomainEventHandler{repository: repository, sender: sender}
}

// Handle implements eventhandling.DomainEventHandler.
func (h *TransactionDomainEventHandler) Handle(ctx context.Context, event domain.DomainEvent) domain.Result {
	if err := ctx.Err(); err != nil {
		return domain.FromError(err)
	}

	switch e := event.(type) {
	case *domain.TransactionHasStartedEvent:
		return domain.FromError(h.repository.AddTransaction(ctx, readmodel.Transaction{
			EstateID:             e.EstateID,
			MerchantID:           e.MerchantID,
			TransactionID:        e.AggregateID,
			TransactionDateTime:  e.TransactionDateTime,
			TransactionNumber:    e.TransactionNumber,
			TransactionType:      e.TransactionType,
			TransactionReference: e.TransactionReference,
			DeviceIdentifier:     e.DeviceIdentifier,
			Amount:               e.TransactionAmount,
		}))

	case *domain.AdditionalRequestDataRecordedEvent:
		return domain.FromError(h.repository.RecordTransactionAdditionalData(ctx, readmodel.TransactionAdditionalData{
			TransactionID: e.AggregateID,
			Direction:     "request",
			Data:          e.AdditionalTransactionData,
		}))

	case *domain.AdditionalResponseDataRecordedEvent:
		return domain.FromError(h.repository.RecordTransactionAdditionalData(ctx, readmodel.TransactionAdditionalData{
			TransactionID: e.AggregateID,
			Direction:     "response",
			Data:          e.AdditionalTransactionData,
		}))

	case *domain.TransactionHasBeenLocallyAuthorisedEvent:
		return domain.FromError(h.repository.UpdateTransactionAuthorisation(ctx,
			e.AggregateID, true, e.AuthorisationCode, e.ResponseCode, e.ResponseMessage))

	case *domain.TransactionHasBeenLocallyDeclinedEvent:
		return domain.FromError(h.repository.UpdateTransactionAuthorisation(ctx,
			e.AggregateID, false, "", e.ResponseCode, e.ResponseMessage))

	case *domain.TransactionAuthorisedByOperatorEvent:
		return domain.FromError(h.repository.UpdateTransactionAuthorisation(ctx,
			e.AggregateID, true, e.AuthorisationCode, e.OperatorResponseCode, e.OperatorResponseMessage))

	case *domain.TransactionDeclinedByOperatorEvent:
		return domain.FromError(h.repository.UpdateTransactionAuthorisation(ctx,
			e.AggregateID, false, "", e.OperatorResponseCode, e.OperatorResponseMessage))

	case *domain.TransactionHasBeenCompletedEvent:
		return h.handleTransactionCompleted(ctx, e)

	case *domain.MerchantFeeAddedToTransactionEvent:
		return domain.FromError(h.repository.AddTransactionFee(ctx, readmodel.TransactionFee{
			TransactionID:   e.AggregateID,
			FeeID:           e.FeeID,
			CalculatedValue: e.CalculatedValue,
			CalculationType: e.FeeCalculationType,
			FeeValue:        e.FeeValue,
			CalculatedAt:    e.FeeCalculatedDateTime,
		}))

	case *domain.SettledMerchantFeeAddedToTransactionEvent:
		return domain.FromError(h.repository.AddTransactionFee(ctx, readmodel.TransactionFee{
			TransactionID:   e.AggregateID,
			FeeID:           e.FeeID,
			CalculatedValue: e.CalculatedValue,
			CalculationType: e.FeeCalculationType,
			FeeValue:        e.FeeValue,
			CalculatedAt:    e.FeeCalculatedDateTime,
			IsSettled:       true,
			SettlementID:    e.SettlementID,
			SettledAt:       e.SettledDateTime,
		}))

	case *domain.TransactionSourceAddedToTransactionEvent:
		return domain.FromError(h.repository.UpdateTransactionSource(ctx, e.AggregateID, e.TransactionSource))

	default:
		// CustomerEmailReceiptRequestedEvent and friends are handled by the
		// messaging subsystem, not this read side.
		return domain.Ok()
	}
}

// handleTransactionCompleted writes the completion to the read model, then
// asks for fee calculation (authorised sales only) and posts the transaction
// onto the merchant statement. The first failure wins.
func (h *TransactionDomainEventHandler) handleTransactionCompleted(ctx context.Context, e *domain.TransactionHasBeenCompletedEvent) domain.Result {
	if err := h.repository.CompleteTransaction(ctx, e.AggregateID, e.IsAuthorised, e.ResponseCode, e.ResponseMessage); err != nil {
		return domain.FromError(err)
	}

	if e.IsAuthorised && e.TransactionAmount != nil {
		result := h.sender.Send(ctx, domain.CalculateFeesForTransactionCommand{
			CommandRecord:     domain.NewCommandRecord(e.AggregateID),
			EstateID:          e.EstateID,
			MerchantID:        e.MerchantID,
			TransactionID:     e.AggregateID,
			CompletedDateTime: e.CompletedDateTime,
		})
		if result.IsFailed() {
			return result
		}
	}

	return h.sender.Send(ctx, domain.AddTransactionToMerchantStatementCommand{
		CommandRecord:       domain.NewCommandRecord(e.MerchantID),
		EstateID:            e.EstateID,
		MerchantID:          e.MerchantID,
		TransactionID:       e.AggregateID,
		TransactionDateTime: e.CompletedDateTime,
		TransactionAmount:   e.TransactionAmount,
		IsAuthorised:        e.IsAuthorised,
	})
}
