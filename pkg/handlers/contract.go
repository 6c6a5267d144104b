package handlers

import (
	"context"

	"github.com/settleflow/processor/pkg/domain"
	"github.com/settleflow/processor/pkg/readmodel"
)

// ContractDomainEventHandler projects contract events into the read model.
type ContractDomainEventHandler struct {
	repository readmodel.Repository
}

// NewContractDomainEventHandler creates the handler.
func NewContractDomainEventHandler(repository readmodel.Repository) *ContractDomainEventHandler {
	return &ContractDomainEventHandler{repository: repository}
}

// Handle implements eventhandling.DomainEventHandler.
func (h *ContractDomainEventHandler) Handle(ctx context.Context, event domain.DomainEvent) domain.Result {
	if err := ctx.Err(); err != nil {
		return domain.FromError(err)
	}

	switch e := event.(type) {
	case *domain.ContractCreatedEvent:
		return domain.FromError(h.repository.AddContract(ctx, readmodel.Contract{
			EstateID:    e.EstateID,
			ContractID:  e.AggregateID,
			OperatorID:  e.OperatorID,
			Description: e.Description,
		}))

	case *domain.FixedValueProductAddedToContractEvent:
		value := e.Value
		return domain.FromError(h.repository.AddContractProduct(ctx, readmodel.ContractProduct{
			ContractID:  e.AggregateID,
			ProductID:   e.ProductID,
			ProductName: e.ProductName,
			DisplayText: e.DisplayText,
			Value:       &value,
			ProductType: e.ProductType,
		}))

	case *domain.VariableValueProductAddedToContractEvent:
		return domain.FromError(h.repository.AddContractProduct(ctx, readmodel.ContractProduct{
			ContractID:  e.AggregateID,
			ProductID:   e.ProductID,
			ProductName: e.ProductName,
			DisplayText: e.DisplayText,
			ProductType: e.ProductType,
		}))

	case *domain.TransactionFeeForProductAddedToContractEvent:
		return domain.FromError(h.repository.AddContractProductFee(ctx, readmodel.ContractProductFee{
			ProductID:       e.ProductID,
			FeeID:           e.TransactionFeeID,
			Description:     e.Description,
			CalculationType: e.CalculationType,
			FeeType:         e.FeeType,
			Value:           e.Value,
			IsEnabled:       true,
		}))

	case *domain.TransactionFeeForProductDisabledEvent:
		return domain.FromError(h.repository.DisableContractProductFee(ctx, e.ProductID, e.TransactionFeeID))

	default:
		return domain.Ok()
	}
}
