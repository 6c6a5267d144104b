package handlers

import (
	"context"

	"github.com/settleflow/processor/pkg/domain"
	"github.com/settleflow/processor/pkg/readmodel"
)

// VoucherDomainEventHandler projects voucher events into the read model.
type VoucherDomainEventHandler struct {
	repository readmodel.Repository
}

// NewVoucherDomainEventHandler creates the handler.
func NewVoucherDomainEventHandler(repository readmodel.Repository) *VoucherDomainEventHandler {
	return &VoucherDomainEventHandler{repository: repository}
}

// Handle implements eventhandling.DomainEventHandler.
func (h *VoucherDomainEventHandler) Handle(ctx context.Context, event domain.DomainEvent) domain.Result {
	if err := ctx.Err(); err != nil {
		return domain.FromError(err)
	}

	switch e := event.(type) {
	case *domain.VoucherGeneratedEvent:
		return domain.FromError(h.repository.AddVoucher(ctx, readmodel.Voucher{
			EstateID:           e.EstateID,
			VoucherID:          e.AggregateID,
			TransactionID:      e.TransactionID,
			OperatorIdentifier: e.OperatorIdentifier,
			Value:              e.Value,
			VoucherCode:        e.VoucherCode,
			GeneratedDateTime:  e.GeneratedDateTime,
			ExpiryDate:         e.ExpiryDate,
		}))

	case *domain.BarcodeAddedEvent:
		return domain.FromError(h.repository.UpdateVoucherBarcode(ctx, e.AggregateID, e.Barcode))

	case *domain.VoucherIssuedEvent:
		return domain.FromError(h.repository.MarkVoucherIssued(ctx, e.AggregateID, e.IssuedDateTime, e.RecipientEmail, e.RecipientMobile))

	case *domain.VoucherFullyRedeemedEvent:
		return domain.FromError(h.repository.MarkVoucherRedeemed(ctx, e.AggregateID, e.RedeemedDateTime))

	default:
		return domain.Ok()
	}
}
