package merchantbalance

import (
	"github.com/google/uuid"

	"github.com/settleflow/processor/pkg/domain"
)

// StateKey extracts the (estate, merchant) pair a balance event belongs to.
// Merchant events carry the merchant id as their aggregate id; transaction
// events carry it as an explicit field. Events outside the projection's set
// report ok=false.
func StateKey(event domain.DomainEvent) (estateID, merchantID uuid.UUID, ok bool) {
	switch e := event.(type) {
	case *domain.MerchantCreatedEvent:
		return e.EstateID, e.AggregateID, true
	case *domain.ManualDepositMadeEvent:
		return e.EstateID, e.AggregateID, true
	case *domain.AutomaticDepositMadeEvent:
		return e.EstateID, e.AggregateID, true
	case *domain.WithdrawalMadeEvent:
		return e.EstateID, e.AggregateID, true
	case *domain.TransactionHasStartedEvent:
		return e.EstateID, e.MerchantID, true
	case *domain.TransactionHasBeenCompletedEvent:
		return e.EstateID, e.MerchantID, true
	case *domain.MerchantFeeAddedToTransactionEvent:
		return e.EstateID, e.MerchantID, true
	case *domain.SettledMerchantFeeAddedToTransactionEvent:
		return e.EstateID, e.MerchantID, true
	default:
		return uuid.Nil, uuid.Nil, false
	}
}
