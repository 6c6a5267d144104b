package merchantbalance

import (
	"context"

	"github.com/settleflow/processor/pkg/domain"
)

// ProjectionName identifies this projection in metrics and checkpoints.
const ProjectionName = "merchant_balance"

// Projection folds merchant and transaction events into the running balance
// snapshot. Apply is pure; events outside the claimed set return the state
// unchanged.
type Projection struct{}

// NewProjection creates the merchant balance projection.
func NewProjection() Projection {
	return Projection{}
}

// Name implements projection.Projection.
func (Projection) Name() string { return ProjectionName }

// ShouldHandleEvent implements projection.Projection.
func (Projection) ShouldHandleEvent(event domain.DomainEvent) bool {
	switch event.(type) {
	case *domain.MerchantCreatedEvent,
		*domain.ManualDepositMadeEvent,
		*domain.AutomaticDepositMadeEvent,
		*domain.WithdrawalMadeEvent,
		*domain.TransactionHasStartedEvent,
		*domain.TransactionHasBeenCompletedEvent,
		*domain.MerchantFeeAddedToTransactionEvent,
		*domain.SettledMerchantFeeAddedToTransactionEvent:
		return true
	}
	return false
}

// Apply implements projection.Projection.
func (Projection) Apply(ctx context.Context, state State, event domain.DomainEvent) (State, error) {
	switch e := event.(type) {
	case *domain.MerchantCreatedEvent:
		return state.initialise(e.EstateID, e.AggregateID, e.MerchantName), nil

	case *domain.ManualDepositMadeEvent:
		return state.recordDeposit(e.Amount, e.DepositDateTime), nil

	case *domain.AutomaticDepositMadeEvent:
		return state.recordDeposit(e.Amount, e.DepositDateTime), nil

	case *domain.WithdrawalMadeEvent:
		return state.recordWithdrawal(e.Amount, e.WithdrawalDateTime), nil

	case *domain.TransactionHasStartedEvent:
		return state.recordTransactionStarted(e.TransactionAmount, e.TransactionType), nil

	case *domain.TransactionHasBeenCompletedEvent:
		return state.recordTransactionCompleted(e.IsAuthorised, e.TransactionAmount, e.CompletedDateTime), nil

	case *domain.MerchantFeeAddedToTransactionEvent:
		return state.recordFee(e.CalculatedValue, e.FeeCalculatedDateTime), nil

	case *domain.SettledMerchantFeeAddedToTransactionEvent:
		return state.recordFee(e.CalculatedValue, e.FeeCalculatedDateTime), nil

	default:
		return state, nil
	}
}
