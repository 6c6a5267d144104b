package merchantbalance

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/settleflow/processor/pkg/domain"
	"github.com/settleflow/processor/pkg/readmodel"
)

// BalanceChangedDispatcher writes a MerchantBalanceChangedEntry audit row
// after the balance projection changes state. Entries are keyed by
// (aggregate id, original event id) so a retried delivery converges instead
// of appending a duplicate.
type BalanceChangedDispatcher struct {
	repository readmodel.Repository

	mu      sync.Mutex
	entropy *rand.Rand
}

// NewBalanceChangedDispatcher creates the dispatcher.
func NewBalanceChangedDispatcher(repository readmodel.Repository) *BalanceChangedDispatcher {
	return &BalanceChangedDispatcher{
		repository: repository,
		entropy:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Dispatch implements projection.StateDispatcher.
func (d *BalanceChangedDispatcher) Dispatch(ctx context.Context, state State, event domain.DomainEvent) error {
	change, relevant := balanceChangeFor(event)
	if !relevant {
		return nil
	}

	entry := readmodel.MerchantBalanceChangedEntry{
		EntryID:         d.newEntryID(),
		AggregateID:     event.Aggregate(),
		OriginalEventID: event.ID(),
		EstateID:        state.EstateID,
		MerchantID:      state.MerchantID,
		DateTime:        change.dateTime,
		Reference:       change.reference,
		DebitOrCredit:   change.debitOrCredit,
		ChangeAmount:    change.amount,
		Balance:         state.Balance,
	}

	return d.repository.RecordBalanceChangedEntry(ctx, entry)
}

func (d *BalanceChangedDispatcher) newEntryID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), d.entropy).String()
}

type balanceChange struct {
	amount        decimal.Decimal
	debitOrCredit string
	reference     string
	dateTime      time.Time
}

// balanceChangeFor describes the balance delta an event caused, or reports
// that the event does not move the settled balance (holds and counters only).
func balanceChangeFor(event domain.DomainEvent) (balanceChange, bool) {
	switch e := event.(type) {
	case *domain.ManualDepositMadeEvent:
		return balanceChange{e.Amount, "C", "Merchant Deposit", e.DepositDateTime}, true

	case *domain.AutomaticDepositMadeEvent:
		return balanceChange{e.Amount, "C", "Merchant Deposit", e.DepositDateTime}, true

	case *domain.WithdrawalMadeEvent:
		return balanceChange{e.Amount, "D", "Merchant Withdrawal", e.WithdrawalDateTime}, true

	case *domain.TransactionHasBeenCompletedEvent:
		if !e.IsAuthorised || e.TransactionAmount == nil {
			return balanceChange{}, false
		}
		return balanceChange{*e.TransactionAmount, "D", "Transaction Completed", e.CompletedDateTime}, true

	case *domain.MerchantFeeAddedToTransactionEvent:
		return balanceChange{e.CalculatedValue, "C", "Transaction Fee Processed", e.FeeCalculatedDateTime}, true

	case *domain.SettledMerchantFeeAddedToTransactionEvent:
		return balanceChange{e.CalculatedValue, "C", "Settled Transaction Fee", e.FeeCalculatedDateTime}, true

	default:
		return balanceChange{}, false
	}
}
