// Package merchantbalance maintains the running balance snapshot for each
// merchant, folded from merchant and transaction events.
package merchantbalance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State is the per-merchant running balance snapshot. It is an immutable
// value; transitions take a state and an event's fields and return a new
// state.
//
// Totals and counters are accumulated unconditionally (commutative addition,
// so arrival order does not matter). The Last* markers track the maximum
// business timestamp seen, not delivery order: an out-of-order arrival with
// an earlier timestamp never overwrites them.
type State struct {
	EstateID     uuid.UUID
	MerchantID   uuid.UUID
	MerchantName string

	Balance          decimal.Decimal
	AvailableBalance decimal.Decimal

	DepositCount              int
	WithdrawalCount           int
	StartedTransactionCount   int
	CompletedTransactionCount int
	SaleCount                 int
	FeeCount                  int

	TotalDeposited  decimal.Decimal
	TotalWithdrawn  decimal.Decimal
	AuthorisedSales decimal.Decimal
	DeclinedSales   decimal.Decimal
	ValueOfFees     decimal.Decimal

	LastDeposit    time.Time
	LastWithdrawal time.Time
	LastSale       time.Time
	LastFee        time.Time

	// Version is the optimistic concurrency token managed by the state
	// repository. Transitions never touch it.
	Version int64
}

// Equal compares the business fields of two snapshots. Version is a storage
// concern and deliberately excluded.
func (s State) Equal(other State) bool {
	return s.EstateID == other.EstateID &&
		s.MerchantID == other.MerchantID &&
		s.MerchantName == other.MerchantName &&
		s.Balance.Equal(other.Balance) &&
		s.AvailableBalance.Equal(other.AvailableBalance) &&
		s.DepositCount == other.DepositCount &&
		s.WithdrawalCount == other.WithdrawalCount &&
		s.StartedTransactionCount == other.StartedTransactionCount &&
		s.CompletedTransactionCount == other.CompletedTransactionCount &&
		s.SaleCount == other.SaleCount &&
		s.FeeCount == other.FeeCount &&
		s.TotalDeposited.Equal(other.TotalDeposited) &&
		s.TotalWithdrawn.Equal(other.TotalWithdrawn) &&
		s.AuthorisedSales.Equal(other.AuthorisedSales) &&
		s.DeclinedSales.Equal(other.DeclinedSales) &&
		s.ValueOfFees.Equal(other.ValueOfFees) &&
		s.LastDeposit.Equal(other.LastDeposit) &&
		s.LastWithdrawal.Equal(other.LastWithdrawal) &&
		s.LastSale.Equal(other.LastSale) &&
		s.LastFee.Equal(other.LastFee)
}

// initialise sets the identity fields on first sight of the merchant.
// Balances start at zero.
func (s State) initialise(estateID, merchantID uuid.UUID, merchantName string) State {
	s.EstateID = estateID
	s.MerchantID = merchantID
	s.MerchantName = merchantName
	return s
}

// recordDeposit applies a manual or automatic deposit.
func (s State) recordDeposit(amount decimal.Decimal, depositDateTime time.Time) State {
	s.Balance = s.Balance.Add(amount)
	s.AvailableBalance = s.AvailableBalance.Add(amount)
	s.DepositCount++
	s.TotalDeposited = s.TotalDeposited.Add(amount)
	s.LastDeposit = laterOf(s.LastDeposit, depositDateTime)
	return s
}

// recordWithdrawal applies a withdrawal.
func (s State) recordWithdrawal(amount decimal.Decimal, withdrawalDateTime time.Time) State {
	s.Balance = s.Balance.Sub(amount)
	s.AvailableBalance = s.AvailableBalance.Sub(amount)
	s.WithdrawalCount++
	s.TotalWithdrawn = s.TotalWithdrawn.Add(amount)
	s.LastWithdrawal = laterOf(s.LastWithdrawal, withdrawalDateTime)
	return s
}

// recordTransactionStarted reserves the transaction amount against the
// available balance. Logon transactions carry no monetary effect and are
// skipped entirely, including the counter.
func (s State) recordTransactionStarted(amount *decimal.Decimal, transactionType string) State {
	if transactionType == "Logon" {
		return s
	}

	if amount != nil {
		s.AvailableBalance = s.AvailableBalance.Sub(*amount)
	}
	s.StartedTransactionCount++
	return s
}

// recordTransactionCompleted settles the hold taken at transaction start. An
// authorised sale debits the balance; a declined sale releases the hold back
// to the available balance. A nil amount counts as zero and does not move the
// last-sale marker.
func (s State) recordTransactionCompleted(isAuthorised bool, amount *decimal.Decimal, completedDateTime time.Time) State {
	value := decimal.Zero
	if amount != nil {
		value = *amount
	}

	if isAuthorised {
		s.Balance = s.Balance.Sub(value)
		s.AuthorisedSales = s.AuthorisedSales.Add(value)
	} else {
		s.AvailableBalance = s.AvailableBalance.Add(value)
		s.DeclinedSales = s.DeclinedSales.Add(value)
	}

	s.SaleCount++
	s.CompletedTransactionCount++
	if amount != nil {
		s.LastSale = laterOf(s.LastSale, completedDateTime)
	}
	return s
}

// recordFee applies a merchant fee credit.
func (s State) recordFee(calculatedValue decimal.Decimal, feeCalculatedDateTime time.Time) State {
	s.Balance = s.Balance.Add(calculatedValue)
	s.AvailableBalance = s.AvailableBalance.Add(calculatedValue)
	s.FeeCount++
	s.ValueOfFees = s.ValueOfFees.Add(calculatedValue)
	s.LastFee = laterOf(s.LastFee, feeCalculatedDateTime)
	return s
}

// laterOf keeps the maximum timestamp seen. The >= comparison means replaying
// the exact same event is a no-op for the marker.
func laterOf(current, incoming time.Time) time.Time {
	if current.IsZero() || !incoming.Before(current) {
		return incoming
	}
	return current
}
