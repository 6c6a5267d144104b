package merchantbalance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func dp(value string) *decimal.Decimal {
	amount := decimal.RequireFromString(value)
	return &amount
}

var (
	t1 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	t2 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	t3 = time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC)
)

func TestRecordDeposit(t *testing.T) {
	state := State{}.recordDeposit(d("100.50"), t1)

	if !state.Balance.Equal(d("100.50")) {
		t.Errorf("balance = %s, want 100.50", state.Balance)
	}
	if !state.AvailableBalance.Equal(d("100.50")) {
		t.Errorf("available = %s, want 100.50", state.AvailableBalance)
	}
	if state.DepositCount != 1 {
		t.Errorf("deposit count = %d, want 1", state.DepositCount)
	}
	if !state.TotalDeposited.Equal(d("100.50")) {
		t.Errorf("total deposited = %s, want 100.50", state.TotalDeposited)
	}
	if !state.LastDeposit.Equal(t1) {
		t.Errorf("last deposit = %s, want %s", state.LastDeposit, t1)
	}
}

// Deposits arriving in any order must converge to the same snapshot: the
// totals are commutative sums and the Last* marker keeps the maximum business
// timestamp, not the latest arrival.
func TestDepositsAreOrderTolerant(t *testing.T) {
	inOrder := State{}.
		recordDeposit(d("10"), t1).
		recordDeposit(d("20"), t2).
		recordDeposit(d("30"), t3)

	outOfOrder := State{}.
		recordDeposit(d("30"), t3).
		recordDeposit(d("10"), t1).
		recordDeposit(d("20"), t2)

	if !inOrder.Equal(outOfOrder) {
		t.Errorf("snapshots diverge:\n in order: %+v\nshuffled: %+v", inOrder, outOfOrder)
	}
	if !outOfOrder.LastDeposit.Equal(t3) {
		t.Errorf("last deposit = %s, want %s", outOfOrder.LastDeposit, t3)
	}
}

func TestLastMarkerNeverMovesBackwards(t *testing.T) {
	state := State{}.recordDeposit(d("10"), t3)
	state = state.recordDeposit(d("5"), t1) // late arrival, earlier timestamp

	if !state.LastDeposit.Equal(t3) {
		t.Errorf("last deposit = %s, want %s", state.LastDeposit, t3)
	}
}

func TestLastMarkerReplaySameTimestamp(t *testing.T) {
	state := State{}.recordDeposit(d("10"), t2)
	state = state.recordDeposit(d("10"), t2)

	if !state.LastDeposit.Equal(t2) {
		t.Errorf("last deposit = %s, want %s", state.LastDeposit, t2)
	}
}

func TestRecordWithdrawal(t *testing.T) {
	state := State{}.
		recordDeposit(d("100"), t1).
		recordWithdrawal(d("40"), t2)

	if !state.Balance.Equal(d("60")) {
		t.Errorf("balance = %s, want 60", state.Balance)
	}
	if !state.AvailableBalance.Equal(d("60")) {
		t.Errorf("available = %s, want 60", state.AvailableBalance)
	}
	if state.WithdrawalCount != 1 {
		t.Errorf("withdrawal count = %d, want 1", state.WithdrawalCount)
	}
	if !state.TotalWithdrawn.Equal(d("40")) {
		t.Errorf("total withdrawn = %s, want 40", state.TotalWithdrawn)
	}
}

// A sale moves money in two steps: starting reserves the amount against the
// available balance, completion settles it against the balance.
func TestAuthorisedSaleLifecycle(t *testing.T) {
	state := State{}.recordDeposit(d("100"), t1)

	state = state.recordTransactionStarted(dp("30"), "Sale")
	if !state.AvailableBalance.Equal(d("70")) {
		t.Errorf("available after start = %s, want 70", state.AvailableBalance)
	}
	if !state.Balance.Equal(d("100")) {
		t.Errorf("balance after start = %s, want 100", state.Balance)
	}
	if state.StartedTransactionCount != 1 {
		t.Errorf("started count = %d, want 1", state.StartedTransactionCount)
	}

	state = state.recordTransactionCompleted(true, dp("30"), t2)
	if !state.Balance.Equal(d("70")) {
		t.Errorf("balance after completion = %s, want 70", state.Balance)
	}
	if !state.AvailableBalance.Equal(d("70")) {
		t.Errorf("available after completion = %s, want 70", state.AvailableBalance)
	}
	if !state.AuthorisedSales.Equal(d("30")) {
		t.Errorf("authorised sales = %s, want 30", state.AuthorisedSales)
	}
	if state.SaleCount != 1 || state.CompletedTransactionCount != 1 {
		t.Errorf("counts = %d/%d, want 1/1", state.SaleCount, state.CompletedTransactionCount)
	}
	if !state.LastSale.Equal(t2) {
		t.Errorf("last sale = %s, want %s", state.LastSale, t2)
	}
}

// A declined sale releases the hold taken at start back to the available
// balance and never touches the balance itself.
func TestDeclinedSaleReleasesHold(t *testing.T) {
	state := State{}.
		recordDeposit(d("100"), t1).
		recordTransactionStarted(dp("30"), "Sale").
		recordTransactionCompleted(false, dp("30"), t2)

	if !state.Balance.Equal(d("100")) {
		t.Errorf("balance = %s, want 100", state.Balance)
	}
	if !state.AvailableBalance.Equal(d("100")) {
		t.Errorf("available = %s, want 100", state.AvailableBalance)
	}
	if !state.DeclinedSales.Equal(d("30")) {
		t.Errorf("declined sales = %s, want 30", state.DeclinedSales)
	}
	if !state.AuthorisedSales.IsZero() {
		t.Errorf("authorised sales = %s, want 0", state.AuthorisedSales)
	}
}

// Logon transactions are connectivity checks with no monetary effect; they
// must not appear in any counter or total.
func TestLogonTransactionsAreIgnored(t *testing.T) {
	initial := State{}.recordDeposit(d("100"), t1)

	state := initial.recordTransactionStarted(dp("0"), "Logon")
	if !state.Equal(initial) {
		t.Errorf("logon changed state:\nbefore: %+v\nafter: %+v", initial, state)
	}
	if state.StartedTransactionCount != 0 {
		t.Errorf("started count = %d, want 0", state.StartedTransactionCount)
	}
}

// A nil amount counts as zero for the arithmetic and leaves LastSale alone.
func TestCompletedTransactionWithoutAmount(t *testing.T) {
	state := State{}.
		recordDeposit(d("100"), t1).
		recordTransactionCompleted(true, nil, t2)

	if !state.Balance.Equal(d("100")) {
		t.Errorf("balance = %s, want 100", state.Balance)
	}
	if state.SaleCount != 1 || state.CompletedTransactionCount != 1 {
		t.Errorf("counts = %d/%d, want 1/1", state.SaleCount, state.CompletedTransactionCount)
	}
	if !state.LastSale.IsZero() {
		t.Errorf("last sale = %s, want zero", state.LastSale)
	}
}

func TestStartedTransactionWithoutAmount(t *testing.T) {
	state := State{}.
		recordDeposit(d("100"), t1).
		recordTransactionStarted(nil, "Sale")

	if !state.AvailableBalance.Equal(d("100")) {
		t.Errorf("available = %s, want 100", state.AvailableBalance)
	}
	if state.StartedTransactionCount != 1 {
		t.Errorf("started count = %d, want 1", state.StartedTransactionCount)
	}
}

func TestRecordFee(t *testing.T) {
	state := State{}.recordFee(d("1.25"), t1)

	if !state.Balance.Equal(d("1.25")) {
		t.Errorf("balance = %s, want 1.25", state.Balance)
	}
	if !state.AvailableBalance.Equal(d("1.25")) {
		t.Errorf("available = %s, want 1.25", state.AvailableBalance)
	}
	if state.FeeCount != 1 {
		t.Errorf("fee count = %d, want 1", state.FeeCount)
	}
	if !state.ValueOfFees.Equal(d("1.25")) {
		t.Errorf("value of fees = %s, want 1.25", state.ValueOfFees)
	}
}

// A mixed day of activity folded in two different delivery orders must land
// on the same snapshot.
func TestMixedActivityIsOrderTolerant(t *testing.T) {
	forward := State{}.
		recordDeposit(d("200"), t1).
		recordTransactionStarted(dp("50"), "Sale").
		recordTransactionCompleted(true, dp("50"), t2).
		recordFee(d("0.75"), t2).
		recordWithdrawal(d("20"), t3)

	shuffled := State{}.
		recordWithdrawal(d("20"), t3).
		recordFee(d("0.75"), t2).
		recordTransactionCompleted(true, dp("50"), t2).
		recordDeposit(d("200"), t1).
		recordTransactionStarted(dp("50"), "Sale")

	if !forward.Equal(shuffled) {
		t.Errorf("snapshots diverge:\n forward: %+v\nshuffled: %+v", forward, shuffled)
	}
	if !forward.Balance.Equal(d("130.75")) {
		t.Errorf("balance = %s, want 130.75", forward.Balance)
	}
	if !forward.AvailableBalance.Equal(d("130.75")) {
		t.Errorf("available = %s, want 130.75", forward.AvailableBalance)
	}
}

func TestEqualIgnoresVersion(t *testing.T) {
	a := State{}.recordDeposit(d("10"), t1)
	b := a
	b.Version = 42

	if !a.Equal(b) {
		t.Error("Version must not participate in Equal")
	}
}
