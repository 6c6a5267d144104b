package merchantbalance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/settleflow/processor/pkg/domain"
)

const balanceStateSchema = `
CREATE TABLE IF NOT EXISTS merchant_balance_state (
    estate_id                   TEXT NOT NULL,
    merchant_id                 TEXT NOT NULL,
    merchant_name               TEXT NOT NULL DEFAULT '',
    balance                     TEXT NOT NULL DEFAULT '0',
    available_balance           TEXT NOT NULL DEFAULT '0',
    deposit_count               INTEGER NOT NULL DEFAULT 0,
    withdrawal_count            INTEGER NOT NULL DEFAULT 0,
    started_transaction_count   INTEGER NOT NULL DEFAULT 0,
    completed_transaction_count INTEGER NOT NULL DEFAULT 0,
    sale_count                  INTEGER NOT NULL DEFAULT 0,
    fee_count                   INTEGER NOT NULL DEFAULT 0,
    total_deposited             TEXT NOT NULL DEFAULT '0',
    total_withdrawn             TEXT NOT NULL DEFAULT '0',
    authorised_sales            TEXT NOT NULL DEFAULT '0',
    declined_sales              TEXT NOT NULL DEFAULT '0',
    value_of_fees               TEXT NOT NULL DEFAULT '0',
    last_deposit                INTEGER NOT NULL DEFAULT 0,
    last_withdrawal             INTEGER NOT NULL DEFAULT 0,
    last_sale                   INTEGER NOT NULL DEFAULT 0,
    last_fee                    INTEGER NOT NULL DEFAULT 0,
    version                     INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (estate_id, merchant_id)
);`

// SQLiteStateStore persists balance snapshots in SQLite with a version column
// for optimistic concurrency. Amounts are stored as decimal strings, never
// floats.
type SQLiteStateStore struct {
	db *sql.DB
}

// NewSQLiteStateStore creates the store and runs its schema migration.
func NewSQLiteStateStore(db *sql.DB) (*SQLiteStateStore, error) {
	if _, err := db.Exec(balanceStateSchema); err != nil {
		return nil, fmt.Errorf("failed to migrate merchant_balance_state: %w", err)
	}
	return &SQLiteStateStore{db: db}, nil
}

// Load implements projection.StateRepository. An unknown key yields a fresh
// default state at version zero.
func (s *SQLiteStateStore) Load(ctx context.Context, event domain.DomainEvent) (State, error) {
	estateID, merchantID, ok := StateKey(event)
	if !ok {
		return State{}, fmt.Errorf("event %s carries no merchant balance key", event.EventType())
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT merchant_name, balance, available_balance,
		       deposit_count, withdrawal_count, started_transaction_count,
		       completed_transaction_count, sale_count, fee_count,
		       total_deposited, total_withdrawn, authorised_sales, declined_sales, value_of_fees,
		       last_deposit, last_withdrawal, last_sale, last_fee, version
		FROM merchant_balance_state
		WHERE estate_id = ? AND merchant_id = ?`,
		estateID.String(), merchantID.String())

	var (
		state State
		balance, available, deposited, withdrawn, authorised, declined, fees string
		lastDeposit, lastWithdrawal, lastSale, lastFee                       int64
	)
	err := row.Scan(&state.MerchantName, &balance, &available,
		&state.DepositCount, &state.WithdrawalCount, &state.StartedTransactionCount,
		&state.CompletedTransactionCount, &state.SaleCount, &state.FeeCount,
		&deposited, &withdrawn, &authorised, &declined, &fees,
		&lastDeposit, &lastWithdrawal, &lastSale, &lastFee, &state.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to load balance state: %w", err)
	}

	state.EstateID = estateID
	state.MerchantID = merchantID
	if state.Balance, err = decimal.NewFromString(balance); err != nil {
		return State{}, fmt.Errorf("corrupt balance column: %w", err)
	}
	if state.AvailableBalance, err = decimal.NewFromString(available); err != nil {
		return State{}, fmt.Errorf("corrupt available_balance column: %w", err)
	}
	if state.TotalDeposited, err = decimal.NewFromString(deposited); err != nil {
		return State{}, fmt.Errorf("corrupt total_deposited column: %w", err)
	}
	if state.TotalWithdrawn, err = decimal.NewFromString(withdrawn); err != nil {
		return State{}, fmt.Errorf("corrupt total_withdrawn column: %w", err)
	}
	if state.AuthorisedSales, err = decimal.NewFromString(authorised); err != nil {
		return State{}, fmt.Errorf("corrupt authorised_sales column: %w", err)
	}
	if state.DeclinedSales, err = decimal.NewFromString(declined); err != nil {
		return State{}, fmt.Errorf("corrupt declined_sales column: %w", err)
	}
	if state.ValueOfFees, err = decimal.NewFromString(fees); err != nil {
		return State{}, fmt.Errorf("corrupt value_of_fees column: %w", err)
	}
	state.LastDeposit = fromUnix(lastDeposit)
	state.LastWithdrawal = fromUnix(lastWithdrawal)
	state.LastSale = fromUnix(lastSale)
	state.LastFee = fromUnix(lastFee)

	return state, nil
}

// Save implements projection.StateRepository. The write is guarded by the
// version the caller loaded; a stale save updates no rows and surfaces as a
// concurrency conflict.
func (s *SQLiteStateStore) Save(ctx context.Context, state State, event domain.DomainEvent) error {
	estateID, merchantID, ok := StateKey(event)
	if !ok {
		return fmt.Errorf("event %s carries no merchant balance key", event.EventType())
	}

	if state.Version == 0 {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO merchant_balance_state (
				estate_id, merchant_id, merchant_name, balance, available_balance,
				deposit_count, withdrawal_count, started_transaction_count,
				completed_transaction_count, sale_count, fee_count,
				total_deposited, total_withdrawn, authorised_sales, declined_sales, value_of_fees,
				last_deposit, last_withdrawal, last_sale, last_fee, version)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			estateID.String(), merchantID.String(), state.MerchantName,
			state.Balance.String(), state.AvailableBalance.String(),
			state.DepositCount, state.WithdrawalCount, state.StartedTransactionCount,
			state.CompletedTransactionCount, state.SaleCount, state.FeeCount,
			state.TotalDeposited.String(), state.TotalWithdrawn.String(),
			state.AuthorisedSales.String(), state.DeclinedSales.String(), state.ValueOfFees.String(),
			toUnix(state.LastDeposit), toUnix(state.LastWithdrawal),
			toUnix(state.LastSale), toUnix(state.LastFee))
		if err != nil {
			// A unique violation here means another writer created the row first.
			return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
		}
		return nil
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE merchant_balance_state SET
			merchant_name = ?, balance = ?, available_balance = ?,
			deposit_count = ?, withdrawal_count = ?, started_transaction_count = ?,
			completed_transaction_count = ?, sale_count = ?, fee_count = ?,
			total_deposited = ?, total_withdrawn = ?, authorised_sales = ?,
			declined_sales = ?, value_of_fees = ?,
			last_deposit = ?, last_withdrawal = ?, last_sale = ?, last_fee = ?,
			version = version + 1
		WHERE estate_id = ? AND merchant_id = ? AND version = ?`,
		state.MerchantName, state.Balance.String(), state.AvailableBalance.String(),
		state.DepositCount, state.WithdrawalCount, state.StartedTransactionCount,
		state.CompletedTransactionCount, state.SaleCount, state.FeeCount,
		state.TotalDeposited.String(), state.TotalWithdrawn.String(),
		state.AuthorisedSales.String(), state.DeclinedSales.String(), state.ValueOfFees.String(),
		toUnix(state.LastDeposit), toUnix(state.LastWithdrawal),
		toUnix(state.LastSale), toUnix(state.LastFee),
		estateID.String(), merchantID.String(), state.Version)
	if err != nil {
		return fmt.Errorf("failed to save balance state: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check balance state save: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: merchant %s version %d is stale",
			domain.ErrConcurrencyConflict, merchantID, state.Version)
	}

	return nil
}

// GetState loads the snapshot for a merchant directly, for query serving.
func (s *SQLiteStateStore) GetState(ctx context.Context, estateID, merchantID uuid.UUID) (State, error) {
	event := &domain.MerchantCreatedEvent{
		Event:    domain.Event{AggregateID: merchantID},
		EstateID: estateID,
	}
	return s.Load(ctx, event)
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
