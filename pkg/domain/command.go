package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Command represents an intention to change the system state. Commands are
// plain immutable data records; the mediator routes them by CommandType.
type Command interface {
	// ID returns the unique identifier for this command (idempotency key).
	ID() uuid.UUID

	// Aggregate returns the id of the aggregate this command targets.
	Aggregate() uuid.UUID

	// CommandType returns the type name used for handler routing.
	CommandType() string
}

// CommandRecord carries the identity fields every command shares.
type CommandRecord struct {
	CommandID   uuid.UUID
	AggregateID uuid.UUID
}

// NewCommandRecord creates the shared identity portion of a command.
func NewCommandRecord(aggregateID uuid.UUID) CommandRecord {
	return CommandRecord{CommandID: uuid.New(), AggregateID: aggregateID}
}

// ID implements Command.
func (c CommandRecord) ID() uuid.UUID { return c.CommandID }

// Aggregate implements Command.
func (c CommandRecord) Aggregate() uuid.UUID { return c.AggregateID }

// MakeMerchantDepositCommand requests a deposit be applied to a merchant,
// typically in response to an external payment callback.
type MakeMerchantDepositCommand struct {
	CommandRecord
	EstateID        uuid.UUID       `valid:"required"`
	MerchantID      uuid.UUID       `valid:"required"`
	DepositDateTime time.Time       `valid:"required"`
	Reference       string          `valid:"required"`
	Amount          decimal.Decimal `valid:"required"`
}

func (c MakeMerchantDepositCommand) CommandType() string { return "MakeMerchantDepositCommand" }

// CalculateFeesForTransactionCommand requests fee calculation for a completed
// authorised transaction.
type CalculateFeesForTransactionCommand struct {
	CommandRecord
	EstateID            uuid.UUID `valid:"required"`
	MerchantID          uuid.UUID `valid:"required"`
	TransactionID       uuid.UUID `valid:"required"`
	CompletedDateTime   time.Time `valid:"required"`
}

func (c CalculateFeesForTransactionCommand) CommandType() string {
	return "CalculateFeesForTransactionCommand"
}

// AddTransactionToMerchantStatementCommand posts a completed transaction onto
// the merchant's open statement.
type AddTransactionToMerchantStatementCommand struct {
	CommandRecord
	EstateID            uuid.UUID        `valid:"required"`
	MerchantID          uuid.UUID        `valid:"required"`
	TransactionID       uuid.UUID        `valid:"required"`
	TransactionDateTime time.Time        `valid:"required"`
	TransactionAmount   *decimal.Decimal `valid:"-"`
	IsAuthorised        bool             `valid:"-"`
}

func (c AddTransactionToMerchantStatementCommand) CommandType() string {
	return "AddTransactionToMerchantStatementCommand"
}

// AddSettledFeeToMerchantStatementCommand posts a settled fee onto the
// merchant's open statement.
type AddSettledFeeToMerchantStatementCommand struct {
	CommandRecord
	EstateID        uuid.UUID       `valid:"required"`
	MerchantID      uuid.UUID       `valid:"required"`
	TransactionID   uuid.UUID       `valid:"required"`
	FeeID           uuid.UUID       `valid:"required"`
	SettledDateTime time.Time       `valid:"required"`
	SettledValue    decimal.Decimal `valid:"required"`
}

func (c AddSettledFeeToMerchantStatementCommand) CommandType() string {
	return "AddSettledFeeToMerchantStatementCommand"
}

// GenerateMerchantStatementCommand requests statement generation for a merchant.
type GenerateMerchantStatementCommand struct {
	CommandRecord
	EstateID      uuid.UUID `valid:"required"`
	MerchantID    uuid.UUID `valid:"required"`
	StatementDate time.Time `valid:"required"`
}

func (c GenerateMerchantStatementCommand) CommandType() string {
	return "GenerateMerchantStatementCommand"
}

// AddPendingMerchantFeeToSettlementCommand queues a calculated fee for the
// next settlement run.
type AddPendingMerchantFeeToSettlementCommand struct {
	CommandRecord
	EstateID        uuid.UUID       `valid:"required"`
	MerchantID      uuid.UUID       `valid:"required"`
	TransactionID   uuid.UUID       `valid:"required"`
	FeeID           uuid.UUID       `valid:"required"`
	CalculatedValue decimal.Decimal `valid:"required"`
}

func (c AddPendingMerchantFeeToSettlementCommand) CommandType() string {
	return "AddPendingMerchantFeeToSettlementCommand"
}

// RecordCreditPurchaseForFloatCommand records a float top-up purchase.
type RecordCreditPurchaseForFloatCommand struct {
	CommandRecord
	EstateID          uuid.UUID       `valid:"required"`
	FloatID           uuid.UUID       `valid:"required"`
	PurchaseDateTime  time.Time       `valid:"required"`
	CreditAmount      decimal.Decimal `valid:"required"`
	CostPrice         decimal.Decimal `valid:"required"`
}

func (c RecordCreditPurchaseForFloatCommand) CommandType() string {
	return "RecordCreditPurchaseForFloatCommand"
}
