// Package readmodel defines the relational read models the domain event
// handlers project into, and their storage implementations.
package readmodel

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrMerchantNotFound is returned by lookups for an unknown merchant.
var ErrMerchantNotFound = errors.New("merchant not found")

// Merchant is the merchant read-model row.
type Merchant struct {
	EstateID           uuid.UUID
	MerchantID         uuid.UUID
	Name               string
	Reference          string
	SettlementSchedule int
	CreatedDateTime    time.Time
	LastUpdated        time.Time
}

// MerchantAddress is a merchant address row.
type MerchantAddress struct {
	MerchantID   uuid.UUID
	AddressID    uuid.UUID
	AddressLine1 string
	AddressLine2 string
	Town         string
	Region       string
	PostalCode   string
	Country      string
}

// MerchantContact is a merchant contact row.
type MerchantContact struct {
	MerchantID   uuid.UUID
	ContactID    uuid.UUID
	Name         string
	EmailAddress string
	PhoneNumber  string
}

// MerchantDevice is a merchant device row.
type MerchantDevice struct {
	MerchantID       uuid.UUID
	DeviceID         uuid.UUID
	DeviceIdentifier string
}

// MerchantOperator links an operator to a merchant.
type MerchantOperator struct {
	MerchantID     uuid.UUID
	OperatorID     uuid.UUID
	Name           string
	MerchantNumber string
	TerminalNumber string
}

// Transaction is the transaction read-model row.
type Transaction struct {
	EstateID             uuid.UUID
	MerchantID           uuid.UUID
	TransactionID        uuid.UUID
	TransactionDateTime  time.Time
	TransactionNumber    string
	TransactionType      string
	TransactionReference string
	DeviceIdentifier     string
	Amount               *decimal.Decimal
	IsAuthorised         bool
	IsCompleted          bool
	AuthorisationCode    string
	ResponseCode         string
	ResponseMessage      string
	TransactionSource    int
}

// TransactionAdditionalData holds request or response metadata for a transaction.
type TransactionAdditionalData struct {
	TransactionID uuid.UUID
	Direction     string // "request" or "response"
	Data          map[string]string
}

// TransactionFee is a fee calculated (and possibly settled) for a transaction.
type TransactionFee struct {
	TransactionID   uuid.UUID
	FeeID           uuid.UUID
	CalculatedValue decimal.Decimal
	CalculationType int
	FeeValue        decimal.Decimal
	CalculatedAt    time.Time
	IsSettled       bool
	SettlementID    uuid.UUID
	SettledAt       time.Time
}

// Settlement is the settlement read-model row.
type Settlement struct {
	EstateID       uuid.UUID
	MerchantID     uuid.UUID
	SettlementID   uuid.UUID
	SettlementDate time.Time
	IsStarted      bool
	IsCompleted    bool
}

// SettlementFee is a fee attached to a settlement.
type SettlementFee struct {
	SettlementID    uuid.UUID
	TransactionID   uuid.UUID
	FeeID           uuid.UUID
	CalculatedValue decimal.Decimal
	IsSettled       bool
	SettledDateTime time.Time
}

// StatementHeader is the merchant statement read-model row.
type StatementHeader struct {
	EstateID      uuid.UUID
	MerchantID    uuid.UUID
	StatementID   uuid.UUID
	StatementDate time.Time
	GeneratedDate time.Time
	IsGenerated   bool
}

// StatementLine is an activity line on a statement.
type StatementLine struct {
	StatementID  uuid.UUID
	ActivityID   uuid.UUID
	ActivityType string // "Transaction" or "Fee"
	DateTime     time.Time
	Amount       decimal.Decimal
}

// Voucher is the voucher read-model row.
type Voucher struct {
	EstateID           uuid.UUID
	VoucherID          uuid.UUID
	TransactionID      uuid.UUID
	OperatorIdentifier string
	Value              decimal.Decimal
	VoucherCode        string
	Barcode            string
	GeneratedDateTime  time.Time
	ExpiryDate         time.Time
	IsIssued           bool
	IssuedDateTime     time.Time
	RecipientEmail     string
	RecipientMobile    string
	IsRedeemed         bool
	RedeemedDateTime   time.Time
}

// Contract is the contract read-model row.
type Contract struct {
	EstateID    uuid.UUID
	ContractID  uuid.UUID
	OperatorID  uuid.UUID
	Description string
}

// ContractProduct is a product attached to a contract.
type ContractProduct struct {
	ContractID  uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	DisplayText string
	Value       *decimal.Decimal // nil for variable-value products
	ProductType int
}

// ContractProductFee is a transaction fee configured on a contract product.
type ContractProductFee struct {
	ProductID       uuid.UUID
	FeeID           uuid.UUID
	Description     string
	CalculationType int
	FeeType         int
	Value           decimal.Decimal
	IsEnabled       bool
}

// Operator is the operator read-model row.
type Operator struct {
	EstateID                    uuid.UUID
	OperatorID                  uuid.UUID
	Name                        string
	RequireCustomMerchantNumber bool
	RequireCustomTerminalNumber bool
}

// Float is the float read-model row.
type Float struct {
	EstateID        uuid.UUID
	FloatID         uuid.UUID
	ContractID      uuid.UUID
	ProductID       uuid.UUID
	CreatedDateTime time.Time
}

// FloatActivity is a float credit purchase or transaction decrease.
type FloatActivity struct {
	FloatID      uuid.UUID
	ActivityID   uuid.UUID
	ActivityType string // "Purchase" or "Transaction"
	DateTime     time.Time
	Amount       decimal.Decimal
	CostPrice    decimal.Decimal
}

// MerchantBalanceChangedEntry is the append-only audit row produced when the
// balance projection changes state. Keyed by (AggregateID, OriginalEventID)
// so a retried delivery overwrites its own row instead of appending twice.
type MerchantBalanceChangedEntry struct {
	EntryID         string // sortable ULID
	AggregateID     uuid.UUID
	OriginalEventID uuid.UUID
	EstateID        uuid.UUID
	MerchantID      uuid.UUID
	DateTime        time.Time
	Reference       string
	DebitOrCredit   string
	ChangeAmount    decimal.Decimal
	Balance         decimal.Decimal
}

// Repository is the narrow write/read surface the domain event handlers use.
// Every operation is idempotent on retry: repeated delivery of the same event
// converges to the same row contents.
type Repository interface {
	// Merchant
	AddMerchant(ctx context.Context, merchant Merchant) error
	AddMerchantAddress(ctx context.Context, address MerchantAddress) error
	AddMerchantContact(ctx context.Context, contact MerchantContact) error
	AddMerchantDevice(ctx context.Context, device MerchantDevice) error
	AddMerchantOperator(ctx context.Context, operator MerchantOperator) error
	UpdateMerchantReference(ctx context.Context, merchantID uuid.UUID, reference string) error
	UpdateMerchantSettlementSchedule(ctx context.Context, merchantID uuid.UUID, schedule int) error
	GetMerchantByReference(ctx context.Context, estateID uuid.UUID, reference string) (Merchant, error)

	// Transaction
	AddTransaction(ctx context.Context, transaction Transaction) error
	RecordTransactionAdditionalData(ctx context.Context, data TransactionAdditionalData) error
	UpdateTransactionAuthorisation(ctx context.Context, transactionID uuid.UUID, isAuthorised bool, authorisationCode, responseCode, responseMessage string) error
	CompleteTransaction(ctx context.Context, transactionID uuid.UUID, isAuthorised bool, responseCode, responseMessage string) error
	UpdateTransactionSource(ctx context.Context, transactionID uuid.UUID, source int) error
	AddTransactionFee(ctx context.Context, fee TransactionFee) error

	// Settlement
	AddSettlement(ctx context.Context, settlement Settlement) error
	AddSettlementFee(ctx context.Context, fee SettlementFee) error
	MarkSettlementFeeSettled(ctx context.Context, settlementID, feeID uuid.UUID, settledAt time.Time) error
	MarkSettlementProcessingStarted(ctx context.Context, settlementID uuid.UUID, startedAt time.Time) error
	MarkSettlementCompleted(ctx context.Context, settlementID uuid.UUID) error

	// Statement
	AddStatement(ctx context.Context, statement StatementHeader) error
	AddStatementLine(ctx context.Context, line StatementLine) error
	MarkStatementGenerated(ctx context.Context, statementID uuid.UUID, generatedAt time.Time) error

	// Voucher
	AddVoucher(ctx context.Context, voucher Voucher) error
	UpdateVoucherBarcode(ctx context.Context, voucherID uuid.UUID, barcode string) error
	MarkVoucherIssued(ctx context.Context, voucherID uuid.UUID, issuedAt time.Time, recipientEmail, recipientMobile string) error
	MarkVoucherRedeemed(ctx context.Context, voucherID uuid.UUID, redeemedAt time.Time) error

	// Contract
	AddContract(ctx context.Context, contract Contract) error
	AddContractProduct(ctx context.Context, product ContractProduct) error
	AddContractProductFee(ctx context.Context, fee ContractProductFee) error
	DisableContractProductFee(ctx context.Context, productID, feeID uuid.UUID) error

	// Operator
	AddOperator(ctx context.Context, operator Operator) error
	UpdateOperatorName(ctx context.Context, operatorID uuid.UUID, name string) error

	// Float
	AddFloat(ctx context.Context, f Float) error
	RecordFloatActivity(ctx context.Context, activity FloatActivity) error

	// Balance audit trail
	RecordBalanceChangedEntry(ctx context.Context, entry MerchantBalanceChangedEntry) error
}
