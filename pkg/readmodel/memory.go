package readmodel

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository implementation with the same
// idempotent upsert semantics as the SQLite store. Used in tests and the
// demo host.
type MemoryRepository struct {
	mu sync.RWMutex

	merchants         map[uuid.UUID]Merchant
	addresses         map[uuid.UUID]MerchantAddress
	contacts          map[uuid.UUID]MerchantContact
	devices           map[uuid.UUID]MerchantDevice
	merchantOperators map[string]MerchantOperator
	transactions      map[uuid.UUID]Transaction
	additionalData    map[string]TransactionAdditionalData
	transactionFees   map[string]TransactionFee
	settlements       map[uuid.UUID]Settlement
	settlementFees    map[string]SettlementFee
	statements        map[uuid.UUID]StatementHeader
	statementLines    map[string]StatementLine
	vouchers          map[uuid.UUID]Voucher
	contracts         map[uuid.UUID]Contract
	contractProducts  map[uuid.UUID]ContractProduct
	contractFees      map[string]ContractProductFee
	operators         map[uuid.UUID]Operator
	floats            map[uuid.UUID]Float
	floatActivity     map[string]FloatActivity
	balanceEntries    map[string]MerchantBalanceChangedEntry
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		merchants:         make(map[uuid.UUID]Merchant),
		addresses:         make(map[uuid.UUID]MerchantAddress),
		contacts:          make(map[uuid.UUID]MerchantContact),
		devices:           make(map[uuid.UUID]MerchantDevice),
		merchantOperators: make(map[string]MerchantOperator),
		transactions:      make(map[uuid.UUID]Transaction),
		additionalData:    make(map[string]TransactionAdditionalData),
		transactionFees:   make(map[string]TransactionFee),
		settlements:       make(map[uuid.UUID]Settlement),
		settlementFees:    make(map[string]SettlementFee),
		statements:        make(map[uuid.UUID]StatementHeader),
		statementLines:    make(map[string]StatementLine),
		vouchers:          make(map[uuid.UUID]Voucher),
		contracts:         make(map[uuid.UUID]Contract),
		contractProducts:  make(map[uuid.UUID]ContractProduct),
		contractFees:      make(map[string]ContractProductFee),
		operators:         make(map[uuid.UUID]Operator),
		floats:            make(map[uuid.UUID]Float),
		floatActivity:     make(map[string]FloatActivity),
		balanceEntries:    make(map[string]MerchantBalanceChangedEntry),
	}
}

func pairKey(a, b uuid.UUID) string { return a.String() + ":" + b.String() }

// AddMerchant implements Repository. Re-adding the same merchant overwrites
// the row (idempotent on retry), preserving the reference and schedule which
// arrive on later events.
func (r *MemoryRepository) AddMerchant(ctx context.Context, merchant Merchant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.merchants[merchant.MerchantID]; exists {
		merchant.Reference = existing.Reference
		merchant.SettlementSchedule = existing.SettlementSchedule
	}
	r.merchants[merchant.MerchantID] = merchant
	return nil
}

func (r *MemoryRepository) AddMerchantAddress(ctx context.Context, address MerchantAddress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addresses[address.AddressID] = address
	return nil
}

func (r *MemoryRepository) AddMerchantContact(ctx context.Context, contact MerchantContact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts[contact.ContactID] = contact
	return nil
}

func (r *MemoryRepository) AddMerchantDevice(ctx context.Context, device MerchantDevice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices[device.DeviceID] = device
	return nil
}

func (r *MemoryRepository) AddMerchantOperator(ctx context.Context, operator MerchantOperator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.merchantOperators[pairKey(operator.MerchantID, operator.OperatorID)] = operator
	return nil
}

func (r *MemoryRepository) UpdateMerchantReference(ctx context.Context, merchantID uuid.UUID, reference string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	merchant := r.merchants[merchantID]
	merchant.MerchantID = merchantID
	merchant.Reference = reference
	r.merchants[merchantID] = merchant
	return nil
}

func (r *MemoryRepository) UpdateMerchantSettlementSchedule(ctx context.Context, merchantID uuid.UUID, schedule int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	merchant := r.merchants[merchantID]
	merchant.MerchantID = merchantID
	merchant.SettlementSchedule = schedule
	r.merchants[merchantID] = merchant
	return nil
}

func (r *MemoryRepository) GetMerchantByReference(ctx context.Context, estateID uuid.UUID, reference string) (Merchant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, merchant := range r.merchants {
		if merchant.EstateID == estateID && merchant.Reference == reference {
			return merchant, nil
		}
	}
	return Merchant{}, ErrMerchantNotFound
}

// GetMerchant returns a merchant row by id, for tests and queries.
func (r *MemoryRepository) GetMerchant(merchantID uuid.UUID) (Merchant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	merchant, exists := r.merchants[merchantID]
	return merchant, exists
}

func (r *MemoryRepository) AddTransaction(ctx context.Context, transaction Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.transactions[transaction.TransactionID]; exists {
		// Completion and authorisation fields arrive on later events.
		transaction.IsAuthorised = existing.IsAuthorised
		transaction.IsCompleted = existing.IsCompleted
		transaction.AuthorisationCode = existing.AuthorisationCode
		transaction.ResponseCode = existing.ResponseCode
		transaction.ResponseMessage = existing.ResponseMessage
		transaction.TransactionSource = existing.TransactionSource
	}
	r.transactions[transaction.TransactionID] = transaction
	return nil
}

func (r *MemoryRepository) RecordTransactionAdditionalData(ctx context.Context, data TransactionAdditionalData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.additionalData[data.TransactionID.String()+":"+data.Direction] = data
	return nil
}

func (r *MemoryRepository) UpdateTransactionAuthorisation(ctx context.Context, transactionID uuid.UUID, isAuthorised bool, authorisationCode, responseCode, responseMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	transaction := r.transactions[transactionID]
	transaction.TransactionID = transactionID
	transaction.IsAuthorised = isAuthorised
	transaction.AuthorisationCode = authorisationCode
	transaction.ResponseCode = responseCode
	transaction.ResponseMessage = responseMessage
	r.transactions[transactionID] = transaction
	return nil
}

func (r *MemoryRepository) CompleteTransaction(ctx context.Context, transactionID uuid.UUID, isAuthorised bool, responseCode, responseMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	transaction := r.transactions[transactionID]
	transaction.TransactionID = transactionID
	transaction.IsAuthorised = isAuthorised
	transaction.IsCompleted = true
	transaction.ResponseCode = responseCode
	transaction.ResponseMessage = responseMessage
	r.transactions[transactionID] = transaction
	return nil
}

func (r *MemoryRepository) UpdateTransactionSource(ctx context.Context, transactionID uuid.UUID, source int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	transaction := r.transactions[transactionID]
	transaction.TransactionID = transactionID
	transaction.TransactionSource = source
	r.transactions[transactionID] = transaction
	return nil
}

// GetTransaction returns a transaction row by id, for tests and queries.
func (r *MemoryRepository) GetTransaction(transactionID uuid.UUID) (Transaction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	transaction, exists := r.transactions[transactionID]
	return transaction, exists
}

func (r *MemoryRepository) AddTransactionFee(ctx context.Context, fee TransactionFee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactionFees[pairKey(fee.TransactionID, fee.FeeID)] = fee
	return nil
}

func (r *MemoryRepository) AddSettlement(ctx context.Context, settlement Settlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.settlements[settlement.SettlementID]; exists {
		settlement.IsStarted = existing.IsStarted
		settlement.IsCompleted = existing.IsCompleted
	}
	r.settlements[settlement.SettlementID] = settlement
	return nil
}

func (r *MemoryRepository) AddSettlementFee(ctx context.Context, fee SettlementFee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(fee.SettlementID, fee.FeeID)
	if existing, exists := r.settlementFees[key]; exists {
		fee.IsSettled = existing.IsSettled
		fee.SettledDateTime = existing.SettledDateTime
	}
	r.settlementFees[key] = fee
	return nil
}

func (r *MemoryRepository) MarkSettlementFeeSettled(ctx context.Context, settlementID, feeID uuid.UUID, settledAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(settlementID, feeID)
	fee := r.settlementFees[key]
	fee.SettlementID = settlementID
	fee.FeeID = feeID
	fee.IsSettled = true
	fee.SettledDateTime = settledAt
	r.settlementFees[key] = fee
	return nil
}

func (r *MemoryRepository) MarkSettlementProcessingStarted(ctx context.Context, settlementID uuid.UUID, startedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	settlement := r.settlements[settlementID]
	settlement.SettlementID = settlementID
	settlement.IsStarted = true
	r.settlements[settlementID] = settlement
	return nil
}

func (r *MemoryRepository) MarkSettlementCompleted(ctx context.Context, settlementID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	settlement := r.settlements[settlementID]
	settlement.SettlementID = settlementID
	settlement.IsCompleted = true
	r.settlements[settlementID] = settlement
	return nil
}

func (r *MemoryRepository) AddStatement(ctx context.Context, statement StatementHeader) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.statements[statement.StatementID]; exists {
		statement.IsGenerated = existing.IsGenerated
		statement.GeneratedDate = existing.GeneratedDate
	}
	r.statements[statement.StatementID] = statement
	return nil
}

func (r *MemoryRepository) AddStatementLine(ctx context.Context, line StatementLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statementLines[pairKey(line.StatementID, line.ActivityID)] = line
	return nil
}

func (r *MemoryRepository) MarkStatementGenerated(ctx context.Context, statementID uuid.UUID, generatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	statement := r.statements[statementID]
	statement.StatementID = statementID
	statement.IsGenerated = true
	statement.GeneratedDate = generatedAt
	r.statements[statementID] = statement
	return nil
}

func (r *MemoryRepository) AddVoucher(ctx context.Context, voucher Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.vouchers[voucher.VoucherID]; exists {
		voucher.Barcode = existing.Barcode
		voucher.IsIssued = existing.IsIssued
		voucher.IssuedDateTime = existing.IssuedDateTime
		voucher.RecipientEmail = existing.RecipientEmail
		voucher.RecipientMobile = existing.RecipientMobile
		voucher.IsRedeemed = existing.IsRedeemed
		voucher.RedeemedDateTime = existing.RedeemedDateTime
	}
	r.vouchers[voucher.VoucherID] = voucher
	return nil
}

func (r *MemoryRepository) UpdateVoucherBarcode(ctx context.Context, voucherID uuid.UUID, barcode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	voucher := r.vouchers[voucherID]
	voucher.VoucherID = voucherID
	voucher.Barcode = barcode
	r.vouchers[voucherID] = voucher
	return nil
}

func (r *MemoryRepository) MarkVoucherIssued(ctx context.Context, voucherID uuid.UUID, issuedAt time.Time, recipientEmail, recipientMobile string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	voucher := r.vouchers[voucherID]
	voucher.VoucherID = voucherID
	voucher.IsIssued = true
	voucher.IssuedDateTime = issuedAt
	voucher.RecipientEmail = recipientEmail
	voucher.RecipientMobile = recipientMobile
	r.vouchers[voucherID] = voucher
	return nil
}

func (r *MemoryRepository) MarkVoucherRedeemed(ctx context.Context, voucherID uuid.UUID, redeemedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	voucher := r.vouchers[voucherID]
	voucher.VoucherID = voucherID
	voucher.IsRedeemed = true
	voucher.RedeemedDateTime = redeemedAt
	r.vouchers[voucherID] = voucher
	return nil
}

func (r *MemoryRepository) AddContract(ctx context.Context, contract Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contracts[contract.ContractID] = contract
	return nil
}

func (r *MemoryRepository) AddContractProduct(ctx context.Context, product ContractProduct) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contractProducts[product.ProductID] = product
	return nil
}

func (r *MemoryRepository) AddContractProductFee(ctx context.Context, fee ContractProductFee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contractFees[pairKey(fee.ProductID, fee.FeeID)] = fee
	return nil
}

func (r *MemoryRepository) DisableContractProductFee(ctx context.Context, productID, feeID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(productID, feeID)
	fee := r.contractFees[key]
	fee.ProductID = productID
	fee.FeeID = feeID
	fee.IsEnabled = false
	r.contractFees[key] = fee
	return nil
}

func (r *MemoryRepository) AddOperator(ctx context.Context, operator Operator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operators[operator.OperatorID] = operator
	return nil
}

func (r *MemoryRepository) UpdateOperatorName(ctx context.Context, operatorID uuid.UUID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	operator := r.operators[operatorID]
	operator.OperatorID = operatorID
	operator.Name = name
	r.operators[operatorID] = operator
	return nil
}

func (r *MemoryRepository) AddFloat(ctx context.Context, f Float) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.floats[f.FloatID] = f
	return nil
}

func (r *MemoryRepository) RecordFloatActivity(ctx context.Context, activity FloatActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.floatActivity[pairKey(activity.FloatID, activity.ActivityID)] = activity
	return nil
}

// RecordBalanceChangedEntry implements Repository. Keyed by (aggregate,
// original event) so a retried dispatch does not append a duplicate row.
func (r *MemoryRepository) RecordBalanceChangedEntry(ctx context.Context, entry MerchantBalanceChangedEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balanceEntries[pairKey(entry.AggregateID, entry.OriginalEventID)] = entry
	return nil
}

// BalanceChangedEntries returns all audit rows, for tests.
func (r *MemoryRepository) BalanceChangedEntries() []MerchantBalanceChangedEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]MerchantBalanceChangedEntry, 0, len(r.balanceEntries))
	for _, entry := range r.balanceEntries {
		entries = append(entries, entry)
	}
	return entries
}

var _ Repository = (*MemoryRepository)(nil)
