package readmodel

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS merchant (
	merchant_id TEXT PRIMARY KEY,
	estate_id TEXT NOT NULL,
	name TEXT NOT NULL,
	reference TEXT NOT NULL DEFAULT '',
	settlement_schedule INTEGER NOT NULL DEFAULT 0,
	created_date_time INTEGER NOT NULL,
	last_updated INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_merchant_reference ON merchant (estate_id, reference);

CREATE TABLE IF NOT EXISTS merchant_address (
	address_id TEXT PRIMARY KEY,
	merchant_id TEXT NOT NULL,
	address_line1 TEXT NOT NULL,
	address_line2 TEXT NOT NULL,
	town TEXT NOT NULL,
	region TEXT NOT NULL,
	postal_code TEXT NOT NULL,
	country TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS merchant_contact (
	contact_id TEXT PRIMARY KEY,
	merchant_id TEXT NOT NULL,
	name TEXT NOT NULL,
	email_address TEXT NOT NULL,
	phone_number TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS merchant_device (
	device_id TEXT PRIMARY KEY,
	merchant_id TEXT NOT NULL,
	device_identifier TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS merchant_operator (
	merchant_id TEXT NOT NULL,
	operator_id TEXT NOT NULL,
	name TEXT NOT NULL,
	merchant_number TEXT NOT NULL,
	terminal_number TEXT NOT NULL,
	PRIMARY KEY (merchant_id, operator_id)
);

CREATE TABLE IF NOT EXISTS txn (
	transaction_id TEXT PRIMARY KEY,
	estate_id TEXT NOT NULL,
	merchant_id TEXT NOT NULL,
	transaction_date_time INTEGER NOT NULL,
	transaction_number TEXT NOT NULL,
	transaction_type TEXT NOT NULL,
	transaction_reference TEXT NOT NULL,
	device_identifier TEXT NOT NULL,
	amount TEXT,
	is_authorised INTEGER NOT NULL DEFAULT 0,
	is_completed INTEGER NOT NULL DEFAULT 0,
	authorisation_code TEXT NOT NULL DEFAULT '',
	response_code TEXT NOT NULL DEFAULT '',
	response_message TEXT NOT NULL DEFAULT '',
	transaction_source INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS txn_additional_data (
	transaction_id TEXT NOT NULL,
	direction TEXT NOT NULL,
	data TEXT NOT NULL,
	PRIMARY KEY (transaction_id, direction)
);

CREATE TABLE IF NOT EXISTS txn_fee (
	transaction_id TEXT NOT NULL,
	fee_id TEXT NOT NULL,
	calculated_value TEXT NOT NULL,
	calculation_type INTEGER NOT NULL,
	fee_value TEXT NOT NULL,
	calculated_at INTEGER NOT NULL,
	is_settled INTEGER NOT NULL DEFAULT 0,
	settlement_id TEXT NOT NULL DEFAULT '',
	settled_at INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (transaction_id, fee_id)
);

CREATE TABLE IF NOT EXISTS settlement (
	settlement_id TEXT PRIMARY KEY,
	estate_id TEXT NOT NULL,
	merchant_id TEXT NOT NULL,
	settlement_date INTEGER NOT NULL,
	is_started INTEGER NOT NULL DEFAULT 0,
	is_completed INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS settlement_fee (
	settlement_id TEXT NOT NULL,
	fee_id TEXT NOT NULL,
	transaction_id TEXT NOT NULL,
	calculated_value TEXT NOT NULL,
	is_settled INTEGER NOT NULL DEFAULT 0,
	settled_date_time INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (settlement_id, fee_id)
);

CREATE TABLE IF NOT EXISTS statement (
	statement_id TEXT PRIMARY KEY,
	estate_id TEXT NOT NULL,
	merchant_id TEXT NOT NULL,
	statement_date INTEGER NOT NULL,
	generated_date INTEGER NOT NULL DEFAULT 0,
	is_generated INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS statement_line (
	statement_id TEXT NOT NULL,
	activity_id TEXT NOT NULL,
	activity_type TEXT NOT NULL,
	date_time INTEGER NOT NULL,
	amount TEXT NOT NULL,
	PRIMARY KEY (statement_id, activity_id)
);

CREATE TABLE IF NOT EXISTS voucher (
	voucher_id TEXT PRIMARY KEY,
	estate_id TEXT NOT NULL,
	transaction_id TEXT NOT NULL,
	operator_identifier TEXT NOT NULL,
	value TEXT NOT NULL,
	voucher_code TEXT NOT NULL,
	barcode TEXT NOT NULL DEFAULT '',
	generated_date_time INTEGER NOT NULL,
	expiry_date INTEGER NOT NULL,
	is_issued INTEGER NOT NULL DEFAULT 0,
	issued_date_time INTEGER NOT NULL DEFAULT 0,
	recipient_email TEXT NOT NULL DEFAULT '',
	recipient_mobile TEXT NOT NULL DEFAULT '',
	is_redeemed INTEGER NOT NULL DEFAULT 0,
	redeemed_date_time INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS contract (
	contract_id TEXT PRIMARY KEY,
	estate_id TEXT NOT NULL,
	operator_id TEXT NOT NULL,
	description TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS contract_product (
	product_id TEXT PRIMARY KEY,
	contract_id TEXT NOT NULL,
	product_name TEXT NOT NULL,
	display_text TEXT NOT NULL,
	value TEXT,
	product_type INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS contract_product_fee (
	product_id TEXT NOT NULL,
	fee_id TEXT NOT NULL,
	description TEXT NOT NULL,
	calculation_type INTEGER NOT NULL,
	fee_type INTEGER NOT NULL,
	value TEXT NOT NULL,
	is_enabled INTEGER NOT NULL DEFAULT 1,
	PRIMARY KEY (product_id, fee_id)
);

CREATE TABLE IF NOT EXISTS operator (
	operator_id TEXT PRIMARY KEY,
	estate_id TEXT NOT NULL,
	name TEXT NOT NULL,
	require_custom_merchant_number INTEGER NOT NULL DEFAULT 0,
	require_custom_terminal_number INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS float (
	float_id TEXT PRIMARY KEY,
	estate_id TEXT NOT NULL,
	contract_id TEXT NOT NULL,
	product_id TEXT NOT NULL,
	created_date_time INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS float_activity (
	float_id TEXT NOT NULL,
	activity_id TEXT NOT NULL,
	activity_type TEXT NOT NULL,
	date_time INTEGER NOT NULL,
	amount TEXT NOT NULL,
	cost_price TEXT NOT NULL,
	PRIMARY KEY (float_id, activity_id)
);

CREATE TABLE IF NOT EXISTS merchant_balance_history (
	aggregate_id TEXT NOT NULL,
	original_event_id TEXT NOT NULL,
	entry_id TEXT NOT NULL,
	estate_id TEXT NOT NULL,
	merchant_id TEXT NOT NULL,
	date_time INTEGER NOT NULL,
	reference TEXT NOT NULL,
	debit_or_credit TEXT NOT NULL,
	change_amount TEXT NOT NULL,
	balance TEXT NOT NULL,
	PRIMARY KEY (aggregate_id, original_event_id)
);
`

// SQLiteRepository is the Repository implementation backed by SQLite via the
// modernc.org/sqlite driver. All writes are single-statement upserts keyed by
// the row's natural primary key, so redelivery of an event converges to the
// same row instead of failing or duplicating.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates the read-model schema on db and returns the
// repository. The db is typically opened with a file DSN in production and
// ":memory:" in tests.
func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create read model schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// DB returns the underlying database connection.
func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func unixOf(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func timeOf(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

func decimalText(d decimal.Decimal) string {
	return d.String()
}

func nullableDecimalText(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func (r *SQLiteRepository) AddMerchant(ctx context.Context, merchant Merchant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO merchant (merchant_id, estate_id, name, reference, settlement_schedule, created_date_time, last_updated)
		VALUES (?, ?, ?, '', 0, ?, ?)
		ON CONFLICT (merchant_id) DO UPDATE SET
			estate_id = excluded.estate_id,
			name = excluded.name,
			created_date_time = excluded.created_date_time,
			last_updated = excluded.last_updated`,
		merchant.MerchantID.String(), merchant.EstateID.String(), merchant.Name,
		unixOf(merchant.CreatedDateTime), unixOf(merchant.LastUpdated))
	if err != nil {
		return fmt.Errorf("failed to add merchant: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddMerchantAddress(ctx context.Context, address MerchantAddress) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO merchant_address (address_id, merchant_id, address_line1, address_line2, town, region, postal_code, country)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		address.AddressID.String(), address.MerchantID.String(), address.AddressLine1,
		address.AddressLine2, address.Town, address.Region, address.PostalCode, address.Country)
	if err != nil {
		return fmt.Errorf("failed to add merchant address: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddMerchantContact(ctx context.Context, contact MerchantContact) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO merchant_contact (contact_id, merchant_id, name, email_address, phone_number)
		VALUES (?, ?, ?, ?, ?)`,
		contact.ContactID.String(), contact.MerchantID.String(), contact.Name,
		contact.EmailAddress, contact.PhoneNumber)
	if err != nil {
		return fmt.Errorf("failed to add merchant contact: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddMerchantDevice(ctx context.Context, device MerchantDevice) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO merchant_device (device_id, merchant_id, device_identifier)
		VALUES (?, ?, ?)`,
		device.DeviceID.String(), device.MerchantID.String(), device.DeviceIdentifier)
	if err != nil {
		return fmt.Errorf("failed to add merchant device: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddMerchantOperator(ctx context.Context, operator MerchantOperator) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO merchant_operator (merchant_id, operator_id, name, merchant_number, terminal_number)
		VALUES (?, ?, ?, ?, ?)`,
		operator.MerchantID.String(), operator.OperatorID.String(), operator.Name,
		operator.MerchantNumber, operator.TerminalNumber)
	if err != nil {
		return fmt.Errorf("failed to add merchant operator: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateMerchantReference(ctx context.Context, merchantID uuid.UUID, reference string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE merchant SET reference = ? WHERE merchant_id = ?`,
		reference, merchantID.String())
	if err != nil {
		return fmt.Errorf("failed to update merchant reference: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateMerchantSettlementSchedule(ctx context.Context, merchantID uuid.UUID, schedule int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE merchant SET settlement_schedule = ? WHERE merchant_id = ?`,
		schedule, merchantID.String())
	if err != nil {
		return fmt.Errorf("failed to update merchant settlement schedule: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetMerchantByReference(ctx context.Context, estateID uuid.UUID, reference string) (Merchant, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT merchant_id, estate_id, name, reference, settlement_schedule, created_date_time, last_updated
		FROM merchant WHERE estate_id = ? AND reference = ?`,
		estateID.String(), reference)

	var (
		merchant             Merchant
		merchantID, estateid string
		created, updated     int64
	)
	err := row.Scan(&merchantID, &estateid, &merchant.Name, &merchant.Reference,
		&merchant.SettlementSchedule, &created, &updated)
	if err == sql.ErrNoRows {
		return Merchant{}, ErrMerchantNotFound
	}
	if err != nil {
		return Merchant{}, fmt.Errorf("failed to load merchant by reference: %w", err)
	}

	merchant.MerchantID, err = uuid.Parse(merchantID)
	if err != nil {
		return Merchant{}, fmt.Errorf("invalid merchant id in read model: %w", err)
	}
	merchant.EstateID, err = uuid.Parse(estateid)
	if err != nil {
		return Merchant{}, fmt.Errorf("invalid estate id in read model: %w", err)
	}
	merchant.CreatedDateTime = timeOf(created)
	merchant.LastUpdated = timeOf(updated)
	return merchant, nil
}

func (r *SQLiteRepository) AddTransaction(ctx context.Context, transaction Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO txn (transaction_id, estate_id, merchant_id, transaction_date_time, transaction_number,
			transaction_type, transaction_reference, device_identifier, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (transaction_id) DO UPDATE SET
			estate_id = excluded.estate_id,
			merchant_id = excluded.merchant_id,
			transaction_date_time = excluded.transaction_date_time,
			transaction_number = excluded.transaction_number,
			transaction_type = excluded.transaction_type,
			transaction_reference = excluded.transaction_reference,
			device_identifier = excluded.device_identifier,
			amount = excluded.amount`,
		transaction.TransactionID.String(), transaction.EstateID.String(), transaction.MerchantID.String(),
		unixOf(transaction.TransactionDateTime), transaction.TransactionNumber, transaction.TransactionType,
		transaction.TransactionReference, transaction.DeviceIdentifier, nullableDecimalText(transaction.Amount))
	if err != nil {
		return fmt.Errorf("failed to add transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) RecordTransactionAdditionalData(ctx context.Context, data TransactionAdditionalData) error {
	encoded, err := json.Marshal(data.Data)
	if err != nil {
		return fmt.Errorf("failed to encode additional data: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO txn_additional_data (transaction_id, direction, data)
		VALUES (?, ?, ?)`,
		data.TransactionID.String(), data.Direction, string(encoded))
	if err != nil {
		return fmt.Errorf("failed to record transaction additional data: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateTransactionAuthorisation(ctx context.Context, transactionID uuid.UUID, isAuthorised bool, authorisationCode, responseCode, responseMessage string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE txn SET is_authorised = ?, authorisation_code = ?, response_code = ?, response_message = ?
		WHERE transaction_id = ?`,
		isAuthorised, authorisationCode, responseCode, responseMessage, transactionID.String())
	if err != nil {
		return fmt.Errorf("failed to update transaction authorisation: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) CompleteTransaction(ctx context.Context, transactionID uuid.UUID, isAuthorised bool, responseCode, responseMessage string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE txn SET is_authorised = ?, is_completed = 1, response_code = ?, response_message = ?
		WHERE transaction_id = ?`,
		isAuthorised, responseCode, responseMessage, transactionID.String())
	if err != nil {
		return fmt.Errorf("failed to complete transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateTransactionSource(ctx context.Context, transactionID uuid.UUID, source int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE txn SET transaction_source = ? WHERE transaction_id = ?`,
		source, transactionID.String())
	if err != nil {
		return fmt.Errorf("failed to update transaction source: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddTransactionFee(ctx context.Context, fee TransactionFee) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO txn_fee (transaction_id, fee_id, calculated_value, calculation_type, fee_value, calculated_at, is_settled, settlement_id, settled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fee.TransactionID.String(), fee.FeeID.String(), decimalText(fee.CalculatedValue),
		fee.CalculationType, decimalText(fee.FeeValue), unixOf(fee.CalculatedAt),
		fee.IsSettled, fee.SettlementID.String(), unixOf(fee.SettledAt))
	if err != nil {
		return fmt.Errorf("failed to add transaction fee: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddSettlement(ctx context.Context, settlement Settlement) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settlement (settlement_id, estate_id, merchant_id, settlement_date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (settlement_id) DO UPDATE SET
			estate_id = excluded.estate_id,
			merchant_id = excluded.merchant_id,
			settlement_date = excluded.settlement_date`,
		settlement.SettlementID.String(), settlement.EstateID.String(),
		settlement.MerchantID.String(), unixOf(settlement.SettlementDate))
	if err != nil {
		return fmt.Errorf("failed to add settlement: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddSettlementFee(ctx context.Context, fee SettlementFee) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settlement_fee (settlement_id, fee_id, transaction_id, calculated_value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (settlement_id, fee_id) DO UPDATE SET
			transaction_id = excluded.transaction_id,
			calculated_value = excluded.calculated_value`,
		fee.SettlementID.String(), fee.FeeID.String(), fee.TransactionID.String(),
		decimalText(fee.CalculatedValue))
	if err != nil {
		return fmt.Errorf("failed to add settlement fee: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkSettlementFeeSettled(ctx context.Context, settlementID, feeID uuid.UUID, settledAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE settlement_fee SET is_settled = 1, settled_date_time = ?
		WHERE settlement_id = ? AND fee_id = ?`,
		unixOf(settledAt), settlementID.String(), feeID.String())
	if err != nil {
		return fmt.Errorf("failed to mark settlement fee settled: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkSettlementProcessingStarted(ctx context.Context, settlementID uuid.UUID, startedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE settlement SET is_started = 1 WHERE settlement_id = ?`,
		settlementID.String())
	if err != nil {
		return fmt.Errorf("failed to mark settlement started: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkSettlementCompleted(ctx context.Context, settlementID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE settlement SET is_completed = 1 WHERE settlement_id = ?`,
		settlementID.String())
	if err != nil {
		return fmt.Errorf("failed to mark settlement completed: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddStatement(ctx context.Context, statement StatementHeader) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO statement (statement_id, estate_id, merchant_id, statement_date)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (statement_id) DO UPDATE SET
			estate_id = excluded.estate_id,
			merchant_id = excluded.merchant_id,
			statement_date = excluded.statement_date`,
		statement.StatementID.String(), statement.EstateID.String(),
		statement.MerchantID.String(), unixOf(statement.StatementDate))
	if err != nil {
		return fmt.Errorf("failed to add statement: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddStatementLine(ctx context.Context, line StatementLine) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO statement_line (statement_id, activity_id, activity_type, date_time, amount)
		VALUES (?, ?, ?, ?, ?)`,
		line.StatementID.String(), line.ActivityID.String(), line.ActivityType,
		unixOf(line.DateTime), decimalText(line.Amount))
	if err != nil {
		return fmt.Errorf("failed to add statement line: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkStatementGenerated(ctx context.Context, statementID uuid.UUID, generatedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE statement SET is_generated = 1, generated_date = ? WHERE statement_id = ?`,
		unixOf(generatedAt), statementID.String())
	if err != nil {
		return fmt.Errorf("failed to mark statement generated: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddVoucher(ctx context.Context, voucher Voucher) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO voucher (voucher_id, estate_id, transaction_id, operator_identifier, value,
			voucher_code, generated_date_time, expiry_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (voucher_id) DO UPDATE SET
			estate_id = excluded.estate_id,
			transaction_id = excluded.transaction_id,
			operator_identifier = excluded.operator_identifier,
			value = excluded.value,
			voucher_code = excluded.voucher_code,
			generated_date_time = excluded.generated_date_time,
			expiry_date = excluded.expiry_date`,
		voucher.VoucherID.String(), voucher.EstateID.String(), voucher.TransactionID.String(),
		voucher.OperatorIdentifier, decimalText(voucher.Value), voucher.VoucherCode,
		unixOf(voucher.GeneratedDateTime), unixOf(voucher.ExpiryDate))
	if err != nil {
		return fmt.Errorf("failed to add voucher: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateVoucherBarcode(ctx context.Context, voucherID uuid.UUID, barcode string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE voucher SET barcode = ? WHERE voucher_id = ?`,
		barcode, voucherID.String())
	if err != nil {
		return fmt.Errorf("failed to update voucher barcode: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkVoucherIssued(ctx context.Context, voucherID uuid.UUID, issuedAt time.Time, recipientEmail, recipientMobile string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE voucher SET is_issued = 1, issued_date_time = ?, recipient_email = ?, recipient_mobile = ?
		WHERE voucher_id = ?`,
		unixOf(issuedAt), recipientEmail, recipientMobile, voucherID.String())
	if err != nil {
		return fmt.Errorf("failed to mark voucher issued: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkVoucherRedeemed(ctx context.Context, voucherID uuid.UUID, redeemedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE voucher SET is_redeemed = 1, redeemed_date_time = ? WHERE voucher_id = ?`,
		unixOf(redeemedAt), voucherID.String())
	if err != nil {
		return fmt.Errorf("failed to mark voucher redeemed: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddContract(ctx context.Context, contract Contract) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO contract (contract_id, estate_id, operator_id, description)
		VALUES (?, ?, ?, ?)`,
		contract.ContractID.String(), contract.EstateID.String(),
		contract.OperatorID.String(), contract.Description)
	if err != nil {
		return fmt.Errorf("failed to add contract: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddContractProduct(ctx context.Context, product ContractProduct) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO contract_product (product_id, contract_id, product_name, display_text, value, product_type)
		VALUES (?, ?, ?, ?, ?, ?)`,
		product.ProductID.String(), product.ContractID.String(), product.ProductName,
		product.DisplayText, nullableDecimalText(product.Value), product.ProductType)
	if err != nil {
		return fmt.Errorf("failed to add contract product: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddContractProductFee(ctx context.Context, fee ContractProductFee) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO contract_product_fee (product_id, fee_id, description, calculation_type, fee_type, value, is_enabled)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		fee.ProductID.String(), fee.FeeID.String(), fee.Description,
		fee.CalculationType, fee.FeeType, decimalText(fee.Value), fee.IsEnabled)
	if err != nil {
		return fmt.Errorf("failed to add contract product fee: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DisableContractProductFee(ctx context.Context, productID, feeID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE contract_product_fee SET is_enabled = 0 WHERE product_id = ? AND fee_id = ?`,
		productID.String(), feeID.String())
	if err != nil {
		return fmt.Errorf("failed to disable contract product fee: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddOperator(ctx context.Context, operator Operator) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO operator (operator_id, estate_id, name, require_custom_merchant_number, require_custom_terminal_number)
		VALUES (?, ?, ?, ?, ?)`,
		operator.OperatorID.String(), operator.EstateID.String(), operator.Name,
		operator.RequireCustomMerchantNumber, operator.RequireCustomTerminalNumber)
	if err != nil {
		return fmt.Errorf("failed to add operator: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateOperatorName(ctx context.Context, operatorID uuid.UUID, name string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE operator SET name = ? WHERE operator_id = ?`,
		name, operatorID.String())
	if err != nil {
		return fmt.Errorf("failed to update operator name: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddFloat(ctx context.Context, f Float) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO float (float_id, estate_id, contract_id, product_id, created_date_time)
		VALUES (?, ?, ?, ?, ?)`,
		f.FloatID.String(), f.EstateID.String(), f.ContractID.String(),
		f.ProductID.String(), unixOf(f.CreatedDateTime))
	if err != nil {
		return fmt.Errorf("failed to add float: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) RecordFloatActivity(ctx context.Context, activity FloatActivity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO float_activity (float_id, activity_id, activity_type, date_time, amount, cost_price)
		VALUES (?, ?, ?, ?, ?, ?)`,
		activity.FloatID.String(), activity.ActivityID.String(), activity.ActivityType,
		unixOf(activity.DateTime), decimalText(activity.Amount), decimalText(activity.CostPrice))
	if err != nil {
		return fmt.Errorf("failed to record float activity: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) RecordBalanceChangedEntry(ctx context.Context, entry MerchantBalanceChangedEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO merchant_balance_history (aggregate_id, original_event_id, entry_id,
			estate_id, merchant_id, date_time, reference, debit_or_credit, change_amount, balance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.AggregateID.String(), entry.OriginalEventID.String(), entry.EntryID,
		entry.EstateID.String(), entry.MerchantID.String(), unixOf(entry.DateTime),
		entry.Reference, entry.DebitOrCredit, decimalText(entry.ChangeAmount), decimalText(entry.Balance))
	if err != nil {
		return fmt.Errorf("failed to record balance changed entry: %w", err)
	}
	return nil
}

var _ Repository = (*SQLiteRepository)(nil)
