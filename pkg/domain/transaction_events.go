package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction aggregate events. The aggregate id is the transaction id.

// Transaction types carried on TransactionHasStartedEvent.
const (
	TransactionTypeLogon = "Logon"
	TransactionTypeSale  = "Sale"
)

type TransactionHasStartedEvent struct {
	Event
	EstateID             uuid.UUID        `json:"estateId"`
	MerchantID           uuid.UUID        `json:"merchantId"`
	TransactionDateTime  time.Time        `json:"transactionDateTime"`
	TransactionNumber    string           `json:"transactionNumber"`
	TransactionType      string           `json:"transactionType"`
	TransactionReference string           `json:"transactionReference"`
	DeviceIdentifier     string           `json:"deviceIdentifier"`
	TransactionAmount    *decimal.Decimal `json:"transactionAmount,omitempty"`
}

func (e *TransactionHasStartedEvent) EventType() string { return "TransactionHasStartedEvent" }

type AdditionalRequestDataRecordedEvent struct {
	Event
	EstateID                  uuid.UUID         `json:"estateId"`
	MerchantID                uuid.UUID         `json:"merchantId"`
	OperatorID                uuid.UUID         `json:"operatorId"`
	AdditionalTransactionData map[string]string `json:"additionalTransactionRequestMetadata"`
}

func (e *AdditionalRequestDataRecordedEvent) EventType() string {
	return "AdditionalRequestDataRecordedEvent"
}

type AdditionalResponseDataRecordedEvent struct {
	Event
	EstateID                  uuid.UUID         `json:"estateId"`
	MerchantID                uuid.UUID         `json:"merchantId"`
	OperatorID                uuid.UUID         `json:"operatorId"`
	AdditionalTransactionData map[string]string `json:"additionalTransactionResponseMetadata"`
}

func (e *AdditionalResponseDataRecordedEvent) EventType() string {
	return "AdditionalResponseDataRecordedEvent"
}

type TransactionHasBeenLocallyAuthorisedEvent struct {
	Event
	EstateID          uuid.UUID `json:"estateId"`
	MerchantID        uuid.UUID `json:"merchantId"`
	AuthorisationCode string    `json:"authorisationCode"`
	ResponseCode      string    `json:"responseCode"`
	ResponseMessage   string    `json:"responseMessage"`
}

func (e *TransactionHasBeenLocallyAuthorisedEvent) EventType() string {
	return "TransactionHasBeenLocallyAuthorisedEvent"
}

type TransactionHasBeenLocallyDeclinedEvent struct {
	Event
	EstateID        uuid.UUID `json:"estateId"`
	MerchantID      uuid.UUID `json:"merchantId"`
	ResponseCode    string    `json:"responseCode"`
	ResponseMessage string    `json:"responseMessage"`
}

func (e *TransactionHasBeenLocallyDeclinedEvent) EventType() string {
	return "TransactionHasBeenLocallyDeclinedEvent"
}

type TransactionAuthorisedByOperatorEvent struct {
	Event
	EstateID                uuid.UUID `json:"estateId"`
	MerchantID              uuid.UUID `json:"merchantId"`
	OperatorID              uuid.UUID `json:"operatorId"`
	AuthorisationCode       string    `json:"authorisationCode"`
	OperatorResponseCode    string    `json:"operatorResponseCode"`
	OperatorResponseMessage string    `json:"operatorResponseMessage"`
}

func (e *TransactionAuthorisedByOperatorEvent) EventType() string {
	return "TransactionAuthorisedByOperatorEvent"
}

type TransactionDeclinedByOperatorEvent struct {
	Event
	EstateID                uuid.UUID `json:"estateId"`
	MerchantID              uuid.UUID `json:"merchantId"`
	OperatorID              uuid.UUID `json:"operatorId"`
	OperatorResponseCode    string    `json:"operatorResponseCode"`
	OperatorResponseMessage string    `json:"operatorResponseMessage"`
}

func (e *TransactionDeclinedByOperatorEvent) EventType() string {
	return "TransactionDeclinedByOperatorEvent"
}

// TransactionHasBeenCompletedEvent closes a transaction. TransactionAmount is
// absent for flows that carry no monetary value (e.g. a logon test message).
type TransactionHasBeenCompletedEvent struct {
	Event
	EstateID          uuid.UUID        `json:"estateId"`
	MerchantID        uuid.UUID        `json:"merchantId"`
	ResponseCode      string           `json:"responseCode"`
	ResponseMessage   string           `json:"responseMessage"`
	IsAuthorised      bool             `json:"isAuthorised"`
	CompletedDateTime time.Time        `json:"completedDateTime"`
	TransactionAmount *decimal.Decimal `json:"transactionAmount,omitempty"`
}

func (e *TransactionHasBeenCompletedEvent) EventType() string {
	return "TransactionHasBeenCompletedEvent"
}

type MerchantFeeAddedToTransactionEvent struct {
	Event
	EstateID              uuid.UUID       `json:"estateId"`
	MerchantID            uuid.UUID       `json:"merchantId"`
	FeeID                 uuid.UUID       `json:"feeId"`
	CalculatedValue       decimal.Decimal `json:"calculatedValue"`
	FeeCalculationType    int             `json:"feeCalculationType"`
	FeeValue              decimal.Decimal `json:"feeValue"`
	FeeCalculatedDateTime time.Time       `json:"feeCalculatedDateTime"`
}

func (e *MerchantFeeAddedToTransactionEvent) EventType() string {
	return "MerchantFeeAddedToTransactionEvent"
}

type SettledMerchantFeeAddedToTransactionEvent struct {
	Event
	EstateID              uuid.UUID       `json:"estateId"`
	MerchantID            uuid.UUID       `json:"merchantId"`
	FeeID                 uuid.UUID       `json:"feeId"`
	SettlementID          uuid.UUID       `json:"settlementId"`
	CalculatedValue       decimal.Decimal `json:"calculatedValue"`
	FeeCalculationType    int             `json:"feeCalculationType"`
	FeeValue              decimal.Decimal `json:"feeValue"`
	FeeCalculatedDateTime time.Time       `json:"feeCalculatedDateTime"`
	SettledDateTime       time.Time       `json:"settledDateTime"`
}

func (e *SettledMerchantFeeAddedToTransactionEvent) EventType() string {
	return "SettledMerchantFeeAddedToTransactionEvent"
}

type CustomerEmailReceiptRequestedEvent struct {
	Event
	EstateID             uuid.UUID `json:"estateId"`
	MerchantID           uuid.UUID `json:"merchantId"`
	CustomerEmailAddress string    `json:"customerEmailAddress"`
}

func (e *CustomerEmailReceiptRequestedEvent) EventType() string {
	return "CustomerEmailReceiptRequestedEvent"
}

type TransactionSourceAddedToTransactionEvent struct {
	Event
	EstateID          uuid.UUID `json:"estateId"`
	MerchantID        uuid.UUID `json:"merchantId"`
	TransactionSource int       `json:"transactionSource"`
}

func (e *TransactionSourceAddedToTransactionEvent) EventType() string {
	return "TransactionSourceAddedToTransactionEvent"
}
