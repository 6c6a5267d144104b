package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settlement aggregate events. The aggregate id is the settlement id.

type SettlementCreatedForDateEvent struct {
	Event
	EstateID       uuid.UUID `json:"estateId"`
	MerchantID     uuid.UUID `json:"merchantId"`
	SettlementDate time.Time `json:"settlementDate"`
}

func (e *SettlementCreatedForDateEvent) EventType() string { return "SettlementCreatedForDateEvent" }

type MerchantFeeAddedPendingSettlementEvent struct {
	Event
	EstateID        uuid.UUID       `json:"estateId"`
	MerchantID      uuid.UUID       `json:"merchantId"`
	TransactionID   uuid.UUID       `json:"transactionId"`
	FeeID           uuid.UUID       `json:"feeId"`
	CalculatedValue decimal.Decimal `json:"calculatedValue"`
}

func (e *MerchantFeeAddedPendingSettlementEvent) EventType() string {
	return "MerchantFeeAddedPendingSettlementEvent"
}

type SettlementProcessingStartedEvent struct {
	Event
	EstateID                  uuid.UUID `json:"estateId"`
	MerchantID                uuid.UUID `json:"merchantId"`
	ProcessingStartedDateTime time.Time `json:"processingStartedDateTime"`
}

func (e *SettlementProcessingStartedEvent) EventType() string {
	return "SettlementProcessingStartedEvent"
}

type MerchantFeeSettledEvent struct {
	Event
	EstateID        uuid.UUID       `json:"estateId"`
	MerchantID      uuid.UUID       `json:"merchantId"`
	TransactionID   uuid.UUID       `json:"transactionId"`
	FeeID           uuid.UUID       `json:"feeId"`
	CalculatedValue decimal.Decimal `json:"calculatedValue"`
	SettledDateTime time.Time       `json:"settledDateTime"`
}

func (e *MerchantFeeSettledEvent) EventType() string { return "MerchantFeeSettledEvent" }

type SettlementCompletedEvent struct {
	Event
	EstateID   uuid.UUID `json:"estateId"`
	MerchantID uuid.UUID `json:"merchantId"`
}

func (e *SettlementCompletedEvent) EventType() string { return "SettlementCompletedEvent" }
