package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Merchant statement aggregate events. The aggregate id is the statement id.

type StatementCreatedEvent struct {
	Event
	EstateID      uuid.UUID `json:"estateId"`
	MerchantID    uuid.UUID `json:"merchantId"`
	StatementDate time.Time `json:"statementDate"`
}

func (e *StatementCreatedEvent) EventType() string { return "StatementCreatedEvent" }

type TransactionAddedToStatementEvent struct {
	Event
	EstateID            uuid.UUID       `json:"estateId"`
	MerchantID          uuid.UUID       `json:"merchantId"`
	TransactionID       uuid.UUID       `json:"transactionId"`
	TransactionDateTime time.Time       `json:"transactionDateTime"`
	TransactionValue    decimal.Decimal `json:"transactionValue"`
}

func (e *TransactionAddedToStatementEvent) EventType() string {
	return "TransactionAddedToStatementEvent"
}

type SettledFeeAddedToStatementEvent struct {
	Event
	EstateID        uuid.UUID       `json:"estateId"`
	MerchantID      uuid.UUID       `json:"merchantId"`
	TransactionID   uuid.UUID       `json:"transactionId"`
	SettledFeeID    uuid.UUID       `json:"settledFeeId"`
	SettledDateTime time.Time       `json:"settledDateTime"`
	SettledValue    decimal.Decimal `json:"settledValue"`
}

func (e *SettledFeeAddedToStatementEvent) EventType() string {
	return "SettledFeeAddedToStatementEvent"
}

type StatementGeneratedEvent struct {
	Event
	EstateID      uuid.UUID `json:"estateId"`
	MerchantID    uuid.UUID `json:"merchantId"`
	DateGenerated time.Time `json:"dateGenerated"`
}

func (e *StatementGeneratedEvent) EventType() string { return "StatementGeneratedEvent" }
