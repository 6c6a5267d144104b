package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Float aggregate events. The aggregate id is the float id.

type FloatCreatedForContractProductEvent struct {
	Event
	EstateID        uuid.UUID `json:"estateId"`
	ContractID      uuid.UUID `json:"contractId"`
	ProductID       uuid.UUID `json:"productId"`
	CreatedDateTime time.Time `json:"createdDateTime"`
}

func (e *FloatCreatedForContractProductEvent) EventType() string {
	return "FloatCreatedForContractProductEvent"
}

type FloatCreditPurchasedEvent struct {
	Event
	EstateID                uuid.UUID       `json:"estateId"`
	CreditPurchasedDateTime time.Time       `json:"creditPurchasedDateTime"`
	Amount                  decimal.Decimal `json:"amount"`
	CostPrice               decimal.Decimal `json:"costPrice"`
}

func (e *FloatCreditPurchasedEvent) EventType() string { return "FloatCreditPurchasedEvent" }

type FloatDecreasedByTransactionEvent struct {
	Event
	EstateID      uuid.UUID       `json:"estateId"`
	TransactionID uuid.UUID       `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
}

func (e *FloatDecreasedByTransactionEvent) EventType() string {
	return "FloatDecreasedByTransactionEvent"
}
