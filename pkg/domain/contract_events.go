package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Contract aggregate events. The aggregate id is the contract id.

type ContractCreatedEvent struct {
	Event
	EstateID    uuid.UUID `json:"estateId"`
	OperatorID  uuid.UUID `json:"operatorId"`
	Description string    `json:"description"`
}

func (e *ContractCreatedEvent) EventType() string { return "ContractCreatedEvent" }

type FixedValueProductAddedToContractEvent struct {
	Event
	EstateID    uuid.UUID       `json:"estateId"`
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	DisplayText string          `json:"displayText"`
	Value       decimal.Decimal `json:"value"`
	ProductType int             `json:"productType"`
}

func (e *FixedValueProductAddedToContractEvent) EventType() string {
	return "FixedValueProductAddedToContractEvent"
}

type VariableValueProductAddedToContractEvent struct {
	Event
	EstateID    uuid.UUID `json:"estateId"`
	ProductID   uuid.UUID `json:"productId"`
	ProductName string    `json:"productName"`
	DisplayText string    `json:"displayText"`
	ProductType int       `json:"productType"`
}

func (e *VariableValueProductAddedToContractEvent) EventType() string {
	return "VariableValueProductAddedToContractEvent"
}

type TransactionFeeForProductAddedToContractEvent struct {
	Event
	EstateID         uuid.UUID       `json:"estateId"`
	ProductID        uuid.UUID       `json:"productId"`
	TransactionFeeID uuid.UUID       `json:"transactionFeeId"`
	Description      string          `json:"description"`
	CalculationType  int             `json:"calculationType"`
	FeeType          int             `json:"feeType"`
	Value            decimal.Decimal `json:"value"`
}

func (e *TransactionFeeForProductAddedToContractEvent) EventType() string {
	return "TransactionFeeForProductAddedToContractEvent"
}

type TransactionFeeForProductDisabledEvent struct {
	Event
	EstateID         uuid.UUID `json:"estateId"`
	ProductID        uuid.UUID `json:"productId"`
	TransactionFeeID uuid.UUID `json:"transactionFeeId"`
}

func (e *TransactionFeeForProductDisabledEvent) EventType() string {
	return "TransactionFeeForProductDisabledEvent"
}
