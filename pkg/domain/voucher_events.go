package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Voucher aggregate events. The aggregate id is the voucher id.

type VoucherGeneratedEvent struct {
	Event
	EstateID           uuid.UUID       `json:"estateId"`
	TransactionID      uuid.UUID       `json:"transactionId"`
	OperatorIdentifier string          `json:"operatorIdentifier"`
	Value              decimal.Decimal `json:"value"`
	VoucherCode        string          `json:"voucherCode"`
	GeneratedDateTime  time.Time       `json:"generatedDateTime"`
	ExpiryDate         time.Time       `json:"expiryDate"`
}

func (e *VoucherGeneratedEvent) EventType() string { return "VoucherGeneratedEvent" }

type BarcodeAddedEvent struct {
	Event
	EstateID uuid.UUID `json:"estateId"`
	Barcode  string    `json:"barcode"`
}

func (e *BarcodeAddedEvent) EventType() string { return "BarcodeAddedEvent" }

type VoucherIssuedEvent struct {
	Event
	EstateID        uuid.UUID `json:"estateId"`
	IssuedDateTime  time.Time `json:"issuedDateTime"`
	RecipientEmail  string    `json:"recipientEmail"`
	RecipientMobile string    `json:"recipientMobile"`
}

func (e *VoucherIssuedEvent) EventType() string { return "VoucherIssuedEvent" }

type VoucherFullyRedeemedEvent struct {
	Event
	EstateID         uuid.UUID `json:"estateId"`
	RedeemedDateTime time.Time `json:"redeemedDateTime"`
}

func (e *VoucherFullyRedeemedEvent) EventType() string { return "VoucherFullyRedeemedEvent" }
