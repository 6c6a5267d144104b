package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Merchant aggregate events. The aggregate id is the merchant id; every event
// also carries the owning estate id.

type MerchantCreatedEvent struct {
	Event
	EstateID     uuid.UUID `json:"estateId"`
	MerchantName string    `json:"merchantName"`
	DateCreated  time.Time `json:"dateCreated"`
}

func (e *MerchantCreatedEvent) EventType() string { return "MerchantCreatedEvent" }

type AddressAddedEvent struct {
	Event
	EstateID     uuid.UUID `json:"estateId"`
	AddressID    uuid.UUID `json:"addressId"`
	AddressLine1 string    `json:"addressLine1"`
	AddressLine2 string    `json:"addressLine2"`
	Town         string    `json:"town"`
	Region       string    `json:"region"`
	PostalCode   string    `json:"postalCode"`
	Country      string    `json:"country"`
}

func (e *AddressAddedEvent) EventType() string { return "AddressAddedEvent" }

type ContactAddedEvent struct {
	Event
	EstateID            uuid.UUID `json:"estateId"`
	ContactID           uuid.UUID `json:"contactId"`
	ContactName         string    `json:"contactName"`
	ContactEmailAddress string    `json:"contactEmailAddress"`
	ContactPhoneNumber  string    `json:"contactPhoneNumber"`
}

func (e *ContactAddedEvent) EventType() string { return "ContactAddedEvent" }

type OperatorAssignedToMerchantEvent struct {
	Event
	EstateID       uuid.UUID `json:"estateId"`
	OperatorID     uuid.UUID `json:"operatorId"`
	Name           string    `json:"name"`
	MerchantNumber string    `json:"merchantNumber"`
	TerminalNumber string    `json:"terminalNumber"`
}

func (e *OperatorAssignedToMerchantEvent) EventType() string {
	return "OperatorAssignedToMerchantEvent"
}

type DeviceAddedToMerchantEvent struct {
	Event
	EstateID         uuid.UUID `json:"estateId"`
	DeviceID         uuid.UUID `json:"deviceId"`
	DeviceIdentifier string    `json:"deviceIdentifier"`
}

func (e *DeviceAddedToMerchantEvent) EventType() string { return "DeviceAddedToMerchantEvent" }

type MerchantReferenceAllocatedEvent struct {
	Event
	EstateID          uuid.UUID `json:"estateId"`
	MerchantReference string    `json:"merchantReference"`
}

func (e *MerchantReferenceAllocatedEvent) EventType() string {
	return "MerchantReferenceAllocatedEvent"
}

type ManualDepositMadeEvent struct {
	Event
	EstateID        uuid.UUID       `json:"estateId"`
	DepositID       uuid.UUID       `json:"depositId"`
	Reference       string          `json:"reference"`
	DepositDateTime time.Time       `json:"depositDateTime"`
	Amount          decimal.Decimal `json:"amount"`
}

func (e *ManualDepositMadeEvent) EventType() string { return "ManualDepositMadeEvent" }

type AutomaticDepositMadeEvent struct {
	Event
	EstateID        uuid.UUID       `json:"estateId"`
	DepositID       uuid.UUID       `json:"depositId"`
	Reference       string          `json:"reference"`
	DepositDateTime time.Time       `json:"depositDateTime"`
	Amount          decimal.Decimal `json:"amount"`
}

func (e *AutomaticDepositMadeEvent) EventType() string { return "AutomaticDepositMadeEvent" }

type WithdrawalMadeEvent struct {
	Event
	EstateID           uuid.UUID       `json:"estateId"`
	WithdrawalID       uuid.UUID       `json:"withdrawalId"`
	WithdrawalDateTime time.Time       `json:"withdrawalDateTime"`
	Amount             decimal.Decimal `json:"amount"`
}

func (e *WithdrawalMadeEvent) EventType() string { return "WithdrawalMadeEvent" }

type SettlementScheduleChangedEvent struct {
	Event
	EstateID           uuid.UUID `json:"estateId"`
	SettlementSchedule int       `json:"settlementSchedule"`
	NextSettlementDate time.Time `json:"nextSettlementDate"`
}

func (e *SettlementScheduleChangedEvent) EventType() string {
	return "SettlementScheduleChangedEvent"
}

// CallbackReceivedEnrichedEvent is raised when an external payment callback has
// been matched to an estate. The callback payload itself is an opaque JSON
// document in CallbackMessage; TypeString discriminates the callback kind.
type CallbackReceivedEnrichedEvent struct {
	Event
	EstateID        uuid.UUID `json:"estateId"`
	TypeString      string    `json:"typeString"`
	MessageFormat   int       `json:"messageFormat"`
	Reference       string    `json:"reference"`
	Destination     string    `json:"destination"`
	CallbackMessage string    `json:"callbackMessage"`
}

func (e *CallbackReceivedEnrichedEvent) EventType() string { return "CallbackReceivedEnrichedEvent" }
