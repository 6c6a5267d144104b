package domain

import "github.com/google/uuid"

// Operator aggregate events. The aggregate id is the operator id.

type OperatorCreatedEvent struct {
	Event
	EstateID                    uuid.UUID `json:"estateId"`
	Name                        string    `json:"name"`
	RequireCustomMerchantNumber bool      `json:"requireCustomMerchantNumber"`
	RequireCustomTerminalNumber bool      `json:"requireCustomTerminalNumber"`
}

func (e *OperatorCreatedEvent) EventType() string { return "OperatorCreatedEvent" }

type OperatorNameUpdatedEvent struct {
	Event
	EstateID uuid.UUID `json:"estateId"`
	Name     string    `json:"name"`
}

func (e *OperatorNameUpdatedEvent) EventType() string { return "OperatorNameUpdatedEvent" }
