package domain

import (
	"encoding/json"
	"fmt"
)

// EventFactory returns a fresh, empty instance of a concrete event type,
// ready to be unmarshalled into.
type EventFactory func() DomainEvent

// EventTypeRegistry maps wire type names to concrete event shapes. It is
// built once at startup and immutable afterwards, so it is safe for
// concurrent readers without locking.
type EventTypeRegistry struct {
	factories map[string]EventFactory
}

// NewEventTypeRegistry creates an empty registry.
func NewEventTypeRegistry() *EventTypeRegistry {
	return &EventTypeRegistry{factories: make(map[string]EventFactory)}
}

// Register adds a factory for the given wire type name. Registering the same
// name twice panics; that is a programming error, not a runtime condition.
func (r *EventTypeRegistry) Register(typeName string, factory EventFactory) {
	if _, exists := r.factories[typeName]; exists {
		panic(fmt.Sprintf("event type already registered: %s", typeName))
	}
	r.factories[typeName] = factory
}

// Resolve deserializes a JSON payload into the concrete event registered for
// typeName. An unknown type name is a boundary failure and returns an error.
func (r *EventTypeRegistry) Resolve(typeName string, payload []byte) (DomainEvent, error) {
	factory, exists := r.factories[typeName]
	if !exists {
		return nil, fmt.Errorf("unknown event type: %s", typeName)
	}

	event := factory()
	if err := json.Unmarshal(payload, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", typeName, err)
	}
	return event, nil
}

// Known reports whether the registry can resolve the given type name.
func (r *EventTypeRegistry) Known(typeName string) bool {
	_, exists := r.factories[typeName]
	return exists
}

// NewDefaultRegistry returns a registry covering every event type in this
// package.
func NewDefaultRegistry() *EventTypeRegistry {
	r := NewEventTypeRegistry()

	factories := []EventFactory{
		// Merchant
		func() DomainEvent { return &MerchantCreatedEvent{} },
		func() DomainEvent { return &AddressAddedEvent{} },
		func() DomainEvent { return &ContactAddedEvent{} },
		func() DomainEvent { return &OperatorAssignedToMerchantEvent{} },
		func() DomainEvent { return &DeviceAddedToMerchantEvent{} },
		func() DomainEvent { return &MerchantReferenceAllocatedEvent{} },
		func() DomainEvent { return &ManualDepositMadeEvent{} },
		func() DomainEvent { return &AutomaticDepositMadeEvent{} },
		func() DomainEvent { return &WithdrawalMadeEvent{} },
		func() DomainEvent { return &SettlementScheduleChangedEvent{} },
		func() DomainEvent { return &CallbackReceivedEnrichedEvent{} },

		// Transaction
		func() DomainEvent { return &TransactionHasStartedEvent{} },
		func() DomainEvent { return &AdditionalRequestDataRecordedEvent{} },
		func() DomainEvent { return &AdditionalResponseDataRecordedEvent{} },
		func() DomainEvent { return &TransactionHasBeenLocallyAuthorisedEvent{} },
		func() DomainEvent { return &TransactionHasBeenLocallyDeclinedEvent{} },
		func() DomainEvent { return &TransactionAuthorisedByOperatorEvent{} },
		func() DomainEvent { return &TransactionDeclinedByOperatorEvent{} },
		func() DomainEvent { return &TransactionHasBeenCompletedEvent{} },
		func() DomainEvent { return &MerchantFeeAddedToTransactionEvent{} },
		func() DomainEvent { return &SettledMerchantFeeAddedToTransactionEvent{} },
		func() DomainEvent { return &CustomerEmailReceiptRequestedEvent{} },
		func() DomainEvent { return &TransactionSourceAddedToTransactionEvent{} },

		// Settlement
		func() DomainEvent { return &SettlementCreatedForDateEvent{} },
		func() DomainEvent { return &MerchantFeeAddedPendingSettlementEvent{} },
		func() DomainEvent { return &SettlementProcessingStartedEvent{} },
		func() DomainEvent { return &MerchantFeeSettledEvent{} },
		func() DomainEvent { return &SettlementCompletedEvent{} },

		// Statement
		func() DomainEvent { return &StatementCreatedEvent{} },
		func() DomainEvent { return &TransactionAddedToStatementEvent{} },
		func() DomainEvent { return &SettledFeeAddedToStatementEvent{} },
		func() DomainEvent { return &StatementGeneratedEvent{} },

		// Voucher
		func() DomainEvent { return &VoucherGeneratedEvent{} },
		func() DomainEvent { return &BarcodeAddedEvent{} },
		func() DomainEvent { return &VoucherIssuedEvent{} },
		func() DomainEvent { return &VoucherFullyRedeemedEvent{} },

		// Contract
		func() DomainEvent { return &ContractCreatedEvent{} },
		func() DomainEvent { return &FixedValueProductAddedToContractEvent{} },
		func() DomainEvent { return &VariableValueProductAddedToContractEvent{} },
		func() DomainEvent { return &TransactionFeeForProductAddedToContractEvent{} },
		func() DomainEvent { return &TransactionFeeForProductDisabledEvent{} },

		// Operator
		func() DomainEvent { return &OperatorCreatedEvent{} },
		func() DomainEvent { return &OperatorNameUpdatedEvent{} },

		// Float
		func() DomainEvent { return &FloatCreatedForContractProductEvent{} },
		func() DomainEvent { return &FloatCreditPurchasedEvent{} },
		func() DomainEvent { return &FloatDecreasedByTransactionEvent{} },
	}

	for _, factory := range factories {
		r.Register(factory().EventType(), factory)
	}

	return r
}
