// Package handlers contains the per-aggregate domain event handlers. Each is
// a stateless dispatch table from event type to a read-model write or a
// follow-up command; unmatched event types are a successful no-op.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/settleflow/processor/pkg/domain"
	"github.com/settleflow/processor/pkg/mediator"
	"github.com/settleflow/processor/pkg/readmodel"
)

// MerchantDomainEventHandler projects merchant events into the read model and
// turns enriched deposit callbacks into deposit commands.
type MerchantDomainEventHandler struct {
	repository readmodel.Repository
	sender     mediator.CommandSender
}

// NewMerchantDomainEventHandler creates the handler.
func NewMerchantDomainEventHandler(repository readmodel.Repository, sender mediator.CommandSender) *MerchantDomainEventHandler {
	return &MerchantDomainEventHandler{repository: repository, sender: sender}
}

// Handle implements eventhandling.DomainEventHandler.
func (h *MerchantDomainEventHandler) Handle(ctx context.Context, event domain.DomainEvent) domain.Result {
	if err := ctx.Err(); err != nil {
		return domain.FromError(err)
	}

	switch e := event.(type) {
	case *domain.MerchantCreatedEvent:
		return domain.FromError(h.repository.AddMerchant(ctx, readmodel.Merchant{
			EstateID:        e.EstateID,
			MerchantID:      e.AggregateID,
			Name:            e.MerchantName,
			CreatedDateTime: e.DateCreated,
			LastUpdated:     e.Timestamp,
		}))

	case *domain.AddressAddedEvent:
		return domain.FromError(h.repository.AddMerchantAddress(ctx, readmodel.MerchantAddress{
			MerchantID:   e.AggregateID,
			AddressID:    e.AddressID,
			AddressLine1: e.AddressLine1,
			AddressLine2: e.AddressLine2,
			Town:         e.Town,
			Region:       e.Region,
			PostalCode:   e.PostalCode,
			Country:      e.Country,
		}))

	case *domain.ContactAddedEvent:
		return domain.FromError(h.repository.AddMerchantContact(ctx, readmodel.MerchantContact{
			MerchantID:   e.AggregateID,
			ContactID:    e.ContactID,
			Name:         e.ContactName,
			EmailAddress: e.ContactEmailAddress,
			PhoneNumber:  e.ContactPhoneNumber,
		}))

	case *domain.OperatorAssignedToMerchantEvent:
		return domain.FromError(h.repository.AddMerchantOperator(ctx, readmodel.MerchantOperator{
			MerchantID:     e.AggregateID,
			OperatorID:     e.OperatorID,
			Name:           e.Name,
			MerchantNumber: e.MerchantNumber,
			TerminalNumber: e.TerminalNumber,
		}))

	case *domain.DeviceAddedToMerchantEvent:
		return domain.FromError(h.repository.AddMerchantDevice(ctx, readmodel.MerchantDevice{
			MerchantID:       e.AggregateID,
			DeviceID:         e.DeviceID,
			DeviceIdentifier: e.DeviceIdentifier,
		}))

	case *domain.MerchantReferenceAllocatedEvent:
		return domain.FromError(h.repository.UpdateMerchantReference(ctx, e.AggregateID, e.MerchantReference))

	case *domain.SettlementScheduleChangedEvent:
		return domain.FromError(h.repository.UpdateMerchantSettlementSchedule(ctx, e.AggregateID, e.SettlementSchedule))

	case *domain.CallbackReceivedEnrichedEvent:
		return h.handleCallbackReceived(ctx, e)

	default:
		return domain.Ok()
	}
}

// depositCallback is the embedded payload of a deposit callback message.
type depositCallback struct {
	Amount          decimal.Decimal `json:"amount"`
	DepositDateTime time.Time       `json:"depositDateTime"`
	AccountNumber   string          `json:"accountNumber"`
}

// handleCallbackReceived turns an enriched deposit callback into a
// MakeMerchantDepositCommand. The callback reference is hyphen delimited with
// the merchant reference in the second segment.
func (h *MerchantDomainEventHandler) handleCallbackReceived(ctx context.Context, e *domain.CallbackReceivedEnrichedEvent) domain.Result {
	if e.TypeString != "Deposit" {
		return domain.Ok()
	}

	segments := strings.Split(e.Reference, "-")
	if len(segments) < 2 {
		return domain.Failuref(domain.CodeInvalid,
			"callback reference %q has no merchant reference segment", e.Reference)
	}
	merchantReference := segments[1]

	merchant, err := h.repository.GetMerchantByReference(ctx, e.EstateID, merchantReference)
	if err != nil {
		if errors.Is(err, readmodel.ErrMerchantNotFound) {
			return domain.Failuref(domain.CodeInvalid,
				"no merchant found for reference %q", merchantReference)
		}
		return domain.FromError(err)
	}

	var callback depositCallback
	if err := json.Unmarshal([]byte(e.CallbackMessage), &callback); err != nil {
		return domain.Failuref(domain.CodeInvalid, "malformed deposit callback payload: %v", err)
	}

	command := domain.MakeMerchantDepositCommand{
		CommandRecord:   domain.NewCommandRecord(merchant.MerchantID),
		EstateID:        e.EstateID,
		MerchantID:      merchant.MerchantID,
		DepositDateTime: callback.DepositDateTime,
		Reference:       e.Reference,
		Amount:          callback.Amount,
	}

	return h.sender.Send(ctx, command)
}
