package domain

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is an immutable fact about one aggregate instance.
// Concrete events are plain structs; dispatch is done with type switches
// over the closed set of event types in this package.
type DomainEvent interface {
	// ID returns the unique event identifier (idempotency key).
	ID() uuid.UUID

	// Aggregate returns the identifier of the aggregate this event belongs to.
	Aggregate() uuid.UUID

	// EventType returns the wire type name of the event (e.g. "ManualDepositMadeEvent").
	EventType() string

	// OccurredAt returns the business timestamp of the event.
	OccurredAt() time.Time
}

// Event carries the identity fields every domain event shares.
// Concrete events embed it by value.
type Event struct {
	EventID     uuid.UUID `json:"eventId"`
	AggregateID uuid.UUID `json:"aggregateId"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewEvent creates the shared identity portion of a domain event.
func NewEvent(aggregateID uuid.UUID, occurredAt time.Time) Event {
	return Event{
		EventID:     uuid.New(),
		AggregateID: aggregateID,
		Timestamp:   occurredAt,
	}
}

// ID implements DomainEvent.
func (e Event) ID() uuid.UUID { return e.EventID }

// Aggregate implements DomainEvent.
func (e Event) Aggregate() uuid.UUID { return e.AggregateID }

// OccurredAt implements DomainEvent.
func (e Event) OccurredAt() time.Time { return e.Timestamp }
