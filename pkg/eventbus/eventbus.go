// Package eventbus publishes and consumes domain events over NATS JetStream.
// Events travel as JSON envelopes carrying the event type name and the raw
// event payload, so consumers can rehydrate concrete types through the
// domain event registry.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/settleflow/processor/pkg/domain"
)

// Envelope is the wire format for a domain event on the bus.
type Envelope struct {
	EventID     uuid.UUID       `json:"eventId"`
	AggregateID uuid.UUID       `json:"aggregateId"`
	EventType   string          `json:"eventType"`
	Timestamp   time.Time       `json:"timestamp"`
	Payload     json.RawMessage `json:"payload"`
}

// Handler processes one envelope. A non-nil error nacks the message for
// redelivery.
type Handler func(ctx context.Context, envelope *Envelope) error

// Config holds configuration for the NATS event bus.
type Config struct {
	// URL is the NATS server URL.
	URL string `yaml:"url"`

	// StreamName is the JetStream stream name for domain events.
	StreamName string `yaml:"streamName"`

	// StreamSubjects are the subjects the stream captures.
	StreamSubjects []string `yaml:"streamSubjects"`

	// MaxAge is how long to retain events in the stream.
	MaxAge time.Duration `yaml:"maxAge"`

	// MaxBytes is the maximum bytes the stream can store.
	MaxBytes int64 `yaml:"maxBytes"`
}

// DefaultConfig returns sensible defaults for the event bus.
func DefaultConfig() Config {
	return Config{
		URL:            nats.DefaultURL,
		StreamName:     "DOMAIN_EVENTS",
		StreamSubjects: []string{"domainevents.>"},
		MaxAge:         7 * 24 * time.Hour,
		MaxBytes:       1024 * 1024 * 1024, // 1 GB
	}
}

// Bus is a NATS JetStream event bus with at-least-once delivery.
type Bus struct {
	nc         *nats.Conn
	js         nats.JetStreamContext
	streamName string
	mu         sync.RWMutex
	subs       map[string]*nats.Subscription
}

// New connects to NATS and ensures the domain event stream exists.
func New(config Config) (*Bus, error) {
	nc, err := nats.Connect(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	bus := &Bus{
		nc:         nc,
		js:         js,
		streamName: config.StreamName,
		subs:       make(map[string]*nats.Subscription),
	}

	if err := bus.ensureStream(config); err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to ensure stream: %w", err)
	}

	return bus, nil
}

func (b *Bus) ensureStream(config Config) error {
	streamConfig := &nats.StreamConfig{
		Name:      config.StreamName,
		Subjects:  config.StreamSubjects,
		Retention: nats.InterestPolicy,
		MaxAge:    config.MaxAge,
		MaxBytes:  config.MaxBytes,
		Storage:   nats.FileStorage,
		Replicas:  1,
	}

	stream, err := b.js.StreamInfo(config.StreamName)
	if err != nil {
		if _, err := b.js.AddStream(streamConfig); err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
		return nil
	}

	if stream.Config.MaxAge != config.MaxAge || stream.Config.MaxBytes != config.MaxBytes {
		if _, err := b.js.UpdateStream(streamConfig); err != nil {
			return fmt.Errorf("failed to update stream: %w", err)
		}
	}

	return nil
}

// Publish publishes domain events to the stream. The event ID doubles as the
// JetStream message ID so redelivered publishes are deduplicated server side.
func (b *Bus) Publish(ctx context.Context, events ...domain.DomainEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to serialize event %s: %w", event.ID(), err)
		}

		envelope := Envelope{
			EventID:     event.ID(),
			AggregateID: event.Aggregate(),
			EventType:   event.EventType(),
			Timestamp:   event.OccurredAt(),
			Payload:     payload,
		}
		data, err := json.Marshal(envelope)
		if err != nil {
			return fmt.Errorf("failed to serialize envelope for event %s: %w", event.ID(), err)
		}

		subject := fmt.Sprintf("domainevents.%s", event.EventType())
		if _, err := b.js.Publish(subject, data, nats.MsgId(event.ID().String()), nats.Context(ctx)); err != nil {
			return fmt.Errorf("failed to publish event %s: %w", event.ID(), err)
		}
	}

	return nil
}

// Subscribe creates a durable queue consumer over all domain events. The
// consumerName must be stable across restarts so delivery resumes where the
// consumer left off.
func (b *Bus) Subscribe(consumerName string, handler Handler) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, err := b.js.QueueSubscribe(
		"domainevents.>",
		consumerName,
		func(msg *nats.Msg) {
			var envelope Envelope
			if err := json.Unmarshal(msg.Data, &envelope); err != nil {
				// Poison message, redelivery cannot help.
				msg.Term()
				return
			}

			if err := handler(context.Background(), &envelope); err != nil {
				msg.Nak()
				return
			}

			msg.Ack()
		},
		nats.Durable(consumerName),
		nats.ManualAck(),
		nats.AckExplicit(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	b.subs[consumerName] = sub

	return &Subscription{
		bus:          b,
		sub:          sub,
		consumerName: consumerName,
	}, nil
}

// Close unsubscribes all consumers and closes the NATS connection.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		sub.Unsubscribe()
	}
	b.nc.Close()

	return nil
}

// Subscription is a handle to a durable consumer.
type Subscription struct {
	bus          *Bus
	sub          *nats.Subscription
	consumerName string
}

// Unsubscribe stops delivery to this consumer.
func (s *Subscription) Unsubscribe() error {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	delete(s.bus.subs, s.consumerName)
	return s.sub.Unsubscribe()
}
