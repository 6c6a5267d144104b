package eventhandling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settleflow/processor/pkg/domain"
)

// recordingHandler remembers which events it saw, tagged by name so tests can
// assert invocation order.
type recordingHandler struct {
	name string
	seen []domain.DomainEvent
}

func (h *recordingHandler) Handle(ctx context.Context, event domain.DomainEvent) domain.Result {
	h.seen = append(h.seen, event)
	return domain.Ok()
}

func testFactory(known map[string]*recordingHandler) HandlerFactory {
	return func(handlerTypeName string) (DomainEventHandler, error) {
		if handler, exists := known[handlerTypeName]; exists {
			return handler, nil
		}
		return nil, errors.New("unknown handler")
	}
}

func newDepositEvent() *domain.ManualDepositMadeEvent {
	return &domain.ManualDepositMadeEvent{
		Event: domain.NewEvent(uuid.New(), time.Now().UTC()),
	}
}

func TestResolverReturnsHandlersInConfigOrder(t *testing.T) {
	first := &recordingHandler{name: "first"}
	second := &recordingHandler{name: "second"}

	resolver, err := NewDomainEventHandlerResolver(
		map[string][]string{
			"ManualDepositMadeEvent": {"first", "second"},
		},
		testFactory(map[string]*recordingHandler{"first": first, "second": second}),
	)
	require.NoError(t, err)

	handlers := resolver.GetHandlersFor(newDepositEvent())
	require.Len(t, handlers, 2)
	assert.Same(t, first, handlers[0].(*recordingHandler))
	assert.Same(t, second, handlers[1].(*recordingHandler))
}

func TestResolverIsDeterministic(t *testing.T) {
	first := &recordingHandler{name: "first"}
	second := &recordingHandler{name: "second"}

	resolver, err := NewDomainEventHandlerResolver(
		map[string][]string{
			"ManualDepositMadeEvent": {"second", "first"},
		},
		testFactory(map[string]*recordingHandler{"first": first, "second": second}),
	)
	require.NoError(t, err)

	event := newDepositEvent()
	reference := resolver.GetHandlersFor(event)
	for range 50 {
		assert.Equal(t, reference, resolver.GetHandlersFor(event))
	}
}

func TestResolverUnconfiguredEventReturnsNil(t *testing.T) {
	resolver, err := NewDomainEventHandlerResolver(
		map[string][]string{},
		testFactory(nil),
	)
	require.NoError(t, err)

	assert.Nil(t, resolver.GetHandlersFor(newDepositEvent()))
}

func TestResolverNilEventReturnsNil(t *testing.T) {
	resolver, err := NewDomainEventHandlerResolver(
		map[string][]string{},
		testFactory(nil),
	)
	require.NoError(t, err)

	assert.Nil(t, resolver.GetHandlersFor(nil))
}

func TestResolverFailsFastOnUnknownHandlerType(t *testing.T) {
	_, err := NewDomainEventHandlerResolver(
		map[string][]string{
			"ManualDepositMadeEvent": {"no-such-handler"},
		},
		testFactory(nil),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedHandlerType)
}

func TestResolverCachesOneInstancePerHandlerType(t *testing.T) {
	created := 0
	factory := func(handlerTypeName string) (DomainEventHandler, error) {
		created++
		return &recordingHandler{name: handlerTypeName}, nil
	}

	resolver, err := NewDomainEventHandlerResolver(
		map[string][]string{
			"ManualDepositMadeEvent":    {"shared"},
			"AutomaticDepositMadeEvent": {"shared"},
			"WithdrawalMadeEvent":       {"shared"},
		},
		factory,
	)
	require.NoError(t, err)
	assert.Equal(t, 1, created, "one instance per distinct handler type name")

	manual := resolver.GetHandlersFor(newDepositEvent())
	withdrawal := resolver.GetHandlersFor(&domain.WithdrawalMadeEvent{
		Event: domain.NewEvent(uuid.New(), time.Now().UTC()),
	})
	require.Len(t, manual, 1)
	require.Len(t, withdrawal, 1)
	assert.Same(t, manual[0].(*recordingHandler), withdrawal[0].(*recordingHandler))
}

func TestHandlerFuncAdapter(t *testing.T) {
	called := false
	handler := DomainEventHandlerFunc(func(ctx context.Context, event domain.DomainEvent) domain.Result {
		called = true
		return domain.Ok()
	})

	result := handler.Handle(context.Background(), newDepositEvent())
	assert.True(t, called)
	assert.True(t, result.Success)
}
