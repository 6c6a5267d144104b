package eventhandling

import (
	"errors"
	"fmt"

	"github.com/settleflow/processor/pkg/domain"
)

// ErrUnsupportedHandlerType is returned at construction time when a handler
// type name in the configuration cannot be resolved.
var ErrUnsupportedHandlerType = errors.New("unsupported event handler type")

// HandlerFactory creates a handler instance for a configured handler type
// name, or returns an error when the name is unknown.
type HandlerFactory func(handlerTypeName string) (DomainEventHandler, error)

// DomainEventHandlerResolver maps an incoming event's runtime type to the
// ordered list of handler instances configured for it.
//
// Handler instances are created once at construction and cached for the
// resolver's lifetime. Construction fails fast on any unresolvable handler
// type name so that misconfiguration never surfaces as a per-event failure.
type DomainEventHandlerResolver struct {
	config   map[string][]string
	handlers map[string]DomainEventHandler
}

// NewDomainEventHandlerResolver builds a resolver from a configuration
// mapping of event type name to handler type names.
func NewDomainEventHandlerResolver(config map[string][]string, factory HandlerFactory) (*DomainEventHandlerResolver, error) {
	resolver := &DomainEventHandlerResolver{
		config:   config,
		handlers: make(map[string]DomainEventHandler),
	}

	for eventType, handlerTypes := range config {
		for _, handlerType := range handlerTypes {
			if _, cached := resolver.handlers[handlerType]; cached {
				continue
			}

			handler, err := factory(handlerType)
			if err != nil {
				return nil, fmt.Errorf("%w: %s (configured for event %s): %v",
					ErrUnsupportedHandlerType, handlerType, eventType, err)
			}
			resolver.handlers[handlerType] = handler
		}
	}

	return resolver, nil
}

// GetHandlersFor returns the ordered handler instances configured for the
// event's runtime type, or nil when none are configured.
//
// A nil return covers both an event type absent from the configuration and
// one whose configured handler names all failed to resolve; callers treat
// nil as "no handlers configured" and decide whether that is a warning or a
// no-op. Configured names without a cached instance are skipped silently.
func (r *DomainEventHandlerResolver) GetHandlersFor(event domain.DomainEvent) []DomainEventHandler {
	if event == nil {
		return nil
	}

	handlerTypes, configured := r.config[event.EventType()]
	if !configured {
		return nil
	}

	var handlers []DomainEventHandler
	for _, handlerType := range handlerTypes {
		if handler, cached := r.handlers[handlerType]; cached {
			handlers = append(handlers, handler)
		}
	}

	if len(handlers) == 0 {
		return nil
	}
	return handlers
}
