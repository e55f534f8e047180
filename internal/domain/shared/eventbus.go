package shared

import "context"

// EventHandler reacts to domain events after they are published
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types to deliver. Nil means every event.
	EventTypes() []string
}

// EventPublisher publishes domain events raised by a saved aggregate
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is an EventPublisher that delivers to subscribed handlers while
// it is running
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
