package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// ErrUnknownEventType is returned when decoding a type the codec was not built with
var ErrUnknownEventType = errors.New("unknown event type")

// EventCodec encodes domain events as JSON and decodes them back into their
// concrete cart and catalog event types.
type EventCodec struct {
	types map[string]reflect.Type
}

// NewEventCodec returns a codec that knows every storefront event type
func NewEventCodec() *EventCodec {
	c := &EventCodec{types: make(map[string]reflect.Type)}

	c.register(catalog.EventTypeProductCreated, catalog.ProductCreatedEvent{})

	c.register(cart.EventTypeDraftOrderOpened, cart.DraftOrderOpenedEvent{})
	for _, t := range []string{
		cart.EventTypeCartItemAdded,
		cart.EventTypeCartItemIncremented,
		cart.EventTypeCartLineDecremented,
		cart.EventTypeCartItemRemoved,
	} {
		c.register(t, cart.CartLineEvent{})
	}
	c.register(cart.EventTypeBillingAddressAttached, cart.BillingAddressAttachedEvent{})
	c.register(cart.EventTypePaymentOptionSelected, cart.PaymentOptionSelectedEvent{})
	return c
}

// register maps eventType to the struct type of sample; pointers to it must
// implement shared.DomainEvent
func (c *EventCodec) register(eventType string, sample any) {
	c.types[eventType] = reflect.TypeOf(sample)
}

// Encode serializes an event to JSON
func (c *EventCodec) Encode(evt shared.DomainEvent) ([]byte, error) {
	return json.Marshal(evt)
}

// Decode unmarshals data into the event type registered for eventType
func (c *EventCodec) Decode(eventType string, data []byte) (shared.DomainEvent, error) {
	t, ok := c.types[eventType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, eventType)
	}

	ptr := reflect.New(t).Interface()
	if err := json.Unmarshal(data, ptr); err != nil {
		return nil, fmt.Errorf("decode %s: %w", eventType, err)
	}
	evt, ok := ptr.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("decode %s: %T is not a domain event", eventType, ptr)
	}
	return evt, nil
}
