package cart

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeDraftOrder = "DraftOrder"

// Event type constants
const (
	EventTypeDraftOrderOpened       = "DraftOrderOpened"
	EventTypeCartItemAdded          = "CartItemAdded"
	EventTypeCartItemIncremented    = "CartItemIncremented"
	EventTypeCartLineDecremented    = "CartLineDecremented"
	EventTypeCartItemRemoved        = "CartItemRemoved"
	EventTypeBillingAddressAttached = "BillingAddressAttached"
	EventTypePaymentOptionSelected  = "PaymentOptionSelected"
)

// DraftOrderOpenedEvent is raised when an owner's first add-to-cart opens a draft
type DraftOrderOpenedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
}

// NewDraftOrderOpenedEvent creates a new DraftOrderOpenedEvent
func NewDraftOrderOpenedEvent(order *DraftOrder) *DraftOrderOpenedEvent {
	return &DraftOrderOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDraftOrderOpened, AggregateTypeDraftOrder, order.ID, order.OwnerID),
		OrderID:         order.ID,
	}
}

// CartLineEvent carries the state of a single line after a cart mutation.
// It backs the added, incremented, decremented and removed events.
type CartLineEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	LineID    uuid.UUID `json:"line_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

func newCartLineEvent(eventType string, order *DraftOrder, line CartLine) *CartLineEvent {
	return &CartLineEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeDraftOrder, order.ID, order.OwnerID),
		OrderID:         order.ID,
		LineID:          line.ID,
		ProductID:       line.ProductID,
		Quantity:        line.Quantity,
	}
}

// NewCartItemAddedEvent creates the event for a new line
func NewCartItemAddedEvent(order *DraftOrder, line *CartLine) *CartLineEvent {
	return newCartLineEvent(EventTypeCartItemAdded, order, *line)
}

// NewCartItemIncrementedEvent creates the event for a quantity increment
func NewCartItemIncrementedEvent(order *DraftOrder, line *CartLine) *CartLineEvent {
	return newCartLineEvent(EventTypeCartItemIncremented, order, *line)
}

// NewCartLineDecrementedEvent creates the event for a quantity decrement
func NewCartLineDecrementedEvent(order *DraftOrder, line *CartLine) *CartLineEvent {
	return newCartLineEvent(EventTypeCartLineDecremented, order, *line)
}

// NewCartItemRemovedEvent creates the event for a removed line; Quantity is
// the quantity the line had when it was removed
func NewCartItemRemovedEvent(order *DraftOrder, line CartLine) *CartLineEvent {
	return newCartLineEvent(EventTypeCartItemRemoved, order, line)
}

// BillingAddressAttachedEvent is raised when checkout links an address
type BillingAddressAttachedEvent struct {
	shared.BaseDomainEvent
	OrderID          uuid.UUID `json:"order_id"`
	BillingAddressID uuid.UUID `json:"billing_address_id"`
	Country          string    `json:"country"`
}

// NewBillingAddressAttachedEvent creates a new BillingAddressAttachedEvent
func NewBillingAddressAttachedEvent(order *DraftOrder, address *BillingAddress) *BillingAddressAttachedEvent {
	return &BillingAddressAttachedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeBillingAddressAttached, AggregateTypeDraftOrder, order.ID, order.OwnerID),
		OrderID:          order.ID,
		BillingAddressID: address.ID,
		Country:          address.Country,
	}
}

// PaymentOptionSelectedEvent is raised when the owner picks a payment method
type PaymentOptionSelectedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID     `json:"order_id"`
	PaymentOption PaymentOption `json:"payment_option"`
}

// NewPaymentOptionSelectedEvent creates a new PaymentOptionSelectedEvent
func NewPaymentOptionSelectedEvent(order *DraftOrder) *PaymentOptionSelectedEvent {
	return &PaymentOptionSelectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentOptionSelected, AggregateTypeDraftOrder, order.ID, order.OwnerID),
		OrderID:         order.ID,
		PaymentOption:   order.PaymentOption,
	}
}
