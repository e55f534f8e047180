package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// OrderState is the checkout progress of a draft order
type OrderState string

const (
	OrderStateActive          OrderState = "active"
	OrderStateAddressAttached OrderState = "address_attached"
)

// PaymentOption is the payment method picked at checkout
type PaymentOption string

const (
	PaymentOptionStripe PaymentOption = "stripe"
	PaymentOptionPayPal PaymentOption = "paypal"
)

// IsValid reports whether p is a supported payment option
func (p PaymentOption) IsValid() bool {
	return p == PaymentOptionStripe || p == PaymentOptionPayPal
}

// CartLine is one product-quantity pairing in a draft order
type CartLine struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	OwnerID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Finalized bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCartLine creates a line with quantity 1
func NewCartLine(orderID, ownerID, productID uuid.UUID) (*CartLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	now := time.Now()
	return &CartLine{
		ID:        uuid.New(),
		OrderID:   orderID,
		OwnerID:   ownerID,
		ProductID: productID,
		Quantity:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Total returns quantity × price
func (l CartLine) Total(price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// DraftOrder is an owner's active shopping cart.
// An owner has at most one non-finalized draft at a time.
type DraftOrder struct {
	shared.BaseAggregateRoot
	OwnerID        uuid.UUID
	Lines          []CartLine
	Finalized      bool
	StartedAt      time.Time
	OrderedAt      *time.Time
	BillingAddress *BillingAddress
	PaymentOption  PaymentOption
}

// NewDraftOrder opens a new draft order for an owner
func NewDraftOrder(ownerID uuid.UUID) (*DraftOrder, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner cannot be empty")
	}

	order := &DraftOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerID:           ownerID,
		Lines:             make([]CartLine, 0),
	}
	order.StartedAt = order.CreatedAt

	order.AddDomainEvent(NewDraftOrderOpenedEvent(order))

	return order, nil
}

// State returns the checkout state of the order
func (o *DraftOrder) State() OrderState {
	if o.BillingAddress != nil {
		return OrderStateAddressAttached
	}
	return OrderStateActive
}

// AddProduct puts one unit of a product into the cart.
// It increments the existing line when the product is already in the cart and
// reports incremented=true; otherwise it appends a new line with quantity 1.
func (o *DraftOrder) AddProduct(productID uuid.UUID) (line *CartLine, incremented bool, err error) {
	if err := o.ensureModifiable(); err != nil {
		return nil, false, err
	}

	if idx := o.lineIndex(productID); idx >= 0 {
		l := &o.Lines[idx]
		l.Quantity++
		l.UpdatedAt = time.Now()
		o.Touch()
		o.AddDomainEvent(NewCartItemIncrementedEvent(o, l))
		return l, true, nil
	}

	newLine, err := NewCartLine(o.ID, o.OwnerID, productID)
	if err != nil {
		return nil, false, err
	}
	o.Lines = append(o.Lines, *newLine)
	o.Touch()

	l := &o.Lines[len(o.Lines)-1]
	o.AddDomainEvent(NewCartItemAddedEvent(o, l))
	return l, false, nil
}

// RemoveProduct deletes the product's line from the cart whatever its quantity.
// It returns a copy of the removed line.
func (o *DraftOrder) RemoveProduct(productID uuid.UUID) (CartLine, error) {
	if err := o.ensureModifiable(); err != nil {
		return CartLine{}, err
	}

	idx := o.lineIndex(productID)
	if idx < 0 {
		return CartLine{}, shared.ErrLineNotInOrder
	}

	removed := o.Lines[idx]
	o.Lines = append(o.Lines[:idx], o.Lines[idx+1:]...)
	o.Touch()
	o.AddDomainEvent(NewCartItemRemovedEvent(o, removed))

	return removed, nil
}

// DecrementProduct lowers the product's quantity by one. A line at quantity 1
// is removed instead, so a line never reaches quantity 0.
// It returns the line state after the change and whether the line was removed.
func (o *DraftOrder) DecrementProduct(productID uuid.UUID) (line CartLine, removed bool, err error) {
	if err := o.ensureModifiable(); err != nil {
		return CartLine{}, false, err
	}

	idx := o.lineIndex(productID)
	if idx < 0 {
		return CartLine{}, false, shared.ErrLineNotInOrder
	}

	if o.Lines[idx].Quantity <= 1 {
		l, err := o.RemoveProduct(productID)
		return l, true, err
	}

	l := &o.Lines[idx]
	l.Quantity--
	l.UpdatedAt = time.Now()
	o.Touch()
	o.AddDomainEvent(NewCartLineDecrementedEvent(o, l))

	return *l, false, nil
}

// AttachBillingAddress links a freshly created billing address to the order.
// A previously attached address is replaced, never mutated.
func (o *DraftOrder) AttachBillingAddress(address *BillingAddress) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	if address == nil {
		return shared.NewDomainError("INVALID_ADDRESS", "Billing address cannot be empty")
	}
	if address.OwnerID != o.OwnerID {
		return shared.NewDomainError("INVALID_ADDRESS", "Billing address belongs to another owner")
	}

	o.BillingAddress = address
	o.Touch()
	o.AddDomainEvent(NewBillingAddressAttachedEvent(o, address))

	return nil
}

// SelectPaymentOption records the payment method. A billing address must be attached first.
func (o *DraftOrder) SelectPaymentOption(option PaymentOption) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	if !option.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Unsupported payment option: "+string(option))
	}
	if o.State() != OrderStateAddressAttached {
		return shared.NewDomainError(shared.CodeInvalidState, "A billing address is required before choosing a payment option")
	}

	o.PaymentOption = option
	o.Touch()
	o.AddDomainEvent(NewPaymentOptionSelectedEvent(o))

	return nil
}

// LineFor returns the line holding productID, or nil
func (o *DraftOrder) LineFor(productID uuid.UUID) *CartLine {
	if idx := o.lineIndex(productID); idx >= 0 {
		return &o.Lines[idx]
	}
	return nil
}

// ProductIDs returns the product of every line in cart order
func (o *DraftOrder) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(o.Lines))
	for _, l := range o.Lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

// ItemCount returns the number of distinct lines
func (o *DraftOrder) ItemCount() int {
	return len(o.Lines)
}

// TotalQuantity returns the number of units across all lines
func (o *DraftOrder) TotalQuantity() int {
	total := 0
	for _, l := range o.Lines {
		total += l.Quantity
	}
	return total
}

// IsEmpty reports whether the cart has no lines
func (o *DraftOrder) IsEmpty() bool {
	return len(o.Lines) == 0
}

func (o *DraftOrder) lineIndex(productID uuid.UUID) int {
	for idx := range o.Lines {
		if o.Lines[idx].ProductID == productID {
			return idx
		}
	}
	return -1
}

func (o *DraftOrder) ensureModifiable() error {
	if o.Finalized {
		return shared.NewDomainError(shared.CodeInvalidState, "Cannot modify a finalized order")
	}
	return nil
}
