package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
)

// DraftOrderModel is the persistence model for the DraftOrder aggregate.
// The partial unique index allows one non-finalized order per owner.
type DraftOrderModel struct {
	AggregateModel
	OwnerID          uuid.UUID            `gorm:"type:uuid;not null;index:idx_draft_orders_active_owner,unique,where:finalized = false"`
	Finalized        bool                 `gorm:"not null;default:false"`
	StartedAt        time.Time            `gorm:"not null"`
	OrderedAt        *time.Time           `gorm:""`
	BillingAddressID *uuid.UUID           `gorm:"type:uuid;index"`
	PaymentOption    string               `gorm:"type:varchar(20);not null;default:''"`
	Lines            []CartLineModel      `gorm:"foreignKey:DraftOrderID;constraint:OnDelete:CASCADE"`
	BillingAddress   *BillingAddressModel `gorm:"foreignKey:BillingAddressID"`
}

// TableName returns the table name for GORM
func (DraftOrderModel) TableName() string {
	return "draft_orders"
}

// ToDomain converts the persistence model to a domain DraftOrder.
func (m *DraftOrderModel) ToDomain() *cart.DraftOrder {
	order := &cart.DraftOrder{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OwnerID:           m.OwnerID,
		Lines:             make([]cart.CartLine, 0, len(m.Lines)),
		Finalized:         m.Finalized,
		StartedAt:         m.StartedAt,
		OrderedAt:         m.OrderedAt,
		PaymentOption:     cart.PaymentOption(m.PaymentOption),
	}
	for i := range m.Lines {
		order.Lines = append(order.Lines, m.Lines[i].ToDomain())
	}
	if m.BillingAddress != nil {
		order.BillingAddress = m.BillingAddress.ToDomain()
	}
	return order
}

// DraftOrderModelFromDomain maps the order row and its lines. The billing
// address association is left empty; repositories write it separately.
func DraftOrderModelFromDomain(o *cart.DraftOrder) *DraftOrderModel {
	m := &DraftOrderModel{
		OwnerID:       o.OwnerID,
		Finalized:     o.Finalized,
		StartedAt:     o.StartedAt,
		OrderedAt:     o.OrderedAt,
		PaymentOption: string(o.PaymentOption),
		Lines:         make([]CartLineModel, 0, len(o.Lines)),
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	if o.BillingAddress != nil {
		id := o.BillingAddress.ID
		m.BillingAddressID = &id
	}
	for _, l := range o.Lines {
		line := CartLineModelFromDomain(l)
		line.DraftOrderID = o.ID
		line.Finalized = o.Finalized
		m.Lines = append(m.Lines, *line)
	}
	return m
}

// CartLineModel is the persistence model for a cart line.
// The partial unique index allows one active line per owner and product.
type CartLineModel struct {
	BaseModel
	DraftOrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;index:idx_cart_lines_active_product,unique,priority:1,where:finalized = false"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index:idx_cart_lines_active_product,unique,priority:2"`
	Quantity     int       `gorm:"not null;check:chk_cart_lines_quantity,quantity >= 1"`
	Finalized    bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CartLineModel) TableName() string {
	return "cart_lines"
}

// ToDomain converts the persistence model to a domain CartLine.
func (m *CartLineModel) ToDomain() cart.CartLine {
	return cart.CartLine{
		ID:        m.ID,
		OrderID:   m.DraftOrderID,
		OwnerID:   m.OwnerID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Finalized: m.Finalized,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// CartLineModelFromDomain creates a persistence model from a domain CartLine.
func CartLineModelFromDomain(l cart.CartLine) *CartLineModel {
	return &CartLineModel{
		BaseModel: BaseModel{
			ID:        l.ID,
			CreatedAt: l.CreatedAt,
			UpdatedAt: l.UpdatedAt,
		},
		DraftOrderID: l.OrderID,
		OwnerID:      l.OwnerID,
		ProductID:    l.ProductID,
		Quantity:     l.Quantity,
		Finalized:    l.Finalized,
	}
}

// BillingAddressModel is the persistence model for a billing address.
// Rows are insert-only.
type BillingAddressModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	OwnerID          uuid.UUID `gorm:"type:uuid;not null;index"`
	StreetAddress    string    `gorm:"type:varchar(100);not null"`
	ApartmentAddress string    `gorm:"type:varchar(100);not null"`
	Country          string    `gorm:"type:varchar(2);not null"`
	Zip              string    `gorm:"type:varchar(20);not null"`
	CreatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BillingAddressModel) TableName() string {
	return "billing_addresses"
}

// ToDomain converts the persistence model to a domain BillingAddress.
func (m *BillingAddressModel) ToDomain() *cart.BillingAddress {
	return &cart.BillingAddress{
		ID:               m.ID,
		OwnerID:          m.OwnerID,
		StreetAddress:    m.StreetAddress,
		ApartmentAddress: m.ApartmentAddress,
		Country:          m.Country,
		Zip:              m.Zip,
		CreatedAt:        m.CreatedAt,
	}
}

// BillingAddressModelFromDomain creates a persistence model from a domain BillingAddress.
func BillingAddressModelFromDomain(a *cart.BillingAddress) *BillingAddressModel {
	return &BillingAddressModel{
		ID:               a.ID,
		OwnerID:          a.OwnerID,
		StreetAddress:    a.StreetAddress,
		ApartmentAddress: a.ApartmentAddress,
		Country:          a.Country,
		Zip:              a.Zip,
		CreatedAt:        a.CreatedAt,
	}
}
