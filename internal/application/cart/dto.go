package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
)

// Outcome says which branch a cart mutation took
type Outcome string

const (
	OutcomeOrderCreated Outcome = "order_created"
	OutcomeAdded        Outcome = "added"
	OutcomeIncremented  Outcome = "incremented"
	OutcomeDecremented  Outcome = "decremented"
	OutcomeRemoved      Outcome = "removed"
)

// BillingAddressInput is the checkout form
type BillingAddressInput struct {
	StreetAddress    string `json:"street_address" validate:"required,max=100"`
	ApartmentAddress string `json:"apartment_address" validate:"required,max=100"`
	Country          string `json:"country" validate:"required,iso3166_1_alpha2"`
	Zip              string `json:"zip" validate:"required,max=20,postcode_iso3166_alpha2_field=Country"`
}

// CartLineResponse represents one cart line with its pricing
type CartLineResponse struct {
	LineID         uuid.UUID        `json:"line_id"`
	ProductID      uuid.UUID        `json:"product_id"`
	Slug           string           `json:"slug"`
	Title          string           `json:"title"`
	Quantity       int              `json:"quantity"`
	UnitPrice      decimal.Decimal  `json:"unit_price"`
	DiscountPrice  *decimal.Decimal `json:"discount_price,omitempty"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	LineTotal      decimal.Decimal  `json:"line_total"`
	Saving         decimal.Decimal  `json:"saving"`
}

// BillingAddressResponse represents an attached billing address
type BillingAddressResponse struct {
	ID               uuid.UUID `json:"id"`
	StreetAddress    string    `json:"street_address"`
	ApartmentAddress string    `json:"apartment_address"`
	Country          string    `json:"country"`
	Zip              string    `json:"zip"`
	CreatedAt        time.Time `json:"created_at"`
}

// CartResponse is the order summary of a draft order
type CartResponse struct {
	OrderID        uuid.UUID               `json:"order_id"`
	OwnerID        uuid.UUID               `json:"owner_id"`
	State          string                  `json:"state"`
	Lines          []CartLineResponse      `json:"lines"`
	ItemCount      int                     `json:"item_count"`
	TotalQuantity  int                     `json:"total_quantity"`
	Total          decimal.Decimal         `json:"total"`
	StartedAt      time.Time               `json:"started_at"`
	BillingAddress *BillingAddressResponse `json:"billing_address,omitempty"`
	PaymentOption  string                  `json:"payment_option,omitempty"`
}

// LineState is the state of the touched line after a mutation
type LineState struct {
	LineID    uuid.UUID `json:"line_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Removed   bool      `json:"removed"`
}

// CartResult is returned by every cart mutation
type CartResult struct {
	Outcome Outcome       `json:"outcome"`
	Line    LineState     `json:"line"`
	Cart    *CartResponse `json:"cart"`
	Message Message       `json:"message"`
}

// CheckoutResult is returned by checkout steps
type CheckoutResult struct {
	Cart    *CartResponse `json:"cart"`
	Message Message       `json:"message"`
}

func toLineState(line cart.CartLine, removed bool) LineState {
	return LineState{
		LineID:    line.ID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		Removed:   removed,
	}
}

func toBillingAddressResponse(a *cart.BillingAddress) *BillingAddressResponse {
	if a == nil {
		return nil
	}
	return &BillingAddressResponse{
		ID:               a.ID,
		StreetAddress:    a.StreetAddress,
		ApartmentAddress: a.ApartmentAddress,
		Country:          a.Country,
		Zip:              a.Zip,
		CreatedAt:        a.CreatedAt,
	}
}

func toCartLineResponse(line cart.CartLine, p *catalog.Product) CartLineResponse {
	effective := p.EffectivePrice()
	return CartLineResponse{
		LineID:         line.ID,
		ProductID:      line.ProductID,
		Slug:           p.Slug,
		Title:          p.Title,
		Quantity:       line.Quantity,
		UnitPrice:      p.Price,
		DiscountPrice:  p.DiscountPrice,
		EffectivePrice: effective,
		LineTotal:      line.Total(effective),
		Saving:         line.Total(p.Price).Sub(line.Total(effective)),
	}
}
