package cart

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// BillingAddress is an immutable address captured at checkout.
// Each submission creates a new record.
type BillingAddress struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	StreetAddress    string
	ApartmentAddress string
	Country          string
	Zip              string
	CreatedAt        time.Time
}

// NewBillingAddress creates a billing address. Format rules (country code,
// postal code shape) are checked by the checkout validator before this is
// called; here only presence is enforced.
func NewBillingAddress(ownerID uuid.UUID, street, apartment, country, zip string) (*BillingAddress, error) {
	street = strings.TrimSpace(street)
	apartment = strings.TrimSpace(apartment)
	country = strings.ToUpper(strings.TrimSpace(country))
	zip = strings.TrimSpace(zip)

	verr := shared.NewValidationError()
	if street == "" {
		verr.Add("street_address", "This field is required")
	}
	if apartment == "" {
		verr.Add("apartment_address", "This field is required")
	}
	if country == "" {
		verr.Add("country", "This field is required")
	}
	if zip == "" {
		verr.Add("zip", "This field is required")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	return &BillingAddress{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		StreetAddress:    street,
		ApartmentAddress: apartment,
		Country:          country,
		Zip:              zip,
		CreatedAt:        time.Now(),
	}, nil
}
