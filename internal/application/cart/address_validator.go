package cart

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/storefront/backend/internal/domain/shared"
)

// AddressValidator checks checkout form fields and reports every failing
// field at once
type AddressValidator struct {
	validate *validator.Validate
}

// NewAddressValidator creates a validator that names fields by their json tag
func NewAddressValidator() *AddressValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &AddressValidator{validate: v}
}

// Normalize trims every field and upper-cases the country code
func (a *AddressValidator) Normalize(in BillingAddressInput) BillingAddressInput {
	return BillingAddressInput{
		StreetAddress:    strings.TrimSpace(in.StreetAddress),
		ApartmentAddress: strings.TrimSpace(in.ApartmentAddress),
		Country:          strings.ToUpper(strings.TrimSpace(in.Country)),
		Zip:              strings.TrimSpace(in.Zip),
	}
}

// Validate returns a *shared.ValidationError listing each invalid field, or nil.
// The postal code is only checked once the country itself is valid.
func (a *AddressValidator) Validate(in BillingAddressInput) error {
	err := a.validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return shared.NewValidationError(shared.FieldError{Field: "address", Message: err.Error()})
	}

	countryInvalid := false
	for _, fe := range fieldErrs {
		if fe.Field() == "country" {
			countryInvalid = true
		}
	}

	verr := shared.NewValidationError()
	for _, fe := range fieldErrs {
		if fe.Field() == "zip" && fe.Tag() == "postcode_iso3166_alpha2_field" && countryInvalid {
			continue
		}
		verr.Add(fe.Field(), addressMessage(fe))
	}
	return verr
}

func addressMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	case "iso3166_1_alpha2":
		return "Must be a two-letter ISO 3166-1 country code"
	case "postcode_iso3166_alpha2_field":
		return "Invalid postal code for the selected country"
	default:
		return "Invalid value"
	}
}
